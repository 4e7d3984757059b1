// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package commands

import (
	"github.com/juju/cmd/v3"
	"github.com/juju/errors"
	"github.com/juju/gnuflag"

	mongoinitcmd "github.com/juju/mongoinit/cmd"
	"github.com/juju/mongoinit/metrics"
	"github.com/juju/mongoinit/mongo"
	"github.com/juju/mongoinit/users"
)

const createAppUserDoc = `
Creates the application user on a replica set member that has no
authentication enabled yet.

The command always exits successfully once its options are valid. A
user that already exists is reported, and so is any failure to connect
or to create the user.
`

const createAppUserExamples = `
    mongoinit create-app-user
    mongoinit create-app-user --user reporting --password s3cret --role read --db reports
    mongoinit create-app-user --host 10.0.0.4 --port 27017 --direct
`

func newCreateAppUserCommand(dial mongo.Dialer) cmd.Command {
	return &createAppUserCommand{dial: dial}
}

// createAppUserCommand provisions the application user.
type createAppUserCommand struct {
	cmd.CommandBase

	dial mongo.Dialer

	host        string
	port        int
	replicaSet  string
	direct      bool
	user        users.Spec
	metricsFile string
}

// Info implements Command.
func (c *createAppUserCommand) Info() *cmd.Info {
	return mongoinitcmd.Info(&cmd.Info{
		Name:     "create-app-user",
		Purpose:  "Create the application user.",
		Doc:      createAppUserDoc,
		Examples: createAppUserExamples,
		SeeAlso: []string{
			"init-replicaset",
		},
	})
}

// SetFlags implements Command.
func (c *createAppUserCommand) SetFlags(f *gnuflag.FlagSet) {
	c.CommandBase.SetFlags(f)
	defaults := users.DefaultAppUser()
	f.StringVar(&c.host, "host", users.DefaultAppEndpoint.Host, "host of the node to connect to")
	f.IntVar(&c.port, "port", users.DefaultAppEndpoint.Port, "port of the node to connect to")
	f.StringVar(&c.replicaSet, "replica-set", mongo.DefaultReplicaSetName, "name of the replica set the node belongs to")
	f.BoolVar(&c.direct, "direct", false, "connect to the node alone, without replica set discovery")
	f.StringVar(&c.user.Database, "db", defaults.Database, "database to create the user in")
	f.StringVar(&c.user.Username, "user", defaults.Username, "name of the user")
	f.StringVar(&c.user.Password, "password", defaults.Password, "password of the user")
	f.StringVar(&c.user.Role, "role", defaults.Role, "role granted on the database")
	f.StringVar(&c.metricsFile, "metrics-file", "", "write Prometheus metrics to this file")
}

// Init implements Command.
func (c *createAppUserCommand) Init(args []string) error {
	c.user.RoleDatabase = c.user.Database
	if err := c.params(contextLogger{}, nil).Validate(); err != nil {
		return errors.Trace(err)
	}
	return cmd.CheckEmpty(args)
}

func (c *createAppUserCommand) params(log users.Logger, recorder users.Recorder) users.AppUserParams {
	return users.AppUserParams{
		Endpoint:   mongo.Endpoint{Host: c.host, Port: c.port},
		ReplicaSet: c.replicaSet,
		Direct:     c.direct,
		DialOpts:   mongo.DefaultDialOpts(),
		User:       c.user,
		Dial:       c.dial,
		Logger:     log,
		Recorder:   recorder,
	}
}

// Run implements Command.
func (c *createAppUserCommand) Run(ctx *cmd.Context) error {
	collector := metrics.NewCollector()
	defer writeMetrics(ctx, collector, c.metricsFile)

	_, err := users.ProvisionAppUser(c.params(contextLogger{ctx: ctx}, collector))
	return errors.Trace(err)
}
