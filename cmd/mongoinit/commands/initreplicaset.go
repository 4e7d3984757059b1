// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package commands

import (
	"context"
	"time"

	"github.com/juju/clock"
	"github.com/juju/cmd/v3"
	"github.com/juju/errors"
	"github.com/juju/gnuflag"

	"github.com/juju/mongoinit/bootstrap"
	mongoinitcmd "github.com/juju/mongoinit/cmd"
	"github.com/juju/mongoinit/config"
	"github.com/juju/mongoinit/metrics"
	"github.com/juju/mongoinit/mongo"
	"github.com/juju/mongoinit/probe"
)

const initReplicaSetDoc = `
Initiates the replica set on the first server listed in the servers
file and creates a root user for every server's credentials.

Every server is probed first. Unreachable servers are reported and the
run carries on, unless --require-reachable is given. Once initiated the
set is polled until a primary is elected, for at most
--stabilize-timeout.

Running the command again against an initiated set does not change its
configuration. Users that already exist are reported and left alone.
`

const initReplicaSetExamples = `
    mongoinit init-replicaset
    mongoinit init-replicaset --config /etc/mongoinit/servers.yml --require-reachable
    mongoinit init-replicaset --metrics-file /var/lib/node-exporter/mongoinit.prom
`

func newInitReplicaSetCommand(dial mongo.Dialer, clock clock.Clock) cmd.Command {
	return &initReplicaSetCommand{
		dial:  dial,
		clock: clock,
	}
}

// initReplicaSetCommand bootstraps the replica set described by a
// servers file.
type initReplicaSetCommand struct {
	cmd.CommandBase

	dial  mongo.Dialer
	clock clock.Clock

	configPath       string
	requireReachable bool
	probeLimit       int
	stabilizeTimeout time.Duration
	ensureUsers      bool
	metricsFile      string
}

// Info implements Command.
func (c *initReplicaSetCommand) Info() *cmd.Info {
	return mongoinitcmd.Info(&cmd.Info{
		Name:     "init-replicaset",
		Purpose:  "Initiate the replica set and create its administrative users.",
		Doc:      initReplicaSetDoc,
		Examples: initReplicaSetExamples,
		SeeAlso: []string{
			"create-app-user",
			"replicaset-status",
		},
	})
}

// SetFlags implements Command.
func (c *initReplicaSetCommand) SetFlags(f *gnuflag.FlagSet) {
	c.CommandBase.SetFlags(f)
	f.StringVar(&c.configPath, "config", config.DefaultPath, "path to the servers file")
	f.BoolVar(&c.requireReachable, "require-reachable", false, "stop before initiating if any server is unreachable")
	f.IntVar(&c.probeLimit, "probe-limit", probe.DefaultLimit, "maximum number of servers probed at once")
	f.DurationVar(&c.stabilizeTimeout, "stabilize-timeout", bootstrap.DefaultStableTimeout, "how long to wait for a new replica set to elect a primary")
	f.BoolVar(&c.ensureUsers, "ensure-users", true, "create missing users even when the replica set was already initiated")
	f.StringVar(&c.metricsFile, "metrics-file", "", "write Prometheus metrics to this file")
}

// Init implements Command.
func (c *initReplicaSetCommand) Init(args []string) error {
	if c.configPath == "" {
		return errors.New("empty --config")
	}
	if c.probeLimit < 1 {
		return errors.Errorf("--probe-limit must be at least 1, got %d", c.probeLimit)
	}
	if c.stabilizeTimeout <= 0 {
		return errors.Errorf("--stabilize-timeout must be positive, got %v", c.stabilizeTimeout)
	}
	return cmd.CheckEmpty(args)
}

// Run implements Command.
func (c *initReplicaSetCommand) Run(ctx *cmd.Context) error {
	cfg, err := config.Load(ctx.AbsPath(c.configPath))
	if err != nil {
		return errors.Trace(err)
	}
	logger.Debugf("initiating %s from %d servers", mongo.URI(mongo.ReplicaSetInfo(cfg.Topology.Name, cfg.Topology.Addresses()...), mongo.DialOpts{}), len(cfg.Servers))

	policy := bootstrap.ProbeAdvisory
	if c.requireReachable {
		policy = bootstrap.ProbeRequired
	}
	collector := metrics.NewCollector()
	defer writeMetrics(ctx, collector, c.metricsFile)

	result, err := bootstrap.Run(context.Background(), bootstrap.Params{
		Config:                     cfg,
		Dial:                       c.dial,
		Clock:                      c.clock,
		Logger:                     contextLogger{ctx: ctx},
		Recorder:                   collector,
		ProbePolicy:                policy,
		ProbeLimit:                 c.probeLimit,
		StableTimeout:              c.stabilizeTimeout,
		EnsureUsersWhenInitialized: c.ensureUsers,
	})
	if err != nil {
		return errors.Trace(err)
	}
	if failed := bootstrap.UsersFailed(result.Users); failed > 0 {
		logger.Warningf("%d of %d admin users could not be created", failed, len(result.Users))
	}
	return nil
}
