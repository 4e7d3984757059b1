// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package commands

import (
	"fmt"
	"io"

	"github.com/juju/cmd/v3"
	"github.com/juju/errors"
	"github.com/juju/gnuflag"
	"github.com/juju/replicaset/v3"

	mongoinitcmd "github.com/juju/mongoinit/cmd"
	"github.com/juju/mongoinit/cmd/output"
	"github.com/juju/mongoinit/mongo"
)

const statusDoc = `
Shows the members of the replica set as seen by one of its nodes.

The default tabular output marks the node the status was read from
with an asterisk.
`

const statusExamples = `
    mongoinit replicaset-status
    mongoinit replicaset-status --address 127.0.0.1:27031 --format yaml
`

func newStatusCommand(dial mongo.Dialer) cmd.Command {
	return &statusCommand{dial: dial}
}

// statusCommand prints the replica set status.
type statusCommand struct {
	cmd.CommandBase
	out cmd.Output

	dial     mongo.Dialer
	address  string
	endpoint mongo.Endpoint
}

// Info implements Command.
func (c *statusCommand) Info() *cmd.Info {
	return mongoinitcmd.Info(&cmd.Info{
		Name:     "replicaset-status",
		Purpose:  "Show the members of the replica set.",
		Doc:      statusDoc,
		Examples: statusExamples,
		SeeAlso: []string{
			"init-replicaset",
		},
	})
}

// SetFlags implements Command.
func (c *statusCommand) SetFlags(f *gnuflag.FlagSet) {
	c.CommandBase.SetFlags(f)
	f.StringVar(&c.address, "address", mongo.DefaultMemberAddresses[0], "host:port of the node to ask")
	c.out.AddFlags(f, "tabular", map[string]cmd.Formatter{
		"yaml":    cmd.FormatYaml,
		"json":    cmd.FormatJson,
		"tabular": formatStatusTabular,
	})
}

// Init implements Command.
func (c *statusCommand) Init(args []string) (err error) {
	if c.endpoint, err = mongo.ParseEndpoint(c.address); err != nil {
		return errors.Trace(err)
	}
	return cmd.CheckEmpty(args)
}

// ReplicaSetStatus is the printable replica set status.
type ReplicaSetStatus struct {
	Name    string         `yaml:"name" json:"name"`
	Members []MemberStatus `yaml:"members" json:"members"`
}

// MemberStatus is the printable status of one member.
type MemberStatus struct {
	Id      int    `yaml:"id" json:"id"`
	Address string `yaml:"address" json:"address"`
	State   string `yaml:"state" json:"state"`
	Healthy bool   `yaml:"healthy" json:"healthy"`
	Self    bool   `yaml:"self,omitempty" json:"self,omitempty"`
}

func formatStatus(status *replicaset.Status) ReplicaSetStatus {
	out := ReplicaSetStatus{Name: status.Name}
	for _, m := range status.Members {
		out.Members = append(out.Members, MemberStatus{
			Id:      m.Id,
			Address: m.Address,
			State:   m.State.String(),
			Healthy: m.Healthy,
			Self:    m.Self,
		})
	}
	return out
}

// Run implements Command.
func (c *statusCommand) Run(ctx *cmd.Context) error {
	session, err := c.dial(mongo.DirectInfo(c.endpoint), mongo.DefaultDialOpts())
	if err != nil {
		return errors.Annotatef(err, "connecting to %s", c.endpoint)
	}
	defer session.Close()

	status, err := session.ReplicaSetStatus()
	if err != nil {
		return errors.Annotatef(err, "reading replica set status from %s", c.endpoint)
	}
	return c.out.Write(ctx, formatStatus(status))
}

func formatStatusTabular(writer io.Writer, value interface{}) error {
	status, ok := value.(ReplicaSetStatus)
	if !ok {
		return errors.Errorf("expected value of type %T, got %T", status, value)
	}
	tw := output.TabWriter(writer)
	w := output.Wrapper{TabWriter: tw}

	fmt.Fprintf(tw, "Replica set: %s\n\n", status.Name)
	w.PrintHeaders(output.EmphasisHighlight.Bold, "ID", "Address", "State", "Health")
	for _, m := range status.Members {
		address := m.Address
		if m.Self {
			address += "*"
		}
		health := "unhealthy"
		if m.Healthy {
			health = "healthy"
		}
		w.Print(m.Id)
		if m.Self {
			w.PrintColor(output.CurrentHighlight, address)
		} else {
			w.Print(address)
		}
		w.PrintState(m.State)
		w.Println(health)
	}
	return errors.Trace(tw.Flush())
}
