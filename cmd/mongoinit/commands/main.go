// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

// Package commands holds the mongoinit sub-commands.
package commands

import (
	"fmt"
	"os"

	"github.com/juju/clock"
	"github.com/juju/cmd/v3"
	"github.com/juju/loggo"

	mongoinitcmd "github.com/juju/mongoinit/cmd"
	"github.com/juju/mongoinit/mongo"
)

var logger = loggo.GetLogger("mongoinit.cmd.mongoinit")

var mongoinitDoc = `
mongoinit prepares a set of freshly started mongod processes for use.

It initiates the replica set, creates the administrative users listed
in the servers file and provisions the application user.
`

// Main registers subcommands for the mongoinit executable and hands
// over control to the cmd package. It returns the process exit code.
func Main(args []string) int {
	ctx, err := cmd.DefaultContext()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 2
	}
	return cmd.Main(NewMongoinitCommand(), ctx, args[1:])
}

// NewMongoinitCommand returns the super command with every
// sub-command registered.
func NewMongoinitCommand() cmd.Command {
	return newMongoinitCommand(mongo.Dial, clock.WallClock)
}

func newMongoinitCommand(dial mongo.Dialer, clock clock.Clock) cmd.Command {
	super := mongoinitcmd.NewSuperCommand(cmd.SuperCommandParams{
		Name: "mongoinit",
		Doc:  mongoinitDoc,
	})
	registerCommands(super, dial, clock)
	return super
}

type commandRegistry interface {
	Register(cmd.Command)
}

// registerCommands registers commands in the specified registry.
func registerCommands(r commandRegistry, dial mongo.Dialer, clock clock.Clock) {
	r.Register(newInitReplicaSetCommand(dial, clock))
	r.Register(newCreateAppUserCommand(dial))
	r.Register(newStatusCommand(dial))
}
