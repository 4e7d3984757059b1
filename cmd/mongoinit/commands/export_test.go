// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package commands

import (
	"github.com/juju/clock"
	"github.com/juju/cmd/v3"

	"github.com/juju/mongoinit/mongo"
)

func NewMongoinitCommandForTest(dial mongo.Dialer, clock clock.Clock) cmd.Command {
	return newMongoinitCommand(dial, clock)
}

func NewInitReplicaSetCommandForTest(dial mongo.Dialer, clock clock.Clock) cmd.Command {
	return newInitReplicaSetCommand(dial, clock)
}

func NewCreateAppUserCommandForTest(dial mongo.Dialer) cmd.Command {
	return newCreateAppUserCommand(dial)
}

func NewStatusCommandForTest(dial mongo.Dialer) cmd.Command {
	return newStatusCommand(dial)
}
