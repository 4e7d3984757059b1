// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package bootstrap

import (
	"github.com/juju/errors"
	"github.com/juju/mgo/v3/bson"

	"github.com/juju/mongoinit/mongo"
)

// InitiateOutcome describes the result of replSetInitiate.
type InitiateOutcome string

const (
	Initiated          InitiateOutcome = "initiated"
	AlreadyInitialized InitiateOutcome = "already-initialized"
	InitiateFailed     InitiateOutcome = "failed"
)

// InitiateCommand returns the replSetInitiate command for topology.
func InitiateCommand(topology mongo.Topology) bson.D {
	return bson.D{{Name: "replSetInitiate", Value: topology.Config()}}
}

// Initiate issues a single replSetInitiate over session, which must
// be a direct connection to one of the members. A set that is already
// configured is reported as AlreadyInitialized with a nil error and
// is left untouched.
func Initiate(session mongo.Session, topology mongo.Topology) (InitiateOutcome, error) {
	if err := topology.Validate(); err != nil {
		return InitiateFailed, errors.Trace(err)
	}
	logger.Debugf("initiating replica set %q with members %v", topology.Name, topology.Addresses())

	var result bson.M
	err := session.Run(mongo.AdminDatabase, InitiateCommand(topology), &result)
	switch {
	case err == nil:
		logger.Tracef("replSetInitiate returned %v", result)
		return Initiated, nil
	case mongo.IsAlreadyInitialized(err):
		return AlreadyInitialized, nil
	default:
		return InitiateFailed, errors.Annotatef(err, "cannot initiate replica set %q", topology.Name)
	}
}
