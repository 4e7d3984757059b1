// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package mongo

import (
	"github.com/juju/errors"
	"github.com/juju/mgo/v3"
	"github.com/juju/replicaset/v3"
)

// Session is the subset of a mongo session used to bootstrap a
// cluster. It is implemented by the driver session returned from
// Dial and by the fakes in mongo/testing.
type Session interface {
	// Ping checks that the server is alive.
	Ping() error

	// Run issues cmd against the named database, unmarshalling
	// the reply into result when result is not nil.
	Run(db string, cmd, result interface{}) error

	// ReplicaSetStatus returns the output of replSetGetStatus.
	ReplicaSetStatus() (*replicaset.Status, error)

	// Close releases the session.
	Close()
}

type mgoSession struct {
	session *mgo.Session
}

// Ping is part of the Session interface.
func (s *mgoSession) Ping() error {
	return errors.Trace(s.session.Ping())
}

// Run is part of the Session interface.
func (s *mgoSession) Run(db string, cmd, result interface{}) error {
	return s.session.DB(db).Run(cmd, result)
}

// ReplicaSetStatus is part of the Session interface.
func (s *mgoSession) ReplicaSetStatus() (*replicaset.Status, error) {
	return replicaset.CurrentStatus(s.session)
}

// Close is part of the Session interface.
func (s *mgoSession) Close() {
	s.session.Close()
}
