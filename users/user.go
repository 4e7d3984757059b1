// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package users

import (
	"github.com/juju/errors"
	"github.com/juju/loggo"
	"github.com/juju/mgo/v3/bson"

	"github.com/juju/mongoinit/mongo"
)

var logger = loggo.GetLogger("mongoinit.users")

// Roles understood by this package.
const (
	// RoleRoot grants unrestricted access to the cluster.
	RoleRoot = "root"

	// RoleReadWrite grants read and write access to one database.
	RoleReadWrite = "readWrite"
)

// Outcome describes what happened to a single createUser request.
type Outcome string

const (
	Created       Outcome = "created"
	AlreadyExists Outcome = "already-exists"
	Failed        Outcome = "failed"
)

// Spec describes a user to create.
type Spec struct {
	Username string
	Password string

	// Database is the database the user is defined in.
	Database string

	// Role is granted on RoleDatabase. An empty RoleDatabase grants a
	// built-in role by name alone, as is done for root on admin.
	Role         string
	RoleDatabase string
}

// Validate checks that the spec names a user, a database and a role.
func (s Spec) Validate() error {
	if s.Username == "" {
		return errors.NotValidf("empty username")
	}
	if s.Password == "" {
		return errors.NotValidf("empty password for user %q", s.Username)
	}
	if s.Database == "" {
		return errors.NotValidf("empty database for user %q", s.Username)
	}
	if s.Role == "" {
		return errors.NotValidf("empty role for user %q", s.Username)
	}
	return nil
}

// RootUser returns the spec of an administrative user with the root
// role on the admin database.
func RootUser(username, password string) Spec {
	return Spec{
		Username: username,
		Password: password,
		Database: mongo.AdminDatabase,
		Role:     RoleRoot,
	}
}

func (s Spec) roles() []interface{} {
	if s.RoleDatabase == "" {
		return []interface{}{s.Role}
	}
	return []interface{}{bson.D{
		{Name: "role", Value: s.Role},
		{Name: "db", Value: s.RoleDatabase},
	}}
}

// CreateCommand returns the createUser command document for spec.
func CreateCommand(spec Spec) bson.D {
	return bson.D{
		{Name: "createUser", Value: spec.Username},
		{Name: "pwd", Value: spec.Password},
		{Name: "roles", Value: spec.roles()},
	}
}

// Create issues a single createUser for spec. A user that already
// exists is reported as AlreadyExists with a nil error; any other
// failure is returned as Failed with the cause.
func Create(session mongo.Session, spec Spec) (Outcome, error) {
	if err := spec.Validate(); err != nil {
		return Failed, errors.Trace(err)
	}
	logger.Debugf("creating user %q on %q with role %q", spec.Username, spec.Database, spec.Role)
	err := session.Run(spec.Database, CreateCommand(spec), nil)
	switch {
	case err == nil:
		return Created, nil
	case mongo.IsAlreadyExists(err):
		return AlreadyExists, nil
	default:
		return Failed, errors.Trace(err)
	}
}
