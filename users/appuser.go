// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package users

import (
	"github.com/juju/errors"

	"github.com/juju/mongoinit/mongo"
)

// Logger is the narration used to report progress to the operator.
type Logger interface {
	Errorf(string, ...interface{})
	Warningf(string, ...interface{})
	Infof(string, ...interface{})
	Debugf(string, ...interface{})
}

// Recorder is told the outcome of every user creation.
type Recorder interface {
	UserOutcome(kind string, outcome Outcome)
}

// KindApplication labels outcomes of the application user.
const KindApplication = "application"

// DefaultAppUser returns the application user created when no other
// details are supplied.
func DefaultAppUser() Spec {
	return Spec{
		Username:     "appuser",
		Password:     "appuserpassword",
		Database:     "appdb",
		Role:         RoleReadWrite,
		RoleDatabase: "appdb",
	}
}

// DefaultAppEndpoint is the node contacted by the provisioner.
var DefaultAppEndpoint = mongo.Endpoint{Host: "127.0.0.1", Port: 27030}

// AppUserParams holds what is needed to provision the application user.
type AppUserParams struct {
	// Endpoint is the node to connect to.
	Endpoint mongo.Endpoint

	// ReplicaSet names the replica set Endpoint belongs to. It is
	// ignored when Direct is true.
	ReplicaSet string

	// Direct talks to Endpoint alone, without replica set discovery.
	Direct bool

	// DialOpts controls timeouts. Direct is derived from the fields
	// above.
	DialOpts mongo.DialOpts

	User     Spec
	Dial     mongo.Dialer
	Logger   Logger
	Recorder Recorder
}

// Validate checks the parameters.
func (p AppUserParams) Validate() error {
	if p.Endpoint.Host == "" {
		return errors.NotValidf("empty host")
	}
	if p.Endpoint.Port < 1 || p.Endpoint.Port > 65535 {
		return errors.NotValidf("port %d", p.Endpoint.Port)
	}
	if err := p.User.Validate(); err != nil {
		return errors.Trace(err)
	}
	if p.Dial == nil {
		return errors.NotValidf("nil Dial")
	}
	if p.Logger == nil {
		return errors.NotValidf("nil Logger")
	}
	return nil
}

func (p AppUserParams) dialTarget() (mongo.Info, mongo.DialOpts) {
	opts := p.DialOpts
	opts.Direct = p.Direct || p.ReplicaSet == ""
	info := mongo.DirectInfo(p.Endpoint)
	if !opts.Direct {
		info = mongo.ReplicaSetInfo(p.ReplicaSet, p.Endpoint.String())
	}
	return info, opts
}

// ProvisionAppUser connects without credentials and creates the
// application user. Failing to connect or to create the user is
// reported through the logger and as a Failed outcome; only invalid
// parameters return an error.
func ProvisionAppUser(p AppUserParams) (Outcome, error) {
	if err := p.Validate(); err != nil {
		return Failed, errors.Trace(err)
	}
	outcome := provisionAppUser(p)
	if p.Recorder != nil {
		p.Recorder.UserOutcome(KindApplication, outcome)
	}
	return outcome, nil
}

func provisionAppUser(p AppUserParams) Outcome {
	info, opts := p.dialTarget()
	p.Logger.Debugf("connecting to %s", mongo.URI(info, opts))
	session, err := p.Dial(info, opts)
	if err != nil {
		p.Logger.Errorf("Failed to create user: %v", err)
		return Failed
	}
	defer session.Close()

	user := p.User
	outcome, err := Create(session, user)
	switch outcome {
	case Created:
		p.Logger.Infof("User '%s' created with %s role on database '%s'.", user.Username, user.Role, user.Database)
	case AlreadyExists:
		p.Logger.Infof("User '%s' already exists.", user.Username)
	default:
		p.Logger.Errorf("Failed to create user: %v", err)
	}
	return outcome
}
