// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

// Package bootstrap turns a set of freshly started, unauthenticated
// mongod processes into a replica set with administrative users.
//
// A run probes every configured server, initiates the replica set on
// the first one, waits for the set to elect a primary and then creates
// a root user for every configured credential. Running it again
// against an initiated set leaves the members alone and only reports
// (or creates) the users.
package bootstrap

import (
	"context"
	"time"

	"github.com/juju/clock"
	"github.com/juju/errors"
	"github.com/juju/loggo"

	"github.com/juju/mongoinit/config"
	"github.com/juju/mongoinit/mongo"
	"github.com/juju/mongoinit/probe"
	"github.com/juju/mongoinit/users"
)

var logger = loggo.GetLogger("mongoinit.bootstrap")

// Logger is the narration used to report progress to the operator.
type Logger interface {
	Errorf(string, ...interface{})
	Warningf(string, ...interface{})
	Infof(string, ...interface{})
	Debugf(string, ...interface{})
}

// Recorder is told what happened at each step of a run.
type Recorder interface {
	users.Recorder
	ProbeResult(endpoint string, reachable bool)
	InitiateOutcome(outcome string)
}

type noopRecorder struct{}

func (noopRecorder) ProbeResult(string, bool)          {}
func (noopRecorder) InitiateOutcome(string)            {}
func (noopRecorder) UserOutcome(string, users.Outcome) {}

// ProbePolicy decides what unreachable servers mean for a run.
type ProbePolicy string

const (
	// ProbeAdvisory reports unreachable servers and carries on.
	ProbeAdvisory ProbePolicy = "advisory"

	// ProbeRequired stops the run before initiation if any server
	// is unreachable.
	ProbeRequired ProbePolicy = "required"
)

// Params holds everything a run needs.
type Params struct {
	Config *config.Config
	Dial   mongo.Dialer
	Clock  clock.Clock
	Logger Logger

	// Recorder is optional.
	Recorder Recorder

	// ProbePolicy defaults to ProbeAdvisory.
	ProbePolicy ProbePolicy
	ProbeLimit  int

	StableDelay   time.Duration
	StableTimeout time.Duration

	// EnsureUsersWhenInitialized runs the admin user pass even when
	// the replica set was already initiated by an earlier run.
	EnsureUsersWhenInitialized bool
}

// Validate checks the parameters.
func (p Params) Validate() error {
	if p.Config == nil {
		return errors.NotValidf("nil Config")
	}
	if len(p.Config.Servers) == 0 {
		return errors.NotValidf("empty server list")
	}
	if err := p.Config.Topology.Validate(); err != nil {
		return errors.Trace(err)
	}
	if p.Dial == nil {
		return errors.NotValidf("nil Dial")
	}
	if p.Clock == nil {
		return errors.NotValidf("nil Clock")
	}
	if p.Logger == nil {
		return errors.NotValidf("nil Logger")
	}
	switch p.ProbePolicy {
	case "", ProbeAdvisory, ProbeRequired:
	default:
		return errors.NotValidf("probe policy %q", p.ProbePolicy)
	}
	return nil
}

func (p Params) stableParams() StableParams {
	sp := StableParams{
		Clock:   p.Clock,
		Delay:   p.StableDelay,
		Timeout: p.StableTimeout,
	}
	if sp.Delay <= 0 {
		sp.Delay = DefaultStableDelay
	}
	if sp.Timeout <= 0 {
		sp.Timeout = DefaultStableTimeout
	}
	return sp
}

// Result summarises a run.
type Result struct {
	Probes   []probe.Result
	Initiate InitiateOutcome
	Users    []UserResult
}

// Run bootstraps the replica set described by p.Config. The returned
// error is only non-nil for failures that should stop the process:
// unreachable servers under ProbeRequired, failing to reach the first
// server, initiation errors and a replica set that never stabilizes.
// Per-user failures are reported through the logger and in the result.
func Run(ctx context.Context, p Params) (*Result, error) {
	if err := p.Validate(); err != nil {
		return nil, errors.Trace(err)
	}
	recorder := p.Recorder
	if recorder == nil {
		recorder = noopRecorder{}
	}
	result := &Result{}

	p.Logger.Infof("Testing connections...")
	result.Probes = probe.All(ctx, p.Dial, p.Config.Endpoints(), p.ProbeLimit)
	for _, r := range result.Probes {
		recorder.ProbeResult(r.Endpoint.String(), r.Reachable)
		if r.Reachable {
			p.Logger.Infof("Connected to %s successfully (no auth).", r.Endpoint)
		} else {
			p.Logger.Warningf("Error connecting to %s: %v", r.Endpoint, r.Err)
		}
	}
	if unreachable := probe.Unreachable(result.Probes); len(unreachable) > 0 && p.ProbePolicy == ProbeRequired {
		return result, errors.Errorf("%d of %d servers unreachable", len(unreachable), len(result.Probes))
	}
	if err := ctx.Err(); err != nil {
		return result, errors.Trace(err)
	}

	p.Logger.Infof("Initializing replica set...")
	outcome, err := initiate(p)
	result.Initiate = outcome
	recorder.InitiateOutcome(string(outcome))
	if err != nil {
		return result, errors.Trace(err)
	}
	if outcome == AlreadyInitialized && !p.EnsureUsersWhenInitialized {
		return result, nil
	}
	if err := ctx.Err(); err != nil {
		return result, errors.Trace(err)
	}

	p.Logger.Infof("Creating admin users...")
	topology := p.Config.Topology
	info := mongo.ReplicaSetInfo(topology.Name, topology.Addresses()...)
	opts := mongo.DefaultDialOpts()
	opts.Direct = false
	session, err := p.Dial(info, opts)
	if err != nil {
		p.Logger.Errorf("Error connecting to replica set %s: %v", topology.Name, err)
		return result, errors.Annotatef(err, "connecting to replica set %q", topology.Name)
	}
	defer session.Close()

	result.Users = EnsureAdminUsers(session, p.Config.Servers, p.Logger, recorder)
	return result, nil
}

// initiate runs replSetInitiate against the first configured server
// and, when the set is new, waits for it to settle.
func initiate(p Params) (InitiateOutcome, error) {
	primary := p.Config.Primary().Endpoint
	session, err := p.Dial(mongo.DirectInfo(primary), mongo.DefaultDialOpts())
	if err != nil {
		p.Logger.Errorf("Error connecting to %s: %v", primary, err)
		return InitiateFailed, errors.Annotatef(err, "connecting to %s", primary)
	}
	defer session.Close()

	outcome, err := Initiate(session, p.Config.Topology)
	switch outcome {
	case AlreadyInitialized:
		p.Logger.Infof("Replica set already initialized.")
		return outcome, nil
	case InitiateFailed:
		p.Logger.Errorf("Replica set initiation error: %v", err)
		return outcome, errors.Trace(err)
	}
	p.Logger.Infof("Replica set %s initiated successfully.", p.Config.Topology.Name)

	p.Logger.Infof("Waiting for replica set to stabilize...")
	status, err := WaitForStable(session, p.stableParams())
	if err != nil {
		p.Logger.Errorf("Replica set did not stabilize: %v", err)
		return outcome, errors.Trace(err)
	}
	p.Logger.Infof("Replica set is stable, primary is %s.", Primary(status))
	return outcome, nil
}
