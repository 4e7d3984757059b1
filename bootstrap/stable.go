// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package bootstrap

import (
	"time"

	"github.com/juju/clock"
	"github.com/juju/errors"
	"github.com/juju/replicaset/v3"
	"github.com/juju/retry"
	"github.com/kr/pretty"

	"github.com/juju/mongoinit/mongo"
)

const (
	// DefaultStableDelay is the pause between replica set status polls.
	DefaultStableDelay = time.Second

	// DefaultStableTimeout bounds the wait for a new replica set to
	// elect a primary and bring every member up.
	DefaultStableTimeout = time.Minute
)

// StableParams controls WaitForStable.
type StableParams struct {
	Clock   clock.Clock
	Delay   time.Duration
	Timeout time.Duration
}

// Validate checks the parameters.
func (p StableParams) Validate() error {
	if p.Clock == nil {
		return errors.NotValidf("nil Clock")
	}
	if p.Delay <= 0 {
		return errors.NotValidf("non-positive Delay")
	}
	if p.Timeout <= 0 {
		return errors.NotValidf("non-positive Timeout")
	}
	return nil
}

// WaitForStable polls the replica set status over session until a
// primary has been elected and every member is healthy and serving.
// It returns the last status seen. When p.Timeout elapses first the
// error satisfies errors.Is(err, errors.Timeout).
func WaitForStable(session mongo.Session, p StableParams) (*replicaset.Status, error) {
	if err := p.Validate(); err != nil {
		return nil, errors.Trace(err)
	}
	var status *replicaset.Status
	err := retry.Call(retry.CallArgs{
		Func: func() error {
			current, err := session.ReplicaSetStatus()
			if err != nil {
				return errors.Trace(err)
			}
			status = current
			logger.Tracef("replica set status: %s", pretty.Sprint(current))
			return CheckStable(current)
		},
		NotifyFunc: func(err error, attempt int) {
			logger.Debugf("replica set not stable after %d attempts: %v", attempt, err)
		},
		Attempts:    -1,
		Delay:       p.Delay,
		MaxDuration: p.Timeout,
		Clock:       p.Clock,
	})
	if retry.IsDurationExceeded(err) {
		return status, errors.Timeoutf("replica set stabilization after %v (%v)", p.Timeout, retry.LastError(err))
	}
	if err != nil {
		return status, errors.Trace(err)
	}
	return status, nil
}

// CheckStable returns nil if status has a primary and every member is
// healthy and in a serving state.
func CheckStable(status *replicaset.Status) error {
	if status == nil || len(status.Members) == 0 {
		return errors.New("no members reported")
	}
	primary := false
	for _, m := range status.Members {
		if !m.Healthy {
			return errors.Errorf("member %d (%s) is not healthy", m.Id, m.Address)
		}
		switch m.State {
		case replicaset.PrimaryState:
			primary = true
		case replicaset.SecondaryState, replicaset.ArbiterState:
		default:
			return errors.Errorf("member %d (%s) is %s", m.Id, m.Address, m.State)
		}
	}
	if !primary {
		return errors.New("no primary elected")
	}
	return nil
}

// Primary returns the address of the primary in status, if any.
func Primary(status *replicaset.Status) string {
	if status == nil {
		return ""
	}
	for _, m := range status.Members {
		if m.State == replicaset.PrimaryState {
			return m.Address
		}
	}
	return ""
}
