// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package bootstrap_test

import (
	"time"

	"github.com/juju/clock"
	"github.com/juju/errors"
	"github.com/juju/replicaset/v3"
	jujutesting "github.com/juju/testing"
	jc "github.com/juju/testing/checkers"
	gc "gopkg.in/check.v1"

	"github.com/juju/mongoinit/bootstrap"
	"github.com/juju/mongoinit/mongo"
	mongotesting "github.com/juju/mongoinit/mongo/testing"
)

type StableSuite struct {
	jujutesting.IsolationSuite

	cluster *mongotesting.Cluster
	session mongo.Session
}

var _ = gc.Suite(&StableSuite{})

func (s *StableSuite) SetUpTest(c *gc.C) {
	s.IsolationSuite.SetUpTest(c)
	s.cluster = mongotesting.NewCluster()
	session, err := s.cluster.Dial(mongo.DirectInfo(mongo.Endpoint{Host: "127.0.0.1", Port: 27030}), mongo.DefaultDialOpts())
	c.Assert(err, jc.ErrorIsNil)
	s.session = session
	s.cluster.ResetCalls()
}

func (s *StableSuite) params(timeout time.Duration) bootstrap.StableParams {
	return bootstrap.StableParams{
		Clock:   clock.WallClock,
		Delay:   time.Millisecond,
		Timeout: timeout,
	}
}

func (s *StableSuite) TestWaitForStable(c *gc.C) {
	s.cluster.Initiate(mongo.DefaultTopology().Config())
	s.cluster.SettlePolls = 3

	status, err := bootstrap.WaitForStable(s.session, s.params(time.Minute))
	c.Assert(err, jc.ErrorIsNil)
	c.Check(bootstrap.Primary(status), gc.Equals, "127.0.0.1:27030")
	c.Check(status.Members, gc.HasLen, 3)

	calls := 0
	for _, call := range s.cluster.Calls() {
		if call.FuncName == "ReplicaSetStatus" {
			calls++
		}
	}
	c.Check(calls, gc.Equals, 4)
}

func (s *StableSuite) TestWaitForStableTimeout(c *gc.C) {
	s.cluster.Initiate(mongo.DefaultTopology().Config())
	s.cluster.NeverSettle = true

	status, err := bootstrap.WaitForStable(s.session, s.params(50*time.Millisecond))
	c.Check(err, gc.ErrorMatches, `replica set stabilization after 50ms \(member 0 \(127.0.0.1:27030\) is not healthy\) timeout`)
	c.Check(errors.Is(err, errors.Timeout), jc.IsTrue)
	c.Assert(status, gc.NotNil)
	c.Check(bootstrap.Primary(status), gc.Equals, "")
}

func (s *StableSuite) TestWaitForStableStatusError(c *gc.C) {
	// The set has not been initiated, so every poll fails.
	_, err := bootstrap.WaitForStable(s.session, s.params(20*time.Millisecond))
	c.Check(err, gc.ErrorMatches, `replica set stabilization after 20ms \(no replset config has been received\) timeout`)
	c.Check(errors.Is(err, errors.Timeout), jc.IsTrue)
}

func (s *StableSuite) TestValidate(c *gc.C) {
	for i, test := range []struct {
		params bootstrap.StableParams
		err    string
	}{{
		params: bootstrap.StableParams{Delay: time.Second, Timeout: time.Second},
		err:    "nil Clock not valid",
	}, {
		params: bootstrap.StableParams{Clock: clock.WallClock, Timeout: time.Second},
		err:    "non-positive Delay not valid",
	}, {
		params: bootstrap.StableParams{Clock: clock.WallClock, Delay: time.Second},
		err:    "non-positive Timeout not valid",
	}} {
		c.Logf("test %d", i)
		_, err := bootstrap.WaitForStable(s.session, test.params)
		c.Check(err, gc.ErrorMatches, test.err)
	}
	s.cluster.CheckNoCalls(c)
}

func member(id int, state replicaset.MemberState, healthy bool) replicaset.MemberStatus {
	return replicaset.MemberStatus{
		Id:      id,
		Address: mongo.DefaultMemberAddresses[id],
		Healthy: healthy,
		State:   state,
	}
}

func (s *StableSuite) TestCheckStable(c *gc.C) {
	for i, test := range []struct {
		about   string
		members []replicaset.MemberStatus
		err     string
	}{{
		about: "no members",
		err:   "no members reported",
	}, {
		about: "stable",
		members: []replicaset.MemberStatus{
			member(0, replicaset.PrimaryState, true),
			member(1, replicaset.SecondaryState, true),
			member(2, replicaset.ArbiterState, true),
		},
	}, {
		about: "unhealthy member",
		members: []replicaset.MemberStatus{
			member(0, replicaset.PrimaryState, true),
			member(1, replicaset.SecondaryState, false),
		},
		err: `member 1 \(127.0.0.1:27031\) is not healthy`,
	}, {
		about: "member still starting",
		members: []replicaset.MemberStatus{
			member(0, replicaset.PrimaryState, true),
			member(1, replicaset.StartupState, true),
		},
		err: `member 1 \(127.0.0.1:27031\) is STARTUP`,
	}, {
		about: "no primary",
		members: []replicaset.MemberStatus{
			member(0, replicaset.SecondaryState, true),
			member(1, replicaset.SecondaryState, true),
		},
		err: "no primary elected",
	}} {
		c.Logf("test %d: %s", i, test.about)
		err := bootstrap.CheckStable(&replicaset.Status{Name: "rs0", Members: test.members})
		if test.err == "" {
			c.Check(err, jc.ErrorIsNil)
		} else {
			c.Check(err, gc.ErrorMatches, test.err)
		}
	}
	c.Check(bootstrap.CheckStable(nil), gc.ErrorMatches, "no members reported")
}
