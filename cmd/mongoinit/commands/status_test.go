// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package commands_test

import (
	"github.com/juju/cmd/v3"
	"github.com/juju/cmd/v3/cmdtesting"
	jujutesting "github.com/juju/testing"
	jc "github.com/juju/testing/checkers"
	gc "gopkg.in/check.v1"

	"github.com/juju/mongoinit/cmd/mongoinit/commands"
	"github.com/juju/mongoinit/mongo"
	mongotesting "github.com/juju/mongoinit/mongo/testing"
)

type statusSuite struct {
	jujutesting.IsolationSuite

	cluster *mongotesting.Cluster
}

var _ = gc.Suite(&statusSuite{})

func (s *statusSuite) SetUpTest(c *gc.C) {
	s.IsolationSuite.SetUpTest(c)
	s.cluster = mongotesting.NewCluster()
	s.cluster.Initiate(mongo.DefaultTopology().Config())
}

func (s *statusSuite) run(c *gc.C, args ...string) (*cmd.Context, error) {
	return cmdtesting.RunCommand(c, commands.NewStatusCommandForTest(s.cluster.Dial), args...)
}

func (s *statusSuite) TestTabular(c *gc.C) {
	ctx, err := s.run(c)
	c.Assert(err, jc.ErrorIsNil)
	c.Check(cmdtesting.Stdout(ctx), gc.Equals, `
Replica set: rs0

ID  Address           State      Health
0   127.0.0.1:27030*  PRIMARY    healthy
1   127.0.0.1:27031   SECONDARY  healthy
2   127.0.0.1:27032   SECONDARY  healthy
`[1:])
}

func (s *statusSuite) TestYAML(c *gc.C) {
	s.cluster.NeverSettle = true
	ctx, err := s.run(c, "--address", "127.0.0.1:27031", "--format", "yaml")
	c.Assert(err, jc.ErrorIsNil)
	c.Check(cmdtesting.Stdout(ctx), jc.YAMLEquals, commands.ReplicaSetStatus{
		Name: "rs0",
		Members: []commands.MemberStatus{
			{Id: 0, Address: "127.0.0.1:27030", State: "STARTUP"},
			{Id: 1, Address: "127.0.0.1:27031", State: "STARTUP", Self: true},
			{Id: 2, Address: "127.0.0.1:27032", State: "STARTUP"},
		},
	})
	s.cluster.CheckCall(c, 0, "Dial", mongo.DirectInfo(mongo.Endpoint{Host: "127.0.0.1", Port: 27031}), mongo.DefaultDialOpts())
}

func (s *statusSuite) TestJSON(c *gc.C) {
	ctx, err := s.run(c, "--format", "json")
	c.Assert(err, jc.ErrorIsNil)
	c.Check(cmdtesting.Stdout(ctx), jc.Contains, `{"name":"rs0","members":[{"id":0,"address":"127.0.0.1:27030","state":"PRIMARY","healthy":true,"self":true},`)
}

func (s *statusSuite) TestConnectionFailure(c *gc.C) {
	s.cluster.Unreachable.Add("127.0.0.1:27030")
	_, err := s.run(c)
	c.Assert(err, gc.ErrorMatches, "connecting to 127.0.0.1:27030: no reachable servers")
}

func (s *statusSuite) TestNotInitiated(c *gc.C) {
	s.cluster = mongotesting.NewCluster()
	_, err := s.run(c)
	c.Assert(err, gc.ErrorMatches, "reading replica set status from 127.0.0.1:27030: no replset config has been received")
	s.cluster.CheckCallNames(c, "Dial", "ReplicaSetStatus", "Close")
}

func (s *statusSuite) TestBadAddress(c *gc.C) {
	err := cmdtesting.InitCommand(commands.NewStatusCommandForTest(s.cluster.Dial), []string{"--address", "nope"})
	c.Assert(err, gc.ErrorMatches, `address "nope" not valid`)
}
