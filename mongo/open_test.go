// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package mongo_test

import (
	"time"

	"github.com/juju/errors"
	jujutesting "github.com/juju/testing"
	jc "github.com/juju/testing/checkers"
	gc "gopkg.in/check.v1"

	"github.com/juju/mongoinit/mongo"
)

type openSuite struct {
	jujutesting.IsolationSuite
}

var _ = gc.Suite(&openSuite{})

func (s *openSuite) TestEndpointString(c *gc.C) {
	c.Check(mongo.Endpoint{Host: "127.0.0.1", Port: 27030}.String(), gc.Equals, "127.0.0.1:27030")
	c.Check(mongo.Endpoint{Host: "::1", Port: 27031}.String(), gc.Equals, "[::1]:27031")
}

func (s *openSuite) TestParseEndpoint(c *gc.C) {
	ep, err := mongo.ParseEndpoint("10.0.0.1:27017")
	c.Assert(err, jc.ErrorIsNil)
	c.Check(ep, jc.DeepEquals, mongo.Endpoint{Host: "10.0.0.1", Port: 27017})

	for _, addr := range []string{"10.0.0.1", ":27017", "host:0", "host:70000", "host:port"} {
		_, err := mongo.ParseEndpoint(addr)
		c.Check(err, jc.Satisfies, errors.IsNotValid, gc.Commentf("address %q", addr))
	}
}

func (s *openSuite) TestDialInfoDirect(c *gc.C) {
	info := mongo.DirectInfo(mongo.Endpoint{Host: "127.0.0.1", Port: 27030})
	dialInfo, err := mongo.DialInfo(info, mongo.DefaultDialOpts())
	c.Assert(err, jc.ErrorIsNil)
	c.Check(dialInfo.Addrs, jc.DeepEquals, []string{"127.0.0.1:27030"})
	c.Check(dialInfo.Direct, jc.IsTrue)
	c.Check(dialInfo.FailFast, jc.IsTrue)
	c.Check(dialInfo.Timeout, gc.Equals, 5*time.Second)
	c.Check(dialInfo.Database, gc.Equals, "admin")
	c.Check(dialInfo.ReplicaSetName, gc.Equals, "")
}

func (s *openSuite) TestDialInfoReplicaSet(c *gc.C) {
	info := mongo.ReplicaSetInfo("rs0", "a:1", "b:2")
	dialInfo, err := mongo.DialInfo(info, mongo.DialOpts{Timeout: time.Second})
	c.Assert(err, jc.ErrorIsNil)
	c.Check(dialInfo.Addrs, jc.DeepEquals, []string{"a:1", "b:2"})
	c.Check(dialInfo.Direct, jc.IsFalse)
	c.Check(dialInfo.ReplicaSetName, gc.Equals, "rs0")
	c.Check(dialInfo.Timeout, gc.Equals, time.Second)
}

func (s *openSuite) TestDialInfoErrors(c *gc.C) {
	_, err := mongo.DialInfo(mongo.Info{}, mongo.DefaultDialOpts())
	c.Check(err, gc.ErrorMatches, "no mongo addresses")

	_, err = mongo.DialInfo(mongo.ReplicaSetInfo("rs0", "a:1", "b:2"), mongo.DefaultDialOpts())
	c.Check(err, jc.Satisfies, errors.IsNotValid)
}

func (s *openSuite) TestDefaultTimeouts(c *gc.C) {
	timeout, socketTimeout := mongo.EffectiveTimeouts(mongo.DialOpts{})
	c.Check(timeout, gc.Equals, mongo.DefaultDialTimeout)
	c.Check(socketTimeout, gc.Equals, mongo.SocketTimeout)
}

func (s *openSuite) TestURI(c *gc.C) {
	direct := mongo.URI(mongo.DirectInfo(mongo.Endpoint{Host: "127.0.0.1", Port: 27030}), mongo.DefaultDialOpts())
	c.Check(direct, gc.Equals, "mongodb://127.0.0.1:27030/admin?directConnection=true&serverSelectionTimeoutMS=5000")

	rs := mongo.URI(mongo.ReplicaSetInfo("rs0", "127.0.0.1:27030", "127.0.0.1:27031"), mongo.DialOpts{})
	c.Check(rs, gc.Equals, "mongodb://127.0.0.1:27030,127.0.0.1:27031/admin?replicaSet=rs0&serverSelectionTimeoutMS=5000")
}
