// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package mongo

import (
	"github.com/juju/collections/set"
	"github.com/juju/errors"
	"github.com/juju/replicaset/v3"
)

// DefaultMemberAddresses are the members of the replica set created
// when no other topology is configured.
var DefaultMemberAddresses = []string{
	"127.0.0.1:27030",
	"127.0.0.1:27031",
	"127.0.0.1:27032",
}

// Topology describes the replica set to initiate.
type Topology struct {
	Name    string
	Members []replicaset.Member
}

// NewTopology returns a topology with one member per address. Member
// ids are assigned in order starting from zero.
func NewTopology(name string, addrs []string) Topology {
	members := make([]replicaset.Member, len(addrs))
	for i, addr := range addrs {
		members[i] = replicaset.Member{
			Id:      i,
			Address: addr,
		}
	}
	return Topology{
		Name:    name,
		Members: members,
	}
}

// DefaultTopology returns the three member rs0 topology.
func DefaultTopology() Topology {
	return NewTopology(DefaultReplicaSetName, DefaultMemberAddresses)
}

// Addresses returns the host:port of every member, in member order.
func (t Topology) Addresses() []string {
	addrs := make([]string, len(t.Members))
	for i, m := range t.Members {
		addrs[i] = m.Address
	}
	return addrs
}

// Config returns the replica set configuration document sent with
// replSetInitiate.
func (t Topology) Config() replicaset.Config {
	return replicaset.Config{
		Name:    t.Name,
		Version: 1,
		Members: t.Members,
	}
}

// Validate checks that member ids are sequential from zero and that
// no address appears twice.
func (t Topology) Validate() error {
	if t.Name == "" {
		return errors.NotValidf("empty replica set name")
	}
	if len(t.Members) == 0 {
		return errors.NotValidf("replica set %q with no members", t.Name)
	}
	seen := set.NewStrings()
	for i, m := range t.Members {
		if m.Id != i {
			return errors.NotValidf("member %d with id %d", i, m.Id)
		}
		if _, err := ParseEndpoint(m.Address); err != nil {
			return errors.Annotatef(err, "member %d", i)
		}
		if seen.Contains(m.Address) {
			return errors.NotValidf("duplicate member address %q", m.Address)
		}
		seen.Add(m.Address)
	}
	return nil
}
