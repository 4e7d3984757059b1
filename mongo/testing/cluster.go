// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package testing

import (
	"fmt"
	"sort"
	"sync"

	"github.com/juju/collections/set"
	"github.com/juju/errors"
	"github.com/juju/mgo/v3"
	"github.com/juju/mgo/v3/bson"
	"github.com/juju/replicaset/v3"
	jujutesting "github.com/juju/testing"

	"github.com/juju/mongoinit/mongo"
)

// User records a user created through a fake session.
type User struct {
	Name     string
	Password string
	Roles    interface{}
}

// Cluster is an in-memory stand-in for a set of mongod processes. It
// understands just enough of ping, replSetInitiate, replSetGetStatus
// and createUser to exercise the bootstrap flow, and records every
// dial and command on its Stub.
type Cluster struct {
	jujutesting.Stub

	mu sync.Mutex

	// Unreachable holds addresses that cannot be dialed.
	Unreachable set.Strings

	// Errors holds errors returned from commands, keyed by command
	// name or, for createUser, by "createUser:<name>".
	Errors map[string]error

	// SettlePolls is the number of replSetGetStatus calls that
	// report a set without a primary before it settles.
	SettlePolls int

	// NeverSettle keeps the set without a primary forever.
	NeverSettle bool

	config      *replicaset.Config
	users       map[string]map[string]User
	statusCalls int
	commands    map[string]int
}

// NewCluster returns an empty, uninitiated cluster.
func NewCluster() *Cluster {
	return &Cluster{
		Unreachable: set.NewStrings(),
		Errors:      make(map[string]error),
		users:       make(map[string]map[string]User),
		commands:    make(map[string]int),
	}
}

// Dial satisfies mongo.Dialer.
func (c *Cluster) Dial(info mongo.Info, opts mongo.DialOpts) (mongo.Session, error) {
	c.AddCall("Dial", info, opts)
	if _, err := mongo.DialInfo(info, opts); err != nil {
		return nil, errors.Trace(err)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, addr := range info.Addrs {
		if !c.Unreachable.Contains(addr) {
			return &session{cluster: c, addr: addr}, nil
		}
	}
	return nil, errors.Errorf("no reachable servers")
}

// Initiate marks the replica set as already configured.
func (c *Cluster) Initiate(cfg replicaset.Config) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.config = &cfg
}

// Config returns the configuration the set was initiated with,
// or nil.
func (c *Cluster) Config() *replicaset.Config {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.config
}

// AddUser adds a user as though it had been created earlier.
func (c *Cluster) AddUser(db, name, password string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.addUser(db, User{Name: name, Password: password})
}

// Users returns the sorted user names held in db.
func (c *Cluster) Users(db string) []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	var names []string
	for name := range c.users[db] {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// User returns the named user in db.
func (c *Cluster) User(db, name string) (User, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	u, ok := c.users[db][name]
	return u, ok
}

// CommandCount returns how many times the named command was run.
func (c *Cluster) CommandCount(name string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.commands[name]
}

func (c *Cluster) addUser(db string, u User) {
	if c.users[db] == nil {
		c.users[db] = make(map[string]User)
	}
	c.users[db][u.Name] = u
}

func (c *Cluster) run(addr, db string, cmd interface{}) error {
	doc, ok := cmd.(bson.D)
	if !ok || len(doc) == 0 {
		return errors.Errorf("unexpected command %#v", cmd)
	}
	name := doc[0].Name

	c.mu.Lock()
	defer c.mu.Unlock()
	c.commands[name]++
	if err := c.Errors[name]; err != nil {
		return err
	}
	switch name {
	case "ping":
		return nil
	case "replSetInitiate":
		if c.config != nil {
			return &mgo.QueryError{Code: 23, Message: "already initialized"}
		}
		cfg, ok := doc[0].Value.(replicaset.Config)
		if !ok {
			return errors.Errorf("unexpected replSetInitiate config %T", doc[0].Value)
		}
		c.config = &cfg
		return nil
	case "createUser":
		user := User{Name: fmt.Sprint(doc[0].Value)}
		for _, elem := range doc[1:] {
			switch elem.Name {
			case "pwd":
				user.Password = fmt.Sprint(elem.Value)
			case "roles":
				user.Roles = elem.Value
			}
		}
		if err := c.Errors["createUser:"+user.Name]; err != nil {
			return err
		}
		if _, exists := c.users[db][user.Name]; exists {
			return &mgo.QueryError{
				Code:    51003,
				Message: fmt.Sprintf("User %q already exists", user.Name+"@"+db),
			}
		}
		c.addUser(db, user)
		return nil
	}
	return &mgo.QueryError{Code: 59, Message: fmt.Sprintf("no such command: '%s'", name)}
}

func (c *Cluster) status(addr string) (*replicaset.Status, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.Errors["replSetGetStatus"]; err != nil {
		return nil, err
	}
	if c.config == nil {
		return nil, &mgo.QueryError{Code: 94, Message: "no replset config has been received"}
	}
	c.statusCalls++
	settled := !c.NeverSettle && c.statusCalls > c.SettlePolls
	status := &replicaset.Status{Name: c.config.Name}
	for i, m := range c.config.Members {
		state := replicaset.MemberState(replicaset.StartupState)
		if settled {
			state = replicaset.SecondaryState
			if i == 0 {
				state = replicaset.PrimaryState
			}
		}
		status.Members = append(status.Members, replicaset.MemberStatus{
			Id:      m.Id,
			Address: m.Address,
			Self:    m.Address == addr,
			Healthy: settled,
			State:   state,
		})
	}
	return status, nil
}

type session struct {
	cluster *Cluster
	addr    string
}

// Ping is part of the mongo.Session interface.
func (s *session) Ping() error {
	s.cluster.AddCall("Ping", s.addr)
	return s.cluster.run(s.addr, mongo.AdminDatabase, bson.D{{Name: "ping", Value: 1}})
}

// Run is part of the mongo.Session interface.
func (s *session) Run(db string, cmd, result interface{}) error {
	s.cluster.AddCall("Run", s.addr, db, cmd)
	return s.cluster.run(s.addr, db, cmd)
}

// ReplicaSetStatus is part of the mongo.Session interface.
func (s *session) ReplicaSetStatus() (*replicaset.Status, error) {
	s.cluster.AddCall("ReplicaSetStatus", s.addr)
	return s.cluster.status(s.addr)
}

// Close is part of the mongo.Session interface.
func (s *session) Close() {
	s.cluster.AddCall("Close", s.addr)
}
