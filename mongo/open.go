// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package mongo

import (
	"fmt"
	"net"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/juju/errors"
	"github.com/juju/loggo"
	"github.com/juju/mgo/v3"
)

var logger = loggo.GetLogger("mongoinit.mongo")

const (
	// AdminDatabase is the database that holds cluster wide users and
	// against which replica set commands are issued.
	AdminDatabase = "admin"

	// DefaultReplicaSetName is the name used for the replica set when
	// nothing else is configured.
	DefaultReplicaSetName = "rs0"

	// DefaultDialTimeout is how long to wait for a server to be selected
	// before giving up.
	DefaultDialTimeout = 5 * time.Second

	// SocketTimeout should be long enough that even a slow mongo server
	// will respond in that length of time.
	SocketTimeout = 21 * time.Second
)

// Endpoint identifies a single mongod process.
type Endpoint struct {
	Host string
	Port int
}

// String returns the endpoint in host:port form.
func (e Endpoint) String() string {
	return net.JoinHostPort(e.Host, strconv.Itoa(e.Port))
}

// ParseEndpoint parses a host:port string.
func ParseEndpoint(hostPort string) (Endpoint, error) {
	host, portStr, err := net.SplitHostPort(hostPort)
	if err != nil {
		return Endpoint{}, errors.NotValidf("address %q", hostPort)
	}
	if host == "" {
		return Endpoint{}, errors.NotValidf("empty host in address %q", hostPort)
	}
	port, err := strconv.Atoi(portStr)
	if err != nil || port < 1 || port > 65535 {
		return Endpoint{}, errors.NotValidf("port in address %q", hostPort)
	}
	return Endpoint{Host: host, Port: port}, nil
}

// Info holds the addressing information needed to connect to
// a mongo server or replica set.
type Info struct {
	// Addrs holds the host:port addresses to dial.
	Addrs []string

	// ReplicaSet, when set, names the replica set the servers belong to.
	// It is ignored for direct connections.
	ReplicaSet string

	// Database is the database named in the connection URI. Commands
	// are run against the database supplied to Session.Run.
	Database string
}

// DialOpts holds configuration parameters that control the
// dialing behaviour when connecting to a mongo server.
type DialOpts struct {
	// Direct talks to exactly one server rather than discovering
	// the full topology.
	Direct bool

	// Timeout is the amount of time to wait for a server to be
	// selected. Zero means DefaultDialTimeout.
	Timeout time.Duration

	// SocketTimeout is the amount of time to wait for a
	// non-responding socket to the database before it is forcefully
	// closed. Zero means SocketTimeout.
	SocketTimeout time.Duration
}

// DefaultDialOpts returns a DialOpts representing the default
// parameters for contacting a single node without credentials.
func DefaultDialOpts() DialOpts {
	return DialOpts{
		Direct:        true,
		Timeout:       DefaultDialTimeout,
		SocketTimeout: SocketTimeout,
	}
}

func (opts DialOpts) timeout() time.Duration {
	if opts.Timeout <= 0 {
		return DefaultDialTimeout
	}
	return opts.Timeout
}

func (opts DialOpts) socketTimeout() time.Duration {
	if opts.SocketTimeout <= 0 {
		return SocketTimeout
	}
	return opts.SocketTimeout
}

// DirectInfo returns the Info for talking to a single endpoint.
func DirectInfo(ep Endpoint) Info {
	return Info{
		Addrs:    []string{ep.String()},
		Database: AdminDatabase,
	}
}

// ReplicaSetInfo returns the Info for talking to the named replica set
// through any of the given member addresses.
func ReplicaSetInfo(name string, addrs ...string) Info {
	return Info{
		Addrs:      addrs,
		ReplicaSet: name,
		Database:   AdminDatabase,
	}
}

// DialInfo returns information on how to dial
// the state's mongo server with the given info
// and dial options.
func DialInfo(info Info, opts DialOpts) (*mgo.DialInfo, error) {
	if len(info.Addrs) == 0 {
		return nil, errors.New("no mongo addresses")
	}
	if opts.Direct && len(info.Addrs) > 1 {
		return nil, errors.NotValidf("direct connection to %d addresses", len(info.Addrs))
	}
	dialInfo := &mgo.DialInfo{
		Addrs:    info.Addrs,
		Direct:   opts.Direct,
		Timeout:  opts.timeout(),
		FailFast: true,
		Database: info.Database,
	}
	if !opts.Direct {
		dialInfo.ReplicaSetName = info.ReplicaSet
	}
	return dialInfo, nil
}

// URI renders the connection string equivalent to dialing info with
// opts. It is used for reporting only; no credentials are ever included.
func URI(info Info, opts DialOpts) string {
	query := url.Values{}
	if opts.Direct {
		query.Set("directConnection", "true")
	} else if info.ReplicaSet != "" {
		query.Set("replicaSet", info.ReplicaSet)
	}
	query.Set("serverSelectionTimeoutMS", strconv.FormatInt(opts.timeout().Milliseconds(), 10))
	return fmt.Sprintf("mongodb://%s/%s?%s",
		strings.Join(info.Addrs, ","), info.Database, query.Encode())
}

// Dialer opens a session described by info and opts.
type Dialer func(info Info, opts DialOpts) (Session, error)

// Dial connects to the mongo servers described by info using
// the driver. It satisfies Dialer.
func Dial(info Info, opts DialOpts) (Session, error) {
	dialInfo, err := DialInfo(info, opts)
	if err != nil {
		return nil, errors.Trace(err)
	}
	logger.Debugf("dialing %s", URI(info, opts))
	session, err := mgo.DialWithInfo(dialInfo)
	if err != nil {
		return nil, errors.Annotatef(err, "cannot connect to %s", strings.Join(info.Addrs, ","))
	}
	session.SetSocketTimeout(opts.socketTimeout())
	if opts.Direct {
		// A lone node that is not yet part of a replica set is neither
		// primary nor secondary; monotonic mode lets us talk to it.
		session.SetMode(mgo.Monotonic, true)
	}
	return &mgoSession{session: session}, nil
}
