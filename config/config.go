// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

// Package config reads the description of the servers to bootstrap.
//
// The file is YAML with a top level "servers" list. Each server has a
// host, a port and the credentials of the administrative user created
// for it once the replica set exists. An optional "replica-set" block
// overrides the name and members of the replica set:
//
//	servers:
//	  - host: 127.0.0.1
//	    port: 27030
//	    user: mongo-0
//	    password: mongo-0
//	replica-set:
//	  name: rs0
//	  members: [127.0.0.1:27030, 127.0.0.1:27031, 127.0.0.1:27032]
package config

import (
	"fmt"
	"os"

	"github.com/juju/errors"
	"github.com/juju/loggo"
	"github.com/juju/schema"
	"gopkg.in/yaml.v2"

	"github.com/juju/mongoinit/mongo"
)

var logger = loggo.GetLogger("mongoinit.config")

// DefaultPath is the file read when no other path is given.
const DefaultPath = "mongo_servers.yml"

const (
	serversKey    = "servers"
	replicaSetKey = "replica-set"
	hostKey       = "host"
	portKey       = "port"
	userKey       = "user"
	passwordKey   = "password"
	nameKey       = "name"
	membersKey    = "members"
)

// Server is one configured mongod together with the credentials of
// the administrative user to create for it.
type Server struct {
	mongo.Endpoint
	User     string
	Password string
}

// Config is the parsed content of a servers file.
type Config struct {
	Servers  []Server
	Topology mongo.Topology
}

// Endpoints returns the endpoint of every server, in file order.
func (c *Config) Endpoints() []mongo.Endpoint {
	eps := make([]mongo.Endpoint, len(c.Servers))
	for i, s := range c.Servers {
		eps[i] = s.Endpoint
	}
	return eps
}

// Primary returns the server against which the replica set is initiated.
func (c *Config) Primary() Server {
	return c.Servers[0]
}

// ConfigError is returned for any servers file that is missing,
// unreadable or does not match the expected layout.
type ConfigError struct {
	Path string
	Err  error
}

// Error implements error.
func (e *ConfigError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("invalid configuration: %v", e.Err)
	}
	return fmt.Sprintf("invalid configuration %q: %v", e.Path, e.Err)
}

// Unwrap returns the underlying error.
func (e *ConfigError) Unwrap() error {
	return e.Err
}

// IsConfigError reports whether err was caused by a bad servers file.
func IsConfigError(err error) bool {
	_, ok := errors.Cause(err).(*ConfigError)
	return ok
}

// Load reads and validates the servers file at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, &ConfigError{Path: path, Err: errors.NotFoundf("servers file")}
	}
	if err != nil {
		return nil, &ConfigError{Path: path, Err: err}
	}
	cfg, err := parse(data)
	if err != nil {
		return nil, &ConfigError{Path: path, Err: err}
	}
	logger.Debugf("loaded %d servers from %s", len(cfg.Servers), path)
	return cfg, nil
}

// Parse validates the content of a servers file.
func Parse(data []byte) (*Config, error) {
	cfg, err := parse(data)
	if err != nil {
		return nil, &ConfigError{Err: err}
	}
	return cfg, nil
}

var serverChecker = schema.FieldMap(
	schema.Fields{
		hostKey:     schema.String(),
		portKey:     schema.Int(),
		userKey:     schema.String(),
		passwordKey: schema.String(),
	},
	nil,
)

var replicaSetChecker = schema.FieldMap(
	schema.Fields{
		nameKey:    schema.String(),
		membersKey: schema.List(schema.String()),
	},
	schema.Defaults{
		nameKey:    mongo.DefaultReplicaSetName,
		membersKey: schema.Omit,
	},
)

var configChecker = schema.FieldMap(
	schema.Fields{
		serversKey:    schema.List(serverChecker),
		replicaSetKey: replicaSetChecker,
	},
	schema.Defaults{
		replicaSetKey: schema.Omit,
	},
)

func parse(data []byte) (*Config, error) {
	var source map[string]interface{}
	if err := yaml.Unmarshal(data, &source); err != nil {
		return nil, errors.Annotate(err, "cannot parse servers file")
	}
	if source == nil {
		return nil, errors.NotValidf("empty servers file")
	}
	coerced, err := configChecker.Coerce(source, nil)
	if err != nil {
		return nil, errors.Annotate(err, "servers file schema check failed")
	}
	valid := coerced.(map[string]interface{})

	servers, err := importServers(valid[serversKey].([]interface{}))
	if err != nil {
		return nil, errors.Trace(err)
	}
	topology := mongo.DefaultTopology()
	if rs, ok := valid[replicaSetKey].(map[string]interface{}); ok {
		topology = importTopology(rs)
	}
	if err := topology.Validate(); err != nil {
		return nil, errors.Annotate(err, replicaSetKey)
	}
	return &Config{
		Servers:  servers,
		Topology: topology,
	}, nil
}

func importServers(sourceList []interface{}) ([]Server, error) {
	if len(sourceList) == 0 {
		return nil, errors.NotValidf("empty servers list")
	}
	servers := make([]Server, len(sourceList))
	for i, value := range sourceList {
		source := value.(map[string]interface{})
		server := Server{
			Endpoint: mongo.Endpoint{
				Host: source[hostKey].(string),
				Port: int(source[portKey].(int64)),
			},
			User:     source[userKey].(string),
			Password: source[passwordKey].(string),
		}
		if server.Host == "" {
			return nil, errors.NotValidf("server %d: empty host", i)
		}
		if server.Port < 1 || server.Port > 65535 {
			return nil, errors.NotValidf("server %d: port %d", i, server.Port)
		}
		if server.User == "" {
			return nil, errors.NotValidf("server %d: empty user", i)
		}
		servers[i] = server
	}
	return servers, nil
}

func importTopology(source map[string]interface{}) mongo.Topology {
	name := source[nameKey].(string)
	members, ok := source[membersKey].([]interface{})
	if !ok {
		return mongo.NewTopology(name, mongo.DefaultMemberAddresses)
	}
	addrs := make([]string, len(members))
	for i, m := range members {
		addrs[i] = m.(string)
	}
	return mongo.NewTopology(name, addrs)
}
