// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

// Package metrics records what a bootstrap run did so that it can be
// picked up by a node exporter textfile collector.
package metrics

import (
	"github.com/juju/errors"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/juju/mongoinit/users"
)

const namespace = "mongoinit"

// Collector holds the metrics of a single run.
type Collector struct {
	registry *prometheus.Registry

	probeReachable *prometheus.GaugeVec
	initiate       *prometheus.CounterVec
	users          *prometheus.CounterVec
}

// NewCollector returns a collector backed by its own registry.
func NewCollector() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		probeReachable: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "probe_reachable",
			Help:      "Whether the node answered ping (1) or not (0).",
		}, []string{"endpoint"}),
		initiate: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "replicaset",
			Name:      "initiate_total",
			Help:      "Replica set initiation attempts by outcome.",
		}, []string{"outcome"}),
		users: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "users_total",
			Help:      "User creation requests by kind and outcome.",
		}, []string{"kind", "outcome"}),
	}
	c.registry.MustRegister(c.probeReachable, c.initiate, c.users)
	return c
}

// ProbeResult records whether endpoint was reachable.
func (c *Collector) ProbeResult(endpoint string, reachable bool) {
	value := 0.0
	if reachable {
		value = 1
	}
	c.probeReachable.WithLabelValues(endpoint).Set(value)
}

// InitiateOutcome records the outcome of replSetInitiate.
func (c *Collector) InitiateOutcome(outcome string) {
	c.initiate.WithLabelValues(outcome).Inc()
}

// UserOutcome records the outcome of a createUser request.
func (c *Collector) UserOutcome(kind string, outcome users.Outcome) {
	c.users.WithLabelValues(kind, string(outcome)).Inc()
}

// Gatherer exposes the underlying registry.
func (c *Collector) Gatherer() prometheus.Gatherer {
	return c.registry
}

// WriteTextfile writes the collected metrics to path in the text
// exposition format. The file is replaced atomically.
func (c *Collector) WriteTextfile(path string) error {
	return errors.Annotatef(prometheus.WriteToTextfile(path, c.registry), "writing metrics to %q", path)
}
