// Package metrics holds the Prometheus collectors for native user function
// construction.
package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "born_ext"

// Collector counts operator constructions per op name.
// A nil *Collector is valid and records nothing.
type Collector struct {
	created *prometheus.CounterVec
	failed  *prometheus.CounterVec
	loads   *prometheus.CounterVec
}

// New creates the collectors and registers them with reg. A nil reg leaves them
// unregistered.
func New(reg prometheus.Registerer) (*Collector, error) {
	c := &Collector{
		created: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "userfunc",
			Name:      "created_total",
			Help:      "Native user functions constructed, by op.",
		}, []string{"op"}),
		failed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "userfunc",
			Name:      "failed_total",
			Help:      "Native user function constructions that returned an error, by op.",
		}, []string{"op"}),
		loads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "plugin",
			Name:      "loads_total",
			Help:      "Plugin open attempts, by result.",
		}, []string{"result"}),
	}
	if reg == nil {
		return c, nil
	}
	for _, col := range []prometheus.Collector{c.created, c.failed, c.loads} {
		if err := reg.Register(col); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// Created records a successful construction of op.
func (c *Collector) Created(op string) {
	if c == nil {
		return
	}
	c.created.WithLabelValues(op).Inc()
}

// Failed records a failed construction of op.
func (c *Collector) Failed(op string) {
	if c == nil {
		return
	}
	c.failed.WithLabelValues(op).Inc()
}

// PluginLoaded records a plugin open attempt.
func (c *Collector) PluginLoaded(err error) {
	if c == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	c.loads.WithLabelValues(result).Inc()
}

// Counter returns the counter of kind ("created", "failed" or "loads") for label.
func (c *Collector) Counter(kind, label string) (prometheus.Counter, error) {
	switch kind {
	case "created":
		return c.created.GetMetricWithLabelValues(label)
	case "failed":
		return c.failed.GetMetricWithLabelValues(label)
	case "loads":
		return c.loads.GetMetricWithLabelValues(label)
	}
	return nil, fmt.Errorf("metrics: unknown counter %q", kind)
}
