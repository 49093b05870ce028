// Package metrics exposes Prometheus counters for board activity.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Classification outcomes.
const (
	OutcomeProvider = "provider"
	OutcomeFallback = "fallback"
	OutcomeDisabled = "disabled"
)

// Collector holds all Prometheus metrics for the application.
// A nil *Collector is valid and records nothing.
type Collector struct {
	registry *prometheus.Registry

	MemoriesCreated prometheus.Counter
	MemoriesDeleted prometheus.Counter
	Classifications *prometheus.CounterVec
	StoreWrites     *prometheus.CounterVec
	GateAttempts    *prometheus.CounterVec
	HTTPRequests    *prometheus.CounterVec
}

// NewCollector creates a collector on its own registry.
func NewCollector(namespace string) *Collector {
	registry := prometheus.NewRegistry()

	c := &Collector{
		registry: registry,
		MemoriesCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "memories_created_total",
			Help:      "Total number of memories created",
		}),
		MemoriesDeleted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "memories_deleted_total",
			Help:      "Total number of memories deleted",
		}),
		Classifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "classifications_total",
			Help:      "Classification calls by outcome",
		}, []string{"outcome"}),
		StoreWrites: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "store_writes_total",
			Help:      "Write-through operations by operation and status",
		}, []string{"operation", "status"}),
		GateAttempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "gate_attempts_total",
			Help:      "Delete confirmation attempts by result",
		}, []string{"result"}),
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		}, []string{"method", "route", "status"}),
	}

	registry.MustRegister(
		c.MemoriesCreated,
		c.MemoriesDeleted,
		c.Classifications,
		c.StoreWrites,
		c.GateAttempts,
		c.HTTPRequests,
	)
	return c
}

// Handler serves the collector's registry.
func (c *Collector) Handler() http.Handler {
	if c == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// Registry returns the underlying registry.
func (c *Collector) Registry() *prometheus.Registry {
	if c == nil {
		return nil
	}
	return c.registry
}

func (c *Collector) Created() {
	if c != nil {
		c.MemoriesCreated.Inc()
	}
}

func (c *Collector) Deleted() {
	if c != nil {
		c.MemoriesDeleted.Inc()
	}
}

func (c *Collector) Classified(outcome string) {
	if c != nil {
		c.Classifications.WithLabelValues(outcome).Inc()
	}
}

func (c *Collector) StoreWrite(operation string, err error) {
	if c == nil {
		return
	}
	status := "ok"
	if err != nil {
		status = "error"
	}
	c.StoreWrites.WithLabelValues(operation, status).Inc()
}

func (c *Collector) GateAttempt(ok bool) {
	if c == nil {
		return
	}
	result := "match"
	if !ok {
		result = "mismatch"
	}
	c.GateAttempts.WithLabelValues(result).Inc()
}

func (c *Collector) HTTPRequest(method, route, status string) {
	if c != nil {
		c.HTTPRequests.WithLabelValues(method, route, status).Inc()
	}
}
