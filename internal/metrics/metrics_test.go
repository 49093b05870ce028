package metrics

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestCollectorCounts(t *testing.T) {
	c := NewCollector("arsip")

	c.Created()
	c.Created()
	c.Deleted()
	c.Classified(OutcomeFallback)
	c.StoreWrite("put", nil)
	c.StoreWrite("put", errors.New("disk full"))
	c.GateAttempt(false)

	assert.Equal(t, 2.0, testutil.ToFloat64(c.MemoriesCreated))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.MemoriesDeleted))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.Classifications.WithLabelValues(OutcomeFallback)))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.StoreWrites.WithLabelValues("put", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.StoreWrites.WithLabelValues("put", "error")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.GateAttempts.WithLabelValues("mismatch")))
}

func TestNilCollectorIsSafe(t *testing.T) {
	var c *Collector
	assert.NotPanics(t, func() {
		c.Created()
		c.Deleted()
		c.Classified(OutcomeProvider)
		c.StoreWrite("delete", nil)
		c.GateAttempt(true)
		c.HTTPRequest("GET", "/health", "200")
	})
	assert.Nil(t, c.Registry())
}
