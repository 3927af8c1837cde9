package observability

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMetricsSnapshot(t *testing.T) {
	m := NewMetrics()

	m.RecordRequest("/api/clients", "GET", 200, 5*time.Millisecond)
	m.RecordRequest("/api/clients", "GET", 200, 7*time.Millisecond)
	m.RecordError("/api/profile", "GET", "MISSING_TOKEN")

	requests, errors := m.Snapshot()
	assert.Equal(t, int64(2), requests["/api/clients|GET|200"])
	assert.Equal(t, int64(1), errors["/api/profile|GET|MISSING_TOKEN"])

	// Snapshot is a copy; mutating it must not affect live counters.
	requests["/api/clients|GET|200"] = 99
	fresh, _ := m.Snapshot()
	assert.Equal(t, int64(2), fresh["/api/clients|GET|200"])
}

func TestNilMetricsAreSafe(t *testing.T) {
	var m *Metrics
	m.RecordRequest("/", "GET", 200, time.Millisecond)
	m.RecordError("/", "GET", "X")
	requests, errors := m.Snapshot()
	assert.Nil(t, requests)
	assert.Nil(t, errors)
}
