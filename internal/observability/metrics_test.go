package observability

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMetrics_Snapshot(t *testing.T) {
	m := NewMetrics()
	m.RecordRequest("/api/tickets", "GET", 200, 10*time.Millisecond)
	m.RecordRequest("/api/tickets", "GET", 200, 30*time.Millisecond)
	m.RecordRequest("/api/tickets/:id", "GET", 404, time.Millisecond)
	m.RecordError("/api/tickets/:id", "GET", "NOT_FOUND")
	m.RecordEvent("ticket_created")
	m.RecordEvent("ticket_created")

	snap := m.Snapshot()

	assert.Equal(t, int64(2), snap.Requests["/api/tickets|GET|200"])
	assert.Equal(t, int64(20), snap.AvgLatencyMS["/api/tickets|GET|200"])
	assert.Equal(t, int64(1), snap.Requests["/api/tickets/:id|GET|404"])
	assert.Equal(t, int64(1), snap.Errors["/api/tickets/:id|GET|NOT_FOUND"])
	assert.Equal(t, int64(2), snap.Events["ticket_created"])
}

func TestMetrics_NilSafe(t *testing.T) {
	var m *Metrics
	m.RecordRequest("/", "GET", 200, time.Millisecond)
	m.RecordError("/", "GET", "X")
	m.RecordEvent("x")
	assert.Empty(t, m.Snapshot().Requests)
}
