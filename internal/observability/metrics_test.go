package observability

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetricsCounters(t *testing.T) {
	m := NewMetrics()

	m.TicketCreated("high")
	m.TicketCreated("high")
	m.StateChanged("closed")
	m.SideChannelFailed("cache")
	m.SideChannelDropped("notify")
	m.RecordRequest("/tickets", "GET", 200, 5*time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.ticketsCreated.WithLabelValues("high")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.stateChanges.WithLabelValues("closed")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.sideChannelErrors.WithLabelValues("cache")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.sideChannelDropped.WithLabelValues("notify")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.requests.WithLabelValues("GET", "/tickets", "200")))
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.TicketCreated("low")
		m.SideChannelFailed("notify")
		m.RecordRequest("/", "GET", 200, 0)
	})
}

func TestMetricsHandlerServesText(t *testing.T) {
	m := NewMetrics()
	m.StateChanged("open")

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	assert.Equal(t, 200, rec.Code)
	assert.Contains(t, rec.Body.String(), `ticket_state_changes_total{state="open"} 1`)
}
