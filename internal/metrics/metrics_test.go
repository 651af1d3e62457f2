package metrics

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecorder(t *testing.T) {
	r := NewRecorder()

	r.StepStarted()
	r.StepStarted()
	r.CommandExecuted("CLICK")
	r.CommandExecuted("CLICK")
	r.CommandExecuted("TYPESUBMIT")
	r.CommandFailed("CLICK")
	r.ParseFailed()
	r.ElementsIndexed(42)
	r.ObserveModelLatency(300 * time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(r.steps))
	assert.Equal(t, 2.0, testutil.ToFloat64(r.commands.WithLabelValues("CLICK")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.commands.WithLabelValues("TYPESUBMIT")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.commandErrors.WithLabelValues("CLICK")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.parseErrors))
	assert.Equal(t, 42.0, testutil.ToFloat64(r.elements))
	assert.Equal(t, 1, testutil.CollectAndCount(r.modelLatency))
}

func TestRecorder_Handler(t *testing.T) {
	r := NewRecorder()
	r.CommandExecuted("SCROLL")

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	assert.Equal(t, 200, rec.Code)
	assert.Contains(t, rec.Body.String(), `browser_agent_commands_total{verb="SCROLL"} 1`)
}
