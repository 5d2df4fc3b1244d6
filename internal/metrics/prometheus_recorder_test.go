package metrics

import (
	"testing"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrometheusRecorder(t *testing.T) {
	reg := prom.NewRegistry()
	rec := NewPrometheusRecorder(reg)

	rec.SetFoundCount(5)
	rec.IncMutation("mark_found")
	rec.IncMutation("mark_found")
	rec.IncSubmitOutcome("success")
	rec.ObserveSubmitDuration(120 * time.Millisecond)
	rec.IncHTTPRequest("/hunt", "GET", 200)

	assert.Equal(t, 5.0, testutil.ToFloat64(rec.foundCount))
	assert.Equal(t, 2.0, testutil.ToFloat64(rec.mutations.WithLabelValues("mark_found")))
	assert.Equal(t, 1.0, testutil.ToFloat64(rec.submitOutcomes.WithLabelValues("success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(rec.httpRequests.WithLabelValues("/hunt", "GET", "200")))

	families, err := reg.Gather()
	require.NoError(t, err)
	assert.NotEmpty(t, families)
}

func TestNoopRecorderIsSafe(t *testing.T) {
	var rec Recorder = NoopRecorder{}
	rec.SetFoundCount(1)
	rec.IncMutation("reset_all")
	rec.IncSubmitOutcome("failure")
	rec.ObserveSubmitDuration(time.Second)
	rec.IncHTTPRequest("/health", "GET", 200)
}
