// Package metrics provides observability hooks for hunt tracker operations.
// NoopRecorder is the default; the Prometheus recorder is injected when the
// HTTP server is running.
package metrics

import "time"

// Recorder defines observability hooks for tracker and submission metrics.
// Implementations may forward to Prometheus, OpenTelemetry, etc.
type Recorder interface {
	SetFoundCount(n int)
	IncMutation(op string)           // op: mark_found|clear_found|reset_all
	IncSubmitOutcome(outcome string) // outcome: success|failure|rejected
	ObserveSubmitDuration(d time.Duration)
	IncHTTPRequest(route, method string, status int)
}

// NoopRecorder is a Recorder that does nothing (default when metrics not configured).
type NoopRecorder struct{}

func (NoopRecorder) SetFoundCount(int)                   {}
func (NoopRecorder) IncMutation(string)                  {}
func (NoopRecorder) IncSubmitOutcome(string)             {}
func (NoopRecorder) ObserveSubmitDuration(time.Duration) {}
func (NoopRecorder) IncHTTPRequest(string, string, int)  {}
