package metrics

import (
	"strconv"
	"sync"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	once           sync.Once
	foundCount     prom.Gauge
	mutations      *prom.CounterVec
	submitOutcomes *prom.CounterVec
	submitDuration prom.Histogram
	httpRequests   *prom.CounterVec
}

// NewPrometheusRecorder constructs and registers Prometheus metrics (idempotent).
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{}
	pr.once.Do(func() {
		pr.foundCount = prom.NewGauge(prom.GaugeOpts{
			Namespace: "huntboard",
			Name:      "items_found",
			Help:      "Number of hunt items currently marked found",
		})
		pr.mutations = prom.NewCounterVec(prom.CounterOpts{
			Namespace: "huntboard",
			Name:      "mutations_total",
			Help:      "Tracker mutations by operation",
		}, []string{"op"})
		pr.submitOutcomes = prom.NewCounterVec(prom.CounterOpts{
			Namespace: "huntboard",
			Name:      "submissions_total",
			Help:      "Submission attempts by outcome",
		}, []string{"outcome"})
		pr.submitDuration = prom.NewHistogram(prom.HistogramOpts{
			Namespace: "huntboard",
			Name:      "submission_duration_seconds",
			Help:      "Duration of outbound hunt submissions",
			Buckets:   prom.DefBuckets,
		})
		pr.httpRequests = prom.NewCounterVec(prom.CounterOpts{
			Namespace: "huntboard",
			Name:      "http_requests_total",
			Help:      "API requests by route, method and status",
		}, []string{"route", "method", "status"})
		reg.MustRegister(pr.foundCount, pr.mutations, pr.submitOutcomes, pr.submitDuration, pr.httpRequests)
	})
	return pr
}

func (pr *PrometheusRecorder) SetFoundCount(n int) {
	pr.foundCount.Set(float64(n))
}

func (pr *PrometheusRecorder) IncMutation(op string) {
	pr.mutations.WithLabelValues(op).Inc()
}

func (pr *PrometheusRecorder) IncSubmitOutcome(outcome string) {
	pr.submitOutcomes.WithLabelValues(outcome).Inc()
}

func (pr *PrometheusRecorder) ObserveSubmitDuration(d time.Duration) {
	pr.submitDuration.Observe(d.Seconds())
}

func (pr *PrometheusRecorder) IncHTTPRequest(route, method string, status int) {
	pr.httpRequests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
}
