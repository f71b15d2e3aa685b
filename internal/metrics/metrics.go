// Package metrics records run results as Prometheus metrics and writes them
// in the textfile collector format for CI scrapers.
package metrics

import (
	"fmt"

	"caserun/internal/domain"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	MetricsNamespace = "caserun"
)

// Recorder holds the metrics of a run on a private registry
type Recorder struct {
	registry *prometheus.Registry

	casesTotal   *prometheus.CounterVec
	caseDuration *prometheus.HistogramVec
	runCases     *prometheus.GaugeVec
	runDuration  prometheus.Gauge
	attachments  prometheus.Counter
}

// NewRecorder creates a Recorder with its own registry
func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		casesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: MetricsNamespace,
			Name:      "cases_total",
			Help:      "Count of executed test cases by outcome",
		}, []string{"outcome"}),
		caseDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: MetricsNamespace,
			Name:      "case_duration_seconds",
			Help:      "Duration of test cases",
			Buckets:   prometheus.ExponentialBuckets(0.001, 4, 10),
		}, []string{"outcome"}),
		runCases: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: MetricsNamespace,
			Name:      "run_cases",
			Help:      "Number of cases in the last run by result",
		}, []string{"run_id", "result"}),
		runDuration: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: MetricsNamespace,
			Name:      "run_duration_seconds",
			Help:      "Duration of the last run",
		}),
		attachments: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: MetricsNamespace,
			Name:      "attachments_total",
			Help:      "Count of retained attachments",
		}),
	}
	r.registry.MustRegister(r.casesTotal, r.caseDuration, r.runCases, r.runDuration, r.attachments)
	return r
}

// Registry exposes the underlying registry
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// Record adds a finished run to the metrics
func (r *Recorder) Record(output *domain.RunOutput) {
	for _, res := range output.Results {
		outcome := string(res.Outcome)
		r.casesTotal.WithLabelValues(outcome).Inc()
		r.caseDuration.WithLabelValues(outcome).Observe(res.Duration.Seconds())
	}
	r.runCases.WithLabelValues(output.Meta.RunID, "total").Set(float64(output.Meta.Total))
	r.runCases.WithLabelValues(output.Meta.RunID, "passed").Set(float64(output.Meta.Passed))
	r.runCases.WithLabelValues(output.Meta.RunID, "failed").Set(float64(output.Meta.Failed))
	r.runDuration.Set(output.Meta.DurationSeconds)
	r.attachments.Add(float64(len(output.Attachments)))
}

// WriteTextfile writes the metrics to path in the Prometheus text format
func (r *Recorder) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}
