// Package metrics exposes scoring outcomes as Prometheus collectors.
package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/varshiniml7/predictive-maintenance/internal/domain/model"
)

const namespace = "riskd"

// Recorder implements port.AssessmentMetrics.
type Recorder struct {
	assessments      *prometheus.CounterVec
	outOfRange       *prometheus.CounterVec
	failures         *prometheus.CounterVec
	latency          prometheus.Histogram
	probability      prometheus.Histogram
	classifierActive prometheus.Gauge
}

// NewRecorder creates the collectors and registers them on reg.
func NewRecorder(reg prometheus.Registerer) (*Recorder, error) {
	r := &Recorder{
		assessments: prometheus.NewCounterVec(
			prometheus.CounterOpts{Namespace: namespace, Name: "assessments_total", Help: "Completed risk assessments by status."},
			[]string{"status"},
		),
		outOfRange: prometheus.NewCounterVec(
			prometheus.CounterOpts{Namespace: namespace, Name: "out_of_range_total", Help: "Readings clamped to the training range."},
			[]string{"feature"},
		),
		failures: prometheus.NewCounterVec(
			prometheus.CounterOpts{Namespace: namespace, Name: "assessment_failures_total", Help: "Requests that did not produce an assessment."},
			[]string{"reason"},
		),
		latency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "assessment_duration_seconds",
			Help:      "Time spent scoring a record.",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 8),
		}),
		probability: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "failure_probability",
			Help:      "Distribution of predicted failure probabilities.",
			Buckets:   prometheus.LinearBuckets(0.1, 0.1, 9),
		}),
		classifierActive: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "classifier_active",
			Help:      "1 when a probability classifier contributes to scores.",
		}),
	}

	for _, c := range []prometheus.Collector{r.assessments, r.outOfRange, r.failures, r.latency, r.probability, r.classifierActive} {
		if err := reg.Register(c); err != nil {
			return nil, fmt.Errorf("registering collector: %w", err)
		}
	}
	return r, nil
}

func (r *Recorder) AssessmentCompleted(a *model.RiskAssessment, elapsed time.Duration) {
	r.assessments.WithLabelValues(a.Status().String()).Inc()
	for _, f := range a.OutOfRange() {
		r.outOfRange.WithLabelValues(f).Inc()
	}
	r.latency.Observe(elapsed.Seconds())
	r.probability.Observe(a.Probability())
}

func (r *Recorder) ValidationFailed()   { r.failures.WithLabelValues("validation").Inc() }
func (r *Recorder) InternalError()      { r.failures.WithLabelValues("internal").Inc() }
func (r *Recorder) EventPublishFailed() { r.failures.WithLabelValues("publish").Inc() }

// SetClassifierActive records whether the classifier adapter is active.
func (r *Recorder) SetClassifierActive(active bool) {
	if active {
		r.classifierActive.Set(1)
		return
	}
	r.classifierActive.Set(0)
}
