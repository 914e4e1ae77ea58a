// Package metrics exports training and forecast metrics on a private
// Prometheus registry.
package metrics

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/sartorproj/aqforecast/forecast"
	"github.com/sartorproj/aqforecast/selector"
)

const namespace = "aqforecast"

// Recorder implements selector.Observer and forecast.Observer.
type Recorder struct {
	registry *prometheus.Registry

	selections   *prometheus.CounterVec
	omissions    *prometheus.CounterVec
	cvMSE        *prometheus.GaugeVec
	selectTime   *prometheus.HistogramVec
	forecasts    prometheus.Counter
	forecastTime prometheus.Histogram
	available    prometheus.Gauge
	unavailable  prometheus.Gauge
}

var (
	_ selector.Observer = (*Recorder)(nil)
	_ forecast.Observer = (*Recorder)(nil)
)

// NewRecorder registers every collector on a fresh registry.
func NewRecorder() *Recorder {
	reg := prometheus.NewRegistry()
	f := promauto.With(reg)

	return &Recorder{
		registry: reg,
		selections: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "selection",
			Name:      "models_total",
			Help:      "Models frozen per target and winning candidate.",
		}, []string{"target", "model"}),
		omissions: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "selection",
			Name:      "omissions_total",
			Help:      "Targets left without a model, by reason.",
		}, []string{"target", "reason"}),
		cvMSE: f.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "selection",
			Name:      "cv_mse",
			Help:      "Mean walk-forward MSE of the selected model.",
		}, []string{"target", "model"}),
		selectTime: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "selection",
			Name:      "duration_seconds",
			Help:      "Time spent selecting and fitting one target.",
			Buckets:   prometheus.ExponentialBuckets(0.01, 4, 8),
		}, []string{"target"}),
		forecasts: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "forecast",
			Name:      "runs_total",
			Help:      "Completed forecast runs.",
		}),
		forecastTime: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "forecast",
			Name:      "duration_seconds",
			Help:      "Time spent in the recursive forecast loop.",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
		}),
		available: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "forecast",
			Name:      "targets_available",
			Help:      "Targets forecast in the last run.",
		}),
		unavailable: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "forecast",
			Name:      "targets_unavailable",
			Help:      "Targets reported unavailable in the last run.",
		}),
	}
}

// Registry exposes the collectors for gathering.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// ObserveSelection records the chosen model and its cross-validated MSE for a target.
func (r *Recorder) ObserveSelection(target, model string, cvScore float64, elapsed time.Duration) {
	r.selections.WithLabelValues(target, model).Inc()
	r.cvMSE.WithLabelValues(target, model).Set(cvScore)
	r.selectTime.WithLabelValues(target).Observe(elapsed.Seconds())
}

// ObserveOmission counts a target left out of the registry, labelled by Reason.
func (r *Recorder) ObserveOmission(target string, err error) {
	r.omissions.WithLabelValues(target, Reason(err)).Inc()
}

// ObserveForecast records one forecast run.
func (r *Recorder) ObserveForecast(horizon, available, unavailable int, elapsed time.Duration) {
	r.forecasts.Inc()
	r.forecastTime.Observe(elapsed.Seconds())
	r.available.Set(float64(available))
	r.unavailable.Set(float64(unavailable))
}

// Reason maps an omission error to a bounded label value.
func Reason(err error) string {
	switch {
	case errors.Is(err, selector.ErrTargetMissing):
		return "target_missing"
	case errors.Is(err, selector.ErrInsufficientRows):
		return "insufficient_rows"
	case errors.Is(err, selector.ErrSelectionAborted):
		return "aborted"
	default:
		return "error"
	}
}

// WriteFile writes the current values in the text exposition format.
func (r *Recorder) WriteFile(path string) error {
	return prometheus.WriteToTextfile(path, r.registry)
}
