package metrics

import "time"

// RunMetrics records launcher session activity.
//
// Implementations must be safe to call on a nil receiver; a nil RunMetrics
// is how callers run without metrics.
type RunMetrics interface {
	// ObserveRun records one engine run.
	ObserveRun(choice, outcome string, exitCode int, duration time.Duration)

	// RecordLockConflict records a launch refused because another instance runs.
	RecordLockConflict()

	// RecordProvision records where the settings file came from this session.
	RecordProvision(origin string)
}

// NewRunMetrics returns the Prometheus-backed RunMetrics, or nil when
// metrics are disabled.
//
// Example usage:
//
//	metrics.InitRegistry()
//	m := metrics.NewRunMetrics()
//	m.ObserveRun("run-all", "success", 0, time.Minute)
//	_ = metrics.WriteTextfile("launcher.prom")
func NewRunMetrics() RunMetrics {
	if !IsEnabled() || newPrometheusRunMetrics == nil {
		return nil
	}
	return newPrometheusRunMetrics()
}

// newPrometheusRunMetrics is set by pkg/metrics/prometheus so this package
// does not import its implementation.
var newPrometheusRunMetrics func() RunMetrics

// RegisterRunMetricsConstructor registers the Prometheus run metrics constructor.
// Called by pkg/metrics/prometheus during package initialization.
func RegisterRunMetricsConstructor(constructor func() RunMetrics) {
	newPrometheusRunMetrics = constructor
}
