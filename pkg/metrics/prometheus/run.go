// Package prometheus implements the launcher's metrics interfaces with
// prometheus/client_golang. Import it for its side effect of registering
// the constructors with pkg/metrics.
package prometheus

import (
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/tnxqso/rf2k-launcher/pkg/metrics"
)

func init() {
	metrics.RegisterRunMetricsConstructor(NewRunMetrics)
}

// runMetrics is the Prometheus implementation of metrics.RunMetrics.
type runMetrics struct {
	reg           prometheus.Registerer
	runs          *prometheus.CounterVec
	runDuration   *prometheus.HistogramVec
	lockConflicts prometheus.Counter
	provisioned   *prometheus.CounterVec

	// lastExitCode is registered on the first observed run so a session
	// that never started the engine does not export a fake exit code.
	lastExitCode     prometheus.Gauge
	registerExitCode sync.Once
}

// NewRunMetrics creates a Prometheus-backed RunMetrics instance.
//
// Returns nil if metrics are not enabled (InitRegistry not called).
func NewRunMetrics() metrics.RunMetrics {
	if !metrics.IsEnabled() {
		return nil
	}

	reg := metrics.GetRegistry()

	return &runMetrics{
		reg: reg,
		runs: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Name: "rf2k_launcher_engine_runs_total",
				Help: "Total number of engine runs by menu choice and outcome",
			},
			[]string{"choice", "outcome", "exit_code"},
		),
		runDuration: promauto.With(reg).NewHistogramVec(
			prometheus.HistogramOpts{
				Name: "rf2k_launcher_engine_run_duration_seconds",
				Help: "Wall-clock duration of engine runs in seconds",
				Buckets: []float64{
					1,    // info and clear-logs
					10,   // update checks
					60,   // single band
					300,  // a few bands
					900,  // typical full run
					1800, // slow radios, many bands
					3600,
				},
			},
			[]string{"choice"},
		),
		lastExitCode: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "rf2k_launcher_engine_last_exit_code",
				Help: "Exit code of the most recent engine run",
			},
		),
		lockConflicts: promauto.With(reg).NewCounter(
			prometheus.CounterOpts{
				Name: "rf2k_launcher_lock_conflicts_total",
				Help: "Launches refused because another instance holds the lock",
			},
		),
		provisioned: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Name: "rf2k_launcher_settings_provisioned_total",
				Help: "Settings files seen at startup by origin (existing, template, defaults)",
			},
			[]string{"origin"},
		),
	}
}

func (m *runMetrics) ObserveRun(choice, outcome string, exitCode int, duration time.Duration) {
	if m == nil {
		return
	}
	m.runs.WithLabelValues(choice, outcome, strconv.Itoa(exitCode)).Inc()
	m.runDuration.WithLabelValues(choice).Observe(duration.Seconds())
	m.registerExitCode.Do(func() { m.reg.MustRegister(m.lastExitCode) })
	m.lastExitCode.Set(float64(exitCode))
}

func (m *runMetrics) RecordLockConflict() {
	if m == nil {
		return
	}
	m.lockConflicts.Inc()
}

func (m *runMetrics) RecordProvision(origin string) {
	if m == nil {
		return
	}
	m.provisioned.WithLabelValues(origin).Inc()
}
