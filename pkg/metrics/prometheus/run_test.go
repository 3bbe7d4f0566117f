package prometheus

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tnxqso/rf2k-launcher/pkg/metrics"
)

func TestNewRunMetrics_Disabled(t *testing.T) {
	metrics.Reset()
	assert.Nil(t, NewRunMetrics())
	assert.Nil(t, metrics.NewRunMetrics())

	// Writing with metrics disabled is a no-op.
	path := filepath.Join(t.TempDir(), "launcher.prom")
	require.NoError(t, metrics.WriteTextfile(path))
	assert.NoFileExists(t, path)
}

func TestRunMetrics_Textfile(t *testing.T) {
	reg := metrics.InitRegistry()
	t.Cleanup(metrics.Reset)

	m := metrics.NewRunMetrics()
	require.NotNil(t, m)

	m.ObserveRun("run-all", "success", 0, 12*time.Minute)
	m.ObserveRun("check-updates", "update-in-progress", 111, 3*time.Second)
	m.RecordLockConflict()
	m.RecordProvision("defaults")

	families, err := reg.Gather()
	require.NoError(t, err)
	series := map[string]int{}
	for _, mf := range families {
		series[mf.GetName()] = len(mf.GetMetric())
	}
	assert.Equal(t, 2, series["rf2k_launcher_engine_runs_total"])
	assert.Equal(t, 1, series["rf2k_launcher_lock_conflicts_total"])
	assert.Equal(t, 1, series["rf2k_launcher_engine_last_exit_code"])

	path := filepath.Join(t.TempDir(), "textfile", "launcher.prom")
	require.NoError(t, metrics.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	text := string(data)
	assert.True(t, strings.Contains(text, `rf2k_launcher_engine_runs_total{choice="check-updates",exit_code="111",outcome="update-in-progress"} 1`))
	assert.Contains(t, text, `rf2k_launcher_settings_provisioned_total{origin="defaults"} 1`)
	assert.Contains(t, text, "rf2k_launcher_engine_last_exit_code 111")
}

func TestRunMetrics_LastExitCodeOnlyAfterRun(t *testing.T) {
	reg := metrics.InitRegistry()
	t.Cleanup(metrics.Reset)

	m := metrics.NewRunMetrics()
	require.NotNil(t, m)
	m.RecordLockConflict()

	names := func() []string {
		families, err := reg.Gather()
		require.NoError(t, err)
		var out []string
		for _, mf := range families {
			out = append(out, mf.GetName())
		}
		return out
	}
	assert.NotContains(t, names(), "rf2k_launcher_engine_last_exit_code")

	m.ObserveRun("run-all", "failed", 3, time.Minute)
	m.ObserveRun("run-all", "success", 0, time.Minute)
	assert.Contains(t, names(), "rf2k_launcher_engine_last_exit_code")
}

func TestRunMetrics_NilReceiver(t *testing.T) {
	var m *runMetrics
	assert.NotPanics(t, func() {
		m.ObserveRun("debug", "failed", 1, time.Second)
		m.RecordLockConflict()
		m.RecordProvision("existing")
	})
}
