package handoff

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tnxqso/rf2k-launcher/pkg/engine"
)

func writeSentinel(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, DefaultSentinelName)
	require.NoError(t, os.WriteFile(path, []byte("111"), 0644))
	return path
}

func TestEvaluate(t *testing.T) {
	tests := []struct {
		name         string
		exitCode     int
		sentinel     bool
		wantKind     Kind
		wantTerminal bool
	}{
		{name: "Success", exitCode: 0, wantKind: KindSuccess},
		{name: "Failure", exitCode: 2, wantKind: KindFailed},
		{name: "UpdateExitCode", exitCode: DefaultExitCode, wantKind: KindUpdateInProgress, wantTerminal: true},
		{name: "SentinelWithZeroExit", exitCode: 0, sentinel: true, wantKind: KindUpdateInProgress, wantTerminal: true},
		{name: "SentinelWithUpdateExit", exitCode: DefaultExitCode, sentinel: true, wantKind: KindUpdateInProgress, wantTerminal: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			var sentinel string
			if tt.sentinel {
				sentinel = writeSentinel(t, dir)
			}

			d := NewDetector(dir)
			out, err := d.Evaluate(engine.Result{ExitCode: tt.exitCode})
			require.NoError(t, err)

			assert.Equal(t, tt.wantKind, out.Kind)
			assert.Equal(t, tt.wantTerminal, out.Terminal())
			assert.Equal(t, tt.exitCode, out.ExitCode)
			assert.Equal(t, tt.sentinel, out.SentinelFound)
			if tt.wantTerminal {
				assert.Equal(t, d.UpdateLog, out.UpdateLog)
			} else {
				assert.Empty(t, out.UpdateLog)
			}
			if sentinel != "" {
				assert.NoFileExists(t, sentinel)
			}
		})
	}
}

func TestEvaluate_SentinelConsumedOnce(t *testing.T) {
	dir := t.TempDir()
	writeSentinel(t, dir)
	d := NewDetector(dir)

	first, err := d.Evaluate(engine.Result{})
	require.NoError(t, err)
	assert.Equal(t, KindUpdateInProgress, first.Kind)

	second, err := d.Evaluate(engine.Result{})
	require.NoError(t, err)
	assert.Equal(t, KindSuccess, second.Kind)
}

func TestEvaluate_ExitCodeCheckDisabled(t *testing.T) {
	d := NewDetector(t.TempDir())
	d.ExitCode = 0

	out, err := d.Evaluate(engine.Result{ExitCode: DefaultExitCode})
	require.NoError(t, err)
	assert.Equal(t, KindFailed, out.Kind)
}

func TestSentinelPath(t *testing.T) {
	d := &Detector{StateDir: "/state"}
	assert.Equal(t, filepath.Join("/state", DefaultSentinelName), d.SentinelPath())

	abs := filepath.Join(t.TempDir(), "flag")
	d.SentinelName = abs
	assert.Equal(t, abs, d.SentinelPath())
}

func TestDefaultUpdateLog(t *testing.T) {
	assert.Equal(t, filepath.Join(os.TempDir(), "RF2K-TRAINER_update.log"), DefaultUpdateLog())
}
