package statedir

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// readOnly returns a probe that rejects the given directories.
func readOnly(dirs ...string) func(string) error {
	return func(dir string) error {
		for _, d := range dirs {
			if filepath.Clean(d) == filepath.Clean(dir) {
				return os.ErrPermission
			}
		}
		return ProbeWritable(dir)
	}
}

func TestResolve_ColocatedWhenWritable(t *testing.T) {
	launcherDir := t.TempDir()
	r := NewResolver()

	sd, err := r.Resolve(launcherDir)
	require.NoError(t, err)

	assert.Equal(t, launcherDir, sd.Path)
	assert.Equal(t, SourceColocated, sd.Source)
	assert.True(t, sd.Writable)

	entries, err := os.ReadDir(launcherDir)
	require.NoError(t, err)
	assert.Empty(t, entries, "write probe must not leave files behind")
}

func TestResolve_FallsBackWhenLauncherDirReadOnly(t *testing.T) {
	launcherDir := t.TempDir()
	fallback := filepath.Join(t.TempDir(), "per-user", "RF2K-TRAINER")

	r := &Resolver{
		FallbackDir: func() (string, error) { return fallback, nil },
		Probe:       readOnly(launcherDir),
	}

	sd, err := r.Resolve(launcherDir)
	require.NoError(t, err)

	assert.Equal(t, fallback, sd.Path)
	assert.Equal(t, SourcePerUser, sd.Source)
	assert.DirExists(t, fallback, "fallback directory is created when absent")
}

func TestResolve_Deterministic(t *testing.T) {
	launcherDir := t.TempDir()
	fallback := filepath.Join(t.TempDir(), "fallback")
	r := &Resolver{
		FallbackDir: func() (string, error) { return fallback, nil },
		Probe:       readOnly(launcherDir),
	}

	first, err := r.Resolve(launcherDir)
	require.NoError(t, err)
	second, err := r.Resolve(launcherDir)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestResolve_NothingWritableIsFatal(t *testing.T) {
	launcherDir := t.TempDir()
	fallback := t.TempDir()

	r := &Resolver{
		FallbackDir: func() (string, error) { return fallback, nil },
		Probe:       readOnly(launcherDir, fallback),
	}

	_, err := r.Resolve(launcherDir)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNoWritableStateDir))
	assert.Contains(t, err.Error(), launcherDir)
	assert.Contains(t, err.Error(), fallback)
}

func TestResolve_FallbackUnavailable(t *testing.T) {
	launcherDir := t.TempDir()
	r := &Resolver{
		FallbackDir: func() (string, error) { return "", errors.New("no home") },
		Probe:       readOnly(launcherDir),
	}

	_, err := r.Resolve(launcherDir)
	assert.ErrorIs(t, err, ErrNoWritableStateDir)
}

func TestResolve_Explicit(t *testing.T) {
	explicit := filepath.Join(t.TempDir(), "pinned")
	r := NewResolver()
	r.Explicit = explicit

	sd, err := r.Resolve(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, explicit, sd.Path)
	assert.Equal(t, SourceExplicit, sd.Source)
}

func TestDefaultFallbackDir_XDG(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("XDG_STATE_HOME is not consulted on Windows")
	}
	stateHome := t.TempDir()
	t.Setenv("XDG_STATE_HOME", stateHome)

	dir, err := DefaultFallbackDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(stateHome, "rf2k-trainer"), dir)
}

func TestStateDirectoryJoin(t *testing.T) {
	sd := StateDirectory{Path: filepath.Join("base", "state")}
	assert.Equal(t, filepath.Join("base", "state", "settings.yml"), sd.Join("settings.yml"))
	assert.Equal(t, filepath.Join("base", "state", "logs"), sd.LogsDir())

	abs, err := filepath.Abs("elsewhere.yml")
	require.NoError(t, err)
	assert.Equal(t, abs, sd.Join(abs))
}
