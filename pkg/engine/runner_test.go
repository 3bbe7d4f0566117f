package engine

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeScript writes an executable shell script standing in for the engine.
func writeScript(t *testing.T, dir, name, body string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell scripts are not executable on windows")
	}
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+body+"\n"), 0755))
	return path
}

func TestRun_ForwardsArgsAndWorkDir(t *testing.T) {
	launcherDir := t.TempDir()
	stateDir := t.TempDir()
	writeScript(t, launcherDir, "rf2k-trainer", `pwd; echo "$@"`)

	var stdout bytes.Buffer
	r := NewRunner(Options{LauncherDir: launcherDir, Name: "rf2k-trainer"})
	r.Stdout = &stdout

	res, err := r.Run(context.Background(), Invocation{Args: []string{"--debug", "60", "80"}, WorkDir: stateDir})
	require.NoError(t, err)

	assert.Equal(t, 0, res.ExitCode)
	assert.True(t, res.Success())
	assert.Equal(t, "colocated", res.Strategy)
	assert.Equal(t, stateDir, res.WorkDir)

	lines := strings.Split(strings.TrimSpace(stdout.String()), "\n")
	require.Len(t, lines, 2)
	wantDir, err := filepath.EvalSymlinks(stateDir)
	require.NoError(t, err)
	gotDir, err := filepath.EvalSymlinks(lines[0])
	require.NoError(t, err)
	assert.Equal(t, wantDir, gotDir)
	assert.Equal(t, "--debug 60 80", lines[1])
}

func TestRun_ReportsExitCode(t *testing.T) {
	launcherDir := t.TempDir()
	writeScript(t, launcherDir, "rf2k-trainer", "exit 111")

	r := NewRunner(Options{LauncherDir: launcherDir, Name: "rf2k-trainer"})
	res, err := r.Run(context.Background(), Invocation{WorkDir: t.TempDir()})
	require.NoError(t, err)
	assert.Equal(t, 111, res.ExitCode)
	assert.False(t, res.Success())
}

func TestRun_EngineNotFound(t *testing.T) {
	r := NewRunner(Options{LauncherDir: t.TempDir(), Name: "rf2k-trainer", SourceEntry: "main.py"})
	_, err := r.Run(context.Background(), Invocation{WorkDir: t.TempDir()})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrEngineNotFound))
	assert.Contains(t, err.Error(), "explicit, colocated, install-dir, source")
}

func TestLocate_Order(t *testing.T) {
	launcherDir := t.TempDir()
	installDir := t.TempDir()
	explicit := writeScript(t, t.TempDir(), "custom-engine", "exit 0")
	writeScript(t, launcherDir, "rf2k-trainer", "exit 0")
	writeScript(t, installDir, "rf2k-trainer", "exit 0")

	r := NewRunner(Options{LauncherDir: launcherDir, Path: explicit, Name: "rf2k-trainer", InstallDir: installDir})
	cmd, err := r.Locate()
	require.NoError(t, err)
	assert.Equal(t, "explicit", cmd.Strategy)

	r = NewRunner(Options{LauncherDir: launcherDir, Path: filepath.Join(launcherDir, "missing"), Name: "rf2k-trainer", InstallDir: installDir})
	cmd, err = r.Locate()
	require.NoError(t, err)
	assert.Equal(t, "colocated", cmd.Strategy)

	r = NewRunner(Options{LauncherDir: t.TempDir(), Name: "rf2k-trainer", InstallDir: installDir})
	cmd, err = r.Locate()
	require.NoError(t, err)
	assert.Equal(t, "install-dir", cmd.Strategy)
	assert.Equal(t, filepath.Join(installDir, "rf2k-trainer"), cmd.Path)
}

func TestSource_Resolve(t *testing.T) {
	launcherDir := t.TempDir()
	script := filepath.Join(launcherDir, "main.py")
	require.NoError(t, os.WriteFile(script, []byte("print('hi')\n"), 0644))

	var looked []string
	s := Source{
		Entry:        "main.py",
		Interpreters: []string{"python3", "python"},
		LookPath: func(name string) (string, error) {
			looked = append(looked, name)
			if name == "python" {
				return "/usr/bin/python", nil
			}
			return "", errors.New("not found")
		},
	}

	cmd, ok, err := s.Resolve(launcherDir)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "/usr/bin/python", cmd.Path)
	assert.Equal(t, []string{script}, cmd.Args)
	assert.Equal(t, []string{"python3", "python"}, looked)

	s.Interpreters = []string{"python3"}
	_, ok, err = s.Resolve(launcherDir)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestStrategies_SkipWhenUnconfigured(t *testing.T) {
	for _, s := range []Strategy{Explicit{}, Colocated{}, InstallDir{}, Source{}} {
		_, ok, err := s.Resolve("")
		require.NoError(t, err, s.Name())
		assert.False(t, ok, s.Name())
	}
}

func TestExplicit_IgnoresDirectory(t *testing.T) {
	_, ok, err := Explicit{Path: t.TempDir()}.Resolve("")
	require.NoError(t, err)
	assert.False(t, ok)
}
