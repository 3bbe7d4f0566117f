// Package statedir resolves the writable directory that holds the launcher's
// mutable state: the engine settings file, its logs and the instance lock.
//
// The launcher prefers its own directory (portable installs) and falls back to
// a per-user location when that directory is read-only, e.g. under
// Program Files.
package statedir

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
)

// AppDirName is the per-user directory name used on Windows.
const AppDirName = "RF2K-TRAINER"

// appDirNameUnix is the per-user directory name used on Unix-like systems.
const appDirNameUnix = "rf2k-trainer"

// Source records where a StateDirectory came from.
type Source string

const (
	// SourceColocated means the launcher's own directory is writable and used.
	SourceColocated Source = "colocated"
	// SourcePerUser means the per-user application-data fallback is used.
	SourcePerUser Source = "per-user"
	// SourceExplicit means the directory was pinned by the caller.
	SourceExplicit Source = "explicit"
)

// ErrNoWritableStateDir is returned when neither candidate can be written.
var ErrNoWritableStateDir = errors.New("no writable state directory")

// StateDirectory is the resolved location for config, logs and the lock file.
type StateDirectory struct {
	Path     string `json:"path" yaml:"path"`
	Writable bool   `json:"writable" yaml:"writable"`
	Source   Source `json:"source" yaml:"source"`
}

// LogsDir returns the engine's log directory inside the state directory.
func (s StateDirectory) LogsDir() string {
	return filepath.Join(s.Path, "logs")
}

// Join returns name resolved against the state directory.
func (s StateDirectory) Join(name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(s.Path, name)
}

// Resolver determines the state directory. The zero value is not usable;
// construct with NewResolver.
type Resolver struct {
	// Explicit pins the state directory; it must still be writable.
	Explicit string

	// FallbackDir returns the per-user directory.
	FallbackDir func() (string, error)

	// Probe reports whether dir accepts new files.
	Probe func(dir string) error
}

// NewResolver returns a Resolver using the platform's per-user location.
func NewResolver() *Resolver {
	return &Resolver{
		FallbackDir: DefaultFallbackDir,
		Probe:       ProbeWritable,
	}
}

// Resolve picks the state directory for a launcher located in launcherDir.
// Repeated calls in an unchanged environment return the same path.
func (r *Resolver) Resolve(launcherDir string) (StateDirectory, error) {
	if r.Explicit != "" {
		dir, err := filepath.Abs(r.Explicit)
		if err != nil {
			return StateDirectory{}, fmt.Errorf("failed to resolve state directory %q: %w", r.Explicit, err)
		}
		if err := os.MkdirAll(dir, 0755); err != nil {
			return StateDirectory{}, fmt.Errorf("%w: %s: %v", ErrNoWritableStateDir, dir, err)
		}
		if err := r.Probe(dir); err != nil {
			return StateDirectory{}, fmt.Errorf("%w: %s: %v", ErrNoWritableStateDir, dir, err)
		}
		return StateDirectory{Path: dir, Writable: true, Source: SourceExplicit}, nil
	}

	launcherDir, err := filepath.Abs(launcherDir)
	if err != nil {
		return StateDirectory{}, fmt.Errorf("failed to resolve launcher directory: %w", err)
	}

	colocatedErr := r.Probe(launcherDir)
	if colocatedErr == nil {
		return StateDirectory{Path: launcherDir, Writable: true, Source: SourceColocated}, nil
	}

	fallback, err := r.FallbackDir()
	if err != nil {
		return StateDirectory{}, fmt.Errorf("%w: %s is read-only (%v) and no per-user directory is available: %v",
			ErrNoWritableStateDir, launcherDir, colocatedErr, err)
	}

	if err := os.MkdirAll(fallback, 0755); err != nil {
		return StateDirectory{}, fmt.Errorf("%w: %s is read-only (%v) and %s cannot be created: %v",
			ErrNoWritableStateDir, launcherDir, colocatedErr, fallback, err)
	}
	if err := r.Probe(fallback); err != nil {
		return StateDirectory{}, fmt.Errorf("%w: neither %s (%v) nor %s (%v) is writable",
			ErrNoWritableStateDir, launcherDir, colocatedErr, fallback, err)
	}

	return StateDirectory{Path: fallback, Writable: true, Source: SourcePerUser}, nil
}

// ProbeWritable creates and removes a temporary file in dir.
func ProbeWritable(dir string) error {
	f, err := os.CreateTemp(dir, ".rf2k-write-probe-*")
	if err != nil {
		return err
	}
	name := f.Name()
	if err := f.Close(); err != nil {
		_ = os.Remove(name)
		return err
	}
	return os.Remove(name)
}

// DefaultFallbackDir returns the per-user application-data directory:
// %LOCALAPPDATA%\RF2K-TRAINER on Windows, $XDG_STATE_HOME/rf2k-trainer
// (default ~/.local/state/rf2k-trainer) elsewhere.
func DefaultFallbackDir() (string, error) {
	if runtime.GOOS == "windows" {
		if localAppData := os.Getenv("LOCALAPPDATA"); localAppData != "" {
			return filepath.Join(localAppData, AppDirName), nil
		}
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, "AppData", "Local", AppDirName), nil
	}

	stateHome := os.Getenv("XDG_STATE_HOME")
	if stateHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		stateHome = filepath.Join(home, ".local", "state")
	}
	return filepath.Join(stateHome, appDirNameUnix), nil
}

// LauncherDir returns the directory containing the running executable,
// with symlinks resolved.
func LauncherDir() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", fmt.Errorf("failed to get executable path: %w", err)
	}
	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		exe = resolved
	}
	return filepath.Dir(exe), nil
}
