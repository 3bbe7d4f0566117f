package engine

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
)

// Command is a resolved engine invocation prefix: the program and any
// arguments that precede the forwarded ones (e.g. the script path).
type Command struct {
	Path string
	Args []string

	// Strategy names the strategy that produced the command.
	Strategy string
}

// Strategy locates the engine one way. Resolve returns ok=false when this
// strategy does not apply, and an error only for unexpected failures.
type Strategy interface {
	Name() string
	Resolve(launcherDir string) (cmd Command, ok bool, err error)
}

// ExecutableName returns name with the platform's executable suffix.
func ExecutableName(name string) string {
	if runtime.GOOS == "windows" && filepath.Ext(name) != ".exe" {
		return name + ".exe"
	}
	return name
}

// isFile reports whether path names an existing regular file.
func isFile(path string) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("failed to stat %s: %w", path, err)
	}
	return info.Mode().IsRegular(), nil
}

// Explicit runs a configured engine path.
type Explicit struct {
	Path string
}

func (s Explicit) Name() string { return "explicit" }

func (s Explicit) Resolve(string) (Command, bool, error) {
	if s.Path == "" {
		return Command{}, false, nil
	}
	ok, err := isFile(s.Path)
	if err != nil || !ok {
		return Command{}, false, err
	}
	return Command{Path: s.Path, Strategy: s.Name()}, true, nil
}

// Colocated runs the engine executable shipped next to the launcher.
type Colocated struct {
	Executable string
}

func (s Colocated) Name() string { return "colocated" }

func (s Colocated) Resolve(launcherDir string) (Command, bool, error) {
	if launcherDir == "" || s.Executable == "" {
		return Command{}, false, nil
	}
	path := filepath.Join(launcherDir, ExecutableName(s.Executable))
	ok, err := isFile(path)
	if err != nil || !ok {
		return Command{}, false, err
	}
	return Command{Path: path, Strategy: s.Name()}, true, nil
}

// InstallDir runs the engine from the per-user install location.
type InstallDir struct {
	Dir        string
	Executable string
}

func (s InstallDir) Name() string { return "install-dir" }

func (s InstallDir) Resolve(string) (Command, bool, error) {
	if s.Dir == "" || s.Executable == "" {
		return Command{}, false, nil
	}
	path := filepath.Join(s.Dir, ExecutableName(s.Executable))
	ok, err := isFile(path)
	if err != nil || !ok {
		return Command{}, false, err
	}
	return Command{Path: path, Strategy: s.Name()}, true, nil
}

// Source runs the engine's entry script with the first interpreter found.
type Source struct {
	Entry        string
	Interpreters []string

	// LookPath defaults to exec.LookPath.
	LookPath func(file string) (string, error)
}

func (s Source) Name() string { return "source" }

func (s Source) Resolve(launcherDir string) (Command, bool, error) {
	if launcherDir == "" || s.Entry == "" {
		return Command{}, false, nil
	}
	script := filepath.Join(launcherDir, s.Entry)
	ok, err := isFile(script)
	if err != nil || !ok {
		return Command{}, false, err
	}

	lookPath := s.LookPath
	if lookPath == nil {
		lookPath = exec.LookPath
	}
	for _, interp := range s.Interpreters {
		path, err := lookPath(interp)
		if err != nil {
			continue
		}
		return Command{Path: path, Args: []string{script}, Strategy: s.Name()}, true, nil
	}
	return Command{}, false, nil
}

// DefaultInterpreters returns the interpreter names tried by Source.
func DefaultInterpreters() []string {
	if runtime.GOOS == "windows" {
		return []string{"py", "python"}
	}
	return []string{"python3", "python"}
}

// DefaultInstallDir returns the per-user install location of the engine,
// or "" where the platform has none.
func DefaultInstallDir() string {
	if runtime.GOOS != "windows" {
		return ""
	}
	base := os.Getenv("LOCALAPPDATA")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		base = filepath.Join(home, "AppData", "Local")
	}
	return filepath.Join(base, "Programs", "RF2K-TRAINER")
}
