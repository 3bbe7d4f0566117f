// Package engine locates and runs the RF2K-TRAINER engine as a child process.
//
// The engine is opaque: the runner forwards arguments, inherits the console
// and reports the raw exit code. It never interprets engine output.
package engine

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/tnxqso/rf2k-launcher/internal/logger"
)

// ErrEngineNotFound is returned when no strategy locates the engine.
var ErrEngineNotFound = errors.New("engine not found")

// Invocation is a single engine run.
type Invocation struct {
	// Args are forwarded verbatim after the resolved command prefix.
	Args []string

	// WorkDir is the state directory; the engine resolves settings.yml and
	// logs/ relative to it.
	WorkDir string
}

// Result describes a completed engine run.
type Result struct {
	ExitCode   int
	Duration   time.Duration
	Executable string
	Strategy   string
	WorkDir    string
}

// Success reports whether the engine exited with code 0.
func (r Result) Success() bool {
	return r.ExitCode == 0
}

// Runner runs the engine located by the first matching strategy.
type Runner struct {
	LauncherDir string
	Strategies  []Strategy

	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// Options configures NewRunner.
type Options struct {
	LauncherDir  string
	Path         string
	Name         string
	InstallDir   string
	SourceEntry  string
	Interpreters []string
}

// NewRunner builds a Runner with the standard strategy order: explicit path,
// colocated executable, install directory, source entry script.
func NewRunner(opts Options) *Runner {
	return &Runner{
		LauncherDir: opts.LauncherDir,
		Strategies: []Strategy{
			Explicit{Path: opts.Path},
			Colocated{Executable: opts.Name},
			InstallDir{Dir: opts.InstallDir, Executable: opts.Name},
			Source{Entry: opts.SourceEntry, Interpreters: opts.Interpreters},
		},
	}
}

// Locate returns the command of the first strategy that applies.
func (r *Runner) Locate() (Command, error) {
	var tried []string
	for _, s := range r.Strategies {
		cmd, ok, err := s.Resolve(r.LauncherDir)
		if err != nil {
			return Command{}, fmt.Errorf("strategy %s: %w", s.Name(), err)
		}
		if ok {
			return cmd, nil
		}
		tried = append(tried, s.Name())
	}
	return Command{}, fmt.Errorf("%w (tried: %s)", ErrEngineNotFound, strings.Join(tried, ", "))
}

// Run blocks until the engine exits. The context only carries log fields;
// the engine is not cancelled when it is done. A non-zero exit is reported in
// Result, not as an error.
func (r *Runner) Run(ctx context.Context, inv Invocation) (Result, error) {
	command, err := r.Locate()
	if err != nil {
		return Result{}, err
	}

	args := append(append([]string{}, command.Args...), inv.Args...)
	cmd := exec.Command(command.Path, args...)
	cmd.Dir = inv.WorkDir
	cmd.Stdin, cmd.Stdout, cmd.Stderr = os.Stdin, os.Stdout, os.Stderr
	if r.Stdin != nil {
		cmd.Stdin = r.Stdin
	}
	if r.Stdout != nil {
		cmd.Stdout = r.Stdout
	}
	if r.Stderr != nil {
		cmd.Stderr = r.Stderr
	}

	logger.InfoCtx(ctx, "starting engine",
		logger.KeyStrategy, command.Strategy,
		logger.KeyExecutable, command.Path,
		logger.KeyArgs, strings.Join(inv.Args, " "),
	)

	start := time.Now()
	runErr := cmd.Run()
	res := Result{
		ExitCode:   0,
		Duration:   time.Since(start),
		Executable: command.Path,
		Strategy:   command.Strategy,
		WorkDir:    inv.WorkDir,
	}

	if runErr != nil {
		var exitErr *exec.ExitError
		if !errors.As(runErr, &exitErr) {
			return res, fmt.Errorf("failed to start engine %s: %w", command.Path, runErr)
		}
		res.ExitCode = exitErr.ExitCode()
	}

	logger.InfoCtx(ctx, "engine exited",
		logger.KeyExitCode, res.ExitCode,
		logger.KeyDurationMs, res.Duration.Milliseconds(),
	)
	return res, nil
}
