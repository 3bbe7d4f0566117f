// Package controller runs a launcher session: it resolves the state
// directory, guards it with the instance lock, provisions settings and then
// drives the menu, dispatching each selection to the engine.
package controller

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/tnxqso/rf2k-launcher/internal/cli/output"
	"github.com/tnxqso/rf2k-launcher/internal/logger"
	"github.com/tnxqso/rf2k-launcher/pkg/config"
	"github.com/tnxqso/rf2k-launcher/pkg/engine"
	"github.com/tnxqso/rf2k-launcher/pkg/handoff"
	"github.com/tnxqso/rf2k-launcher/pkg/menu"
	"github.com/tnxqso/rf2k-launcher/pkg/metrics"
	"github.com/tnxqso/rf2k-launcher/pkg/provision"
	"github.com/tnxqso/rf2k-launcher/pkg/statedir"

	// Registers the Prometheus metrics constructors.
	_ "github.com/tnxqso/rf2k-launcher/pkg/metrics/prometheus"
)

// Process exit codes.
const (
	ExitOK             = 0
	ExitFatal          = 1
	ExitAlreadyRunning = 2
	ExitInterrupted    = 130
)

// Runner runs the engine.
type Runner interface {
	Run(ctx context.Context, inv engine.Invocation) (engine.Result, error)
}

// Options are the command-line inputs to Prepare.
type Options struct {
	// LauncherDir is where the launcher (and usually the engine) is installed.
	LauncherDir string

	// StateDir pins the state directory instead of resolving it.
	StateDir string

	// ConfigPath overrides <state>/launcher.yaml.
	ConfigPath string

	// LogLevel overrides logging.level.
	LogLevel string

	// Plain uses line prompts instead of interactive ones.
	Plain bool

	In  io.Reader
	Out io.Writer
}

// Controller holds everything a session needs.
type Controller struct {
	Config      *config.Config
	State       statedir.StateDirectory
	LauncherDir string
	SessionID   string

	Runner      Runner
	Detector    *handoff.Detector
	Provisioner *provision.Provisioner
	Prompter    menu.Prompter
	Printer     *output.Printer
	Metrics     metrics.RunMetrics

	// exit terminates the process from the signal handler.
	exit func(code int)

	engineRunning atomic.Bool
	handedOff     atomic.Bool
}

// New builds a Controller from a loaded config and resolved state directory.
func New(cfg *config.Config, state statedir.StateDirectory, launcherDir string, prompter menu.Prompter, out io.Writer) *Controller {
	if out == nil {
		out = os.Stdout
	}

	p := provision.New()
	p.ConfigName = cfg.Setup.ConfigFile
	p.TemplateName = cfg.Setup.TemplateFile
	p.Editor = cfg.Setup.Editor
	p.Out = out
	if cfg.Setup.OfferEdit {
		p.Confirm = prompter
	}

	return &Controller{
		Config:      cfg,
		State:       state,
		LauncherDir: launcherDir,
		SessionID:   uuid.NewString(),
		Runner: engine.NewRunner(engine.Options{
			LauncherDir:  launcherDir,
			Path:         cfg.Engine.Path,
			Name:         cfg.Engine.Name,
			InstallDir:   cfg.Engine.InstallDir,
			SourceEntry:  cfg.Engine.SourceEntry,
			Interpreters: cfg.Engine.Interpreters,
		}),
		Detector: &handoff.Detector{
			StateDir:     state.Path,
			SentinelName: cfg.Update.SentinelFile,
			ExitCode:     cfg.Update.ExitCode,
			UpdateLog:    cfg.Update.LogPath,
		},
		Provisioner: p,
		Prompter:    prompter,
		Printer:     output.NewPrinter(out, logger.IsTerminal(os.Stdout.Fd())),
		Metrics:     metrics.NewRunMetrics(),
		exit:        os.Exit,
	}
}

// Prepare resolves the state directory, loads configuration and starts
// logging. Any error is fatal for the session.
func Prepare(opts Options) (*Controller, error) {
	launcherDir := opts.LauncherDir
	if launcherDir == "" {
		dir, err := statedir.LauncherDir()
		if err != nil {
			return nil, err
		}
		launcherDir = dir
	}

	resolver := statedir.NewResolver()
	resolver.Explicit = opts.StateDir
	state, err := resolver.Resolve(launcherDir)
	if err != nil {
		return nil, err
	}

	if _, err := config.LoadEnvFile(state.Path); err != nil {
		return nil, err
	}

	cfg, err := config.Load(state.Path, opts.ConfigPath)
	if err != nil {
		return nil, err
	}
	if opts.LogLevel != "" {
		cfg.Logging.Level = strings.ToUpper(opts.LogLevel)
		if err := config.Validate(cfg); err != nil {
			return nil, fmt.Errorf("invalid --log-level: %w", err)
		}
	}

	if err := InitLogging(cfg, state); err != nil {
		return nil, err
	}

	if cfg.Metrics.Enabled {
		metrics.InitRegistry()
	}

	in := opts.In
	if in == nil {
		in = os.Stdin
	}
	out := opts.Out
	if out == nil {
		out = os.Stdout
	}

	var prompter menu.Prompter = menu.InteractivePrompter{}
	if opts.Plain || !isTerminal(in) {
		prompter = menu.NewLinePrompter(in, out)
	}

	c := New(cfg, state, launcherDir, prompter, out)
	logger.Info("session started",
		logger.SessionID(c.SessionID),
		logger.StateDir(state.Path),
		"state_source", string(state.Source),
		"launcher_dir", launcherDir,
	)
	return c, nil
}

// InitLogging starts the logger from cfg. A relative file output resolves
// against the state directory.
func InitLogging(cfg *config.Config, state statedir.StateDirectory) error {
	out := cfg.Logging.Output
	switch strings.ToLower(out) {
	case "stdout", "stderr":
	default:
		out = state.Join(out)
	}
	return logger.Init(logger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: out,
	})
}

// MetricsPath returns the metrics textfile location.
func (c *Controller) MetricsPath() string {
	return c.State.Join(c.Config.Metrics.Textfile)
}

// LockPath returns the instance lock location.
func (c *Controller) LockPath() string {
	return filepath.Join(c.State.Path, c.Config.Lock.File)
}

func (c *Controller) context(ctx context.Context) context.Context {
	return logger.WithContext(ctx, logger.NewLogContext(c.SessionID, c.State.Path))
}

func isTerminal(r io.Reader) bool {
	f, ok := r.(*os.File)
	return ok && logger.IsTerminal(f.Fd())
}
