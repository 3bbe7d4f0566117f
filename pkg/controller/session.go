package controller

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tnxqso/rf2k-launcher/internal/cli/prompt"
	"github.com/tnxqso/rf2k-launcher/internal/cli/timeutil"
	"github.com/tnxqso/rf2k-launcher/internal/logger"
	"github.com/tnxqso/rf2k-launcher/pkg/engine"
	"github.com/tnxqso/rf2k-launcher/pkg/handoff"
	"github.com/tnxqso/rf2k-launcher/pkg/instancelock"
	"github.com/tnxqso/rf2k-launcher/pkg/menu"
	"github.com/tnxqso/rf2k-launcher/pkg/metrics"
	"github.com/tnxqso/rf2k-launcher/pkg/provision"
)

// Run executes an interactive session and returns the process exit code.
func (c *Controller) Run(ctx context.Context) int {
	ctx = c.context(ctx)

	lock, code, ok := c.acquire(ctx)
	if !ok {
		return code
	}
	defer c.finish(ctx, lock)

	stop := c.handleSignals(ctx, lock)
	defer stop()

	cfgFile, err := c.Provisioner.Ensure(c.State, c.LauncherDir)
	if err != nil {
		logger.ErrorCtx(ctx, "setup failed", logger.Err(err))
		c.Printer.Error(err.Error())
		return ExitFatal
	}
	c.recordProvision(cfgFile)

	if _, err := c.Provisioner.OfferEdit(ctx, cfgFile); err != nil {
		if prompt.IsAborted(err) {
			return ExitInterrupted
		}
		logger.WarnCtx(ctx, "edit prompt failed", logger.Err(err))
	}

	c.Printer.Banner("RF2K-TRAINER", 40)
	c.Printer.Printf("State directory: %s (%s)\n", c.State.Path, c.State.Source)

	m := &menu.Menu{
		Title:            "RF2K-TRAINER",
		UpdatesSupported: c.Config.Update.Supported,
		Prompter:         c.Prompter,
		Dispatcher:       c,
		Printer:          c.Printer,
	}

	if err := m.Loop(ctx); err != nil {
		if prompt.IsAborted(err) || errors.Is(err, context.Canceled) {
			logger.InfoCtx(ctx, "session interrupted")
			return ExitInterrupted
		}
		logger.ErrorCtx(ctx, "menu failed", logger.Err(err))
		c.Printer.Error(err.Error())
		return ExitFatal
	}
	return ExitOK
}

// RunOnce runs a single selection without the menu. The exit code is the
// engine's, or ExitOK when the engine handed off to its updater.
func (c *Controller) RunOnce(ctx context.Context, choice menu.Choice, bands string) int {
	ctx = c.context(ctx)

	if choice == menu.ChoiceExit {
		return ExitOK
	}
	args, err := choice.Args(bands)
	if err != nil {
		c.Printer.Error(err.Error())
		return ExitFatal
	}

	lock, code, ok := c.acquire(ctx)
	if !ok {
		return code
	}
	defer c.finish(ctx, lock)

	stop := c.handleSignals(ctx, lock)
	defer stop()

	cfgFile, err := c.Provisioner.Ensure(c.State, c.LauncherDir)
	if err != nil {
		c.Printer.Error(err.Error())
		return ExitFatal
	}
	c.recordProvision(cfgFile)

	outcome, err := c.execute(ctx, choice, args)
	if err != nil {
		c.Printer.Error(err.Error())
		return ExitFatal
	}
	if outcome.Terminal() {
		c.printHandoff(outcome)
		return ExitOK
	}
	return outcome.ExitCode
}

// Dispatch runs one menu selection. It implements menu.Dispatcher.
func (c *Controller) Dispatch(ctx context.Context, choice menu.Choice, args []string) (menu.Action, error) {
	outcome, err := c.execute(ctx, choice, args)
	if err != nil {
		if errors.Is(err, engine.ErrEngineNotFound) {
			c.Printer.Error(fmt.Sprintf("Could not find the RF2K-TRAINER engine next to the launcher (%s).", c.LauncherDir))
		} else {
			c.Printer.Error(err.Error())
		}
		return menu.Continue, c.acknowledge("Press Enter to return to the menu")
	}

	if outcome.Terminal() {
		c.printHandoff(outcome)
		return menu.Terminate, c.acknowledge("Press Enter to close the launcher")
	}

	if outcome.Kind == handoff.KindFailed {
		c.Printer.Warning(fmt.Sprintf("RF2K-TRAINER exited with code %d", outcome.ExitCode))
	}
	return menu.Continue, c.acknowledge("Press Enter to return to the menu")
}

// execute runs the engine for choice and interprets the result.
func (c *Controller) execute(ctx context.Context, choice menu.Choice, args []string) (handoff.Outcome, error) {
	lc := logger.FromContext(ctx).WithChoice(choice.String())
	ctx = logger.WithContext(ctx, lc)

	c.engineRunning.Store(true)
	res, err := c.Runner.Run(ctx, engine.Invocation{Args: args, WorkDir: c.State.Path})
	c.engineRunning.Store(false)
	if err != nil {
		logger.ErrorCtx(ctx, "engine run failed", logger.Err(err))
		return handoff.Outcome{}, err
	}

	outcome, err := c.Detector.Evaluate(res)
	if err != nil {
		logger.WarnCtx(ctx, "update sentinel not cleared", logger.Err(err))
	}
	if outcome.Terminal() {
		c.handedOff.Store(true)
	}

	logger.InfoCtx(ctx, "engine run finished",
		logger.KeyOutcome, string(outcome.Kind),
		logger.KeyExitCode, outcome.ExitCode,
		"duration", timeutil.FormatDuration(res.Duration),
	)
	if c.Metrics != nil {
		c.Metrics.ObserveRun(choice.String(), string(outcome.Kind), outcome.ExitCode, res.Duration)
	}
	return outcome, nil
}

func (c *Controller) printHandoff(outcome handoff.Outcome) {
	c.Printer.Notice("RF2K-TRAINER is updating itself.")
	c.Printer.Println("The updater continues in its own window and restarts RF2K-TRAINER when done.")
	if outcome.UpdateLog != "" {
		c.Printer.Printf("Update progress is logged to %s\n", outcome.UpdateLog)
	}
}

// acquire takes the instance lock. On failure it reports and returns the
// exit code to use.
func (c *Controller) acquire(ctx context.Context) (*instancelock.Lock, int, bool) {
	lock, err := instancelock.Acquire(c.State.Path, c.Config.Lock.File)
	if err == nil {
		return lock, ExitOK, true
	}

	var running *instancelock.AlreadyRunningError
	if errors.As(err, &running) {
		logger.WarnCtx(ctx, "another launcher holds the lock", logger.PID(running.PID), logger.Path(running.Path))
		if c.Metrics != nil {
			c.Metrics.RecordLockConflict()
		}
		c.Printer.Warning(fmt.Sprintf("RF2K-TRAINER launcher is already running (pid %d).", running.PID))
		if pause := c.Config.Lock.AlreadyRunningPause; pause > 0 {
			time.Sleep(pause)
		}
		return nil, ExitAlreadyRunning, false
	}

	logger.ErrorCtx(ctx, "failed to acquire instance lock", logger.Err(err))
	c.Printer.Error(err.Error())
	return nil, ExitFatal, false
}

// finish releases the lock and flushes metrics.
func (c *Controller) finish(ctx context.Context, lock *instancelock.Lock) {
	if err := lock.Release(); err != nil {
		logger.WarnCtx(ctx, "failed to release instance lock", logger.Err(err))
	}
	c.writeMetrics(ctx)

	lc := logger.FromContext(ctx)
	logger.InfoCtx(ctx, "session finished",
		"handed_off", c.handedOff.Load(),
		logger.DurationMs(lc.Elapsed()),
	)
}

func (c *Controller) writeMetrics(ctx context.Context) {
	if !c.Config.Metrics.Enabled {
		return
	}
	if err := metrics.WriteTextfile(c.MetricsPath()); err != nil {
		logger.WarnCtx(ctx, "failed to write metrics", logger.Err(err))
	}
}

func (c *Controller) recordProvision(cfg provision.ConfigFile) {
	if c.Metrics != nil {
		c.Metrics.RecordProvision(string(cfg.Origin))
	}
}

func (c *Controller) acknowledge(label string) error {
	if err := c.Prompter.Acknowledge(label); err != nil && !prompt.IsAborted(err) {
		return err
	}
	return nil
}

// handleSignals releases the lock and exits on SIGINT/SIGTERM. While the
// engine runs the signal is left to the engine, which shares the console.
func (c *Controller) handleSignals(ctx context.Context, lock *instancelock.Lock) (stop func()) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	done := make(chan struct{})
	go func() {
		for {
			select {
			case sig := <-sigCh:
				if c.onSignal(ctx, sig, lock) {
					return
				}
			case <-done:
				return
			}
		}
	}()

	return func() {
		signal.Stop(sigCh)
		close(done)
	}
}

// onSignal handles one signal and reports whether the process is exiting.
func (c *Controller) onSignal(ctx context.Context, sig os.Signal, lock *instancelock.Lock) bool {
	if c.engineRunning.Load() && sig == os.Interrupt {
		logger.InfoCtx(ctx, "interrupt forwarded to engine")
		return false
	}

	logger.InfoCtx(ctx, "received signal, exiting", "signal", sig.String())
	c.finish(ctx, lock)
	_ = logger.Close()
	c.exit(ExitInterrupted)
	return true
}
