// Package handoff recognizes when the engine has handed control to its
// updater, so the launcher can step aside instead of looping back to the menu.
package handoff

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/tnxqso/rf2k-launcher/internal/logger"
	"github.com/tnxqso/rf2k-launcher/pkg/engine"
)

const (
	// DefaultSentinelName is the file the engine's updater drops in the state
	// directory before exiting.
	DefaultSentinelName = "rf2k-update.flag"

	// DefaultExitCode is the exit code the engine's updater uses.
	DefaultExitCode = 111

	updateLogName = "RF2K-TRAINER_update.log"
)

// Kind classifies a finished engine run.
type Kind string

const (
	KindSuccess          Kind = "success"
	KindFailed           Kind = "failed"
	KindUpdateInProgress Kind = "update-in-progress"
)

// Outcome is the interpreted result of one engine run.
type Outcome struct {
	Kind          Kind   `json:"kind" yaml:"kind"`
	ExitCode      int    `json:"exit_code" yaml:"exit_code"`
	SentinelFound bool   `json:"sentinel_found" yaml:"sentinel_found"`
	UpdateLog     string `json:"update_log,omitempty" yaml:"update_log,omitempty"`
}

// Terminal reports whether the launcher must stop after this outcome.
func (o Outcome) Terminal() bool {
	return o.Kind == KindUpdateInProgress
}

// Detector evaluates engine results for an update handoff.
type Detector struct {
	StateDir     string
	SentinelName string

	// ExitCode signals a handoff on its own; 0 disables the check.
	ExitCode int

	// UpdateLog is where the updater writes its progress.
	UpdateLog string
}

// NewDetector returns a Detector with the engine's conventions.
func NewDetector(stateDir string) *Detector {
	return &Detector{
		StateDir:     stateDir,
		SentinelName: DefaultSentinelName,
		ExitCode:     DefaultExitCode,
		UpdateLog:    DefaultUpdateLog(),
	}
}

// SentinelPath returns the sentinel location.
func (d *Detector) SentinelPath() string {
	name := d.SentinelName
	if name == "" {
		name = DefaultSentinelName
	}
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(d.StateDir, name)
}

// Evaluate classifies res. A sentinel is consumed (deleted) so a later run
// is not mistaken for another handoff. The error is non-nil only when the
// sentinel exists but cannot be removed; the outcome is still valid then.
func (d *Detector) Evaluate(res engine.Result) (Outcome, error) {
	out := Outcome{ExitCode: res.ExitCode}

	path := d.SentinelPath()
	var removeErr error
	if _, err := os.Stat(path); err == nil {
		out.SentinelFound = true
		if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
			removeErr = fmt.Errorf("failed to remove update sentinel %s: %w", path, err)
		}
	}

	switch {
	case out.SentinelFound, d.ExitCode != 0 && res.ExitCode == d.ExitCode:
		out.Kind = KindUpdateInProgress
		out.UpdateLog = d.UpdateLog
	case res.ExitCode != 0:
		out.Kind = KindFailed
	default:
		out.Kind = KindSuccess
	}

	logger.Debug("engine outcome evaluated",
		logger.KeyOutcome, string(out.Kind),
		logger.KeyExitCode, out.ExitCode,
		"sentinel", out.SentinelFound,
	)
	return out, removeErr
}

// DefaultUpdateLog returns the updater's log location in the temp directory.
func DefaultUpdateLog() string {
	return filepath.Join(os.TempDir(), updateLogName)
}
