// Package instancelock guards a state directory against concurrent launchers
// with a PID file.
//
// The lock is advisory and best-effort: a check-then-write race between two
// launches started at the same instant is not prevented.
package instancelock

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/tnxqso/rf2k-launcher/internal/logger"
)

// DefaultFileName is the lock file name inside the state directory.
const DefaultFileName = "rf2k-launcher.lock"

// ErrAlreadyRunning matches any *AlreadyRunningError.
var ErrAlreadyRunning = errors.New("launcher already running")

// AlreadyRunningError reports a live lock holder.
type AlreadyRunningError struct {
	PID  int
	Path string
}

func (e *AlreadyRunningError) Error() string {
	return fmt.Sprintf("another launcher is already running (PID %d, lock %s)", e.PID, e.Path)
}

// Is lets errors.Is(err, ErrAlreadyRunning) match.
func (e *AlreadyRunningError) Is(target error) bool {
	return target == ErrAlreadyRunning
}

// Record describes the on-disk lock file.
type Record struct {
	Path   string `json:"path" yaml:"path"`
	Exists bool   `json:"exists" yaml:"exists"`
	PID    int    `json:"pid,omitempty" yaml:"pid,omitempty"`
	Alive  bool   `json:"alive" yaml:"alive"`
}

// Stale reports whether the record exists but has no live holder.
func (r Record) Stale() bool {
	return r.Exists && !r.Alive
}

// processAlive is swapped in tests.
var processAlive = isProcessAlive

// Inspect reads the lock file at path without modifying it. A blank or
// unparsable PID yields PID 0 and Alive false.
func Inspect(path string) (Record, error) {
	rec := Record{Path: path}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return rec, nil
		}
		return rec, fmt.Errorf("failed to read lock file: %w", err)
	}
	rec.Exists = true

	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil || pid <= 0 {
		return rec, nil
	}
	rec.PID = pid
	rec.Alive = processAlive(pid)
	return rec, nil
}

// Lock is a held instance lock. Release it on every exit path.
type Lock struct {
	path string
	pid  int

	once sync.Once
	err  error
}

// Acquire takes the lock in stateDir using fileName (DefaultFileName when empty).
//
// A stale lock (blank id, unparsable id, or no process with that id) is
// removed first. A live holder returns *AlreadyRunningError and leaves the
// file untouched.
func Acquire(stateDir, fileName string) (*Lock, error) {
	if fileName == "" {
		fileName = DefaultFileName
	}
	path := filepath.Join(stateDir, fileName)

	rec, err := Inspect(path)
	if err != nil {
		return nil, err
	}

	if rec.Alive {
		return nil, &AlreadyRunningError{PID: rec.PID, Path: path}
	}

	if rec.Stale() {
		logger.Info("Removing stale instance lock", logger.Path(path), logger.PID(rec.PID))
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to remove stale lock file: %w", err)
		}
	}

	pid := os.Getpid()
	if err := os.WriteFile(path, []byte(strconv.Itoa(pid)), 0644); err != nil {
		return nil, fmt.Errorf("failed to write lock file: %w", err)
	}

	logger.Debug("Instance lock acquired", logger.Path(path), logger.PID(pid))
	return &Lock{path: path, pid: pid}, nil
}

// Path returns the lock file path.
func (l *Lock) Path() string {
	return l.path
}

// PID returns the process id written to the lock file.
func (l *Lock) PID() int {
	return l.pid
}

// Release deletes the lock file. It is safe to call more than once and from
// a signal handler racing a deferred call; only the first call acts.
func (l *Lock) Release() error {
	if l == nil {
		return nil
	}
	l.once.Do(func() {
		if err := os.Remove(l.path); err != nil && !os.IsNotExist(err) {
			l.err = fmt.Errorf("failed to remove lock file: %w", err)
			return
		}
		logger.Debug("Instance lock released", logger.Path(l.path))
	})
	return l.err
}
