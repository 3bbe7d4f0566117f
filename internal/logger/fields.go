package logger

import (
	"log/slog"
	"time"
)

// Standard field keys used across the launcher.
const (
	// Session
	KeySessionID = "session_id" // Launcher session identifier (uuid)
	KeyPID       = "pid"        // Process id (launcher or lock holder)

	// State directory and files
	KeyStateDir = "state_dir" // Resolved state directory
	KeySource   = "source"    // Resolution source: colocated, per-user, explicit
	KeyPath     = "path"      // File path
	KeyOrigin   = "origin"    // Config origin: existing, template, defaults

	// Engine invocation
	KeyChoice     = "choice"      // Menu choice name
	KeyArgs       = "args"        // Arguments forwarded to the engine
	KeyStrategy   = "strategy"    // Executable resolution strategy
	KeyExecutable = "executable"  // Resolved executable path
	KeyExitCode   = "exit_code"   // Engine exit code
	KeyOutcome    = "outcome"     // Post-run outcome: success, failed, update-in-progress
	KeyDurationMs = "duration_ms" // Duration in milliseconds

	KeyError = "error"
)

// SessionID returns a slog.Attr for the launcher session id
func SessionID(id string) slog.Attr {
	return slog.String(KeySessionID, id)
}

// PID returns a slog.Attr for a process id
func PID(pid int) slog.Attr {
	return slog.Int(KeyPID, pid)
}

// StateDir returns a slog.Attr for the state directory
func StateDir(dir string) slog.Attr {
	return slog.String(KeyStateDir, dir)
}

// Path returns a slog.Attr for a file path
func Path(p string) slog.Attr {
	return slog.String(KeyPath, p)
}

// Choice returns a slog.Attr for a menu choice
func Choice(name string) slog.Attr {
	return slog.String(KeyChoice, name)
}

// Args returns a slog.Attr for forwarded engine arguments
func Args(args []string) slog.Attr {
	return slog.Any(KeyArgs, args)
}

// ExitCode returns a slog.Attr for an engine exit code
func ExitCode(code int) slog.Attr {
	return slog.Int(KeyExitCode, code)
}

// DurationMs returns a slog.Attr with the duration in milliseconds
func DurationMs(d time.Duration) slog.Attr {
	return slog.Float64(KeyDurationMs, float64(d.Microseconds())/1000.0)
}

// Err returns a slog.Attr for an error; nil errors produce an empty attr
func Err(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.String(KeyError, err.Error())
}
