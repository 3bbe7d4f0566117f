package logger

import (
	"context"
	"time"
)

type contextKey struct{}

var logContextKey = contextKey{}

// LogContext holds session-scoped logging fields.
type LogContext struct {
	SessionID string    // Launcher session id
	StateDir  string    // Resolved state directory
	Choice    string    // Menu choice being dispatched, if any
	StartTime time.Time // For duration calculation
}

// WithContext returns a new context carrying lc
func WithContext(ctx context.Context, lc *LogContext) context.Context {
	return context.WithValue(ctx, logContextKey, lc)
}

// FromContext retrieves the LogContext from ctx, or nil if not present
func FromContext(ctx context.Context) *LogContext {
	if ctx == nil {
		return nil
	}
	lc, _ := ctx.Value(logContextKey).(*LogContext)
	return lc
}

// NewLogContext creates a LogContext for a launcher session.
func NewLogContext(sessionID, stateDir string) *LogContext {
	return &LogContext{
		SessionID: sessionID,
		StateDir:  stateDir,
		StartTime: time.Now(),
	}
}

// Clone creates a copy of the LogContext
func (lc *LogContext) Clone() *LogContext {
	if lc == nil {
		return nil
	}
	clone := *lc
	return &clone
}

// WithChoice returns a copy with the menu choice set and the clock restarted
func (lc *LogContext) WithChoice(choice string) *LogContext {
	clone := lc.Clone()
	if clone != nil {
		clone.Choice = choice
		clone.StartTime = time.Now()
	}
	return clone
}

// Elapsed returns the time since StartTime
func (lc *LogContext) Elapsed() time.Duration {
	if lc == nil || lc.StartTime.IsZero() {
		return 0
	}
	return time.Since(lc.StartTime)
}
