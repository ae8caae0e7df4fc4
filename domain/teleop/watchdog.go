package teleop

import "time"

// CommandWatchdog decides whether operator input has gone stale.
type CommandWatchdog struct {
	MaxAge time.Duration
}

// NewCommandWatchdog returns a watchdog for the given maximum command age.
func NewCommandWatchdog(maxAge time.Duration) CommandWatchdog {
	return CommandWatchdog{MaxAge: maxAge}
}

// Age returns how long ago the last operator command was received.
func (w CommandWatchdog) Age(lastCommand, now time.Time) time.Duration {
	return now.Sub(lastCommand)
}

// IsStale reports whether the last command is older than MaxAge.
// A state that never received a command is stale.
func (w CommandWatchdog) IsStale(lastCommand, now time.Time) bool {
	if lastCommand.IsZero() {
		return true
	}
	return w.Age(lastCommand, now) > w.MaxAge
}
