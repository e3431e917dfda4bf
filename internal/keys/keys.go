// Package keys injects media key presses into the host.
// The real implementation uses /dev/uinput on Linux and SendInput on Windows.
// The fake implementation allows testing without touching the keyboard.
package keys

import (
	"log"

	"github.com/sweeney/media-encoder/internal/logic"
)

// Sink performs one synthesized key press per action.
type Sink interface {
	// Send presses and releases the key for action. It either fully
	// succeeds or returns an error; callers log and continue.
	Send(action logic.Action) error

	// Close releases the virtual keyboard.
	Close() error
}

// LogSink only logs actions. Used for --dry-run.
type LogSink struct{}

// Send logs the action.
func (LogSink) Send(action logic.Action) error {
	log.Printf("dry-run: would send %s", action)
	return nil
}

// Close does nothing.
func (LogSink) Close() error {
	return nil
}
