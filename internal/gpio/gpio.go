// Package gpio provides a Line Source for a rotary encoder wired directly to
// GPIO lines. The real implementation uses the Linux GPIO character device.
// The fake implementation allows testing without hardware.
package gpio

import "time"

// Levels is one sample of the encoder lines in logical form.
// The lines are pulled up and switched to ground, so raw 0 = active.
type Levels struct {
	A      bool
	B      bool
	Button bool // true = pressed
}

// Reader samples the encoder lines.
type Reader interface {
	// Read returns the current logical levels.
	Read() (Levels, error)

	// Close releases GPIO resources.
	Close() error
}

// Pins names the chip and line offsets of an encoder.
type Pins struct {
	Chip   string
	A      int
	B      int
	Button int // -1 = no button wired
}

// Defaults.
const (
	DefaultChip         = "gpiochip0"
	DefaultPollInterval = time.Millisecond
)

// HasButton reports whether a button line is configured.
func (p Pins) HasButton() bool {
	return p.Button >= 0
}
