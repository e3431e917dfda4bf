// Package serial provides newline-framed line input from a serial device.
// The real implementation opens a POSIX tty with pkg/term or a Windows COM
// port. The fake implementation allows testing without hardware.
package serial

import (
	"context"
	"errors"
	"time"
)

// LineSource supplies decoded text lines from the device.
type LineSource interface {
	// ReadLine blocks until a full line is available, ctx is done, or the
	// device fails. Lines are returned without their line terminator and
	// may be empty. On cancellation it returns ctx.Err().
	ReadLine(ctx context.Context) (string, error)

	// Close releases the device.
	Close() error
}

// Port is a byte stream with a bounded read timeout.
type Port interface {
	// Read reads into p. On read timeout it returns (0, ErrTimeout).
	Read(p []byte) (int, error)

	// Close releases the port.
	Close() error
}

// ErrTimeout is returned by Port.Read when no data arrived within the
// port's read timeout.
var ErrTimeout = errors.New("serial: read timeout")

// Defaults for the command line.
const (
	DefaultPort        = "COM10"
	DefaultBaud        = 9600
	DefaultReadTimeout = 100 * time.Millisecond
)
