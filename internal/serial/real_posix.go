//go:build !windows

package serial

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/pkg/term"
)

// RealPort is a tty opened in raw mode.
type RealPort struct {
	t    *term.Term
	name string
}

// OpenPort opens a serial device at the given baud rate, 8N1 raw mode, with
// reads bounded by readTimeout.
func OpenPort(name string, baud int, readTimeout time.Duration) (*RealPort, error) {
	t, err := term.Open(name, term.Speed(baud), term.RawMode)
	if err != nil {
		// term.Open already names the device.
		return nil, fmt.Errorf("serial port: %w", err)
	}

	if err := t.SetReadTimeout(readTimeout); err != nil {
		t.Close()
		return nil, fmt.Errorf("set read timeout on %s: %w", name, err)
	}

	// Drop whatever the device sent before we were listening.
	if err := t.Flush(); err != nil {
		t.Close()
		return nil, fmt.Errorf("flush %s: %w", name, err)
	}

	return &RealPort{t: t, name: name}, nil
}

// Read reads from the tty. A read that returns no data is a timeout, unless
// the device node has disappeared (USB adapter unplugged).
func (p *RealPort) Read(b []byte) (int, error) {
	n, err := p.t.Read(b)
	if n > 0 {
		return n, nil
	}
	if err == nil || errors.Is(err, io.EOF) {
		if _, serr := os.Stat(p.name); serr != nil {
			return 0, fmt.Errorf("device %s disconnected: %w", p.name, serr)
		}
		return 0, ErrTimeout
	}
	return 0, fmt.Errorf("read %s: %w", p.name, err)
}

// Close restores the tty settings and closes it.
func (p *RealPort) Close() error {
	var errs []error
	if err := p.t.Restore(); err != nil {
		errs = append(errs, fmt.Errorf("restore %s: %w", p.name, err))
	}
	if err := p.t.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close %s: %w", p.name, err))
	}
	if len(errs) > 0 {
		return fmt.Errorf("close errors: %v", errs)
	}
	return nil
}
