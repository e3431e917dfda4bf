//go:build linux

package gpio

import (
	"fmt"

	"github.com/warthog618/go-gpiocdev"
)

// RealReader reads encoder lines from the Linux GPIO character device.
type RealReader struct {
	chip   *gpiocdev.Chip
	a      *gpiocdev.Line
	b      *gpiocdev.Line
	button *gpiocdev.Line
}

// NewRealReader requests the encoder lines as pulled-up inputs.
func NewRealReader(pins Pins) (*RealReader, error) {
	chip, err := gpiocdev.NewChip(pins.Chip)
	if err != nil {
		return nil, fmt.Errorf("open gpio chip %s: %w", pins.Chip, err)
	}
	r := &RealReader{chip: chip}

	// Encoder contacts and the push switch close to ground.
	if r.a, err = chip.RequestLine(pins.A, gpiocdev.AsInput, gpiocdev.WithPullUp); err != nil {
		r.Close()
		return nil, fmt.Errorf("request A pin %d: %w", pins.A, err)
	}
	if r.b, err = chip.RequestLine(pins.B, gpiocdev.AsInput, gpiocdev.WithPullUp); err != nil {
		r.Close()
		return nil, fmt.Errorf("request B pin %d: %w", pins.B, err)
	}
	if pins.HasButton() {
		if r.button, err = chip.RequestLine(pins.Button, gpiocdev.AsInput, gpiocdev.WithPullUp); err != nil {
			r.Close()
			return nil, fmt.Errorf("request button pin %d: %w", pins.Button, err)
		}
	}

	return r, nil
}

// Read returns the logical levels. Raw 0 (pulled to ground) = active.
func (r *RealReader) Read() (Levels, error) {
	var lv Levels

	a, err := r.a.Value()
	if err != nil {
		return Levels{}, fmt.Errorf("read A pin: %w", err)
	}
	b, err := r.b.Value()
	if err != nil {
		return Levels{}, fmt.Errorf("read B pin: %w", err)
	}
	lv.A = a == 0
	lv.B = b == 0

	if r.button != nil {
		v, err := r.button.Value()
		if err != nil {
			return Levels{}, fmt.Errorf("read button pin: %w", err)
		}
		lv.Button = v == 0
	}

	return lv, nil
}

// Close releases GPIO resources. Lines are returned to plain inputs with
// pull-down so nothing is left driven after exit.
func (r *RealReader) Close() error {
	var errs []error

	for _, l := range []struct {
		name string
		line *gpiocdev.Line
	}{{"A", r.a}, {"B", r.b}, {"button", r.button}} {
		if l.line == nil {
			continue
		}
		if err := l.line.Reconfigure(gpiocdev.AsInput, gpiocdev.WithPullDown); err != nil {
			errs = append(errs, fmt.Errorf("reconfigure %s pin: %w", l.name, err))
		}
		if err := l.line.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close %s pin: %w", l.name, err))
		}
	}
	if r.chip != nil {
		if err := r.chip.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close chip: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("close errors: %v", errs)
	}
	return nil
}
