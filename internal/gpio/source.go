package gpio

import (
	"context"
	"fmt"
	"strconv"
	"time"
)

// Source polls a Reader and synthesizes the same "e<pos>" and "b<0|1>" lines
// a serial-attached encoder would send.
type Source struct {
	r         Reader
	poll      time.Duration
	hasButton bool

	dec     *Decoder
	pressed bool
	pending []string
}

// NewSource takes an initial sample from r and returns a Source polling it
// every poll interval. The initial button state is reported as the first line.
func NewSource(r Reader, poll time.Duration, hasButton bool) (*Source, error) {
	lv, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("initial gpio read: %w", err)
	}
	s := &Source{
		r:         r,
		poll:      poll,
		hasButton: hasButton,
		dec:       NewDecoder(lv.A, lv.B),
	}
	if hasButton && lv.Button {
		s.pressed = true
		s.pending = append(s.pending, "b1")
	}
	return s, nil
}

// ReadLine blocks until the encoder moves or the button changes state.
func (s *Source) ReadLine(ctx context.Context) (string, error) {
	for {
		if len(s.pending) > 0 {
			line := s.pending[0]
			s.pending = s.pending[1:]
			return line, nil
		}
		if err := ctx.Err(); err != nil {
			return "", err
		}

		lv, err := s.r.Read()
		if err != nil {
			return "", fmt.Errorf("gpio read: %w", err)
		}
		s.sample(lv)
		if len(s.pending) > 0 {
			continue
		}

		if s.poll > 0 {
			t := time.NewTimer(s.poll)
			select {
			case <-ctx.Done():
				t.Stop()
				return "", ctx.Err()
			case <-t.C:
			}
		}
	}
}

func (s *Source) sample(lv Levels) {
	if s.dec.Update(lv.A, lv.B) {
		s.pending = append(s.pending, "e"+strconv.FormatInt(s.dec.Position(), 10))
	}
	if s.hasButton && lv.Button != s.pressed {
		s.pressed = lv.Button
		if s.pressed {
			s.pending = append(s.pending, "b1")
		} else {
			s.pending = append(s.pending, "b0")
		}
	}
}

// Close releases the underlying Reader.
func (s *Source) Close() error {
	return s.r.Close()
}
