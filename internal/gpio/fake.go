package gpio

import (
	"errors"
	"sync"
)

// FakeReader is a test double that returns scripted GPIO levels.
type FakeReader struct {
	mu sync.Mutex

	// Samples contains scripted levels. Each call to Read consumes the
	// next sample; once exhausted the last sample repeats.
	Samples []Levels

	// ReadError, if set, is returned once the samples are exhausted.
	ReadError error

	index  int
	reads  int
	closed bool
}

// NewFakeReader creates a FakeReader with the given samples.
func NewFakeReader(samples ...Levels) *FakeReader {
	return &FakeReader{Samples: samples}
}

// Read returns the next scripted sample.
func (f *FakeReader) Read() (Levels, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reads++

	if len(f.Samples) == 0 {
		return Levels{}, errors.New("no samples configured")
	}
	if f.index >= len(f.Samples) {
		if f.ReadError != nil {
			return Levels{}, f.ReadError
		}
		return f.Samples[len(f.Samples)-1], nil
	}

	lv := f.Samples[f.index]
	f.index++
	return lv, nil
}

// Close marks the reader as closed.
func (f *FakeReader) Close() error {
	f.mu.Lock()
	f.closed = true
	f.mu.Unlock()
	return nil
}

// Closed reports whether Close was called.
func (f *FakeReader) Closed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closed
}

// Reads returns the number of Read calls.
func (f *FakeReader) Reads() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.reads
}

// Quadrature returns the samples for n full detents starting from phase
// 00 with the button released. Positive n is clockwise.
func Quadrature(n int) []Levels {
	cw := []Levels{{A: true}, {A: true, B: true}, {B: true}, {}}
	ccw := []Levels{{B: true}, {A: true, B: true}, {A: true}, {}}
	seq := cw
	if n < 0 {
		seq, n = ccw, -n
	}
	var out []Levels
	for i := 0; i < n; i++ {
		out = append(out, seq...)
	}
	return out
}
