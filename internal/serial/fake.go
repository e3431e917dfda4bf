package serial

import (
	"context"
	"sync"
)

// FakeSource is a test double that returns scripted lines.
type FakeSource struct {
	// Lines contains the lines to return, in order.
	Lines []string

	// ReadError, if set, is returned once Lines are exhausted.
	// Otherwise ReadLine blocks until ctx is done.
	ReadError error

	mu     sync.Mutex
	index  int
	closed bool

	drained     chan struct{}
	drainedOnce sync.Once
}

// NewFakeSource creates a FakeSource with the given lines.
func NewFakeSource(lines ...string) *FakeSource {
	return &FakeSource{
		Lines:   lines,
		drained: make(chan struct{}),
	}
}

// ReadLine returns the next scripted line.
func (f *FakeSource) ReadLine(ctx context.Context) (string, error) {
	f.mu.Lock()
	if f.index < len(f.Lines) {
		line := f.Lines[f.index]
		f.index++
		f.mu.Unlock()
		return line, nil
	}
	f.mu.Unlock()

	f.drainedOnce.Do(func() { close(f.drained) })

	if f.ReadError != nil {
		return "", f.ReadError
	}
	<-ctx.Done()
	return "", ctx.Err()
}

// Drained is closed once every scripted line has been handed out and the
// consumer has asked for another.
func (f *FakeSource) Drained() <-chan struct{} {
	return f.drained
}

// Close marks the source as closed.
func (f *FakeSource) Close() error {
	f.mu.Lock()
	f.closed = true
	f.mu.Unlock()
	return nil
}

// Closed reports whether Close was called.
func (f *FakeSource) Closed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closed
}

// FakePort is a Port that replays scripted reads.
// A nil chunk is returned as a read timeout.
type FakePort struct {
	Chunks [][]byte

	// ReadError, if set, is returned once Chunks are exhausted.
	// Otherwise every further read times out.
	ReadError error

	// Reads counts Read calls.
	Reads int

	// Closed tracks if Close was called.
	Closed bool

	index int
}

// NewFakePort creates a FakePort replaying the given strings. An empty
// string stands for a read timeout.
func NewFakePort(chunks ...string) *FakePort {
	p := &FakePort{}
	for _, c := range chunks {
		if c == "" {
			p.Chunks = append(p.Chunks, nil)
			continue
		}
		p.Chunks = append(p.Chunks, []byte(c))
	}
	return p
}

// Read returns the next scripted chunk.
func (p *FakePort) Read(b []byte) (int, error) {
	p.Reads++
	if p.index >= len(p.Chunks) {
		if p.ReadError != nil {
			return 0, p.ReadError
		}
		return 0, ErrTimeout
	}

	c := p.Chunks[p.index]
	if c == nil {
		p.index++
		return 0, ErrTimeout
	}

	n := copy(b, c)
	if n < len(c) {
		p.Chunks[p.index] = c[n:]
	} else {
		p.index++
	}
	return n, nil
}

// Close marks the port as closed.
func (p *FakePort) Close() error {
	p.Closed = true
	return nil
}
