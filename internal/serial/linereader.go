package serial

import (
	"bytes"
	"context"
	"errors"
	"log"
	"strings"
)

// maxLineLen bounds a line that never sees a newline, e.g. when the baud
// rate is wrong and the device produces noise.
const maxLineLen = 4096

// LineReader assembles newline-framed lines from a Port.
// Not safe for concurrent use.
type LineReader struct {
	port  Port
	chunk []byte
	buf   []byte

	// discarding is set after an overlong line until the next newline.
	discarding bool
}

// NewLineReader wraps port. The reader owns the port and closes it on Close.
func NewLineReader(port Port) *LineReader {
	return &LineReader{
		port:  port,
		chunk: make([]byte, 256),
	}
}

// ReadLine returns the next line. Between port reads it checks ctx, so a
// cancelled read returns within one read timeout.
func (r *LineReader) ReadLine(ctx context.Context) (string, error) {
	for {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		if line, ok := r.next(); ok {
			return line, nil
		}

		n, err := r.port.Read(r.chunk)
		if n > 0 {
			r.buf = append(r.buf, r.chunk[:n]...)
		}
		if err != nil {
			if errors.Is(err, ErrTimeout) {
				continue
			}
			return "", err
		}
	}
}

// next extracts one complete line from the buffer, if any.
func (r *LineReader) next() (string, bool) {
	for {
		i := bytes.IndexByte(r.buf, '\n')
		if i < 0 {
			if len(r.buf) > maxLineLen {
				if !r.discarding {
					log.Printf("serial: discarding %d bytes without newline", len(r.buf))
				}
				r.discarding = true
				r.buf = r.buf[:0]
			}
			return "", false
		}

		raw := r.buf[:i]
		rest := r.buf[i+1:]
		line := strings.ToValidUTF8(string(bytes.TrimSuffix(raw, []byte{'\r'})), "�")
		r.buf = append(r.buf[:0], rest...)

		if r.discarding {
			// Tail of the overlong line.
			r.discarding = false
			continue
		}
		return line, true
	}
}

// Close closes the underlying port.
func (r *LineReader) Close() error {
	return r.port.Close()
}
