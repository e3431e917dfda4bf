package serial

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

func readAll(t *testing.T, r *LineReader, n int) []string {
	t.Helper()
	ctx := context.Background()
	var lines []string
	for i := 0; i < n; i++ {
		line, err := r.ReadLine(ctx)
		if err != nil {
			t.Fatalf("line %d: unexpected error: %v", i, err)
		}
		lines = append(lines, line)
	}
	return lines
}

func TestLineReaderSingleLines(t *testing.T) {
	r := NewLineReader(NewFakePort("e1\n", "b1\n", "b0\n"))

	got := readAll(t, r, 3)
	want := []string{"e1", "b1", "b0"}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("line %d: got %q, want %q", i, got[i], want[i])
		}
	}
}

func TestLineReaderSplitAcrossReads(t *testing.T) {
	r := NewLineReader(NewFakePort("e", "", "12", "3\r", "\nb", "1\n"))

	got := readAll(t, r, 2)
	if got[0] != "e123" {
		t.Errorf("got %q, want e123", got[0])
	}
	if got[1] != "b1" {
		t.Errorf("got %q, want b1", got[1])
	}
}

func TestLineReaderManyLinesInOneRead(t *testing.T) {
	r := NewLineReader(NewFakePort("e1\r\ne2\r\n\r\ne3\n"))

	got := readAll(t, r, 4)
	want := []string{"e1", "e2", "", "e3"}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("line %d: got %q, want %q", i, got[i], want[i])
		}
	}
}

func TestLineReaderInvalidUTF8(t *testing.T) {
	r := NewLineReader(NewFakePort("e\xff1\n"))

	got := readAll(t, r, 1)
	if got[0] != "e�1" {
		t.Errorf("got %q", got[0])
	}
}

func TestLineReaderCancelDuringTimeouts(t *testing.T) {
	port := NewFakePort()
	r := NewLineReader(port)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := r.ReadLine(ctx)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("expected context.DeadlineExceeded, got %v", err)
	}
	if port.Reads == 0 {
		t.Error("expected the port to be polled before cancellation")
	}
}

func TestLineReaderCancelledBeforeRead(t *testing.T) {
	port := NewFakePort("e1\n")
	r := NewLineReader(port)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := r.ReadLine(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
	if port.Reads != 0 {
		t.Errorf("expected no reads after cancel, got %d", port.Reads)
	}
}

func TestLineReaderReadError(t *testing.T) {
	port := NewFakePort("e1\n", "e2")
	port.ReadError = errors.New("device unplugged")
	r := NewLineReader(port)

	line, err := r.ReadLine(context.Background())
	if err != nil || line != "e1" {
		t.Fatalf("got (%q, %v), want (e1, nil)", line, err)
	}

	_, err = r.ReadLine(context.Background())
	if err == nil || err.Error() != "device unplugged" {
		t.Errorf("expected device error, got %v", err)
	}
}

func TestLineReaderDiscardsOverlongLine(t *testing.T) {
	noise := strings.Repeat("x", maxLineLen+10)
	r := NewLineReader(NewFakePort(noise, "tail\n", "e5\n"))

	got := readAll(t, r, 1)
	if got[0] != "e5" {
		t.Errorf("got %q, want e5", got[0])
	}
}

func TestLineReaderClose(t *testing.T) {
	port := NewFakePort()
	r := NewLineReader(port)
	if err := r.Close(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !port.Closed {
		t.Error("expected port to be closed")
	}
}
