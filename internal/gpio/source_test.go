package gpio

import (
	"context"
	"errors"
	"testing"
	"time"
)

func readLines(t *testing.T, s *Source, n int) []string {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	var lines []string
	for i := 0; i < n; i++ {
		line, err := s.ReadLine(ctx)
		if err != nil {
			t.Fatalf("line %d: %v", i, err)
		}
		lines = append(lines, line)
	}
	return lines
}

func TestSourceEncoderLines(t *testing.T) {
	samples := append([]Levels{{}}, Quadrature(2)...)
	samples = append(samples, Quadrature(-1)...)
	s, err := NewSource(NewFakeReader(samples...), 0, false)
	if err != nil {
		t.Fatalf("NewSource: %v", err)
	}

	got := readLines(t, s, 3)
	want := []string{"e1", "e2", "e1"}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("line %d: got %q, want %q", i, got[i], want[i])
		}
	}
}

func TestSourceButtonLines(t *testing.T) {
	samples := []Levels{{}, {Button: true}, {Button: true}, {}}
	s, err := NewSource(NewFakeReader(samples...), 0, true)
	if err != nil {
		t.Fatalf("NewSource: %v", err)
	}

	got := readLines(t, s, 2)
	if got[0] != "b1" || got[1] != "b0" {
		t.Errorf("got %v, want [b1 b0]", got)
	}
}

func TestSourceButtonIgnoredWhenNotWired(t *testing.T) {
	samples := append([]Levels{{}, {Button: true}}, Quadrature(1)...)
	s, err := NewSource(NewFakeReader(samples...), 0, false)
	if err != nil {
		t.Fatalf("NewSource: %v", err)
	}

	if got := readLines(t, s, 1); got[0] != "e1" {
		t.Errorf("got %q, want e1", got[0])
	}
}

func TestSourceInitialPressReported(t *testing.T) {
	s, err := NewSource(NewFakeReader(Levels{Button: true}), 0, true)
	if err != nil {
		t.Fatalf("NewSource: %v", err)
	}
	if got := readLines(t, s, 1); got[0] != "b1" {
		t.Errorf("got %q, want b1", got[0])
	}
}

func TestSourceInitialReadError(t *testing.T) {
	if _, err := NewSource(NewFakeReader(), 0, false); err == nil {
		t.Error("expected error from initial read")
	}
}

func TestSourceReadError(t *testing.T) {
	testErr := errors.New("chip removed")
	f := NewFakeReader(Levels{})
	f.ReadError = testErr
	s, err := NewSource(f, 0, false)
	if err != nil {
		t.Fatalf("NewSource: %v", err)
	}

	_, err = s.ReadLine(context.Background())
	if !errors.Is(err, testErr) {
		t.Errorf("expected %v, got %v", testErr, err)
	}
}

func TestSourceCancelled(t *testing.T) {
	s, err := NewSource(NewFakeReader(Levels{}), time.Millisecond, true)
	if err != nil {
		t.Fatalf("NewSource: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err = s.ReadLine(ctx)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("expected deadline exceeded, got %v", err)
	}
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Errorf("ReadLine took %v after cancel", elapsed)
	}
}

func TestSourceClose(t *testing.T) {
	f := NewFakeReader(Levels{})
	s, err := NewSource(f, 0, false)
	if err != nil {
		t.Fatalf("NewSource: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if !f.Closed() {
		t.Error("reader not closed")
	}
}

func TestPinsHasButton(t *testing.T) {
	if (Pins{Button: -1}).HasButton() {
		t.Error("Button=-1 should mean no button")
	}
	if !(Pins{Button: 0}).HasButton() {
		t.Error("Button=0 is a valid offset")
	}
}
