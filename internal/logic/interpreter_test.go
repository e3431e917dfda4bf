package logic

import (
	"testing"
	"time"
)

var t0 = time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

func newTestInterpreter(reverse bool) *Interpreter {
	return NewInterpreter(Config{Reverse: reverse, ClickTimeout: DefaultClickTimeout})
}

func TestNewInterpreter(t *testing.T) {
	in := newTestInterpreter(false)
	if in == nil {
		t.Fatal("NewInterpreter returned nil")
	}
	if in.Position() != 0 {
		t.Errorf("expected initial position 0, got %d", in.Position())
	}
	if in.Pressed() {
		t.Error("new interpreter should not have the button pressed")
	}
	if in.ActionCountsSnapshot().Total() != 0 {
		t.Errorf("expected zero counts, got %+v", in.ActionCountsSnapshot())
	}
}

func TestFirstEncoderEventVolumeUp(t *testing.T) {
	in := newTestInterpreter(false)

	res := in.Process(Encoder(1), t0)
	if res.Action != ActionVolumeUp {
		t.Errorf("expected %s, got %q", ActionVolumeUp, res.Action)
	}
	if in.Position() != 1 {
		t.Errorf("expected position 1, got %d", in.Position())
	}
	if res.Released {
		t.Error("encoder event should not report a release")
	}
}

func TestIncreasingPositionsVolumeUp(t *testing.T) {
	in := newTestInterpreter(false)
	for i, p := range []int64{3, 4, 10, 11, 500} {
		res := in.Process(Encoder(p), t0.Add(time.Duration(i)*time.Second))
		if res.Action != ActionVolumeUp {
			t.Errorf("position %d: expected %s, got %q", p, ActionVolumeUp, res.Action)
		}
	}
	if got := in.ActionCountsSnapshot().VolumeUp; got != 5 {
		t.Errorf("expected 5 volume-up counts, got %d", got)
	}
}

func TestIncreasingPositionsReversed(t *testing.T) {
	in := newTestInterpreter(true)
	for _, p := range []int64{1, 2, 3, 4} {
		res := in.Process(Encoder(p), t0)
		if res.Action != ActionVolumeDown {
			t.Errorf("position %d: expected %s, got %q", p, ActionVolumeDown, res.Action)
		}
	}
}

func TestDecreasingPositions(t *testing.T) {
	tests := []struct {
		name    string
		reverse bool
		want    Action
	}{
		{"normal", false, ActionVolumeDown},
		{"reversed", true, ActionVolumeUp},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := newTestInterpreter(tt.reverse)
			for _, p := range []int64{-1, -2, -7} {
				res := in.Process(Encoder(p), t0)
				if res.Action != tt.want {
					t.Errorf("position %d: expected %s, got %q", p, tt.want, res.Action)
				}
			}
		})
	}
}

func TestRepeatedPositionIsNoOp(t *testing.T) {
	in := newTestInterpreter(false)

	if res := in.Process(Encoder(5), t0); res.Action != ActionVolumeUp {
		t.Fatalf("expected %s, got %q", ActionVolumeUp, res.Action)
	}
	res := in.Process(Encoder(5), t0.Add(time.Millisecond))
	if res.Action != ActionNone {
		t.Errorf("expected no action for repeated position, got %q", res.Action)
	}
	if in.Position() != 5 {
		t.Errorf("position should stay 5, got %d", in.Position())
	}
	if got := in.ActionCountsSnapshot().Total(); got != 1 {
		t.Errorf("expected 1 counted action, got %d", got)
	}
}

func TestInitialZeroPositionIsNoOp(t *testing.T) {
	in := newTestInterpreter(false)
	if res := in.Process(Encoder(0), t0); res.Action != ActionNone {
		t.Errorf("expected no action for position equal to initial 0, got %q", res.Action)
	}
}

func TestWraparoundReadAsOrdinal(t *testing.T) {
	in := newTestInterpreter(false)
	in.Process(Encoder(32767), t0)

	// Counter wrapped to its minimum: read as a decrease.
	res := in.Process(Encoder(-32768), t0)
	if res.Action != ActionVolumeDown {
		t.Errorf("expected %s across wraparound, got %q", ActionVolumeDown, res.Action)
	}
}

func TestHeldButtonSelectsTrackNavigation(t *testing.T) {
	tests := []struct {
		name    string
		reverse bool
		next    int64
		want    Action
	}{
		{"increase", false, 1, ActionNextTrack},
		{"decrease", false, -1, ActionPreviousTrack},
		{"increase reversed", true, 1, ActionPreviousTrack},
		{"decrease reversed", true, -1, ActionNextTrack},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := newTestInterpreter(tt.reverse)
			if res := in.Process(Button(1), t0); res.Action != ActionNone {
				t.Fatalf("press should not emit an action, got %q", res.Action)
			}

			res := in.Process(Encoder(tt.next), t0.Add(100*time.Millisecond))
			if res.Action != tt.want {
				t.Errorf("expected %s, got %q", tt.want, res.Action)
			}
			if !in.Pressed() {
				t.Error("encoder event must not change the button state")
			}
		})
	}
}

func TestReleasedButtonRestoresVolume(t *testing.T) {
	in := newTestInterpreter(false)
	in.Process(Button(1), t0)
	in.Process(Encoder(1), t0.Add(100*time.Millisecond))
	in.Process(Button(0), t0.Add(2*time.Second))

	res := in.Process(Encoder(2), t0.Add(3*time.Second))
	if res.Action != ActionVolumeUp {
		t.Errorf("expected %s after release, got %q", ActionVolumeUp, res.Action)
	}
}

func TestClickEmitsPlayPause(t *testing.T) {
	in := newTestInterpreter(false)

	if res := in.Process(Button(1), t0); res.Action != ActionNone || res.Released {
		t.Fatalf("unexpected result on press: %+v", res)
	}

	res := in.Process(Button(0), t0.Add(100*time.Millisecond))
	if res.Action != ActionPlayPause {
		t.Errorf("expected %s, got %q", ActionPlayPause, res.Action)
	}
	if !res.Released {
		t.Error("expected Released=true")
	}
	if res.Held != 100*time.Millisecond {
		t.Errorf("expected held 100ms, got %v", res.Held)
	}
	if in.Pressed() {
		t.Error("button should be released")
	}
	if got := in.ActionCountsSnapshot().PlayPause; got != 1 {
		t.Errorf("expected 1 play-pause count, got %d", got)
	}
}

func TestClickAtExactTimeout(t *testing.T) {
	in := newTestInterpreter(false)
	in.Process(Button(1), t0)

	res := in.Process(Button(0), t0.Add(DefaultClickTimeout))
	if res.Action != ActionPlayPause {
		t.Errorf("hold equal to click timeout should click, got %q", res.Action)
	}
}

func TestLongHoldEmitsNothing(t *testing.T) {
	in := newTestInterpreter(false)
	in.Process(Button(1), t0)

	res := in.Process(Button(0), t0.Add(time.Second))
	if res.Action != ActionNone {
		t.Errorf("expected no action for long hold, got %q", res.Action)
	}
	if !res.Released {
		t.Error("expected Released=true for long hold")
	}
	if res.Held != time.Second {
		t.Errorf("expected held 1s, got %v", res.Held)
	}
	if in.Pressed() {
		t.Error("button should be released after long hold")
	}
}

func TestLongHoldWithNavigationStillNoClick(t *testing.T) {
	in := newTestInterpreter(false)
	in.Process(Button(1), t0)
	in.Process(Encoder(1), t0.Add(200*time.Millisecond))
	in.Process(Encoder(2), t0.Add(400*time.Millisecond))

	res := in.Process(Button(0), t0.Add(900*time.Millisecond))
	if res.Action != ActionNone {
		t.Errorf("expected no play-pause after navigating, got %q", res.Action)
	}

	counts := in.ActionCountsSnapshot()
	if counts.NextTrack != 2 || counts.PlayPause != 0 {
		t.Errorf("unexpected counts: %+v", counts)
	}
}

func TestRepeatedPressKeepsOriginalTimestamp(t *testing.T) {
	in := newTestInterpreter(false)
	in.Process(Button(1), t0)
	in.Process(Button(1), t0.Add(500*time.Millisecond))

	res := in.Process(Button(0), t0.Add(700*time.Millisecond))
	if res.Held != 700*time.Millisecond {
		t.Errorf("hold should be measured from the first press, got %v", res.Held)
	}
	if res.Action != ActionNone {
		t.Errorf("expected no click after 700ms, got %q", res.Action)
	}
}

func TestReleaseWhileReleasedIsNoOp(t *testing.T) {
	in := newTestInterpreter(false)
	res := in.Process(Button(0), t0)
	if res.Action != ActionNone || res.Released {
		t.Errorf("expected no-op, got %+v", res)
	}
}

func TestNonBinaryButtonValuesCountAsPressed(t *testing.T) {
	in := newTestInterpreter(false)

	in.Process(Button(2), t0)
	if !in.Pressed() {
		t.Fatal("b2 should press the button")
	}

	// A different non-zero value is not a transition.
	res := in.Process(Button(1), t0.Add(50*time.Millisecond))
	if res.Action != ActionNone || res.Released {
		t.Errorf("b1 while pressed should be a no-op, got %+v", res)
	}

	res = in.Process(Button(0), t0.Add(100*time.Millisecond))
	if res.Action != ActionPlayPause {
		t.Errorf("expected click, got %q", res.Action)
	}

	in.Process(Button(-1), t0.Add(time.Second))
	if !in.Pressed() {
		t.Error("negative value should press the button")
	}
}

func TestCustomClickTimeout(t *testing.T) {
	in := NewInterpreter(Config{ClickTimeout: 50 * time.Millisecond})
	in.Process(Button(1), t0)
	if res := in.Process(Button(0), t0.Add(100*time.Millisecond)); res.Action != ActionNone {
		t.Errorf("expected no click with 50ms timeout, got %q", res.Action)
	}
}

func TestUnknownKindIgnored(t *testing.T) {
	in := newTestInterpreter(false)
	res := in.Process(RawEvent{Kind: EventKind(99), Value: 7}, t0)
	if res.Action != ActionNone {
		t.Errorf("expected no action, got %q", res.Action)
	}
	if in.Position() != 0 || in.Pressed() {
		t.Error("unknown event must not change state")
	}
}

func TestActionDescriptions(t *testing.T) {
	want := map[Action]string{
		ActionVolumeUp:      "volume up",
		ActionVolumeDown:    "volume down",
		ActionNextTrack:     "next track",
		ActionPreviousTrack: "previous track",
		ActionPlayPause:     "play/pause media",
		ActionNone:          "none",
	}
	for a, d := range want {
		if got := a.Description(); got != d {
			t.Errorf("%q: got %q, want %q", a, got, d)
		}
	}
}
