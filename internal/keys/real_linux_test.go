//go:build linux

package keys

import (
	"bytes"
	"encoding/binary"
	"testing"
	"time"

	"github.com/sweeney/media-encoder/internal/logic"
)

func TestKeyCodesCoverAllActions(t *testing.T) {
	for _, a := range logic.Actions {
		if _, ok := keyCodes[a]; !ok {
			t.Errorf("no key code for %s", a)
		}
	}
}

func TestKeyCodeValues(t *testing.T) {
	// Values from linux/input-event-codes.h.
	want := map[logic.Action]uint16{
		logic.ActionVolumeDown:    114,
		logic.ActionVolumeUp:      115,
		logic.ActionNextTrack:     163,
		logic.ActionPlayPause:     164,
		logic.ActionPreviousTrack: 165,
	}
	for a, code := range want {
		if keyCodes[a] != code {
			t.Errorf("%s: got %d, want %d", a, keyCodes[a], code)
		}
	}
}

func TestEncodeKeyPress(t *testing.T) {
	var buf bytes.Buffer
	now := time.Date(2026, 1, 1, 12, 0, 0, 500000000, time.UTC)

	if err := encodeKeyPress(&buf, keyPlayPause, now); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	size := binary.Size(inputEvent{})
	if buf.Len() != 4*size {
		t.Fatalf("expected %d bytes, got %d", 4*size, buf.Len())
	}

	want := []struct {
		typ   uint16
		code  uint16
		value int32
	}{
		{evKey, keyPlayPause, 1},
		{evSyn, synReport, 0},
		{evKey, keyPlayPause, 0},
		{evSyn, synReport, 0},
	}

	r := bytes.NewReader(buf.Bytes())
	for i, w := range want {
		var ev inputEvent
		if err := binary.Read(r, binary.LittleEndian, &ev); err != nil {
			t.Fatalf("event %d: decode: %v", i, err)
		}
		if ev.Type != w.typ || ev.Code != w.code || ev.Value != w.value {
			t.Errorf("event %d: got type=%d code=%d value=%d, want type=%d code=%d value=%d",
				i, ev.Type, ev.Code, ev.Value, w.typ, w.code, w.value)
		}
		if int64(ev.Time.Sec) != now.Unix() {
			t.Errorf("event %d: sec got %d, want %d", i, ev.Time.Sec, now.Unix())
		}
		if int64(ev.Time.Usec) != 500000 {
			t.Errorf("event %d: usec got %d, want 500000", i, ev.Time.Usec)
		}
	}
}

func TestUinputUserDevSize(t *testing.T) {
	// sizeof(struct uinput_user_dev)
	if got := binary.Size(uinputUserDev{}); got != 1116 {
		t.Errorf("got %d, want 1116", got)
	}
}
