// Package logic contains the pure event interpretation for the media encoder.
// This package has NO external dependencies (no serial, keyboard, MQTT, OS, or time.Sleep).
// Time is always injectable via time.Time parameters.
package logic

import "time"

// EventKind discriminates a RawEvent.
type EventKind int

const (
	KindEncoder EventKind = iota + 1
	KindButton
)

func (k EventKind) String() string {
	switch k {
	case KindEncoder:
		return "encoder"
	case KindButton:
		return "button"
	default:
		return "unknown"
	}
}

// RawEvent is one parsed line from the device.
// For KindEncoder, Value is the absolute encoder position.
// For KindButton, Value is the raw firmware state (0 = released, non-zero = pressed).
type RawEvent struct {
	Kind  EventKind
	Value int64
}

// Encoder returns an encoder event at the given position.
func Encoder(position int64) RawEvent {
	return RawEvent{Kind: KindEncoder, Value: position}
}

// Button returns a button event with the given raw state.
func Button(state int64) RawEvent {
	return RawEvent{Kind: KindButton, Value: state}
}

// Action is a semantic media action handed to the key sink.
type Action string

const (
	ActionNone          Action = ""
	ActionVolumeUp      Action = "volume-up"
	ActionVolumeDown    Action = "volume-down"
	ActionNextTrack     Action = "next-track"
	ActionPreviousTrack Action = "previous-track"
	ActionPlayPause     Action = "play-pause"
)

// Actions lists every action the interpreter can emit.
var Actions = []Action{
	ActionVolumeUp,
	ActionVolumeDown,
	ActionNextTrack,
	ActionPreviousTrack,
	ActionPlayPause,
}

// Description returns the human-readable form used in log lines.
func (a Action) Description() string {
	switch a {
	case ActionVolumeUp:
		return "volume up"
	case ActionVolumeDown:
		return "volume down"
	case ActionNextTrack:
		return "next track"
	case ActionPreviousTrack:
		return "previous track"
	case ActionPlayPause:
		return "play/pause media"
	default:
		return "none"
	}
}

// Config holds the interpreter options. It is not modified after construction.
type Config struct {
	// Reverse inverts the direction inferred from encoder position deltas.
	Reverse bool
	// ClickTimeout is the longest hold still treated as a click.
	ClickTimeout time.Duration
}

// DefaultClickTimeout matches the firmware's intended click window.
const DefaultClickTimeout = 600 * time.Millisecond

// Result is the outcome of processing one event.
type Result struct {
	// Action is the action to emit, or ActionNone.
	Action Action
	// Released is true when this event released a held button.
	Released bool
	// Held is how long the button was held. Only valid when Released is true.
	Held time.Duration
}

// ActionCounts tracks the number of each action emitted since startup.
type ActionCounts struct {
	VolumeUp      int
	VolumeDown    int
	NextTrack     int
	PreviousTrack int
	PlayPause     int
}

// Total returns the sum of all counters.
func (c ActionCounts) Total() int {
	return c.VolumeUp + c.VolumeDown + c.NextTrack + c.PreviousTrack + c.PlayPause
}
