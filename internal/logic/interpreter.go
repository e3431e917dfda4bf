package logic

import "time"

// Interpreter turns raw encoder and button events into media actions.
// It is not safe for concurrent use; the driver loop owns it.
type Interpreter struct {
	cfg Config

	lastPosition int64
	pressed      bool
	pressedAt    time.Time

	counts ActionCounts
}

// NewInterpreter creates an interpreter at encoder position 0 with the
// button released.
func NewInterpreter(cfg Config) *Interpreter {
	return &Interpreter{cfg: cfg}
}

// Process consumes one event observed at now and returns what to do about it.
// At most one action is emitted per event.
func (in *Interpreter) Process(ev RawEvent, now time.Time) Result {
	var res Result
	switch ev.Kind {
	case KindEncoder:
		res = in.handleEncoder(ev.Value)
	case KindButton:
		res = in.handleButton(ev.Value, now)
	}
	in.count(res.Action)
	return res
}

// handleEncoder maps a position change to volume, or to track navigation
// while the button is held.
func (in *Interpreter) handleEncoder(position int64) Result {
	if position == in.lastPosition {
		return Result{}
	}

	// Wraparound is not special-cased: only the sign of the delta matters.
	up := (position > in.lastPosition) != in.cfg.Reverse
	in.lastPosition = position

	if in.pressed {
		if up {
			return Result{Action: ActionNextTrack}
		}
		return Result{Action: ActionPreviousTrack}
	}
	if up {
		return Result{Action: ActionVolumeUp}
	}
	return Result{Action: ActionVolumeDown}
}

// handleButton tracks press/release and reports a click when the hold was
// short enough. Any non-zero state counts as pressed.
func (in *Interpreter) handleButton(state int64, now time.Time) Result {
	pressed := state != 0
	if pressed == in.pressed {
		return Result{}
	}

	if pressed {
		in.pressed = true
		in.pressedAt = now
		return Result{}
	}

	held := now.Sub(in.pressedAt)
	in.pressed = false
	in.pressedAt = time.Time{}

	res := Result{Released: true, Held: held}
	if held <= in.cfg.ClickTimeout {
		res.Action = ActionPlayPause
	}
	return res
}

func (in *Interpreter) count(a Action) {
	switch a {
	case ActionVolumeUp:
		in.counts.VolumeUp++
	case ActionVolumeDown:
		in.counts.VolumeDown++
	case ActionNextTrack:
		in.counts.NextTrack++
	case ActionPreviousTrack:
		in.counts.PreviousTrack++
	case ActionPlayPause:
		in.counts.PlayPause++
	}
}

// Position returns the last known encoder position.
func (in *Interpreter) Position() int64 {
	return in.lastPosition
}

// Pressed reports whether the button is currently held.
func (in *Interpreter) Pressed() bool {
	return in.pressed
}

// ActionCountsSnapshot returns a copy of the action counters.
func (in *Interpreter) ActionCountsSnapshot() ActionCounts {
	return in.counts
}

// Config returns the interpreter's configuration.
func (in *Interpreter) Config() Config {
	return in.cfg
}
