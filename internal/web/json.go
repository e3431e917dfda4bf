package web

import (
	"encoding/json"
	"time"

	"github.com/sweeney/media-encoder/internal/logic"
	"github.com/sweeney/media-encoder/internal/status"
)

// Frame types sent on /ws.
const (
	FrameStateInit = "state_init"
	FrameAction    = "action"
)

// ActionMessage describes one emitted action for the live feed.
type ActionMessage struct {
	Action   logic.Action
	Position int64
	Pressed  bool
	At       time.Time
}

// envelope is the wire format of every /ws frame.
type envelope struct {
	Type string      `json:"type"`
	Ts   *time.Time  `json:"ts,omitempty"`
	Data interface{} `json:"data,omitempty"`
}

// ActionData is the data payload of an "action" frame.
type ActionData struct {
	Action      string `json:"action"`
	Description string `json:"description"`
	Position    int64  `json:"position"`
	Button      string `json:"button"`
}

func formatActionFrame(msg ActionMessage) ([]byte, error) {
	ts := msg.At.UTC()
	if msg.At.IsZero() {
		ts = time.Now().UTC()
	}
	return json.Marshal(envelope{
		Type: FrameAction,
		Ts:   &ts,
		Data: ActionData{
			Action:      string(msg.Action),
			Description: msg.Action.Description(),
			Position:    msg.Position,
			Button:      status.ButtonString(msg.Pressed),
		},
	})
}

func formatInitFrame(snap status.Snapshot) ([]byte, error) {
	ts := snap.Now.UTC()
	return json.Marshal(envelope{
		Type: FrameStateInit,
		Ts:   &ts,
		Data: status.NewInner(snap),
	})
}
