// Package mqtt provides MQTT publishing with abstraction for testing.
package mqtt

import (
	"encoding/json"
	"time"

	"github.com/sweeney/media-encoder/internal/logic"
)

// Topic is the MQTT topic for emitted media actions.
const Topic = "media/encoder/actions"

// TopicSystem is the MQTT topic for system lifecycle events.
const TopicSystem = "media/encoder/system"

// Publisher publishes events to MQTT.
type Publisher interface {
	// Publish sends an action event to the broker.
	// Returns error if publishing fails (should not crash the process).
	Publish(event ActionEvent) error

	// PublishSystem sends a system lifecycle event to the broker.
	PublishSystem(event SystemEvent) error

	// Close disconnects from the broker.
	Close() error
}

// ConnectionStatus reports whether the MQTT connection is active.
type ConnectionStatus interface {
	IsConnected() bool
}

// ActionEvent is an action the interpreter emitted, with the context it was
// emitted in.
type ActionEvent struct {
	Timestamp time.Time
	Action    logic.Action
	Line      string // raw device line that triggered the action
	Position  int64  // encoder position after the event
	Pressed   bool   // button state after the event
}

// SystemEvent represents a system lifecycle event (e.g., startup, shutdown).
type SystemEvent struct {
	Timestamp  time.Time
	Event      string // e.g., "STARTUP", "SHUTDOWN", "RECONNECTED"
	Reason     string // e.g., "SIGTERM", "SIGINT", "READ_ERROR" (shutdown only)
	RawPayload []byte // Pre-formatted JSON payload; if set, FormatSystemPayload returns it directly
	Retained   bool   // Whether the message should be retained by the broker
}

// Payload represents the MQTT message payload structure.
type Payload struct {
	Encoder EncoderPayload `json:"encoder"`
}

// EncoderPayload contains the action details.
type EncoderPayload struct {
	Timestamp string `json:"timestamp"`
	Action    string `json:"action"`
	Line      string `json:"line"`
	Position  int64  `json:"position"`
	Button    string `json:"button"`
}

// ButtonState returns the payload form of a button state.
func ButtonState(pressed bool) string {
	if pressed {
		return "PRESSED"
	}
	return "RELEASED"
}

// FormatPayload creates the JSON payload for an action event.
func FormatPayload(event ActionEvent) ([]byte, error) {
	payload := Payload{
		Encoder: EncoderPayload{
			Timestamp: event.Timestamp.UTC().Format(time.RFC3339),
			Action:    string(event.Action),
			Line:      event.Line,
			Position:  event.Position,
			Button:    ButtonState(event.Pressed),
		},
	}
	return json.Marshal(payload)
}

// SystemPayload represents the MQTT message payload for system events.
// Used for simple events (LWT, RECONNECTED) that don't carry a full status snapshot.
type SystemPayload struct {
	System SystemPayloadInner `json:"system"`
}

// SystemPayloadInner contains the system event details.
type SystemPayloadInner struct {
	Timestamp string `json:"timestamp"`
	Event     string `json:"event"`
	Reason    string `json:"reason,omitempty"`
}

// FormatSystemPayload creates the JSON payload for a system event.
// If event.RawPayload is set, it is returned directly (used for full status snapshots).
func FormatSystemPayload(event SystemEvent) ([]byte, error) {
	if event.RawPayload != nil {
		return event.RawPayload, nil
	}

	payload := SystemPayload{
		System: SystemPayloadInner{
			Timestamp: event.Timestamp.UTC().Format(time.RFC3339),
			Event:     event.Event,
			Reason:    event.Reason,
		},
	}
	return json.Marshal(payload)
}

// NopPublisher discards everything. Used when no broker is configured.
type NopPublisher struct{}

// Publish does nothing.
func (NopPublisher) Publish(ActionEvent) error { return nil }

// PublishSystem does nothing.
func (NopPublisher) PublishSystem(SystemEvent) error { return nil }

// Close does nothing.
func (NopPublisher) Close() error { return nil }

// IsConnected always reports false.
func (NopPublisher) IsConnected() bool { return false }
