package status

import (
	"encoding/json"
	"time"
)

// StatusJSON is the top-level JSON envelope for status output.
type StatusJSON struct {
	Status StatusInner `json:"status"`
}

// StatusInner contains the status details.
type StatusInner struct {
	Event         string     `json:"event,omitempty"`
	Reason        string     `json:"reason,omitempty"`
	Position      int64      `json:"position"`
	Button        string     `json:"button"`
	LastAction    string     `json:"last_action,omitempty"`
	LastActionAt  string     `json:"last_action_at,omitempty"`
	Lines         LinesJSON  `json:"lines"`
	SinkErrors    int        `json:"sink_errors"`
	UptimeSeconds int64      `json:"uptime_seconds"`
	StartTime     string     `json:"start_time"`
	Timestamp     string     `json:"timestamp"`
	MQTT          MQTTStatus `json:"mqtt"`
	Counts        CountsJSON `json:"action_counts"`
	Config        ConfigJSON `json:"config"`
}

// LinesJSON reports how many device lines were seen.
type LinesJSON struct {
	Total     int `json:"total"`
	Malformed int `json:"malformed"`
}

// MQTTStatus reports MQTT connection state.
type MQTTStatus struct {
	Connected bool   `json:"connected"`
	Broker    string `json:"broker"`
}

// CountsJSON is the JSON representation of action counts.
type CountsJSON struct {
	VolumeUp      int `json:"volume_up"`
	VolumeDown    int `json:"volume_down"`
	NextTrack     int `json:"next_track"`
	PreviousTrack int `json:"previous_track"`
	PlayPause     int `json:"play_pause"`
}

// ConfigJSON is the JSON representation of daemon config.
type ConfigJSON struct {
	Source         string `json:"source"`
	Port           string `json:"port"`
	Baud           int    `json:"baud"`
	Reverse        bool   `json:"reverse"`
	ClickTimeoutMs int64  `json:"click_timeout_ms"`
	ReadTimeoutMs  int64  `json:"read_timeout_ms"`
	DryRun         bool   `json:"dry_run"`
	Broker         string `json:"broker,omitempty"`
	HTTPAddr       string `json:"http_addr,omitempty"`
}

// ButtonString returns the display form of a button state.
func ButtonString(pressed bool) string {
	if pressed {
		return "PRESSED"
	}
	return "RELEASED"
}

// NewInner builds the status body for a snapshot.
func NewInner(snap Snapshot) StatusInner {
	inner := StatusInner{
		Position:      snap.Position,
		Button:        ButtonString(snap.Pressed),
		Lines:         LinesJSON{Total: snap.Lines, Malformed: snap.MalformedLines},
		SinkErrors:    snap.SinkErrors,
		UptimeSeconds: int64(snap.Uptime().Truncate(time.Second).Seconds()),
		StartTime:     snap.StartTime.UTC().Format(time.RFC3339),
		Timestamp:     snap.Now.UTC().Format(time.RFC3339),
		MQTT:          MQTTStatus{Connected: snap.MQTTConnected, Broker: snap.Config.Broker},
		Counts: CountsJSON{
			VolumeUp:      snap.Counts.VolumeUp,
			VolumeDown:    snap.Counts.VolumeDown,
			NextTrack:     snap.Counts.NextTrack,
			PreviousTrack: snap.Counts.PreviousTrack,
			PlayPause:     snap.Counts.PlayPause,
		},
		Config: ConfigJSON{
			Source:         snap.Config.Source,
			Port:           snap.Config.Port,
			Baud:           snap.Config.Baud,
			Reverse:        snap.Config.Reverse,
			ClickTimeoutMs: snap.Config.ClickTimeoutMs,
			ReadTimeoutMs:  snap.Config.ReadTimeoutMs,
			DryRun:         snap.Config.DryRun,
			Broker:         snap.Config.Broker,
			HTTPAddr:       snap.Config.HTTPAddr,
		},
	}

	if snap.LastAction != "" {
		inner.LastAction = string(snap.LastAction)
		inner.LastActionAt = snap.LastActionAt.UTC().Format(time.RFC3339)
	}

	return inner
}

// FormatJSON returns the JSON status for the web endpoint (no event/reason).
func FormatJSON(snap Snapshot) []byte {
	data, _ := json.MarshalIndent(StatusJSON{Status: NewInner(snap)}, "", "  ")
	return data
}

// FormatStatusEvent returns the JSON status for an MQTT system event.
func FormatStatusEvent(snap Snapshot, event, reason string) []byte {
	inner := NewInner(snap)
	inner.Event = event
	inner.Reason = reason

	data, _ := json.Marshal(StatusJSON{Status: inner})
	return data
}
