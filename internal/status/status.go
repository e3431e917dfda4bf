// Package status provides a thread-safe status tracker for the media-encoder daemon.
// It is read by the HTTP handlers and the MQTT lifecycle events.
package status

import (
	"sync"
	"time"

	"github.com/sweeney/media-encoder/internal/logic"
)

// Config contains daemon configuration for display.
type Config struct {
	Source         string // "serial" or "gpio"
	Port           string
	Baud           int
	Reverse        bool
	ClickTimeoutMs int64
	ReadTimeoutMs  int64
	DryRun         bool
	Broker         string
	HTTPAddr       string
}

// Snapshot is a point-in-time view of daemon state.
// It is a value type — safe to use after the lock is released.
type Snapshot struct {
	Position       int64
	Pressed        bool
	Counts         logic.ActionCounts
	LastAction     logic.Action
	LastActionAt   time.Time
	Lines          int
	MalformedLines int
	SinkErrors     int
	StartTime      time.Time
	Now            time.Time
	MQTTConnected  bool
	Config         Config
}

// Uptime returns the duration since the daemon started.
func (s Snapshot) Uptime() time.Duration {
	return s.Now.Sub(s.StartTime)
}

// Tracker holds mutable daemon state behind an RWMutex.
type Tracker struct {
	mu   sync.RWMutex
	snap Snapshot
}

// NewTracker creates a Tracker with the given start time and config.
func NewTracker(startTime time.Time, cfg Config) *Tracker {
	return &Tracker{
		snap: Snapshot{
			StartTime: startTime,
			Config:    cfg,
		},
	}
}

// Update sets the interpreter state and action counts.
// Called from runLoop after every processed line.
func (t *Tracker) Update(position int64, pressed bool, counts logic.ActionCounts) {
	t.mu.Lock()
	t.snap.Position = position
	t.snap.Pressed = pressed
	t.snap.Counts = counts
	t.mu.Unlock()
}

// RecordLine counts a non-empty line from the device.
func (t *Tracker) RecordLine(malformed bool) {
	t.mu.Lock()
	t.snap.Lines++
	if malformed {
		t.snap.MalformedLines++
	}
	t.mu.Unlock()
}

// RecordAction notes the most recent action and whether the sink took it.
func (t *Tracker) RecordAction(a logic.Action, at time.Time, sinkErr error) {
	t.mu.Lock()
	t.snap.LastAction = a
	t.snap.LastActionAt = at
	if sinkErr != nil {
		t.snap.SinkErrors++
	}
	t.mu.Unlock()
}

// SetMQTTConnected sets the MQTT connection status.
func (t *Tracker) SetMQTTConnected(connected bool) {
	t.mu.Lock()
	t.snap.MQTTConnected = connected
	t.mu.Unlock()
}

// Snapshot returns a point-in-time copy of the daemon state.
// The Now field is set to the current time at the moment of the call.
func (t *Tracker) Snapshot() Snapshot {
	t.mu.RLock()
	s := t.snap
	t.mu.RUnlock()
	s.Now = time.Now()
	return s
}
