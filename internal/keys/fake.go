package keys

import "github.com/sweeney/media-encoder/internal/logic"

// FakeSink records actions for test assertions.
type FakeSink struct {
	// Actions contains all actions that were sent successfully.
	Actions []logic.Action

	// SendError, if set, will be returned by Send.
	SendError error

	// Attempts counts Send calls, including failed ones.
	Attempts int

	// Closed tracks if Close was called.
	Closed bool
}

// NewFakeSink creates a FakeSink for testing.
func NewFakeSink() *FakeSink {
	return &FakeSink{}
}

// Send records the action.
func (f *FakeSink) Send(action logic.Action) error {
	f.Attempts++
	if f.SendError != nil {
		return f.SendError
	}
	f.Actions = append(f.Actions, action)
	return nil
}

// Close marks the sink as closed.
func (f *FakeSink) Close() error {
	f.Closed = true
	return nil
}

// Reset clears recorded actions.
func (f *FakeSink) Reset() {
	f.Actions = nil
	f.SendError = nil
	f.Attempts = 0
	f.Closed = false
}
