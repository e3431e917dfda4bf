package mqtt

import "github.com/sweeney/media-encoder/internal/logic"

// FakePublisher records what the driver loop would have sent to the broker.
type FakePublisher struct {
	// Events holds published actions in order, each with the device Line
	// that caused it and the encoder Position after it.
	Events []ActionEvent
	// Payloads holds the encoded payload for each entry in Events.
	Payloads [][]byte

	// SystemEvents holds STARTUP, SHUTDOWN and RECONNECTED events.
	SystemEvents   []SystemEvent
	SystemPayloads [][]byte

	// PublishError fails every Publish call; nothing is recorded.
	PublishError error
	// PublishSystemError does the same for PublishSystem.
	PublishSystemError error

	Closed    bool
	Connected bool
}

func NewFakePublisher() *FakePublisher {
	return &FakePublisher{}
}

func (f *FakePublisher) Publish(event ActionEvent) error {
	if f.PublishError != nil {
		return f.PublishError
	}
	payload, err := FormatPayload(event)
	if err != nil {
		return err
	}
	f.Events = append(f.Events, event)
	f.Payloads = append(f.Payloads, payload)
	return nil
}

func (f *FakePublisher) PublishSystem(event SystemEvent) error {
	if f.PublishSystemError != nil {
		return f.PublishSystemError
	}
	payload, err := FormatSystemPayload(event)
	if err != nil {
		return err
	}
	f.SystemEvents = append(f.SystemEvents, event)
	f.SystemPayloads = append(f.SystemPayloads, payload)
	return nil
}

// Actions returns the published actions in order.
func (f *FakePublisher) Actions() []logic.Action {
	out := make([]logic.Action, len(f.Events))
	for i, ev := range f.Events {
		out[i] = ev.Action
	}
	return out
}

// Lines returns the device line behind each published action.
func (f *FakePublisher) Lines() []string {
	out := make([]string, len(f.Events))
	for i, ev := range f.Events {
		out[i] = ev.Line
	}
	return out
}

func (f *FakePublisher) Close() error {
	f.Closed = true
	return nil
}

func (f *FakePublisher) IsConnected() bool {
	return f.Connected
}

// Reset clears everything recorded and any injected errors.
func (f *FakePublisher) Reset() {
	*f = FakePublisher{}
}
