//go:build !linux && !windows

package keys

import (
	"errors"

	"github.com/sweeney/media-encoder/internal/logic"
)

// RealSink is not available on this platform.
type RealSink struct{}

// NewRealSink returns an error on platforms without a key injector.
func NewRealSink() (*RealSink, error) {
	return nil, errors.New("keys: not supported on this platform (requires Linux or Windows)")
}

// Send is not implemented on this platform.
func (s *RealSink) Send(action logic.Action) error {
	return errors.New("keys: not supported")
}

// Close is not implemented on this platform.
func (s *RealSink) Close() error {
	return nil
}
