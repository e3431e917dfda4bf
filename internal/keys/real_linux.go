//go:build linux

package keys

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"time"

	"golang.org/x/sys/unix"

	"github.com/sweeney/media-encoder/internal/logic"
)

// uinput ioctls and event codes from linux/uinput.h and linux/input-event-codes.h.
const (
	uiDevCreate  = 0x5501
	uiDevDestroy = 0x5502
	uiSetEvBit   = 0x40045564
	uiSetKeyBit  = 0x40045565

	evSyn     = 0x00
	evKey     = 0x01
	synReport = 0

	busUSB = 0x03

	keyVolumeDown   = 114
	keyVolumeUp     = 115
	keyNextSong     = 163
	keyPlayPause    = 164
	keyPreviousSong = 165
)

// UinputPath is the uinput control device.
const UinputPath = "/dev/uinput"

// DeviceName is the name the virtual keyboard registers under.
const DeviceName = "media-encoder"

// keyCodes maps actions to Linux key codes.
var keyCodes = map[logic.Action]uint16{
	logic.ActionVolumeUp:      keyVolumeUp,
	logic.ActionVolumeDown:    keyVolumeDown,
	logic.ActionNextTrack:     keyNextSong,
	logic.ActionPreviousTrack: keyPreviousSong,
	logic.ActionPlayPause:     keyPlayPause,
}

// inputEvent mirrors struct input_event. Timeval carries the platform's
// word size, so the layout matches on 32 and 64-bit kernels.
type inputEvent struct {
	Time  unix.Timeval
	Type  uint16
	Code  uint16
	Value int32
}

// uinputUserDev mirrors struct uinput_user_dev.
type uinputUserDev struct {
	Name         [80]byte
	BusType      uint16
	Vendor       uint16
	Product      uint16
	Version      uint16
	FFEffectsMax uint32
	AbsMax       [64]int32
	AbsMin       [64]int32
	AbsFuzz      [64]int32
	AbsFlat      [64]int32
}

// RealSink is a uinput virtual keyboard that can press the media keys.
type RealSink struct {
	f *os.File
}

// NewRealSink creates the virtual keyboard. Requires write access to
// /dev/uinput (root, or a udev rule for the input group).
func NewRealSink() (*RealSink, error) {
	f, err := os.OpenFile(UinputPath, os.O_WRONLY|unix.O_NONBLOCK, 0)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", UinputPath, err)
	}
	fd := int(f.Fd())

	if err := unix.IoctlSetInt(fd, uiSetEvBit, evKey); err != nil {
		f.Close()
		return nil, fmt.Errorf("enable key events: %w", err)
	}
	for action, code := range keyCodes {
		if err := unix.IoctlSetInt(fd, uiSetKeyBit, int(code)); err != nil {
			f.Close()
			return nil, fmt.Errorf("enable key %s: %w", action, err)
		}
	}

	dev := uinputUserDev{
		BusType: busUSB,
		Vendor:  0x1209,
		Product: 0x0001,
		Version: 1,
	}
	copy(dev.Name[:], DeviceName)
	if err := binary.Write(f, binary.LittleEndian, &dev); err != nil {
		f.Close()
		return nil, fmt.Errorf("write device description: %w", err)
	}

	if err := unix.IoctlSetInt(fd, uiDevCreate, 0); err != nil {
		f.Close()
		return nil, fmt.Errorf("create uinput device: %w", err)
	}

	// Give udev and the desktop time to pick up the new device, otherwise
	// the first key press is lost.
	time.Sleep(200 * time.Millisecond)

	return &RealSink{f: f}, nil
}

// Send presses and releases the key for action.
func (s *RealSink) Send(action logic.Action) error {
	code, ok := keyCodes[action]
	if !ok {
		return fmt.Errorf("keys: no key for action %q", action)
	}

	// Single write so the press and release land together or not at all.
	var buf bytes.Buffer
	if err := encodeKeyPress(&buf, code, time.Now()); err != nil {
		return err
	}
	if _, err := s.f.Write(buf.Bytes()); err != nil {
		return fmt.Errorf("write %s: %w", action, err)
	}
	return nil
}

// encodeKeyPress writes a press, sync, release, sync sequence.
func encodeKeyPress(w io.Writer, code uint16, now time.Time) error {
	tv := unix.NsecToTimeval(now.UnixNano())
	events := []inputEvent{
		{Time: tv, Type: evKey, Code: code, Value: 1},
		{Time: tv, Type: evSyn, Code: synReport},
		{Time: tv, Type: evKey, Code: code, Value: 0},
		{Time: tv, Type: evSyn, Code: synReport},
	}
	for _, ev := range events {
		if err := binary.Write(w, binary.LittleEndian, ev); err != nil {
			return fmt.Errorf("encode key event: %w", err)
		}
	}
	return nil
}

// Close destroys the virtual keyboard.
func (s *RealSink) Close() error {
	var errs []error
	if err := unix.IoctlSetInt(int(s.f.Fd()), uiDevDestroy, 0); err != nil {
		errs = append(errs, fmt.Errorf("destroy uinput device: %w", err))
	}
	if err := s.f.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close %s: %w", UinputPath, err))
	}
	if len(errs) > 0 {
		return fmt.Errorf("close errors: %v", errs)
	}
	return nil
}
