//go:build windows

package keys

import (
	"fmt"
	"unsafe"

	"golang.org/x/sys/windows"

	"github.com/sweeney/media-encoder/internal/logic"
)

var (
	user32        = windows.NewLazySystemDLL("user32.dll")
	procSendInput = user32.NewProc("SendInput")
)

const (
	inputKeyboard        = 1
	keyeventfExtendedKey = 0x0001
	keyeventfKeyUp       = 0x0002

	vkVolumeDown     = 0xAE
	vkVolumeUp       = 0xAF
	vkMediaNextTrack = 0xB0
	vkMediaPrevTrack = 0xB1
	vkMediaPlayPause = 0xB3
)

// virtualKeys maps actions to Windows virtual-key codes.
var virtualKeys = map[logic.Action]uint16{
	logic.ActionVolumeUp:      vkVolumeUp,
	logic.ActionVolumeDown:    vkVolumeDown,
	logic.ActionNextTrack:     vkMediaNextTrack,
	logic.ActionPreviousTrack: vkMediaPrevTrack,
	logic.ActionPlayPause:     vkMediaPlayPause,
}

type keybdInput struct {
	Vk        uint16
	Scan      uint16
	Flags     uint32
	Time      uint32
	ExtraInfo uintptr
}

type input struct {
	Type uint32
	Ki   keybdInput
	_    [8]byte // Padding to the size of the MOUSEINPUT union member
}

// RealSink injects media keys with SendInput.
type RealSink struct{}

// NewRealSink returns a SendInput-backed sink.
func NewRealSink() (*RealSink, error) {
	if err := procSendInput.Find(); err != nil {
		return nil, fmt.Errorf("keys: %w", err)
	}
	return &RealSink{}, nil
}

// Send presses and releases the key for action in a single SendInput call.
func (s *RealSink) Send(action logic.Action) error {
	vk, ok := virtualKeys[action]
	if !ok {
		return fmt.Errorf("keys: no key for action %q", action)
	}

	inputs := [2]input{
		{Type: inputKeyboard, Ki: keybdInput{Vk: vk, Flags: keyeventfExtendedKey}},
		{Type: inputKeyboard, Ki: keybdInput{Vk: vk, Flags: keyeventfExtendedKey | keyeventfKeyUp}},
	}
	n, _, err := procSendInput.Call(
		uintptr(len(inputs)),
		uintptr(unsafe.Pointer(&inputs[0])),
		unsafe.Sizeof(inputs[0]),
	)
	if int(n) != len(inputs) {
		return fmt.Errorf("send input %s: %w", action, err)
	}
	return nil
}

// Close does nothing; SendInput holds no resources.
func (s *RealSink) Close() error {
	return nil
}
