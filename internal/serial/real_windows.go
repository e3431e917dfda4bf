//go:build windows

package serial

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unsafe"

	"golang.org/x/sys/windows"
)

// DCB flag bits and constants from winbase.h.
const (
	dcbBinary       = 0x0001
	dcbDTRControlOn = 0x0010
	dcbRTSControlOn = 0x1000
	noParity        = 0
	oneStopBit      = 0
	maxDWORD        = 0xFFFFFFFF
	purgeRxClear    = 0x0008
	purgeTxClear    = 0x0004
)

var (
	kernel32         = windows.NewLazySystemDLL("kernel32.dll")
	procGetCommState = kernel32.NewProc("GetCommState")
	procSetCommState = kernel32.NewProc("SetCommState")
	procPurgeComm    = kernel32.NewProc("PurgeComm")
)

// dcb mirrors the DCB struct in winbase.h. The C bitfields are packed into flags.
type dcb struct {
	DCBlength  uint32
	BaudRate   uint32
	Flags      uint32
	wReserved  uint16
	XonLim     uint16
	XoffLim    uint16
	ByteSize   uint8
	Parity     uint8
	StopBits   uint8
	XonChar    byte
	XoffChar   byte
	ErrorChar  byte
	EofChar    byte
	EvtChar    byte
	wReserved1 uint16
}

func getCommState(h windows.Handle, d *dcb) error {
	r, _, err := procGetCommState.Call(uintptr(h), uintptr(unsafe.Pointer(d)))
	if r == 0 {
		return err
	}
	return nil
}

func setCommState(h windows.Handle, d *dcb) error {
	r, _, err := procSetCommState.Call(uintptr(h), uintptr(unsafe.Pointer(d)))
	if r == 0 {
		return err
	}
	return nil
}

// RealPort is an open Windows COM port.
type RealPort struct {
	h    windows.Handle
	name string
}

// OpenPort opens a COM port (e.g. "COM10") at the given baud rate, 8N1,
// with reads bounded by readTimeout.
func OpenPort(name string, baud int, readTimeout time.Duration) (*RealPort, error) {
	path := name
	if !strings.HasPrefix(path, `\\.\`) {
		// Required for COM10 and above.
		path = `\\.\` + path
	}
	p, err := windows.UTF16PtrFromString(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", name, err)
	}

	h, err := windows.CreateFile(p, windows.GENERIC_READ|windows.GENERIC_WRITE, 0, nil, windows.OPEN_EXISTING, 0, 0)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", name, err)
	}

	var state dcb
	state.DCBlength = uint32(unsafe.Sizeof(state))
	if err := getCommState(h, &state); err != nil {
		windows.CloseHandle(h)
		return nil, fmt.Errorf("get comm state %s: %w", name, err)
	}
	state.BaudRate = uint32(baud)
	state.Flags = dcbBinary | dcbDTRControlOn | dcbRTSControlOn
	state.ByteSize = 8
	state.Parity = noParity
	state.StopBits = oneStopBit
	if err := setCommState(h, &state); err != nil {
		windows.CloseHandle(h)
		return nil, fmt.Errorf("set comm state %s: %w", name, err)
	}

	// Return as soon as any byte arrives, otherwise after readTimeout.
	timeouts := windows.CommTimeouts{
		ReadIntervalTimeout:        maxDWORD,
		ReadTotalTimeoutMultiplier: maxDWORD,
		ReadTotalTimeoutConstant:   uint32(readTimeout.Milliseconds()),
	}
	if err := windows.SetCommTimeouts(h, &timeouts); err != nil {
		windows.CloseHandle(h)
		return nil, fmt.Errorf("set comm timeouts %s: %w", name, err)
	}

	procPurgeComm.Call(uintptr(h), purgeRxClear|purgeTxClear)

	return &RealPort{h: h, name: name}, nil
}

// Read reads from the COM port. A read that returns no data is a timeout.
func (p *RealPort) Read(b []byte) (int, error) {
	var n uint32
	if err := windows.ReadFile(p.h, b, &n, nil); err != nil {
		if errors.Is(err, windows.ERROR_OPERATION_ABORTED) {
			return 0, fmt.Errorf("read %s: port closed: %w", p.name, err)
		}
		return 0, fmt.Errorf("read %s: %w", p.name, err)
	}
	if n == 0 {
		return 0, ErrTimeout
	}
	return int(n), nil
}

// Close closes the COM port handle.
func (p *RealPort) Close() error {
	if err := windows.CloseHandle(p.h); err != nil {
		return fmt.Errorf("close %s: %w", p.name, err)
	}
	return nil
}
