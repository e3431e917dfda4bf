package logic

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrMalformedLine is returned by ParseLine for lines that are neither an
// encoder nor a button event.
var ErrMalformedLine = errors.New("malformed line")

// ParseLine classifies a single line from the device.
// Surrounding whitespace is ignored. An empty line yields ok=false and no error.
func ParseLine(line string) (ev RawEvent, ok bool, err error) {
	line = strings.TrimSpace(line)
	if line == "" {
		return RawEvent{}, false, nil
	}

	var kind EventKind
	switch line[0] {
	case 'e':
		kind = KindEncoder
	case 'b':
		kind = KindButton
	default:
		return RawEvent{}, false, fmt.Errorf("%w: unknown prefix in %q", ErrMalformedLine, line)
	}

	v, err := strconv.ParseInt(line[1:], 10, 64)
	if err != nil {
		return RawEvent{}, false, fmt.Errorf("%w: bad %s value in %q", ErrMalformedLine, kind, line)
	}

	return RawEvent{Kind: kind, Value: v}, true, nil
}
