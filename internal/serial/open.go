package serial

import "time"

// Open opens the named serial device and returns a line source reading from it.
func Open(name string, baud int, readTimeout time.Duration) (*LineReader, error) {
	port, err := OpenPort(name, baud, readTimeout)
	if err != nil {
		return nil, err
	}
	return NewLineReader(port), nil
}
