package gpio

// StepsPerDetent is the number of valid quadrature transitions between two
// mechanical detents of a typical encoder.
const StepsPerDetent = 4

// transitions maps prev<<2|cur to a step. Clockwise the phase sequence is
// 00 -> 10 -> 11 -> 01 -> 00 (A leads B). Invalid transitions, where both
// lines change at once, count as zero.
var transitions = [16]int8{
	0b0000: 0, 0b0001: -1, 0b0010: +1, 0b0011: 0,
	0b0100: +1, 0b0101: 0, 0b0110: 0, 0b0111: -1,
	0b1000: -1, 0b1001: 0, 0b1010: 0, 0b1011: +1,
	0b1100: 0, 0b1101: +1, 0b1110: -1, 0b1111: 0,
}

// Decoder turns successive A/B samples into a detent position.
type Decoder struct {
	state    uint8
	acc      int
	position int64
}

// NewDecoder returns a decoder at position 0 with the given initial phase.
func NewDecoder(a, b bool) *Decoder {
	return &Decoder{state: phase(a, b)}
}

func phase(a, b bool) uint8 {
	var s uint8
	if a {
		s |= 0b10
	}
	if b {
		s |= 0b01
	}
	return s
}

// Update feeds one sample and reports whether the detent position changed.
// Contact bounce on a single line produces opposite steps that cancel.
func (d *Decoder) Update(a, b bool) bool {
	cur := phase(a, b)
	if cur == d.state {
		return false
	}
	d.acc += int(transitions[d.state<<2|cur])
	d.state = cur

	switch {
	case d.acc >= StepsPerDetent:
		d.acc -= StepsPerDetent
		d.position++
		return true
	case d.acc <= -StepsPerDetent:
		d.acc += StepsPerDetent
		d.position--
		return true
	}
	return false
}

// Position returns the detent count since construction.
func (d *Decoder) Position() int64 {
	return d.position
}
