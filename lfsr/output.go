package lfsr

// Direction sets the order bits are assembled into bytes.
type Direction int

const (
	// LSBFirst places the first bit of each byte in bit 0. This is the bit
	// order of the baseband and the default.
	LSBFirst Direction = iota
	// MSBFirst places the first bit of each byte in bit 7.
	MSBFirst
)

func (d Direction) String() string {
	if d == MSBFirst {
		return "MSBFirst"
	}
	return "LSBFirst"
}

// An Accumulator packs a serial bit stream into bytes. One byte is completed
// for every 8 bits pushed.
type Accumulator struct {
	Direction Direction

	pending int
	work    byte
	data    []byte
}

// Push appends the low bit of bit to the stream.
func (acc *Accumulator) Push(bit uint32) {
	if acc.Direction == MSBFirst {
		acc.work |= byte(bit & 1)
	} else {
		acc.work |= byte(bit&1) << 7
	}

	if acc.pending < 7 {
		acc.pending++
		if acc.Direction == MSBFirst {
			acc.work <<= 1
		} else {
			acc.work >>= 1
		}
		return
	}

	acc.data = append(acc.data, acc.work)
	acc.pending, acc.work = 0, 0
}

// Flush justifies a partially filled byte to the first-bit end and appends
// it. Does nothing when the stream is byte aligned.
func (acc *Accumulator) Flush() {
	if acc.pending == 0 {
		return
	}

	if acc.Direction == MSBFirst {
		acc.work <<= uint(7 - acc.pending)
	} else {
		acc.work >>= uint(7 - acc.pending)
	}

	acc.data = append(acc.data, acc.work)
	acc.pending, acc.work = 0, 0
}

// Pending is the number of bits waiting for a byte to complete.
func (acc *Accumulator) Pending() int {
	return acc.pending
}

// Bytes returns a copy of the completed bytes.
func (acc *Accumulator) Bytes() []byte {
	return append([]byte(nil), acc.data...)
}

// Reset discards all completed and pending bits.
func (acc *Accumulator) Reset() {
	acc.data = acc.data[:0]
	acc.pending, acc.work = 0, 0
}
