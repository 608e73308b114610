// Package whiten implements baseband data whitening.
package whiten

import (
	"fmt"

	"github.com/bemasher/btbaseband/lfsr"
)

const (
	Registers = 7
	Poly      = 0x91 // x^7 + x^4 + 1
	Generator = 0x40 // output of the last register only

	// HeaderBits is the length of the packet header, the header and payload
	// are whitened by one continuous stream.
	HeaderBits = 18
)

// headerMask keeps the bits of each header byte that belong to the header.
var headerMask = [(HeaderBits + 7) >> 3]byte{0xFF, 0xFF, 1<<(HeaderBits&7) - 1}

// NewConfig returns the whitening register structure.
func NewConfig() lfsr.Config {
	cfg := lfsr.NewConfig(Registers)
	cfg.AddFeedbackPoly(Poly)
	cfg.AddGeneratorPoly(Generator)
	return cfg
}

// Seed derives the register seed from bits 1-6 of the master clock. The top
// register is always set.
func Seed(clock uint32) uint32 {
	return 0x40 | (clock>>1)&0x3F
}

// A Codec whitens packets for one clock value.
type Codec struct {
	Clock uint32

	reg *lfsr.LFSR
}

func NewCodec(clock uint32) *Codec {
	return &Codec{clock, lfsr.NewFromConfig(NewConfig(), Seed(clock))}
}

func (c *Codec) String() string {
	return fmt.Sprintf("{Clock:0x%02X Seed:0x%02X}", c.Clock, Seed(c.Clock))
}

// Apply whitens or de-whitens a packet starting at the header and returns
// the result in a new buffer. Applying twice with the same clock returns the
// input. Buffers shorter than the header are whitened as far as they go.
func (c *Codec) Apply(input []byte) []byte {
	output := make([]byte, len(input))
	copy(output, input)

	c.reg.Reseed(Seed(c.Clock))

	c.reg.Shift(HeaderBits, nil)
	header := c.reg.Output(0)
	for idx := range header {
		if idx >= len(output) {
			return output
		}
		output[idx] ^= header[idx] & headerMask[idx]
	}

	// Registers carry on from the header, only the output is restarted.
	c.reg.Reset(0, false)

	payload := output[len(header):]
	c.reg.Shift(len(payload)<<3, nil)
	for idx, w := range c.reg.Output(0) {
		payload[idx] ^= w
	}

	return output
}

// Stream returns the first n bytes of whitening sequence for clock with no
// header split.
func Stream(clock uint32, n int) []byte {
	reg := lfsr.NewFromConfig(NewConfig(), Seed(clock))
	reg.Shift(n<<3, nil)
	return reg.Output(0)
}

// Whiten is shorthand for NewCodec(clock).Apply(data).
func Whiten(data []byte, clock uint32) []byte {
	return NewCodec(clock).Apply(data)
}
