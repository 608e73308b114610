package lfsr

import (
	"fmt"

	"github.com/pkg/errors"
)

// LFSR is the mutable state driven through a Config: the register cells, one
// Accumulator per generator and the data bit counter. An LFSR must not be
// shifted from more than one goroutine at a time.
type LFSR struct {
	cfg     Config
	state   uint32
	outputs []Accumulator

	// Index of the next payload bit, persists across calls to Shift until
	// Reset or Reseed.
	bitIdx int
}

// New returns a plain shift register of the given size seeded LSB first.
// Sizes above WordSize are silently clamped.
func New(registers int, seed uint32) *LFSR {
	return NewFromConfig(NewConfig(registers), seed)
}

// NewStrict is New but rejects sizes outside [1, WordSize] instead of
// clamping them.
func NewStrict(registers int, seed uint32) (*LFSR, error) {
	if registers < 1 || registers > WordSize {
		return nil, errors.Wrapf(ErrInvalidConfiguration, "register count %d outside [1, %d]", registers, WordSize)
	}
	return New(registers, seed), nil
}

// NewFromConfig returns a register with the structure of cfg. The config is
// copied, later changes to either don't affect the other.
func NewFromConfig(cfg Config, seed uint32) *LFSR {
	l := &LFSR{cfg: cfg.Clone()}

	l.outputs = make([]Accumulator, len(l.cfg.Generators))
	for ch := range l.outputs {
		l.outputs[ch].Direction = l.cfg.Direction
	}

	l.Reseed(seed)

	return l
}

func (l *LFSR) String() string {
	return fmt.Sprintf("{Registers:%d State:0x%0*X Generators:%d Inject:0x%X BitIndex:%d}",
		l.cfg.Registers, (l.cfg.Registers+3)/4, l.state, len(l.outputs), uint32(l.cfg.Inject), l.bitIdx,
	)
}

// Config returns a copy of the register's structure.
func (l *LFSR) Config() Config {
	return l.cfg.Clone()
}

// Registers is the number of register cells.
func (l *LFSR) Registers() int {
	return l.cfg.Registers
}

// AddFeedbackPoly see Config.AddFeedbackPoly.
func (l *LFSR) AddFeedbackPoly(poly uint32) {
	l.cfg.AddFeedbackPoly(poly)
}

// AddGeneratorPoly adds an output channel and returns its index.
func (l *LFSR) AddGeneratorPoly(poly uint32) int {
	l.outputs = append(l.outputs, Accumulator{Direction: l.cfg.Direction})
	return l.cfg.AddGeneratorPoly(poly)
}

// AddDataInputPoly see Config.AddDataInputPoly.
func (l *LFSR) AddDataInputPoly(poly uint32) {
	l.cfg.AddDataInputPoly(poly)
}

// SetDirection changes the byte assembly order of channel ch. Bits already
// accumulated are not rearranged.
func (l *LFSR) SetDirection(ch int, dir Direction) {
	l.outputs[ch].Direction = dir
}

// Shift advances the register bitCount steps. Each step computes every
// register's next value from the current cells, injecting bit BitIndex() of
// payload (LSB first, zero past the end) at the data injection points, then
// feeds each generator from the current cells before committing the new
// state.
func (l *LFSR) Shift(bitCount int, payload []byte) {
	for n := 0; n < bitCount; n++ {
		next := l.cfg.Step(l.state, dataBit(payload, l.bitIdx))

		for ch := range l.outputs {
			l.outputs[ch].Push(l.cfg.Tap(l.state, ch))
		}

		l.state = next
		l.bitIdx++
	}
}

// Flush completes a partial trailing byte on channel ch. Registers are not
// shifted.
func (l *LFSR) Flush(ch int) {
	l.outputs[ch].Flush()
}

// Output flushes channel ch and returns a copy of its bytes.
func (l *LFSR) Output(ch int) []byte {
	l.outputs[ch].Flush()
	return l.outputs[ch].Bytes()
}

// Reset clears the output of channel ch and the data bit counter. If
// registers is true every cell is also zeroed.
func (l *LFSR) Reset(ch int, registers bool) {
	l.outputs[ch].Reset()
	l.bitIdx = 0

	if registers {
		l.state = 0
	}
}

// Reseed loads seed into the registers LSB first, clears every output and
// the data bit counter. The register structure is untouched.
func (l *LFSR) Reseed(seed uint32) {
	l.state = seed & l.cfg.Mask()
	l.bitIdx = 0

	for ch := range l.outputs {
		l.outputs[ch].Reset()
	}
}

// State packs the register cells into an integer, cell 0 in bit 0.
func (l *LFSR) State() uint32 {
	return l.state
}

// BitIndex is the index of the next payload bit Shift will inject.
func (l *LFSR) BitIndex() int {
	return l.bitIdx
}

func dataBit(payload []byte, idx int) uint32 {
	if idx>>3 >= len(payload) {
		return 0
	}
	return uint32(payload[idx>>3]>>uint(idx&7)) & 1
}
