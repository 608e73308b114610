// Package lfsr implements a Galois linear feedback shift register with any
// number of serialized generator outputs and optional data injection.
package lfsr

import (
	"math/bits"

	"github.com/pkg/errors"
)

// WordSize is the largest number of registers a Config can hold.
const WordSize = 32

// ErrInvalidConfiguration is returned by strict constructors and Validate.
var ErrInvalidConfiguration = errors.New("lfsr: invalid configuration")

// FeedbackGraph holds a source mask per register. Each step a register's
// next value is the XOR of the registers selected by its mask.
type FeedbackGraph []uint32

// Sources lists the registers feeding register idx.
func (g FeedbackGraph) Sources(idx int) (src []int) {
	for m := g[idx]; m != 0; m &= m - 1 {
		src = append(src, bits.TrailingZeros32(m))
	}
	return
}

// A GeneratorTap selects the registers XORed together to produce one output
// bit per step.
type GeneratorTap uint32

// DataInjectionMask selects the registers which additionally XOR in one bit
// of external data per step.
type DataInjectionMask uint32

// Config describes the structure of a register: its size, feedback network,
// output taps and data injection points. A Config holds no state.
type Config struct {
	Registers  int
	Feedback   FeedbackGraph
	Generators []GeneratorTap
	Inject     DataInjectionMask

	// Direction new generator outputs assemble bytes in.
	Direction Direction
}

// NewConfig returns a plain shift register where register i feeds register
// i+1. Register counts above WordSize are clamped.
func NewConfig(registers int) (cfg Config) {
	if registers > WordSize {
		registers = WordSize
	}
	if registers < 0 {
		registers = 0
	}

	cfg.Registers = registers
	cfg.Feedback = make(FeedbackGraph, registers)
	for idx := 1; idx < registers; idx++ {
		cfg.Feedback[idx] = 1 << uint(idx-1)
	}

	return
}

// Mask has one bit set for each register.
func (cfg Config) Mask() uint32 {
	if cfg.Registers >= WordSize {
		return ^uint32(0)
	}
	return 1<<uint(cfg.Registers) - 1
}

// AddFeedbackPoly routes the last register into every register i for which
// bit i of poly is set. Bits at or above the register count are ignored, the
// x^n term is implied by the Galois topology.
func (cfg *Config) AddFeedbackPoly(poly uint32) {
	if cfg.Registers == 0 {
		return
	}

	last := uint32(1) << uint(cfg.Registers-1)
	for idx := 0; idx < cfg.Registers; idx++ {
		if poly>>uint(idx)&1 == 1 {
			cfg.Feedback[idx] ^= last
		}
	}
}

// AddGeneratorPoly adds an output channel and returns its index.
func (cfg *Config) AddGeneratorPoly(poly uint32) int {
	cfg.Generators = append(cfg.Generators, GeneratorTap(poly&cfg.Mask()))
	return len(cfg.Generators) - 1
}

// AddDataInputPoly marks the registers selected by poly for data injection.
func (cfg *Config) AddDataInputPoly(poly uint32) {
	cfg.Inject |= DataInjectionMask(poly & cfg.Mask())
}

// Step returns the state following state when bit is presented at the data
// injection points.
func (cfg Config) Step(state, bit uint32) (next uint32) {
	for idx, src := range cfg.Feedback {
		next |= parity(state&src) << uint(idx)
	}

	if bit&1 == 1 {
		next ^= uint32(cfg.Inject)
	}

	return next
}

// Tap returns the output bit of generator ch for state.
func (cfg Config) Tap(state uint32, ch int) uint32 {
	return parity(state & uint32(cfg.Generators[ch]))
}

// Validate reports ErrInvalidConfiguration for register counts outside
// [1, WordSize] and for taps referring to registers that don't exist.
func (cfg Config) Validate() error {
	if cfg.Registers < 1 || cfg.Registers > WordSize {
		return errors.Wrapf(ErrInvalidConfiguration, "register count %d outside [1, %d]", cfg.Registers, WordSize)
	}

	if len(cfg.Feedback) != cfg.Registers {
		return errors.Wrapf(ErrInvalidConfiguration, "feedback graph has %d entries for %d registers", len(cfg.Feedback), cfg.Registers)
	}

	mask := cfg.Mask()
	for idx, src := range cfg.Feedback {
		if src&^mask != 0 {
			return errors.Wrapf(ErrInvalidConfiguration, "register %d has sources 0x%X outside the register", idx, src&^mask)
		}
	}

	for ch, tap := range cfg.Generators {
		if uint32(tap)&^mask != 0 {
			return errors.Wrapf(ErrInvalidConfiguration, "generator %d taps 0x%X outside the register", ch, uint32(tap)&^mask)
		}
	}

	if uint32(cfg.Inject)&^mask != 0 {
		return errors.Wrapf(ErrInvalidConfiguration, "data injection 0x%X outside the register", uint32(cfg.Inject)&^mask)
	}

	return nil
}

// Clone returns a copy of cfg sharing no slices with it.
func (cfg Config) Clone() Config {
	c := cfg
	c.Feedback = append(FeedbackGraph(nil), cfg.Feedback...)
	c.Generators = append([]GeneratorTap(nil), cfg.Generators...)
	return c
}

// Reverse mirrors the low width bits of v. Checksum registers are transmitted
// highest cell first, Reverse(State(), n) gives the value in that order.
func Reverse(v uint32, width int) uint32 {
	if width <= 0 {
		return 0
	}
	if width > WordSize {
		width = WordSize
	}
	return bits.Reverse32(v) >> uint(WordSize-width)
}

func parity(v uint32) uint32 {
	return uint32(bits.OnesCount32(v) & 1)
}
