// Package fec computes the parity of the rate 2/3 forward error correction
// code, a (15,10) shortened Hamming code.
package fec

import (
	"fmt"

	"github.com/bemasher/btbaseband/gen"
	"github.com/bemasher/btbaseband/lfsr"
)

const (
	Registers = 5
	Poly      = 0x35 // x^5 + x^4 + x^2 + 1

	BlockBits    = 10
	CodewordBits = BlockBits + Registers
)

func NewConfig() lfsr.Config {
	cfg := lfsr.NewConfig(Registers)
	cfg.AddFeedbackPoly(Poly)
	cfg.AddDataInputPoly(Poly)
	return cfg
}

// Encoder reuses one register for every block, seeding it with zero each
// time.
type Encoder struct {
	reg *lfsr.LFSR
}

func NewEncoder() *Encoder {
	return &Encoder{lfsr.NewFromConfig(NewConfig(), 0)}
}

func (enc *Encoder) String() string {
	return fmt.Sprintf("{Poly:0x%02X Register:%s}", Poly, enc.reg)
}

// Parity returns the 5 parity bits of the first 10 bits of block in
// transmission order.
func (enc *Encoder) Parity(block []byte) byte {
	enc.reg.Reseed(0)
	enc.reg.Shift(BlockBits, block)
	return byte(lfsr.Reverse(enc.reg.State(), Registers))
}

// Register returns the raw register cells left by the last computation.
func (enc *Encoder) Register() byte {
	return byte(enc.reg.State())
}

// ParitySequence returns one parity byte per block.
func (enc *Encoder) ParitySequence(blocks [][]byte) []byte {
	seq := make([]byte, len(blocks))
	for idx, block := range blocks {
		seq[idx] = enc.Parity(block)
	}
	return seq
}

// Encode splits the first bitCount bits of payload into 10 bit blocks, the
// last zero padded, and emits each followed by its parity. Code words are
// packed back to back, LSB first.
func (enc *Encoder) Encode(payload []byte, bitCount int) []byte {
	blocks := (bitCount + BlockBits - 1) / BlockBits
	data := gen.UnpackBitsN(payload, bitCount)

	bits := make([]byte, 0, blocks*CodewordBits)
	for n := 0; n < blocks; n++ {
		block := make([]byte, BlockBits)
		copy(block, data[n*BlockBits:])

		parity := enc.Parity(gen.PackBits(block))

		bits = append(bits, block...)
		for k := 0; k < Registers; k++ {
			bits = append(bits, parity>>uint(k)&1)
		}
	}

	return gen.PackBits(bits)
}

// Syndrome clocks the first 15 bits of codeword through the register. It is
// zero for valid code words.
func (enc *Encoder) Syndrome(codeword []byte) byte {
	enc.reg.Reseed(0)
	enc.reg.Shift(CodewordBits, codeword)
	return byte(enc.reg.State())
}

// Check reports whether every code word in the first blocks*15 bits of data
// has a zero syndrome.
func (enc *Encoder) Check(data []byte, blocks int) bool {
	bits := gen.UnpackBitsN(data, blocks*CodewordBits)
	for n := 0; n < blocks; n++ {
		if enc.Syndrome(gen.PackBits(bits[n*CodewordBits:(n+1)*CodewordBits])) != 0 {
			return false
		}
	}
	return true
}
