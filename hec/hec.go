// Package hec computes the header error check of baseband packet headers.
package hec

import (
	"fmt"

	"github.com/bemasher/btbaseband/lfsr"
)

const (
	Registers = 8
	Poly      = 0x1A7 // x^8 + x^7 + x^5 + x^2 + x + 1

	// HeaderBits is the number of header bits covered by the check.
	HeaderBits = 10
	// EncodedBits is the header followed by its check.
	EncodedBits = HeaderBits + Registers
)

func NewConfig() lfsr.Config {
	cfg := lfsr.NewConfig(Registers)
	cfg.AddFeedbackPoly(Poly)
	cfg.AddDataInputPoly(Poly)
	return cfg
}

// Generator is reseeded with a UAP for every header so one instance serves
// any number of headers and devices.
type Generator struct {
	reg *lfsr.LFSR
}

func NewGenerator() *Generator {
	return &Generator{lfsr.NewFromConfig(NewConfig(), 0)}
}

func (g *Generator) String() string {
	return fmt.Sprintf("{Poly:0x%03X Register:%s}", Poly, g.reg)
}

// Checksum returns the HEC of the first 10 bits of header in transmission
// order. Bits past the tenth are never read.
func (g *Generator) Checksum(uap byte, header []byte) byte {
	g.reg.Reseed(uint32(uap))
	g.reg.Shift(HeaderBits, header)
	return byte(lfsr.Reverse(g.reg.State(), Registers))
}

// Register returns the raw register cells left by the last Checksum or Check.
func (g *Generator) Register() byte {
	return byte(g.reg.State())
}

// Check reports whether the 18 bit encoded header carries a valid HEC for
// uap.
func (g *Generator) Check(uap byte, encoded []byte) bool {
	if len(encoded)<<3 < EncodedBits {
		return false
	}

	g.reg.Reseed(uint32(uap))
	g.reg.Shift(EncodedBits, encoded)

	return g.reg.State() == 0
}
