package crc

import (
	"encoding/binary"
	"fmt"

	"github.com/bemasher/btbaseband/lfsr"
	"github.com/sigurn/crc16"
)

const (
	Registers = 16
	Poly      = 0x11021 // x^16 + x^12 + x^5 + 1
)

// NewConfig returns the CRC register structure. Payload bits enter the
// feedback network directly at every tap of the polynomial.
func NewConfig() lfsr.Config {
	cfg := lfsr.NewConfig(Registers)
	cfg.AddFeedbackPoly(Poly)
	cfg.AddGeneratorPoly(1 << (Registers - 1))
	cfg.AddDataInputPoly(Poly)
	return cfg
}

// Generator computes payload checksums by clocking data through the register
// seeded with the upper address part.
type Generator struct {
	UAP byte

	reg *lfsr.LFSR
}

func NewGenerator(uap byte) *Generator {
	return &Generator{uap, lfsr.NewFromConfig(NewConfig(), uint32(uap))}
}

func (g *Generator) String() string {
	return fmt.Sprintf("{UAP:0x%02X Poly:0x%05X}", g.UAP, Poly)
}

// Checksum returns the CRC of payload in transmission order, the first bit
// sent is bit 0.
func (g *Generator) Checksum(payload []byte) uint16 {
	g.reg.Reseed(uint32(g.UAP))
	g.reg.Shift(len(payload)<<3, payload)
	return uint16(lfsr.Reverse(g.reg.State(), Registers))
}

// Register returns the raw register cells left by the last Checksum or
// Check, cell 0 in bit 0.
func (g *Generator) Register() uint16 {
	return uint16(g.reg.State())
}

// Append returns payload followed by its CRC.
func (g *Generator) Append(payload []byte) []byte {
	pkt := make([]byte, len(payload), len(payload)+2)
	copy(pkt, payload)
	return append(pkt, Bytes(g.Checksum(payload))...)
}

// Check reports whether pkt ends with a valid CRC of the bytes before it.
func (g *Generator) Check(pkt []byte) bool {
	if len(pkt) < 2 {
		return false
	}

	g.reg.Reseed(uint32(g.UAP))
	g.reg.Shift(len(pkt)<<3, pkt)

	return g.reg.State() == 0
}

// Bytes encodes crc in transmission order.
func Bytes(crc uint16) []byte {
	buf := make([]byte, 2)
	binary.LittleEndian.PutUint16(buf, crc)
	return buf
}

// Params describes the checksum in the Rocksoft model. Reflecting both input
// and output is equivalent to clocking bytes LSB first and reading the
// register highest cell first.
func Params(uap byte) crc16.Params {
	return crc16.Params{
		Poly:   Poly & 0xFFFF,
		Init:   uint16(uap),
		RefIn:  true,
		RefOut: true,
		XorOut: 0x0000,
		Name:   "CRC-16/BLUETOOTH",
	}
}

// CRC is a table driven equivalent of Generator.
type CRC struct {
	Name string
	UAP  byte

	tbl *crc16.Table
}

func NewCRC(name string, uap byte) (crc CRC) {
	crc.Name = name
	crc.UAP = uap
	crc.tbl = crc16.MakeTable(Params(uap))

	return
}

func (crc CRC) String() string {
	return fmt.Sprintf("{Name:%s UAP:0x%02X Poly:0x%04X}", crc.Name, crc.UAP, Poly&0xFFFF)
}

func (crc CRC) Checksum(data []byte) uint16 {
	return crc16.Checksum(data, crc.tbl)
}
