package hec

import (
	"fmt"

	"github.com/pkg/errors"
)

// Header holds the fields of a packet header, transmitted LT_ADDR first.
type Header struct {
	LTAddr uint8 // 3 bits
	Type   uint8 // 4 bits
	Flow   bool
	ARQN   bool
	SEQN   bool
}

// Bits packs the header into its 10 bit transmission order value, the first
// bit sent is bit 0.
func (h Header) Bits() uint16 {
	v := uint16(h.LTAddr&0x07) | uint16(h.Type&0x0F)<<3
	if h.Flow {
		v |= 1 << 7
	}
	if h.ARQN {
		v |= 1 << 8
	}
	if h.SEQN {
		v |= 1 << 9
	}
	return v
}

func (h Header) String() string {
	return fmt.Sprintf("{LTAddr:%d Type:0x%X Flow:%t ARQN:%t SEQN:%t}", h.LTAddr, h.Type, h.Flow, h.ARQN, h.SEQN)
}

// Encode returns the header followed by its HEC, 18 bits packed LSB first
// into 3 bytes.
func (h Header) Encode(g *Generator, uap byte) []byte {
	v := h.Bits()
	hec := g.Checksum(uap, []byte{byte(v), byte(v >> 8)})

	full := uint32(v) | uint32(hec)<<HeaderBits
	return []byte{byte(full), byte(full >> 8), byte(full >> 16)}
}

// DecodeHeader unpacks an encoded header and verifies its HEC.
func DecodeHeader(g *Generator, uap byte, encoded []byte) (h Header, err error) {
	if len(encoded)<<3 < EncodedBits {
		return h, errors.Errorf("encoded header too short: %d bytes", len(encoded))
	}

	if !g.Check(uap, encoded) {
		return h, errors.Errorf("hec mismatch for uap 0x%02X: %02X", uap, encoded[:3])
	}

	return HeaderFromBits(uint16(encoded[0]) | uint16(encoded[1])<<8), nil
}

// HeaderFromBits is the inverse of Header.Bits, bits above the tenth are
// ignored.
func HeaderFromBits(v uint16) (h Header) {
	h.LTAddr = uint8(v & 0x07)
	h.Type = uint8(v>>3) & 0x0F
	h.Flow = v>>7&1 == 1
	h.ARQN = v>>8&1 == 1
	h.SEQN = v>>9&1 == 1
	return
}
