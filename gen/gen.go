// Package gen produces random packets and converts between packed bytes and
// one bit per byte slices.
package gen

import (
	crand "crypto/rand"

	"github.com/bemasher/btbaseband/crc"
	"github.com/pkg/errors"
)

// NewRandPayload returns length random bytes.
func NewRandPayload(length int) (payload []byte, err error) {
	payload = make([]byte, length)
	if _, err = crand.Read(payload); err != nil {
		return nil, errors.Wrap(err, "read random payload")
	}
	return
}

// NewRandPacket returns a random payload of the given length followed by its
// CRC in transmission order.
func NewRandPacket(c crc.CRC, length int) (pkt []byte, err error) {
	pkt, err = NewRandPayload(length)
	if err != nil {
		return nil, err
	}

	return append(pkt, crc.Bytes(c.Checksum(pkt))...), nil
}

// UnpackBits expands data into one bit per byte, bit 0 of byte 0 first.
func UnpackBits(data []byte) []byte {
	return UnpackBitsN(data, len(data)<<3)
}

// UnpackBitsN expands the first n bits of data. Bits past the end of data
// are zero.
func UnpackBitsN(data []byte, n int) []byte {
	bits := make([]byte, n)

	for idx := range bits {
		if idx>>3 < len(data) {
			bits[idx] = (data[idx>>3] >> uint(idx&7)) & 0x01
		}
	}

	return bits
}

// PackBits is the inverse of UnpackBits. A trailing partial byte is right
// justified.
func PackBits(bits []byte) []byte {
	data := make([]byte, (len(bits)+7)>>3)

	for idx, b := range bits {
		data[idx>>3] |= (b & 0x01) << uint(idx&7)
	}

	return data
}

// Reversed returns bits in the opposite order. Polynomial arithmetic takes
// the highest degree first while the air takes bit 0 first.
func Reversed(bits []byte) []byte {
	r := make([]byte, len(bits))
	for idx, b := range bits {
		r[len(bits)-1-idx] = b
	}
	return r
}
