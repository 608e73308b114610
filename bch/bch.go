// Package bch implements polynomial long division over GF(2). It is slower
// than the register based generators and serves as their reference.
package bch

import (
	"fmt"
)

// BCH is a generator polynomial, bit k is the coefficient of x^k.
type BCH struct {
	GenPoly uint
	PolyLen uint
}

func NewBCH(poly uint) (bch BCH) {
	bch.GenPoly = poly

	p := bch.GenPoly
	for ; bch.PolyLen < 32 && p > 0; bch.PolyLen, p = bch.PolyLen+1, p>>1 {
	}
	bch.PolyLen--

	return
}

func (bch BCH) String() string {
	return fmt.Sprintf("{GenPoly:%X PolyLen:%d}", bch.GenPoly, bch.PolyLen)
}

// Remainder divides the polynomial given by bits, highest degree first, by
// the generator. Each element of bits is 0 or 1.
func (bch BCH) Remainder(bits []byte) (rem uint) {
	for _, b := range bits {
		// Shift in the next coefficient.
		rem <<= 1
		rem |= uint(b & 1)

		// Subtract the generator once the degree reaches it.
		if rem>>bch.PolyLen != 0 {
			rem ^= bch.GenPoly
		}
	}

	// Mask to valid length
	rem &= (1 << bch.PolyLen) - 1
	return
}

// Encode returns the parity of a systematic code word for the message bits,
// the remainder of message * x^PolyLen.
func (bch BCH) Encode(bits []byte) uint {
	padded := make([]byte, len(bits)+int(bch.PolyLen))
	copy(padded, bits)
	return bch.Remainder(padded)
}

// Syndrome is zero for code words, message bits followed by Bits(Encode(msg)).
func (bch BCH) Syndrome(codeword []byte) uint {
	return bch.Remainder(codeword)
}

// Bits expands parity into PolyLen bits, highest degree first.
func (bch BCH) Bits(parity uint) []byte {
	bits := make([]byte, bch.PolyLen)
	for idx := range bits {
		bits[idx] = byte(parity>>(bch.PolyLen-1-uint(idx))) & 1
	}
	return bits
}
