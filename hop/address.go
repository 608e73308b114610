package hop

import (
	"fmt"
)

const (
	// GIAC is the general inquiry access code LAP.
	GIAC = 0x9E8B33
	// DCI is the default check initialization used in place of a UAP during
	// inquiry.
	DCI = 0x00

	// ScanStep advances the native clock to the next scan window, one
	// increment of CLKN16_12.
	ScanStep = 0x1000
)

// Address holds the 28 address bits that feed the kernel: the low 4 bits of
// the UAP in bits 24-27 and the LAP in bits 0-23.
type Address uint32

func NewAddress(uap byte, lap uint32) Address {
	return Address(uint32(uap&0x0F)<<24 | lap&0xFFFFFF)
}

func (addr Address) String() string {
	return fmt.Sprintf("%07X", uint32(addr)&0xFFFFFFF)
}

func bit(v uint32, idx, out uint) uint8 {
	return uint8(v>>idx&1) << out
}

// Fields returns the address derived kernel inputs, the rest are zero.
//
//	A = A27_23, B = A22_19, C = A8,6,4,2,0, D = A18_10, E = A13,11,9,7,5,3,1
func (addr Address) Fields() (in Inputs) {
	a := uint32(addr)

	in.A = uint8(a>>23) & 0x1F
	in.B = uint8(a>>19) & 0x0F
	in.C = bit(a, 8, 4) | bit(a, 6, 3) | bit(a, 4, 2) | bit(a, 2, 1) | bit(a, 0, 0)
	in.D = uint16(a>>10) & 0x1FF
	in.E = bit(a, 13, 6) | bit(a, 11, 5) | bit(a, 9, 4) | bit(a, 7, 3) | bit(a, 5, 2) | bit(a, 3, 1) | bit(a, 1, 0)

	return
}

// PageScan returns the inputs of the page scan substate of the device with
// address addr at native clock clk. X is CLKN16_12.
func PageScan(addr Address, clk uint32) Inputs {
	in := addr.Fields()
	in.X = uint8(clk>>12) & 0x1F
	return in
}

// InquiryScan is PageScan with the general inquiry access code.
func InquiryScan(clk uint32) Inputs {
	return PageScan(NewAddress(DCI, GIAC), clk)
}

// Connection returns the basic channel inputs of a piconet whose central has
// address addr at central clock clk.
//
// No reference sequence has been checked against this path.
func Connection(addr Address, clk uint32) Inputs {
	in := addr.Fields()

	in.X = uint8(clk>>2) & 0x1F
	in.Y1 = uint8(clk>>1) & 1
	in.Y2 = 32 * in.Y1
	in.A ^= uint8(clk>>21) & 0x1F
	in.C ^= uint8(clk>>16) & 0x1F
	in.D ^= uint16(clk>>7) & 0x1FF
	in.F = uint8(16 * (clk >> 7 & 0x1FFFFF) % Channels)

	return in
}

// PageScanSequence returns the channels of n consecutive scan windows
// starting at clk.
func PageScanSequence(addr Address, clk uint32, n int) []uint8 {
	seq := make([]uint8, n)
	for idx := range seq {
		seq[idx] = PageScan(addr, clk).Channel()
		clk += ScanStep
	}
	return seq
}
