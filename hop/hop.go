// Package hop implements the channel selection kernel of the 79 channel
// hopping system.
//
// The kernel is a pure function, safe for concurrent use. The helpers in
// address.go derive its inputs from a device address and clock for the
// page scan, inquiry scan and connection states.
package hop

import (
	"fmt"
)

// Channels is the number of RF channels hopped over.
const Channels = 79

// butterfly maps (control, a, b) to the new (a, b): a set control bit swaps
// the pair.
var butterfly = [8]uint8{0, 1, 2, 3, 0, 2, 1, 3}

// stages lists the pairs of state bits each permutation stage exchanges, in
// the order the stages run. Pair p of stage s is controlled by control bit
// 12-2s+p.
var stages = [7][2][2]uint{
	{{0, 3}, {1, 2}},
	{{2, 4}, {1, 3}},
	{{1, 4}, {0, 3}},
	{{0, 2}, {3, 4}},
	{{0, 4}, {1, 3}},
	{{1, 2}, {3, 4}},
	{{0, 1}, {2, 3}},
}

// SelectChannel returns the channel in [0, 78] selected by the kernel
// inputs. Inputs are masked to their widths: x, a, c 5 bits, b 4 bits, d 9
// bits, e, f, y2 7 bits and y1 1 bit.
func SelectChannel(x, a, b, c uint8, d uint16, e, f, y1, y2 uint8) uint8 {
	z := ((x + a) & 0x1F) ^ (b & 0x0F)

	// Bits 0-8 from D, 9-13 from C.
	cc := c & 0x1F
	if y1&1 == 1 {
		cc ^= 0x1F
	}
	ctrl := (d & 0x1FF) | uint16(cc)<<9

	for s, pairs := range stages {
		for p, pair := range pairs {
			sel := uint8(ctrl>>uint(12-2*s+p)) & 1
			out := butterfly[sel<<2|(z>>pair[0]&1)<<1|(z>>pair[1]&1)]

			z &^= 1<<pair[0] | 1<<pair[1]
			z |= (out>>1&1)<<pair[0] | (out&1)<<pair[1]
		}
	}

	xEF := (uint(z) + uint(e&0x7F) + uint(f&0x7F) + uint(y2&0x7F)) % Channels
	if xEF < 40 {
		return uint8(xEF * 2)
	}
	return uint8((xEF-40)*2 + 1)
}

// Inputs holds one set of kernel inputs.
type Inputs struct {
	X, A, B, C uint8
	D          uint16
	E, F       uint8
	Y1, Y2     uint8
}

func (in Inputs) Channel() uint8 {
	return SelectChannel(in.X, in.A, in.B, in.C, in.D, in.E, in.F, in.Y1, in.Y2)
}

func (in Inputs) String() string {
	return fmt.Sprintf("{X:%02X A:%02X B:%X C:%02X D:%03X E:%02X F:%02X Y1:%d Y2:%02X}",
		in.X, in.A, in.B, in.C, in.D, in.E, in.F, in.Y1, in.Y2,
	)
}
