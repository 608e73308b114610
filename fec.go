// BTBASEBAND - Bit-level transforms for the Bluetooth BR/EDR baseband.
// Copyright (C) 2015 Douglas Hall
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published
// by the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <http://www.gnu.org/licenses/>.

package main

import (
	"fmt"
	"strconv"

	"github.com/bemasher/btbaseband/fec"
	"github.com/bemasher/btbaseband/protocol"
	"github.com/sirupsen/logrus"
)

func init() {
	protocol.RegisterCodec("fec", NewFECCodec)
}

type FECCodec struct {
	Bits int

	enc *fec.Encoder
}

func NewFECCodec(p protocol.Params) protocol.Codec {
	return FECCodec{p.Bits, fec.NewEncoder()}
}

func (FECCodec) Name() string {
	return "fec"
}

func (c FECCodec) Fields() logrus.Fields {
	return logrus.Fields{
		"poly": fmt.Sprintf("0x%02X", fec.Poly),
		"bits": c.Bits,
	}
}

// Apply computes the parity of each 2 byte block of data and the 2/3 rate
// encoding of the first Bits bits, all of them when Bits is 0.
func (c FECCodec) Apply(data []byte) (protocol.Result, error) {
	var blocks [][]byte
	for idx := 0; idx < len(data); idx += 2 {
		end := idx + 2
		if end > len(data) {
			end = len(data)
		}
		blocks = append(blocks, data[idx:end])
	}

	bits := c.Bits
	if bits <= 0 || bits > len(data)<<3 {
		bits = len(data) << 3
	}

	return FECResult{
		Bits:    bits,
		Parity:  c.enc.ParitySequence(blocks),
		Encoded: c.enc.Encode(data, bits),
	}, nil
}

type FECResult struct {
	Bits    int
	Parity  protocol.HexBytes
	Encoded protocol.HexBytes
}

func (r FECResult) String() string {
	return fmt.Sprintf("{Bits:%d Parity:%s Encoded:%s}", r.Bits, r.Parity, r.Encoded)
}

func (r FECResult) Header() []string {
	return []string{"bits", "parity", "encoded"}
}

func (r FECResult) Record() []string {
	return []string{strconv.Itoa(r.Bits), r.Parity.String(), r.Encoded.String()}
}

// Output is the parity sequence.
func (r FECResult) Output() []byte {
	return r.Parity
}
