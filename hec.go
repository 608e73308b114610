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

	"github.com/bemasher/btbaseband/hec"
	"github.com/bemasher/btbaseband/protocol"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

func init() {
	protocol.RegisterCodec("hec", NewHECCodec)
}

type HECCodec struct {
	UAP uint8

	gen *hec.Generator
}

func NewHECCodec(p protocol.Params) protocol.Codec {
	return HECCodec{p.UAP, hec.NewGenerator()}
}

func (HECCodec) Name() string {
	return "hec"
}

func (c HECCodec) Fields() logrus.Fields {
	return logrus.Fields{
		"uap":  fmt.Sprintf("0x%02X", c.UAP),
		"poly": fmt.Sprintf("0x%03X", hec.Poly),
	}
}

// Apply computes the HEC of the 10 header bits at the start of data.
func (c HECCodec) Apply(data []byte) (protocol.Result, error) {
	if len(data) < 2 {
		return nil, errors.Errorf("hec covers %d header bits, got %d bytes", hec.HeaderBits, len(data))
	}

	r := HECResult{
		UAP:          c.UAP,
		PacketHeader: hec.HeaderFromBits(uint16(data[0]) | uint16(data[1])<<8),
		HEC:          c.gen.Checksum(c.UAP, data),
	}
	r.Register = c.gen.Register()
	r.Encoded = r.PacketHeader.Encode(c.gen, c.UAP)

	return r, nil
}

type HECResult struct {
	UAP          uint8
	PacketHeader hec.Header
	HEC          uint8
	Register     uint8
	Encoded      protocol.HexBytes
}

func (r HECResult) String() string {
	return fmt.Sprintf("{UAP:0x%02X Header:%s HEC:0x%02X Register:0x%02X Encoded:%s}",
		r.UAP, r.PacketHeader, r.HEC, r.Register, r.Encoded,
	)
}

func (r HECResult) Header() []string {
	return []string{"uap", "header", "hec", "register", "encoded"}
}

func (r HECResult) Record() []string {
	return []string{
		strconv.FormatUint(uint64(r.UAP), 10),
		strconv.FormatUint(uint64(r.PacketHeader.Bits()), 10),
		strconv.FormatUint(uint64(r.HEC), 10),
		strconv.FormatUint(uint64(r.Register), 10),
		r.Encoded.String(),
	}
}

func (r HECResult) Output() []byte {
	return []byte{r.HEC}
}
