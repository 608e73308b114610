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

	"github.com/bemasher/btbaseband/crc"
	"github.com/bemasher/btbaseband/protocol"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

func init() {
	protocol.RegisterCodec("crc", NewCRCCodec)
}

// CRCCodec computes the payload CRC with the register and cross checks it
// against the table driven implementation.
type CRCCodec struct {
	gen *crc.Generator
	tbl crc.CRC
}

func NewCRCCodec(p protocol.Params) protocol.Codec {
	return CRCCodec{crc.NewGenerator(p.UAP), crc.NewCRC("CRC-16/BLUETOOTH", p.UAP)}
}

func (CRCCodec) Name() string {
	return "crc"
}

func (c CRCCodec) Fields() logrus.Fields {
	return logrus.Fields{
		"uap":  fmt.Sprintf("0x%02X", c.gen.UAP),
		"poly": fmt.Sprintf("0x%05X", crc.Poly),
	}
}

func (c CRCCodec) Apply(data []byte) (protocol.Result, error) {
	r := CRCResult{
		UAP:   c.gen.UAP,
		CRC:   c.gen.Checksum(data),
		Table: c.tbl.Checksum(data),
	}
	r.Register = c.gen.Register()

	if r.CRC != r.Table {
		return nil, errors.Errorf("register crc 0x%04X disagrees with table crc 0x%04X", r.CRC, r.Table)
	}

	return r, nil
}

type CRCResult struct {
	UAP      uint8
	CRC      uint16
	Register uint16
	Table    uint16
}

func (r CRCResult) String() string {
	return fmt.Sprintf("{UAP:0x%02X CRC:%s Register:0x%04X}", r.UAP, protocol.HexBytes(r.Output()), r.Register)
}

func (r CRCResult) Header() []string {
	return []string{"uap", "crc", "register"}
}

func (r CRCResult) Record() []string {
	return []string{
		strconv.FormatUint(uint64(r.UAP), 10),
		strconv.FormatUint(uint64(r.CRC), 10),
		strconv.FormatUint(uint64(r.Register), 10),
	}
}

// Output is the CRC in transmission order.
func (r CRCResult) Output() []byte {
	return crc.Bytes(r.CRC)
}
