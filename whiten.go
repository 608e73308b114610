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

	"github.com/bemasher/btbaseband/protocol"
	"github.com/bemasher/btbaseband/whiten"
	"github.com/sirupsen/logrus"
)

func init() {
	protocol.RegisterCodec("whiten", NewWhitenCodec)
}

type WhitenCodec struct {
	*whiten.Codec
}

func NewWhitenCodec(p protocol.Params) protocol.Codec {
	return WhitenCodec{whiten.NewCodec(p.Clock)}
}

func (WhitenCodec) Name() string {
	return "whiten"
}

func (c WhitenCodec) Fields() logrus.Fields {
	return logrus.Fields{
		"clock": fmt.Sprintf("0x%07X", c.Clock),
		"seed":  fmt.Sprintf("0x%02X", whiten.Seed(c.Clock)),
	}
}

func (c WhitenCodec) Apply(data []byte) (protocol.Result, error) {
	return WhitenResult{c.Clock, c.Codec.Apply(data)}, nil
}

type WhitenResult struct {
	Clock uint32
	Data  protocol.HexBytes
}

func (r WhitenResult) String() string {
	return fmt.Sprintf("{Clock:0x%07X Seed:0x%02X Data:%s}", r.Clock, whiten.Seed(r.Clock), r.Data)
}

func (r WhitenResult) Header() []string {
	return []string{"clock", "seed", "data"}
}

func (r WhitenResult) Record() []string {
	return []string{
		strconv.FormatUint(uint64(r.Clock), 10),
		strconv.FormatUint(uint64(whiten.Seed(r.Clock)), 10),
		r.Data.String(),
	}
}

func (r WhitenResult) Output() []byte {
	return r.Data
}
