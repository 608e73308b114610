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
	"strings"

	"github.com/bemasher/btbaseband/hop"
	"github.com/bemasher/btbaseband/protocol"
	"github.com/sirupsen/logrus"
)

func init() {
	protocol.RegisterCodec("pagescan", NewHopCodec("pagescan", hop.PageScan, hop.ScanStep))
	protocol.RegisterCodec("inquiry", NewHopCodec("inquiry", func(_ hop.Address, clk uint32) hop.Inputs {
		return hop.InquiryScan(clk)
	}, hop.ScanStep))

	// One hop per slot, CLK1 toggles every slot.
	protocol.RegisterCodec("connection", NewHopCodec("connection", hop.Connection, 2))
}

// InputsFunc derives kernel inputs from an address and clock.
type InputsFunc func(hop.Address, uint32) hop.Inputs

// HopCodec computes a sequence of channels. Input bytes are ignored.
type HopCodec struct {
	name   string
	inputs InputsFunc
	step   uint32

	Address hop.Address
	Clock   uint32
	Count   int
}

func NewHopCodec(name string, inputs InputsFunc, step uint32) protocol.NewCodecFunc {
	return func(p protocol.Params) protocol.Codec {
		c := HopCodec{
			name:    name,
			inputs:  inputs,
			step:    step,
			Address: hop.Address(p.Address & 0xFFFFFFF),
			Clock:   p.Clock,
			Count:   p.Count,
		}
		if c.Count <= 0 {
			c.Count = 1
		}
		return c
	}
}

func (c HopCodec) Name() string {
	return c.name
}

func (c HopCodec) Fields() logrus.Fields {
	return logrus.Fields{
		"address": c.Address.String(),
		"clock":   fmt.Sprintf("0x%07X", c.Clock),
		"count":   c.Count,
	}
}

func (c HopCodec) Apply([]byte) (protocol.Result, error) {
	r := HopResult{
		Address:  c.Address,
		Clock:    c.Clock,
		Channels: make(Channels, c.Count),
	}

	clk := c.Clock
	for idx := range r.Channels {
		r.Channels[idx] = c.inputs(c.Address, clk).Channel()
		clk += c.step
	}

	return r, nil
}

// Channels prints as space separated decimal channel numbers.
type Channels []uint8

func (c Channels) String() string {
	s := make([]string, len(c))
	for idx, ch := range c {
		s[idx] = strconv.Itoa(int(ch))
	}
	return strings.Join(s, " ")
}

func (c Channels) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

type HopResult struct {
	Address  hop.Address
	Clock    uint32
	Channels Channels
}

func (r HopResult) String() string {
	return fmt.Sprintf("{Address:%s Clock:0x%07X Channels:[%s]}", r.Address, r.Clock, r.Channels)
}

func (r HopResult) Header() []string {
	return []string{"address", "clock", "channels"}
}

func (r HopResult) Record() []string {
	return []string{
		strconv.FormatUint(uint64(r.Address), 10),
		strconv.FormatUint(uint64(r.Clock), 10),
		r.Channels.String(),
	}
}

func (r HopResult) Output() []byte {
	return r.Channels
}
