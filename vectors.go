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
	"io"

	"github.com/bemasher/btbaseband/protocol"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// A Vector is one known answer test.
type Vector struct {
	Name    string `yaml:"name"`
	Mode    string `yaml:"mode"`
	Clock   uint32 `yaml:"clock"`
	UAP     uint8  `yaml:"uap"`
	Address uint32 `yaml:"address"`
	Bits    int    `yaml:"bits"`
	Count   int    `yaml:"count"`
	Input   string `yaml:"input"`
	Expect  string `yaml:"expect"`
}

type VectorFile struct {
	Vectors []Vector `yaml:"vectors"`
}

// LoadVectors decodes a YAML vector file.
func LoadVectors(r io.Reader) ([]Vector, error) {
	var vf VectorFile

	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&vf); err != nil {
		return nil, errors.Wrap(err, "decode vectors")
	}

	for idx, v := range vf.Vectors {
		if v.Mode == "" {
			return nil, errors.Errorf("vector %d (%s) has no mode", idx, v.Name)
		}
	}

	return vf.Vectors, nil
}

func (v Vector) Params() protocol.Params {
	return protocol.Params{
		Clock:   v.Clock,
		UAP:     v.UAP,
		Address: v.Address,
		Bits:    v.Bits,
		Count:   v.Count,
	}
}

// Run applies the vector's codec to its input.
func (v Vector) Run() (msg protocol.LogMessage, err error) {
	codec, err := protocol.NewCodec(v.Mode, v.Params())
	if err != nil {
		return msg, errors.Wrapf(err, "vector %s", v.Name)
	}

	input, err := ParseHex(v.Input)
	if err != nil {
		return msg, errors.Wrapf(err, "vector %s input", v.Name)
	}

	res, err := codec.Apply(input)
	if err != nil {
		return msg, errors.Wrapf(err, "vector %s", v.Name)
	}

	msg = protocol.NewLogMessage(stamp, v.Mode, input, res)

	if v.Expect != "" {
		expect, err := ParseHex(v.Expect)
		if err != nil {
			return msg, errors.Wrapf(err, "vector %s expect", v.Name)
		}
		msg.Expect = expect
	}

	return msg, nil
}

// RunVectors runs every vector, encoding the messages that pass the filter
// chain, and returns how many matched.
func RunVectors(vectors []Vector, enc Encoder, fc protocol.FilterChain) (passed int, err error) {
	for _, v := range vectors {
		msg, err := v.Run()
		if err != nil {
			log.WithError(err).Error("vector failed to run")
			continue
		}

		if msg.Matched() {
			passed++
		} else {
			log.WithField("vector", v.Name).Warn("mismatch")
		}

		if !fc.Match(msg) {
			continue
		}

		if err := enc.Encode(msg); err != nil {
			return passed, errors.Wrap(err, "encode message")
		}
	}

	return passed, nil
}
