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
	"encoding/hex"
	"os"
	"strings"
	"unicode"

	"github.com/pkg/errors"
)

// ParseHex decodes whitespace or comma separated hex. Tokens may carry a 0x
// prefix and hold any number of digits, an odd count is zero extended on the
// left.
func ParseHex(s string) (data []byte, err error) {
	data = []byte{}

	tokens := strings.FieldsFunc(s, func(r rune) bool {
		return unicode.IsSpace(r) || r == ','
	})

	for _, tok := range tokens {
		tok = strings.TrimPrefix(strings.TrimPrefix(tok, "0x"), "0X")
		if len(tok)%2 == 1 {
			tok = "0" + tok
		}

		b, err := hex.DecodeString(tok)
		if err != nil {
			return nil, errors.Wrapf(err, "invalid hex %q", tok)
		}
		data = append(data, b...)
	}

	return data, nil
}

// ReadInput returns the bytes to transform. Without a filename the arguments
// are parsed as hex. Files are parsed as hex text when possible and taken as
// raw binary otherwise, or always when binary is set.
func ReadInput(args []string, filename string, binary bool) ([]byte, error) {
	if filename == "" {
		return ParseHex(strings.Join(args, " "))
	}

	buf, err := os.ReadFile(filename)
	if err != nil {
		return nil, errors.Wrap(err, "read input")
	}

	if binary {
		return buf, nil
	}

	if data, err := ParseHex(string(buf)); err == nil && len(data) > 0 {
		return data, nil
	}

	log.WithField("input", filename).Debug("input is not hex, reading as binary")
	return buf, nil
}
