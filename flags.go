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
	"encoding/json"
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/bemasher/btbaseband/csv"
	"github.com/bemasher/btbaseband/protocol"
	"github.com/lestrrat-go/strftime"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"
)

const EnvPrefix = "BTBASEBAND_"

var (
	mode string

	clock   HexUint32
	uap     HexUint32
	address HexUint32
	bits    int
	count   int

	inputFilename string
	binary        bool

	vectorFilename string
	failures       bool

	format          string
	timestampFormat string
	logLevel        string
	quiet           bool
	version         bool
)

var (
	out     io.Writer = os.Stdout
	encoder Encoder
	stamp   *strftime.Strftime
	fc      protocol.FilterChain
)

func RegisterFlags(fs *pflag.FlagSet) {
	fs.StringVarP(&mode, "mode", "m", "whiten", "transform to apply: "+strings.Join(protocol.Names(), ", "))

	fs.VarP(&clock, "clock", "c", "native clock in hex, CLK27_0")
	fs.VarP(&uap, "uap", "u", "upper address part in hex")
	fs.VarP(&address, "address", "a", "UAP3_0 and LAP in hex, A27_0")
	fs.IntVarP(&bits, "bits", "b", 0, "number of input bits to encode, 0 for all")
	fs.IntVarP(&count, "count", "n", 32, "number of hops to compute")

	fs.StringVarP(&inputFilename, "input", "i", "", "read input from file instead of arguments, hex text or raw binary")
	fs.BoolVar(&binary, "binary", false, "treat the input file as raw binary")

	fs.StringVar(&vectorFilename, "vectors", "", "run the test vectors in a YAML file and report the results")
	fs.BoolVar(&failures, "failures", false, "display only vectors that fail")

	fs.StringVar(&format, "format", "plain", "output format: plain, csv, json, or xml")
	fs.StringVarP(&timestampFormat, "timestamp-format", "T", protocol.TimeFormat, "strftime format of plain output timestamps")
	fs.StringVar(&logLevel, "loglevel", "info", "log level: debug, info, warn or error")
	fs.BoolVarP(&quiet, "quiet", "q", false, "suppress state information logged at startup")
	fs.BoolVar(&version, "version", false, "display build date and commit hash")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage of %s: [flags] [hex bytes...]\n", os.Args[0])
		fs.PrintDefaults()
		fmt.Fprintln(os.Stderr)
		fmt.Fprintf(os.Stderr, "Every flag may also be set by the environment variable %s<FLAG>.\n", EnvPrefix)
	}
}

// EnvOverride sets flags from BTBASEBAND_<FLAG> environment variables.
// Dashes in flag names become underscores.
func EnvOverride(fs *pflag.FlagSet) {
	fs.VisitAll(func(f *pflag.Flag) {
		envName := EnvPrefix + strings.ToUpper(strings.Replace(f.Name, "-", "_", -1))
		flagValue := os.Getenv(envName)
		if flagValue == "" {
			return
		}

		fields := logrus.Fields{"env": envName, "flag": f.Name, "value": flagValue}
		if err := fs.Set(f.Name, flagValue); err != nil {
			log.WithFields(fields).WithError(err).Warn("environment variable failed to override flag")
		} else {
			log.WithFields(fields).Info("environment variable overrides flag")
		}
	})
}

func HandleFlags() (err error) {
	lvl, err := logrus.ParseLevel(logLevel)
	if err != nil {
		return errors.Wrap(err, "invalid log level")
	}
	log.SetLevel(lvl)

	stamp, err = protocol.NewTimeFormat(timestampFormat)
	if err != nil {
		return err
	}

	format = strings.ToLower(format)
	switch format {
	case "plain":
		encoder = PlainEncoder{out}
	case "csv":
		encoder = csv.NewEncoder(out)
	case "json":
		encoder = json.NewEncoder(out)
	case "xml":
		encoder = xml.NewEncoder(out)
	default:
		return errors.Errorf("invalid format: %q", format)
	}

	if failures {
		fc.Add(MismatchFilter{})
	}

	return nil
}

func params() protocol.Params {
	return protocol.Params{
		Clock:   uint32(clock),
		UAP:     uint8(uap),
		Address: uint32(address),
		Bits:    bits,
		Count:   count,
	}
}

// JSON, XML and CSV all implement this interface so we can simplify output
// formatting.
type Encoder interface {
	Encode(interface{}) error
}

type PlainEncoder struct {
	w io.Writer
}

func (pe PlainEncoder) Encode(msg interface{}) (err error) {
	_, err = fmt.Fprintln(pe.w, msg)
	return
}

// HexUint32 is a flag value parsed as hex with or without a 0x prefix.
type HexUint32 uint32

func (h HexUint32) String() string {
	return fmt.Sprintf("%X", uint32(h))
}

func (h *HexUint32) Set(value string) error {
	value = strings.TrimPrefix(strings.TrimPrefix(value, "0x"), "0X")

	n, err := strconv.ParseUint(value, 16, 32)
	if err != nil {
		return errors.Wrapf(err, "invalid hex value %q", value)
	}

	*h = HexUint32(n)
	return nil
}

func (h *HexUint32) Type() string {
	return "hex"
}

// MismatchFilter passes only messages whose output differs from their
// expected vector.
type MismatchFilter struct{}

func (MismatchFilter) Filter(msg protocol.LogMessage) bool {
	return !msg.Matched()
}
