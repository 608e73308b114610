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
	"os"

	"github.com/bemasher/btbaseband/protocol"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"
)

var log = logrus.New()

func init() {
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	log.SetOutput(os.Stderr)
}

var (
	buildTag   = "dev"     // v#.#.#
	buildDate  = "unknown" // date -u '+%Y-%m-%d'
	commitHash = "unknown" // git rev-parse HEAD
)

// Transform applies the selected codec to the input and encodes the result.
func Transform(args []string) error {
	codec, err := protocol.NewCodec(mode, params())
	if err != nil {
		return err
	}

	if !quiet {
		log.WithFields(codec.Fields()).WithField("mode", codec.Name()).Info("codec")
	}

	input, err := ReadInput(args, inputFilename, binary)
	if err != nil {
		return err
	}

	res, err := codec.Apply(input)
	if err != nil {
		return errors.Wrapf(err, "apply %s", codec.Name())
	}

	msg := protocol.NewLogMessage(stamp, codec.Name(), input, res)
	if !fc.Match(msg) {
		return nil
	}

	return errors.Wrap(encoder.Encode(msg), "encode message")
}

// Verify runs every vector in filename and fails unless all of them match.
func Verify(filename string) error {
	f, err := os.Open(filename)
	if err != nil {
		return errors.Wrap(err, "open vectors")
	}
	defer f.Close()

	vectors, err := LoadVectors(f)
	if err != nil {
		return err
	}

	passed, err := RunVectors(vectors, encoder, fc)
	if err != nil {
		return err
	}

	log.WithFields(logrus.Fields{"passed": passed, "total": len(vectors)}).Info("vectors complete")
	if passed != len(vectors) {
		return errors.Errorf("%d of %d vectors failed", len(vectors)-passed, len(vectors))
	}

	return nil
}

func main() {
	fs := pflag.CommandLine
	RegisterFlags(fs)
	EnvOverride(fs)
	pflag.Parse()

	if version {
		fmt.Println("Build Tag: ", buildTag)
		fmt.Println("Build Date:", buildDate)
		fmt.Println("Commit:    ", commitHash)
		os.Exit(0)
	}

	if err := HandleFlags(); err != nil {
		log.Fatal(err)
	}

	var err error
	if vectorFilename != "" {
		err = Verify(vectorFilename)
	} else {
		err = Transform(pflag.Args())
	}

	if err != nil {
		log.Fatal(err)
	}
}
