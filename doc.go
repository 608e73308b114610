/*
BTBASEBAND computes the bit level transforms of the Bluetooth BR/EDR baseband:
data whitening, the payload CRC, the header error check, rate 2/3 FEC parity
and the hop selection kernel.

Input bytes are given as hex arguments or read from a file, bit 0 of byte 0
is the first bit on air.

	btbaseband --mode whiten --clock 60 10 D0 00 C1 9E 81 3F AB 74 72 97
	btbaseband --mode crc --uap 47 4E 01 02 03 04 05 06 07 08 09
	btbaseband --mode pagescan --address 2A96EF25 --count 32

Command-line Flags:

	-m, --mode=whiten

Selects the transform: crc, fec, hec, whiten, or one of the hop sequences
pagescan, inquiry and connection.

	--clock=0, --uap=0, --address=0

Hex values with or without a 0x prefix. The clock seeds whitening and drives
the hop sequences, the UAP seeds the CRC and HEC registers and the address
holds UAP3_0 and the LAP.

	--bits=0

Number of input bits the FEC encoder consumes, 0 for all of them.

	--count=32

Number of hops computed by the hop sequences.

	--input="" --binary=false

Reads input from a file. Files holding hex text are parsed as hex, anything
else is taken as raw bytes. --binary skips detection.

	--vectors=""

Runs every known answer test in a YAML file, see testdata/vectors.yaml, and
exits non-zero if any fails. --failures displays only the failing vectors. A vector
without an expect field always passes.

	--format="plain"

Sets the output format: plain, csv, json or xml. Plain text is formatted as

	{Time:2015-06-01T02:03:04.005 crc:{UAP:0x47 CRC:6D D2 Register:0xB64B}}

with the time formatted by --timestamp-format, a strftime pattern.

	--loglevel=info, --quiet=false

State information is logged to stderr at startup unless --quiet is given.

Every flag may also be set from the environment, --timestamp-format from
BTBASEBAND_TIMESTAMP_FORMAT for example. Flags given on the command line take
precedence. Long flags take two dashes, most also have a single letter
shorthand, see --help.
*/
package main
