// Package units formats byte quantities in the unit systems offered
// by the --units flag.
package units

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
)

// Units selects how byte sizes are rendered.
type Units int

const (
	// SI uses powers of 1000 (kB, MB, GB). The default.
	SI Units = iota
	// Binary uses powers of 1024 (KiB, MiB, GiB).
	Binary
	// Bytes prints the raw count with thousands separators.
	Bytes
)

// Parse reads a --units value.
func Parse(s string) (Units, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "si":
		return SI, nil
	case "binary", "bin":
		return Binary, nil
	case "bytes", "b":
		return Bytes, nil
	}
	return 0, fmt.Errorf("invalid units %q: expected si, binary or bytes", s)
}

func (u Units) String() string {
	switch u {
	case Binary:
		return "binary"
	case Bytes:
		return "bytes"
	}
	return "si"
}

// Format renders a byte count in the selected unit system.
func (u Units) Format(bytes uint64) string {
	switch u {
	case Binary:
		return humanize.IBytes(bytes)
	case Bytes:
		return humanize.Comma(int64(bytes))
	}
	return humanize.Bytes(bytes)
}
