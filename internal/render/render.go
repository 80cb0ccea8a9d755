// Package render turns mount lists into the output formats of the
// tool: a colored table, JSON, or CSV.
package render

import (
	"fmt"
	"io"

	"github.com/hpctools/ldf/pkg/cols"
	"github.com/hpctools/ldf/pkg/mount"
	"github.com/hpctools/ldf/pkg/units"
)

// Format selects the output renderer.
type Format int

const (
	FormatTable Format = iota
	FormatJSON
	FormatCSV
)

// Options are shared by all printers.
type Options struct {
	Cols         cols.Cols
	Units        units.Units
	InodesMode   bool // -i: shared columns show inode values
	Color        bool
	ASCII        bool
	CSVSeparator rune
	LustreView   bool // lustre-only display, separator before the summary row
}

// Printer writes a mount list to an output stream.
type Printer interface {
	Print(w io.Writer, mounts []*mount.Mount) error
}

// New builds the printer for a format.
func New(format Format, opts Options) (Printer, error) {
	switch format {
	case FormatTable:
		return &tablePrinter{opts: opts}, nil
	case FormatJSON:
		return &jsonPrinter{opts: opts}, nil
	case FormatCSV:
		return &csvPrinter{opts: opts}, nil
	}
	return nil, fmt.Errorf("unknown output format %d", format)
}
