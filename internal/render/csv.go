package render

import (
	"encoding/csv"
	"io"

	"github.com/hpctools/ldf/pkg/mount"
)

type csvPrinter struct {
	opts Options
}

func (p *csvPrinter) Print(w io.Writer, mounts []*mount.Mount) error {
	cw := csv.NewWriter(w)
	if p.opts.CSVSeparator != 0 {
		cw.Comma = p.opts.CSVSeparator
	}

	header := make([]string, 0, len(p.opts.Cols))
	for _, c := range p.opts.Cols {
		header = append(header, c.Title(p.opts.InodesMode))
	}
	if err := cw.Write(header); err != nil {
		return err
	}

	row := make([]string, len(p.opts.Cols))
	for _, m := range mounts {
		for i, c := range p.opts.Cols {
			row[i] = p.opts.cellText(m, c)
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
