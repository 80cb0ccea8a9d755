package render

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/fatih/color"

	"github.com/hpctools/ldf/pkg/cols"
	"github.com/hpctools/ldf/pkg/mount"
)

const barWidth = 5

// borders for the table frame, with an ascii fallback
type borderSet struct {
	horizontal                string
	vertical                  string
	topLeft, topMid, topRight string
	midLeft, midMid, midRight string
	botLeft, botMid, botRight string
	barFull, barEmpty         string
}

var (
	unicodeBorders = borderSet{
		horizontal: "─", vertical: "│",
		topLeft: "┌", topMid: "┬", topRight: "┐",
		midLeft: "├", midMid: "┼", midRight: "┤",
		botLeft: "└", botMid: "┴", botRight: "┘",
		barFull: "█", barEmpty: " ",
	}
	asciiBorders = borderSet{
		horizontal: "-", vertical: "|",
		topLeft: "+", topMid: "+", topRight: "+",
		midLeft: "+", midMid: "+", midRight: "+",
		botLeft: "+", botMid: "+", botRight: "+",
		barFull: "#", barEmpty: "-",
	}
)

// span is a colored fragment of a cell.
type span struct {
	text  string
	color *color.Color
}

type cell []span

func (c cell) width() int {
	w := 0
	for _, s := range c {
		w += utf8.RuneCountInString(s.text)
	}
	return w
}

type tablePrinter struct {
	opts Options

	sizeColor *color.Color
	usedColor *color.Color
	freeColor *color.Color
}

func (p *tablePrinter) Print(w io.Writer, mounts []*mount.Mount) error {
	if len(p.opts.Cols) == 0 {
		return nil
	}
	p.initColors()

	borders := unicodeBorders
	if p.opts.ASCII {
		borders = asciiBorders
	}

	rows := make([][]cell, 0, len(mounts))
	headerRow := make([]cell, 0, len(p.opts.Cols))
	for _, c := range p.opts.Cols {
		headerRow = append(headerRow, cell{{text: c.Title(p.opts.InodesMode)}})
	}

	separatorDone := false
	for i, m := range mounts {
		// in the lustre view, a blank row splits the leading
		// filesystem summaries from the component rows below them
		if p.opts.LustreView && !separatorDone && i > 0 &&
			isLustreSummary(mounts[i-1]) && !isLustreSummary(m) {
			rows = append(rows, p.blankRow())
			separatorDone = true
		}
		row := make([]cell, 0, len(p.opts.Cols))
		for _, c := range p.opts.Cols {
			row = append(row, p.cell(m, c, borders))
		}
		rows = append(rows, row)
	}

	widths := make([]int, len(p.opts.Cols))
	for i, c := range headerRow {
		widths[i] = c.width()
	}
	for _, row := range rows {
		for i, c := range row {
			if w := c.width(); w > widths[i] {
				widths[i] = w
			}
		}
	}

	p.printRule(w, borders, widths, borders.topLeft, borders.topMid, borders.topRight)
	p.printRow(w, borders, widths, headerRow, true)
	p.printRule(w, borders, widths, borders.midLeft, borders.midMid, borders.midRight)
	for _, row := range rows {
		p.printRow(w, borders, widths, row, false)
	}
	p.printRule(w, borders, widths, borders.botLeft, borders.botMid, borders.botRight)
	return nil
}

func (p *tablePrinter) initColors() {
	p.sizeColor = color.New(color.FgYellow)
	p.usedColor = color.New(color.FgRed)
	p.freeColor = color.New(color.FgGreen)
	if !p.opts.Color {
		p.sizeColor.DisableColor()
		p.usedColor.DisableColor()
		p.freeColor.DisableColor()
	} else {
		p.sizeColor.EnableColor()
		p.usedColor.EnableColor()
		p.freeColor.EnableColor()
	}
}

func (p *tablePrinter) blankRow() []cell {
	row := make([]cell, len(p.opts.Cols))
	for i := range row {
		row[i] = cell{}
	}
	return row
}

// cell builds the colored table cell of one column.
func (p *tablePrinter) cell(m *mount.Mount, c cols.Col, borders borderSet) cell {
	text := p.opts.cellText(m, c)
	switch c {
	case cols.Remote:
		// the table marks remote mounts with a cross, CSV says yes/no
		if m.Remote() {
			return cell{{text: "x"}}
		}
		return cell{}
	case cols.Size, cols.InodesCount:
		return cell{{text: text, color: p.sizeColor}}
	case cols.Used, cols.UsePercent, cols.InodesUsed, cols.InodesUsePercent:
		return cell{{text: text, color: p.usedColor}}
	case cols.Free, cols.FreePercent, cols.InodesFree:
		return cell{{text: text, color: p.freeColor}}
	case cols.Use:
		share, ok := p.opts.useShare(m)
		if !ok {
			if m.Unreachable {
				return cell{{text: "unreachable", color: p.usedColor}}
			}
			return cell{}
		}
		return p.useCell(fmt.Sprintf("%3.0f%%", 100*share), share, borders)
	case cols.InodesUse:
		if m.Inodes == nil {
			return cell{}
		}
		return p.useCell(fmt.Sprintf("%3.0f%%", 100*m.Inodes.UseShare()), m.Inodes.UseShare(), borders)
	}
	return cell{{text: text}}
}

// useCell renders "NN% " followed by a usage bar.
func (p *tablePrinter) useCell(percent string, share float64, borders borderSet) cell {
	filled := int(share*barWidth + 0.5)
	if filled > barWidth {
		filled = barWidth
	}
	return cell{
		{text: percent + " ", color: p.usedColor},
		{text: strings.Repeat(borders.barFull, filled), color: p.usedColor},
		{text: strings.Repeat(borders.barEmpty, barWidth-filled), color: p.freeColor},
	}
}

func (p *tablePrinter) printRule(w io.Writer, b borderSet, widths []int, left, mid, right string) {
	var sb strings.Builder
	sb.WriteString(left)
	for i, width := range widths {
		if i > 0 {
			sb.WriteString(mid)
		}
		sb.WriteString(strings.Repeat(b.horizontal, width+2))
	}
	sb.WriteString(right)
	fmt.Fprintln(w, sb.String())
}

func (p *tablePrinter) printRow(w io.Writer, b borderSet, widths []int, row []cell, header bool) {
	var sb strings.Builder
	sb.WriteString(b.vertical)
	for i, c := range row {
		align := p.opts.Cols[i].ContentAlign()
		if header {
			align = p.opts.Cols[i].HeaderAlign()
		}
		pad := widths[i] - c.width()
		leftPad, rightPad := padding(align, pad)
		sb.WriteString(" ")
		sb.WriteString(strings.Repeat(" ", leftPad))
		for _, s := range c {
			if s.color != nil {
				sb.WriteString(s.color.Sprint(s.text))
			} else {
				sb.WriteString(s.text)
			}
		}
		sb.WriteString(strings.Repeat(" ", rightPad))
		sb.WriteString(" ")
		sb.WriteString(b.vertical)
	}
	fmt.Fprintln(w, sb.String())
}

func padding(align cols.Align, pad int) (left, right int) {
	switch align {
	case cols.AlignLeft:
		return 0, pad
	case cols.AlignRight:
		return pad, 0
	}
	return pad / 2, pad - pad/2
}
