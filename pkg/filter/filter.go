// Package filter implements the mount filtering expressions of the
// -f flag: column comparisons combined with '&', '|' and parentheses,
// e.g. 'size>100G & (type=xfs | type=ext4)'.
package filter

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/hpctools/ldf/pkg/cols"
	"github.com/hpctools/ldf/pkg/mount"
)

// Op is a comparison operator.
type Op int

const (
	OpLower Op = iota
	OpLowerOrEqual
	OpGreater
	OpGreaterOrEqual
	OpEqual
	OpNotEqual
	OpLike   // regex match
	OpUnlike // regex non-match
)

// operator tokens, longest first so that "<=" wins over "<"
var opTokens = []struct {
	text string
	op   Op
}{
	{"<=", OpLowerOrEqual},
	{">=", OpGreaterOrEqual},
	{"<>", OpNotEqual},
	{"!=", OpNotEqual},
	{"==", OpEqual},
	{"!~", OpUnlike},
	{"<", OpLower},
	{">", OpGreater},
	{"=", OpEqual},
	{"~", OpLike},
}

// Filter is a compiled filtering expression.
type Filter struct {
	root node
}

type node interface {
	eval(m *mount.Mount) bool
}

type andNode struct{ children []node }

func (n andNode) eval(m *mount.Mount) bool {
	for _, c := range n.children {
		if !c.eval(m) {
			return false
		}
	}
	return true
}

type orNode struct{ children []node }

func (n orNode) eval(m *mount.Mount) bool {
	for _, c := range n.children {
		if c.eval(m) {
			return true
		}
	}
	return false
}

// Parse compiles a filter expression. An empty expression matches
// everything.
func Parse(s string) (*Filter, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return &Filter{root: andNode{}}, nil
	}
	p := &parser{tokens: lex(s)}
	root, err := p.parseOr()
	if err != nil {
		return nil, err
	}
	if p.pos < len(p.tokens) {
		return nil, fmt.Errorf("unexpected %q in filter", p.tokens[p.pos])
	}
	return &Filter{root: root}, nil
}

// Match evaluates the filter against one mount.
func (f *Filter) Match(m *mount.Mount) bool {
	return f.root.eval(m)
}

// Apply returns the mounts matching the filter, preserving order.
func (f *Filter) Apply(mounts []*mount.Mount) []*mount.Mount {
	out := make([]*mount.Mount, 0, len(mounts))
	for _, m := range mounts {
		if f.Match(m) {
			out = append(out, m)
		}
	}
	return out
}

// lex splits the expression into parentheses, combinators and atom
// texts. Comparison values therefore can't contain '&', '|', '(' or
// ')' unless the whole comparison is quoted at the shell level with a
// regex escape.
func lex(s string) []string {
	var tokens []string
	var cur strings.Builder
	flush := func() {
		if t := strings.TrimSpace(cur.String()); t != "" {
			tokens = append(tokens, t)
		}
		cur.Reset()
	}
	for _, r := range s {
		switch r {
		case '(', ')', '&', '|':
			flush()
			tokens = append(tokens, string(r))
		default:
			cur.WriteRune(r)
		}
	}
	flush()
	return tokens
}

type parser struct {
	tokens []string
	pos    int
}

func (p *parser) parseOr() (node, error) {
	first, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	children := []node{first}
	for p.pos < len(p.tokens) && p.tokens[p.pos] == "|" {
		p.pos++
		next, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		children = append(children, next)
	}
	if len(children) == 1 {
		return first, nil
	}
	return orNode{children: children}, nil
}

func (p *parser) parseAnd() (node, error) {
	first, err := p.parseAtom()
	if err != nil {
		return nil, err
	}
	children := []node{first}
	for p.pos < len(p.tokens) && p.tokens[p.pos] == "&" {
		p.pos++
		next, err := p.parseAtom()
		if err != nil {
			return nil, err
		}
		children = append(children, next)
	}
	if len(children) == 1 {
		return first, nil
	}
	return andNode{children: children}, nil
}

func (p *parser) parseAtom() (node, error) {
	if p.pos >= len(p.tokens) {
		return nil, fmt.Errorf("unexpected end of filter expression")
	}
	tok := p.tokens[p.pos]
	if tok == "(" {
		p.pos++
		inner, err := p.parseOr()
		if err != nil {
			return nil, err
		}
		if p.pos >= len(p.tokens) || p.tokens[p.pos] != ")" {
			return nil, fmt.Errorf("missing closing parenthesis in filter")
		}
		p.pos++
		return inner, nil
	}
	if tok == ")" || tok == "&" || tok == "|" {
		return nil, fmt.Errorf("unexpected %q in filter", tok)
	}
	p.pos++
	return compileComparison(tok)
}

type comparison struct {
	col   cols.Col
	op    Op
	value string

	num   float64 // parsed numeric value, when the column is numeric
	numOK bool
	re    *regexp.Regexp // compiled pattern for ~ and !~
}

func compileComparison(s string) (*comparison, error) {
	opStart := -1
	var match struct {
		text string
		op   Op
	}
	for i := 0; i < len(s); i++ {
		for _, t := range opTokens {
			if strings.HasPrefix(s[i:], t.text) {
				opStart = i
				match.text, match.op = t.text, t.op
				break
			}
		}
		if opStart >= 0 {
			break
		}
	}
	if opStart < 0 {
		return nil, fmt.Errorf("no comparison operator in %q", s)
	}

	colName := strings.TrimSpace(s[:opStart])
	value := strings.TrimSpace(s[opStart+len(match.text):])
	col, err := cols.ParseCol(colName)
	if err != nil {
		return nil, err
	}
	if value == "" {
		return nil, fmt.Errorf("missing value in comparison %q", s)
	}

	c := &comparison{col: col, op: match.op, value: value}
	switch match.op {
	case OpLike, OpUnlike:
		re, err := regexp.Compile(value)
		if err != nil {
			return nil, fmt.Errorf("invalid pattern in %q: %w", s, err)
		}
		c.re = re
	default:
		if kindOf(col) != kindString {
			num, err := parseNumericValue(col, value)
			if err != nil {
				return nil, fmt.Errorf("invalid value in %q: %w", s, err)
			}
			c.num = num
			c.numOK = true
		}
	}
	return c, nil
}

func (c *comparison) eval(m *mount.Mount) bool {
	switch c.op {
	case OpLike:
		return c.re.MatchString(stringValue(m, c.col))
	case OpUnlike:
		return !c.re.MatchString(stringValue(m, c.col))
	}

	if c.numOK {
		mv, ok := numericValue(m, c.col)
		if !ok {
			return false
		}
		return compareOrder(c.op, compareFloats(mv, c.num))
	}

	sv := stringValue(m, c.col)
	if sv == "" {
		return c.op == OpNotEqual
	}
	return compareOrder(c.op, strings.Compare(sv, c.value))
}

func compareFloats(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func compareOrder(op Op, cmp int) bool {
	switch op {
	case OpLower:
		return cmp < 0
	case OpLowerOrEqual:
		return cmp <= 0
	case OpGreater:
		return cmp > 0
	case OpGreaterOrEqual:
		return cmp >= 0
	case OpEqual:
		return cmp == 0
	case OpNotEqual:
		return cmp != 0
	}
	return false
}

type kind int

const (
	kindString kind = iota
	kindSize    // byte quantities, values accept unit suffixes
	kindPercent // percentages, values accept a trailing %
	kindCount   // plain counts
)

func kindOf(c cols.Col) kind {
	switch c {
	case cols.Used, cols.Free, cols.Size, cols.StripeSize:
		return kindSize
	case cols.Use, cols.UsePercent, cols.FreePercent, cols.InodesUse, cols.InodesUsePercent:
		return kindPercent
	case cols.ID, cols.InodesUsed, cols.InodesFree, cols.InodesCount,
		cols.StripeCount, cols.ComponentIndex, cols.MirrorCount:
		return kindCount
	}
	return kindString
}

func parseNumericValue(c cols.Col, value string) (float64, error) {
	switch kindOf(c) {
	case kindSize:
		v, err := humanize.ParseBytes(value)
		if err != nil {
			return 0, err
		}
		return float64(v), nil
	case kindPercent:
		return strconv.ParseFloat(strings.TrimSuffix(value, "%"), 64)
	default:
		return strconv.ParseFloat(value, 64)
	}
}

// numericValue extracts the comparable number of a numeric column.
func numericValue(m *mount.Mount, c cols.Col) (float64, bool) {
	switch c {
	case cols.ID:
		return float64(m.Info.ID), true
	case cols.Used:
		if m.Stats == nil {
			return 0, false
		}
		return float64(m.Stats.Used()), true
	case cols.Free:
		if m.Stats == nil {
			return 0, false
		}
		return float64(m.Stats.Available()), true
	case cols.Size:
		if m.Stats == nil {
			return 0, false
		}
		return float64(m.Stats.Size()), true
	case cols.Use, cols.UsePercent:
		if m.Stats == nil {
			return 0, false
		}
		return 100 * m.Stats.UseShare(), true
	case cols.FreePercent:
		if m.Stats == nil {
			return 0, false
		}
		return 100 * (1 - m.Stats.UseShare()), true
	case cols.InodesUse, cols.InodesUsePercent:
		if m.Inodes == nil {
			return 0, false
		}
		return 100 * m.Inodes.UseShare(), true
	case cols.InodesUsed:
		if m.Inodes == nil {
			return 0, false
		}
		return float64(m.Inodes.Used()), true
	case cols.InodesFree:
		if m.Inodes == nil {
			return 0, false
		}
		return float64(m.Inodes.Avail), true
	case cols.InodesCount:
		if m.Inodes == nil {
			return 0, false
		}
		return float64(m.Inodes.Files), true
	case cols.StripeCount:
		if m.Lustre == nil {
			return 0, false
		}
		return float64(m.Lustre.StripeCount), true
	case cols.StripeSize:
		if m.Lustre == nil {
			return 0, false
		}
		return float64(m.Lustre.StripeSize), true
	case cols.ComponentIndex:
		if m.Lustre == nil {
			return 0, false
		}
		return float64(m.Lustre.ComponentIndex), true
	case cols.MirrorCount:
		if m.Lustre == nil {
			return 0, false
		}
		return float64(m.Lustre.MirrorCount), true
	}
	return 0, false
}

// stringValue extracts the comparable text of a column.
func stringValue(m *mount.Mount, c cols.Col) string {
	switch c {
	case cols.Dev:
		return m.Dev.String()
	case cols.Filesystem:
		return m.Source
	case cols.Label:
		return m.Label
	case cols.Type:
		return m.FSType
	case cols.Remote:
		if m.Remote() {
			return "yes"
		}
		return "no"
	case cols.Disk:
		if m.Disk == nil {
			return ""
		}
		return m.Disk.Type()
	case cols.MountPoint:
		return m.MountPoint
	case cols.FSName:
		return m.FSName()
	case cols.UUID:
		return m.UUID
	case cols.PartUUID:
		return m.PartUUID
	case cols.LustreVersion:
		if m.Lustre == nil {
			return ""
		}
		return m.Lustre.Version
	case cols.PoolName:
		if m.Lustre == nil {
			return ""
		}
		return m.Lustre.PoolName
	case cols.ComponentType:
		if m.Lustre == nil {
			return ""
		}
		return m.Lustre.ComponentType
	}
	// numeric columns matched with ~ compare against their raw decimal form
	if v, ok := numericValue(m, c); ok {
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
	return ""
}
