package cols

import (
	"strings"
)

// Cols is an ordered set of columns.
type Cols []Col

// Parse builds a column set from a --cols expression. Tokens are
// separated by '+', ',' or spaces and may be:
//
//	a column name or alias    append the column
//	all                       append every column
//	default                   append the default set
//	-name or name-            remove the column
//
// An expression starting with '+' or containing only removals is
// applied on top of the default set.
func Parse(s string) (Cols, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Cols(Defaults()), nil
	}

	tokens := strings.FieldsFunc(s, func(r rune) bool {
		return r == '+' || r == ',' || r == ' '
	})

	onlyRemovals := true
	for _, t := range tokens {
		if !isRemoval(t) {
			onlyRemovals = false
			break
		}
	}

	var out Cols
	if strings.HasPrefix(s, "+") || onlyRemovals {
		out = Cols(Defaults())
	}

	for _, t := range tokens {
		switch {
		case t == "all":
			out = out.appendAll(All...)
		case t == "default":
			out = out.appendAll(Defaults()...)
		case isRemoval(t):
			c, err := ParseCol(strings.Trim(t, "-"))
			if err != nil {
				return nil, err
			}
			out = out.remove(c)
		default:
			c, err := ParseCol(t)
			if err != nil {
				return nil, err
			}
			out = out.appendAll(c)
		}
	}
	return out, nil
}

// isRemoval recognizes both removal spellings, "-name" and "name-".
func isRemoval(t string) bool {
	return strings.HasPrefix(t, "-") || strings.HasSuffix(t, "-")
}

// appendAll adds columns, keeping the first occurrence of duplicates.
func (cs Cols) appendAll(add ...Col) Cols {
	for _, c := range add {
		if !cs.Contains(c) {
			cs = append(cs, c)
		}
	}
	return cs
}

func (cs Cols) remove(c Col) Cols {
	out := cs[:0]
	for _, x := range cs {
		if x != c {
			out = append(out, x)
		}
	}
	return out
}

// Contains reports whether the set holds the column.
func (cs Cols) Contains(c Col) bool {
	for _, x := range cs {
		if x == c {
			return true
		}
	}
	return false
}

// IsDefault reports whether the set equals the default one.
func (cs Cols) IsDefault() bool {
	d := Defaults()
	if len(cs) != len(d) {
		return false
	}
	for i := range cs {
		if cs[i] != d[i] {
			return false
		}
	}
	return true
}
