// Package sorting parses sort specifications and applies them to
// mount lists.
package sorting

import (
	"fmt"
	"sort"
	"strings"

	"github.com/hpctools/ldf/pkg/cols"
	"github.com/hpctools/ldf/pkg/mount"
)

// Sort is a column with a direction.
type Sort struct {
	Col   cols.Col
	Order cols.Order
}

// Default sorts by total size, biggest first.
func Default() Sort {
	return Sort{Col: cols.Size, Order: cols.Size.DefaultOrder()}
}

// Parse reads a specification like "size", "size-desc" or "mount-asc".
// Without an explicit direction the column's default order applies.
func Parse(s string) (Sort, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Default(), nil
	}

	name := s
	var order *cols.Order
	if cut, ok := strings.CutSuffix(s, "-asc"); ok {
		name = cut
		o := cols.Asc
		order = &o
	} else if cut, ok := strings.CutSuffix(s, "-desc"); ok {
		name = cut
		o := cols.Desc
		order = &o
	}

	col, err := cols.ParseCol(name)
	if err != nil {
		return Sort{}, fmt.Errorf("invalid sort specification %q: %w", s, err)
	}
	if order == nil {
		o := col.DefaultOrder()
		order = &o
	}
	return Sort{Col: col, Order: *order}, nil
}

// Apply stably sorts the mounts in place.
func (s Sort) Apply(mounts []*mount.Mount) {
	sort.SliceStable(mounts, func(i, j int) bool {
		c := s.Col.Compare(mounts[i], mounts[j])
		if s.Order == cols.Desc {
			return c > 0
		}
		return c < 0
	})
}
