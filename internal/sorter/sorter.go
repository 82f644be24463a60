// Package sorter reorders object members by key, value type or value content.
package sorter

import (
	"fmt"
	"sort"
	"strings"

	"github.com/mcncl/jsonkit/internal/errors"
	"github.com/mcncl/jsonkit/internal/formatter"
	"github.com/mcncl/jsonkit/internal/models"
)

// Order is the sort direction.
type Order int

const (
	Ascending Order = iota
	Descending
)

func (o Order) String() string {
	if o == Descending {
		return "desc"
	}
	return "asc"
}

// SortBy selects what members are compared on.
type SortBy int

const (
	ByKey SortBy = iota
	ByType
	ByValue
)

func (s SortBy) String() string {
	switch s {
	case ByType:
		return "type"
	case ByValue:
		return "value"
	}
	return "key"
}

// ParseOrder accepts "asc"/"ascending" and "desc"/"descending".
func ParseOrder(s string) (Order, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "asc", "ascending", "":
		return Ascending, nil
	case "desc", "descending":
		return Descending, nil
	}
	return Ascending, fmt.Errorf("%w: unknown sort order %q", errors.ErrInvalidOption, s)
}

// ParseSortBy accepts "key", "type" and "value".
func ParseSortBy(s string) (SortBy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "key", "":
		return ByKey, nil
	case "type":
		return ByType, nil
	case "value":
		return ByValue, nil
	}
	return ByKey, fmt.Errorf("%w: unknown sort field %q", errors.ErrInvalidOption, s)
}

// typeRank orders kinds null < bool < number < string < array < object.
var typeRank = map[models.Kind]int{
	models.KindNull:   0,
	models.KindBool:   1,
	models.KindNumber: 2,
	models.KindString: 3,
	models.KindArray:  4,
	models.KindObject: 5,
}

// Sorter reorders object members recursively. Arrays keep their order.
type Sorter struct {
	order Order
	by    SortBy
}

// NewSorter creates a Sorter.
func NewSorter(order Order, by SortBy) *Sorter {
	return &Sorter{order: order, by: by}
}

// Sort returns a copy of v with every object's members reordered.
// The sort is stable: members that compare equal keep their relative order.
func (s *Sorter) Sort(v models.Value) models.Value {
	switch v.Kind {
	case models.KindArray:
		items := make([]models.Value, len(v.Items))
		for i, item := range v.Items {
			items[i] = s.Sort(item)
		}
		return models.NewArray(items...)
	case models.KindObject:
		members := make([]models.Member, len(v.Members))
		for i, m := range v.Members {
			members[i] = models.Member{Key: m.Key, Value: s.Sort(m.Value)}
		}
		s.sortMembers(members)
		return models.Value{Kind: models.KindObject, Members: members}
	}
	return v
}

func (s *Sorter) sortMembers(members []models.Member) {
	// Children are already sorted, so value renderings are stable.
	var keys []string
	if s.by == ByValue {
		keys = make([]string, len(members))
		for i, m := range members {
			keys[i] = renderForComparison(m.Value)
		}
	}
	idx := make([]int, len(members))
	for i := range idx {
		idx[i] = i
	}

	sort.SliceStable(idx, func(a, b int) bool {
		c := s.compare(members[idx[a]], members[idx[b]], keys, idx[a], idx[b])
		if s.order == Descending {
			return c > 0
		}
		return c < 0
	})

	sorted := make([]models.Member, len(members))
	for i, j := range idx {
		sorted[i] = members[j]
	}
	copy(members, sorted)
}

func (s *Sorter) compare(a, b models.Member, keys []string, ia, ib int) int {
	switch s.by {
	case ByType:
		return typeRank[a.Value.Kind] - typeRank[b.Value.Kind]
	case ByValue:
		return strings.Compare(keys[ia], keys[ib])
	}
	return strings.Compare(a.Key, b.Key)
}

// renderForComparison is the canonical text a value sorts by: string content,
// number literal, keyword, or minified JSON for containers.
func renderForComparison(v models.Value) string {
	switch v.Kind {
	case models.KindString:
		return v.Str
	case models.KindNumber:
		return v.NumberText()
	case models.KindBool:
		if v.Bool {
			return "true"
		}
		return "false"
	case models.KindNull:
		return "null"
	}
	return formatter.Minify(v)
}
