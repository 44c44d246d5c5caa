package filters

import (
	"errors"
	"strings"
)

const (
	AscSort  = "ASC"
	DescSort = "DESC"

	DefaultLimit = 10
	MaxLimit     = 100
)

// Filters carries limit/offset pagination and a sort expression for list
// queries. Sort values use an optional leading "-" for descending order and
// must match the safelist, which is validated on the request payload before
// the query is built.
type Filters struct {
	Limit        int
	Offset       int
	Sort         string
	SortSafelist []string
}

func (f *Filters) SortColumn() string {
	s := strings.TrimPrefix(f.Sort, "-")
	for _, safeValue := range f.SortSafelist {
		if strings.EqualFold(s, safeValue) {
			return s
		}
	}
	panic(errors.New("unknown sort column: " + f.Sort))
}

func (f *Filters) SortDirection() string {
	if strings.HasPrefix(f.Sort, "-") {
		return DescSort
	}
	return AscSort
}

// Normalize clamps pagination to sane bounds and applies the default sort.
func (f *Filters) Normalize(defaultSort string) {
	if f.Limit <= 0 {
		f.Limit = DefaultLimit
	}
	if f.Limit > MaxLimit {
		f.Limit = MaxLimit
	}
	if f.Offset < 0 {
		f.Offset = 0
	}
	if f.Sort == "" {
		f.Sort = defaultSort
	}
}
