package ez

import (
	"math"
	"net/url"
	"sort"
	"strconv"

	"taskboard/internal/domain"
)

// Filter maps one allowed query key to an equality predicate on Column.
// Values are not checked; one outside a column's domain matches nothing.
type Filter struct {
	Column string
}

// ListSpec is the whitelist for one listing endpoint. Any query key that is
// not a filter, page, limit or (when Sorts is set) sortBy/sortOrder is rejected.
type ListSpec struct {
	Filters      map[string]Filter
	Sorts        map[string]string // sortBy value -> column
	DefaultSort  string
	DefaultLimit int
	MaxLimit     int
}

func atoiDefault(s string, def int) int {
	if v, err := strconv.Atoi(s); err == nil && v > 0 {
		return v
	}
	return def
}

func (s ListSpec) reserved(key string) bool {
	switch key {
	case "page", "limit":
		return true
	case "sortBy", "sortOrder":
		return s.Sorts != nil
	}
	return false
}

// Parse checks values against the whitelist and builds the repository query.
func (s ListSpec) Parse(values url.Values) (domain.ListQuery, error) {
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if _, ok := s.Filters[k]; !ok && !s.reserved(k) {
			return domain.ListQuery{}, domain.Validation("Bad Request", "Query "+k+" is not allowed")
		}
	}

	q := domain.ListQuery{Filters: map[string]string{}}
	for _, k := range keys {
		f, ok := s.Filters[k]
		if !ok {
			continue
		}
		v := values.Get(k)
		if v == "" {
			continue
		}
		q.Filters[f.Column] = v
	}

	if s.Sorts != nil {
		sortBy := values.Get("sortBy")
		if sortBy == "" {
			sortBy = s.DefaultSort
		}
		col, ok := s.Sorts[sortBy]
		if !ok {
			return domain.ListQuery{}, domain.Validation("Bad Request", "Sort by "+sortBy+" is not allowed")
		}
		q.OrderBy = col
		switch order := values.Get("sortOrder"); order {
		case "", "1":
		case "-1":
			q.Desc = true
		default:
			return domain.ListQuery{}, domain.Validation("Bad Request", "Sort order "+order+" is not allowed")
		}
	}

	def := s.DefaultLimit
	if def <= 0 {
		def = 5
	}
	page := atoiDefault(values.Get("page"), 1)
	limit := atoiDefault(values.Get("limit"), def)
	if s.MaxLimit > 0 && limit > s.MaxLimit {
		limit = s.MaxLimit
	}
	// past the last representable page; the offset still lands beyond any row
	if maxPage := math.MaxInt / limit; page > maxPage {
		page = maxPage
	}
	q.Limit = limit
	q.Offset = (page - 1) * limit
	return q, nil
}
