package domain

// ListQuery drives default-visibility listings. Filters are column -> value
// equality predicates; is_deleted = false is always added by the repository.
type ListQuery struct {
	Filters map[string]string
	OrderBy string
	Desc    bool
	Offset  int
	Limit   int
}

// BrowseQuery drives operator listings that may include soft-deleted rows.
type BrowseQuery struct {
	Offset      int
	Limit       int
	Q           string
	WithDeleted bool
}
