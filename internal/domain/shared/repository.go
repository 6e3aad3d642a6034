package shared

// Filter narrows and pages a list query. Filters holds equality matches on
// columns the repository recognises; unknown keys are ignored.
type Filter struct {
	Page     int
	PageSize int
	OrderBy  string
	OrderDir string
	Search   string
	Filters  map[string]any
}

// Page size bounds applied by Limit
const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// DefaultFilter is the first page, newest first
func DefaultFilter() Filter {
	return Filter{
		Page:     1,
		PageSize: DefaultPageSize,
		OrderBy:  "created_at",
		OrderDir: "desc",
		Filters:  map[string]any{},
	}
}

// Limit clamps PageSize into [1, MaxPageSize], using DefaultPageSize when unset
func (f Filter) Limit() int {
	switch {
	case f.PageSize <= 0:
		return DefaultPageSize
	case f.PageSize > MaxPageSize:
		return MaxPageSize
	}
	return f.PageSize
}

// Offset is the number of rows before the current page
func (f Filter) Offset() int {
	if f.Page <= 1 {
		return 0
	}
	return (f.Page - 1) * f.Limit()
}

