package persistence

import (
	"slices"
	"strings"
)

// sortSpec whitelists the columns a list query may be ordered by. User input
// never reaches ORDER BY unless it matches a listed column exactly.
type sortSpec struct {
	columns      []string
	defaultField string
	defaultDir   string
}

var (
	productSort = sortSpec{
		columns:      []string{"created_at", "updated_at", "name", "sku", "price", "current_stock", "min_stock_level"},
		defaultField: "name",
		defaultDir:   "ASC",
	}
	supplierSort = sortSpec{
		columns:      []string{"created_at", "name", "contact_person", "email"},
		defaultField: "name",
		defaultDir:   "ASC",
	}
	profileSort = sortSpec{
		columns:      []string{"created_at", "full_name", "email", "role"},
		defaultField: "full_name",
		defaultDir:   "ASC",
	}
	transactionSort = sortSpec{
		columns:      []string{"created_at", "quantity", "type"},
		defaultField: "created_at",
		defaultDir:   "DESC",
	}
)

// clause returns "<column> <ASC|DESC>" for the requested order
func (s sortSpec) clause(orderBy, orderDir string) string {
	field := strings.TrimSpace(orderBy)
	if !slices.Contains(s.columns, field) {
		field = s.defaultField
	}

	dir := s.defaultDir
	switch strings.ToUpper(strings.TrimSpace(orderDir)) {
	case "ASC":
		dir = "ASC"
	case "DESC":
		dir = "DESC"
	}
	return field + " " + dir
}
