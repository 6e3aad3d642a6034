package persistence

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSortSpecClause(t *testing.T) {
	cases := map[string]struct {
		orderBy, orderDir string
		want              string
	}{
		"defaults":               {"", "", "name ASC"},
		"listed column":          {"price", "desc", "price DESC"},
		"padded input":           {"  sku ", " asc ", "sku ASC"},
		"unknown column":         {"password_hash", "DESC", "name DESC"},
		"injection in column":    {"name; DROP TABLE products;--", "", "name ASC"},
		"injection in direction": {"sku", "ASC; DROP TABLE products", "sku ASC"},
		"column is case exact":   {"NAME", "", "name ASC"},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tc.want, productSort.clause(tc.orderBy, tc.orderDir))
		})
	}
}

func TestSortSpecDefaultsDiffer(t *testing.T) {
	assert.Equal(t, "created_at DESC", transactionSort.clause("", ""))
	assert.Equal(t, "full_name ASC", profileSort.clause("", ""))
	assert.Equal(t, "email DESC", supplierSort.clause("email", "desc"))
}
