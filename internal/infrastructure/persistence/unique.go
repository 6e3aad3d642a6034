package persistence

import (
	"errors"
	"strings"

	"github.com/ims/backend/internal/domain/shared"
	"github.com/ims/backend/internal/infrastructure/persistence/models"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
)

// pgUniqueViolation is the PostgreSQL SQLSTATE for unique_violation
const pgUniqueViolation = "23505"

// uniqueFields maps unique index names and table.column pairs to the
// request field that supplied the conflicting value.
var uniqueFields = map[string]string{
	models.IndexProductSKU:     "sku",
	models.IndexProductBarcode: "barcode",
	models.IndexCategoryName:   "name",
	models.IndexCategorySlug:   "name",
	models.IndexProfileEmail:   "email",
	"products.sku":             "sku",
	"products.barcode":         "barcode",
	"categories.name":          "name",
	"categories.slug":          "name",
	"profiles.email":           "email",
}

// translateWriteError turns a unique violation from PostgreSQL (pgx or
// lib/pq) or SQLite into a *shared.UniqueViolationError naming the field.
// Any other error is returned unchanged.
func translateWriteError(err error) error {
	if err == nil {
		return nil
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		return shared.NewUniqueViolationError(fieldForConstraint(pgErr.ConstraintName, pgErr.TableName, pgErr.ColumnName), err)
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) && string(pqErr.Code) == pgUniqueViolation {
		return shared.NewUniqueViolationError(fieldForConstraint(pqErr.Constraint, pqErr.Table, pqErr.Column), err)
	}

	// SQLite: "UNIQUE constraint failed: products.sku"
	const sqlitePrefix = "UNIQUE constraint failed: "
	if msg := err.Error(); strings.Contains(msg, sqlitePrefix) {
		target := msg[strings.Index(msg, sqlitePrefix)+len(sqlitePrefix):]
		// composite indexes list several columns; the first one names the field
		target, _, _ = strings.Cut(target, ",")
		return shared.NewUniqueViolationError(uniqueFields[strings.TrimSpace(target)], err)
	}

	return err
}

func fieldForConstraint(constraint, table, column string) string {
	if field, ok := uniqueFields[constraint]; ok {
		return field
	}
	if table != "" && column != "" {
		if field, ok := uniqueFields[table+"."+column]; ok {
			return field
		}
	}
	return column
}
