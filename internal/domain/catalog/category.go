package catalog

import (
	"regexp"
	"strings"

	"github.com/ims/backend/internal/domain/shared"
)

// MinCategoryNameLength is the shortest accepted category name
const MinCategoryNameLength = 3

// Category groups products
type Category struct {
	shared.BaseEntity
	Name        string
	Slug        string
	Description string
}

// NewCategory creates a category, deriving its slug from the name
func NewCategory(name, description string) (*Category, error) {
	name = strings.TrimSpace(name)
	if len([]rune(name)) < MinCategoryNameLength {
		return nil, shared.NewValidationError().Add("name", "Name must be at least 3 characters")
	}
	slug := Slugify(name)
	if slug == "" {
		return nil, shared.NewValidationError().Add("name", "Name must contain letters or digits")
	}
	return &Category{
		BaseEntity:  shared.NewBaseEntity(),
		Name:        name,
		Slug:        slug,
		Description: description,
	}, nil
}

var (
	whitespaceRun = regexp.MustCompile(`\s+`)
	nonWordChars  = regexp.MustCompile(`[^\w-]+`)
	dashRun       = regexp.MustCompile(`-{2,}`)
)

// Slugify lower-cases s, turns whitespace into dashes, strips anything that
// is not a word character and collapses repeated dashes.
func Slugify(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = whitespaceRun.ReplaceAllString(s, "-")
	s = nonWordChars.ReplaceAllString(s, "")
	s = dashRun.ReplaceAllString(s, "-")
	return s
}
