// Package i18n formats quantities and money for emails and report files.
package i18n

import (
	"fmt"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// Formatter renders numbers with locale grouping and amounts in one currency
type Formatter struct {
	tag     language.Tag
	printer *message.Printer
	unit    currency.Unit
}

// NewFormatter parses a BCP 47 locale such as "id-ID" and an ISO 4217 code
// such as "IDR".
func NewFormatter(locale, currencyCode string) (*Formatter, error) {
	tag, err := language.Parse(locale)
	if err != nil {
		return nil, fmt.Errorf("invalid locale %q: %w", locale, err)
	}
	unit, err := currency.ParseISO(currencyCode)
	if err != nil {
		return nil, fmt.Errorf("invalid currency %q: %w", currencyCode, err)
	}
	return &Formatter{tag: tag, printer: message.NewPrinter(tag), unit: unit}, nil
}

// Default formats in English with US dollars
func Default() *Formatter {
	return &Formatter{
		tag:     language.English,
		printer: message.NewPrinter(language.English),
		unit:    currency.USD,
	}
}

// Number groups thousands the way the locale does
func (f *Formatter) Number(n int64) string {
	return f.printer.Sprintf("%d", n)
}

// Money prints the ISO code and the amount at the currency's standard scale
func (f *Formatter) Money(d decimal.Decimal) string {
	scale, _ := currency.Standard.Rounding(f.unit)
	return f.unit.String() + " " + f.printer.Sprint(number.Decimal(d.InexactFloat64(), number.Scale(scale)))
}

// Locale returns the parsed language tag
func (f *Formatter) Locale() string {
	return f.tag.String()
}
