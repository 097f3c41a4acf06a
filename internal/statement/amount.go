package statement

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// ParseBrazilianDecimal parses an amount written with Brazilian separators
// ("1.234,56"). Currency symbols and other noise are stripped first, then
// thousands dots removed, then the decimal comma converted.
func ParseBrazilianDecimal(s string) (decimal.Decimal, error) {
	cleaned := strings.Map(func(r rune) rune {
		switch {
		case r >= '0' && r <= '9':
			return r
		case r == ',' || r == '.' || r == '-':
			return r
		default:
			return -1
		}
	}, s)

	cleaned = strings.ReplaceAll(cleaned, ".", "")
	cleaned = strings.ReplaceAll(cleaned, ",", ".")

	if cleaned == "" || cleaned == "-" {
		return decimal.Zero, fmt.Errorf("no digits in amount %q", s)
	}

	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero, fmt.Errorf("parsing amount %q: %w", s, err)
	}
	return d, nil
}
