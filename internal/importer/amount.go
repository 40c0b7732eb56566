package importer

import (
	"strings"

	"github.com/shopspring/decimal"
)

// parseNumber parses an amount written in the given notation.
// European examples: "1.234,56" -> 1234.56, "-588,74" -> -588.74.
func parseNumber(style numberStyle, s string) (decimal.Decimal, error) {
	clean := strings.ReplaceAll(s, " ", "")

	if style == numberEuropean {
		clean = strings.ReplaceAll(clean, ".", "")
		clean = strings.ReplaceAll(clean, ",", ".")
	}

	return decimal.NewFromString(clean)
}
