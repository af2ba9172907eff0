package fetcher

import (
	"strconv"
	"strings"
)

var dollarCleaner = strings.NewReplacer(
	",", "",
	"$", "",
	"−", "-", // unicode minus
	"–", "-", // en dash
)

// ParseDollar parses a dollar string like "$1,234" or "$28.89" to a float.
// Returns false for empty cells and placeholders.
func ParseDollar(text string) (float64, bool) {
	s := strings.TrimSpace(dollarCleaner.Replace(text))
	if s == "" || s == "-" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
