// Package parser turns raw scraped text into numeric values.
package parser

import (
	"errors"
	"regexp"
	"strconv"
	"strings"

	"github.com/aluiziolira/go-scrape-product/models"
)

// ErrNothingExtracted is returned by ValidateResult when no field was found.
var ErrNothingExtracted = errors.New("no field could be extracted")

var (
	nonPriceChars = regexp.MustCompile(`[^0-9.]`)
	ratingNumber  = regexp.MustCompile(`\d+(?:\.\d+)?`)
)

// ValidateResult reports a result whose every field is unavailable, which
// usually means the page was a captcha or a layout we do not know.
func ValidateResult(r models.ExtractionResult) error {
	for _, f := range models.Fields {
		if r.Available(f) {
			return nil
		}
	}
	return ErrNothingExtracted
}

// NormalizePrice strips everything but digits and decimal points and parses
// the remainder. Separate numeric groups are concatenated before parsing, so
// "$10 - $15" yields 1015.
func NormalizePrice(raw string) (float64, bool) {
	if raw == models.Unavailable || raw == "" {
		return 0, false
	}
	digits := nonPriceChars.ReplaceAllString(raw, "")
	value, err := strconv.ParseFloat(digits, 64)
	if err != nil {
		return 0, false
	}
	return value, true
}

// NormalizeRating parses the first number in raw, e.g. 4.5 in
// "4.5 out of 5 stars". Values are not clamped to [0,5].
func NormalizeRating(raw string) (float64, bool) {
	if raw == models.Unavailable || raw == "" {
		return 0, false
	}
	match := ratingNumber.FindString(raw)
	if match == "" {
		return 0, false
	}
	value, err := strconv.ParseFloat(match, 64)
	if err != nil {
		return 0, false
	}
	return value, true
}

// CleanText trims s and collapses internal runs of whitespace.
func CleanText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
