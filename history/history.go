// Package history keeps the ordered, append-only record of scrape results
// for one session and derives the tables and trends shown from it.
package history

import (
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/aluiziolira/go-scrape-product/models"
	"github.com/aluiziolira/go-scrape-product/parser"
)

const defaultCacheSize = 256

type normalized struct {
	value float64
	ok    bool
}

// History is not safe for concurrent use; a session has one writer.
type History struct {
	entries []models.ExtractionResult
	prices  *lru.Cache[string, normalized]
}

// New returns an empty history whose price cache holds cacheSize raw strings.
func New(cacheSize int) *History {
	if cacheSize <= 0 {
		cacheSize = defaultCacheSize
	}
	// lru.New only fails for a non-positive size.
	prices, _ := lru.New[string, normalized](cacheSize)
	return &History{prices: prices}
}

// Append adds result to the end of the history.
func (h *History) Append(result models.ExtractionResult) {
	h.entries = append(h.entries, result)
}

// Len returns the number of stored results.
func (h *History) Len() int {
	return len(h.entries)
}

// Entries returns a copy of the stored results in insertion order.
func (h *History) Entries() []models.ExtractionResult {
	out := make([]models.ExtractionResult, len(h.entries))
	copy(out, h.entries)
	return out
}

// AsTable returns every result with its normalized price and rating.
func (h *History) AsTable() []models.HistoryEntry {
	table := make([]models.HistoryEntry, 0, len(h.entries))
	for _, r := range h.entries {
		entry := models.HistoryEntry{ExtractionResult: r}
		if v, ok := h.price(r.Price); ok {
			entry.PriceValue = &v
		}
		if v, ok := parser.NormalizeRating(r.Rating); ok {
			entry.RatingValue = &v
		}
		table = append(table, entry)
	}
	return table
}

// PriceTrend returns (product, price) for each entry with a usable price,
// in insertion order. It is empty, never nil, when no price parses.
func (h *History) PriceTrend() []models.TrendPoint {
	trend := []models.TrendPoint{}
	for _, entry := range h.AsTable() {
		if entry.PriceValue == nil {
			continue
		}
		trend = append(trend, models.TrendPoint{
			Product: entry.Product,
			Price:   *entry.PriceValue,
		})
	}
	return trend
}

func (h *History) price(raw string) (float64, bool) {
	if n, ok := h.prices.Get(raw); ok {
		return n.value, n.ok
	}
	v, ok := parser.NormalizePrice(raw)
	h.prices.Add(raw, normalized{value: v, ok: ok})
	return v, ok
}
