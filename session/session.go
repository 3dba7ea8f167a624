// Package session holds the state of one interactive scraping session.
// Nothing here is global: the caller owns the State and passes it around.
package session

import (
	"context"

	"github.com/aluiziolira/go-scrape-product/history"
	"github.com/aluiziolira/go-scrape-product/metrics"
	"github.com/aluiziolira/go-scrape-product/models"
)

// Scraper produces one ExtractionResult per URL.
type Scraper interface {
	ScrapeOnce(ctx context.Context, url string) (models.ExtractionResult, error)
}

// State is the per-session state: whether the user has moved past the
// welcome screen, and the history of every successful scrape.
type State struct {
	Started bool
	History *history.History

	metrics *metrics.Metrics
}

// New returns a fresh session. m may be nil.
func New(priceCacheSize int, m *metrics.Metrics) *State {
	return &State{
		History: history.New(priceCacheSize),
		metrics: m,
	}
}

// Start marks the welcome screen as dismissed.
func (s *State) Start() {
	s.Started = true
}

// Submit scrapes url and appends the result to the history. On error the
// history is left untouched.
func (s *State) Submit(ctx context.Context, scraper Scraper, url string) (models.ExtractionResult, error) {
	result, err := scraper.ScrapeOnce(ctx, url)
	if err != nil {
		return models.ExtractionResult{}, err
	}
	s.History.Append(result)
	s.metrics.SetHistorySize(s.History.Len())
	return result, nil
}
