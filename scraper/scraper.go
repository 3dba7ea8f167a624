// Package scraper ties a Fetcher to the field extractor: one call turns a
// product URL into an ExtractionResult.
package scraper

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/aluiziolira/go-scrape-product/extractor"
	"github.com/aluiziolira/go-scrape-product/fetch"
	"github.com/aluiziolira/go-scrape-product/metrics"
	"github.com/aluiziolira/go-scrape-product/models"
	"github.com/aluiziolira/go-scrape-product/parser"
)

// Scraper extracts product fields from one page per call.
type Scraper struct {
	fetcher fetch.Fetcher
	Metrics *metrics.Metrics
	now     func() time.Time
}

// NewScraper builds a scraper around f. m may be nil.
func NewScraper(f fetch.Fetcher, m *metrics.Metrics) *Scraper {
	return &Scraper{
		fetcher: f,
		Metrics: m,
		now:     time.Now,
	}
}

// ScrapeOnce fetches rawURL and extracts every field. The only error it
// returns is *fetch.FetchError; missing fields are reported as
// models.Unavailable inside the result.
func (s *Scraper) ScrapeOnce(ctx context.Context, rawURL string) (models.ExtractionResult, error) {
	rawURL = strings.TrimSpace(rawURL)
	if err := validateURL(rawURL); err != nil {
		s.Metrics.IncScrape("invalid_url")
		return models.ExtractionResult{}, &fetch.FetchError{URL: rawURL, Err: err}
	}

	start := s.now()
	doc, err := s.fetcher.Fetch(ctx, rawURL)
	if err != nil {
		s.Metrics.IncScrape("failure")
		var fetchErr *fetch.FetchError
		if !errors.As(err, &fetchErr) {
			fetchErr = &fetch.FetchError{URL: rawURL, Err: err}
		}
		slog.Error("scrape failed",
			slog.String("url", rawURL),
			slog.String("category", fetchErr.Category()),
			slog.Any("error", fetchErr.Err),
		)
		return models.ExtractionResult{}, fetchErr
	}

	result := extractor.Extract(doc, rawURL)
	result.ScrapedAt = s.now()

	missing := 0
	for _, f := range models.Fields {
		if !result.Available(f) {
			missing++
			s.Metrics.IncFieldMissing(string(f))
		}
	}
	if err := parser.ValidateResult(result); err != nil {
		slog.Warn("page yielded no product fields", slog.String("url", rawURL), slog.Any("error", err))
	}

	s.Metrics.IncScrape("success")
	slog.Info("product scraped",
		slog.String("url", rawURL),
		slog.String("product", result.Product),
		slog.String("price", result.Price),
		slog.Int("unavailable_fields", missing),
		slog.Duration("elapsed", result.ScrapedAt.Sub(start)),
	)
	return result, nil
}

func validateURL(rawURL string) error {
	if rawURL == "" {
		return fmt.Errorf("%w: empty", fetch.ErrInvalidURL)
	}
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("%w: %v", fetch.ErrInvalidURL, err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("%w: scheme must be http or https", fetch.ErrInvalidURL)
	}
	if parsed.Host == "" {
		return fmt.Errorf("%w: missing host", fetch.ErrInvalidURL)
	}
	return nil
}
