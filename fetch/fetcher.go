// Package fetch obtains rendered product pages as queryable documents.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/aluiziolira/go-scrape-product/config"
	"github.com/aluiziolira/go-scrape-product/extractor"
	"github.com/aluiziolira/go-scrape-product/metrics"
)

// A Fetcher loads a URL and returns the fully rendered document. Any browser
// or connection it acquires is released before Fetch returns. Failures are
// always *FetchError.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (extractor.Document, error)
}

// New returns the Fetcher selected by cfg.Renderer.
func New(cfg *config.Config, m *metrics.Metrics) (Fetcher, error) {
	switch cfg.Renderer {
	case config.RendererStatic:
		return NewStaticFetcher(cfg, m)
	case config.RendererChrome:
		return NewChromeFetcher(cfg, m), nil
	case config.RendererRod:
		return NewRodFetcher(cfg, m), nil
	default:
		return nil, fmt.Errorf("unsupported renderer: %s", cfg.Renderer)
	}
}

type attemptFunc func(ctx context.Context, url string) (extractor.Document, error)

// retrier runs attempts with capped exponential backoff.
type retrier struct {
	renderer        string
	maxRetries      int
	retryBackoff    time.Duration
	retryBackoffMax time.Duration
	metrics         *metrics.Metrics
}

func newRetrier(renderer string, cfg *config.Config, m *metrics.Metrics) retrier {
	return retrier{
		renderer:        renderer,
		maxRetries:      cfg.MaxRetries,
		retryBackoff:    cfg.RetryBackoff,
		retryBackoffMax: cfg.RetryBackoffMax,
		metrics:         m,
	}
}

func (r retrier) do(ctx context.Context, url string, attempt attemptFunc) (extractor.Document, error) {
	var lastErr error
	for i := 0; i <= r.maxRetries; i++ {
		if i > 0 {
			r.metrics.IncRetries()
			select {
			case <-ctx.Done():
				return nil, &FetchError{URL: url, Err: contextError(errors.Join(ctx.Err(), lastErr))}
			case <-time.After(r.backoff(i)):
			}
		}

		r.metrics.IncFetch(r.renderer)
		start := time.Now()
		doc, err := attempt(ctx, url)
		r.metrics.ObserveDuration(time.Since(start))
		if err == nil {
			return doc, nil
		}

		lastErr = err
		category := errorTypeLabel(err)
		r.metrics.IncError(category)
		slog.Error("fetch attempt failed",
			slog.String("url", url),
			slog.String("renderer", r.renderer),
			slog.Int("attempt", i+1),
			slog.String("category", category),
			slog.Any("error", err),
		)
		if !retryable(err) || errors.Is(err, context.Canceled) {
			break
		}
	}
	return nil, &FetchError{URL: url, Err: lastErr}
}

func (r retrier) backoff(attempt int) time.Duration {
	if attempt <= 0 {
		attempt = 1
	}

	base := r.retryBackoff
	if base <= 0 {
		base = 100 * time.Millisecond
	}

	delay := base * time.Duration(1<<(attempt-1))
	if max := r.retryBackoffMax; max > 0 && delay > max {
		delay = max
	}
	return delay
}

func renderError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return contextError(err)
	}
	return ErrRender{Err: err}
}

// waitRendered pauses for dynamic content after the page has loaded.
func waitRendered(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}
