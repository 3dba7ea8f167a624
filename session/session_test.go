package session

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/aluiziolira/go-scrape-product/fetch"
	"github.com/aluiziolira/go-scrape-product/metrics"
	"github.com/aluiziolira/go-scrape-product/models"
)

type stubScraper struct {
	results map[string]models.ExtractionResult
	calls   int
}

func (s *stubScraper) ScrapeOnce(ctx context.Context, url string) (models.ExtractionResult, error) {
	s.calls++
	r, ok := s.results[url]
	if !ok {
		return models.ExtractionResult{}, &fetch.FetchError{URL: url, Err: fetch.ErrTimeout{Err: context.DeadlineExceeded}}
	}
	return r, nil
}

func TestSubmitAppendsInOrder(t *testing.T) {
	r1 := models.NewExtractionResult("http://example.test/1").With(models.FieldProduct, "One")
	r2 := models.NewExtractionResult("http://example.test/2")
	r3 := models.NewExtractionResult("http://example.test/3").With(models.FieldPrice, "$3.00")
	stub := &stubScraper{results: map[string]models.ExtractionResult{
		r1.URL: r1, r2.URL: r2, r3.URL: r3,
	}}

	m := metrics.New()
	s := New(16, m)
	for _, r := range []models.ExtractionResult{r1, r2, r3} {
		got, err := s.Submit(context.Background(), stub, r.URL)
		if err != nil {
			t.Fatalf("submit %s: %v", r.URL, err)
		}
		if got != r {
			t.Fatalf("submit returned %+v, want %+v", got, r)
		}
	}

	entries := s.History.Entries()
	if len(entries) != 3 || entries[0] != r1 || entries[1] != r2 || entries[2] != r3 {
		t.Fatalf("history = %+v", entries)
	}
	if got := testutil.ToFloat64(m.HistorySize); got != 3 {
		t.Fatalf("history gauge = %v, want 3", got)
	}
}

func TestSubmitFetchErrorLeavesHistoryUnchanged(t *testing.T) {
	ok := models.NewExtractionResult("http://example.test/ok")
	stub := &stubScraper{results: map[string]models.ExtractionResult{ok.URL: ok}}
	s := New(16, nil)

	if _, err := s.Submit(context.Background(), stub, ok.URL); err != nil {
		t.Fatalf("submit: %v", err)
	}
	before := s.History.Entries()

	_, err := s.Submit(context.Background(), stub, "http://example.test/down")
	var fetchErr *fetch.FetchError
	if !errors.As(err, &fetchErr) {
		t.Fatalf("expected *fetch.FetchError, got %v", err)
	}

	after := s.History.Entries()
	if len(after) != len(before) || after[0] != before[0] {
		t.Fatalf("history changed after failed scrape: before=%v after=%v", before, after)
	}
}

func TestStart(t *testing.T) {
	s := New(16, nil)
	if s.Started {
		t.Fatalf("new session should not be started")
	}
	s.Start()
	if !s.Started {
		t.Fatalf("session should be started")
	}
}
