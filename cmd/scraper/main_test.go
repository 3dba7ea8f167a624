package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/aluiziolira/go-scrape-product/config"
	"github.com/aluiziolira/go-scrape-product/fetch"
	"github.com/aluiziolira/go-scrape-product/models"
	"github.com/aluiziolira/go-scrape-product/session"
)

type stubScraper struct{}

func (stubScraper) ScrapeOnce(ctx context.Context, url string) (models.ExtractionResult, error) {
	if strings.HasSuffix(url, "/down") {
		return models.ExtractionResult{}, &fetch.FetchError{URL: url, Err: fetch.ErrRender{Err: context.DeadlineExceeded}}
	}
	r := models.NewExtractionResult(url)
	r.Product = "Kettle"
	r.Price = "$20.00"
	r.Rating = "4.5 out of 5 stars"
	return r, nil
}

func TestRunInteractive(t *testing.T) {
	in := strings.NewReader("\nhttp://example.test/dp/1\nhttp://example.test/down\nhistory\ntrend\nquit\n")
	var out bytes.Buffer
	state := session.New(8, nil)

	runInteractive(context.Background(), in, &out, state, stubScraper{})

	if !state.Started {
		t.Fatalf("session should be started after welcome")
	}
	if got := state.History.Len(); got != 1 {
		t.Fatalf("history = %d, want 1", got)
	}
	text := out.String()
	for _, want := range []string{"Amazon Product Scraper", "scraped successfully", "An error occurred", "4.5/5", "Scraping History", "1. Kettle: 20.00"} {
		if !strings.Contains(text, want) {
			t.Fatalf("output missing %q:\n%s", want, text)
		}
	}
}

func TestRunInteractiveQuitAtWelcome(t *testing.T) {
	state := session.New(8, nil)
	var out bytes.Buffer
	runInteractive(context.Background(), strings.NewReader("quit\n"), &out, state, stubScraper{})

	if state.Started {
		t.Fatalf("session should not start")
	}
}

// endlessInput never reaches EOF.
type endlessInput struct{}

func (endlessInput) Read(p []byte) (int, error) {
	for i := range p {
		p[i] = "q\n"[i%2]
	}
	return len(p), nil
}

func TestScanLinesStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	lines := scanLines(ctx, endlessInput{})
	if got := <-lines; got != "q" {
		t.Fatalf("first line = %q, want q", got)
	}
	cancel()

	deadline := time.After(2 * time.Second)
	for {
		select {
		case _, ok := <-lines:
			if !ok {
				return
			}
		case <-deadline:
			t.Fatalf("scanner goroutine still sending after cancel")
		}
	}
}

func TestExportHistory(t *testing.T) {
	state := session.New(8, nil)
	if _, err := state.Submit(context.Background(), stubScraper{}, "http://example.test/dp/1"); err != nil {
		t.Fatalf("submit: %v", err)
	}

	cfg := config.DefaultConfig()
	cfg.ExportFile = filepath.Join(t.TempDir(), "history.csv")
	cfg.ExportFormat = "csv"
	if err := exportHistory(cfg, state); err != nil {
		t.Fatalf("export: %v", err)
	}

	data, err := os.ReadFile(cfg.ExportFile)
	if err != nil {
		t.Fatalf("read export: %v", err)
	}
	if !strings.Contains(string(data), "Kettle,$20.00,20") {
		t.Fatalf("unexpected export:\n%s", data)
	}
}
