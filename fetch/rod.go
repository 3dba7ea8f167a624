package fetch

import (
	"context"
	"log/slog"
	"strings"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"

	"github.com/aluiziolira/go-scrape-product/config"
	"github.com/aluiziolira/go-scrape-product/extractor"
	"github.com/aluiziolira/go-scrape-product/metrics"
)

// RodFetcher renders pages with a Chromium launched through go-rod. The
// browser lives for a single fetch.
type RodFetcher struct {
	cfg   *config.Config
	retry retrier
}

// NewRodFetcher returns a fetcher using cfg's browser settings.
func NewRodFetcher(cfg *config.Config, m *metrics.Metrics) *RodFetcher {
	return &RodFetcher{
		cfg:   cfg,
		retry: newRetrier(config.RendererRod, cfg, m),
	}
}

// Fetch navigates to url, waits for dynamic content and parses the DOM.
func (f *RodFetcher) Fetch(ctx context.Context, url string) (extractor.Document, error) {
	return f.retry.do(ctx, url, f.fetchOnce)
}

func (f *RodFetcher) launcher(ctx context.Context) *launcher.Launcher {
	l := launcher.New().
		Context(ctx).
		Headless(f.cfg.Headless).
		NoSandbox(true).
		Leakless(false).
		Set("disable-gpu").
		Set("disable-dev-shm-usage").
		Set("user-agent", f.cfg.UserAgent)
	if f.cfg.BrowserPath != "" {
		l = l.Bin(f.cfg.BrowserPath)
	}
	return l
}

func (f *RodFetcher) fetchOnce(ctx context.Context, url string) (extractor.Document, error) {
	logger := slog.Default().With(slog.String("fetcher", "rod"), slog.String("url", url))

	ctx, cancel := context.WithTimeout(ctx, f.cfg.Timeout)
	defer cancel()

	l := f.launcher(ctx)
	defer l.Cleanup()
	defer l.Kill()

	controlURL, err := l.Launch()
	if err != nil {
		return nil, renderError(err)
	}

	browser := rod.New().ControlURL(controlURL).Context(ctx)
	if err := browser.Connect(); err != nil {
		return nil, renderError(err)
	}
	defer func() {
		if err := browser.Close(); err != nil {
			logger.Debug("close browser", slog.Any("error", err))
		}
	}()

	page, err := browser.Page(proto.TargetCreateTarget{URL: url})
	if err != nil {
		return nil, renderError(err)
	}
	if err := page.WaitLoad(); err != nil {
		return nil, renderError(err)
	}

	logger.Debug("page loaded, waiting for dynamic content", slog.Duration("wait", f.cfg.RenderWait))
	if err := waitRendered(ctx, f.cfg.RenderWait); err != nil {
		return nil, renderError(err)
	}

	body, err := page.HTML()
	if err != nil {
		return nil, renderError(err)
	}
	if strings.TrimSpace(body) == "" {
		return nil, ErrEmptyDocument
	}

	doc, err := extractor.NewHTMLDocument(strings.NewReader(body))
	if err != nil {
		return nil, ErrRender{Err: err}
	}
	return doc, nil
}
