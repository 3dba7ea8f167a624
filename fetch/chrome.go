package fetch

import (
	"context"
	"log/slog"
	"strings"

	"github.com/chromedp/cdproto/dom"
	"github.com/chromedp/chromedp"

	"github.com/aluiziolira/go-scrape-product/config"
	"github.com/aluiziolira/go-scrape-product/extractor"
	"github.com/aluiziolira/go-scrape-product/metrics"
)

// ChromeFetcher renders pages in headless Chrome driven over the DevTools
// protocol. Every fetch starts its own browser and kills it on return.
type ChromeFetcher struct {
	cfg   *config.Config
	opts  []chromedp.ExecAllocatorOption
	retry retrier
}

// NewChromeFetcher prepares the browser options; no browser runs until Fetch.
func NewChromeFetcher(cfg *config.Config, m *metrics.Metrics) *ChromeFetcher {
	opts := append(
		chromedp.DefaultExecAllocatorOptions[:],
		chromedp.WindowSize(1920, 1080),
		chromedp.Flag("headless", cfg.Headless),
		chromedp.NoSandbox,
		chromedp.DisableGPU,
		chromedp.Flag("disable-dev-shm-usage", true),
	)
	if cfg.UserAgent != "" {
		opts = append(opts, chromedp.UserAgent(cfg.UserAgent))
	}
	if cfg.BrowserPath != "" {
		opts = append(opts, chromedp.ExecPath(cfg.BrowserPath))
	}
	return &ChromeFetcher{
		cfg:   cfg,
		opts:  opts,
		retry: newRetrier(config.RendererChrome, cfg, m),
	}
}

// Fetch navigates to url, waits for dynamic content and parses the DOM.
func (f *ChromeFetcher) Fetch(ctx context.Context, url string) (extractor.Document, error) {
	return f.retry.do(ctx, url, f.fetchOnce)
}

func (f *ChromeFetcher) fetchOnce(ctx context.Context, url string) (extractor.Document, error) {
	logger := slog.Default().With(slog.String("fetcher", "chrome"), slog.String("url", url))

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, f.opts...)
	defer cancelAlloc()
	tabCtx, cancelTab := chromedp.NewContext(allocCtx)
	defer cancelTab()
	tabCtx, cancelTimeout := context.WithTimeout(tabCtx, f.cfg.Timeout)
	defer cancelTimeout()

	logger.Debug("rendering page", slog.Duration("wait", f.cfg.RenderWait))
	var body string
	err := chromedp.Run(tabCtx,
		chromedp.Navigate(url),
		chromedp.Sleep(f.cfg.RenderWait),
		chromedp.ActionFunc(func(ctx context.Context) error {
			node, err := dom.GetDocument().Do(ctx)
			if err != nil {
				return err
			}
			body, err = dom.GetOuterHTML().WithNodeID(node.NodeID).Do(ctx)
			return err
		}),
	)
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
