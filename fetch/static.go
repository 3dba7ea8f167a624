package fetch

import (
	"bytes"
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gocolly/colly/v2"

	"github.com/aluiziolira/go-scrape-product/config"
	"github.com/aluiziolira/go-scrape-product/extractor"
	"github.com/aluiziolira/go-scrape-product/metrics"
)

// StaticFetcher downloads pages without running scripts. It suits pages
// whose product markup is server rendered.
type StaticFetcher struct {
	collector *colly.Collector
	retry     retrier
}

// NewStaticFetcher builds a synchronous colly collector from cfg.
func NewStaticFetcher(cfg *config.Config, m *metrics.Metrics) (*StaticFetcher, error) {
	collector := colly.NewCollector(
		colly.UserAgent(cfg.UserAgent),
		colly.AllowURLRevisit(),
	)

	collector.SetRequestTimeout(cfg.Timeout)
	collector.IgnoreRobotsTxt = true
	collector.WithTransport(&http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   cfg.Timeout,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:        10,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
	})

	return &StaticFetcher{
		collector: collector,
		retry:     newRetrier(config.RendererStatic, cfg, m),
	}, nil
}

// Fetch downloads url and parses it.
func (f *StaticFetcher) Fetch(ctx context.Context, url string) (extractor.Document, error) {
	return f.retry.do(ctx, url, f.fetchOnce)
}

func (f *StaticFetcher) fetchOnce(ctx context.Context, url string) (extractor.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, contextError(err)
	}

	// A clone shares the transport but not the callbacks, so each fetch
	// captures its own response.
	c := f.collector.Clone()

	var body []byte
	statusCode := 0
	c.OnResponse(func(r *colly.Response) {
		statusCode = r.StatusCode
		body = r.Body
	})
	c.OnError(func(r *colly.Response, err error) {
		if r != nil {
			statusCode = r.StatusCode
		}
	})

	if err := c.Visit(url); err != nil {
		return nil, classifyError(err, statusCode)
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, ErrEmptyDocument
	}

	doc, err := extractor.NewHTMLDocument(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("status %d: %w", statusCode, err)
	}
	return doc, nil
}

// WithTransport replaces the HTTP transport, e.g. to route through a proxy.
func (f *StaticFetcher) WithTransport(rt http.RoundTripper) {
	f.collector.WithTransport(rt)
}
