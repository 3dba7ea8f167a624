package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/aluiziolira/go-scrape-product/config"
	"github.com/aluiziolira/go-scrape-product/export"
	"github.com/aluiziolira/go-scrape-product/fetch"
	"github.com/aluiziolira/go-scrape-product/metrics"
	"github.com/aluiziolira/go-scrape-product/render"
	"github.com/aluiziolira/go-scrape-product/scraper"
	"github.com/aluiziolira/go-scrape-product/session"
)

func main() {
	configPath := flag.String("config", "", "Path to a YAML config file")
	renderer := flag.String("renderer", "", "Page renderer: static, chrome, or rod")
	timeout := flag.Duration("timeout", 0, "Time budget for loading one page")
	renderWait := flag.Duration("render-wait", 0, "Wait after page load for dynamic content")
	maxRetries := flag.Int("max-retries", 0, "Maximum retry attempts per URL")
	browserPath := flag.String("browser", "", "Path to the Chrome/Chromium binary")
	headless := flag.Bool("headless", true, "Run the browser headless")
	exportFile := flag.String("export", "", "Write the session history to this file on exit")
	exportFormat := flag.String("format", "", "Export format: csv, json, or dual (writes <name>.csv and <name>.json)")
	metricsAddr := flag.String("metrics-addr", "", "Prometheus metrics listen address (e.g. :9090)")
	verbose := flag.Bool("v", false, "Enable verbose logging")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s [flags] [product-url ...]\n\n", os.Args[0])
		fmt.Fprintln(flag.CommandLine.Output(), "With no URLs an interactive session starts on stdin.")
		flag.PrintDefaults()
	}
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "renderer":
			cfg.Renderer = strings.ToLower(*renderer)
		case "timeout":
			cfg.Timeout = *timeout
		case "render-wait":
			cfg.RenderWait = *renderWait
		case "max-retries":
			cfg.MaxRetries = *maxRetries
		case "browser":
			cfg.BrowserPath = *browserPath
		case "headless":
			cfg.Headless = *headless
		case "export":
			cfg.ExportFile = *exportFile
		case "format":
			cfg.ExportFormat = strings.ToLower(*exportFormat)
		case "metrics-addr":
			cfg.MetricsAddr = *metricsAddr
		case "v":
			cfg.Verbose = *verbose
		}
	})

	logger, level := newLogger(cfg.Verbose)
	slog.SetDefault(logger)
	slog.SetLogLoggerLevel(level.Level())

	if err := cfg.Validate(); err != nil {
		slog.Error("invalid configuration", slog.Any("error", err))
		os.Exit(1)
	}

	m := metrics.New()
	fetcher, err := fetch.New(cfg, m)
	if err != nil {
		slog.Error("initialising fetcher", slog.Any("error", err))
		os.Exit(1)
	}
	s := scraper.NewScraper(fetcher, m)
	state := session.New(cfg.PriceCacheSize, m)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var metricsServer *http.Server
	if cfg.MetricsAddr != "" {
		metricsServer = &http.Server{
			Addr:    cfg.MetricsAddr,
			Handler: promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{}),
		}
		go func() {
			if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				slog.Error("metrics server failed", slog.Any("error", err))
			}
		}()
		slog.Info("metrics server enabled", slog.String("addr", cfg.MetricsAddr))
	}

	slog.Debug("session starting",
		slog.String("renderer", cfg.Renderer),
		slog.Duration("timeout", cfg.Timeout),
		slog.Duration("render_wait", cfg.RenderWait),
	)

	if urls := flag.Args(); len(urls) > 0 {
		state.Start()
		for _, u := range urls {
			if ctx.Err() != nil {
				break
			}
			scrapeAndShow(ctx, os.Stdout, state, s, u)
		}
	} else {
		runInteractive(ctx, os.Stdin, os.Stdout, state, s)
	}

	if cfg.ExportFile != "" {
		if err := exportHistory(cfg, state); err != nil {
			slog.Error("export failed", slog.Any("error", err))
		}
	}

	if metricsServer != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := metricsServer.Shutdown(shutdownCtx); err != nil {
			slog.Error("metrics server shutdown failed", slog.Any("error", err))
		}
		cancel()
	}
}

func runInteractive(ctx context.Context, in io.Reader, out io.Writer, state *session.State, s session.Scraper) {
	lines := scanLines(ctx, in)

	next := func() (string, bool) {
		select {
		case <-ctx.Done():
			return "", false
		case line, ok := <-lines:
			return strings.TrimSpace(line), ok
		}
	}

	for !state.Started {
		render.Welcome(out)
		fmt.Fprint(out, "Press Enter to get started (or type quit): ")
		line, ok := next()
		if !ok || isQuit(line) {
			return
		}
		state.Start()
	}

	fmt.Fprintln(out, "\n### Enter the Amazon product URL to scrape details")
	fmt.Fprintln(out, "Commands: history, trend, quit")
	for {
		fmt.Fprint(out, "Product URL> ")
		line, ok := next()
		if !ok {
			fmt.Fprintln(out)
			return
		}
		switch {
		case line == "":
			continue
		case isQuit(line):
			return
		case line == "history":
			showHistory(out, state)
		case line == "trend":
			render.PriceTrend(out, state.History.PriceTrend())
		default:
			scrapeAndShow(ctx, out, state, s, line)
		}
	}
}

func scrapeAndShow(ctx context.Context, out io.Writer, state *session.State, s session.Scraper, url string) {
	fmt.Fprintln(out, "Scraping product details... Please wait ⏳")
	result, err := state.Submit(ctx, s, url)
	if err != nil {
		fmt.Fprintf(out, "❌ An error occurred: %v\n", err)
		return
	}

	fmt.Fprintln(out, "✅ Product details scraped successfully!")
	render.Details(out, result)
	fmt.Fprintln(out, "---")
	fmt.Fprintln(out, "### Graphical Visualization")
	render.Rating(out, result.Rating)
	showHistory(out, state)
}

func showHistory(out io.Writer, state *session.State) {
	if state.History.Len() == 0 {
		fmt.Fprintln(out, "No products scraped yet.")
		return
	}
	fmt.Fprintln(out, "---")
	fmt.Fprintln(out, "### Scraping History")
	render.HistoryTable(out, state.History.AsTable())
	fmt.Fprintln(out, "### Price Trends")
	render.PriceTrend(out, state.History.PriceTrend())
}

// scanLines feeds lines from in until EOF or until ctx is done.
func scanLines(ctx context.Context, in io.Reader) <-chan string {
	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
	}()
	return lines
}

func exportHistory(cfg *config.Config, state *session.State) error {
	if state.History.Len() == 0 {
		slog.Info("history empty, nothing to export")
		return nil
	}
	writer, err := export.New(cfg.ExportFormat, cfg.ExportFile)
	if err != nil {
		return fmt.Errorf("create writer: %w", err)
	}
	if err := writer.Write(state.History.AsTable()); err != nil {
		writer.Close()
		return fmt.Errorf("write history: %w", err)
	}
	if err := writer.Validate(); err != nil {
		writer.Close()
		return fmt.Errorf("validate export: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("close writer: %w", err)
	}
	slog.Info("history exported",
		slog.String("file", cfg.ExportFile),
		slog.String("format", cfg.ExportFormat),
		slog.Int("entries", state.History.Len()),
	)
	return nil
}

func isQuit(line string) bool {
	return line == "quit" || line == "exit" || line == "q"
}

func newLogger(verbose bool) (*slog.Logger, *slog.LevelVar) {
	level := &slog.LevelVar{}
	if verbose {
		level.Set(slog.LevelDebug)
	} else {
		level.Set(slog.LevelInfo)
	}

	// stdout belongs to the interactive session
	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if isTerminal(os.Stderr) {
		handler = slog.NewTextHandler(os.Stderr, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	}

	return slog.New(handler), level
}

func isTerminal(f *os.File) bool {
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return (info.Mode() & os.ModeCharDevice) != 0
}
