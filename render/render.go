// Package render draws scrape results, the session history and its price
// trend as terminal text.
package render

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/guptarohit/asciigraph"
	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/aluiziolira/go-scrape-product/models"
	"github.com/aluiziolira/go-scrape-product/parser"
)

const (
	ratingScale = 5
	barWidth    = 20
)

// Welcome prints the banner shown before the session starts.
func Welcome(w io.Writer) {
	fmt.Fprintln(w, "🛒 Amazon Product Scraper")
	fmt.Fprintln(w, "Scrape product details with ease. Enter a product URL to get started!")
}

// Details prints the fields of one result.
func Details(w io.Writer, r models.ExtractionResult) {
	fmt.Fprintln(w, "### Product Details")
	if r.Available(models.FieldImageURL) {
		fmt.Fprintf(w, "Image:   %s\n", r.ImageURL)
	}
	fmt.Fprintf(w, "Product: %s\n", r.Product)
	fmt.Fprintf(w, "Price:   %s\n", r.Price)
	fmt.Fprintf(w, "Rating:  %s\n", r.Rating)
	fmt.Fprintf(w, "Reviews: %s\n", r.Reviews)
}

// Rating draws a horizontal bar for the rating out of 5, or a warning when
// the rating is missing or has no number.
func Rating(w io.Writer, raw string) {
	if raw == models.Unavailable || raw == "" {
		fmt.Fprintln(w, "⚠️ No rating data available for visualization.")
		return
	}
	rating, ok := parser.NormalizeRating(raw)
	if !ok {
		fmt.Fprintln(w, "⚠️ Unable to extract rating value.")
		return
	}

	filled := int(rating / ratingScale * barWidth)
	filled = max(0, min(filled, barWidth))
	fmt.Fprintf(w, "Rating %s%s %s/%d\n",
		strings.Repeat("█", filled),
		strings.Repeat("░", barWidth-filled),
		strconv.FormatFloat(rating, 'f', -1, 64),
		ratingScale,
	)
}

// HistoryTable prints every history entry with its normalized price.
func HistoryTable(w io.Writer, entries []models.HistoryEntry) {
	if len(entries) == 0 {
		return
	}
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.AppendHeader(table.Row{"#", "Product", "Price", "Rating", "Reviews", "Image URL"})
	for i, e := range entries {
		t.AppendRow(table.Row{i + 1, e.Product, formatPrice(e.PriceValue), e.Rating, e.Reviews, e.ImageURL})
	}
	t.SetStyle(table.StyleRounded)
	t.Render()
}

// PriceTrend plots the trend points in order, or warns when there are none.
func PriceTrend(w io.Writer, points []models.TrendPoint) {
	if len(points) == 0 {
		fmt.Fprintln(w, "⚠️ No valid price data available for visualization.")
		return
	}

	values := make([]float64, 0, len(points))
	for _, p := range points {
		values = append(values, p.Price)
	}
	// a single point is drawn as a flat line
	if len(values) == 1 {
		values = append(values, values[0])
	}

	fmt.Fprintln(w, asciigraph.Plot(values,
		asciigraph.Height(10),
		asciigraph.Precision(2),
		asciigraph.Caption("Price Trends of Scraped Products ($)"),
	))
	for i, p := range points {
		fmt.Fprintf(w, "  %d. %s: %s\n", i+1, p.Product, strconv.FormatFloat(p.Price, 'f', 2, 64))
	}
}

func formatPrice(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', 2, 64)
}
