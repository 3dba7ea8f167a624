// Package extractor pulls raw product fields out of a rendered document by
// trying each field's locator strategies in priority order.
package extractor

import (
	"log/slog"
	"strings"

	"github.com/aluiziolira/go-scrape-product/models"
)

// Document is a rendered page that can be queried for elements.
type Document interface {
	FindFirst(kind LocatorKind, value string) (Element, bool)
}

// Element is a single node of a Document.
type Element interface {
	Text() string
	Attribute(name string) (string, bool)
}

// Extract reads every field from doc. A missing field becomes
// models.Unavailable and never stops the remaining fields.
func Extract(doc Document, url string) models.ExtractionResult {
	result := models.NewExtractionResult(url)
	for _, f := range models.Fields {
		result = result.With(f, ExtractField(doc, f))
	}
	return result
}

// ExtractField returns the first non-empty value produced by the strategies
// for f, or models.Unavailable.
func ExtractField(doc Document, f models.Field) string {
	strategies := FieldStrategies[f]
	for _, s := range strategies {
		if value, ok := apply(doc, s); ok {
			return value
		}
	}
	slog.Debug("field unavailable",
		slog.String("field", string(f)),
		slog.Int("strategies", len(strategies)),
	)
	return models.Unavailable
}

func apply(doc Document, s Strategy) (string, bool) {
	el, ok := doc.FindFirst(s.Kind, s.Value)
	if !ok {
		return "", false
	}

	var value string
	if s.Attr == "" {
		value = el.Text()
	} else {
		attr, ok := el.Attribute(s.Attr)
		if !ok {
			return "", false
		}
		value = attr
	}

	value = strings.TrimSpace(value)
	if value == "" {
		return "", false
	}
	return value, true
}
