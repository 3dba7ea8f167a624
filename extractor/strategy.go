package extractor

import (
	"fmt"

	"github.com/aluiziolira/go-scrape-product/models"
)

// LocatorKind selects the document query used by a Strategy.
type LocatorKind int

const (
	ByID LocatorKind = iota
	ByCSS
	ByClass
)

func (k LocatorKind) String() string {
	switch k {
	case ByID:
		return "id"
	case ByCSS:
		return "css"
	case ByClass:
		return "class"
	default:
		return fmt.Sprintf("LocatorKind(%d)", int(k))
	}
}

// Strategy describes how to find one field's element and which part of it
// to read. An empty Attr reads the element text.
type Strategy struct {
	Kind  LocatorKind
	Value string
	Attr  string
}

func (s Strategy) String() string {
	if s.Attr == "" {
		return s.Kind.String() + "=" + s.Value
	}
	return s.Kind.String() + "=" + s.Value + "@" + s.Attr
}

// FieldStrategies is ordered most reliable first. Only Price has fallbacks;
// the other fields live in markup that rarely changes.
var FieldStrategies = map[models.Field][]Strategy{
	models.FieldProduct: {
		{Kind: ByID, Value: "productTitle"},
	},
	models.FieldImageURL: {
		{Kind: ByID, Value: "landingImage", Attr: "src"},
	},
	models.FieldRating: {
		{Kind: ByClass, Value: "a-icon-alt", Attr: "innerHTML"},
	},
	models.FieldReviews: {
		{Kind: ByID, Value: "acrCustomerReviewText"},
	},
	models.FieldPrice: {
		{Kind: ByCSS, Value: "span.a-price-whole"},
		{Kind: ByCSS, Value: "span.a-offscreen"},
		{Kind: ByCSS, Value: "span.a-price"},
		{Kind: ByCSS, Value: "span.a-color-price"},
		{Kind: ByCSS, Value: "span.a-size-medium.a-color-price"},
	},
}
