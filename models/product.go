// Package models defines data structures for the scraper.
package models

import "time"

// Unavailable is stored in place of any field that could not be extracted.
const Unavailable = "N/A"

// Field identifies one extractable attribute of a product page.
type Field string

const (
	FieldProduct  Field = "Product"
	FieldPrice    Field = "Price"
	FieldRating   Field = "Rating"
	FieldReviews  Field = "Reviews"
	FieldImageURL Field = "Image URL"
)

// Fields lists every field in display order.
var Fields = []Field{FieldProduct, FieldPrice, FieldRating, FieldReviews, FieldImageURL}

// ExtractionResult holds the raw text scraped from one product page.
// Every field is either real text or Unavailable.
type ExtractionResult struct {
	Product   string    `csv:"product" json:"product"`
	Price     string    `csv:"price" json:"price"`
	Rating    string    `csv:"rating" json:"rating"`
	Reviews   string    `csv:"reviews" json:"reviews"`
	ImageURL  string    `csv:"image_url" json:"image_url"`
	URL       string    `csv:"url" json:"url"`
	ScrapedAt time.Time `csv:"scraped_at" json:"scraped_at"`
}

// NewExtractionResult returns a result with every field set to Unavailable.
func NewExtractionResult(url string) ExtractionResult {
	return ExtractionResult{
		Product:  Unavailable,
		Price:    Unavailable,
		Rating:   Unavailable,
		Reviews:  Unavailable,
		ImageURL: Unavailable,
		URL:      url,
	}
}

// Get returns the raw value of field f.
func (r ExtractionResult) Get(f Field) string {
	switch f {
	case FieldProduct:
		return r.Product
	case FieldPrice:
		return r.Price
	case FieldRating:
		return r.Rating
	case FieldReviews:
		return r.Reviews
	case FieldImageURL:
		return r.ImageURL
	default:
		return Unavailable
	}
}

// With returns a copy of r with field f set to value.
func (r ExtractionResult) With(f Field, value string) ExtractionResult {
	switch f {
	case FieldProduct:
		r.Product = value
	case FieldPrice:
		r.Price = value
	case FieldRating:
		r.Rating = value
	case FieldReviews:
		r.Reviews = value
	case FieldImageURL:
		r.ImageURL = value
	}
	return r
}

// Available reports whether field f holds a real value.
func (r ExtractionResult) Available(f Field) bool {
	return r.Get(f) != Unavailable
}

// HistoryEntry is a stored result augmented with its normalized values.
// A nil pointer means the raw text had no recoverable number.
type HistoryEntry struct {
	ExtractionResult
	PriceValue  *float64 `json:"price_value"`
	RatingValue *float64 `json:"rating_value"`
}

// TrendPoint is one (product, price) pair of the price trend.
type TrendPoint struct {
	Product string  `json:"product"`
	Price   float64 `json:"price"`
}
