package history

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/aluiziolira/go-scrape-product/models"
)

func result(product, price, rating string) models.ExtractionResult {
	r := models.NewExtractionResult("http://example.test/dp/" + product)
	r.Product = product
	r.Price = price
	r.Rating = rating
	r.ScrapedAt = time.Date(2025, 11, 4, 13, 9, 13, 0, time.UTC)
	return r
}

func TestAppendPreservesOrder(t *testing.T) {
	h := New(8)
	r1 := result("Kettle", "$20.00", "4.1 out of 5 stars")
	r2 := result("Toaster", models.Unavailable, models.Unavailable)
	r3 := result("Blender", "Free", "4.8 out of 5 stars")

	h.Append(r1)
	h.Append(r2)
	h.Append(r3)

	want := []models.ExtractionResult{r1, r2, r3}
	if diff := cmp.Diff(want, h.Entries()); diff != "" {
		t.Fatalf("entries mismatch (-want +got):\n%s", diff)
	}

	table := h.AsTable()
	if len(table) != 3 {
		t.Fatalf("table rows = %d, want 3", len(table))
	}
	for i, entry := range table {
		if entry.ExtractionResult != want[i] {
			t.Fatalf("row %d = %+v, want %+v", i, entry.ExtractionResult, want[i])
		}
	}
}

func TestAsTableNormalizes(t *testing.T) {
	h := New(8)
	h.Append(result("Kettle", "$1,234.56", "4.5 out of 5 stars"))
	h.Append(result("Toaster", models.Unavailable, models.Unavailable))

	table := h.AsTable()
	if table[0].PriceValue == nil || *table[0].PriceValue != 1234.56 {
		t.Fatalf("price = %v, want 1234.56", table[0].PriceValue)
	}
	if table[0].RatingValue == nil || *table[0].RatingValue != 4.5 {
		t.Fatalf("rating = %v, want 4.5", table[0].RatingValue)
	}
	if table[1].PriceValue != nil || table[1].RatingValue != nil {
		t.Fatalf("unavailable fields should not normalize: %+v", table[1])
	}
}

func TestAsTableIdempotent(t *testing.T) {
	h := New(1)
	h.Append(result("Kettle", "$20.00", "4.1 out of 5 stars"))
	h.Append(result("Toaster", "$35.10", models.Unavailable))
	h.Append(result("Kettle", "$18.50", "4.1 out of 5 stars"))

	first := h.AsTable()
	second := h.AsTable()
	if diff := cmp.Diff(first, second); diff != "" {
		t.Fatalf("AsTable not idempotent (-first +second):\n%s", diff)
	}
}

func TestAsTableDoesNotAliasHistory(t *testing.T) {
	h := New(8)
	h.Append(result("Kettle", "$20.00", models.Unavailable))

	table := h.AsTable()
	table[0].Product = "changed"
	*table[0].PriceValue = 0

	again := h.AsTable()
	if again[0].Product != "Kettle" || *again[0].PriceValue != 20 {
		t.Fatalf("history mutated through table: %+v", again[0])
	}
}

func TestPriceTrend(t *testing.T) {
	h := New(8)
	h.Append(result("Kettle", "$20.00", models.Unavailable))
	h.Append(result("Toaster", models.Unavailable, models.Unavailable))
	h.Append(result("Blender", "$49.99", models.Unavailable))

	want := []models.TrendPoint{
		{Product: "Kettle", Price: 20},
		{Product: "Blender", Price: 49.99},
	}
	if diff := cmp.Diff(want, h.PriceTrend()); diff != "" {
		t.Fatalf("trend mismatch (-want +got):\n%s", diff)
	}
}

func TestPriceTrendEmpty(t *testing.T) {
	h := New(8)
	if got := h.PriceTrend(); got == nil || len(got) != 0 {
		t.Fatalf("empty history trend = %v, want empty slice", got)
	}

	h.Append(result("Toaster", models.Unavailable, models.Unavailable))
	h.Append(result("Gift card", "Free", models.Unavailable))
	if got := h.PriceTrend(); len(got) != 0 {
		t.Fatalf("trend = %v, want empty", got)
	}
}

func TestNewDefaultsCacheSize(t *testing.T) {
	h := New(0)
	h.Append(result("Kettle", "$20.00", models.Unavailable))
	if got := h.PriceTrend(); len(got) != 1 {
		t.Fatalf("trend = %v, want one point", got)
	}
}
