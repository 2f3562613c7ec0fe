package pricing

import (
	"testing"

	"github.com/shopspring/decimal"
	"luxe-atelier/internal/domain"
)

func line(price string, qty int) domain.LineItem {
	return domain.LineItem{Price: decimal.RequireFromString(price), Quantity: qty, MaxQuantity: 99}
}

func assertMoney(t *testing.T, name string, got decimal.Decimal, want string) {
	t.Helper()
	if !got.Equal(decimal.RequireFromString(want)) {
		t.Fatalf("%s: expected %s, got %s", name, want, got)
	}
}

func TestComputeEmptyCart(t *testing.T) {
	got := Compute(nil)
	if got.Items != 0 {
		t.Fatalf("expected 0 items, got %d", got.Items)
	}
	assertMoney(t, "subtotal", got.Subtotal, "0")
	assertMoney(t, "tax", got.Tax, "0")
	assertMoney(t, "shipping", got.Shipping, "25")
	assertMoney(t, "total", got.Total, "25")
}

func TestComputeBelowThreshold(t *testing.T) {
	got := Compute([]domain.LineItem{line("100", 4)})
	if got.Items != 4 {
		t.Fatalf("expected 4 items, got %d", got.Items)
	}
	assertMoney(t, "subtotal", got.Subtotal, "400")
	assertMoney(t, "tax", got.Tax, "32")
	assertMoney(t, "shipping", got.Shipping, "25")
	assertMoney(t, "total", got.Total, "457")
}

func TestComputeAtThreshold(t *testing.T) {
	got := Compute([]domain.LineItem{line("250", 2)})
	assertMoney(t, "subtotal", got.Subtotal, "500")
	assertMoney(t, "shipping", got.Shipping, "0")
	assertMoney(t, "total", got.Total, "540")
}

func TestComputeJustBelowThreshold(t *testing.T) {
	got := Compute([]domain.LineItem{line("499.99", 1)})
	assertMoney(t, "shipping", got.Shipping, "25")
}

func TestComputeTotalIdentity(t *testing.T) {
	items := []domain.LineItem{line("19.99", 3), line("0.10", 7), line("249.95", 1)}
	got := Compute(items)
	assertMoney(t, "subtotal", got.Subtotal, "310.62")
	if !got.Total.Equal(got.Subtotal.Add(got.Tax).Add(got.Shipping)) {
		t.Fatalf("total %s != subtotal+tax+shipping", got.Total)
	}
	assertMoney(t, "tax", got.Tax, "24.8496")
}

func TestDecimalAvoidsFloatDrift(t *testing.T) {
	items := make([]domain.LineItem, 0, 10)
	for i := 0; i < 10; i++ {
		items = append(items, line("0.1", 1))
	}
	assertMoney(t, "subtotal", Subtotal(items), "1")
}

func TestRounded(t *testing.T) {
	got := Compute([]domain.LineItem{line("19.99", 3), line("0.10", 7), line("249.95", 1)}).Rounded()
	assertMoney(t, "tax", got.Tax, "24.85")
	assertMoney(t, "total", got.Total, "360.47")
	if got.Items != 11 {
		t.Fatalf("expected 11 items, got %d", got.Items)
	}
}

func TestRoundHalfAwayFromZero(t *testing.T) {
	assertMoney(t, "positive", Round(decimal.RequireFromString("2.345")), "2.35")
	assertMoney(t, "negative", Round(decimal.RequireFromString("-2.345")), "-2.35")
}

func TestFreeShippingRemaining(t *testing.T) {
	assertMoney(t, "below", FreeShippingRemaining(decimal.NewFromInt(420)), "80")
	assertMoney(t, "at", FreeShippingRemaining(decimal.NewFromInt(500)), "0")
	assertMoney(t, "above", FreeShippingRemaining(decimal.NewFromInt(900)), "0")
}

func TestFreeShippingProgress(t *testing.T) {
	assertMoney(t, "empty", FreeShippingProgress(decimal.Zero), "0")
	assertMoney(t, "half", FreeShippingProgress(decimal.NewFromInt(250)), "50")
	assertMoney(t, "third", FreeShippingProgress(decimal.RequireFromString("166.67")), "33.33")
	assertMoney(t, "capped", FreeShippingProgress(decimal.NewFromInt(1200)), "100")
}

func TestFormatUSD(t *testing.T) {
	cases := map[string]string{
		"0":           "$0.00",
		"8":           "$8.00",
		"133":         "$133.00",
		"1234.5":      "$1,234.50",
		"1234567.891": "$1,234,567.89",
		"-3":          "-$3.00",
		"999.999":     "$1,000.00",
	}
	for in, want := range cases {
		if got := FormatUSD(decimal.RequireFromString(in)); got != want {
			t.Fatalf("FormatUSD(%s) = %q, want %q", in, got, want)
		}
	}
}
