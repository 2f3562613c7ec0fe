// Package pricing derives cart totals from line items.
//
// All arithmetic is exact decimal. Nothing here rounds except Round and the
// presentation helpers, so repeated reads never compound rounding error.
package pricing

import (
	"strings"

	"github.com/shopspring/decimal"
	"luxe-atelier/internal/domain"
)

// Currency is the unit every price in the cart is expressed in.
const Currency = "USD"

// MinorUnits is the number of fraction digits shown for Currency.
const MinorUnits int32 = 2

var (
	// TaxRate is the flat sales tax applied to the subtotal.
	TaxRate = decimal.RequireFromString("0.08")
	// FreeShippingThreshold is the subtotal at which shipping becomes free.
	FreeShippingThreshold = decimal.NewFromInt(500)
	// FlatShippingFee is charged below FreeShippingThreshold, including on an empty cart.
	FlatShippingFee = decimal.NewFromInt(25)

	hundred = decimal.NewFromInt(100)
)

// Totals is the full price breakdown of a cart.
type Totals struct {
	Items    int             `json:"totalItems"`
	Subtotal decimal.Decimal `json:"subtotal"`
	Tax      decimal.Decimal `json:"tax"`
	Shipping decimal.Decimal `json:"shipping"`
	Total    decimal.Decimal `json:"total"`
}

// Compute derives unrounded totals for the given lines.
func Compute(items []domain.LineItem) Totals {
	subtotal := Subtotal(items)
	tax := Tax(subtotal)
	shipping := Shipping(subtotal)
	return Totals{
		Items:    TotalItems(items),
		Subtotal: subtotal,
		Tax:      tax,
		Shipping: shipping,
		Total:    subtotal.Add(tax).Add(shipping),
	}
}

// TotalItems sums quantities across lines.
func TotalItems(items []domain.LineItem) int {
	total := 0
	for _, line := range items {
		total += line.Quantity
	}
	return total
}

// Subtotal sums price*quantity across lines.
func Subtotal(items []domain.LineItem) decimal.Decimal {
	total := decimal.Zero
	for _, line := range items {
		total = total.Add(line.LineTotal())
	}
	return total
}

func Tax(subtotal decimal.Decimal) decimal.Decimal {
	return subtotal.Mul(TaxRate)
}

func Shipping(subtotal decimal.Decimal) decimal.Decimal {
	if subtotal.GreaterThanOrEqual(FreeShippingThreshold) {
		return decimal.Zero
	}
	return FlatShippingFee
}

// Rounded returns a copy with every money field rounded to MinorUnits.
func (t Totals) Rounded() Totals {
	return Totals{
		Items:    t.Items,
		Subtotal: Round(t.Subtotal),
		Tax:      Round(t.Tax),
		Shipping: Round(t.Shipping),
		Total:    Round(t.Total),
	}
}

// Round rounds half away from zero to MinorUnits.
func Round(amount decimal.Decimal) decimal.Decimal {
	return amount.Round(MinorUnits)
}

// FreeShippingRemaining is how much more must be spent before shipping is free.
func FreeShippingRemaining(subtotal decimal.Decimal) decimal.Decimal {
	remaining := FreeShippingThreshold.Sub(subtotal)
	if remaining.IsNegative() {
		return decimal.Zero
	}
	return remaining
}

// FreeShippingProgress is the subtotal as a percentage of the threshold, capped at 100.
func FreeShippingProgress(subtotal decimal.Decimal) decimal.Decimal {
	if !subtotal.IsPositive() {
		return decimal.Zero
	}
	pct := subtotal.Div(FreeShippingThreshold).Mul(hundred)
	if pct.GreaterThan(hundred) {
		return hundred
	}
	return Round(pct)
}

// FormatUSD renders an amount the way en-US browsers format USD, e.g. $1,234.50.
func FormatUSD(amount decimal.Decimal) string {
	fixed := Round(amount).StringFixed(MinorUnits)
	negative := strings.HasPrefix(fixed, "-")
	fixed = strings.TrimPrefix(fixed, "-")
	whole, frac, _ := strings.Cut(fixed, ".")

	var b strings.Builder
	if negative {
		b.WriteByte('-')
	}
	b.WriteByte('$')
	for i, r := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	b.WriteByte('.')
	b.WriteString(frac)
	return b.String()
}
