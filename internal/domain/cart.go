package domain

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// CartState is the persisted aggregate: ordered lines plus the drawer flag.
type CartState struct {
	Items  []LineItem `json:"items"`
	IsOpen bool       `json:"isOpen"`
}

// LineItem is one purchasable variant in the cart. Everything except Quantity
// is a snapshot taken when the line was first added.
type LineItem struct {
	ID            string           `json:"id"`
	ProductID     string           `json:"productId"`
	VariantID     string           `json:"variantId"`
	Name          string           `json:"name"`
	Price         decimal.Decimal  `json:"price"`
	OriginalPrice *decimal.Decimal `json:"originalPrice,omitempty"`
	Image         string           `json:"image"`
	Size          string           `json:"size"`
	Color         string           `json:"color"`
	Quantity      int              `json:"quantity"`
	MaxQuantity   int              `json:"maxQuantity"`
}

// LineCandidate is an add-to-cart request: a line without its id.
type LineCandidate struct {
	ProductID     string           `json:"productId"`
	VariantID     string           `json:"variantId"`
	Name          string           `json:"name"`
	Price         decimal.Decimal  `json:"price"`
	OriginalPrice *decimal.Decimal `json:"originalPrice,omitempty"`
	Image         string           `json:"image"`
	Size          string           `json:"size"`
	Color         string           `json:"color"`
	Quantity      int              `json:"quantity"`
	MaxQuantity   int              `json:"maxQuantity"`
}

// Line materialises the candidate under the given id.
func (c LineCandidate) Line(id string) LineItem {
	return LineItem{
		ID:            id,
		ProductID:     c.ProductID,
		VariantID:     c.VariantID,
		Name:          c.Name,
		Price:         c.Price,
		OriginalPrice: c.OriginalPrice,
		Image:         c.Image,
		Size:          c.Size,
		Color:         c.Color,
		Quantity:      c.Quantity,
		MaxQuantity:   c.MaxQuantity,
	}
}

// Validate checks the candidate the way the add-to-cart form is expected to.
// The cart store never calls it.
func (c LineCandidate) Validate() error {
	switch {
	case strings.TrimSpace(c.ProductID) == "":
		return fmt.Errorf("%w: productId required", ErrInvalidLine)
	case strings.TrimSpace(c.VariantID) == "":
		return fmt.Errorf("%w: variantId required", ErrInvalidLine)
	case c.Price.IsNegative():
		return fmt.Errorf("%w: price must not be negative", ErrInvalidLine)
	case c.OriginalPrice != nil && c.OriginalPrice.IsNegative():
		return fmt.Errorf("%w: originalPrice must not be negative", ErrInvalidLine)
	case c.MaxQuantity < 1:
		return fmt.Errorf("%w: maxQuantity must be positive", ErrInvalidLine)
	case c.Quantity < 1:
		return fmt.Errorf("%w: quantity must be positive", ErrInvalidLine)
	}
	return nil
}

// SameVariant reports whether the line is the purchasable unit identified by
// productID and variantID.
func (l LineItem) SameVariant(productID, variantID string) bool {
	return l.ProductID == productID && l.VariantID == variantID
}

// AtMax reports whether the line cannot grow any further.
func (l LineItem) AtMax() bool {
	return l.Quantity >= l.MaxQuantity
}

// LineTotal is price times quantity; originalPrice never contributes.
func (l LineItem) LineTotal() decimal.Decimal {
	return l.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Clone returns a deep copy so callers never share the store's backing slice.
func (s CartState) Clone() CartState {
	out := CartState{IsOpen: s.IsOpen, Items: make([]LineItem, len(s.Items))}
	for i, line := range s.Items {
		if line.OriginalPrice != nil {
			orig := *line.OriginalPrice
			line.OriginalPrice = &orig
		}
		out.Items[i] = line
	}
	return out
}

// IndexOf returns the position of the line with the given id, or -1.
func (s CartState) IndexOf(lineID string) int {
	for i, line := range s.Items {
		if line.ID == lineID {
			return i
		}
	}
	return -1
}

// IndexOfVariant returns the position of the line for productID/variantID, or -1.
func (s CartState) IndexOfVariant(productID, variantID string) int {
	for i, line := range s.Items {
		if line.SameVariant(productID, variantID) {
			return i
		}
	}
	return -1
}
