package httpserver

import (
	"github.com/shopspring/decimal"
	"luxe-atelier/internal/domain"
	"luxe-atelier/internal/pricing"
	cartsvc "luxe-atelier/internal/service/cart"
)

// Money leaves the service as fixed two-place strings; this is the only
// place totals are rounded.
type cartResponse struct {
	Key          string               `json:"key"`
	Items        []lineItemResponse   `json:"items"`
	IsOpen       bool                 `json:"isOpen"`
	TotalItems   int                  `json:"totalItems"`
	Currency     string               `json:"currency"`
	Subtotal     string               `json:"subtotal"`
	Tax          string               `json:"tax"`
	Shipping     string               `json:"shipping"`
	Total        string               `json:"total"`
	Formatted    formattedTotals      `json:"formatted"`
	FreeShipping freeShippingResponse `json:"freeShipping"`
}

type lineItemResponse struct {
	ID            string `json:"id"`
	ProductID     string `json:"productId"`
	VariantID     string `json:"variantId"`
	Name          string `json:"name"`
	Price         string `json:"price"`
	OriginalPrice string `json:"originalPrice,omitempty"`
	Image         string `json:"image"`
	Size          string `json:"size"`
	Color         string `json:"color"`
	Quantity      int    `json:"quantity"`
	MaxQuantity   int    `json:"maxQuantity"`
	AtMax         bool   `json:"atMax"`
	LineTotal     string `json:"lineTotal"`
}

type formattedTotals struct {
	Subtotal string `json:"subtotal"`
	Tax      string `json:"tax"`
	Shipping string `json:"shipping"`
	Total    string `json:"total"`
}

type freeShippingResponse struct {
	Qualified bool   `json:"qualified"`
	Threshold string `json:"threshold"`
	Remaining string `json:"remaining"`
	Progress  string `json:"progress"`
}

func toCartResponse(sum cartsvc.Summary) cartResponse {
	totals := sum.Totals.Rounded()

	items := make([]lineItemResponse, 0, len(sum.State.Items))
	for _, line := range sum.State.Items {
		items = append(items, toLineItemResponse(line))
	}

	shippingLabel := pricing.FormatUSD(totals.Shipping)
	if totals.Shipping.IsZero() {
		shippingLabel = "Free"
	}

	return cartResponse{
		Key:        sum.Key,
		Items:      items,
		IsOpen:     sum.State.IsOpen,
		TotalItems: totals.Items,
		Currency:   pricing.Currency,
		Subtotal:   money(totals.Subtotal),
		Tax:        money(totals.Tax),
		Shipping:   money(totals.Shipping),
		Total:      money(totals.Total),
		Formatted: formattedTotals{
			Subtotal: pricing.FormatUSD(totals.Subtotal),
			Tax:      pricing.FormatUSD(totals.Tax),
			Shipping: shippingLabel,
			Total:    pricing.FormatUSD(totals.Total),
		},
		FreeShipping: freeShippingResponse{
			Qualified: sum.Totals.Shipping.IsZero(),
			Threshold: money(pricing.FreeShippingThreshold),
			Remaining: money(pricing.FreeShippingRemaining(sum.Totals.Subtotal)),
			Progress:  money(pricing.FreeShippingProgress(sum.Totals.Subtotal)),
		},
	}
}

func toLineItemResponse(line domain.LineItem) lineItemResponse {
	out := lineItemResponse{
		ID:          line.ID,
		ProductID:   line.ProductID,
		VariantID:   line.VariantID,
		Name:        line.Name,
		Price:       money(line.Price),
		Image:       line.Image,
		Size:        line.Size,
		Color:       line.Color,
		Quantity:    line.Quantity,
		MaxQuantity: line.MaxQuantity,
		AtMax:       line.AtMax(),
		LineTotal:   money(line.LineTotal()),
	}
	if line.OriginalPrice != nil {
		out.OriginalPrice = money(*line.OriginalPrice)
	}
	return out
}

func money(amount decimal.Decimal) string {
	return pricing.Round(amount).StringFixed(pricing.MinorUnits)
}
