package seed

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"luxe-atelier/internal/domain"
	cartsvc "luxe-atelier/internal/service/cart"
)

// DemoCartKey is the session seeded by Apply.
const DemoCartKey = "demo"

type lineSeed struct {
	ProductID     string
	VariantID     string
	Name          string
	Price         string
	OriginalPrice string
	Size          string
	Color         string
	Quantity      int
	MaxQuantity   int
}

var demoLines = []lineSeed{
	{
		ProductID:     "silk-scarf",
		VariantID:     "ivory",
		Name:          "Silk Twill Scarf",
		Price:         "295.00",
		OriginalPrice: "350.00",
		Color:         "Ivory",
		Quantity:      1,
		MaxQuantity:   4,
	},
	{
		ProductID:   "cashmere-gloves",
		VariantID:   "camel-m",
		Name:        "Cashmere Gloves",
		Price:       "185.00",
		Size:        "M",
		Color:       "Camel",
		Quantity:    2,
		MaxQuantity: 3,
	},
}

// Apply resets the demo cart and fills it with a known set of lines. Running
// it twice leaves the same cart behind.
func Apply(ctx context.Context, svc *cartsvc.Service) (*cartsvc.Summary, error) {
	if _, err := svc.Clear(ctx, DemoCartKey); err != nil {
		return nil, fmt.Errorf("clear demo cart: %w", err)
	}

	for _, l := range demoLines {
		c, err := l.candidate()
		if err != nil {
			return nil, fmt.Errorf("line %s: %w", l.ProductID, err)
		}
		if _, err := svc.AddItem(ctx, DemoCartKey, c); err != nil {
			return nil, fmt.Errorf("add %s: %w", l.ProductID, err)
		}
	}

	return svc.Close(ctx, DemoCartKey)
}

func (l lineSeed) candidate() (domain.LineCandidate, error) {
	price, err := decimal.NewFromString(l.Price)
	if err != nil {
		return domain.LineCandidate{}, fmt.Errorf("price: %w", err)
	}
	c := domain.LineCandidate{
		ProductID:   l.ProductID,
		VariantID:   l.VariantID,
		Name:        l.Name,
		Price:       price,
		Image:       "/images/products/" + l.ProductID + ".jpg",
		Size:        l.Size,
		Color:       l.Color,
		Quantity:    l.Quantity,
		MaxQuantity: l.MaxQuantity,
	}
	if l.OriginalPrice != "" {
		orig, err := decimal.NewFromString(l.OriginalPrice)
		if err != nil {
			return domain.LineCandidate{}, fmt.Errorf("original price: %w", err)
		}
		c.OriginalPrice = &orig
	}
	return c, nil
}
