package seed

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	snapshotrepo "luxe-atelier/internal/repository/snapshot"
	cartsvc "luxe-atelier/internal/service/cart"
)

func TestApplyIsRepeatable(t *testing.T) {
	svc := cartsvc.New(snapshotrepo.NewMemory(), nil, "luxe-atelier-cart", 0)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		sum, err := Apply(ctx, svc)
		if err != nil {
			t.Fatalf("apply #%d: %v", i+1, err)
		}
		if len(sum.State.Items) != 2 {
			t.Fatalf("apply #%d: expected 2 lines, got %d", i+1, len(sum.State.Items))
		}
		if sum.State.IsOpen {
			t.Fatalf("apply #%d: demo cart should be closed", i+1)
		}
		// 295 + 2*185 = 665, free shipping, 8% tax
		if !sum.Totals.Total.Equal(decimal.RequireFromString("718.2")) {
			t.Fatalf("apply #%d: unexpected total %s", i+1, sum.Totals.Total)
		}
	}
}
