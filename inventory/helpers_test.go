package inventory

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"inventory_manager/domain"
	"inventory_manager/store"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func newProduct(id, name, price string, qty int, category string) domain.Product {
	return domain.Product{ID: id, Name: name, Price: dec(price), Quantity: qty, Category: category}
}

// newTestService returns a service over a fresh store holding products.
func newTestService(t *testing.T, products ...domain.Product) *Service {
	t.Helper()
	svc := NewService(store.NewInMemoryStore())
	for _, p := range products {
		_, err := svc.Register(context.Background(), p)
		require.NoError(t, err)
	}
	return svc
}

func ids(products []domain.Product) []string {
	out := make([]string, len(products))
	for i, p := range products {
		out[i] = p.ID
	}
	return out
}
