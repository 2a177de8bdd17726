// Package domain defines core business types and interfaces.
package domain

import (
	"context"

	"github.com/shopspring/decimal"
)

// Product represents an inventory product
type Product struct {
	ID       string          `json:"id" validate:"productid"`
	Name     string          `json:"name" validate:"productname"`
	Price    decimal.Decimal `json:"price" validate:"gt=0"`
	Quantity int             `json:"quantity" validate:"gte=0"`
	Category string          `json:"category" validate:"category"`
	// DiscountedPrice is set only after a discount targeted the product's category.
	DiscountedPrice *decimal.Decimal `json:"discounted_price,omitempty" validate:"-"`
	DiscountPercent int              `json:"discount_percent,omitempty" validate:"-"`
}

// UnitPrice is the price charged on a sale: the discounted price when present.
func (p Product) UnitPrice() decimal.Decimal {
	if p.DiscountedPrice != nil {
		return *p.DiscountedPrice
	}
	return p.Price
}

// StockValue is price times quantity, ignoring discounts.
func (p Product) StockValue() decimal.Decimal {
	return p.Price.Mul(decimal.NewFromInt(int64(p.Quantity)))
}

// IsLowStock reports whether quantity is strictly below threshold.
func (p Product) IsLowStock(threshold int) bool {
	return p.Quantity < threshold
}

// ListFilter narrows results from List. Zero values match everything;
// non-empty criteria are combined with AND.
type ListFilter struct {
	ID           string // exact
	NameContains string // case-insensitive substring
	Category     string // case-insensitive exact
	BelowQty     *int   // quantity < *BelowQty
}

// ProductStore defines the storage interface for products. List returns
// products in the store's canonical order (insertion order unless reordered).
type ProductStore interface {
	Create(ctx context.Context, product Product) error
	Get(ctx context.Context, id string) (Product, error)
	Exists(ctx context.Context, id string) (bool, error)
	Update(ctx context.Context, id string, product Product) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter ListFilter) ([]Product, error)
	Reorder(ctx context.Context, ids []string) error
	BulkImport(ctx context.Context, products []Product) error
}
