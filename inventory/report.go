package inventory

import (
	"context"

	"github.com/shopspring/decimal"

	"inventory_manager/domain"
)

// CategorySummary aggregates the products of one category.
type CategorySummary struct {
	Category string          `json:"category"`
	Count    int             `json:"count"`
	Value    decimal.Decimal `json:"value"`
}

// InventoryReport is a point-in-time summary of the inventory. Values use
// base prices; discounts only affect sales.
type InventoryReport struct {
	TotalValue        decimal.Decimal   `json:"total_value"`
	ProductCount      int               `json:"product_count"`
	LowStockThreshold int               `json:"low_stock_threshold"`
	LowStock          []domain.Product  `json:"low_stock"`
	Categories        []CategorySummary `json:"categories"`
}

// Report computes the inventory report. Categories appear in order of
// their first product.
func (s *Service) Report(ctx context.Context) (InventoryReport, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	products, err := s.store.List(ctx, domain.ListFilter{})
	if err != nil {
		return InventoryReport{}, err
	}

	r := InventoryReport{
		TotalValue:        decimal.Zero,
		ProductCount:      len(products),
		LowStockThreshold: s.lowStock,
		LowStock:          []domain.Product{},
		Categories:        []CategorySummary{},
	}
	index := make(map[string]int)
	for _, p := range products {
		value := p.StockValue()
		r.TotalValue = r.TotalValue.Add(value)
		if p.IsLowStock(s.lowStock) {
			r.LowStock = append(r.LowStock, p)
		}
		i, ok := index[p.Category]
		if !ok {
			i = len(r.Categories)
			index[p.Category] = i
			r.Categories = append(r.Categories, CategorySummary{Category: p.Category, Value: decimal.Zero})
		}
		r.Categories[i].Count++
		r.Categories[i].Value = r.Categories[i].Value.Add(value)
	}
	return r, nil
}
