package inventory

import (
	"context"

	"github.com/shopspring/decimal"

	"inventory_manager/domain"
)

var (
	hundred  = decimal.NewFromInt(100)
	minPrice = decimal.New(1, -2)
)

// discounted computes price × (1 − pct/100) rounded to cents, half away
// from zero. The result never drops below one cent.
func discounted(price decimal.Decimal, pct int) decimal.Decimal {
	d := price.Mul(decimal.NewFromInt(int64(100 - pct))).Div(hundred).Round(2)
	if d.LessThan(minPrice) {
		return minPrice
	}
	return d
}

// ApplyDiscount sets the discounted price of every product in category.
// A previous discount on those products is replaced, not stacked; the base
// price is never touched. It returns the affected products.
func (s *Service) ApplyDiscount(ctx context.Context, category string, pct int) ([]domain.Product, error) {
	if err := domain.ValidateDiscountPercent(pct); err != nil {
		return nil, err
	}
	canonical, ok := domain.NormalizeCategory(category)
	if !ok {
		return nil, domain.NewValidationError("category", "unknown category", category)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	targets, err := s.store.List(ctx, domain.ListFilter{Category: canonical})
	if err != nil {
		return nil, err
	}
	for i := range targets {
		d := discounted(targets[i].Price, pct)
		targets[i].DiscountedPrice = &d
		targets[i].DiscountPercent = pct
	}
	for _, p := range targets {
		if err := s.store.Update(ctx, p.ID, p); err != nil {
			return nil, err
		}
	}

	s.log.Info().
		Str("category", canonical).
		Int("percent", pct).
		Int("affected", len(targets)).
		Msg("discount applied")
	return targets, nil
}
