package inventory

import (
	"context"

	"inventory_manager/domain"
)

// AdjustStock applies a signed delta to a product's quantity. A negative
// delta larger than the current stock fails with InsufficientStockError and
// changes nothing. Reaching zero is reported through StockChange.Warning.
func (s *Service) AdjustStock(ctx context.Context, id string, delta int) (domain.StockChange, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.store.Get(ctx, id)
	if err != nil {
		return domain.StockChange{}, err
	}
	change, err := s.adjust(ctx, p, delta)
	if err != nil {
		s.log.Warn().Err(err).Str("product_id", id).Int("delta", delta).Msg("stock adjustment rejected")
		return domain.StockChange{}, err
	}
	return change, nil
}

// adjust must be called with s.mu held.
func (s *Service) adjust(ctx context.Context, p domain.Product, delta int) (domain.StockChange, error) {
	if delta < 0 && -delta > p.Quantity {
		return domain.StockChange{}, domain.NewInsufficientStockError(p.ID, -delta, p.Quantity)
	}

	previous := p.Quantity
	p.Quantity += delta
	if err := s.store.Update(ctx, p.ID, p); err != nil {
		return domain.StockChange{}, err
	}

	change := domain.StockChange{
		ProductID: p.ID,
		Previous:  previous,
		Quantity:  p.Quantity,
		Warning:   domain.DepletionWarning(p),
	}
	s.log.Info().
		Str("product_id", p.ID).
		Int("previous", previous).
		Int("delta", delta).
		Int("quantity", p.Quantity).
		Msg("stock adjusted")
	if change.Warning != nil {
		s.log.Warn().Str("product_id", p.ID).Msg("stock depleted")
	}
	return change, nil
}
