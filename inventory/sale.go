package inventory

import (
	"context"

	"github.com/shopspring/decimal"

	"inventory_manager/domain"
)

// Sell removes quantity units of a product from stock, records the sale in
// the history and returns a receipt. The unit price is the discounted price
// when one is set. Either every effect happens or none does.
func (s *Service) Sell(ctx context.Context, id string, quantity int, date domain.SaleDate) (domain.SaleReceipt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.store.Get(ctx, id)
	if err != nil {
		return domain.SaleReceipt{}, err
	}
	if err := validateSale(p, quantity, date); err != nil {
		s.log.Warn().Err(err).Str("product_id", id).Int("quantity", quantity).Msg("sale rejected")
		return domain.SaleReceipt{}, err
	}

	change, err := s.adjust(ctx, p, -quantity)
	if err != nil {
		return domain.SaleReceipt{}, err
	}

	unit := p.UnitPrice()
	record := domain.SaleRecord{
		ID:           s.newID(),
		Date:         date,
		ProductID:    p.ID,
		ProductName:  p.Name,
		QuantitySold: quantity,
	}
	s.sales = append(s.sales, record)

	receipt := domain.SaleReceipt{
		SaleID:            record.ID,
		ProductName:       p.Name,
		UnitPrice:         unit,
		Quantity:          quantity,
		Total:             unit.Mul(decimal.NewFromInt(int64(quantity))),
		ResultingQuantity: change.Quantity,
		Warning:           change.Warning,
	}
	s.log.Info().
		Str("sale_id", record.ID.String()).
		Str("product_id", p.ID).
		Int("quantity", quantity).
		Str("total", receipt.Total.StringFixed(2)).
		Str("date", date.String()).
		Msg("sale recorded")
	return receipt, nil
}

func validateSale(p domain.Product, quantity int, date domain.SaleDate) error {
	if quantity < 1 {
		return domain.NewValidationError("quantity", "must be at least 1", quantity)
	}
	if quantity > p.Quantity {
		return &domain.ValidationError{
			Field:  "quantity",
			Reason: "exceeds available stock",
			Value:  quantity,
			Err:    domain.NewInsufficientStockError(p.ID, quantity, p.Quantity),
		}
	}
	return date.Validate()
}

// History returns a copy of the sales history in insertion order.
func (s *Service) History() []domain.SaleRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]domain.SaleRecord, len(s.sales))
	copy(out, s.sales)
	return out
}
