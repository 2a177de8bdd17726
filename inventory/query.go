package inventory

import (
	"cmp"
	"context"
	"slices"
	"strings"

	"golang.org/x/text/cases"

	"inventory_manager/domain"
)

// SortKey selects the ordering used by Sort.
type SortKey string

const (
	SortByName     SortKey = "name"
	SortByPrice    SortKey = "price"
	SortByQuantity SortKey = "quantity"
	SortByCategory SortKey = "category"
)

// ParseSortKey validates a sort criterion name.
func ParseSortKey(s string) (SortKey, error) {
	switch k := SortKey(strings.ToLower(strings.TrimSpace(s))); k {
	case SortByName, SortByPrice, SortByQuantity, SortByCategory:
		return k, nil
	}
	return "", domain.NewValidationError("sort", "must be one of name, price, quantity, category", s)
}

// SearchKey selects the criterion used by Search.
type SearchKey string

const (
	SearchByName     SearchKey = "name"
	SearchByID       SearchKey = "id"
	SearchByCategory SearchKey = "category"
)

// ParseSearchKey validates a search criterion name.
func ParseSearchKey(s string) (SearchKey, error) {
	switch k := SearchKey(strings.ToLower(strings.TrimSpace(s))); k {
	case SearchByName, SearchByID, SearchByCategory:
		return k, nil
	}
	return "", domain.NewValidationError("search", "must be one of name, id, category", s)
}

// Sort returns a sorted snapshot of all products, ascending by key. Ties
// keep their canonical relative order. The store is not modified; see SaveOrder.
func (s *Service) Sort(ctx context.Context, key SortKey) ([]domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	products, err := s.store.List(ctx, domain.ListFilter{})
	if err != nil {
		return nil, err
	}

	switch key {
	case SortByName:
		folded := make(map[string]string, len(products))
		for _, p := range products {
			folded[p.ID] = cases.Fold().String(p.Name)
		}
		slices.SortStableFunc(products, func(a, b domain.Product) int {
			return strings.Compare(folded[a.ID], folded[b.ID])
		})
	case SortByPrice:
		slices.SortStableFunc(products, func(a, b domain.Product) int {
			return a.Price.Cmp(b.Price)
		})
	case SortByQuantity:
		slices.SortStableFunc(products, func(a, b domain.Product) int {
			return cmp.Compare(a.Quantity, b.Quantity)
		})
	case SortByCategory:
		slices.SortStableFunc(products, func(a, b domain.Product) int {
			return strings.Compare(a.Category, b.Category)
		})
	default:
		return nil, domain.NewValidationError("sort", "unknown criterion", string(key))
	}
	return products, nil
}

// SaveOrder makes the order of products the new canonical order.
func (s *Service) SaveOrder(ctx context.Context, products []domain.Product) error {
	ids := make([]string, len(products))
	for i, p := range products {
		ids[i] = p.ID
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.store.Reorder(ctx, ids); err != nil {
		s.log.Warn().Err(err).Msg("reorder rejected")
		return err
	}
	s.log.Info().Int("count", len(ids)).Msg("product order saved")
	return nil
}

// Search finds products by case-insensitive name substring, exact id or
// case-insensitive category.
func (s *Service) Search(ctx context.Context, key SearchKey, term string) ([]domain.Product, error) {
	var filter domain.ListFilter
	switch key {
	case SearchByName:
		filter.NameContains = term
	case SearchByID:
		filter.ID = term
	case SearchByCategory:
		filter.Category = term
	default:
		return nil, domain.NewValidationError("search", "unknown criterion", string(key))
	}
	if strings.TrimSpace(term) == "" {
		return nil, domain.NewValidationError(string(key), "search term cannot be empty", term)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.List(ctx, filter)
}

// LowStock returns products whose quantity is below threshold, in canonical
// order. A threshold below 1 falls back to the configured default.
func (s *Service) LowStock(ctx context.Context, threshold int) ([]domain.Product, error) {
	if threshold < 1 {
		threshold = s.lowStock
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.List(ctx, domain.ListFilter{BelowQty: &threshold})
}
