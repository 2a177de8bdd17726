// Package inventory implements the inventory operations on top of a
// domain.ProductStore: registration and edits, stock adjustments, category
// discounts, sales with their history, queries and reports.
//
// Every exported operation runs under a single mutex so each
// read-modify-write against the store is atomic, and every operation
// validates before it mutates: a failed call leaves no trace.
package inventory

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"inventory_manager/domain"
)

// DefaultLowStockThreshold is used when no threshold is configured.
const DefaultLowStockThreshold = 5

// Service owns the session state: the product store and the sales history.
type Service struct {
	mu       sync.Mutex
	store    domain.ProductStore
	sales    []domain.SaleRecord
	log      zerolog.Logger
	lowStock int
	newID    func() uuid.UUID
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the logger. The default discards everything.
func WithLogger(l zerolog.Logger) Option {
	return func(s *Service) { s.log = l }
}

// WithLowStockThreshold sets the default low-stock threshold. Values below 1 are ignored.
func WithLowStockThreshold(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.lowStock = n
		}
	}
}

// NewService creates a Service over store.
func NewService(store domain.ProductStore, opts ...Option) *Service {
	s := &Service{
		store:    store,
		log:      zerolog.Nop(),
		lowStock: DefaultLowStockThreshold,
		newID:    uuid.New,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// LowStockThreshold returns the configured default threshold.
func (s *Service) LowStockThreshold() int {
	return s.lowStock
}

// Register creates a product and returns it as stored.
func (s *Service) Register(ctx context.Context, p domain.Product) (domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.store.Create(ctx, p); err != nil {
		s.log.Warn().Err(err).Str("product_id", p.ID).Msg("product rejected")
		return domain.Product{}, err
	}
	created, err := s.store.Get(ctx, p.ID)
	if err != nil {
		return domain.Product{}, err
	}
	s.log.Info().
		Str("product_id", created.ID).
		Str("name", created.Name).
		Str("price", created.Price.StringFixed(2)).
		Int("quantity", created.Quantity).
		Str("category", created.Category).
		Msg("product created")
	return created, nil
}

// Import adds a batch of products, all or nothing.
func (s *Service) Import(ctx context.Context, products []domain.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.store.BulkImport(ctx, products); err != nil {
		s.log.Warn().Err(err).Int("count", len(products)).Msg("import rejected")
		return err
	}
	s.log.Info().Int("count", len(products)).Msg("products imported")
	return nil
}

// Get returns the product stored under id.
func (s *Service) Get(ctx context.Context, id string) (domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.Get(ctx, id)
}

// Exists reports whether id is registered.
func (s *Service) Exists(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.Exists(ctx, id)
}

// List returns every product in canonical order.
func (s *Service) List(ctx context.Context) ([]domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.List(ctx, domain.ListFilter{})
}

// UpdatePrice changes the base price. An active discount is recomputed
// from the new price with the same percentage.
func (s *Service) UpdatePrice(ctx context.Context, id string, price decimal.Decimal) (domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.store.Get(ctx, id)
	if err != nil {
		return domain.Product{}, err
	}
	old := p.Price
	p.Price = price
	if p.DiscountPercent > 0 && price.IsPositive() {
		d := discounted(price, p.DiscountPercent)
		p.DiscountedPrice = &d
	}
	if err := s.store.Update(ctx, id, p); err != nil {
		s.log.Warn().Err(err).Str("product_id", id).Msg("price update rejected")
		return domain.Product{}, err
	}
	s.log.Info().
		Str("product_id", id).
		Str("old_price", old.StringFixed(2)).
		Str("new_price", price.StringFixed(2)).
		Msg("price updated")
	return p, nil
}

// UpdateName renames a product.
func (s *Service) UpdateName(ctx context.Context, id, name string) (domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.store.Get(ctx, id)
	if err != nil {
		return domain.Product{}, err
	}
	p.Name = name
	if err := s.store.Update(ctx, id, p); err != nil {
		s.log.Warn().Err(err).Str("product_id", id).Msg("name update rejected")
		return domain.Product{}, err
	}
	s.log.Info().Str("product_id", id).Str("name", name).Msg("name updated")
	return p, nil
}

// Delete removes a product. Products with zero stock cannot be deleted.
func (s *Service) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.store.Delete(ctx, id); err != nil {
		s.log.Warn().Err(err).Str("product_id", id).Msg("delete rejected")
		return err
	}
	s.log.Info().Str("product_id", id).Msg("product deleted")
	return nil
}
