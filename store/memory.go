// Package store provides storage implementations for the inventory system.
package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"golang.org/x/text/cases"

	"inventory_manager/domain"
)

// InMemoryStore is a thread-safe, ordered in-memory domain.ProductStore.
// order holds the canonical sequence of ids.
type InMemoryStore struct {
	mu       sync.RWMutex
	order    []string
	products map[string]domain.Product
}

// NewInMemoryStore constructs a new InMemoryStore
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		products: make(map[string]domain.Product),
	}
}

// compile-time assertion that InMemoryStore implements domain.ProductStore
var _ domain.ProductStore = (*InMemoryStore)(nil)

// prepareNew normalizes the category and checks creation invariants.
func prepareNew(product domain.Product) (domain.Product, error) {
	if c, ok := domain.NormalizeCategory(product.Category); ok {
		product.Category = c
	}
	if err := domain.ValidateNewProduct(product); err != nil {
		return domain.Product{}, err
	}
	return clone(product), nil
}

func (s *InMemoryStore) Create(ctx context.Context, product domain.Product) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	product, err := prepareNew(product)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.products[product.ID]; exists {
		return domain.NewDuplicateProductError(product.ID)
	}
	s.products[product.ID] = product
	s.order = append(s.order, product.ID)
	return nil
}

func (s *InMemoryStore) Get(ctx context.Context, id string) (domain.Product, error) {
	if err := ctx.Err(); err != nil {
		return domain.Product{}, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.products[id]
	if !ok {
		return domain.Product{}, domain.NewProductNotFoundError(id)
	}
	return clone(p), nil
}

func (s *InMemoryStore) Exists(ctx context.Context, id string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.products[id]
	return ok, nil
}

// Update replaces the whole record stored under id. The id itself never changes.
func (s *InMemoryStore) Update(ctx context.Context, id string, product domain.Product) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	product.ID = id
	if c, ok := domain.NormalizeCategory(product.Category); ok {
		product.Category = c
	}
	if err := domain.ValidateProduct(product); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.products[id]; !ok {
		return domain.NewProductNotFoundError(id)
	}
	s.products[id] = clone(product)
	return nil
}

// Delete removes a product permanently. Products without stock cannot be deleted.
func (s *InMemoryStore) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.products[id]
	if !ok {
		return domain.NewProductNotFoundError(id)
	}
	if p.Quantity == 0 {
		return domain.NewBlockedDeletionError(id)
	}
	delete(s.products, id)
	for i, oid := range s.order {
		if oid == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}

func (s *InMemoryStore) List(ctx context.Context, filter domain.ListFilter) ([]domain.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	nameTerm := cases.Fold().String(filter.NameContains)
	category := cases.Fold().String(strings.TrimSpace(filter.Category))

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Product, 0, len(s.order))
	for _, id := range s.order {
		p := s.products[id]
		if filter.ID != "" && p.ID != filter.ID {
			continue
		}
		if nameTerm != "" && !strings.Contains(cases.Fold().String(p.Name), nameTerm) {
			continue
		}
		if category != "" && cases.Fold().String(p.Category) != category {
			continue
		}
		if filter.BelowQty != nil && p.Quantity >= *filter.BelowQty {
			continue
		}
		out = append(out, clone(p))
	}
	return out, nil
}

// Reorder replaces the canonical order. ids must be a permutation of the stored ids.
func (s *InMemoryStore) Reorder(ctx context.Context, ids []string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if len(ids) != len(s.order) {
		return domain.NewValidationError("order", "must list every product exactly once", len(ids))
	}
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := s.products[id]; !ok {
			return domain.NewProductNotFoundError(id)
		}
		if _, dup := seen[id]; dup {
			return domain.NewValidationError("order", "repeated id", id)
		}
		seen[id] = struct{}{}
	}
	s.order = append([]string(nil), ids...)
	return nil
}

// BulkImport adds products in the given order. The batch is validated as a
// whole first; if any product is invalid or duplicated nothing is added and
// all problems are returned joined.
func (s *InMemoryStore) BulkImport(ctx context.Context, products []domain.Product) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if len(products) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var errs []error
	batch := make([]domain.Product, 0, len(products))
	inBatch := make(map[string]struct{}, len(products))
	for _, p := range products {
		prepared, err := prepareNew(p)
		if err != nil {
			errs = append(errs, fmt.Errorf("id=%s: %w", p.ID, err))
			continue
		}
		_, stored := s.products[prepared.ID]
		_, repeated := inBatch[prepared.ID]
		if stored || repeated {
			errs = append(errs, domain.NewDuplicateProductError(prepared.ID))
			continue
		}
		inBatch[prepared.ID] = struct{}{}
		batch = append(batch, prepared)
	}
	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	for _, p := range batch {
		s.products[p.ID] = p
		s.order = append(s.order, p.ID)
	}
	return nil
}

// clone copies p so callers never share the DiscountedPrice pointer with the store.
func clone(p domain.Product) domain.Product {
	if p.DiscountedPrice != nil {
		d := *p.DiscountedPrice
		p.DiscountedPrice = &d
	}
	return p
}
