package store

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/shopspring/decimal"

	"inventory_manager/domain"
)

func product(id, name, price string, qty int, category string) domain.Product {
	return domain.Product{
		ID:       id,
		Name:     name,
		Price:    decimal.RequireFromString(price),
		Quantity: qty,
		Category: category,
	}
}

func TestCreateValidation_TableDriven(t *testing.T) {
	s := NewInMemoryStore()
	ctx := context.Background()

	cases := []struct {
		name    string
		product domain.Product
		field   string
	}{
		{"bad id", product("A-1", "Arroz", "1", 1, "Alimentos"), "id"},
		{"short name", product("ALM-001", "Ar", "1", 1, "Alimentos"), "name"},
		{"zero price", product("ALM-002", "Arroz", "0", 1, "Alimentos"), "price"},
		{"zero quantity", product("ALM-003", "Arroz", "1", 0, "Alimentos"), "quantity"},
		{"negative quantity", product("ALM-004", "Arroz", "1", -5, "Alimentos"), "quantity"},
		{"unknown category", product("ALM-005", "Arroz", "1", 1, "Brinquedos"), "category"},
		{"valid", product("ALM-006", "Arroz", "1", 1, "Alimentos"), ""},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			err := s.Create(ctx, tc.product)
			if tc.field == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			ve, ok := err.(*domain.ValidationError)
			if !ok {
				t.Fatalf("expected ValidationError for case %s, got %v", tc.name, err)
			}
			if ve.Field != tc.field {
				t.Fatalf("expected field %q, got %q", tc.field, ve.Field)
			}
		})
	}

	out, _ := s.List(ctx, domain.ListFilter{})
	if len(out) != 1 {
		t.Fatalf("only the valid product should be stored, got %d", len(out))
	}
}

func TestCreate_NormalizesCategory(t *testing.T) {
	s := NewInMemoryStore()
	ctx := context.Background()

	if err := s.Create(ctx, product("LIM-001", "Detergente", "3.99", 10, "limpeza")); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	got, err := s.Get(ctx, "LIM-001")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if got.Category != domain.CategoryCleaning {
		t.Fatalf("expected canonical category, got %q", got.Category)
	}
}

func TestCreate_DuplicateLeavesSizeUnchanged(t *testing.T) {
	s := NewInMemoryStore()
	ctx := context.Background()

	if err := s.Create(ctx, product("ALM-101", "Arroz Integral", "12.50", 30, "Alimentos")); err != nil {
		t.Fatalf("setup create failed: %v", err)
	}
	err := s.Create(ctx, product("ALM-101", "Outro Nome", "1", 1, "Limpeza"))
	if !domain.IsDuplicateProductError(err) {
		t.Fatalf("expected DuplicateProductError, got %v", err)
	}
	out, _ := s.List(ctx, domain.ListFilter{})
	if len(out) != 1 || out[0].Name != "Arroz Integral" {
		t.Fatalf("repository changed after duplicate create: %+v", out)
	}
}

func TestGetUpdateDelete_NotFoundAndInvalid(t *testing.T) {
	s := NewInMemoryStore()
	ctx := context.Background()

	t.Run("get not found", func(t *testing.T) {
		_, err := s.Get(ctx, "XXX-000")
		if !domain.IsProductNotFoundError(err) {
			t.Fatalf("expected ProductNotFoundError, got %v", err)
		}
	})

	t.Run("update not found", func(t *testing.T) {
		err := s.Update(ctx, "XXX-000", product("XXX-000", "Arroz", "1", 1, "Alimentos"))
		if !domain.IsProductNotFoundError(err) {
			t.Fatalf("expected ProductNotFoundError, got %v", err)
		}
	})

	t.Run("delete not found", func(t *testing.T) {
		err := s.Delete(ctx, "XXX-000")
		if !domain.IsProductNotFoundError(err) {
			t.Fatalf("expected ProductNotFoundError, got %v", err)
		}
	})

	if err := s.Create(ctx, product("VES-001", "Camiseta", "39.90", 2, "Vestuário")); err != nil {
		t.Fatalf("setup create failed: %v", err)
	}
	t.Run("update invalid", func(t *testing.T) {
		err := s.Update(ctx, "VES-001", product("VES-001", "", "1", 1, "Vestuário"))
		if !domain.IsValidationError(err) {
			t.Fatalf("expected ValidationError, got %v", err)
		}
		got, _ := s.Get(ctx, "VES-001")
		if got.Name != "Camiseta" {
			t.Fatalf("failed update must not mutate, got %q", got.Name)
		}
	})

	t.Run("update keeps id", func(t *testing.T) {
		if err := s.Update(ctx, "VES-001", product("ZZZ-999", "Camiseta Polo", "49.90", 2, "Vestuário")); err != nil {
			t.Fatalf("update failed: %v", err)
		}
		if ok, _ := s.Exists(ctx, "ZZZ-999"); ok {
			t.Fatalf("id must be immutable")
		}
		got, _ := s.Get(ctx, "VES-001")
		if got.Name != "Camiseta Polo" {
			t.Fatalf("update not applied: %+v", got)
		}
	})
}

func TestDelete_BlockedWithoutStock(t *testing.T) {
	s := NewInMemoryStore()
	ctx := context.Background()

	_ = s.Create(ctx, product("ELE-001", "Fone", "99.90", 1, "Eletrônicos"))
	_ = s.Create(ctx, product("ELE-002", "Cabo USB", "19.90", 3, "Eletrônicos"))

	depleted, _ := s.Get(ctx, "ELE-001")
	depleted.Quantity = 0
	if err := s.Update(ctx, "ELE-001", depleted); err != nil {
		t.Fatalf("update to zero failed: %v", err)
	}

	if err := s.Delete(ctx, "ELE-001"); !domain.IsBlockedDeletionError(err) {
		t.Fatalf("expected BlockedDeletionError, got %v", err)
	}
	if ok, _ := s.Exists(ctx, "ELE-001"); !ok {
		t.Fatalf("blocked product must still exist")
	}

	if err := s.Delete(ctx, "ELE-002"); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if ok, _ := s.Exists(ctx, "ELE-002"); ok {
		t.Fatalf("deleted product still exists")
	}
	out, _ := s.List(ctx, domain.ListFilter{})
	if len(out) != 1 {
		t.Fatalf("expected 1 product left, got %d", len(out))
	}
}

func TestListFiltering(t *testing.T) {
	s := NewInMemoryStore()
	ctx := context.Background()
	_ = s.Create(ctx, product("ALM-001", "Arroz Integral", "12.50", 30, "Alimentos"))
	_ = s.Create(ctx, product("LIM-001", "Sabão em Pó", "15.00", 3, "Limpeza"))
	_ = s.Create(ctx, product("ALM-002", "Feijão Preto", "8.90", 4, "Alimentos"))

	t.Run("insertion order", func(t *testing.T) {
		out, _ := s.List(ctx, domain.ListFilter{})
		ids := []string{out[0].ID, out[1].ID, out[2].ID}
		if ids[0] != "ALM-001" || ids[1] != "LIM-001" || ids[2] != "ALM-002" {
			t.Fatalf("unexpected order %v", ids)
		}
	})

	t.Run("name substring ignores case", func(t *testing.T) {
		out, _ := s.List(ctx, domain.ListFilter{NameContains: "ARROZ"})
		if len(out) != 1 || out[0].ID != "ALM-001" {
			t.Fatalf("unexpected result %+v", out)
		}
	})

	t.Run("category ignores case", func(t *testing.T) {
		out, _ := s.List(ctx, domain.ListFilter{Category: "alimentos"})
		if len(out) != 2 {
			t.Fatalf("expected 2, got %d", len(out))
		}
	})

	t.Run("exact id", func(t *testing.T) {
		out, _ := s.List(ctx, domain.ListFilter{ID: "LIM-001"})
		if len(out) != 1 || out[0].Name != "Sabão em Pó" {
			t.Fatalf("unexpected result %+v", out)
		}
		out, _ = s.List(ctx, domain.ListFilter{ID: "lim-001"})
		if len(out) != 0 {
			t.Fatalf("id match must be exact")
		}
	})

	t.Run("below quantity", func(t *testing.T) {
		threshold := 5
		out, _ := s.List(ctx, domain.ListFilter{BelowQty: &threshold})
		if len(out) != 2 || out[0].ID != "LIM-001" || out[1].ID != "ALM-002" {
			t.Fatalf("unexpected low stock result %+v", out)
		}
	})
}

func TestList_ReturnsCopies(t *testing.T) {
	s := NewInMemoryStore()
	ctx := context.Background()
	p := product("ALM-001", "Arroz", "10.00", 1, "Alimentos")
	_ = s.Create(ctx, p)

	stored, _ := s.Get(ctx, "ALM-001")
	d := decimal.RequireFromString("9.00")
	stored.DiscountedPrice = &d
	_ = s.Update(ctx, "ALM-001", stored)

	out, _ := s.List(ctx, domain.ListFilter{})
	*out[0].DiscountedPrice = decimal.RequireFromString("1.00")

	again, _ := s.Get(ctx, "ALM-001")
	if !again.DiscountedPrice.Equal(d) {
		t.Fatalf("store state leaked through returned pointer: %s", again.DiscountedPrice)
	}
}

func TestReorder(t *testing.T) {
	s := NewInMemoryStore()
	ctx := context.Background()
	_ = s.Create(ctx, product("AAA-001", "Primeiro", "1", 1, "Alimentos"))
	_ = s.Create(ctx, product("AAA-002", "Segundo", "1", 1, "Alimentos"))

	if err := s.Reorder(ctx, []string{"AAA-002"}); !domain.IsValidationError(err) {
		t.Fatalf("expected ValidationError for partial order, got %v", err)
	}
	if err := s.Reorder(ctx, []string{"AAA-002", "AAA-002"}); !domain.IsValidationError(err) {
		t.Fatalf("expected ValidationError for repeated id, got %v", err)
	}
	if err := s.Reorder(ctx, []string{"AAA-002", "BBB-000"}); !domain.IsProductNotFoundError(err) {
		t.Fatalf("expected ProductNotFoundError, got %v", err)
	}

	if err := s.Reorder(ctx, []string{"AAA-002", "AAA-001"}); err != nil {
		t.Fatalf("reorder failed: %v", err)
	}
	out, _ := s.List(ctx, domain.ListFilter{})
	if out[0].ID != "AAA-002" || out[1].ID != "AAA-001" {
		t.Fatalf("order not persisted: %s, %s", out[0].ID, out[1].ID)
	}
}

func TestBulkImport_AllOrNothing(t *testing.T) {
	s := NewInMemoryStore()
	ctx := context.Background()
	_ = s.Create(ctx, product("EXI-001", "Existente", "5", 1, "Limpeza"))

	err := s.BulkImport(ctx, []domain.Product{
		product("NEW-001", "Novo", "1", 1, "Alimentos"),
		product("NEW-001", "Novo", "1", 1, "Alimentos"),
		product("EXI-001", "Outro", "1", 1, "Alimentos"),
		product("bad", "Ruim", "1", 1, "Alimentos"),
	})
	if err == nil {
		t.Fatalf("expected joined error")
	}
	if !domain.IsDuplicateProductError(err) || !domain.IsValidationError(err) {
		t.Fatalf("expected duplicate and validation errors, got %v", err)
	}
	out, _ := s.List(ctx, domain.ListFilter{})
	if len(out) != 1 {
		t.Fatalf("failed import must add nothing, got %d products", len(out))
	}

	err = s.BulkImport(ctx, []domain.Product{
		product("NEW-002", "Segundo", "2", 2, "vestuário"),
		product("NEW-001", "Primeiro", "1", 1, "Alimentos"),
	})
	if err != nil {
		t.Fatalf("import failed: %v", err)
	}
	out, _ = s.List(ctx, domain.ListFilter{})
	if len(out) != 3 || out[1].ID != "NEW-002" || out[2].ID != "NEW-001" {
		t.Fatalf("import must keep input order: %+v", out)
	}
	if out[1].Category != domain.CategoryClothing {
		t.Fatalf("imported category not normalized: %q", out[1].Category)
	}
}

func TestCanceledContext(t *testing.T) {
	s := NewInMemoryStore()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := s.Create(ctx, product("ALM-001", "Arroz", "1", 1, "Alimentos")); err == nil {
		t.Fatalf("expected context error on create")
	}
	if err := s.BulkImport(ctx, []domain.Product{product("ALM-002", "Arroz", "1", 1, "Alimentos")}); err == nil {
		t.Fatalf("expected context error on bulk import")
	}
}

func TestInMemoryStore_ConcurrentAccess(t *testing.T) {
	s := NewInMemoryStore()
	ctx := context.Background()
	var wg sync.WaitGroup

	n := 100
	wg.Add(n)
	for i := 0; i < n; i++ {
		id := fmt.Sprintf("CON-%03d", i)
		go func(id string) {
			defer wg.Done()
			_ = s.Create(ctx, product(id, "Produto", "1.00", 1, "Alimentos"))
			_, _ = s.Get(ctx, id)
		}(id)
	}
	wg.Wait()

	out, err := s.List(ctx, domain.ListFilter{})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(out) != n {
		t.Fatalf("expected %d products, got %d", n, len(out))
	}
}

func BenchmarkInMemoryStore_Create(b *testing.B) {
	for i := 0; i < b.N; i++ {
		s := NewInMemoryStore()
		_ = s.Create(context.Background(), product(fmt.Sprintf("BEN-%03d", i%1000), "Bench", "1", 1, "Alimentos"))
	}
}

func BenchmarkInMemoryStore_Get(b *testing.B) {
	s := NewInMemoryStore()
	for i := 0; i < 1000; i++ {
		_ = s.Create(context.Background(), product(fmt.Sprintf("GET-%03d", i), "Bench", "1", 1, "Alimentos"))
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = s.Get(context.Background(), fmt.Sprintf("GET-%03d", i%1000))
	}
}
