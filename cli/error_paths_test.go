package cli

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"inventory_manager/domain"
)

func TestCommandErrors(t *testing.T) {
	tests := []struct {
		name  string
		args  []string
		check func(error) bool
	}{
		{"duplicate id", []string{"create", "--id", "ALM-001", "--name", "Arroz", "--price", "1", "--quantity", "1", "--category", "Alimentos"}, domain.IsDuplicateProductError},
		{"bad price", []string{"create", "--id", "ALM-002", "--name", "Arroz", "--price", "abc", "--quantity", "1", "--category", "Alimentos"}, domain.IsValidationError},
		{"bad id", []string{"create", "--id", "A-1", "--name", "Arroz", "--price", "1", "--quantity", "1", "--category", "Alimentos"}, domain.IsValidationError},
		{"zero initial quantity", []string{"create", "--id", "ALM-002", "--name", "Arroz", "--price", "1", "--quantity", "0", "--category", "Alimentos"}, domain.IsValidationError},
		{"unknown category", []string{"create", "--id", "ALM-002", "--name", "Arroz", "--price", "1", "--quantity", "1", "--category", "Brinquedos"}, domain.IsValidationError},
		{"get unknown", []string{"get", "XYZ-999"}, domain.IsProductNotFoundError},
		{"bad name leaves price", []string{"update", "ALM-001", "--price", "99", "--name", "ab"}, domain.IsValidationError},
		{"zero delta", []string{"stock", "ALM-001", "--delta", "0"}, domain.IsValidationError},
		{"remove too much", []string{"stock", "ALM-001", "--delta", "-4"}, domain.IsInsufficientStockError},
		{"unknown sort key", []string{"sort", "--by", "color"}, domain.IsValidationError},
		{"unknown search key", []string{"search", "--by", "color", "x"}, domain.IsValidationError},
		{"discount out of range", []string{"discount", "--category", "Limpeza", "--percent", "96"}, domain.IsValidationError},
		{"discount unknown category", []string{"discount", "--category", "Brinquedos", "--percent", "10"}, domain.IsValidationError},
		{"sell over stock", []string{"sell", "ALM-001", "--quantity", "4"}, domain.IsInsufficientStockError},
		{"sell zero", []string{"sell", "ALM-001", "--quantity", "0"}, domain.IsValidationError},
		{"sell malformed date", []string{"sell", "ALM-001", "--quantity", "1", "--date", "2025-03-15"}, domain.IsValidationError},
		{"sell two digit year", []string{"sell", "ALM-001", "--quantity", "1", "--date", "15/03/25"}, domain.IsValidationError},
		{"unknown report view", []string{"report", "--view", "weekly"}, domain.IsValidationError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := useService(t, seedProducts()...)
			_, err := execute(t, "", tt.args...)
			require.Error(t, err)
			assert.True(t, tt.check(err), "unexpected error: %v", err)

			p, gerr := s.Get(context.Background(), "ALM-001")
			require.NoError(t, gerr)
			assert.Equal(t, "12.5", p.Price.String())
			assert.Equal(t, 3, p.Quantity)
			assert.Empty(t, s.History())
		})
	}
}

func TestUpdateRequiresAField(t *testing.T) {
	useService(t, seedProducts()...)
	_, err := execute(t, "", "update", "ALM-001")
	assert.EqualError(t, err, "nothing to update: pass --name or --price")
}

func TestDeleteZeroStockIsBlocked(t *testing.T) {
	s := useService(t, seedProducts()...)
	_, err := s.AdjustStock(context.Background(), "ALM-001", -3)
	require.NoError(t, err)

	out, err := execute(t, "", "delete", "ALM-001")
	assert.True(t, domain.IsBlockedDeletionError(err))
	assert.NotContains(t, out, "(S/N)", "blocked deletions are not confirmed")
}

func TestDeleteCancelledAfterInvalidAnswers(t *testing.T) {
	s := useService(t, seedProducts()...)
	_, err := execute(t, "talvez\nsim\nok\n", "delete", "LIM-001")
	assert.ErrorIs(t, err, ErrCancelled)

	ok, err := s.Exists(context.Background(), "LIM-001")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestExecuteWrapper(t *testing.T) {
	useService(t)
	rootCmd.SetArgs([]string{"history"})
	defer rootCmd.SetArgs(nil)
	assert.NoError(t, Execute())
}
