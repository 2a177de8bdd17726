package inventory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReport(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t,
		newProduct("LIM-001", "Detergente", "4.00", 10, "Limpeza"),
		newProduct("ALM-101", "Arroz Integral", "12.50", 30, "Alimentos"),
		newProduct("LIM-002", "Esponja", "1.50", 2, "Limpeza"),
	)
	_, err := svc.ApplyDiscount(ctx, "Alimentos", 50)
	require.NoError(t, err)

	r, err := svc.Report(ctx)
	require.NoError(t, err)

	assert.Equal(t, "418.00", r.TotalValue.StringFixed(2))
	assert.Equal(t, 3, r.ProductCount)
	assert.Equal(t, DefaultLowStockThreshold, r.LowStockThreshold)
	assert.Equal(t, []string{"LIM-002"}, ids(r.LowStock))

	require.Len(t, r.Categories, 2)
	assert.Equal(t, "Limpeza", r.Categories[0].Category)
	assert.Equal(t, 2, r.Categories[0].Count)
	assert.Equal(t, "43.00", r.Categories[0].Value.StringFixed(2))
	assert.Equal(t, "Alimentos", r.Categories[1].Category)
	assert.Equal(t, "375.00", r.Categories[1].Value.StringFixed(2))
}

func TestReport_Empty(t *testing.T) {
	r, err := newTestService(t).Report(context.Background())
	require.NoError(t, err)
	assert.True(t, r.TotalValue.IsZero())
	assert.Zero(t, r.ProductCount)
	assert.Empty(t, r.LowStock)
	assert.Empty(t, r.Categories)
}
