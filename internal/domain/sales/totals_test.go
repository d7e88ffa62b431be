package sales

import (
	"testing"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculateTotals(t *testing.T) {
	snap := snapshotOf(
		product(1, "Bread", 25, 40),
		product(2, "Milk", 18.5, 10),
	)

	t.Run("empty cart totals zero", func(t *testing.T) {
		totals := CalculateTotals(nil, snap)
		assert.True(t, totals.Total.IsZero())
		assert.Equal(t, 0, totals.ItemCount)
		assert.Empty(t, totals.Lines)
	})

	t.Run("sums line subtotals", func(t *testing.T) {
		totals := CalculateTotals([]LineItem{{ProductID: 1, Quantity: 2}, {ProductID: 2, Quantity: 3}}, snap)

		require.Len(t, totals.Lines, 2)
		assert.Equal(t, "50.00", totals.Lines[0].Subtotal.StringFixed(2))
		assert.Equal(t, "55.50", totals.Lines[1].Subtotal.StringFixed(2))
		assert.Equal(t, "105.50", totals.Total.StringFixed(2))
		assert.Equal(t, 5, totals.ItemCount)
	})

	t.Run("unresolved product contributes nothing", func(t *testing.T) {
		totals := CalculateTotals([]LineItem{{ProductID: 1, Quantity: 1}, {ProductID: 42, Quantity: 4}}, snap)

		require.Len(t, totals.Lines, 2)
		unknown := totals.Lines[1]
		assert.False(t, unknown.Resolved)
		assert.Equal(t, UnknownProductName, unknown.ProductName)
		assert.True(t, unknown.UnitPrice.IsZero())
		assert.True(t, unknown.Subtotal.IsZero())
		assert.Equal(t, "25.00", totals.Total.StringFixed(2))
		assert.Equal(t, 5, totals.ItemCount)
	})
}

func TestCalculateTotals_Properties(t *testing.T) {
	faker := gofakeit.New(0)

	for round := 0; round < 50; round++ {
		lines := make([]LineItem, 0)
		snap := snapshotOf(
			product(1, "A", faker.Price(0, 100), 100),
			product(2, "B", faker.Price(0, 100), 100),
			product(3, "C", faker.Price(0, 100), 100),
		)
		for id := int64(1); id <= 4; id++ {
			lines = append(lines, LineItem{ProductID: id, Quantity: faker.IntRange(1, 9)})
		}

		first := CalculateTotals(lines, snap)
		second := CalculateTotals(lines, snap)
		assert.True(t, first.Total.Equals(second.Total), "idempotent")

		reversed := make([]LineItem, len(lines))
		for i, l := range lines {
			reversed[len(lines)-1-i] = l
		}
		assert.True(t, first.Total.Equals(CalculateTotals(reversed, snap).Total), "order invariant")
	}
}
