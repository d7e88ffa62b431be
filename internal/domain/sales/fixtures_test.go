package sales

import (
	"time"

	"github.com/Hillarymukuka/ancestrabusiness/internal/domain/catalog"
	"github.com/Hillarymukuka/ancestrabusiness/internal/domain/shared/valueobject"
)

// Test helpers
func product(id int64, name string, price float64, onHand int) catalog.Product {
	return catalog.Product{
		ID:             id,
		Name:           name,
		Category:       "General",
		UnitPrice:      valueobject.NewMoneyFromFloat(price),
		QuantityOnHand: onHand,
		ReorderLevel:   2,
	}
}

func snapshotOf(products ...catalog.Product) *catalog.Snapshot {
	return catalog.NewSnapshot(products, time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC))
}
