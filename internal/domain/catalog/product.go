package catalog

import (
	"github.com/Hillarymukuka/ancestrabusiness/internal/domain/shared/valueobject"
)

// Product is the read-only view of an inventory item as served by the business API.
// The point of sale never mutates products; it replaces the whole snapshot on reload.
type Product struct {
	ID             int64             `json:"id"`
	Name           string            `json:"name"`
	Code           *string           `json:"product_code"`
	Category       string            `json:"category"`
	UnitPrice      valueobject.Money `json:"price"`
	QuantityOnHand int               `json:"quantity"`
	ReorderLevel   int               `json:"reorder_level"`
}

// CodeOrEmpty returns the product code, or "" when the product has none.
func (p Product) CodeOrEmpty() string {
	if p.Code == nil {
		return ""
	}
	return *p.Code
}

// IsLowStock reports whether on-hand stock has fallen to the reorder level.
func (p Product) IsLowStock() bool {
	return p.QuantityOnHand <= p.ReorderLevel
}

// IsOutOfStock reports whether nothing is left on hand.
func (p Product) IsOutOfStock() bool {
	return p.QuantityOnHand <= 0
}
