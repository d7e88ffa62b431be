package sales

import (
	"github.com/Hillarymukuka/ancestrabusiness/internal/domain/catalog"
	"github.com/Hillarymukuka/ancestrabusiness/internal/domain/shared/valueobject"
)

// UnknownProductName is shown for lines whose product is missing from the snapshot.
const UnknownProductName = "Unknown"

// LineView is a cart line resolved against the catalog
type LineView struct {
	Index       int               `json:"index"`
	ProductID   int64             `json:"product_id"`
	ProductName string            `json:"product_name"`
	ProductCode string            `json:"product_code,omitempty"`
	Quantity    int               `json:"quantity"`
	UnitPrice   valueobject.Money `json:"unit_price"`
	Subtotal    valueobject.Money `json:"subtotal"`
	Resolved    bool              `json:"resolved"`
}

// Totals is the derived money view of a cart. It is never stored.
type Totals struct {
	Lines     []LineView        `json:"lines"`
	Total     valueobject.Money `json:"total"`
	ItemCount int               `json:"item_count"`
}

// CalculateTotals prices lines against snapshot. Lines whose product cannot be
// resolved contribute nothing to the total but still count toward ItemCount.
// The function is pure: the same inputs always give the same result.
func CalculateTotals(lines []LineItem, snapshot *catalog.Snapshot) Totals {
	totals := Totals{
		Lines: make([]LineView, 0, len(lines)),
		Total: valueobject.Zero(),
	}

	for i, line := range lines {
		view := LineView{
			Index:       i,
			ProductID:   line.ProductID,
			ProductName: UnknownProductName,
			Quantity:    line.Quantity,
			UnitPrice:   valueobject.Zero(),
			Subtotal:    valueobject.Zero(),
		}
		if product, ok := snapshot.Find(line.ProductID); ok {
			view.ProductName = product.Name
			view.ProductCode = product.CodeOrEmpty()
			view.UnitPrice = product.UnitPrice
			view.Subtotal = product.UnitPrice.MultiplyByInt(int64(line.Quantity))
			view.Resolved = true
		}
		totals.Lines = append(totals.Lines, view)
		totals.Total = totals.Total.Add(view.Subtotal)
		totals.ItemCount += line.Quantity
	}

	return totals
}
