package sales

import (
	"fmt"

	"github.com/Hillarymukuka/ancestrabusiness/internal/domain/catalog"
	"github.com/Hillarymukuka/ancestrabusiness/internal/domain/shared"
)

// GuardError explains why the stock guard refused a quantity.
// It unwraps to a *shared.DomainError whose code is Reason.
type GuardError struct {
	Reason         string
	Message        string
	ProductID      int64
	ProductName    string
	Requested      int
	AlreadyInCart  int
	OnHand         int
	AvailableUnits int
}

// Error implements the error interface
func (e *GuardError) Error() string {
	return e.Message
}

// Unwrap exposes the domain error so callers can match on the code.
func (e *GuardError) Unwrap() error {
	return shared.NewDomainError(e.Reason, e.Message)
}

// StockGuard checks requested quantities against the on-hand stock in a catalog
// snapshot. The check is advisory: the API re-validates stock when the sale is
// recorded, and nothing is reserved.
type StockGuard struct {
	snapshot *catalog.Snapshot
}

// NewStockGuard creates a guard reading from snapshot
func NewStockGuard(snapshot *catalog.Snapshot) StockGuard {
	return StockGuard{snapshot: snapshot}
}

// CanAdd checks whether requestedQty more units of productID fit on top of what
// the cart already holds. A nil result means the add may proceed.
func (g StockGuard) CanAdd(productID int64, requestedQty int, cart *Cart) error {
	product, ok := g.snapshot.Find(productID)
	if !ok {
		return &GuardError{
			Reason:    CodeProductNotFound,
			Message:   "Please select a product to add",
			ProductID: productID,
			Requested: requestedQty,
		}
	}
	return check(product, requestedQty, cart.QuantityOf(productID))
}

// CanSet checks whether a line for productID may hold newQty units in total.
// The line's current quantity is not counted against stock.
func (g StockGuard) CanSet(productID int64, newQty int) error {
	product, ok := g.snapshot.Find(productID)
	if !ok {
		return &GuardError{
			Reason:    CodeProductNotFound,
			Message:   fmt.Sprintf("Product %d is no longer in the catalog", productID),
			ProductID: productID,
			Requested: newQty,
		}
	}
	return check(product, newQty, 0)
}

func check(product catalog.Product, requested, alreadyInCart int) error {
	available := product.QuantityOnHand - alreadyInCart
	base := GuardError{
		ProductID:      product.ID,
		ProductName:    product.Name,
		Requested:      requested,
		AlreadyInCart:  alreadyInCart,
		OnHand:         product.QuantityOnHand,
		AvailableUnits: available,
	}

	if requested <= 0 {
		base.Reason = CodeInvalidQuantity
		base.Message = "Quantity must be greater than zero"
		return &base
	}

	if requested > available {
		if available <= 0 {
			base.Reason = CodeOutOfStock
			base.Message = fmt.Sprintf(
				"Cannot add %s. No stock available (already %d in sale, %d in inventory).",
				product.Name, alreadyInCart, product.QuantityOnHand,
			)
			return &base
		}
		base.Reason = CodeInsufficientStock
		base.Message = fmt.Sprintf(
			"Inventory low for %s. Only %d units available (%d in stock, %d already in sale).",
			product.Name, available, product.QuantityOnHand, alreadyInCart,
		)
		return &base
	}

	return nil
}
