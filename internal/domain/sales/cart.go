package sales

import (
	"fmt"
	"strings"

	"github.com/Hillarymukuka/ancestrabusiness/internal/domain/shared"
)

// LineItem is one product in the cart. A cart holds at most one line per product.
type LineItem struct {
	ProductID int64 `json:"product_id"`
	Quantity  int   `json:"quantity"`
}

// Cart is the sale being composed at the counter. It lives only in memory and
// is discarded once the sale is recorded or the operator clears it.
//
// Cart is not safe for concurrent use; the owning terminal serializes access.
type Cart struct {
	customerName  string
	paymentMethod PaymentMethod
	lines         []LineItem
}

// NewCart creates an empty cart with the default payment method
func NewCart() *Cart {
	return &Cart{paymentMethod: DefaultPaymentMethod}
}

// CustomerName returns the optional customer name
func (c *Cart) CustomerName() string {
	return c.customerName
}

// PaymentMethod returns the selected payment method
func (c *Cart) PaymentMethod() PaymentMethod {
	return c.paymentMethod
}

// Lines returns a copy of the line items in insertion order
func (c *Cart) Lines() []LineItem {
	out := make([]LineItem, len(c.lines))
	copy(out, c.lines)
	return out
}

// Len returns the number of lines
func (c *Cart) Len() int {
	return len(c.lines)
}

// IsEmpty reports whether the cart has no lines
func (c *Cart) IsEmpty() bool {
	return len(c.lines) == 0
}

// QuantityOf returns the quantity already in the cart for productID, 0 if absent.
func (c *Cart) QuantityOf(productID int64) int {
	for _, l := range c.lines {
		if l.ProductID == productID {
			return l.Quantity
		}
	}
	return 0
}

// TotalItems returns the sum of all line quantities
func (c *Cart) TotalItems() int {
	total := 0
	for _, l := range c.lines {
		total += l.Quantity
	}
	return total
}

// Add merges qty into the existing line for productID, or appends a new line.
// Callers run the stock guard first; Add itself only rejects non-positive quantities.
func (c *Cart) Add(productID int64, qty int) error {
	if qty <= 0 {
		return ErrInvalidQuantity
	}
	for i := range c.lines {
		if c.lines[i].ProductID == productID {
			c.lines[i].Quantity += qty
			return nil
		}
	}
	c.lines = append(c.lines, LineItem{ProductID: productID, Quantity: qty})
	return nil
}

// SetQuantity replaces the quantity of the line at index.
func (c *Cart) SetQuantity(index, qty int) error {
	if err := c.checkIndex(index); err != nil {
		return err
	}
	if qty <= 0 {
		return ErrInvalidQuantity
	}
	c.lines[index].Quantity = qty
	return nil
}

// Remove deletes the line at index; later lines shift down by one.
func (c *Cart) Remove(index int) (LineItem, error) {
	if err := c.checkIndex(index); err != nil {
		return LineItem{}, err
	}
	removed := c.lines[index]
	c.lines = append(c.lines[:index], c.lines[index+1:]...)
	return removed, nil
}

// Line returns the line at index
func (c *Cart) Line(index int) (LineItem, error) {
	if err := c.checkIndex(index); err != nil {
		return LineItem{}, err
	}
	return c.lines[index], nil
}

// SetCustomerName records the optional customer name; surrounding whitespace is dropped.
func (c *Cart) SetCustomerName(name string) {
	c.customerName = strings.TrimSpace(name)
}

// SetPaymentMethod selects how the sale will be paid
func (c *Cart) SetPaymentMethod(m PaymentMethod) error {
	if !m.IsValid() {
		return ErrInvalidPaymentMethod
	}
	c.paymentMethod = m
	return nil
}

// Clear empties the cart and restores the defaults for customer and payment method.
func (c *Cart) Clear() {
	c.lines = nil
	c.customerName = ""
	c.paymentMethod = DefaultPaymentMethod
}

// Clone returns a deep copy
func (c *Cart) Clone() *Cart {
	return &Cart{
		customerName:  c.customerName,
		paymentMethod: c.paymentMethod,
		lines:         c.Lines(),
	}
}

// Draft builds the payload sent to the API when the sale is submitted.
func (c *Cart) Draft() SaleDraft {
	draft := SaleDraft{
		PaymentMethod: c.paymentMethod,
		Items:         c.Lines(),
	}
	if c.customerName != "" {
		name := c.customerName
		draft.CustomerName = &name
	}
	return draft
}

func (c *Cart) checkIndex(index int) error {
	if index < 0 || index >= len(c.lines) {
		return shared.NewDomainError(CodeLineNotFound, fmt.Sprintf("No line item at position %d", index))
	}
	return nil
}
