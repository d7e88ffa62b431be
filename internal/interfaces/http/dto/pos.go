package dto

import (
	"fmt"
	"strings"
	"time"

	"github.com/Hillarymukuka/ancestrabusiness/internal/application/pos"
	"github.com/Hillarymukuka/ancestrabusiness/internal/domain/catalog"
	"github.com/Hillarymukuka/ancestrabusiness/internal/domain/sales"
)

// CatalogQuery filters the product catalog
type CatalogQuery struct {
	Q     string `form:"q" binding:"max=100"`
	Limit int    `form:"limit" binding:"omitempty,min=1,max=200"`
}

// AddItemRequest adds units of a product to the cart. Quantity defaults to 1.
type AddItemRequest struct {
	ProductID int64 `json:"product_id" binding:"required,gt=0"`
	Quantity  *int  `json:"quantity"`
}

// QuantityOrDefault returns the requested quantity, or 1 when none was sent.
func (r AddItemRequest) QuantityOrDefault() int {
	if r.Quantity == nil {
		return 1
	}
	return *r.Quantity
}

// SetQuantityRequest replaces the quantity of a cart line
type SetQuantityRequest struct {
	Quantity int `json:"quantity"`
}

// LineIndexURI addresses a cart line by position
type LineIndexURI struct {
	Index int `uri:"index" binding:"min=0"`
}

// SaleIDURI addresses a recorded sale
type SaleIDURI struct {
	ID int64 `uri:"id" binding:"required,gt=0"`
}

// UpdateDetailsRequest sets the customer and payment method; omitted fields are kept.
type UpdateDetailsRequest struct {
	CustomerName  *string `json:"customer_name" binding:"omitempty,max=120"`
	PaymentMethod *string `json:"payment_method" binding:"omitempty,payment_method"`
}

// ToInput converts the request to the terminal's input
func (r UpdateDetailsRequest) ToInput() pos.DetailsInput {
	return pos.DetailsInput{CustomerName: r.CustomerName, PaymentMethod: r.PaymentMethod}
}

// HistoryRequest selects the sales history. Dates are either RFC 3339
// timestamps or calendar days (YYYY-MM-DD) in Central Africa Time.
type HistoryRequest struct {
	Range     string `form:"range" binding:"omitempty,oneof=today month all"`
	StartDate string `form:"start_date"`
	EndDate   string `form:"end_date"`
	Customer  string `form:"customer" binding:"max=120"`
}

const dayLayout = "2006-01-02"

// ToQuery converts the request to a history query. A calendar end date
// covers the whole day.
func (r HistoryRequest) ToQuery() (pos.HistoryQuery, error) {
	rng, err := sales.ParseHistoryRange(r.Range)
	if err != nil {
		return pos.HistoryQuery{}, err
	}
	q := pos.HistoryQuery{Range: rng, Customer: strings.TrimSpace(r.Customer)}

	if q.Start, err = parseHistoryDate(r.StartDate, false); err != nil {
		return pos.HistoryQuery{}, fmt.Errorf("start_date: %w", err)
	}
	if q.End, err = parseHistoryDate(r.EndDate, true); err != nil {
		return pos.HistoryQuery{}, fmt.Errorf("end_date: %w", err)
	}
	if q.Start != nil && q.End != nil && q.End.Before(*q.Start) {
		return pos.HistoryQuery{}, fmt.Errorf("end_date must not be before start_date")
	}
	return q, nil
}

func parseHistoryDate(raw string, endOfDay bool) (*time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339Nano, raw); err == nil {
		return &t, nil
	}
	day, err := time.ParseInLocation(dayLayout, raw, sales.CentralAfricaTime())
	if err != nil {
		return nil, fmt.Errorf("expected YYYY-MM-DD or RFC 3339, got %q", raw)
	}
	if endOfDay {
		day = day.AddDate(0, 0, 1).Add(-time.Millisecond)
	}
	return &day, nil
}

// PaymentMethodOption is one entry of the payment method picker
type PaymentMethodOption struct {
	Value   sales.PaymentMethod `json:"value"`
	Label   string              `json:"label"`
	Default bool                `json:"default"`
}

// PaymentMethodOptions lists every supported payment method
func PaymentMethodOptions() []PaymentMethodOption {
	methods := sales.AllPaymentMethods()
	out := make([]PaymentMethodOption, 0, len(methods))
	for _, m := range methods {
		out = append(out, PaymentMethodOption{
			Value:   m,
			Label:   m.Label(),
			Default: m == sales.DefaultPaymentMethod,
		})
	}
	return out
}

// CatalogResponse is a page of catalog search results
type CatalogResponse struct {
	Products []ProductResponse `json:"products"`
	LoadedAt *time.Time        `json:"loaded_at,omitempty"`
	Total    int               `json:"total"`
}

// ProductResponse is a catalog product with its stock flags
type ProductResponse struct {
	ID             int64   `json:"id"`
	Name           string  `json:"name"`
	Code           *string `json:"product_code"`
	Category       string  `json:"category"`
	Price          string  `json:"price"`
	QuantityOnHand int     `json:"quantity"`
	ReorderLevel   int     `json:"reorder_level"`
	LowStock       bool    `json:"low_stock"`
	OutOfStock     bool    `json:"out_of_stock"`
}

// NewProductResponse converts a catalog product
func NewProductResponse(p catalog.Product) ProductResponse {
	return ProductResponse{
		ID:             p.ID,
		Name:           p.Name,
		Code:           p.Code,
		Category:       p.Category,
		Price:          p.UnitPrice.StringFixed(2),
		QuantityOnHand: p.QuantityOnHand,
		ReorderLevel:   p.ReorderLevel,
		LowStock:       p.IsLowStock(),
		OutOfStock:     p.IsOutOfStock(),
	}
}

// NewCatalogResponse converts search results taken from snap
func NewCatalogResponse(products []catalog.Product, snap *catalog.Snapshot) CatalogResponse {
	resp := CatalogResponse{
		Products: make([]ProductResponse, 0, len(products)),
		Total:    len(products),
	}
	for _, p := range products {
		resp.Products = append(resp.Products, NewProductResponse(p))
	}
	if snap != nil && snap.IsLoaded() {
		loadedAt := snap.LoadedAt()
		resp.LoadedAt = &loadedAt
	}
	return resp
}

// OperatorResponse is the signed-in operator as the console sees them
type OperatorResponse struct {
	Username     string `json:"username"`
	FullName     string `json:"full_name,omitempty"`
	Role         string `json:"role,omitempty"`
	OwnSalesOnly bool   `json:"own_sales_only"`
}

// NewOperatorResponse converts an operator profile
func NewOperatorResponse(op *pos.Operator) OperatorResponse {
	if op == nil {
		return OperatorResponse{OwnSalesOnly: true}
	}
	return OperatorResponse{
		Username:     op.Username,
		FullName:     op.FullName,
		Role:         op.Role,
		OwnSalesOnly: op.SeesOnlyOwnSales(),
	}
}
