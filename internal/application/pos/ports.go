package pos

import (
	"context"
	"time"

	"github.com/Hillarymukuka/ancestrabusiness/internal/domain/catalog"
	"github.com/Hillarymukuka/ancestrabusiness/internal/domain/sales"
)

// CatalogSource lists the products currently for sale
type CatalogSource interface {
	ListProducts(ctx context.Context) ([]catalog.Product, error)
}

// SalesGateway records sales and reads them back
type SalesGateway interface {
	CreateSale(ctx context.Context, draft sales.SaleDraft) (*sales.Sale, error)
	GetReceipt(ctx context.Context, saleID int64) (*sales.Receipt, error)
	ListSales(ctx context.Context, filter sales.HistoryFilter) ([]sales.Sale, error)
}

// IdentitySource resolves the operator behind the request credential
type IdentitySource interface {
	CurrentOperator(ctx context.Context) (*Operator, error)
}

// Gateway is everything a terminal needs from the business API.
type Gateway interface {
	CatalogSource
	SalesGateway
	IdentitySource
}

// Operator is the signed-in user working a terminal
type Operator struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	FullName string `json:"full_name"`
	Role     string `json:"role"`
}

// RoleCashier may only see their own sales in the history.
const RoleCashier = "cashier"

// SeesOnlyOwnSales reports whether history must be restricted to the operator's sales.
func (o *Operator) SeesOnlyOwnSales() bool {
	return o == nil || o.Role == RoleCashier
}

// Recorder receives point-of-sale events for monitoring.
type Recorder interface {
	ItemAdded(qty int)
	GuardRejected(reason string)
	SaleSubmitted(outcome string, duration time.Duration)
	CatalogLoaded(products int, err error)
	SessionsActive(n int)
}

// NopRecorder discards every event
type NopRecorder struct{}

func (NopRecorder) ItemAdded(int)                       {}
func (NopRecorder) GuardRejected(string)                {}
func (NopRecorder) SaleSubmitted(string, time.Duration) {}
func (NopRecorder) CatalogLoaded(int, error)            {}
func (NopRecorder) SessionsActive(int)                  {}
