package pos

import (
	"context"
	"time"

	"github.com/Hillarymukuka/ancestrabusiness/internal/domain/catalog"
	"github.com/Hillarymukuka/ancestrabusiness/internal/domain/sales"
	"github.com/Hillarymukuka/ancestrabusiness/internal/domain/shared/valueobject"
	"github.com/stretchr/testify/mock"
)

// MockGateway is a mock implementation of Gateway
type MockGateway struct {
	mock.Mock
}

func (m *MockGateway) ListProducts(ctx context.Context) ([]catalog.Product, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.Product), args.Error(1)
}

func (m *MockGateway) CreateSale(ctx context.Context, draft sales.SaleDraft) (*sales.Sale, error) {
	args := m.Called(ctx, draft)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*sales.Sale), args.Error(1)
}

func (m *MockGateway) GetReceipt(ctx context.Context, saleID int64) (*sales.Receipt, error) {
	args := m.Called(ctx, saleID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*sales.Receipt), args.Error(1)
}

func (m *MockGateway) ListSales(ctx context.Context, filter sales.HistoryFilter) ([]sales.Sale, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]sales.Sale), args.Error(1)
}

func (m *MockGateway) CurrentOperator(ctx context.Context) (*Operator, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Operator), args.Error(1)
}

// remoteError mimics an API error carrying a server detail
type remoteError struct {
	status int
	detail string
}

func (e *remoteError) Error() string       { return "api error: " + e.detail }
func (e *remoteError) ErrorDetail() string { return e.detail }

// Test helpers
func testProduct(id int64, name string, price float64, onHand int) catalog.Product {
	return catalog.Product{
		ID:             id,
		Name:           name,
		Category:       "General",
		UnitPrice:      valueobject.NewMoneyFromFloat(price),
		QuantityOnHand: onHand,
		ReorderLevel:   1,
	}
}

func fixedClock(at time.Time) func() time.Time {
	return func() time.Time { return at }
}
