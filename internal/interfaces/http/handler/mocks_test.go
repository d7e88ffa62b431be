package handler

import (
	"context"
	"time"

	"github.com/Hillarymukuka/ancestrabusiness/internal/application/pos"
	"github.com/Hillarymukuka/ancestrabusiness/internal/domain/catalog"
	"github.com/Hillarymukuka/ancestrabusiness/internal/domain/sales"
	"github.com/Hillarymukuka/ancestrabusiness/internal/domain/shared/valueobject"
	"github.com/stretchr/testify/mock"
)

// MockGateway is a mock implementation of pos.Gateway
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

func (m *MockGateway) CurrentOperator(ctx context.Context) (*pos.Operator, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*pos.Operator), args.Error(1)
}

// upstreamError stands in for an API error carrying the server's detail
type upstreamError struct {
	detail string
}

func (e *upstreamError) Error() string       { return "business api: " + e.detail }
func (e *upstreamError) ErrorDetail() string { return e.detail }

var testNow = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func product(id int64, name string, price float64, onHand, reorder int) catalog.Product {
	return catalog.Product{
		ID:             id,
		Name:           name,
		Category:       "Groceries",
		UnitPrice:      valueobject.NewMoneyFromFloat(price),
		QuantityOnHand: onHand,
		ReorderLevel:   reorder,
	}
}

// shelf is the catalog used by most handler tests: plenty of bread, two milk.
func shelf() []catalog.Product {
	return []catalog.Product{
		product(1, "Bread", 25, 10, 2),
		product(2, "Milk", 18.5, 2, 5),
	}
}

func stockedGateway() *MockGateway {
	gw := new(MockGateway)
	gw.On("ListProducts", mock.Anything).Return(shelf(), nil)
	return gw
}

func newTestTerminal(gw *MockGateway) *pos.Terminal {
	return pos.NewTerminal("sess-1", "mwila", gw, nil, nil, pos.TerminalConfig{
		Clock: func() time.Time { return testNow },
	})
}
