package apiclient

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/Hillarymukuka/ancestrabusiness/internal/application/pos"
	"github.com/Hillarymukuka/ancestrabusiness/internal/domain/catalog"
	"github.com/Hillarymukuka/ancestrabusiness/internal/domain/sales"
)

// queryTimeLayout matches what browsers send for Date.toISOString().
const queryTimeLayout = "2006-01-02T15:04:05.000Z"

var _ pos.Gateway = (*Client)(nil)

// ListProducts fetches the product catalog.
func (c *Client) ListProducts(ctx context.Context) ([]catalog.Product, error) {
	var products []catalog.Product
	if err := c.getJSON(ctx, "/products/", "/products/", nil, &products); err != nil {
		return nil, fmt.Errorf("listing products: %w", err)
	}
	return products, nil
}

// CreateSale records a sale. It is never retried.
func (c *Client) CreateSale(ctx context.Context, draft sales.SaleDraft) (*sales.Sale, error) {
	var sale sales.Sale
	if err := c.postJSON(ctx, "/sales/", draft, &sale); err != nil {
		return nil, fmt.Errorf("creating sale: %w", err)
	}
	return &sale, nil
}

// GetReceipt fetches the printable receipt of a sale.
func (c *Client) GetReceipt(ctx context.Context, saleID int64) (*sales.Receipt, error) {
	var receipt sales.Receipt
	path := "/sales/" + strconv.FormatInt(saleID, 10) + "/receipt"
	if err := c.getJSON(ctx, path, "/sales/{id}/receipt", nil, &receipt); err != nil {
		return nil, fmt.Errorf("fetching receipt for sale %d: %w", saleID, err)
	}
	return &receipt, nil
}

// ListSales fetches the sales history matching filter.
func (c *Client) ListSales(ctx context.Context, filter sales.HistoryFilter) ([]sales.Sale, error) {
	var list []sales.Sale
	if err := c.getJSON(ctx, "/sales/", "/sales/", historyQuery(filter), &list); err != nil {
		return nil, fmt.Errorf("listing sales: %w", err)
	}
	return list, nil
}

// CurrentOperator resolves the user behind the forwarded credential.
func (c *Client) CurrentOperator(ctx context.Context) (*pos.Operator, error) {
	var op pos.Operator
	if err := c.getJSON(ctx, "/auth/me", "/auth/me", nil, &op); err != nil {
		return nil, fmt.Errorf("resolving operator: %w", err)
	}
	return &op, nil
}

func historyQuery(filter sales.HistoryFilter) url.Values {
	q := url.Values{}
	if filter.Mine {
		q.Set("mine", "true")
	}
	if filter.Start != nil {
		q.Set("start_date", formatQueryTime(*filter.Start))
	}
	if filter.End != nil {
		q.Set("end_date", formatQueryTime(*filter.End))
	}
	if filter.Customer != "" {
		q.Set("customer", filter.Customer)
	}
	return q
}

func formatQueryTime(t time.Time) string {
	return t.UTC().Format(queryTimeLayout)
}
