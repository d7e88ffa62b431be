package pos

import (
	"context"
	"sync"
	"time"

	"github.com/Hillarymukuka/ancestrabusiness/internal/domain/catalog"
	"github.com/Hillarymukuka/ancestrabusiness/internal/domain/sales"
	"github.com/Hillarymukuka/ancestrabusiness/internal/domain/shared"
	"github.com/Hillarymukuka/ancestrabusiness/internal/domain/shared/valueobject"
	"github.com/Hillarymukuka/ancestrabusiness/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// Messages used when a read from the API fails without a server detail.
const (
	HistoryLoadFailure = "Failed to load sales history"
	ReceiptLoadFailure = "Unable to load receipt"
)

// DefaultSearchLimit caps catalog search results when the caller gives no limit.
const DefaultSearchLimit = 20

// TerminalConfig tunes a terminal
type TerminalConfig struct {
	SearchLimit int
	Clock       func() time.Time
}

// DetailsInput changes the customer or payment method; nil fields are left alone.
type DetailsInput struct {
	CustomerName  *string
	PaymentMethod *string
}

// Terminal is one operator's point-of-sale session: the catalog they sell from,
// the cart being composed, the submission state, and the last receipt and
// history they looked at.
//
// All methods are safe for concurrent use. Remote calls are made without
// holding the terminal lock; the Submitting state keeps the cart frozen while
// a sale is in flight.
type Terminal struct {
	id          string
	operator    string
	gateway     Gateway
	catalog     *CatalogStore
	recorder    Recorder
	logger      *zap.Logger
	clock       func() time.Time
	searchLimit int

	mu          sync.Mutex
	cart        *sales.Cart
	state       sales.SubmissionState
	lastOutcome sales.SubmissionState
	receipt     *sales.Receipt
	history     []sales.Sale
	lastQuery   HistoryQuery
	identity    *Operator
	lastSeen    time.Time
}

// NewTerminal creates an idle terminal with an empty cart
func NewTerminal(id, operator string, gateway Gateway, recorder Recorder, logger *zap.Logger, cfg TerminalConfig) *Terminal {
	if recorder == nil {
		recorder = NopRecorder{}
	}
	if cfg.Clock == nil {
		cfg.Clock = time.Now
	}
	if cfg.SearchLimit <= 0 {
		cfg.SearchLimit = DefaultSearchLimit
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.With(zap.String("terminal_id", id), zap.String("operator", operator))

	return &Terminal{
		id:          id,
		operator:    operator,
		gateway:     gateway,
		catalog:     NewCatalogStore(gateway, recorder, logger, cfg.Clock),
		recorder:    recorder,
		logger:      logger,
		clock:       cfg.Clock,
		searchLimit: cfg.SearchLimit,
		cart:        sales.NewCart(),
		state:       sales.SubmissionIdle,
		lastQuery:   HistoryQuery{Range: sales.RangeAll},
		lastSeen:    cfg.Clock(),
	}
}

// ID returns the session id
func (t *Terminal) ID() string {
	return t.id
}

// Operator returns the username the terminal belongs to
func (t *Terminal) Operator() string {
	return t.operator
}

// LastSeen returns when the terminal was last used
func (t *Terminal) LastSeen() time.Time {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.lastSeen
}

// IsBusy reports whether a sale is being submitted
func (t *Terminal) IsBusy() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state != sales.SubmissionIdle
}

// Catalog returns the terminal's catalog store
func (t *Terminal) Catalog() *CatalogStore {
	return t.catalog
}

// SearchCatalog filters the catalog by name or code. The catalog is loaded on first use.
// limit <= 0 applies the configured search limit.
func (t *Terminal) SearchCatalog(ctx context.Context, query string, limit int) ([]catalog.Product, error) {
	t.touch()
	snap, err := t.catalog.EnsureLoaded(ctx)
	if err != nil && !snap.IsLoaded() {
		return nil, err
	}
	if limit <= 0 {
		limit = t.searchLimit
	}
	return snap.Search(query, limit), nil
}

// RefreshCatalog reloads the catalog from the API
func (t *Terminal) RefreshCatalog(ctx context.Context) (*catalog.Snapshot, error) {
	t.touch()
	return t.catalog.Load(ctx)
}

// LowStock lists products at or below their reorder level
func (t *Terminal) LowStock(ctx context.Context) ([]catalog.Product, error) {
	t.touch()
	snap, err := t.catalog.EnsureLoaded(ctx)
	if err != nil && !snap.IsLoaded() {
		return nil, err
	}
	return snap.LowStock(), nil
}

// View returns the cart with freshly computed totals
func (t *Terminal) View() CartView {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.lastSeen = t.clock()
	return t.viewLocked()
}

// AddItem puts qty units of productID in the cart after the stock guard accepts them.
// A rejected add leaves the cart unchanged.
func (t *Terminal) AddItem(ctx context.Context, productID int64, qty int) (CartView, error) {
	if _, err := t.catalog.EnsureLoaded(ctx); err != nil && !t.catalog.Current().IsLoaded() {
		return t.View(), err
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	t.lastSeen = t.clock()

	if !t.state.AllowsCartChanges() {
		return t.viewLocked(), sales.ErrCartLocked
	}

	guard := sales.NewStockGuard(t.catalog.Current())
	if err := guard.CanAdd(productID, qty, t.cart); err != nil {
		t.rejected(err, productID, qty)
		return t.viewLocked(), err
	}
	if err := t.cart.Add(productID, qty); err != nil {
		return t.viewLocked(), err
	}

	t.recorder.ItemAdded(qty)
	return t.viewLocked(), nil
}

// SetQuantity changes the quantity of the line at index. The new quantity is
// checked against on-hand stock, not counting the line's current quantity.
func (t *Terminal) SetQuantity(index, qty int) (CartView, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.lastSeen = t.clock()

	if !t.state.AllowsCartChanges() {
		return t.viewLocked(), sales.ErrCartLocked
	}

	line, err := t.cart.Line(index)
	if err != nil {
		return t.viewLocked(), err
	}
	guard := sales.NewStockGuard(t.catalog.Current())
	if err := guard.CanSet(line.ProductID, qty); err != nil {
		t.rejected(err, line.ProductID, qty)
		return t.viewLocked(), err
	}
	if err := t.cart.SetQuantity(index, qty); err != nil {
		return t.viewLocked(), err
	}
	return t.viewLocked(), nil
}

// RemoveItem deletes the line at index
func (t *Terminal) RemoveItem(index int) (CartView, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.lastSeen = t.clock()

	if !t.state.AllowsCartChanges() {
		return t.viewLocked(), sales.ErrCartLocked
	}
	if _, err := t.cart.Remove(index); err != nil {
		return t.viewLocked(), err
	}
	return t.viewLocked(), nil
}

// UpdateDetails sets the customer name and/or payment method
func (t *Terminal) UpdateDetails(input DetailsInput) (CartView, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.lastSeen = t.clock()

	if !t.state.AllowsCartChanges() {
		return t.viewLocked(), sales.ErrCartLocked
	}

	if input.PaymentMethod != nil {
		method, err := sales.ParsePaymentMethod(*input.PaymentMethod)
		if err != nil {
			return t.viewLocked(), err
		}
		if err := t.cart.SetPaymentMethod(method); err != nil {
			return t.viewLocked(), err
		}
	}
	if input.CustomerName != nil {
		t.cart.SetCustomerName(*input.CustomerName)
	}
	return t.viewLocked(), nil
}

// ClearCart empties the cart and restores its defaults
func (t *Terminal) ClearCart() (CartView, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.lastSeen = t.clock()

	if !t.state.AllowsCartChanges() {
		return t.viewLocked(), sales.ErrCartLocked
	}
	t.cart.Clear()
	return t.viewLocked(), nil
}

// Submit records the cart as a sale.
//
// An empty cart, or a submit while another is in flight, is a no-op and returns
// Submitted=false. The API call is detached from ctx cancellation so that an
// operator navigating away still leaves the terminal settled and consistent.
// On rejection the cart is untouched and a SUBMISSION_FAILED error carries the
// server detail. On success the cart is cleared, then catalog, history and the
// new receipt are reloaded; failures there are reported as warnings since the
// sale itself is already recorded.
func (t *Terminal) Submit(ctx context.Context) (*SubmitResult, error) {
	t.mu.Lock()
	t.lastSeen = t.clock()
	if t.state != sales.SubmissionIdle || t.cart.IsEmpty() {
		result := &SubmitResult{Submitted: false, Cart: t.viewLocked()}
		t.mu.Unlock()
		return result, nil
	}
	draft := t.cart.Draft()
	t.setState(sales.SubmissionSubmitting)
	t.mu.Unlock()

	bg, span := telemetry.StartSpan(context.WithoutCancel(ctx), "terminal.submit",
		telemetry.WithAttribute(telemetry.SpanAttrSessionID, t.id),
		telemetry.WithAttribute(telemetry.SpanAttrOperator, t.operator),
		telemetry.WithAttribute(telemetry.SpanAttrLines, len(draft.Items)),
		telemetry.WithAttribute(telemetry.SpanAttrPaymentMethod, string(draft.PaymentMethod)),
	)
	defer span.End()

	started := time.Now()
	sale, err := t.gateway.CreateSale(bg, draft)
	elapsed := time.Since(started)

	if err != nil {
		telemetry.RecordError(span, err)
		t.mu.Lock()
		t.setState(sales.SubmissionFailed)
		t.lastOutcome = sales.SubmissionFailed
		t.setState(sales.SubmissionIdle)
		t.mu.Unlock()

		t.recorder.SaleSubmitted("failed", elapsed)
		t.logger.Warn("Sale submission rejected",
			zap.Error(err),
			zap.Int("lines", len(draft.Items)),
			zap.Duration("elapsed", elapsed))
		return nil, sales.NewSubmissionError(detailOf(err))
	}

	t.mu.Lock()
	t.setState(sales.SubmissionSucceeded)
	t.cart.Clear()
	query := t.lastQuery
	t.mu.Unlock()

	telemetry.SetAttributes(span, telemetry.SpanAttrSaleID, sale.ID)
	t.recorder.SaleSubmitted("succeeded", elapsed)
	t.logger.Info("Sale recorded",
		zap.Int64("sale_id", sale.ID),
		zap.String("receipt_number", sale.ReceiptNumber),
		zap.String("total", sale.TotalAmount.String()),
		zap.Duration("elapsed", elapsed))

	var warnings []string
	if _, err := t.catalog.Load(bg); err != nil {
		warnings = append(warnings, err.Error())
	}

	history, historyErr := t.loadHistory(bg, query)
	if historyErr != nil {
		warnings = append(warnings, historyErr.Error())
	}

	var receipt *sales.Receipt
	if sale.ID != 0 {
		r, err := t.gateway.GetReceipt(bg, sale.ID)
		if err != nil {
			t.logger.Warn("Receipt fetch failed after sale", zap.Int64("sale_id", sale.ID), zap.Error(err))
			warnings = append(warnings, sales.NewFetchError(detailOf(err), ReceiptLoadFailure).Error())
		} else {
			receipt = r
		}
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if historyErr == nil {
		t.history = history.Sales
	}
	if receipt != nil {
		t.receipt = receipt
	}
	t.lastOutcome = sales.SubmissionSucceeded
	t.setState(sales.SubmissionIdle)

	return &SubmitResult{
		Submitted: true,
		Notice:    SaleRecordedNotice,
		Sale:      sale,
		Receipt:   receipt,
		Warnings:  warnings,
		Cart:      t.viewLocked(),
	}, nil
}

// Receipt returns the receipt currently on display, nil if none
func (t *Terminal) Receipt() *sales.Receipt {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.lastSeen = t.clock()
	return t.receipt
}

// ClearReceipt dismisses the receipt on display
func (t *Terminal) ClearReceipt() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.lastSeen = t.clock()
	t.receipt = nil
}

// OpenReceipt fetches the receipt of a past sale and puts it on display
func (t *Terminal) OpenReceipt(ctx context.Context, saleID int64) (*sales.Receipt, error) {
	t.touch()
	receipt, err := t.gateway.GetReceipt(ctx, saleID)
	if err != nil {
		return nil, sales.NewFetchError(detailOf(err), ReceiptLoadFailure)
	}

	t.mu.Lock()
	t.receipt = receipt
	t.mu.Unlock()
	return receipt, nil
}

// History loads sales for q and remembers q for the reload after a submit.
// Cashiers only ever see their own sales.
func (t *Terminal) History(ctx context.Context, q HistoryQuery) (*HistoryView, error) {
	t.touch()
	view, err := t.loadHistory(ctx, q)
	if err != nil {
		return nil, err
	}

	t.mu.Lock()
	t.history = view.Sales
	t.lastQuery = q
	t.mu.Unlock()
	return view, nil
}

// CurrentOperator returns the operator profile, looking it up on first use.
func (t *Terminal) CurrentOperator(ctx context.Context) (*Operator, error) {
	t.mu.Lock()
	cached := t.identity
	t.mu.Unlock()
	if cached != nil {
		return cached, nil
	}

	op, err := t.gateway.CurrentOperator(ctx)
	if err != nil {
		return nil, sales.NewFetchError(detailOf(err), "Unable to load operator profile")
	}

	t.mu.Lock()
	t.identity = op
	t.mu.Unlock()
	return op, nil
}

func (t *Terminal) loadHistory(ctx context.Context, q HistoryQuery) (*HistoryView, error) {
	filter := q.Range.Filter(t.clock(), q.Customer)
	if q.Start != nil {
		filter.Start = q.Start
	}
	if q.End != nil {
		filter.End = q.End
	}

	op, err := t.CurrentOperator(ctx)
	if err != nil {
		// Without a known role, fall back to the narrowest view.
		t.logger.Warn("Operator lookup failed, restricting history to own sales", zap.Error(err))
		op = nil
	}
	filter.Mine = op.SeesOnlyOwnSales()

	list, err := t.gateway.ListSales(ctx, filter)
	if err != nil {
		t.logger.Warn("History load failed", zap.Error(err))
		return nil, sales.NewFetchError(detailOf(err), HistoryLoadFailure)
	}

	total := valueobject.Zero()
	for _, s := range list {
		total = total.Add(s.TotalAmount)
	}
	return &HistoryView{Sales: list, Mine: filter.Mine, Total: total}, nil
}

func (t *Terminal) viewLocked() CartView {
	totals := sales.CalculateTotals(t.cart.Lines(), t.catalog.Current())
	return CartView{
		CustomerName:  t.cart.CustomerName(),
		PaymentMethod: t.cart.PaymentMethod(),
		Lines:         totals.Lines,
		Total:         totals.Total,
		ItemCount:     totals.ItemCount,
		State:         t.state,
		LastOutcome:   t.lastOutcome,
		CanSubmit:     !t.cart.IsEmpty() && t.state == sales.SubmissionIdle,
	}
}

func (t *Terminal) setState(target sales.SubmissionState) {
	if !t.state.CanTransitionTo(target) {
		t.logger.Error("Illegal submission transition",
			zap.String("from", t.state.String()),
			zap.String("to", target.String()))
	}
	t.state = target
}

func (t *Terminal) rejected(err error, productID int64, qty int) {
	code := shared.CodeOf(err)
	t.recorder.GuardRejected(code)
	t.logger.Warn("Stock guard rejected quantity",
		zap.String("reason", code),
		zap.Int64("product_id", productID),
		zap.Int("quantity", qty))
}

func (t *Terminal) touch() {
	t.mu.Lock()
	t.lastSeen = t.clock()
	t.mu.Unlock()
}
