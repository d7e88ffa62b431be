package pos

import (
	"time"

	"github.com/Hillarymukuka/ancestrabusiness/internal/domain/sales"
	"github.com/Hillarymukuka/ancestrabusiness/internal/domain/shared/valueobject"
)

// SaleRecordedNotice is shown after the API accepts a sale.
const SaleRecordedNotice = "Sale recorded successfully"

// CartView is the cart as the console renders it
type CartView struct {
	CustomerName  string                `json:"customer_name"`
	PaymentMethod sales.PaymentMethod   `json:"payment_method"`
	Lines         []sales.LineView      `json:"lines"`
	Total         valueobject.Money     `json:"total"`
	ItemCount     int                   `json:"item_count"`
	State         sales.SubmissionState `json:"state"`
	LastOutcome   sales.SubmissionState `json:"last_outcome,omitempty"`
	CanSubmit     bool                  `json:"can_submit"`
}

// SubmitResult reports what happened to a submit request.
// Submitted is false when the request was a no-op (empty cart or submit in flight).
type SubmitResult struct {
	Submitted bool           `json:"submitted"`
	Notice    string         `json:"notice,omitempty"`
	Sale      *sales.Sale    `json:"sale,omitempty"`
	Receipt   *sales.Receipt `json:"receipt,omitempty"`
	Warnings  []string       `json:"warnings,omitempty"`
	Cart      CartView       `json:"cart"`
}

// HistoryQuery selects sales for the history view. Explicit dates override Range.
type HistoryQuery struct {
	Range    sales.HistoryRange
	Start    *time.Time
	End      *time.Time
	Customer string
}

// HistoryView is a page of sales history
type HistoryView struct {
	Sales []sales.Sale      `json:"sales"`
	Mine  bool              `json:"mine"`
	Total valueobject.Money `json:"total"`
}
