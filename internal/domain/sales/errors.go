package sales

import "github.com/Hillarymukuka/ancestrabusiness/internal/domain/shared"

// Error codes raised by the point-of-sale domain.
const (
	CodeProductNotFound      = "PRODUCT_NOT_FOUND"
	CodeInvalidQuantity      = "INVALID_QUANTITY"
	CodeOutOfStock           = "OUT_OF_STOCK"
	CodeInsufficientStock    = "INSUFFICIENT_STOCK"
	CodeSubmissionFailed     = "SUBMISSION_FAILED"
	CodeFetchFailed          = "FETCH_FAILED"
	CodeCartLocked           = "CART_LOCKED"
	CodeLineNotFound         = "LINE_NOT_FOUND"
	CodeInvalidPaymentMethod = "INVALID_PAYMENT_METHOD"
)

var (
	ErrCartLocked           = shared.NewDomainError(CodeCartLocked, "A sale is being submitted; the cart cannot change until it settles")
	ErrLineNotFound         = shared.NewDomainError(CodeLineNotFound, "Line item not found")
	ErrInvalidQuantity      = shared.NewDomainError(CodeInvalidQuantity, "Quantity must be greater than zero")
	ErrInvalidPaymentMethod = shared.NewDomainError(CodeInvalidPaymentMethod, "Unsupported payment method")
)

// DefaultSubmissionFailure is shown when the API rejects a sale without a usable detail.
const DefaultSubmissionFailure = "Unable to create sale"

// NewSubmissionError wraps the API's rejection detail, or the default message when detail is empty.
func NewSubmissionError(detail string) *shared.DomainError {
	if detail == "" {
		detail = DefaultSubmissionFailure
	}
	return shared.NewDomainError(CodeSubmissionFailed, detail)
}

// NewFetchError reports a failed read from the API, preferring the server detail over fallback.
func NewFetchError(detail, fallback string) *shared.DomainError {
	if detail == "" {
		detail = fallback
	}
	return shared.NewDomainError(CodeFetchFailed, detail)
}
