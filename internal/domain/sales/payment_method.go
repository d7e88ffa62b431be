package sales

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// PaymentMethod is how the customer settles a sale
type PaymentMethod string

const (
	PaymentCash         PaymentMethod = "cash"
	PaymentBankTransfer PaymentMethod = "bank_transfer"
	PaymentAirtelMoney  PaymentMethod = "airtel_money"
	PaymentMTNMoney     PaymentMethod = "mtn_money"
)

// DefaultPaymentMethod is selected for every new cart
const DefaultPaymentMethod = PaymentCash

var paymentLabels = map[PaymentMethod]string{
	PaymentCash:         "Cash",
	PaymentBankTransfer: "Bank Transfer",
	PaymentAirtelMoney:  "Airtel Money",
	PaymentMTNMoney:     "MTN Money",
}

// AllPaymentMethods returns the accepted methods in display order
func AllPaymentMethods() []PaymentMethod {
	return []PaymentMethod{PaymentCash, PaymentBankTransfer, PaymentAirtelMoney, PaymentMTNMoney}
}

// IsValid checks if the method is one the API accepts
func (m PaymentMethod) IsValid() bool {
	_, ok := paymentLabels[m]
	return ok
}

// String returns the wire value
func (m PaymentMethod) String() string {
	return string(m)
}

// Label returns the human label. Unknown values are title-cased from snake_case
// so that methods added server-side still render sensibly.
func (m PaymentMethod) Label() string {
	if label, ok := paymentLabels[m]; ok {
		return label
	}
	if m == "" {
		return "Unknown"
	}
	caser := cases.Title(language.Und, cases.NoLower)
	parts := strings.Split(string(m), "_")
	for i, p := range parts {
		parts[i] = caser.String(p)
	}
	return strings.Join(parts, " ")
}

// ParsePaymentMethod validates a raw value. Empty input selects the default.
func ParsePaymentMethod(raw string) (PaymentMethod, error) {
	m := PaymentMethod(strings.TrimSpace(raw))
	if m == "" {
		return DefaultPaymentMethod, nil
	}
	if !m.IsValid() {
		return "", ErrInvalidPaymentMethod
	}
	return m, nil
}
