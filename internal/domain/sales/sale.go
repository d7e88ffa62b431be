package sales

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Hillarymukuka/ancestrabusiness/internal/domain/shared/valueobject"
)

// SaleDraft is the payload that records a sale
type SaleDraft struct {
	CustomerName  *string       `json:"customer_name"`
	PaymentMethod PaymentMethod `json:"payment_method"`
	Items         []LineItem    `json:"items"`
}

// SaleItem is a recorded line with the price the API charged
type SaleItem struct {
	ProductID   int64             `json:"product_id"`
	ProductName string            `json:"product_name"`
	Quantity    int               `json:"quantity"`
	UnitPrice   valueobject.Money `json:"unit_price"`
	Subtotal    valueobject.Money `json:"subtotal"`
}

// Sale is a recorded sale as returned by the API
type Sale struct {
	ID            int64             `json:"id"`
	CustomerName  *string           `json:"customer_name"`
	PaymentMethod PaymentMethod     `json:"payment_method"`
	CreatedAt     Timestamp         `json:"created_at"`
	TotalAmount   valueobject.Money `json:"total_amount"`
	ReceiptNumber string            `json:"receipt_number"`
	Items         []SaleItem        `json:"items"`
}

// CustomerDisplay returns the customer name, or "Walk-in" for anonymous sales.
func (s Sale) CustomerDisplay() string {
	if s.CustomerName == nil || *s.CustomerName == "" {
		return "Walk-in"
	}
	return *s.CustomerName
}

// Receipt is the printable record of a sale. Rendering happens server-side;
// the console only forwards the fields.
type Receipt struct {
	Sale           Sale      `json:"sale"`
	ReceiptNumber  string    `json:"receipt_number"`
	IssuedAt       Timestamp `json:"issued_at"`
	HTML           string    `json:"html"`
	QRCode         string    `json:"qr_code"`
	CompanyName    string    `json:"company_name"`
	CompanyLogoURL *string   `json:"company_logo_url,omitempty"`
	CompanyTagline *string   `json:"company_tagline,omitempty"`
	FooterMessage  string    `json:"footer_message"`
}

// Timestamp decodes the API's datetimes, which may omit the zone offset.
// Naive values are taken as UTC.
type Timestamp struct {
	time.Time
}

var naiveLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04:05",
}

// UnmarshalJSON implements json.Unmarshaler
func (t *Timestamp) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		t.Time = time.Time{}
		return nil
	}
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("timestamp must be a string: %w", err)
	}
	if parsed, err := time.Parse(time.RFC3339Nano, raw); err == nil {
		t.Time = parsed
		return nil
	}
	for _, layout := range naiveLayouts {
		if parsed, err := time.ParseInLocation(layout, raw, time.UTC); err == nil {
			t.Time = parsed
			return nil
		}
	}
	return fmt.Errorf("unrecognized timestamp %q", raw)
}

// MarshalJSON implements json.Marshaler
func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(t.Time.Format(time.RFC3339Nano))
}
