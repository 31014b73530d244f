package deliveries

import (
	"time"

	"github.com/google/uuid"

	"github.com/okngoo/okngoo-deliveries/internal/money"
)

// ============================================================================
// CALENDAR DATES
// ============================================================================

// DateLayout is the wire format for calendar dates.
const DateLayout = "2006-01-02"

// Date is a calendar date with no time component. Registration and delivery
// dates are business dates in the operator's local calendar, never instants.
type Date struct {
	time.Time
}

// DateOf truncates an instant to its local calendar date.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Time: time.Date(y, m, d, 0, 0, 0, 0, time.UTC)}
}

// Today returns the current local calendar date.
func Today() Date {
	return DateOf(time.Now())
}

// ParseDate parses a "2006-01-02" string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return Date{}, err
	}
	return Date{Time: t}, nil
}

// String renders the date in wire format.
func (d Date) String() string {
	return d.Format(DateLayout)
}

// MarshalJSON renders the date as a "2006-01-02" string.
func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.String() + `"`), nil
}

// UnmarshalJSON parses a "2006-01-02" string.
func (d *Date) UnmarshalJSON(data []byte) error {
	s := string(data)
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// ============================================================================
// DELIVERY STATUS
// ============================================================================

// Status represents the lifecycle state of a delivery record. Values are the
// operator-facing Spanish labels carried over from the original operation.
type Status string

const (
	StatusPending   Status = "Pendiente" // initial, awaiting delivery
	StatusDelivered Status = "Entregado" // received by the customer, counts as a sale
	StatusCancelled Status = "Cancelado" // called off, excluded from sales
)

// IsValid checks if the status is valid.
func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusDelivered, StatusCancelled:
		return true
	default:
		return false
	}
}

// CanDeliver checks if the record can transition to Entregado.
func (s Status) CanDeliver() bool {
	return s == StatusPending
}

// CanCancel checks if the record can transition to Cancelado.
func (s Status) CanCancel() bool {
	return s == StatusPending
}

// CanReopen checks if the record can transition back to Pendiente.
func (s Status) CanReopen() bool {
	return s == StatusDelivered || s == StatusCancelled
}

// ============================================================================
// PAYMENT METHOD
// ============================================================================

// PaymentMethod identifies how the customer paid. It stays unset until the
// operator records it from the tracking view.
type PaymentMethod string

const (
	PaymentCash     PaymentMethod = "Efectivo"
	PaymentTransfer PaymentMethod = "Transferencia"
)

// IsValid checks if the payment method is valid.
func (p PaymentMethod) IsValid() bool {
	return p == PaymentCash || p == PaymentTransfer
}

// ============================================================================
// DELIVERY RECORD ENTITY
// ============================================================================

// DeliveryRecord is one delivery order tracked through its lifecycle.
//
// Total is fixed at creation as Price times Quantity and never recomputed.
// DeliveredOn is present exactly when Status is Entregado.
type DeliveryRecord struct {
	ID            uuid.UUID      `json:"id"`
	Client        string         `json:"client"`
	Product       string         `json:"product"`
	Price         money.Cents    `json:"price_cents"`
	Quantity      int            `json:"quantity"`
	Total         money.Cents    `json:"total_cents"`
	Address       string         `json:"address"`
	Phone         string         `json:"phone"`
	Receiver      string         `json:"receiver"`
	RegisteredOn  Date           `json:"date"`
	DeliveredOn   *Date          `json:"delivery_date,omitempty"`
	OutOfCoverage bool           `json:"out_of_coverage"`
	PaymentMethod *PaymentMethod `json:"payment_method,omitempty"`
	Status        Status         `json:"status"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
}

// ============================================================================
// REQUEST DTOs
// ============================================================================

// RegisterRequest carries the entry form fields for a new delivery.
type RegisterRequest struct {
	Client        string `json:"client" validate:"required"`
	Product       string `json:"product" validate:"required"`
	PriceCents    int64  `json:"price_cents" validate:"required,gt=0"`
	Quantity      int    `json:"quantity" validate:"required,gt=0"`
	Address       string `json:"address" validate:"required"`
	Phone         string `json:"phone" validate:"required"`
	Receiver      string `json:"receiver" validate:"required"`
	Date          string `json:"date" validate:"required"`
	OutOfCoverage *bool  `json:"out_of_coverage" validate:"required"`
}

// SetPaymentMethodRequest assigns or changes the payment method.
type SetPaymentMethodRequest struct {
	PaymentMethod PaymentMethod `json:"payment_method" validate:"required"`
}

// ListFilter narrows tracking and report queries. All predicates are
// optional and combined with AND; date ranges are inclusive.
type ListFilter struct {
	Client       *string
	Status       *Status
	DateFrom     *Date // registration date lower bound
	DateTo       *Date // registration date upper bound
	RegisteredOn *Date // exact registration date
	DeliveredOn  *Date // exact delivery date
}
