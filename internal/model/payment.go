package model

import "github.com/shopspring/decimal"

// PaymentMethod selects how a pending order is paid.
type PaymentMethod string

const (
	PaymentMethodCard PaymentMethod = "CREDIT_CARD"
	PaymentMethodYape PaymentMethod = "YAPE"
)

func (m PaymentMethod) String() string {
	return string(m)
}

// PaymentStatus is the outcome of a payment as reported by the server.
type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "PENDING"
	PaymentStatusCompleted PaymentStatus = "COMPLETED"
	PaymentStatusFailed    PaymentStatus = "FAILED"
)

// CardDetails are the raw card fields entered by the user. The client
// performs no validation beyond requiring them; the server is the
// authority.
type CardDetails struct {
	CardNumber  string `json:"cardNumber"`
	CardHolder  string `json:"cardHolder"`
	ExpiryMonth string `json:"expiryMonth"`
	ExpiryYear  string `json:"expiryYear"`
	CVV         string `json:"cvv"`
}

// PaymentRequest is the single card-payment submission payload: order,
// method and card fields travel together in one call.
type PaymentRequest struct {
	OrderID       int64         `json:"orderId"`
	PaymentMethod PaymentMethod `json:"paymentMethod"`
	CardNumber    string        `json:"cardNumber,omitempty"`
	CardHolder    string        `json:"cardHolder,omitempty"`
	ExpiryMonth   string        `json:"expiryMonth,omitempty"`
	ExpiryYear    string        `json:"expiryYear,omitempty"`
	CVV           string        `json:"cvv,omitempty"`
}

// NewCardPaymentRequest builds the submission payload for a card
// payment against the given order.
func NewCardPaymentRequest(orderID int64, card CardDetails) PaymentRequest {
	return PaymentRequest{
		OrderID:       orderID,
		PaymentMethod: PaymentMethodCard,
		CardNumber:    card.CardNumber,
		CardHolder:    card.CardHolder,
		ExpiryMonth:   card.ExpiryMonth,
		ExpiryYear:    card.ExpiryYear,
		CVV:           card.CVV,
	}
}

// PaymentResult is the authoritative outcome of a payment attempt. A
// FAILED status inside a successful HTTP response is a declined
// payment, not a transport error.
type PaymentResult struct {
	ID            int64           `json:"id"`
	OrderID       int64           `json:"orderId"`
	OrderNumber   string          `json:"orderNumber"`
	PaymentCode   string          `json:"paymentCode"`
	PaymentMethod PaymentMethod   `json:"paymentMethod"`
	Status        PaymentStatus   `json:"status"`
	Amount        decimal.Decimal `json:"amount"`
	CardLastFour  string          `json:"cardLastFour,omitempty"`
	Message       string          `json:"message"`
	PaidAt        *Timestamp      `json:"paidAt,omitempty"`
}

// Completed reports whether the attempt settled the order.
func (r *PaymentResult) Completed() bool {
	return r.Status == PaymentStatusCompleted
}

// YapeQR is a server-issued wallet payment code bound to one order,
// redeemed through a confirm call.
type YapeQR struct {
	PaymentCode      string          `json:"paymentCode"`
	Amount           decimal.Decimal `json:"amount"`
	QRCodeData       string          `json:"qrCodeData"`
	YapeDeepLink     string          `json:"yapeDeepLink,omitempty"`
	ExpiresAt        *Timestamp      `json:"expiresAt,omitempty"`
	ExpiresInSeconds int             `json:"expiresInSeconds,omitempty"`
	Instructions     string          `json:"instructions,omitempty"`
}
