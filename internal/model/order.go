package model

import "github.com/shopspring/decimal"

// OrderStatus is the server-side lifecycle state of an order.
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "PENDING"
	OrderStatusCompleted OrderStatus = "COMPLETED"
	OrderStatusCancelled OrderStatus = "CANCELLED"
)

// IsPending reports whether the order can still be paid.
func (s OrderStatus) IsPending() bool {
	return s == OrderStatusPending
}

// IsTerminal reports whether the order has left PENDING; the client
// never attempts payment on a terminal order.
func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusCompleted || s == OrderStatusCancelled
}

func (s OrderStatus) String() string {
	return string(s)
}

// OrderItem is an immutable snapshot of one purchased line.
type OrderItem struct {
	ID              int64           `json:"id"`
	GameID          int64           `json:"gameId"`
	GameTitle       string          `json:"gameTitle"`
	GameImage       string          `json:"gameImage"`
	Quantity        int             `json:"quantity"`
	PriceAtPurchase decimal.Decimal `json:"priceAtPurchase"`
	Subtotal        decimal.Decimal `json:"subtotal"`
}

// Order is a purchase intent created from a cart snapshot. Items never
// change after creation.
type Order struct {
	ID          int64           `json:"id"`
	OrderNumber string          `json:"orderNumber"`
	Status      OrderStatus     `json:"status"`
	Items       []OrderItem     `json:"items"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
	CreatedAt   *Timestamp      `json:"createdAt,omitempty"`
}

// OrderSummary is the condensed shape the order-history listing uses.
type OrderSummary struct {
	ID          int64           `json:"id"`
	OrderNumber string          `json:"orderNumber"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
	Status      OrderStatus     `json:"status"`
	ItemCount   int             `json:"itemCount"`
	CreatedAt   *Timestamp      `json:"createdAt,omitempty"`
}

// CreateOrderRequest converts the current cart into a pending order.
type CreateOrderRequest struct {
	PaymentMethod PaymentMethod `json:"paymentMethod"`
}
