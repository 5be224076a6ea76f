package model

import "github.com/shopspring/decimal"

// Game is the slice of a catalogue entry that a cart line carries.
type Game struct {
	ID          int64           `json:"id"`
	Title       string          `json:"title"`
	HeaderImage string          `json:"headerImage"`
	Price       decimal.Decimal `json:"price"`
}

// CartItem is one game line in the cart. Quantity and subtotal are
// server-computed; the client never recalculates them.
type CartItem struct {
	ID       int64           `json:"id"`
	Game     Game            `json:"game"`
	Quantity int             `json:"quantity"`
	Price    decimal.Decimal `json:"price"`
	Subtotal decimal.Decimal `json:"subtotal"`
}

// Cart is the authoritative server snapshot of the user's cart.
// ItemCount is the sum of line quantities and Total the sum of line
// subtotals, both computed server-side.
type Cart struct {
	ID        int64           `json:"id"`
	Items     []CartItem      `json:"items"`
	Total     decimal.Decimal `json:"total"`
	ItemCount int             `json:"itemCount"`
}

// EmptyCart returns the snapshot used when no server payload is
// available: after a successful clear, or for an anonymous session.
func EmptyCart() *Cart {
	return &Cart{Items: []CartItem{}, Total: decimal.Zero}
}

// Item returns the line with the given id, or nil when it is not in the
// cart.
func (c *Cart) Item(itemID int64) *CartItem {
	for i := range c.Items {
		if c.Items[i].ID == itemID {
			return &c.Items[i]
		}
	}
	return nil
}

// AddToCartRequest is the payload for adding or increasing a line.
type AddToCartRequest struct {
	GameID   int64 `json:"gameId"`
	Quantity int   `json:"quantity"`
}

// UpdateCartItemRequest sets (not adjusts) the quantity of one line.
type UpdateCartItemRequest struct {
	Quantity int `json:"quantity"`
}
