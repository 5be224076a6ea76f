package api

import (
	"context"
	"fmt"
	"net/http"

	"nexus-storefront/internal/model"
)

// GetCart fetches the current cart.
func (c *Client) GetCart(ctx context.Context) (*model.Cart, error) {
	var cart model.Cart
	if err := c.do(ctx, http.MethodGet, "/cart", nil, &cart); err != nil {
		return nil, err
	}
	return &cart, nil
}

// AddItem adds a game to the cart, or increases its line when already
// present. The response is the full replacement snapshot.
func (c *Client) AddItem(ctx context.Context, gameID int64, quantity int) (*model.Cart, error) {
	req := model.AddToCartRequest{GameID: gameID, Quantity: quantity}
	var cart model.Cart
	if err := c.do(ctx, http.MethodPost, "/cart/items", req, &cart); err != nil {
		return nil, err
	}
	return &cart, nil
}

// UpdateItem sets the quantity of one cart line.
func (c *Client) UpdateItem(ctx context.Context, itemID int64, quantity int) (*model.Cart, error) {
	req := model.UpdateCartItemRequest{Quantity: quantity}
	var cart model.Cart
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/cart/items/%d", itemID), req, &cart); err != nil {
		return nil, err
	}
	return &cart, nil
}

// RemoveItem deletes one cart line.
func (c *Client) RemoveItem(ctx context.Context, itemID int64) (*model.Cart, error) {
	var cart model.Cart
	if err := c.do(ctx, http.MethodDelete, fmt.Sprintf("/cart/items/%d", itemID), nil, &cart); err != nil {
		return nil, err
	}
	return &cart, nil
}

// ClearCart empties the cart. The server sends no snapshot back.
func (c *Client) ClearCart(ctx context.Context) error {
	return c.do(ctx, http.MethodDelete, "/cart/clear", nil, nil)
}
