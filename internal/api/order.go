package api

import (
	"context"
	"fmt"
	"net/http"

	"nexus-storefront/internal/model"
)

// Checkout converts the current cart into a pending order.
func (c *Client) Checkout(ctx context.Context, method model.PaymentMethod) (*model.Order, error) {
	req := model.CreateOrderRequest{PaymentMethod: method}
	var order model.Order
	if err := c.do(ctx, http.MethodPost, "/orders/checkout", req, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

// GetOrder fetches one order with its item snapshot.
func (c *Client) GetOrder(ctx context.Context, orderID int64) (*model.Order, error) {
	var order model.Order
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/orders/%d", orderID), nil, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

// CancelOrder cancels a pending order.
func (c *Client) CancelOrder(ctx context.Context, orderID int64) (*model.Order, error) {
	var order model.Order
	if err := c.do(ctx, http.MethodPost, fmt.Sprintf("/orders/%d/cancel", orderID), nil, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

// MyOrders lists all of the user's orders, newest first.
func (c *Client) MyOrders(ctx context.Context) ([]model.OrderSummary, error) {
	var orders []model.OrderSummary
	if err := c.do(ctx, http.MethodGet, "/orders/my-orders/all", nil, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}
