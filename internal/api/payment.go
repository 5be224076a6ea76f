package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"nexus-storefront/internal/model"
)

// PayWithCard submits a card payment for an order. The response is the
// authoritative result; a declined payment arrives as a 2xx with
// status FAILED.
func (c *Client) PayWithCard(ctx context.Context, req model.PaymentRequest) (*model.PaymentResult, error) {
	var result model.PaymentResult
	if err := c.do(ctx, http.MethodPost, "/payments/card", req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// GenerateYapeQR issues a wallet payment code bound to the order. A
// new call supersedes any code generated before it.
func (c *Client) GenerateYapeQR(ctx context.Context, orderID int64) (*model.YapeQR, error) {
	var qr model.YapeQR
	path := fmt.Sprintf("/payments/yape/generate-qr?orderId=%d", orderID)
	if err := c.do(ctx, http.MethodPost, path, nil, &qr); err != nil {
		return nil, err
	}
	return &qr, nil
}

// ConfirmYapePayment redeems a previously generated payment code.
func (c *Client) ConfirmYapePayment(ctx context.Context, paymentCode string) (*model.PaymentResult, error) {
	var result model.PaymentResult
	path := "/payments/yape/confirm?paymentCode=" + url.QueryEscape(paymentCode)
	if err := c.do(ctx, http.MethodPost, path, nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// PaymentStatus looks up a payment by its code.
func (c *Client) PaymentStatus(ctx context.Context, paymentCode string) (*model.PaymentResult, error) {
	var result model.PaymentResult
	path := "/payments/status/" + url.PathEscape(paymentCode)
	if err := c.do(ctx, http.MethodGet, path, nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}
