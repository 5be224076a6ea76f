package checkout

import (
	"context"
	"fmt"
	"sync"
	"time"

	"nexus-storefront/internal/model"
	"nexus-storefront/internal/notify"

	"github.com/rs/zerolog"
)

// cancelTimeout bounds the best-effort order cancellation request.
const cancelTimeout = 5 * time.Second

// API is the slice of the storefront API the checkout flow depends on.
type API interface {
	GetOrder(ctx context.Context, orderID int64) (*model.Order, error)
	CancelOrder(ctx context.Context, orderID int64) (*model.Order, error)
	PayWithCard(ctx context.Context, req model.PaymentRequest) (*model.PaymentResult, error)
	GenerateYapeQR(ctx context.Context, orderID int64) (*model.YapeQR, error)
	ConfirmYapePayment(ctx context.Context, paymentCode string) (*model.PaymentResult, error)
}

// Checkout drives the payment state machine for one order: method
// selection, card submission, the QR generate/confirm lifecycle and
// best-effort cancellation. Network failures produce a FAILED result
// or leave the prior phase intact; they never abort the flow.
type Checkout struct {
	api      API
	notifier notify.Notifier
	logger   zerolog.Logger
	orderID  int64

	mu     sync.Mutex
	phase  Phase
	order  *model.Order
	method model.PaymentMethod
	card   *model.CardDetails
	qr     *model.YapeQR
	result *model.PaymentResult

	background sync.WaitGroup
}

// New creates a checkout flow for an already-created order.
func New(api API, notifier notify.Notifier, logger zerolog.Logger, orderID int64) *Checkout {
	return &Checkout{
		api:      api,
		notifier: notifier,
		logger:   logger.With().Str("component", "checkout").Int64("order_id", orderID).Logger(),
		orderID:  orderID,
		phase:    PhaseLoadingOrder,
	}
}

// Start loads the order backing this checkout. A non-pending order is
// still exposed for display, but every submission path refuses it.
func (c *Checkout) Start(ctx context.Context) error {
	c.mu.Lock()
	if c.phase != PhaseLoadingOrder {
		c.mu.Unlock()
		return ErrIllegalTransition
	}
	c.mu.Unlock()

	order, err := c.api.GetOrder(ctx, c.orderID)
	if err != nil {
		c.logger.Error().Err(err).Msg("failed to load order")
		c.notifier.Error(model.UserMessage(err, "could not load the order"))
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.order = order
	c.phase = PhaseAwaitingMethod
	if !order.Status.IsPending() {
		c.notifier.Error("this order has already been processed")
	}
	return nil
}

// SelectMethod picks the payment method. Methods are mutually
// exclusive: switching drops the other method's transient state.
func (c *Checkout) SelectMethod(method model.PaymentMethod) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch c.phase {
	case PhaseAwaitingMethod, PhaseCardForm, PhaseYapeQR:
	default:
		return ErrIllegalTransition
	}
	if err := c.requirePendingLocked(); err != nil {
		return err
	}

	switch method {
	case model.PaymentMethodCard:
		c.qr = nil
		c.method = method
		c.phase = PhaseCardForm
	case model.PaymentMethodYape:
		c.card = nil
		c.method = method
		// The QR branch idles at method selection until a code exists.
		c.phase = PhaseAwaitingMethod
	default:
		return fmt.Errorf("unsupported payment method %q", method)
	}
	return nil
}

// EnterCard records the card fields to submit. No validation happens
// here; the server is the authority on the card data.
func (c *Checkout) EnterCard(details model.CardDetails) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.phase != PhaseCardForm {
		return ErrIllegalTransition
	}
	c.card = &details
	return nil
}

// SubmitCard sends the card payment in a single call. The response,
// or a synthesized FAILED result when the call itself fails, becomes
// the attempt's terminal result.
func (c *Checkout) SubmitCard(ctx context.Context) (*model.PaymentResult, error) {
	c.mu.Lock()
	if c.phase != PhaseCardForm {
		c.mu.Unlock()
		return nil, ErrIllegalTransition
	}
	if err := c.requirePendingLocked(); err != nil {
		c.mu.Unlock()
		return nil, err
	}
	if c.card == nil {
		c.mu.Unlock()
		return nil, ErrNoCardDetails
	}
	req := model.NewCardPaymentRequest(c.orderID, *c.card)
	c.phase = PhaseSubmitting
	c.mu.Unlock()

	result, err := c.api.PayWithCard(ctx, req)
	if err != nil {
		c.logger.Warn().Err(err).Msg("card payment failed")
		result = &model.PaymentResult{
			OrderID:       c.orderID,
			PaymentMethod: model.PaymentMethodCard,
			Status:        model.PaymentStatusFailed,
			Message:       model.UserMessage(err, "the payment could not be processed"),
		}
	}

	c.finishAttempt(result)
	return result, nil
}

// GenerateQR requests a wallet payment code for the order. A fresh
// code supersedes any previous one; on failure the user is back at
// method selection.
func (c *Checkout) GenerateQR(ctx context.Context) (*model.YapeQR, error) {
	c.mu.Lock()
	if c.method != model.PaymentMethodYape || (c.phase != PhaseAwaitingMethod && c.phase != PhaseYapeQR) {
		c.mu.Unlock()
		return nil, ErrIllegalTransition
	}
	if err := c.requirePendingLocked(); err != nil {
		c.mu.Unlock()
		return nil, err
	}
	c.mu.Unlock()

	qr, err := c.api.GenerateYapeQR(ctx, c.orderID)
	if err != nil {
		c.logger.Warn().Err(err).Msg("failed to generate QR")
		c.notifier.Error(model.UserMessage(err, "could not generate the QR code"))
		c.mu.Lock()
		c.qr = nil
		c.phase = PhaseAwaitingMethod
		c.mu.Unlock()
		return nil, err
	}

	c.mu.Lock()
	c.qr = qr
	c.phase = PhaseYapeQR
	c.mu.Unlock()

	c.logger.Info().Str("payment_code", qr.PaymentCode).Msg("QR generated")
	c.notifier.Success("QR generated, scan it with your Yape app")
	return qr, nil
}

// ConfirmQR redeems the last-generated payment code. Confirmation
// failure keeps the QR on screen so the user can retry or regenerate.
func (c *Checkout) ConfirmQR(ctx context.Context) (*model.PaymentResult, error) {
	c.mu.Lock()
	if c.phase != PhaseYapeQR {
		c.mu.Unlock()
		return nil, ErrIllegalTransition
	}
	if c.qr == nil {
		c.mu.Unlock()
		return nil, ErrNoQR
	}
	code := c.qr.PaymentCode
	c.phase = PhaseSubmitting
	c.mu.Unlock()

	result, err := c.api.ConfirmYapePayment(ctx, code)
	if err != nil {
		c.logger.Warn().Err(err).Str("payment_code", code).Msg("yape confirmation failed")
		c.notifier.Error(model.UserMessage(err, "could not confirm the payment"))
		c.mu.Lock()
		c.phase = PhaseYapeQR
		c.mu.Unlock()
		return nil, err
	}

	c.finishAttempt(result)
	return result, nil
}

// DiscardQR drops the current code so a new one can be generated.
func (c *Checkout) DiscardQR() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.phase != PhaseYapeQR {
		return ErrIllegalTransition
	}
	c.qr = nil
	c.phase = PhaseAwaitingMethod
	return nil
}

// Retry returns to method selection after a failed attempt, dropping
// the attempt's transient state.
func (c *Checkout) Retry() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.phase != PhaseResult || c.result == nil || c.result.Completed() {
		return ErrIllegalTransition
	}
	c.result = nil
	c.card = nil
	c.qr = nil
	c.phase = PhaseAwaitingMethod
	return nil
}

// Cancel abandons the flow and asks the server to cancel the pending
// order. The request is best effort and runs in the background: the
// user is never held back waiting for the cleanup call, and its
// failure is reported on its own.
func (c *Checkout) Cancel(ctx context.Context) error {
	c.mu.Lock()
	if !c.phase.CanCancel() {
		c.mu.Unlock()
		return ErrIllegalTransition
	}
	c.phase = PhaseCancelled
	c.mu.Unlock()

	c.background.Add(1)
	go func() {
		defer c.background.Done()
		cancelCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), cancelTimeout)
		defer cancel()
		if _, err := c.api.CancelOrder(cancelCtx, c.orderID); err != nil {
			c.logger.Warn().Err(err).Msg("order cancellation failed")
			c.notifier.Error(model.UserMessage(err, "the order could not be cancelled"))
			return
		}
		c.logger.Info().Msg("order cancelled")
	}()
	return nil
}

// Wait blocks until background cancellation requests have settled.
func (c *Checkout) Wait() {
	c.background.Wait()
}

// Phase returns the current flow phase.
func (c *Checkout) Phase() Phase {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.phase
}

// Order returns the loaded order, nil before Start succeeds.
func (c *Checkout) Order() *model.Order {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order
}

// Method returns the selected payment method, empty before selection.
func (c *Checkout) Method() model.PaymentMethod {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.method
}

// QR returns the last-generated payment code, nil when none is active.
func (c *Checkout) QR() *model.YapeQR {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.qr
}

// Result returns the attempt's terminal result, nil until one exists.
func (c *Checkout) Result() *model.PaymentResult {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.result
}

// finishAttempt installs the authoritative result and reports it. A
// COMPLETED status is trusted as the completion signal; the library
// transfer happens server-side.
func (c *Checkout) finishAttempt(result *model.PaymentResult) {
	c.mu.Lock()
	c.result = result
	c.phase = PhaseResult
	if result.Completed() && c.order != nil {
		c.order.Status = model.OrderStatusCompleted
	}
	c.mu.Unlock()

	if result.Completed() {
		c.notifier.Success("payment successful")
		return
	}
	msg := result.Message
	if msg == "" {
		msg = "payment declined"
	}
	c.notifier.Error(msg)
}

func (c *Checkout) requirePendingLocked() error {
	if c.order == nil || !c.order.Status.IsPending() {
		return ErrOrderNotPending
	}
	return nil
}
