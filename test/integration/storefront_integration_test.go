package integration

import (
	"context"
	"testing"

	"nexus-storefront/internal/api"
	"nexus-storefront/internal/cart"
	"nexus-storefront/internal/checkout"
	"nexus-storefront/internal/model"
	"nexus-storefront/internal/notify"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCartLifecycle_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	_, client, _ := setupTestClient(t)
	notifier := notify.NewLogNotifier(zerolog.Nop())
	store := cart.NewStore(client, notifier, zerolog.Nop())
	ctx := context.Background()

	t.Run("first load yields an empty cart", func(t *testing.T) {
		require.NoError(t, store.Load(ctx))
		assert.Equal(t, 0, store.ItemCount())
		assert.True(t, store.Total().IsZero())
	})

	t.Run("adding games accumulates server totals", func(t *testing.T) {
		require.NoError(t, store.Add(ctx, 1, 1))
		require.NoError(t, store.Add(ctx, 2, 2))

		assert.Equal(t, 3, store.ItemCount())
		assert.True(t, store.Total().Equal(decimal.RequireFromString("64.97")),
			"got total %s", store.Total())
	})

	t.Run("adding an existing game merges the line", func(t *testing.T) {
		require.NoError(t, store.Add(ctx, 1, 1))

		snapshot := store.Cart()
		require.Len(t, snapshot.Items, 2)
		assert.Equal(t, 4, store.ItemCount())
	})

	t.Run("increment and decrement round-trip", func(t *testing.T) {
		snapshot := store.Cart()
		itemID := snapshot.Items[0].ID

		require.NoError(t, store.Increment(ctx, itemID))
		require.NoError(t, store.Decrement(ctx, itemID))
		assert.Equal(t, 4, store.ItemCount())
	})

	t.Run("remove drops the line", func(t *testing.T) {
		snapshot := store.Cart()
		itemID := snapshot.Items[0].ID

		require.NoError(t, store.Remove(ctx, itemID))
		assert.Len(t, store.Cart().Items, 1)
	})

	t.Run("clear empties the cart locally and remotely", func(t *testing.T) {
		require.NoError(t, store.Clear(ctx))
		assert.Equal(t, 0, store.ItemCount())

		require.NoError(t, store.Load(ctx))
		assert.Equal(t, 0, store.ItemCount())
	})
}

func TestCheckoutFlows_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	ctx := context.Background()
	notifier := notify.NewLogNotifier(zerolog.Nop())

	placeOrder := func(t *testing.T, client *api.Client) *model.Order {
		t.Helper()
		store := cart.NewStore(client, notifier, zerolog.Nop())
		require.NoError(t, store.Add(ctx, 2, 1))
		order, err := client.Checkout(ctx, model.PaymentMethodCard)
		require.NoError(t, err)
		require.True(t, order.Status.IsPending())
		return order
	}

	t.Run("card payment completes the order", func(t *testing.T) {
		_, client, _ := setupTestClient(t)
		order := placeOrder(t, client)

		flow := checkout.New(client, notifier, zerolog.Nop(), order.ID)
		require.NoError(t, flow.Start(ctx))
		require.NoError(t, flow.SelectMethod(model.PaymentMethodCard))
		require.NoError(t, flow.EnterCard(model.CardDetails{
			CardNumber:  "4111111111111111",
			CardHolder:  "Ana Quispe",
			ExpiryMonth: "12",
			ExpiryYear:  "2028",
			CVV:         "123",
		}))

		result, err := flow.SubmitCard(ctx)
		require.NoError(t, err)
		assert.True(t, result.Completed())
		assert.Equal(t, "1111", result.CardLastFour)

		reloaded, err := client.GetOrder(ctx, order.ID)
		require.NoError(t, err)
		assert.Equal(t, model.OrderStatusCompleted, reloaded.Status)
	})

	t.Run("declined card leaves the order pending for retry", func(t *testing.T) {
		backend, client, _ := setupTestClient(t)
		backend.declineCard = true
		order := placeOrder(t, client)

		flow := checkout.New(client, notifier, zerolog.Nop(), order.ID)
		require.NoError(t, flow.Start(ctx))
		require.NoError(t, flow.SelectMethod(model.PaymentMethodCard))
		require.NoError(t, flow.EnterCard(model.CardDetails{CardNumber: "4000000000000002"}))

		result, err := flow.SubmitCard(ctx)
		require.NoError(t, err)
		assert.False(t, result.Completed())
		assert.Equal(t, "Fondos insuficientes", result.Message)

		require.NoError(t, flow.Retry())
		assert.Equal(t, checkout.PhaseAwaitingMethod, flow.Phase())

		reloaded, err := client.GetOrder(ctx, order.ID)
		require.NoError(t, err)
		assert.True(t, reloaded.Status.IsPending())
	})

	t.Run("yape QR generate and confirm", func(t *testing.T) {
		_, client, _ := setupTestClient(t)
		order := placeOrder(t, client)

		flow := checkout.New(client, notifier, zerolog.Nop(), order.ID)
		require.NoError(t, flow.Start(ctx))
		require.NoError(t, flow.SelectMethod(model.PaymentMethodYape))

		qr, err := flow.GenerateQR(ctx)
		require.NoError(t, err)
		assert.NotEmpty(t, qr.PaymentCode)
		assert.True(t, qr.Amount.Equal(order.TotalAmount))

		// A regenerated code supersedes the first one.
		qr2, err := flow.GenerateQR(ctx)
		require.NoError(t, err)
		assert.NotEqual(t, qr.PaymentCode, qr2.PaymentCode)

		result, err := flow.ConfirmQR(ctx)
		require.NoError(t, err)
		assert.True(t, result.Completed())
		assert.Equal(t, qr2.PaymentCode, result.PaymentCode)
	})

	t.Run("abandoning checkout cancels the order", func(t *testing.T) {
		_, client, _ := setupTestClient(t)
		order := placeOrder(t, client)

		flow := checkout.New(client, notifier, zerolog.Nop(), order.ID)
		require.NoError(t, flow.Start(ctx))
		require.NoError(t, flow.Cancel(ctx))
		flow.Wait()

		reloaded, err := client.GetOrder(ctx, order.ID)
		require.NoError(t, err)
		assert.Equal(t, model.OrderStatusCancelled, reloaded.Status)
	})

	t.Run("order history lists placed orders", func(t *testing.T) {
		_, client, _ := setupTestClient(t)
		placeOrder(t, client)

		summaries, err := client.MyOrders(ctx)
		require.NoError(t, err)
		require.Len(t, summaries, 1)
		assert.Equal(t, 1, summaries[0].ItemCount)
	})
}
