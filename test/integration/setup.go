package integration

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"
	"time"

	"nexus-storefront/internal/api"
	"nexus-storefront/internal/config"
	"nexus-storefront/internal/model"
	"nexus-storefront/internal/session"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

const testToken = "integration-test-token"

// fakeStorefront is an in-memory stand-in for the storefront backend.
// It computes totals server-side and answers with full snapshots, the
// same contract the real API honours.
type fakeStorefront struct {
	mu          sync.Mutex
	games       map[int64]model.Game
	cart        *model.Cart
	nextItemID  int64
	orders      map[int64]*model.Order
	nextOrderID int64
	qrCodes     map[string]int64 // payment code -> order id
	nextQRSeq   int64
	declineCard bool
}

func newFakeStorefront() *fakeStorefront {
	return &fakeStorefront{
		games: map[int64]model.Game{
			1: {ID: 1, Title: "Hollow Knight", Price: decimal.RequireFromString("14.99")},
			2: {ID: 2, Title: "Hades", Price: decimal.RequireFromString("24.99")},
		},
		orders:  make(map[int64]*model.Order),
		qrCodes: make(map[string]int64),
	}
}

// handler builds the backend's route table. Every route requires the
// bearer token; unauthenticated calls answer 401.
func (f *fakeStorefront) handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /cart", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		if f.cart == nil {
			writeError(w, http.StatusNotFound, "NOT_FOUND", "Carrito no encontrado")
			return
		}
		writeJSON(w, f.cart)
	})

	mux.HandleFunc("POST /cart/items", func(w http.ResponseWriter, r *http.Request) {
		var req model.AddToCartRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "BUSINESS_RULE", "invalid body")
			return
		}

		f.mu.Lock()
		defer f.mu.Unlock()
		game, ok := f.games[req.GameID]
		if !ok {
			writeError(w, http.StatusNotFound, "NOT_FOUND", "Juego no encontrado")
			return
		}
		f.ensureCart()
		merged := false
		for i := range f.cart.Items {
			if f.cart.Items[i].Game.ID == req.GameID {
				f.cart.Items[i].Quantity += req.Quantity
				merged = true
				break
			}
		}
		if !merged {
			f.nextItemID++
			f.cart.Items = append(f.cart.Items, model.CartItem{
				ID:       f.nextItemID,
				Game:     game,
				Quantity: req.Quantity,
				Price:    game.Price,
			})
		}
		f.recompute()
		writeJSON(w, f.cart)
	})

	mux.HandleFunc("PUT /cart/items/{id}", func(w http.ResponseWriter, r *http.Request) {
		itemID, _ := strconv.ParseInt(r.PathValue("id"), 10, 64)
		var req model.UpdateCartItemRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "BUSINESS_RULE", "invalid body")
			return
		}

		f.mu.Lock()
		defer f.mu.Unlock()
		f.ensureCart()
		for i := range f.cart.Items {
			if f.cart.Items[i].ID == itemID {
				f.cart.Items[i].Quantity = req.Quantity
				f.recompute()
				writeJSON(w, f.cart)
				return
			}
		}
		writeError(w, http.StatusNotFound, "NOT_FOUND", "Item no encontrado")
	})

	mux.HandleFunc("DELETE /cart/items/{id}", func(w http.ResponseWriter, r *http.Request) {
		itemID, _ := strconv.ParseInt(r.PathValue("id"), 10, 64)

		f.mu.Lock()
		defer f.mu.Unlock()
		f.ensureCart()
		for i := range f.cart.Items {
			if f.cart.Items[i].ID == itemID {
				f.cart.Items = append(f.cart.Items[:i], f.cart.Items[i+1:]...)
				f.recompute()
				writeJSON(w, f.cart)
				return
			}
		}
		writeError(w, http.StatusNotFound, "NOT_FOUND", "Item no encontrado")
	})

	mux.HandleFunc("DELETE /cart/clear", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		f.cart = nil
		w.WriteHeader(http.StatusOK)
	})

	mux.HandleFunc("POST /orders/checkout", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		if f.cart == nil || len(f.cart.Items) == 0 {
			writeError(w, http.StatusBadRequest, "BUSINESS_RULE", "El carrito está vacío")
			return
		}

		f.nextOrderID++
		order := &model.Order{
			ID:          f.nextOrderID,
			OrderNumber: fmt.Sprintf("NX-%08d", f.nextOrderID),
			Status:      model.OrderStatusPending,
			TotalAmount: f.cart.Total,
		}
		for _, item := range f.cart.Items {
			order.Items = append(order.Items, model.OrderItem{
				ID:              item.ID,
				GameID:          item.Game.ID,
				GameTitle:       item.Game.Title,
				Quantity:        item.Quantity,
				PriceAtPurchase: item.Price,
				Subtotal:        item.Subtotal,
			})
		}
		f.orders[order.ID] = order
		f.cart = nil
		writeJSON(w, order)
	})

	mux.HandleFunc("GET /orders/{id}", func(w http.ResponseWriter, r *http.Request) {
		orderID, _ := strconv.ParseInt(r.PathValue("id"), 10, 64)

		f.mu.Lock()
		defer f.mu.Unlock()
		order, ok := f.orders[orderID]
		if !ok {
			writeError(w, http.StatusNotFound, "NOT_FOUND", "Orden no encontrada")
			return
		}
		writeJSON(w, order)
	})

	mux.HandleFunc("POST /orders/{id}/cancel", func(w http.ResponseWriter, r *http.Request) {
		orderID, _ := strconv.ParseInt(r.PathValue("id"), 10, 64)

		f.mu.Lock()
		defer f.mu.Unlock()
		order, ok := f.orders[orderID]
		if !ok {
			writeError(w, http.StatusNotFound, "NOT_FOUND", "Orden no encontrada")
			return
		}
		if !order.Status.IsPending() {
			writeError(w, http.StatusBadRequest, "BUSINESS_RULE", "La orden ya fue procesada")
			return
		}
		order.Status = model.OrderStatusCancelled
		writeJSON(w, order)
	})

	mux.HandleFunc("GET /orders/my-orders/all", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		summaries := []model.OrderSummary{}
		for _, order := range f.orders {
			count := 0
			for _, item := range order.Items {
				count += item.Quantity
			}
			summaries = append(summaries, model.OrderSummary{
				ID:          order.ID,
				OrderNumber: order.OrderNumber,
				TotalAmount: order.TotalAmount,
				Status:      order.Status,
				ItemCount:   count,
			})
		}
		writeJSON(w, summaries)
	})

	mux.HandleFunc("POST /payments/card", func(w http.ResponseWriter, r *http.Request) {
		var req model.PaymentRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "BUSINESS_RULE", "invalid body")
			return
		}

		f.mu.Lock()
		defer f.mu.Unlock()
		order, ok := f.orders[req.OrderID]
		if !ok {
			writeError(w, http.StatusNotFound, "NOT_FOUND", "Orden no encontrada")
			return
		}
		if f.declineCard {
			writeJSON(w, &model.PaymentResult{
				OrderID:       order.ID,
				OrderNumber:   order.OrderNumber,
				PaymentMethod: model.PaymentMethodCard,
				Status:        model.PaymentStatusFailed,
				Amount:        order.TotalAmount,
				Message:       "Fondos insuficientes",
			})
			return
		}
		order.Status = model.OrderStatusCompleted
		writeJSON(w, &model.PaymentResult{
			OrderID:       order.ID,
			OrderNumber:   order.OrderNumber,
			PaymentMethod: model.PaymentMethodCard,
			Status:        model.PaymentStatusCompleted,
			Amount:        order.TotalAmount,
			CardLastFour:  lastFour(req.CardNumber),
			Message:       "Pago procesado exitosamente",
		})
	})

	mux.HandleFunc("POST /payments/yape/generate-qr", func(w http.ResponseWriter, r *http.Request) {
		orderID, _ := strconv.ParseInt(r.URL.Query().Get("orderId"), 10, 64)

		f.mu.Lock()
		defer f.mu.Unlock()
		order, ok := f.orders[orderID]
		if !ok {
			writeError(w, http.StatusNotFound, "NOT_FOUND", "Orden no encontrada")
			return
		}
		f.nextQRSeq++
		code := fmt.Sprintf("PAY-%06d", f.nextQRSeq)
		f.qrCodes[code] = orderID
		writeJSON(w, &model.YapeQR{
			PaymentCode:      code,
			Amount:           order.TotalAmount,
			QRCodeData:       fmt.Sprintf("YAPE|%s|%s|NEXUS_MARKETPLACE", code, order.TotalAmount),
			ExpiresInSeconds: 300,
		})
	})

	mux.HandleFunc("POST /payments/yape/confirm", func(w http.ResponseWriter, r *http.Request) {
		code := r.URL.Query().Get("paymentCode")

		f.mu.Lock()
		defer f.mu.Unlock()
		orderID, ok := f.qrCodes[code]
		if !ok {
			writeError(w, http.StatusNotFound, "NOT_FOUND", "Código de pago no encontrado")
			return
		}
		order := f.orders[orderID]
		order.Status = model.OrderStatusCompleted
		writeJSON(w, &model.PaymentResult{
			OrderID:       order.ID,
			OrderNumber:   order.OrderNumber,
			PaymentCode:   code,
			PaymentMethod: model.PaymentMethodYape,
			Status:        model.PaymentStatusCompleted,
			Amount:        order.TotalAmount,
			Message:       "Pago confirmado",
		})
	})

	return f.requireAuth(mux)
}

func (f *fakeStorefront) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer "+testToken {
			writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Token inválido o expirado")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (f *fakeStorefront) ensureCart() {
	if f.cart == nil {
		f.cart = &model.Cart{ID: 1, Items: []model.CartItem{}}
	}
}

// recompute derives the money fields the way the real backend does;
// the client must take them as-is.
func (f *fakeStorefront) recompute() {
	total := decimal.Zero
	count := 0
	for i := range f.cart.Items {
		item := &f.cart.Items[i]
		item.Subtotal = item.Price.Mul(decimal.NewFromInt(int64(item.Quantity)))
		total = total.Add(item.Subtotal)
		count += item.Quantity
	}
	f.cart.Total = total
	f.cart.ItemCount = count
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"error":   code,
		"message": message,
	})
}

func lastFour(cardNumber string) string {
	if len(cardNumber) < 4 {
		return cardNumber
	}
	return cardNumber[len(cardNumber)-4:]
}

// setupTestClient starts a fake backend and returns an API client
// authenticated against it.
func setupTestClient(t *testing.T) (*fakeStorefront, *api.Client, *session.Session) {
	t.Helper()

	backend := newFakeStorefront()
	server := httptest.NewServer(backend.handler())
	t.Cleanup(server.Close)

	sess := session.New(testToken, nil)
	client := api.NewClient(config.APIConfig{
		BaseURL:         server.URL,
		Timeout:         5 * time.Second,
		BreakerFailures: 100,
		BreakerCooldown: time.Minute,
	}, sess, zerolog.Nop())

	return backend, client, sess
}
