package cart

import (
	"context"
	"sync"

	"nexus-storefront/internal/model"
	"nexus-storefront/internal/notify"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// API is the slice of the storefront API the cart store depends on.
type API interface {
	GetCart(ctx context.Context) (*model.Cart, error)
	AddItem(ctx context.Context, gameID int64, quantity int) (*model.Cart, error)
	UpdateItem(ctx context.Context, itemID int64, quantity int) (*model.Cart, error)
	RemoveItem(ctx context.Context, itemID int64) (*model.Cart, error)
	ClearCart(ctx context.Context) error
}

// Store is the single source of truth for what the user is about to
// buy. Every mutation is a server round-trip whose response replaces
// the whole local snapshot; the store never merges or recomputes
// totals itself. The one exception is Clear, which synthesizes the
// empty cart locally because the server sends no echo.
type Store struct {
	api      API
	notifier notify.Notifier
	logger   zerolog.Logger

	mu      sync.Mutex
	cart    *model.Cart
	pending int
	nextSeq uint64 // sequence handed to the next round-trip
	applied uint64 // sequence of the last applied snapshot

	guard *inFlightGuard
}

// NewStore creates a cart store.
func NewStore(api API, notifier notify.Notifier, logger zerolog.Logger) *Store {
	return &Store{
		api:      api,
		notifier: notifier,
		logger:   logger.With().Str("component", "cart").Logger(),
		guard:    newInFlightGuard(),
	}
}

// begin allocates a sequence number for one server round-trip and
// marks the store as loading.
func (s *Store) begin() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending++
	s.nextSeq++
	return s.nextSeq
}

func (s *Store) finish() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending--
}

// applySnapshot installs a server snapshot unless a newer response has
// already been applied. Responses may complete out of order across
// different items; the sequence check keeps a slow stale response from
// clobbering fresher state.
func (s *Store) applySnapshot(seq uint64, snapshot *model.Cart) bool {
	if snapshot.Items == nil {
		snapshot.Items = []model.CartItem{}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if seq <= s.applied {
		s.logger.Debug().
			Uint64("seq", seq).
			Uint64("applied", s.applied).
			Msg("discarding stale cart snapshot")
		return false
	}
	s.applied = seq
	s.cart = snapshot
	return true
}

// Load fetches the authoritative cart. An unauthorized or not-found
// answer is the normal anonymous/no-cart-yet case and silently yields
// an empty cart; any other failure keeps the previous snapshot in
// place and is reported.
func (s *Store) Load(ctx context.Context) error {
	seq := s.begin()
	defer s.finish()

	snapshot, err := s.api.GetCart(ctx)
	if err != nil {
		if model.IsUnauthorized(err) || model.IsNotFound(err) {
			s.applySnapshot(seq, model.EmptyCart())
			return nil
		}
		s.logger.Error().Err(err).Msg("failed to load cart")
		s.notifier.Error(model.UserMessage(err, "could not load your cart"))
		return err
	}

	s.applySnapshot(seq, snapshot)
	return nil
}

// Add asks the server to add a game line, or increase it when already
// present. No optimistic insert: local state only changes on a server
// snapshot.
func (s *Store) Add(ctx context.Context, gameID int64, quantity int) error {
	if quantity < 1 {
		return model.ErrInvalidQuantity
	}

	seq := s.begin()
	defer s.finish()

	snapshot, err := s.api.AddItem(ctx, gameID, quantity)
	if err != nil {
		s.logger.Warn().Int64("game_id", gameID).Err(err).Msg("failed to add to cart")
		s.notifier.Error(model.UserMessage(err, "could not add the game to your cart"))
		return err
	}

	s.applySnapshot(seq, snapshot)
	s.notifier.Success("added to cart")
	return nil
}

// SetQuantity sets (not adjusts) the quantity of one line. A second
// mutation for an item whose request is still in flight fails fast
// with ErrItemBusy.
func (s *Store) SetQuantity(ctx context.Context, itemID int64, quantity int) error {
	if quantity < 1 {
		return model.ErrInvalidQuantity
	}
	if !s.guard.acquire(itemID) {
		return model.ErrItemBusy
	}
	defer s.guard.release(itemID)

	seq := s.begin()
	defer s.finish()

	snapshot, err := s.api.UpdateItem(ctx, itemID, quantity)
	if err != nil {
		s.logger.Warn().Int64("item_id", itemID).Int("quantity", quantity).Err(err).Msg("failed to update quantity")
		s.notifier.Error(model.UserMessage(err, "could not update the quantity"))
		return err
	}

	s.applySnapshot(seq, snapshot)
	s.notifier.Success("quantity updated")
	return nil
}

// Increment raises the line's quantity by one.
func (s *Store) Increment(ctx context.Context, itemID int64) error {
	quantity, ok := s.itemQuantity(itemID)
	if !ok {
		return model.ErrItemNotInCart
	}
	return s.SetQuantity(ctx, itemID, quantity+1)
}

// Decrement lowers the line's quantity by one. At quantity one it is a
// local no-op: removal is a separate, explicit action.
func (s *Store) Decrement(ctx context.Context, itemID int64) error {
	quantity, ok := s.itemQuantity(itemID)
	if !ok {
		return model.ErrItemNotInCart
	}
	if quantity <= 1 {
		return nil
	}
	return s.SetQuantity(ctx, itemID, quantity-1)
}

// Remove deletes one line from the cart.
func (s *Store) Remove(ctx context.Context, itemID int64) error {
	if !s.guard.acquire(itemID) {
		return model.ErrItemBusy
	}
	defer s.guard.release(itemID)

	seq := s.begin()
	defer s.finish()

	snapshot, err := s.api.RemoveItem(ctx, itemID)
	if err != nil {
		s.logger.Warn().Int64("item_id", itemID).Err(err).Msg("failed to remove from cart")
		s.notifier.Error(model.UserMessage(err, "could not remove the game from your cart"))
		return err
	}

	s.applySnapshot(seq, snapshot)
	s.notifier.Success("removed from cart")
	return nil
}

// Clear empties the cart. On success the empty snapshot is synthesized
// locally without waiting for a server echo.
func (s *Store) Clear(ctx context.Context) error {
	seq := s.begin()
	defer s.finish()

	if err := s.api.ClearCart(ctx); err != nil {
		s.logger.Warn().Err(err).Msg("failed to clear cart")
		s.notifier.Error(model.UserMessage(err, "could not clear your cart"))
		return err
	}

	s.applySnapshot(seq, model.EmptyCart())
	s.notifier.Success("cart cleared")
	return nil
}

// Cart returns a copy of the current snapshot, or nil before the first
// load.
func (s *Store) Cart() *model.Cart {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cart == nil {
		return nil
	}
	snapshot := *s.cart
	snapshot.Items = make([]model.CartItem, len(s.cart.Items))
	copy(snapshot.Items, s.cart.Items)
	return &snapshot
}

// ItemCount returns the server-computed item count, zero before the
// first load.
func (s *Store) ItemCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cart == nil {
		return 0
	}
	return s.cart.ItemCount
}

// Total returns the server-computed total, zero before the first load.
func (s *Store) Total() decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cart == nil {
		return decimal.Zero
	}
	return s.cart.Total
}

// Loading reports whether any server round-trip is in flight.
func (s *Store) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pending > 0
}

// ItemInFlight reports whether a mutation for the item is on the wire;
// the UI dims that line's controls while true.
func (s *Store) ItemInFlight(itemID int64) bool {
	return s.guard.inFlight(itemID)
}

func (s *Store) itemQuantity(itemID int64) (int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cart == nil {
		return 0, false
	}
	item := s.cart.Item(itemID)
	if item == nil {
		return 0, false
	}
	return item.Quantity, true
}
