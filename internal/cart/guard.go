package cart

import "sync"

// inFlightGuard tracks cart item ids with a mutation currently on the
// wire. At most one mutation per item id at a time; different items
// may be mutated concurrently. This is a client-side guard only; true
// at-most-once semantics still depend on the server.
type inFlightGuard struct {
	mu      sync.Mutex
	itemIDs map[int64]struct{}
}

func newInFlightGuard() *inFlightGuard {
	return &inFlightGuard{itemIDs: make(map[int64]struct{})}
}

// acquire marks the item as busy. It reports false when a mutation for
// the same item is already in flight.
func (g *inFlightGuard) acquire(itemID int64) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, busy := g.itemIDs[itemID]; busy {
		return false
	}
	g.itemIDs[itemID] = struct{}{}
	return true
}

// release frees the item. Callers release on every outcome so a failed
// request never leaves a control stuck.
func (g *inFlightGuard) release(itemID int64) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.itemIDs, itemID)
}

// inFlight reports whether a mutation for the item is on the wire.
func (g *inFlightGuard) inFlight(itemID int64) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	_, busy := g.itemIDs[itemID]
	return busy
}
