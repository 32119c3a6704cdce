package domain

import "sync"

// Book holds the canonical per-item records for one server partition.
// All mutation goes through Apply (merge) or the hydration helpers; callers
// never edit a record in place.
type Book struct {
	mu    sync.RWMutex
	items map[int64]MarketRecord
}

// NewBook creates an empty book.
func NewBook() *Book {
	return &Book{items: make(map[int64]MarketRecord)}
}

// Get returns the record for an item, if present.
func (b *Book) Get(itemID int64) (MarketRecord, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	rec, ok := b.items[itemID]
	return rec, ok
}

// Len returns the number of records.
func (b *Book) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.items)
}

// Apply merges an observation into the book and returns the stored record.
func (b *Book) Apply(obs Observation) MarketRecord {
	b.mu.Lock()
	defer b.mu.Unlock()

	var rec MarketRecord
	if existing, ok := b.items[obs.ItemID]; ok {
		rec = Merge(&existing, obs)
	} else {
		rec = Merge(nil, obs)
	}
	b.items[obs.ItemID] = rec
	return rec
}

// All returns a copy of every record. Iteration order is map order.
func (b *Book) All() []MarketRecord {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make([]MarketRecord, 0, len(b.items))
	for _, rec := range b.items {
		out = append(out, rec)
	}
	return out
}

// Items returns a copy of the underlying map, for persistence.
func (b *Book) Items() map[int64]MarketRecord {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make(map[int64]MarketRecord, len(b.items))
	for id, rec := range b.items {
		out[id] = rec
	}
	return out
}

// Replace swaps in a restored record set wholesale. Used at hydration only.
func (b *Book) Replace(items map[int64]MarketRecord) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.items = make(map[int64]MarketRecord, len(items))
	for id, rec := range items {
		if rec.ItemID == 0 {
			rec.ItemID = id
		}
		b.items[id] = rec
	}
}

// Prune drops records last seen strictly before cutoff (unix ms) and
// returns how many were removed. Called once after hydration; records are
// never evicted during normal operation.
func (b *Book) Prune(cutoff int64) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	n := 0
	for id, rec := range b.items {
		if rec.Ts < cutoff {
			delete(b.items, id)
			n++
		}
	}
	return n
}
