// Package catalog maintains this process's locally reconstructed view of
// the product catalog and its stock counters, folded from the listing and
// purchase event streams.
package catalog

import (
	"sync"

	"github.com/andrewp05/ecommerce-fabric/internal/domain"
)

// Entry pairs a product's last-delivered attributes with its current local
// stock counter. Stock is tracked apart from Product.Stock so purchases can
// decrement it without a new listing.
type Entry struct {
	Product domain.Product `json:"product"`
	Stock   int            `json:"stock"`
}

// Outcome classifies what OnPurchaseObserved did with a delivery.
type Outcome int

const (
	// Applied: stock was decremented.
	Applied Outcome = iota
	// SkippedOwn: the event was published by this process and already
	// accounted for optimistically.
	SkippedOwn
	// Duplicate: the event id was already observed (at-least-once redelivery).
	Duplicate
	// Unknown: no listing for the product yet; the event was buffered.
	Unknown
)

// Projection is safe for concurrent use. Every mutation goes through one
// mutex because broker delivery goroutines and user-triggered purchases
// touch the same state.
type Projection struct {
	mu        sync.RWMutex
	entries   map[string]*Entry
	order     []string            // product names, first-seen order
	published map[string]struct{} // purchase ids this process published
	seen      map[string]struct{} // purchase ids already applied
	pending   []domain.PurchaseEvent
}

func New() *Projection {
	return &Projection{
		entries:   make(map[string]*Entry),
		published: make(map[string]struct{}),
		seen:      make(map[string]struct{}),
	}
}

// OnListing upserts a product: the record is replaced wholesale and the
// stock counter reset to the listed stock. Last writer wins in delivery
// order, deliberately — out-of-order republishes are not reconciled.
func (p *Projection) OnListing(prod domain.Product) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, ok := p.entries[prod.Name]; !ok {
		p.order = append(p.order, prod.Name)
	}
	p.entries[prod.Name] = &Entry{Product: prod, Stock: prod.Stock}
}

// OnPurchaseObserved folds a purchase delivery into the stock counter,
// floored at zero. Self-published and already-seen ids are skipped so the
// echo of an optimistic decrement never lands twice; purchases for unknown
// products are buffered, not dropped.
func (p *Projection) OnPurchaseObserved(ev domain.PurchaseEvent) Outcome {
	p.mu.Lock()
	defer p.mu.Unlock()
	if ev.ID != "" {
		if _, ok := p.published[ev.ID]; ok {
			return SkippedOwn
		}
		if _, ok := p.seen[ev.ID]; ok {
			return Duplicate
		}
		p.seen[ev.ID] = struct{}{}
	}
	entry, ok := p.entries[ev.Product]
	if !ok {
		p.pending = append(p.pending, ev)
		return Unknown
	}
	entry.Stock -= ev.Quantity
	if entry.Stock < 0 {
		entry.Stock = 0
	}
	return Applied
}

// MarkPublished records a purchase id as locally published before it hits
// the wire, so an echo arriving ahead of the optimistic decrement is still
// recognized.
func (p *Projection) MarkPublished(id string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.published[id] = struct{}{}
}

// Decrement applies the optimistic local decrement after a successful
// publish. The counter floors at zero.
func (p *Projection) Decrement(name string, quantity int) (remaining int, ok bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	entry, found := p.entries[name]
	if !found {
		return 0, false
	}
	entry.Stock -= quantity
	if entry.Stock < 0 {
		entry.Stock = 0
	}
	return entry.Stock, true
}

// Get returns the product and its current stock counter.
func (p *Projection) Get(name string) (domain.Product, int, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	entry, ok := p.entries[name]
	if !ok {
		return domain.Product{}, 0, false
	}
	return entry.Product, entry.Stock, true
}

// List returns the known product names in first-seen order. The order is
// stable across calls and unaffected by stock activity.
func (p *Projection) List() []string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make([]string, len(p.order))
	copy(out, p.order)
	return out
}

// Snapshot returns all entries in first-seen order.
func (p *Projection) Snapshot() []Entry {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make([]Entry, 0, len(p.order))
	for _, name := range p.order {
		out = append(out, *p.entries[name])
	}
	return out
}

// Pending returns the buffered purchases for products with no listing yet.
// They are retained for inspection only, never replayed.
func (p *Projection) Pending() []domain.PurchaseEvent {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make([]domain.PurchaseEvent, len(p.pending))
	copy(out, p.pending)
	return out
}
