package catalog

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrewp05/ecommerce-fabric/internal/domain"
)

func laptop(stock int) domain.Product {
	return domain.Product{Name: "Laptop", Category: "Tecnología", Date: "2024-01-15", Brand: "Acme", Section: "General", Price: "999", Stock: stock}
}

func TestOnListingLastWriterWins(t *testing.T) {
	p := New()
	p.OnListing(laptop(5))

	replacement := laptop(8)
	replacement.Price = "899"
	replacement.Brand = "Otra"
	p.OnListing(replacement)

	prod, stock, ok := p.Get("Laptop")
	require.True(t, ok)
	assert.Equal(t, replacement, prod)
	assert.Equal(t, 8, stock)
}

func TestOnListingResetsStockAfterPurchases(t *testing.T) {
	p := New()
	p.OnListing(laptop(5))
	p.OnPurchaseObserved(domain.PurchaseEvent{ID: "a", Product: "Laptop", Quantity: 2, Customer: "ana"})

	_, stock, _ := p.Get("Laptop")
	require.Equal(t, 3, stock)

	p.OnListing(laptop(10))
	_, stock, _ = p.Get("Laptop")
	assert.Equal(t, 10, stock)
}

func TestOnPurchaseObservedFloorsAtZero(t *testing.T) {
	p := New()
	p.OnListing(laptop(3))

	got := p.OnPurchaseObserved(domain.PurchaseEvent{ID: "a", Product: "Laptop", Quantity: 10, Customer: "ana"})
	assert.Equal(t, Applied, got)

	_, stock, _ := p.Get("Laptop")
	assert.Zero(t, stock)
}

func TestOnPurchaseObservedUnknownProductBuffered(t *testing.T) {
	p := New()

	ev := domain.PurchaseEvent{ID: "a", Product: "Fantasma", Quantity: 1, Customer: "ana"}
	assert.Equal(t, Unknown, p.OnPurchaseObserved(ev))

	pending := p.Pending()
	require.Len(t, pending, 1)
	assert.Equal(t, ev, pending[0])

	// A later listing overwrites stock; the buffered purchase is never
	// replayed.
	p.OnListing(laptop(5))
	_, stock, _ := p.Get("Laptop")
	assert.Equal(t, 5, stock)
}

func TestOnPurchaseObservedSkipsOwnEcho(t *testing.T) {
	p := New()
	p.OnListing(laptop(5))

	p.MarkPublished("mine")
	remaining, ok := p.Decrement("Laptop", 2)
	require.True(t, ok)
	require.Equal(t, 3, remaining)

	got := p.OnPurchaseObserved(domain.PurchaseEvent{ID: "mine", Product: "Laptop", Quantity: 2, Customer: "ana"})
	assert.Equal(t, SkippedOwn, got)

	_, stock, _ := p.Get("Laptop")
	assert.Equal(t, 3, stock)
}

func TestOnPurchaseObservedAbsorbsDuplicates(t *testing.T) {
	p := New()
	p.OnListing(laptop(5))

	ev := domain.PurchaseEvent{ID: "dup", Product: "Laptop", Quantity: 2, Customer: "ana"}
	assert.Equal(t, Applied, p.OnPurchaseObserved(ev))
	assert.Equal(t, Duplicate, p.OnPurchaseObserved(ev))

	_, stock, _ := p.Get("Laptop")
	assert.Equal(t, 3, stock)
}

func TestListKeepsFirstSeenOrder(t *testing.T) {
	p := New()
	for _, name := range []string{"Laptop", "Camisa", "Sofá"} {
		p.OnListing(domain.Product{Name: name, Stock: 1})
	}

	// Republishing and stock activity must not reorder the list.
	p.OnListing(domain.Product{Name: "Camisa", Stock: 9})
	p.OnPurchaseObserved(domain.PurchaseEvent{ID: "a", Product: "Laptop", Quantity: 1, Customer: "ana"})

	assert.Equal(t, []string{"Laptop", "Camisa", "Sofá"}, p.List())
	assert.Equal(t, p.List(), p.List())
}

func TestDecrementUnknownProduct(t *testing.T) {
	p := New()
	_, ok := p.Decrement("Fantasma", 1)
	assert.False(t, ok)
}

func TestSnapshotMatchesOrder(t *testing.T) {
	p := New()
	p.OnListing(laptop(5))
	p.OnListing(domain.Product{Name: "Camisa", Stock: 2})

	snap := p.Snapshot()
	require.Len(t, snap, 2)
	assert.Equal(t, "Laptop", snap[0].Product.Name)
	assert.Equal(t, "Camisa", snap[1].Product.Name)
}

func TestConcurrentObserversAndDecrements(t *testing.T) {
	p := New()
	p.OnListing(laptop(200))

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			p.OnPurchaseObserved(domain.PurchaseEvent{ID: fmt.Sprintf("obs-%d", i), Product: "Laptop", Quantity: 1, Customer: "ana"})
		}(i)
		go func() {
			defer wg.Done()
			p.Decrement("Laptop", 1)
		}()
	}
	wg.Wait()

	_, stock, ok := p.Get("Laptop")
	require.True(t, ok)
	assert.Equal(t, 100, stock)
}
