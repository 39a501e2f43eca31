package consumer

import (
	"sync"
	"testing"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrewp05/ecommerce-fabric/internal/catalog"
	"github.com/andrewp05/ecommerce-fabric/internal/domain"
	"github.com/andrewp05/ecommerce-fabric/internal/feed"
	"github.com/andrewp05/ecommerce-fabric/internal/wire"
)

// run feeds deliveries to a loop and waits for it to drain.
func run(loop func(<-chan amqp.Delivery), deliveries ...amqp.Delivery) {
	ch := make(chan amqp.Delivery, len(deliveries))
	for _, d := range deliveries {
		ch <- d
	}
	close(ch)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		loop(ch)
	}()
	wg.Wait()
}

func listingDelivery(p domain.Product) amqp.Delivery {
	return amqp.Delivery{Body: wire.Encode(p.WireFields())}
}

func purchaseDelivery(ev domain.PurchaseEvent) amqp.Delivery {
	return amqp.Delivery{MessageId: ev.ID, Body: wire.Encode(ev.WireFields())}
}

func TestProcessListingsUpdatesProjection(t *testing.T) {
	projection := catalog.New()
	logFeed := feed.New(50)
	c := NewCatalogConsumer(projection, logFeed)

	p := domain.Product{Name: "Laptop", Category: "Tecnología", Date: "2024-01-15", Brand: "Acme", Section: "General", Price: "999", Stock: 5}
	run(c.ProcessListings, listingDelivery(p))

	got, stock, ok := projection.Get("Laptop")
	require.True(t, ok)
	assert.Equal(t, p, got)
	assert.Equal(t, 5, stock)
	assert.Contains(t, logFeed.Lines(), "Producto actualizado: Laptop")
}

func TestProcessListingsSkipsBadMessageAndContinues(t *testing.T) {
	projection := catalog.New()
	c := NewCatalogConsumer(projection, feed.New(50))

	good := domain.Product{Name: "Camisa", Category: "Ropa", Date: "2024-02-01", Brand: "Acme", Section: "General", Price: "20", Stock: 3}
	run(c.ProcessListings,
		amqp.Delivery{Body: []byte("sin-colon")},         // every segment malformed
		amqp.Delivery{Body: []byte("stock:notanumber;")}, // no product name
		listingDelivery(good),
	)

	_, stock, ok := projection.Get("Camisa")
	require.True(t, ok)
	assert.Equal(t, 3, stock)
	assert.Len(t, projection.List(), 1)
}

func TestProcessPurchasesAppliesToProjection(t *testing.T) {
	projection := catalog.New()
	projection.OnListing(domain.Product{Name: "Laptop", Stock: 5})
	logFeed := feed.New(50)
	c := NewPurchaseConsumer(projection, logFeed)

	run(c.ProcessPurchases, purchaseDelivery(domain.PurchaseEvent{ID: "remote-1", Product: "Laptop", Quantity: 2, Customer: "ana"}))

	_, stock, _ := projection.Get("Laptop")
	assert.Equal(t, 3, stock)
	assert.Contains(t, logFeed.Lines(), "Compra registrada en servidor: Laptop x2 (cliente: ana)")
}

func TestProcessPurchasesWithoutProjectionOnlyLogs(t *testing.T) {
	logFeed := feed.New(50)
	c := NewPurchaseConsumer(nil, logFeed)

	run(c.ProcessPurchases, purchaseDelivery(domain.PurchaseEvent{ID: "remote-1", Product: "Laptop", Quantity: 2, Customer: "ana"}))

	assert.Contains(t, logFeed.Lines(), "Compra recibida: Laptop x2 (cliente: ana)")
}

func TestProcessPurchasesUnknownProductLogged(t *testing.T) {
	projection := catalog.New()
	logFeed := feed.New(50)
	c := NewPurchaseConsumer(projection, logFeed)

	run(c.ProcessPurchases, purchaseDelivery(domain.PurchaseEvent{ID: "remote-1", Product: "Fantasma", Quantity: 1, Customer: "ana"}))

	require.Len(t, projection.Pending(), 1)
	assert.Contains(t, logFeed.Lines(), "Compra con stock desconocido (sin listado): Fantasma x1 (cliente: ana)")
}

func TestProcessPurchasesDuplicateDelivery(t *testing.T) {
	projection := catalog.New()
	projection.OnListing(domain.Product{Name: "Laptop", Stock: 5})
	c := NewPurchaseConsumer(projection, feed.New(50))

	d := purchaseDelivery(domain.PurchaseEvent{ID: "dup-1", Product: "Laptop", Quantity: 2, Customer: "ana"})
	run(c.ProcessPurchases, d, d)

	_, stock, _ := projection.Get("Laptop")
	assert.Equal(t, 3, stock)
}

func TestProcessOffers(t *testing.T) {
	offers := feed.New(50)
	logFeed := feed.New(50)
	c := NewOfferConsumer(offers, logFeed)

	run(c.ProcessOffers, amqp.Delivery{Body: []byte("50% off laptops")})

	assert.Equal(t, []string{"50% off laptops"}, offers.Lines())
	assert.Contains(t, logFeed.Lines(), "Nueva oferta recibida")
}

func TestHandleContainsPanic(t *testing.T) {
	done := make(chan struct{})
	go func() {
		defer close(done)
		handle(func() { panic("boom") })
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("panic escaped handler")
	}
}

func TestScenarioListingThenPurchases(t *testing.T) {
	// Listing stock 5 → purchase of 2 observed → stock 3.
	projection := catalog.New()
	logFeed := feed.New(50)

	listing := domain.Product{Name: "Laptop", Category: "Tecnología", Date: "2024-01-15", Brand: "Acme", Section: "General", Price: "999", Stock: 5}
	run(NewCatalogConsumer(projection, logFeed).ProcessListings, listingDelivery(listing))

	_, stock, _ := projection.Get("Laptop")
	require.Equal(t, 5, stock)

	run(NewPurchaseConsumer(projection, logFeed).ProcessPurchases,
		purchaseDelivery(domain.PurchaseEvent{ID: "p-1", Product: "Laptop", Quantity: 2, Customer: "ana"}))

	_, stock, _ = projection.Get("Laptop")
	assert.Equal(t, 3, stock)
}
