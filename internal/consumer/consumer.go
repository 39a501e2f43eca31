// Package consumer runs the per-queue delivery loops. Each loop ranges over
// its broker delivery channel on its own goroutine; a bad message or a
// handler failure is logged and skipped, never allowed to stop the loop.
package consumer

import (
	"fmt"
	"log"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/andrewp05/ecommerce-fabric/internal/catalog"
	"github.com/andrewp05/ecommerce-fabric/internal/domain"
	"github.com/andrewp05/ecommerce-fabric/internal/feed"
	"github.com/andrewp05/ecommerce-fabric/internal/wire"
)

// CatalogConsumer folds product listing deliveries into the projection.
type CatalogConsumer struct {
	projection *catalog.Projection
	log        *feed.Feed
}

func NewCatalogConsumer(projection *catalog.Projection, log *feed.Feed) *CatalogConsumer {
	return &CatalogConsumer{projection: projection, log: log}
}

// ProcessListings handles deliveries from the products queue.
func (c *CatalogConsumer) ProcessListings(messages <-chan amqp.Delivery) {
	for msg := range messages {
		handle(func() {
			attrs, skipped := wire.Decode(msg.Body)
			if skipped > 0 {
				log.Printf("⚠️ Listing payload had %d malformed segment(s), skipped", skipped)
			}

			prod, err := domain.ProductFromWire(attrs)
			if err != nil {
				log.Printf("❌ Failed to parse listing: %v", err)
				return
			}

			c.projection.OnListing(prod)
			c.log.Append(fmt.Sprintf("Producto actualizado: %s", prod.Name))
		})
	}
}

// PurchaseConsumer observes the shared purchases queue. With a projection
// it reconciles stock; without one (the producer role) it only logs.
type PurchaseConsumer struct {
	projection *catalog.Projection
	log        *feed.Feed
}

func NewPurchaseConsumer(projection *catalog.Projection, log *feed.Feed) *PurchaseConsumer {
	return &PurchaseConsumer{projection: projection, log: log}
}

// ProcessPurchases handles deliveries from the purchases queue.
func (c *PurchaseConsumer) ProcessPurchases(messages <-chan amqp.Delivery) {
	for msg := range messages {
		handle(func() {
			attrs, skipped := wire.Decode(msg.Body)
			if skipped > 0 {
				log.Printf("⚠️ Purchase payload had %d malformed segment(s), skipped", skipped)
			}

			ev, err := domain.PurchaseFromWire(msg.MessageId, attrs)
			if err != nil {
				log.Printf("❌ Failed to parse purchase: %v", err)
				return
			}

			if c.projection == nil {
				c.log.Append(fmt.Sprintf("Compra recibida: %s", ev))
				return
			}

			switch c.projection.OnPurchaseObserved(ev) {
			case catalog.Applied:
				c.log.Append(fmt.Sprintf("Compra registrada en servidor: %s", ev))
			case catalog.SkippedOwn:
				log.Printf("🔁 Own purchase echo ignored: %s", ev.ID)
			case catalog.Duplicate:
				log.Printf("🔁 Duplicate purchase delivery ignored: %s", ev.ID)
			case catalog.Unknown:
				c.log.Append(fmt.Sprintf("Compra con stock desconocido (sin listado): %s", ev))
			}
		})
	}
}

// OfferConsumer appends broadcast offers to the offers feed.
type OfferConsumer struct {
	offers *feed.Feed
	log    *feed.Feed
}

func NewOfferConsumer(offers, log *feed.Feed) *OfferConsumer {
	return &OfferConsumer{offers: offers, log: log}
}

// ProcessOffers handles deliveries from this process's private offers queue.
func (c *OfferConsumer) ProcessOffers(messages <-chan amqp.Delivery) {
	for msg := range messages {
		handle(func() {
			c.offers.Append(string(msg.Body))
			c.log.Append("Nueva oferta recibida")
		})
	}
}

// handle runs one message's handler, containing any panic. Deliveries are
// auto-acked, so a failed handler means a logged, consumed message — not a
// redelivery and not a dead loop.
func handle(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("❌ Handler panic recovered: %v", r)
		}
	}()
	fn()
}
