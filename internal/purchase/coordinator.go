// Package purchase validates purchase requests against the local catalog
// projection and publishes the resulting events.
package purchase

import (
	"fmt"

	"github.com/andrewp05/ecommerce-fabric/internal/catalog"
	"github.com/andrewp05/ecommerce-fabric/internal/domain"
	"github.com/andrewp05/ecommerce-fabric/internal/publisher"
)

// Publisher is the slice of the event publisher the coordinator uses.
type Publisher interface {
	PublishPurchase(ev domain.PurchaseEvent) error
}

type Coordinator struct {
	projection *catalog.Projection
	publisher  Publisher
}

func NewCoordinator(projection *catalog.Projection, pub Publisher) *Coordinator {
	return &Coordinator{projection: projection, publisher: pub}
}

// Purchase validates the request, publishes the purchase event and, only on
// publish success, optimistically decrements the local stock counter. The
// event's id is marked as locally published before the publish so the echo
// from the shared purchases queue is never applied a second time.
func (c *Coordinator) Purchase(name string, quantity int, customer string) (domain.PurchaseEvent, error) {
	if customer == "" {
		return domain.PurchaseEvent{}, fmt.Errorf("%w: missing customer name", domain.ErrValidation)
	}
	if quantity <= 0 {
		return domain.PurchaseEvent{}, fmt.Errorf("%w: quantity must be positive, got %d", domain.ErrValidation, quantity)
	}

	_, stock, ok := c.projection.Get(name)
	if !ok {
		return domain.PurchaseEvent{}, fmt.Errorf("%w: %q", domain.ErrUnknownProduct, name)
	}
	if quantity > stock {
		return domain.PurchaseEvent{}, fmt.Errorf("%w: requested %d, available %d", domain.ErrInsufficientStock, quantity, stock)
	}

	ev := domain.PurchaseEvent{
		ID:       publisher.NewPurchaseID(),
		Product:  name,
		Quantity: quantity,
		Customer: customer,
	}

	c.projection.MarkPublished(ev.ID)
	if err := c.publisher.PublishPurchase(ev); err != nil {
		// No optimistic decrement on failed delivery.
		return domain.PurchaseEvent{}, err
	}

	c.projection.Decrement(name, quantity)
	return ev, nil
}
