// Package publisher emits the three event classes onto their exchanges.
package publisher

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/andrewp05/ecommerce-fabric/internal/domain"
	"github.com/andrewp05/ecommerce-fabric/internal/feed"
	"github.com/andrewp05/ecommerce-fabric/internal/messaging"
	"github.com/andrewp05/ecommerce-fabric/internal/wire"
)

// DefaultPublishTimeout bounds a single publish call. The broker protocol
// has no cancellation for an in-flight publish; past this deadline the
// operation reports a delivery error instead of hanging.
const DefaultPublishTimeout = 5 * time.Second

// Broker is the publish primitive the publisher needs from the transport.
type Broker interface {
	Publish(ctx context.Context, exchange, key string, msg amqp.Publishing) error
}

type EventPublisher struct {
	mq      Broker
	log     *feed.Feed
	timeout time.Duration
}

func New(mq Broker, log *feed.Feed, timeout time.Duration) *EventPublisher {
	if timeout <= 0 {
		timeout = DefaultPublishTimeout
	}
	return &EventPublisher{mq: mq, log: log, timeout: timeout}
}

// PublishListing validates and publishes a product listing on the topic
// exchange, keyed by the lower-cased category.
func (p *EventPublisher) PublishListing(prod domain.Product) error {
	if err := prod.Validate(); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), p.timeout)
	defer cancel()

	err := p.mq.Publish(ctx, messaging.ProductsExchange, messaging.ListingKey(prod.Category), amqp.Publishing{
		ContentType: "text/plain",
		Body:        wire.Encode(prod.WireFields()),
	})
	if err != nil {
		p.log.Append(fmt.Sprintf("Error al publicar producto %s: %v", prod.Name, err))
		return err
	}

	p.log.Append(fmt.Sprintf("Producto publicado: %s", prod.Name))
	return nil
}

// PublishOffer broadcasts a free-text offer on the fanout exchange.
func (p *EventPublisher) PublishOffer(text string) error {
	if text == "" {
		return fmt.Errorf("%w: offer text must not be empty", domain.ErrValidation)
	}

	ctx, cancel := context.WithTimeout(context.Background(), p.timeout)
	defer cancel()

	err := p.mq.Publish(ctx, messaging.OffersExchange, "", amqp.Publishing{
		ContentType: "text/plain",
		Body:        []byte(text),
	})
	if err != nil {
		p.log.Append(fmt.Sprintf("Error al publicar oferta: %v", err))
		return err
	}

	p.log.Append(fmt.Sprintf("Oferta enviada: %s", text))
	return nil
}

// PublishPurchase publishes a purchase event on the direct exchange with
// the fixed purchase key. The event id travels in the message-id property.
// Stock validation belongs to the purchase coordinator, not here.
func (p *EventPublisher) PublishPurchase(ev domain.PurchaseEvent) error {
	if err := ev.Validate(); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), p.timeout)
	defer cancel()

	err := p.mq.Publish(ctx, messaging.PurchaseExchange, messaging.PurchaseKey, amqp.Publishing{
		ContentType: "text/plain",
		MessageId:   ev.ID,
		Body:        wire.Encode(ev.WireFields()),
	})
	if err != nil {
		p.log.Append(fmt.Sprintf("Error al registrar compra: %v", err))
		return err
	}

	p.log.Append(fmt.Sprintf("Compra enviada: %s", ev))
	return nil
}

// NewPurchaseID mints the id attached to a purchase event.
func NewPurchaseID() string {
	return uuid.NewString()
}
