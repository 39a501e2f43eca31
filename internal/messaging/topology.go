package messaging

import (
	"fmt"
	"log"
	"strings"
)

// Exchange, queue and routing-key names of the deployed topology. They must
// match the existing deployment exactly.
const (
	PurchaseExchange = "compra_directa"  // direct: purchase events
	ProductsExchange = "productos_topic" // topic: product listings
	OffersExchange   = "ofertas_fanout"  // fanout: broadcast offers

	PurchasesQueue = "cola_compras"
	ProductsQueue  = "cola_productos"
	OffersQueue    = "cola_ofertas" // legacy durable binding, never consumed

	PurchaseKey    = "compra"
	ListingPrefix  = "producto."
	ListingPattern = "producto.*"
)

// ListingKey builds the topic routing key for a product listing:
// the fixed prefix plus the lower-cased category.
func ListingKey(category string) string {
	return ListingPrefix + strings.ToLower(category)
}

// DeclareTopology declares the three exchanges, the durable queues and
// their bindings. Safe to call on every process start: redeclaring with
// identical parameters is a no-op, while conflicting parameters surface as
// a configuration error from the broker.
func (r *RabbitMQ) DeclareTopology() error {
	exchanges := []struct{ name, kind string }{
		{PurchaseExchange, "direct"},
		{ProductsExchange, "topic"},
		{OffersExchange, "fanout"},
	}
	for _, e := range exchanges {
		if err := r.channel.ExchangeDeclare(
			e.name,
			e.kind,
			true,  // durable
			false, // auto-delete
			false, // internal
			false, // no-wait
			nil,   // arguments
		); err != nil {
			return fmt.Errorf("failed to declare exchange %s: %w", e.name, err)
		}
	}

	bindings := []struct{ queue, exchange, key string }{
		{PurchasesQueue, PurchaseExchange, PurchaseKey},
		{ProductsQueue, ProductsExchange, ListingPattern},
		{OffersQueue, OffersExchange, ""},
	}
	for _, b := range bindings {
		if _, err := r.channel.QueueDeclare(
			b.queue,
			true,  // durable
			false, // auto-delete
			false, // exclusive
			false, // no-wait
			nil,   // arguments
		); err != nil {
			return fmt.Errorf("failed to declare queue %s: %w", b.queue, err)
		}
		if err := r.channel.QueueBind(b.queue, b.key, b.exchange, false, nil); err != nil {
			return fmt.Errorf("failed to bind queue %s to %s: %w", b.queue, b.exchange, err)
		}
	}

	log.Println("✅ Topology declared: exchanges and queues ready")
	return nil
}

// DeclareOffersQueue creates this process's private offers queue: a
// server-named, non-durable queue bound to the fanout exchange. Every live
// subscriber gets its own copy of every offer, not a share of them.
func (r *RabbitMQ) DeclareOffersQueue() (string, error) {
	q, err := r.channel.QueueDeclare(
		"",    // server-assigned name
		false, // durable
		true,  // auto-delete
		true,  // exclusive
		false, // no-wait
		nil,   // arguments
	)
	if err != nil {
		return "", fmt.Errorf("failed to declare private offers queue: %w", err)
	}
	if err := r.channel.QueueBind(q.Name, "", OffersExchange, false, nil); err != nil {
		return "", fmt.Errorf("failed to bind offers queue %s: %w", q.Name, err)
	}

	log.Printf("✅ Private offers queue declared: %s", q.Name)
	return q.Name, nil
}
