package domain

import (
	"fmt"
	"strconv"

	"github.com/andrewp05/ecommerce-fabric/internal/wire"
)

// Purchase payload keys. The original deployment encoded the product name
// positionally ("<name>:<qty>;cliente:<c>"); this implementation normalizes
// to a fully keyed schema like every other event class.
const (
	FieldProduct  = "producto"
	FieldQuantity = "cantidad"
	FieldCustomer = "cliente"
)

// PurchaseEvent is the ephemeral purchase notification. ID travels in the
// AMQP message-id property, not in the payload, and lets a process tell its
// own echoes and broker redeliveries apart from fresh purchases.
type PurchaseEvent struct {
	ID       string `json:"id"`
	Product  string `json:"product"`
	Quantity int    `json:"quantity"`
	Customer string `json:"customer"`
}

func (e PurchaseEvent) Validate() error {
	if e.Product == "" {
		return fmt.Errorf("%w: missing product name", ErrValidation)
	}
	if e.Quantity <= 0 {
		return fmt.Errorf("%w: quantity must be positive, got %d", ErrValidation, e.Quantity)
	}
	if e.Customer == "" {
		return fmt.Errorf("%w: missing customer", ErrValidation)
	}
	return nil
}

func (e PurchaseEvent) WireFields() []wire.Field {
	return []wire.Field{
		{Key: FieldProduct, Value: e.Product},
		{Key: FieldQuantity, Value: strconv.Itoa(e.Quantity)},
		{Key: FieldCustomer, Value: e.Customer},
	}
}

// String renders the event the way the log sink shows it.
func (e PurchaseEvent) String() string {
	return fmt.Sprintf("%s x%d (cliente: %s)", e.Product, e.Quantity, e.Customer)
}

// PurchaseFromWire builds a PurchaseEvent from decoded payload attributes
// plus the message-id carried out of band.
func PurchaseFromWire(id string, attrs map[string]string) (PurchaseEvent, error) {
	product := attrs[FieldProduct]
	if product == "" {
		return PurchaseEvent{}, fmt.Errorf("%w: purchase without %s", ErrMalformedMessage, FieldProduct)
	}
	qty, err := strconv.Atoi(attrs[FieldQuantity])
	if err != nil || qty <= 0 {
		return PurchaseEvent{}, fmt.Errorf("%w: bad quantity %q", ErrMalformedMessage, attrs[FieldQuantity])
	}
	customer := attrs[FieldCustomer]
	if customer == "" {
		return PurchaseEvent{}, fmt.Errorf("%w: purchase without %s", ErrMalformedMessage, FieldCustomer)
	}
	return PurchaseEvent{ID: id, Product: product, Quantity: qty, Customer: customer}, nil
}
