package domain

import (
	"fmt"
	"strconv"

	"github.com/andrewp05/ecommerce-fabric/internal/wire"
)

// Wire attribute keys. These match the payload format of the deployed
// system and must not change.
const (
	FieldName     = "nombre"
	FieldCategory = "categoria"
	FieldDate     = "fecha_publicacion"
	FieldBrand    = "marca"
	FieldSection  = "seccion"
	FieldPrice    = "precio"
	FieldStock    = "stock"
)

// Category and section vocabularies offered by the producer UI. Informational
// only: the core accepts any value, like the wire format does.
var (
	Categories = []string{"Tecnología", "Ropa", "Hogar", "Juguetes"}
	Sections   = []string{"General", "Ofertas", "Premium", "Outlet"}
)

// Product is a catalog listing. Name is the unique identifier; Price stays
// a string because the wire format carries it as text.
type Product struct {
	Name     string `json:"name"`
	Category string `json:"category"`
	Date     string `json:"date"`
	Brand    string `json:"brand"`
	Section  string `json:"section"`
	Price    string `json:"price"`
	Stock    int    `json:"stock"`
}

// Validate checks the publish preconditions: name, date, brand, price and
// stock must be present, category non-empty, stock non-negative.
func (p Product) Validate() error {
	for _, f := range []struct{ key, value string }{
		{FieldName, p.Name},
		{FieldCategory, p.Category},
		{FieldDate, p.Date},
		{FieldBrand, p.Brand},
		{FieldPrice, p.Price},
	} {
		if f.value == "" {
			return fmt.Errorf("%w: missing field %s", ErrValidation, f.key)
		}
	}
	if p.Stock < 0 {
		return fmt.Errorf("%w: negative stock %d", ErrValidation, p.Stock)
	}
	return nil
}

// WireFields returns the product attributes in the fixed wire order.
func (p Product) WireFields() []wire.Field {
	return []wire.Field{
		{Key: FieldName, Value: p.Name},
		{Key: FieldCategory, Value: p.Category},
		{Key: FieldDate, Value: p.Date},
		{Key: FieldBrand, Value: p.Brand},
		{Key: FieldSection, Value: p.Section},
		{Key: FieldPrice, Value: p.Price},
		{Key: FieldStock, Value: strconv.Itoa(p.Stock)},
	}
}

// ProductFromWire builds a Product from decoded payload attributes.
// A missing name or unparseable stock makes the whole message malformed.
func ProductFromWire(attrs map[string]string) (Product, error) {
	name := attrs[FieldName]
	if name == "" {
		return Product{}, fmt.Errorf("%w: listing without %s", ErrMalformedMessage, FieldName)
	}
	stock := 0
	if raw, ok := attrs[FieldStock]; ok {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return Product{}, fmt.Errorf("%w: bad stock %q", ErrMalformedMessage, raw)
		}
		stock = n
	}
	return Product{
		Name:     name,
		Category: attrs[FieldCategory],
		Date:     attrs[FieldDate],
		Brand:    attrs[FieldBrand],
		Section:  attrs[FieldSection],
		Price:    attrs[FieldPrice],
		Stock:    stock,
	}, nil
}
