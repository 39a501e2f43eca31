package wire

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodePreservesOrder(t *testing.T) {
	body := Encode([]Field{
		{Key: "nombre", Value: "Laptop"},
		{Key: "categoria", Value: "Tecnología"},
		{Key: "stock", Value: "5"},
	})
	assert.Equal(t, "nombre:Laptop;categoria:Tecnología;stock:5;", string(body))
}

func TestDecodeRoundTrip(t *testing.T) {
	fields := []Field{
		{Key: "nombre", Value: "Laptop"},
		{Key: "categoria", Value: "Tecnología"},
		{Key: "fecha_publicacion", Value: "2024-01-15"},
		{Key: "precio", Value: "999"},
		{Key: "stock", Value: "5"},
	}

	attrs, skipped := Decode(Encode(fields))
	require.Zero(t, skipped)
	require.Len(t, attrs, len(fields))
	for _, f := range fields {
		assert.Equal(t, f.Value, attrs[f.Key])
	}
}

func TestDecodeSkipsMalformedSegments(t *testing.T) {
	attrs, skipped := Decode([]byte("nombre:Laptop;foo;precio:999;"))

	assert.Equal(t, 1, skipped)
	assert.Equal(t, "Laptop", attrs["nombre"])
	assert.Equal(t, "999", attrs["precio"])
}

func TestDecodeSkipsEmptyKey(t *testing.T) {
	attrs, skipped := Decode([]byte(":valor;nombre:Laptop;"))

	assert.Equal(t, 1, skipped)
	assert.Equal(t, map[string]string{"nombre": "Laptop"}, attrs)
}

func TestDecodeEmptyBody(t *testing.T) {
	attrs, skipped := Decode(nil)
	assert.Zero(t, skipped)
	assert.Empty(t, attrs)
}

func TestDecodeSplitsOnFirstColon(t *testing.T) {
	// A value with a colon survives decode; a value with a semicolon does
	// not. The format has no escaping, callers keep delimiters out.
	attrs, skipped := Decode([]byte("fecha_publicacion:2024-01-15T10:30;"))
	assert.Zero(t, skipped)
	assert.Equal(t, "2024-01-15T10:30", attrs["fecha_publicacion"])
}
