package domain

import (
	"errors"
	"fmt"
)

var (
	ErrValidation        = errors.New("validation error")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrDelivery          = errors.New("delivery error")
	ErrMalformedMessage  = errors.New("malformed message")

	// ErrUnknownProduct is a validation error: errors.Is(err, ErrValidation)
	// holds for it too.
	ErrUnknownProduct = fmt.Errorf("%w: unknown product", ErrValidation)
)
