// Package entity contains the core bussiness entities of the domain layer.
package entity

import (
	"errors"
	"math"
	"strings"
)

// Product errors define domain-specific error conditions for products.
var (
	ErrInvalidProductID   = errors.New("product ID cannot be empty")
	ErrInvalidProductSize = errors.New("product size must be positive")
)

// Product is an immutable catalogue item with a size used for shipment pricing.
type Product struct {
	// ID is the unique identifier for the product
	ID string `json:"id"`

	// Name is the name of the product
	Name string `json:"name,omitempty"`

	// Size is the per-unit size charged by the size cost factor
	Size float64 `json:"size"`
}

// NewProduct creates a new Product entity with the provided details.
//
// Parameters:
//   - id: unique identifier of the product (required)
//   - name: display name (optional)
//   - size: per-unit size (must be positive)
//
// Returns:
//   - *Product: newly created Product
//   - error: Validation error if input is invalid
func NewProduct(id, name string, size float64) (*Product, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, ErrInvalidProductID
	}
	if size <= 0 || math.IsNaN(size) || math.IsInf(size, 0) {
		return nil, ErrInvalidProductSize
	}

	return &Product{
		ID:   id,
		Name: name,
		Size: size,
	}, nil
}
