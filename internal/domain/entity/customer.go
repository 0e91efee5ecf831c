package entity

import (
	"errors"
	"fmt"
	"strings"

	"github.com/hapkiduki/fulfillment-go/internal/domain/valueobject"
)

// ErrInvalidCustomerID is returned when a customer is created without an ID.
var ErrInvalidCustomerID = errors.New("customer ID cannot be empty")

// Customer is an immutable delivery destination.
type Customer struct {
	// ID is the unique identifier for the customer
	ID string `json:"id"`

	// Name is the display name of the customer
	Name string `json:"name,omitempty"`

	// Position is where shipments are delivered
	Position valueobject.Position `json:"position"`
}

// NewCustomer creates a new Customer entity.
//
// Parameters:
//   - id: unique identifier (required)
//   - name: display name (optional)
//   - position: delivery location
//
// Returns:
//   - *Customer: newly created Customer
//   - error: ErrInvalidCustomerID if id is blank,
//     valueobject.ErrNonFiniteCoordinate if position is NaN or infinite
func NewCustomer(id, name string, position valueobject.Position) (*Customer, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, ErrInvalidCustomerID
	}
	if err := position.Validate(); err != nil {
		return nil, fmt.Errorf("customer %s: %w", id, err)
	}
	return &Customer{ID: id, Name: name, Position: position}, nil
}
