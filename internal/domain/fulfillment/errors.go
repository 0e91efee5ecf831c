// Package fulfillment is the stock ledger and cost model of an assignment run:
// it ships order lines from warehouses, aggregates them into shipments per
// warehouse/customer pair and reports running costs.
package fulfillment

import (
	"errors"
	"fmt"
)

// Fulfillment errors define conditions raised by the ledger and the policies.
var (
	// ErrUnfulfillableOrderLine means no warehouse held enough stock for a line.
	// It is recoverable: the run continues and the line is reported.
	ErrUnfulfillableOrderLine = errors.New("order line cannot be fulfilled from any warehouse")

	// ErrUnknownOrderLine is returned when shipping a line the ledger does not track.
	ErrUnknownOrderLine = errors.New("order line is not part of this run")

	// ErrUnknownWarehouse is returned when shipping from a warehouse the ledger does not track.
	ErrUnknownWarehouse = errors.New("warehouse is not part of this run")

	// ErrUnknownPolicy is returned when a selection policy name cannot be resolved.
	ErrUnknownPolicy = errors.New("unknown selection policy")
)

// UnfulfillableOrderLineError describes one order line left unfulfilled.
type UnfulfillableOrderLineError struct {
	OrderLineID string
	CustomerID  string
	ProductID   string
	Quantity    int
}

// Error implements the error interface.
func (e *UnfulfillableOrderLineError) Error() string {
	return fmt.Sprintf("order line %s (customer %s, product %s x%d): %s",
		e.OrderLineID, e.CustomerID, e.ProductID, e.Quantity, ErrUnfulfillableOrderLine)
}

// Is makes errors.Is(err, ErrUnfulfillableOrderLine) hold.
func (e *UnfulfillableOrderLineError) Is(target error) bool {
	return target == ErrUnfulfillableOrderLine
}
