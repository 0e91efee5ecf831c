package entity

import (
	"errors"
	"strings"
)

// Order line errors define domain-specific error conditions for order lines.
var (
	ErrInvalidOrderLineID      = errors.New("order line ID cannot be empty")
	ErrOrderLineMissingRef     = errors.New("order line must reference a customer and a product")
	ErrInvalidQuantity         = errors.New("order line quantity must be positive")
	ErrOrderLineAlreadyShipped = errors.New("order line already shipped")
)

// OrderLineStatus represents the lifecycle state of an order line.
type OrderLineStatus string

const (
	OrderLineUnfulfilled OrderLineStatus = "unfulfilled" // Not shipped yet
	OrderLineFulfilled   OrderLineStatus = "fulfilled"   // Shipped from exactly one warehouse
)

// OrderLine requests a quantity of one product for one customer.
// It moves from unfulfilled to fulfilled exactly once and never back.
type OrderLine struct {
	// ID is the unique identifier for the order line
	ID string

	// Customer receives the shipment
	Customer *Customer

	// Product is what is ordered
	Product *Product

	// Quantity is the number of product units requested
	Quantity int

	status      OrderLineStatus
	warehouseID string
}

// NewOrderLine creates a new unfulfilled OrderLine.
//
// Parameters:
//   - id: unique identifier (required)
//   - customer: the ordering customer (required)
//   - product: the ordered product (required)
//   - quantity: units requested (must be positive)
//
// Returns:
//   - *OrderLine: newly created OrderLine
//   - error: Validation error if input is invalid
func NewOrderLine(id string, customer *Customer, product *Product, quantity int) (*OrderLine, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, ErrInvalidOrderLineID
	}
	if customer == nil || product == nil {
		return nil, ErrOrderLineMissingRef
	}
	if quantity < 1 {
		return nil, ErrInvalidQuantity
	}

	return &OrderLine{
		ID:       id,
		Customer: customer,
		Product:  product,
		Quantity: quantity,
		status:   OrderLineUnfulfilled,
	}, nil
}

// Size is the contribution of this line to a shipment's accumulated size.
func (l *OrderLine) Size() float64 {
	return float64(l.Quantity) * l.Product.Size
}

// Status returns the lifecycle state.
func (l *OrderLine) Status() OrderLineStatus {
	if l.status == "" {
		return OrderLineUnfulfilled
	}
	return l.status
}

// IsFulfilled reports whether the line has been shipped.
func (l *OrderLine) IsFulfilled() bool {
	return l.status == OrderLineFulfilled
}

// WarehouseID returns the fulfilling warehouse, or "" while unfulfilled.
func (l *OrderLine) WarehouseID() string {
	return l.warehouseID
}

func (l *OrderLine) markFulfilled(warehouseID string) {
	l.status = OrderLineFulfilled
	l.warehouseID = warehouseID
}
