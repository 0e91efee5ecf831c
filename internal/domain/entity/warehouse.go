package entity

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/hapkiduki/fulfillment-go/internal/domain/valueobject"
)

// Warehouse errors define domain-specific error conditions for stock keeping.
var (
	ErrInvalidWarehouseID    = errors.New("warehouse ID cannot be empty")
	ErrNegativeStockQuantity = errors.New("stock quantity cannot be negative")
	ErrInsufficientStock     = errors.New("insufficient stock available")
)

// Warehouse holds per-product stock at a fixed position.
// Stock is only ever decreased, and only through Fulfill.
type Warehouse struct {
	// ID is the unique identifier for the warehouse
	ID string

	// Name is the display name of the warehouse
	Name string

	// Position is where shipments leave from
	Position valueobject.Position

	// stock maps product ID to units on hand
	stock map[string]int
}

// NewWarehouse creates a new Warehouse entity with an initial stock.
// The stock map is copied; later changes by the caller are not observed.
//
// Parameters:
//   - id: unique identifier (required)
//   - name: display name (optional)
//   - position: warehouse location
//   - stock: product ID to initial quantity (quantities must be non-negative)
//
// Returns:
//   - *Warehouse: newly created Warehouse
//   - error: Validation error if input is invalid
func NewWarehouse(id, name string, position valueobject.Position, stock map[string]int) (*Warehouse, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, ErrInvalidWarehouseID
	}
	if err := position.Validate(); err != nil {
		return nil, fmt.Errorf("warehouse %s: %w", id, err)
	}

	copied := make(map[string]int, len(stock))
	for productID, qty := range stock {
		if qty < 0 {
			return nil, fmt.Errorf("warehouse %s product %s: %w", id, productID, ErrNegativeStockQuantity)
		}
		copied[productID] = qty
	}

	return &Warehouse{
		ID:       id,
		Name:     name,
		Position: position,
		stock:    copied,
	}, nil
}

// HasStock reports whether at least qty units of the product are on hand.
//
// Parameters:
//   - productID: the product to check
//   - qty: requested quantity (values below 1 are treated as 1)
//
// Returns:
//   - bool: true if stock covers the requested quantity
func (w *Warehouse) HasStock(productID string, qty int) bool {
	if qty < 1 {
		qty = 1
	}
	return w.stock[productID] >= qty
}

// Stock returns the units on hand for a product.
func (w *Warehouse) Stock(productID string) int {
	return w.stock[productID]
}

// CurrentStocks returns a copy of the full stock map.
func (w *Warehouse) CurrentStocks() map[string]int {
	return maps.Clone(w.stock)
}

// ProductIDs returns the stocked product IDs in sorted order.
func (w *Warehouse) ProductIDs() []string {
	return slices.Sorted(maps.Keys(w.stock))
}

// Fulfill ships an order line from this warehouse: it checks the line is still
// open and that stock covers the quantity, then decrements stock and marks the
// line fulfilled. Either everything happens or nothing does.
//
// Callers outside the fulfillment ledger must go through Operations.Ship so the
// shipment book stays consistent with stock.
//
// Parameters:
//   - line: the order line to ship
//
// Returns:
//   - error: ErrOrderLineAlreadyShipped if the line is fulfilled,
//     ErrInsufficientStock if not enough stock available
func (w *Warehouse) Fulfill(line *OrderLine) error {
	if line.IsFulfilled() {
		return fmt.Errorf("order line %s: %w", line.ID, ErrOrderLineAlreadyShipped)
	}

	productID := line.Product.ID
	if w.stock[productID] < line.Quantity {
		return fmt.Errorf("warehouse %s product %s (have %d, need %d): %w",
			w.ID, productID, w.stock[productID], line.Quantity, ErrInsufficientStock)
	}

	w.stock[productID] -= line.Quantity
	line.markFulfilled(w.ID)
	return nil
}

// Clone returns a deep copy with independent stock.
func (w *Warehouse) Clone() *Warehouse {
	return &Warehouse{
		ID:       w.ID,
		Name:     w.Name,
		Position: w.Position,
		stock:    maps.Clone(w.stock),
	}
}
