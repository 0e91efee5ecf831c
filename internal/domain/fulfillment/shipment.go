package fulfillment

import (
	"slices"

	"github.com/hapkiduki/fulfillment-go/internal/domain/entity"
	"github.com/hapkiduki/fulfillment-go/internal/domain/valueobject"
)

// ShipmentKey identifies a shipment by its warehouse/customer pair.
type ShipmentKey struct {
	WarehouseID string
	CustomerID  string
}

// Shipment is every order line delivered to one customer from one warehouse,
// priced once as a unit.
type Shipment struct {
	WarehouseID  string
	CustomerID   string
	Distance     float64
	Size         float64
	OrderLineIDs []string
	Cost         float64
}

// ShipmentCost prices a shipment as (base + size*sizeCost) * distance.
//
// Parameters:
//   - accumulatedSize: total size of the shipment
//   - distance: warehouse to customer distance
//   - factors: pricing configuration
//
// Returns:
//   - float64: the shipment cost
func ShipmentCost(accumulatedSize, distance float64, factors valueobject.CostFactors) float64 {
	return factors.ShipmentCost(accumulatedSize, distance)
}

// ShipmentBook aggregates shipped lines into shipments. It is not safe for
// concurrent use; Operations serialises access.
type ShipmentBook struct {
	factors   valueobject.CostFactors
	shipments map[ShipmentKey]*Shipment
	order     []ShipmentKey
}

// NewShipmentBook creates an empty book priced with the given factors.
func NewShipmentBook(factors valueobject.CostFactors) *ShipmentBook {
	return &ShipmentBook{
		factors:   factors,
		shipments: make(map[ShipmentKey]*Shipment),
	}
}

// Add registers a shipped line. The first line for a pair opens the shipment
// and fixes its distance; later lines grow its size and the cost is recomputed
// from the new total, replacing the previous value.
//
// Returns:
//   - Shipment: a copy of the shipment after the line was added
func (b *ShipmentBook) Add(line *entity.OrderLine, warehouseID string, distance float64) Shipment {
	key := ShipmentKey{WarehouseID: warehouseID, CustomerID: line.Customer.ID}

	s, ok := b.shipments[key]
	if !ok {
		s = &Shipment{
			WarehouseID: warehouseID,
			CustomerID:  line.Customer.ID,
			Distance:    distance,
		}
		b.shipments[key] = s
		b.order = append(b.order, key)
	}

	s.Size += line.Size()
	s.OrderLineIDs = append(s.OrderLineIDs, line.ID)
	s.Cost = ShipmentCost(s.Size, s.Distance, b.factors)

	return copyShipment(s)
}

// Lookup returns the open shipment for a pair, if any.
func (b *ShipmentBook) Lookup(warehouseID, customerID string) (Shipment, bool) {
	s, ok := b.shipments[ShipmentKey{WarehouseID: warehouseID, CustomerID: customerID}]
	if !ok {
		return Shipment{}, false
	}
	return copyShipment(s), true
}

// Cost sums the current cost of every shipment.
func (b *ShipmentBook) Cost() float64 {
	total := 0.0
	for _, key := range b.order {
		total += b.shipments[key].Cost
	}
	return total
}

// Len returns the number of shipments opened so far.
func (b *ShipmentBook) Len() int {
	return len(b.order)
}

// Shipments returns copies of all shipments in the order they were opened.
func (b *ShipmentBook) Shipments() []Shipment {
	out := make([]Shipment, 0, len(b.order))
	for _, key := range b.order {
		out = append(out, copyShipment(b.shipments[key]))
	}
	return out
}

func copyShipment(s *Shipment) Shipment {
	cp := *s
	cp.OrderLineIDs = slices.Clone(s.OrderLineIDs)
	return cp
}
