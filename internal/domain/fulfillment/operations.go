package fulfillment

import (
	"errors"
	"fmt"
	"sync"

	"github.com/hapkiduki/fulfillment-go/internal/domain/entity"
	"github.com/hapkiduki/fulfillment-go/internal/domain/valueobject"
)

// ErrNilDataset is returned when Operations is built without input.
var ErrNilDataset = errors.New("dataset is required")

// Operations is the ledger an assignment run works against. It exposes stock
// queries, the ship operation, the cost factors and on-demand snapshots.
//
// All methods are safe for concurrent use. Ship is a single critical section:
// check, decrement, mark and shipment registration happen together.
type Operations struct {
	mu sync.Mutex

	dataset    *entity.Dataset
	factors    valueobject.CostFactors
	metric     valueobject.DistanceMetric
	lines      map[string]*entity.OrderLine
	warehouses map[string]*entity.Warehouse
	book       *ShipmentBook
}

// NewOperations creates the ledger for one dataset.
//
// Parameters:
//   - ds: the input to run on; its warehouses and order lines will be mutated
//   - factors: pricing configuration
//   - metric: distance function (nil means Euclidean)
//
// Returns:
//   - *Operations: the ledger
//   - error: ErrNilDataset, a cost factor or dataset validation error
func NewOperations(ds *entity.Dataset, factors valueobject.CostFactors, metric valueobject.DistanceMetric) (*Operations, error) {
	if ds == nil {
		return nil, ErrNilDataset
	}
	if err := factors.Validate(); err != nil {
		return nil, fmt.Errorf("new operations: %w", err)
	}
	if err := ds.Validate(); err != nil {
		return nil, fmt.Errorf("new operations: %w", err)
	}
	if metric == nil {
		metric = valueobject.Euclidean
	}

	lines := make(map[string]*entity.OrderLine, len(ds.OrderLines))
	for _, l := range ds.OrderLines {
		lines[l.ID] = l
	}
	warehouses := make(map[string]*entity.Warehouse, len(ds.Warehouses))
	for _, w := range ds.Warehouses {
		warehouses[w.ID] = w
	}

	return &Operations{
		dataset:    ds,
		factors:    factors,
		metric:     metric,
		lines:      lines,
		warehouses: warehouses,
		book:       NewShipmentBook(factors),
	}, nil
}

// Warehouses returns the warehouses in enumeration order.
func (o *Operations) Warehouses() []*entity.Warehouse {
	return o.dataset.Warehouses
}

// OrderLines returns the order lines in input order.
func (o *Operations) OrderLines() []*entity.OrderLine {
	return o.dataset.OrderLines
}

// CostFactors returns the pricing configuration.
func (o *Operations) CostFactors() valueobject.CostFactors {
	return o.factors
}

// Distance measures between a warehouse and a customer with the run's metric.
func (o *Operations) Distance(w *entity.Warehouse, c *entity.Customer) float64 {
	return w.Position.DistanceTo(c.Position, o.metric)
}

// HasStock reports whether the warehouse can cover qty units of the product.
func (o *Operations) HasStock(w *entity.Warehouse, p *entity.Product, qty int) bool {
	o.mu.Lock()
	defer o.mu.Unlock()

	return w.HasStock(p.ID, qty)
}

// Ship fulfills an order line from a warehouse and adds it to the shipment
// for that warehouse/customer pair.
//
// Parameters:
//   - line: the order line to ship
//   - w: the fulfilling warehouse
//
// Returns:
//   - Shipment: the shipment after adding the line
//   - error: ErrUnknownOrderLine, ErrUnknownWarehouse, entity.ErrOrderLineAlreadyShipped or
//     entity.ErrInsufficientStock; nothing is changed on error
func (o *Operations) Ship(line *entity.OrderLine, w *entity.Warehouse) (Shipment, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if tracked, ok := o.lines[line.ID]; !ok || tracked != line {
		return Shipment{}, fmt.Errorf("ship %s: %w", line.ID, ErrUnknownOrderLine)
	}
	if tracked, ok := o.warehouses[w.ID]; !ok || tracked != w {
		return Shipment{}, fmt.Errorf("ship %s from %s: %w", line.ID, w.ID, ErrUnknownWarehouse)
	}

	if err := w.Fulfill(line); err != nil {
		return Shipment{}, fmt.Errorf("ship: %w", err)
	}

	return o.book.Add(line, w.ID, o.Distance(w, line.Customer)), nil
}

// OpenShipment returns the shipment already open for a pair, if any.
func (o *Operations) OpenShipment(warehouseID, customerID string) (Shipment, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()

	return o.book.Lookup(warehouseID, customerID)
}

// Shipments returns every shipment in the order they were opened.
func (o *Operations) Shipments() []Shipment {
	o.mu.Lock()
	defer o.mu.Unlock()

	return o.book.Shipments()
}

// InfoSnapshot computes the current statistics from ledger state.
func (o *Operations) InfoSnapshot() InfoSnapshot {
	o.mu.Lock()
	defer o.mu.Unlock()

	snap := InfoSnapshot{
		ShipmentCount: o.book.Len(),
		ShipmentsCost: o.book.Cost(),
	}
	for _, l := range o.dataset.OrderLines {
		if l.IsFulfilled() {
			snap.FulfilledOrderLineCount++
			continue
		}
		snap.UnfinishedOrderLineCount++
		snap.UnfinishedOrderLinesCost += o.factors.UnfulfilledCost(l.Size())
	}
	snap.TotalCost = snap.ShipmentsCost + snap.UnfinishedOrderLinesCost

	return snap
}
