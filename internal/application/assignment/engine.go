// Package assignment decides which warehouse fulfills every order line.
//
// The engine groups lines by customer, serves customers with more lines
// first and, within a customer, larger products first. For each line it
// collects the warehouses that can cover the quantity, lets a selection
// policy choose one and ships through the fulfillment ledger.
package assignment

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/hapkiduki/fulfillment-go/internal/application/port"
	"github.com/hapkiduki/fulfillment-go/internal/domain/entity"
	"github.com/hapkiduki/fulfillment-go/internal/domain/fulfillment"
)

// ErrPolicyDeclined is returned when a policy refuses a non-empty candidate set.
var ErrPolicyDeclined = errors.New("selection policy returned no warehouse")

// Config tunes an Engine. The zero value is usable.
type Config struct {
	// Workers bounds the goroutines used to precompute distances (0 = unbounded).
	Workers int

	// Logger receives run progress; nil discards it.
	Logger port.Logger

	// Metrics receives run counters; nil discards them.
	Metrics port.Metrics
}

// Assignment records where one order line was shipped from.
type Assignment struct {
	OrderLineID string  `json:"order_line_id"`
	CustomerID  string  `json:"customer_id"`
	ProductID   string  `json:"product_id"`
	WarehouseID string  `json:"warehouse_id"`
	Distance    float64 `json:"distance"`
}

// Result is the outcome of a run.
type Result struct {
	Policy        string
	Assignments   []Assignment
	Unfulfillable []*fulfillment.UnfulfillableOrderLineError
	// AlreadyFulfilled counts lines that were shipped before the run started.
	AlreadyFulfilled int
	Snapshot         fulfillment.InfoSnapshot
	Duration         time.Duration
}

// Err joins every unfulfillable line into one error, or returns nil.
func (r *Result) Err() error {
	errs := make([]error, 0, len(r.Unfulfillable))
	for _, e := range r.Unfulfillable {
		errs = append(errs, e)
	}
	return errors.Join(errs...)
}

// Engine assigns order lines to warehouses for one ledger.
type Engine struct {
	ops     *fulfillment.Operations
	policy  fulfillment.SelectionPolicy
	workers int
	log     port.Logger
	metrics port.Metrics
}

// NewEngine creates an engine bound to a ledger and a selection policy.
// A nil policy means the nearest-warehouse policy.
func NewEngine(ops *fulfillment.Operations, policy fulfillment.SelectionPolicy, cfg Config) *Engine {
	if policy == nil {
		policy = fulfillment.NearestWarehouse{}
	}
	log := cfg.Logger
	if log == nil {
		log = port.NopLogger{}
	}
	metrics := cfg.Metrics
	if metrics == nil {
		metrics = port.NopMetrics{}
	}

	return &Engine{
		ops:     ops,
		policy:  policy,
		workers: cfg.Workers,
		log:     log.With("policy", policy.Name()),
		metrics: metrics,
	}
}

// customerGroup is one customer's order lines in processing order.
type customerGroup struct {
	customer *entity.Customer
	lines    []*entity.OrderLine
}

// Run assigns every open order line. Lines nobody can cover are reported in
// Result.Unfulfillable and do not stop the run. A ledger error (double ship,
// stock missing after the pre-check) aborts the run and is returned together
// with the partial result.
//
// ctx only bounds the distance precomputation; once assignment starts the
// run completes.
func (e *Engine) Run(ctx context.Context) (*Result, error) {
	start := time.Now()
	tags := map[string]string{"policy": e.policy.Name()}
	result := &Result{Policy: e.policy.Name()}

	groups := groupByCustomer(e.ops.OrderLines())
	e.log.Info("Assignment run started",
		"order_lines", len(e.ops.OrderLines()),
		"customers", len(groups),
		"warehouses", len(e.ops.Warehouses()),
	)

	customers := make([]*entity.Customer, len(groups))
	for i, g := range groups {
		customers[i] = g.customer
	}
	distances, err := buildDistanceTable(ctx, e.ops, customers, e.workers)
	if err != nil {
		return result, fmt.Errorf("assignment run: %w", err)
	}

	warehouses := e.ops.Warehouses()
	for _, g := range groups {
		row := distances[g.customer.ID]
		for _, line := range g.lines {
			if line.IsFulfilled() {
				result.AlreadyFulfilled++
				continue
			}

			candidates := make([]fulfillment.Candidate, 0, len(warehouses))
			for wi, w := range warehouses {
				if e.ops.HasStock(w, line.Product, line.Quantity) {
					candidates = append(candidates, fulfillment.Candidate{Warehouse: w, Distance: row[wi]})
				}
			}

			if len(candidates) == 0 {
				uerr := &fulfillment.UnfulfillableOrderLineError{
					OrderLineID: line.ID,
					CustomerID:  g.customer.ID,
					ProductID:   line.Product.ID,
					Quantity:    line.Quantity,
				}
				result.Unfulfillable = append(result.Unfulfillable, uerr)
				e.metrics.Counter("order_lines_unfulfilled_total", 1, tags)
				e.log.Warn("Order line unfulfillable", "order_line_id", line.ID, "product_id", line.Product.ID)
				continue
			}

			pick, ok := e.policy.Select(line, candidates, e.ops)
			if !ok {
				return result, fmt.Errorf("assignment run: order line %s: %w", line.ID, ErrPolicyDeclined)
			}

			shipment, err := e.ops.Ship(line, pick.Warehouse)
			if err != nil {
				e.log.Error("Ship failed", "order_line_id", line.ID, "warehouse_id", pick.Warehouse.ID, "error", err)
				return result, fmt.Errorf("assignment run: %w", err)
			}

			result.Assignments = append(result.Assignments, Assignment{
				OrderLineID: line.ID,
				CustomerID:  g.customer.ID,
				ProductID:   line.Product.ID,
				WarehouseID: pick.Warehouse.ID,
				Distance:    pick.Distance,
			})
			e.metrics.Counter("order_lines_shipped_total", 1, tags)
			e.log.Debug("Order line shipped",
				"order_line_id", line.ID,
				"warehouse_id", pick.Warehouse.ID,
				"shipment_size", shipment.Size,
				"shipment_cost", shipment.Cost,
			)
		}
	}

	result.Snapshot = e.ops.InfoSnapshot()
	result.Duration = time.Since(start)

	e.metrics.Timing("assignment_run_duration_seconds", result.Duration, tags)
	e.metrics.Gauge("plan_total_cost", result.Snapshot.TotalCost, tags)
	e.log.Info("Assignment run finished",
		"shipped", len(result.Assignments),
		"unfulfilled", len(result.Unfulfillable),
		"shipments", result.Snapshot.ShipmentCount,
		"total_cost", result.Snapshot.TotalCost,
		"duration_ms", result.Duration.Milliseconds(),
	)

	return result, nil
}

// groupByCustomer buckets lines in one pass, then orders customers by
// descending line count and each customer's lines by descending product size.
// Both sorts are stable, so ties keep input order.
func groupByCustomer(lines []*entity.OrderLine) []*customerGroup {
	index := make(map[string]*customerGroup)
	groups := make([]*customerGroup, 0)

	for _, l := range lines {
		g, ok := index[l.Customer.ID]
		if !ok {
			g = &customerGroup{customer: l.Customer}
			index[l.Customer.ID] = g
			groups = append(groups, g)
		}
		g.lines = append(g.lines, l)
	}

	slices.SortStableFunc(groups, func(a, b *customerGroup) int {
		return cmp.Compare(len(b.lines), len(a.lines))
	})
	for _, g := range groups {
		slices.SortStableFunc(g.lines, func(a, b *entity.OrderLine) int {
			return cmp.Compare(b.Product.Size, a.Product.Size)
		})
	}

	return groups
}
