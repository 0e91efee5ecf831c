package dto

import (
	"time"

	"github.com/hapkiduki/fulfillment-go/internal/domain/repository"
)

// CreatePlanRequest is the body of POST /v1/plans.
type CreatePlanRequest struct {
	// Policy overrides the configured selection policy when set.
	Policy string `json:"policy,omitempty" validate:"omitempty,oneof=nearest consolidating"`

	// Dataset is the full input of the run.
	Dataset DatasetRequest `json:"dataset"`
}

// DatasetRequest is an inline dataset. Slice order is the enumeration order
// the engine uses for tie-breaks.
type DatasetRequest struct {
	Products   []ProductRequest   `json:"products" validate:"required,min=1,dive"`
	Customers  []CustomerRequest  `json:"customers" validate:"required,min=1,dive"`
	Warehouses []WarehouseRequest `json:"warehouses" validate:"required,min=1,dive"`
	OrderLines []OrderLineRequest `json:"order_lines" validate:"dive"`
}

// ProductRequest is one product of an inline dataset.
type ProductRequest struct {
	ID   string  `json:"id" validate:"required"`
	Name string  `json:"name,omitempty"`
	Size float64 `json:"size" validate:"gt=0"`
}

// CustomerRequest is one customer of an inline dataset.
type CustomerRequest struct {
	ID   string  `json:"id" validate:"required"`
	Name string  `json:"name,omitempty"`
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
}

// WarehouseRequest is one warehouse of an inline dataset.
type WarehouseRequest struct {
	ID    string         `json:"id" validate:"required"`
	Name  string         `json:"name,omitempty"`
	X     float64        `json:"x"`
	Y     float64        `json:"y"`
	Stock map[string]int `json:"stock" validate:"dive,keys,required,endkeys,gte=0"`
}

// OrderLineRequest is one order line of an inline dataset.
type OrderLineRequest struct {
	ID         string `json:"id" validate:"required"`
	CustomerID string `json:"customer_id" validate:"required"`
	ProductID  string `json:"product_id" validate:"required"`
	Quantity   int    `json:"quantity,omitempty" validate:"gte=0"`
}

// ToRecords converts the request into repository records.
func (r DatasetRequest) ToRecords() repository.Records {
	rec := repository.Records{
		Products:   make([]repository.ProductRecord, 0, len(r.Products)),
		Customers:  make([]repository.CustomerRecord, 0, len(r.Customers)),
		Warehouses: make([]repository.WarehouseRecord, 0, len(r.Warehouses)),
		OrderLines: make([]repository.OrderLineRecord, 0, len(r.OrderLines)),
	}
	for _, p := range r.Products {
		rec.Products = append(rec.Products, repository.ProductRecord(p))
	}
	for _, c := range r.Customers {
		rec.Customers = append(rec.Customers, repository.CustomerRecord(c))
	}
	for _, w := range r.Warehouses {
		rec.Warehouses = append(rec.Warehouses, repository.WarehouseRecord(w))
	}
	for _, l := range r.OrderLines {
		rec.OrderLines = append(rec.OrderLines, repository.OrderLineRecord(l))
	}
	return rec
}

// PlanReport is the stored and returned result of one planning run.
// Cost fields are rounded to cents.
type PlanReport struct {
	PlanID    string    `json:"plan_id"`
	Policy    string    `json:"policy"`
	Metric    string    `json:"metric"`
	CreatedAt time.Time `json:"created_at"`

	// DurationMs is the wall time of the assignment run.
	DurationMs int64 `json:"duration_ms"`

	Summary     PlanSummary          `json:"summary"`
	Shipments   []ShipmentResponse   `json:"shipments"`
	Unfulfilled []UnfulfilledLineDTO `json:"unfulfilled"`
}

// PlanSummary mirrors the final info snapshot of a run.
type PlanSummary struct {
	FulfilledOrderLineCount  int     `json:"fulfilled_order_line_count"`
	UnfinishedOrderLineCount int     `json:"unfinished_order_line_count"`
	ShipmentCount            int     `json:"shipment_count"`
	ShipmentsCost            float64 `json:"shipments_cost"`
	UnfinishedOrderLinesCost float64 `json:"unfinished_order_lines_cost"`
	TotalCost                float64 `json:"total_cost"`
}

// ShipmentResponse is one warehouse/customer shipment in a report.
type ShipmentResponse struct {
	WarehouseID  string   `json:"warehouse_id"`
	CustomerID   string   `json:"customer_id"`
	Distance     float64  `json:"distance"`
	Size         float64  `json:"size"`
	Cost         float64  `json:"cost"`
	OrderLineIDs []string `json:"order_line_ids"`
}

// UnfulfilledLineDTO is an order line no warehouse could cover.
type UnfulfilledLineDTO struct {
	OrderLineID string `json:"order_line_id"`
	CustomerID  string `json:"customer_id"`
	ProductID   string `json:"product_id"`
	Quantity    int    `json:"quantity"`
}

// PolicyComparison is the total of one policy in a comparison run.
type PolicyComparison struct {
	Policy  string      `json:"policy"`
	Summary PlanSummary `json:"summary"`
}
