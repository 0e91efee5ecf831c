// Package repository contains the repository interfaces (ports) for data access.
package repository

import (
	"context"
	"fmt"

	"github.com/hapkiduki/fulfillment-go/internal/domain/entity"
	"github.com/hapkiduki/fulfillment-go/internal/domain/valueobject"
)

// DatasetRepository defines the interface for loading the input of a run.
// Implementations exist for files, PostgreSQL and in-memory fixtures.
//
// Example usage:
//
//	repo := file.NewDatasetRepository("data/dataset.yaml")
//	ds, err := repo.Load(ctx)
type DatasetRepository interface {
	// Load materialises a fresh dataset.
	//
	// Parameters:
	//   - ctx: context for cancellation and deadlines
	//
	// Returns:
	//   - *entity.Dataset: validated dataset ready for a run
	//   - error: ErrInvalidInput, ErrDatasetNotFound or a source error
	Load(ctx context.Context) (*entity.Dataset, error)
}

// ProductRecord is the flat storage form of a product.
type ProductRecord struct {
	ID   string  `json:"id" yaml:"id"`
	Name string  `json:"name,omitempty" yaml:"name,omitempty"`
	Size float64 `json:"size" yaml:"size"`
}

// CustomerRecord is the flat storage form of a customer.
type CustomerRecord struct {
	ID   string  `json:"id" yaml:"id"`
	Name string  `json:"name,omitempty" yaml:"name,omitempty"`
	X    float64 `json:"x" yaml:"x"`
	Y    float64 `json:"y" yaml:"y"`
}

// WarehouseRecord is the flat storage form of a warehouse and its stock.
type WarehouseRecord struct {
	ID    string         `json:"id" yaml:"id"`
	Name  string         `json:"name,omitempty" yaml:"name,omitempty"`
	X     float64        `json:"x" yaml:"x"`
	Y     float64        `json:"y" yaml:"y"`
	Stock map[string]int `json:"stock" yaml:"stock"`
}

// OrderLineRecord is the flat storage form of an order line.
// A zero Quantity means one unit.
type OrderLineRecord struct {
	ID         string `json:"id" yaml:"id"`
	CustomerID string `json:"customer_id" yaml:"customer_id"`
	ProductID  string `json:"product_id" yaml:"product_id"`
	Quantity   int    `json:"quantity,omitempty" yaml:"quantity,omitempty"`
}

// Records is the source-agnostic shape every loader produces.
type Records struct {
	Products   []ProductRecord   `json:"products" yaml:"products"`
	Customers  []CustomerRecord  `json:"customers" yaml:"customers"`
	Warehouses []WarehouseRecord `json:"warehouses" yaml:"warehouses"`
	OrderLines []OrderLineRecord `json:"order_lines" yaml:"order_lines"`
}

// Build resolves references and constructs a validated dataset.
// Record order is preserved.
//
// Returns:
//   - *entity.Dataset: the built dataset
//   - error: ErrInvalidInput wrapping the first offending record
func (r Records) Build() (*entity.Dataset, error) {
	ds := &entity.Dataset{
		Products:   make([]*entity.Product, 0, len(r.Products)),
		Customers:  make([]*entity.Customer, 0, len(r.Customers)),
		Warehouses: make([]*entity.Warehouse, 0, len(r.Warehouses)),
		OrderLines: make([]*entity.OrderLine, 0, len(r.OrderLines)),
	}

	products := make(map[string]*entity.Product, len(r.Products))
	for i, rec := range r.Products {
		p, err := entity.NewProduct(rec.ID, rec.Name, rec.Size)
		if err != nil {
			return nil, fmt.Errorf("%w: product #%d %q: %w", ErrInvalidInput, i+1, rec.ID, err)
		}
		products[p.ID] = p
		ds.Products = append(ds.Products, p)
	}

	customers := make(map[string]*entity.Customer, len(r.Customers))
	for i, rec := range r.Customers {
		c, err := entity.NewCustomer(rec.ID, rec.Name, valueobject.NewPosition(rec.X, rec.Y))
		if err != nil {
			return nil, fmt.Errorf("%w: customer #%d %q: %w", ErrInvalidInput, i+1, rec.ID, err)
		}
		customers[c.ID] = c
		ds.Customers = append(ds.Customers, c)
	}

	for i, rec := range r.Warehouses {
		for productID := range rec.Stock {
			if _, ok := products[productID]; !ok {
				return nil, fmt.Errorf("%w: warehouse %q stocks unknown product %q", ErrProductNotFound, rec.ID, productID)
			}
		}
		w, err := entity.NewWarehouse(rec.ID, rec.Name, valueobject.NewPosition(rec.X, rec.Y), rec.Stock)
		if err != nil {
			return nil, fmt.Errorf("%w: warehouse #%d %q: %w", ErrInvalidInput, i+1, rec.ID, err)
		}
		ds.Warehouses = append(ds.Warehouses, w)
	}

	for i, rec := range r.OrderLines {
		c, ok := customers[rec.CustomerID]
		if !ok {
			return nil, fmt.Errorf("%w: order line %q customer %q", ErrCustomerNotFound, rec.ID, rec.CustomerID)
		}
		p, ok := products[rec.ProductID]
		if !ok {
			return nil, fmt.Errorf("%w: order line %q product %q", ErrProductNotFound, rec.ID, rec.ProductID)
		}
		qty := rec.Quantity
		if qty == 0 {
			qty = 1
		}
		l, err := entity.NewOrderLine(rec.ID, c, p, qty)
		if err != nil {
			return nil, fmt.Errorf("%w: order line #%d %q: %w", ErrInvalidInput, i+1, rec.ID, err)
		}
		ds.OrderLines = append(ds.OrderLines, l)
	}

	if err := ds.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	return ds, nil
}
