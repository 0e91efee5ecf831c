package entity

import (
	"errors"
	"fmt"
)

// ErrDuplicateID is returned when two entities of the same kind share an ID.
var ErrDuplicateID = errors.New("duplicate entity ID")

// Dataset is the fully materialised input of a fulfillment run.
// Slice order is significant: it is the enumeration order used for tie-breaks.
type Dataset struct {
	Products   []*Product
	Customers  []*Customer
	Warehouses []*Warehouse
	OrderLines []*OrderLine
}

// Validate checks ID uniqueness per kind and that every order line references
// a customer and product belonging to this dataset.
//
// Returns:
//   - error: the first violation found, or nil
func (d *Dataset) Validate() error {
	products := make(map[string]*Product, len(d.Products))
	for _, p := range d.Products {
		if _, dup := products[p.ID]; dup {
			return fmt.Errorf("product %s: %w", p.ID, ErrDuplicateID)
		}
		products[p.ID] = p
	}

	customers := make(map[string]*Customer, len(d.Customers))
	for _, c := range d.Customers {
		if _, dup := customers[c.ID]; dup {
			return fmt.Errorf("customer %s: %w", c.ID, ErrDuplicateID)
		}
		customers[c.ID] = c
	}

	warehouses := make(map[string]struct{}, len(d.Warehouses))
	for _, w := range d.Warehouses {
		if _, dup := warehouses[w.ID]; dup {
			return fmt.Errorf("warehouse %s: %w", w.ID, ErrDuplicateID)
		}
		warehouses[w.ID] = struct{}{}
	}

	lines := make(map[string]struct{}, len(d.OrderLines))
	for _, l := range d.OrderLines {
		if _, dup := lines[l.ID]; dup {
			return fmt.Errorf("order line %s: %w", l.ID, ErrDuplicateID)
		}
		lines[l.ID] = struct{}{}

		if l.Customer == nil || customers[l.Customer.ID] != l.Customer {
			return fmt.Errorf("order line %s: %w", l.ID, ErrOrderLineMissingRef)
		}
		if l.Product == nil || products[l.Product.ID] != l.Product {
			return fmt.Errorf("order line %s: %w", l.ID, ErrOrderLineMissingRef)
		}
	}

	return nil
}

// Clone returns a copy whose warehouses and order lines can be mutated
// without affecting d. Products and customers are shared.
func (d *Dataset) Clone() *Dataset {
	warehouses := make([]*Warehouse, len(d.Warehouses))
	for i, w := range d.Warehouses {
		warehouses[i] = w.Clone()
	}

	lines := make([]*OrderLine, len(d.OrderLines))
	for i, l := range d.OrderLines {
		cp := *l
		lines[i] = &cp
	}

	return &Dataset{
		Products:   d.Products,
		Customers:  d.Customers,
		Warehouses: warehouses,
		OrderLines: lines,
	}
}
