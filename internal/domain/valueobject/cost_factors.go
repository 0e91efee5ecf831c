// Package valueobject contains value objects that represent concepts without identity.
// Value objects are immutable and compared by their attributes rather than identity.
// They encapsulate validation logic and ensure data integrity.
//
// Value Objects follow these principles:
//   - Immutability: Once created, they cannot be changed.
//   - Equality: Two value objects are equal if all their attributes are equal.
//   - Self-validation: They validate their own data upon creation.
//   - Side-effect free: Methods returns new instances rather than modifying state
package valueobject

import (
	"errors"
	"fmt"
	"math"
)

// CostFactors errors define domain-specific error conditions.
var (
	ErrNegativeBaseCost        = errors.New("base cost cannot be negative")
	ErrNegativeSizeCost        = errors.New("size cost cannot be negative")
	ErrNegativeUnfulfilledCost = errors.New("unfulfilled line cost cannot be negative")
	ErrNonFiniteCost           = errors.New("cost factor must be a finite number")
)

// CostFactors is the pricing configuration of a shipment.
//
// A shipment from one warehouse to one customer costs
//
//	(BaseCost + accumulatedSize * SizeCost) * distance
//
// and every order line left unfulfilled is charged
// UnfulfilledLineCost per unit of its size.
//
// Example usage:
//
//	factors, err := valueobject.NewCostFactors(10, 2, 100)
//	cost := factors.ShipmentCost(8, 4) // 104
type CostFactors struct {
	// BaseCost is charged once per shipment regardless of its size.
	BaseCost float64 `json:"base_cost" yaml:"base_cost"`

	// SizeCost is charged per unit of accumulated size within a shipment.
	SizeCost float64 `json:"size_cost" yaml:"size_cost"`

	// UnfulfilledLineCost is charged per unit of size of an unfulfilled order line.
	UnfulfilledLineCost float64 `json:"unfulfilled_line_cost" yaml:"unfulfilled_line_cost"`
}

// NewCostFactors creates a new validated CostFactors value object.
//
// Parameters:
//   - baseCost: fixed cost per shipment (must be >= 0)
//   - sizeCost: cost per unit size (must be >= 0)
//   - unfulfilledLineCost: penalty per unit size of an unfulfilled line (must be >= 0)
//
// Returns:
//   - CostFactors: the created value object
//   - error: validation error if any factor is negative or not finite
func NewCostFactors(baseCost, sizeCost, unfulfilledLineCost float64) (CostFactors, error) {
	f := CostFactors{
		BaseCost:            baseCost,
		SizeCost:            sizeCost,
		UnfulfilledLineCost: unfulfilledLineCost,
	}
	if err := f.Validate(); err != nil {
		return CostFactors{}, err
	}
	return f, nil
}

// Validate checks that every factor is finite and non-negative.
//
// Returns:
//   - error: the first violated rule, or nil
func (f CostFactors) Validate() error {
	for _, v := range []float64{f.BaseCost, f.SizeCost, f.UnfulfilledLineCost} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return ErrNonFiniteCost
		}
	}
	if f.BaseCost < 0 {
		return ErrNegativeBaseCost
	}
	if f.SizeCost < 0 {
		return ErrNegativeSizeCost
	}
	if f.UnfulfilledLineCost < 0 {
		return ErrNegativeUnfulfilledCost
	}
	return nil
}

// ShipmentCost prices a whole shipment from its accumulated size and distance.
//
// Parameters:
//   - accumulatedSize: sum of the sizes of every line in the shipment
//   - distance: warehouse to customer distance
//
// Returns:
//   - float64: (BaseCost + accumulatedSize*SizeCost) * distance
func (f CostFactors) ShipmentCost(accumulatedSize, distance float64) float64 {
	return (f.BaseCost + accumulatedSize*f.SizeCost) * distance
}

// UnfulfilledCost prices an order line that could not be shipped.
func (f CostFactors) UnfulfilledCost(size float64) float64 {
	return size * f.UnfulfilledLineCost
}

// String returns a formatted string representation.
func (f CostFactors) String() string {
	return fmt.Sprintf("base=%.2f size=%.2f unfulfilled=%.2f", f.BaseCost, f.SizeCost, f.UnfulfilledLineCost)
}
