package fulfillment

import (
	"fmt"
	"math"
	"strings"

	"github.com/hapkiduki/fulfillment-go/internal/domain/entity"
	"github.com/hapkiduki/fulfillment-go/internal/domain/valueobject"
)

// Candidate is a warehouse able to cover an order line, with its distance to
// the line's customer.
type Candidate struct {
	Warehouse *entity.Warehouse
	Distance  float64
}

// ShipmentView is the read-only ledger state a policy may consult.
type ShipmentView interface {
	OpenShipment(warehouseID, customerID string) (Shipment, bool)
	CostFactors() valueobject.CostFactors
}

// SelectionPolicy picks the fulfilling warehouse for one order line.
// Candidates arrive in warehouse enumeration order; implementations must be
// deterministic and return false only when candidates is empty.
type SelectionPolicy interface {
	Name() string
	Select(line *entity.OrderLine, candidates []Candidate, view ShipmentView) (Candidate, bool)
}

// Policy names accepted by ParsePolicy.
const (
	PolicyNearest       = "nearest"
	PolicyConsolidating = "consolidating"
)

// NearestWarehouse picks the closest candidate. Ties go to the first in
// enumeration order.
type NearestWarehouse struct{}

// Name implements SelectionPolicy.
func (NearestWarehouse) Name() string { return PolicyNearest }

// Select implements SelectionPolicy.
func (NearestWarehouse) Select(_ *entity.OrderLine, candidates []Candidate, _ ShipmentView) (Candidate, bool) {
	return pickMin(candidates, func(c Candidate) float64 { return c.Distance })
}

// Consolidating picks the candidate with the lowest marginal cost. Joining a
// shipment already open with the customer costs only the added size; opening
// a new one also pays the base charge. Ties go to the first in enumeration order.
type Consolidating struct{}

// Name implements SelectionPolicy.
func (Consolidating) Name() string { return PolicyConsolidating }

// Select implements SelectionPolicy.
func (Consolidating) Select(line *entity.OrderLine, candidates []Candidate, view ShipmentView) (Candidate, bool) {
	factors := view.CostFactors()
	size := line.Size()

	return pickMin(candidates, func(c Candidate) float64 {
		if open, ok := view.OpenShipment(c.Warehouse.ID, line.Customer.ID); ok {
			return size * factors.SizeCost * open.Distance
		}
		return ShipmentCost(size, c.Distance, factors)
	})
}

// pickMin returns the lowest scoring candidate. NaN scores rank last.
func pickMin(candidates []Candidate, score func(Candidate) float64) (Candidate, bool) {
	if len(candidates) == 0 {
		return Candidate{}, false
	}

	best := candidates[0]
	bestScore := score(best)
	for _, c := range candidates[1:] {
		if s := score(c); s < bestScore || (math.IsNaN(bestScore) && !math.IsNaN(s)) {
			best, bestScore = c, s
		}
	}
	return best, true
}

// PolicyNames lists the registered policies, default first.
func PolicyNames() []string {
	return []string{PolicyNearest, PolicyConsolidating}
}

// ParsePolicy resolves a policy by name. The empty name is the nearest policy.
//
// Parameters:
//   - name: one of PolicyNames()
//
// Returns:
//   - SelectionPolicy: the resolved policy
//   - error: ErrUnknownPolicy if the name is not recognised
func ParsePolicy(name string) (SelectionPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", PolicyNearest:
		return NearestWarehouse{}, nil
	case PolicyConsolidating:
		return Consolidating{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownPolicy, name)
	}
}
