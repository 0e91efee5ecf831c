package fulfillment

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hapkiduki/fulfillment-go/internal/domain/entity"
	"github.com/hapkiduki/fulfillment-go/internal/domain/repository"
	"github.com/hapkiduki/fulfillment-go/internal/domain/valueobject"
)

var testFactors = valueobject.CostFactors{BaseCost: 10, SizeCost: 2, UnfulfilledLineCost: 100}

func buildDataset(t *testing.T, rec repository.Records) *entity.Dataset {
	t.Helper()
	ds, err := rec.Build()
	require.NoError(t, err)
	return ds
}

func newOps(t *testing.T, ds *entity.Dataset) *Operations {
	t.Helper()
	ops, err := NewOperations(ds, testFactors, nil)
	require.NoError(t, err)
	return ops
}

// twoLineDataset has one customer at distance 4 from w1 ordering sizes 5 and 3.
func twoLineDataset(t *testing.T) *entity.Dataset {
	return buildDataset(t, repository.Records{
		Products:   []repository.ProductRecord{{ID: "big", Size: 5}, {ID: "small", Size: 3}},
		Customers:  []repository.CustomerRecord{{ID: "c1", X: 4, Y: 0}},
		Warehouses: []repository.WarehouseRecord{{ID: "w1", Stock: map[string]int{"big": 1, "small": 1}}},
		OrderLines: []repository.OrderLineRecord{
			{ID: "l1", CustomerID: "c1", ProductID: "big"},
			{ID: "l2", CustomerID: "c1", ProductID: "small"},
		},
	})
}
