package fulfillment

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hapkiduki/fulfillment-go/internal/domain/entity"
	"github.com/hapkiduki/fulfillment-go/internal/domain/repository"
	"github.com/hapkiduki/fulfillment-go/internal/domain/valueobject"
)

func TestNewOperations_Validation(t *testing.T) {
	_, err := NewOperations(nil, testFactors, nil)
	assert.ErrorIs(t, err, ErrNilDataset)

	_, err = NewOperations(twoLineDataset(t), valueobject.CostFactors{BaseCost: -1}, nil)
	assert.ErrorIs(t, err, valueobject.ErrNegativeBaseCost)

	ds := twoLineDataset(t)
	ds.OrderLines = append(ds.OrderLines, ds.OrderLines[0])
	_, err = NewOperations(ds, testFactors, nil)
	assert.ErrorIs(t, err, entity.ErrDuplicateID)
}

func TestOperations_InitialSnapshot(t *testing.T) {
	ops := newOps(t, twoLineDataset(t))

	snap := ops.InfoSnapshot()
	assert.Equal(t, 2, snap.UnfinishedOrderLineCount)
	assert.Equal(t, 0, snap.FulfilledOrderLineCount)
	assert.Equal(t, 800.0, snap.UnfinishedOrderLinesCost)
	assert.Equal(t, 0.0, snap.ShipmentsCost)
	assert.Equal(t, 800.0, snap.TotalCost)
	assert.False(t, snap.Complete())

	assert.Equal(t, snap, ops.InfoSnapshot(), "snapshots without mutation are identical")
}

func TestOperations_Ship(t *testing.T) {
	ds := twoLineDataset(t)
	ops := newOps(t, ds)
	w := ds.Warehouses[0]

	assert.Equal(t, 4.0, ops.Distance(w, ds.Customers[0]))

	s, err := ops.Ship(ds.OrderLines[0], w)
	require.NoError(t, err)
	assert.Equal(t, 80.0, s.Cost)

	s, err = ops.Ship(ds.OrderLines[1], w)
	require.NoError(t, err)
	assert.Equal(t, 104.0, s.Cost)

	snap := ops.InfoSnapshot()
	assert.True(t, snap.Complete())
	assert.Equal(t, 2, snap.FulfilledOrderLineCount)
	assert.Equal(t, 1, snap.ShipmentCount)
	assert.Equal(t, 104.0, snap.ShipmentsCost)
	assert.Equal(t, 104.0, snap.TotalCost)
	assert.Equal(t, 0, w.Stock("big"))

	open, ok := ops.OpenShipment("w1", "c1")
	require.True(t, ok)
	assert.Equal(t, 8.0, open.Size)
	assert.Len(t, ops.Shipments(), 1)
}

func TestOperations_Ship_Errors(t *testing.T) {
	ds := twoLineDataset(t)
	ops := newOps(t, ds)
	w := ds.Warehouses[0]

	_, err := ops.Ship(ds.OrderLines[0], w)
	require.NoError(t, err)

	_, err = ops.Ship(ds.OrderLines[0], w)
	assert.ErrorIs(t, err, entity.ErrOrderLineAlreadyShipped)

	foreign, err := entity.NewOrderLine("l1", ds.Customers[0], ds.Products[1], 1)
	require.NoError(t, err)
	_, err = ops.Ship(foreign, w)
	assert.ErrorIs(t, err, ErrUnknownOrderLine, "same ID but not the tracked instance")

	stranger, err := entity.NewWarehouse("w9", "", valueobject.Position{}, map[string]int{"small": 5})
	require.NoError(t, err)
	_, err = ops.Ship(ds.OrderLines[1], stranger)
	assert.ErrorIs(t, err, ErrUnknownWarehouse)

	_, err = ops.Ship(ds.OrderLines[1], w.Clone())
	assert.ErrorIs(t, err, ErrUnknownWarehouse, "same ID but not the tracked instance")
	_, ok := ops.OpenShipment("w9", "c1")
	assert.False(t, ok)

	snap := ops.InfoSnapshot()
	assert.Equal(t, 1, snap.FulfilledOrderLineCount, "failed ships change nothing")
	assert.Equal(t, 1, snap.ShipmentCount)
	assert.Equal(t, 5, stranger.Stock("small"))
}

func TestOperations_Ship_InsufficientStock(t *testing.T) {
	ds := buildDataset(t, repository.Records{
		Products:   []repository.ProductRecord{{ID: "p", Size: 1}},
		Customers:  []repository.CustomerRecord{{ID: "c", X: 1}},
		Warehouses: []repository.WarehouseRecord{{ID: "w", Stock: map[string]int{"p": 1}}},
		OrderLines: []repository.OrderLineRecord{{ID: "l", CustomerID: "c", ProductID: "p", Quantity: 2}},
	})
	ops := newOps(t, ds)

	_, err := ops.Ship(ds.OrderLines[0], ds.Warehouses[0])
	assert.ErrorIs(t, err, entity.ErrInsufficientStock)
	assert.Equal(t, 1, ds.Warehouses[0].Stock("p"))
	assert.Empty(t, ops.Shipments())
}

func TestOperations_ConcurrentShipIsExactlyOnce(t *testing.T) {
	ds := buildDataset(t, repository.Records{
		Products:   []repository.ProductRecord{{ID: "p", Size: 1}},
		Customers:  []repository.CustomerRecord{{ID: "c", X: 1}},
		Warehouses: []repository.WarehouseRecord{{ID: "w", Stock: map[string]int{"p": 10}}},
		OrderLines: []repository.OrderLineRecord{{ID: "l", CustomerID: "c", ProductID: "p"}},
	})
	ops := newOps(t, ds)

	var wg sync.WaitGroup
	var mu sync.Mutex
	successes := 0
	for range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := ops.Ship(ds.OrderLines[0], ds.Warehouses[0]); err == nil {
				mu.Lock()
				successes++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, successes)
	assert.Equal(t, 9, ds.Warehouses[0].Stock("p"))
}
