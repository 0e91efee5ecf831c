package entity

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hapkiduki/fulfillment-go/internal/domain/valueobject"
)

func newTestLine(t *testing.T, id string, qty int) (*OrderLine, *Product) {
	t.Helper()
	p, err := NewProduct("p1", "Widget", 2)
	require.NoError(t, err)
	c, err := NewCustomer("c1", "Ada", valueobject.NewPosition(0, 0))
	require.NoError(t, err)
	l, err := NewOrderLine(id, c, p, qty)
	require.NoError(t, err)
	return l, p
}

func TestNewWarehouse(t *testing.T) {
	stock := map[string]int{"p1": 3}
	w, err := NewWarehouse(" w1 ", "North", valueobject.NewPosition(1, 1), stock)
	require.NoError(t, err)
	assert.Equal(t, "w1", w.ID)

	stock["p1"] = 99
	assert.Equal(t, 3, w.Stock("p1"), "input map must be copied")

	_, err = NewWarehouse("", "x", valueobject.Position{}, nil)
	assert.ErrorIs(t, err, ErrInvalidWarehouseID)

	_, err = NewWarehouse("w2", "x", valueobject.Position{}, map[string]int{"p1": -1})
	assert.ErrorIs(t, err, ErrNegativeStockQuantity)

	_, err = NewWarehouse("w3", "x", valueobject.NewPosition(math.Inf(1), 0), nil)
	assert.ErrorIs(t, err, valueobject.ErrNonFiniteCoordinate)
}

func TestWarehouse_HasStock(t *testing.T) {
	w, err := NewWarehouse("w1", "", valueobject.Position{}, map[string]int{"p1": 2, "p2": 0})
	require.NoError(t, err)

	assert.True(t, w.HasStock("p1", 1))
	assert.True(t, w.HasStock("p1", 2))
	assert.False(t, w.HasStock("p1", 3))
	assert.True(t, w.HasStock("p1", 0), "quantities below one count as one")
	assert.False(t, w.HasStock("p2", 1))
	assert.False(t, w.HasStock("missing", 1))
}

func TestWarehouse_Fulfill(t *testing.T) {
	line, _ := newTestLine(t, "l1", 2)
	w, err := NewWarehouse("w1", "", valueobject.Position{}, map[string]int{"p1": 3})
	require.NoError(t, err)

	require.NoError(t, w.Fulfill(line))
	assert.Equal(t, 1, w.Stock("p1"))
	assert.True(t, line.IsFulfilled())
	assert.Equal(t, OrderLineFulfilled, line.Status())
	assert.Equal(t, "w1", line.WarehouseID())

	err = w.Fulfill(line)
	assert.ErrorIs(t, err, ErrOrderLineAlreadyShipped)
	assert.Equal(t, 1, w.Stock("p1"), "stock untouched on failure")
}

func TestWarehouse_Fulfill_InsufficientStock(t *testing.T) {
	line, _ := newTestLine(t, "l1", 4)
	w, err := NewWarehouse("w1", "", valueobject.Position{}, map[string]int{"p1": 3})
	require.NoError(t, err)

	err = w.Fulfill(line)
	assert.ErrorIs(t, err, ErrInsufficientStock)
	assert.Equal(t, 3, w.Stock("p1"))
	assert.False(t, line.IsFulfilled())
	assert.Equal(t, "", line.WarehouseID())
}

func TestWarehouse_CurrentStocksAndClone(t *testing.T) {
	w, err := NewWarehouse("w1", "", valueobject.Position{}, map[string]int{"b": 1, "a": 2})
	require.NoError(t, err)

	snap := w.CurrentStocks()
	snap["a"] = 100
	assert.Equal(t, 2, w.Stock("a"))
	assert.Equal(t, []string{"a", "b"}, w.ProductIDs())

	cp := w.Clone()
	line, _ := newTestLine(t, "l1", 1)
	line.Product = &Product{ID: "a", Size: 1}
	require.NoError(t, cp.Fulfill(line))
	assert.Equal(t, 1, cp.Stock("a"))
	assert.Equal(t, 2, w.Stock("a"))
}
