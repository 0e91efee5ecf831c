package fulfillment

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShipmentBook_AccumulatesAndReprices(t *testing.T) {
	ds := twoLineDataset(t)
	book := NewShipmentBook(testFactors)

	first := book.Add(ds.OrderLines[0], "w1", 4)
	assert.Equal(t, 5.0, first.Size)
	assert.Equal(t, (10.0+5*2)*4, first.Cost)

	second := book.Add(ds.OrderLines[1], "w1", 4)
	assert.Equal(t, 8.0, second.Size)
	assert.Equal(t, 104.0, second.Cost, "cost is recomputed from the accumulated size, not summed")
	assert.Equal(t, []string{"l1", "l2"}, second.OrderLineIDs)

	assert.Equal(t, 1, book.Len())
	assert.Equal(t, 104.0, book.Cost())
}

func TestShipmentBook_SeparatePairs(t *testing.T) {
	ds := twoLineDataset(t)
	book := NewShipmentBook(testFactors)

	book.Add(ds.OrderLines[0], "w1", 4)
	book.Add(ds.OrderLines[1], "w2", 1)

	require.Equal(t, 2, book.Len())
	shipments := book.Shipments()
	assert.Equal(t, "w1", shipments[0].WarehouseID)
	assert.Equal(t, "w2", shipments[1].WarehouseID)
	assert.Equal(t, 80.0+16.0, book.Cost())

	_, ok := book.Lookup("w3", "c1")
	assert.False(t, ok)
}

func TestShipmentBook_ReturnsCopies(t *testing.T) {
	ds := twoLineDataset(t)
	book := NewShipmentBook(testFactors)
	book.Add(ds.OrderLines[0], "w1", 4)

	s, ok := book.Lookup("w1", "c1")
	require.True(t, ok)
	s.OrderLineIDs[0] = "mutated"
	s.Cost = 0

	again, _ := book.Lookup("w1", "c1")
	assert.Equal(t, "l1", again.OrderLineIDs[0])
	assert.Equal(t, 80.0, again.Cost)
}

func TestShipmentCost_ZeroDistance(t *testing.T) {
	assert.Equal(t, 0.0, ShipmentCost(8, 0, testFactors))
}
