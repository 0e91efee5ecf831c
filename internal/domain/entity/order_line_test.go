package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hapkiduki/fulfillment-go/internal/domain/valueobject"
)

func TestNewOrderLine(t *testing.T) {
	p, err := NewProduct("p1", "", 1.5)
	require.NoError(t, err)
	c, err := NewCustomer("c1", "", valueobject.Position{})
	require.NoError(t, err)

	l, err := NewOrderLine("l1", c, p, 4)
	require.NoError(t, err)
	assert.Equal(t, 6.0, l.Size())
	assert.Equal(t, OrderLineUnfulfilled, l.Status())
	assert.False(t, l.IsFulfilled())

	_, err = NewOrderLine(" ", c, p, 1)
	assert.ErrorIs(t, err, ErrInvalidOrderLineID)
	_, err = NewOrderLine("l2", nil, p, 1)
	assert.ErrorIs(t, err, ErrOrderLineMissingRef)
	_, err = NewOrderLine("l2", c, nil, 1)
	assert.ErrorIs(t, err, ErrOrderLineMissingRef)
	_, err = NewOrderLine("l2", c, p, 0)
	assert.ErrorIs(t, err, ErrInvalidQuantity)
}

func TestNewProduct(t *testing.T) {
	_, err := NewProduct("", "", 1)
	assert.ErrorIs(t, err, ErrInvalidProductID)
	_, err = NewProduct("p", "", 0)
	assert.ErrorIs(t, err, ErrInvalidProductSize)
	_, err = NewProduct("p", "", -3)
	assert.ErrorIs(t, err, ErrInvalidProductSize)

	_, err = NewCustomer("", "", valueobject.Position{})
	assert.ErrorIs(t, err, ErrInvalidCustomerID)
}
