package entity

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hapkiduki/fulfillment-go/internal/domain/valueobject"
)

func TestNewCustomer(t *testing.T) {
	c, err := NewCustomer(" c1 ", "Ada", valueobject.NewPosition(2, 3))
	require.NoError(t, err)
	assert.Equal(t, "c1", c.ID)
	assert.Equal(t, valueobject.NewPosition(2, 3), c.Position)

	_, err = NewCustomer("  ", "Ada", valueobject.Position{})
	assert.ErrorIs(t, err, ErrInvalidCustomerID)

	_, err = NewCustomer("c2", "", valueobject.NewPosition(math.NaN(), 0))
	assert.ErrorIs(t, err, valueobject.ErrNonFiniteCoordinate)

	_, err = NewCustomer("c3", "", valueobject.NewPosition(0, math.Inf(-1)))
	assert.ErrorIs(t, err, valueobject.ErrNonFiniteCoordinate)
}
