package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hapkiduki/fulfillment-go/internal/application/dto"
	"github.com/hapkiduki/fulfillment-go/internal/domain/repository"
)

func newTestStore(t *testing.T, ttl time.Duration) (*PlanStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return NewPlanStore(rdb, ttl), mr
}

func TestPlanStore_SaveAndGet(t *testing.T) {
	store, mr := newTestStore(t, time.Hour)
	ctx := context.Background()

	report := &dto.PlanReport{
		PlanID:    "p1",
		Policy:    "consolidating",
		Metric:    "euclidean",
		CreatedAt: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
		Summary:   dto.PlanSummary{ShipmentCount: 1, ShipmentsCost: 104, TotalCost: 104},
		Shipments: []dto.ShipmentResponse{
			{WarehouseID: "w1", CustomerID: "c1", Distance: 4, Size: 8, Cost: 104, OrderLineIDs: []string{"l1", "l2"}},
		},
		Unfulfilled: []dto.UnfulfilledLineDTO{},
	}
	require.NoError(t, store.Save(ctx, report))

	assert.True(t, mr.Exists(keyPrefix+"p1"))
	assert.Equal(t, time.Hour, mr.TTL(keyPrefix+"p1"))

	got, err := store.Get(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, report.Policy, got.Policy)
	assert.Equal(t, report.Summary, got.Summary)
	assert.Equal(t, report.Shipments, got.Shipments)
	assert.True(t, report.CreatedAt.Equal(got.CreatedAt))
}

func TestPlanStore_Expiry(t *testing.T) {
	store, mr := newTestStore(t, time.Minute)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, &dto.PlanReport{PlanID: "p1"}))
	mr.FastForward(2 * time.Minute)

	_, err := store.Get(ctx, "p1")
	assert.ErrorIs(t, err, repository.ErrPlanNotFound)
}

func TestPlanStore_Errors(t *testing.T) {
	store, mr := newTestStore(t, 0)
	ctx := context.Background()

	assert.ErrorIs(t, store.Save(ctx, &dto.PlanReport{}), repository.ErrInvalidInput)

	_, err := store.Get(ctx, "missing")
	assert.ErrorIs(t, err, repository.ErrPlanNotFound)

	require.NoError(t, mr.Set(keyPrefix+"broken", "not json"))
	_, err = store.Get(ctx, "broken")
	require.Error(t, err)
	assert.NotErrorIs(t, err, repository.ErrPlanNotFound)
}

func TestNewClient(t *testing.T) {
	mr := miniredis.RunT(t)
	ctx := context.Background()

	rdb, err := NewClient(ctx, mr.Addr(), "", 0)
	require.NoError(t, err)
	require.NoError(t, rdb.Close())

	rdb, err = NewClient(ctx, "redis://"+mr.Addr()+"/0", "", 0)
	require.NoError(t, err)
	require.NoError(t, rdb.Close())

	addr := mr.Addr()
	mr.Close()
	_, err = NewClient(ctx, addr, "", 0)
	assert.ErrorIs(t, err, repository.ErrConnectionFailed)
}
