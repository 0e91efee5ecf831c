// Package redis stores plan reports in Redis with an expiry.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/hapkiduki/fulfillment-go/internal/application/dto"
	"github.com/hapkiduki/fulfillment-go/internal/application/port"
	"github.com/hapkiduki/fulfillment-go/internal/domain/repository"
)

const keyPrefix = "fulfillment:plan:"

// PlanStore keeps JSON-encoded reports under fulfillment:plan:<id>.
type PlanStore struct {
	rdb goredis.UniversalClient
	ttl time.Duration
}

// NewPlanStore creates a store on an existing client. A ttl of zero keeps
// reports until evicted.
func NewPlanStore(rdb goredis.UniversalClient, ttl time.Duration) *PlanStore {
	return &PlanStore{rdb: rdb, ttl: ttl}
}

// NewClient opens a client and pings it.
//
// Parameters:
//   - ctx: bounds the ping
//   - addr: host:port, or a redis:// URL
//   - password: optional AUTH password, ignored for URLs
//   - db: database index, ignored for URLs
//
// Returns:
//   - *goredis.Client: connected client; the caller closes it
//   - error: repository.ErrConnectionFailed wrapping the cause
func NewClient(ctx context.Context, addr, password string, db int) (*goredis.Client, error) {
	var opts *goredis.Options
	if u, err := goredis.ParseURL(addr); err == nil {
		opts = u
	} else {
		opts = &goredis.Options{Addr: addr, Password: password, DB: db}
	}

	rdb := goredis.NewClient(opts)
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("%w: redis %s: %w", repository.ErrConnectionFailed, opts.Addr, err)
	}
	return rdb, nil
}

// Save implements port.PlanStore.
func (s *PlanStore) Save(ctx context.Context, report *dto.PlanReport) error {
	if report == nil || report.PlanID == "" {
		return fmt.Errorf("save plan: %w: missing plan ID", repository.ErrInvalidInput)
	}

	data, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("save plan %s: encode: %w", report.PlanID, err)
	}
	if err := s.rdb.Set(ctx, keyPrefix+report.PlanID, data, s.ttl).Err(); err != nil {
		return fmt.Errorf("save plan %s: %w", report.PlanID, err)
	}
	return nil
}

// Get implements port.PlanStore.
func (s *PlanStore) Get(ctx context.Context, planID string) (*dto.PlanReport, error) {
	data, err := s.rdb.Get(ctx, keyPrefix+planID).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, fmt.Errorf("plan %s: %w", planID, repository.ErrPlanNotFound)
		}
		return nil, fmt.Errorf("get plan %s: %w", planID, err)
	}

	var report dto.PlanReport
	if err := json.Unmarshal(data, &report); err != nil {
		return nil, fmt.Errorf("get plan %s: decode: %w", planID, err)
	}
	return &report, nil
}

var _ port.PlanStore = (*PlanStore)(nil)
