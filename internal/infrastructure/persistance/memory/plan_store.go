package memory

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/hapkiduki/fulfillment-go/internal/application/dto"
	"github.com/hapkiduki/fulfillment-go/internal/application/port"
	"github.com/hapkiduki/fulfillment-go/internal/domain/repository"
)

// PlanStore keeps reports in a map. Reports are copied on the way in and out.
type PlanStore struct {
	mu      sync.RWMutex
	reports map[string]*dto.PlanReport
}

// NewPlanStore creates an empty store.
func NewPlanStore() *PlanStore {
	return &PlanStore{reports: make(map[string]*dto.PlanReport)}
}

// Save implements port.PlanStore.
func (s *PlanStore) Save(_ context.Context, report *dto.PlanReport) error {
	if report == nil || report.PlanID == "" {
		return fmt.Errorf("save plan: %w: missing plan ID", repository.ErrInvalidInput)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.reports[report.PlanID] = cloneReport(report)
	return nil
}

// Get implements port.PlanStore.
func (s *PlanStore) Get(_ context.Context, planID string) (*dto.PlanReport, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.reports[planID]
	if !ok {
		return nil, fmt.Errorf("plan %s: %w", planID, repository.ErrPlanNotFound)
	}
	return cloneReport(r), nil
}

// Len returns the number of stored reports.
func (s *PlanStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.reports)
}

func cloneReport(r *dto.PlanReport) *dto.PlanReport {
	cp := *r
	cp.Shipments = make([]dto.ShipmentResponse, len(r.Shipments))
	for i, sh := range r.Shipments {
		sh.OrderLineIDs = slices.Clone(sh.OrderLineIDs)
		cp.Shipments[i] = sh
	}
	cp.Unfulfilled = slices.Clone(r.Unfulfilled)
	return &cp
}

var _ port.PlanStore = (*PlanStore)(nil)
