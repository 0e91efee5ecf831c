// Package planning runs assignment plans end to end: it prices a dataset with
// the configured factors, runs the engine with the requested policy, turns
// the outcome into a report and keeps the report for later retrieval.
package planning

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/hapkiduki/fulfillment-go/internal/application/assignment"
	"github.com/hapkiduki/fulfillment-go/internal/application/dto"
	"github.com/hapkiduki/fulfillment-go/internal/application/port"
	"github.com/hapkiduki/fulfillment-go/internal/domain/entity"
	"github.com/hapkiduki/fulfillment-go/internal/domain/fulfillment"
	"github.com/hapkiduki/fulfillment-go/internal/domain/repository"
	"github.com/hapkiduki/fulfillment-go/internal/domain/valueobject"
	"github.com/hapkiduki/fulfillment-go/pkg/logger"
)

// ErrNoPlanStore is returned by Get when the service keeps no reports.
var ErrNoPlanStore = errors.New("plan store is not configured")

// Config holds the run settings shared by every plan.
type Config struct {
	Factors valueobject.CostFactors

	// Policy is used when a request names none.
	Policy string

	// Metric is a valueobject metric name; empty means euclidean.
	Metric string

	// Workers bounds distance precomputation (0 = unbounded).
	Workers int
}

// Service computes and stores plans.
type Service struct {
	cfg        Config
	metric     valueobject.DistanceMetric
	metricName string
	store      port.PlanStore
	log        port.Logger
	metrics    port.Metrics

	now   func() time.Time
	newID func() string
}

// NewService validates cfg and creates a service.
//
// Parameters:
//   - cfg: run settings
//   - store: where reports are saved; nil keeps nothing
//   - log: logger (nil discards)
//   - metrics: metrics sink (nil discards)
//
// Returns:
//   - *Service: the service
//   - error: invalid factors, policy or metric
func NewService(cfg Config, store port.PlanStore, log port.Logger, metrics port.Metrics) (*Service, error) {
	if err := cfg.Factors.Validate(); err != nil {
		return nil, fmt.Errorf("planning service: %w", err)
	}
	if _, err := fulfillment.ParsePolicy(cfg.Policy); err != nil {
		return nil, fmt.Errorf("planning service: %w", err)
	}
	if cfg.Metric == "" {
		cfg.Metric = valueobject.MetricEuclidean
	}
	metric, err := valueobject.ParseDistanceMetric(cfg.Metric)
	if err != nil {
		return nil, fmt.Errorf("planning service: %w", err)
	}
	if log == nil {
		log = port.NopLogger{}
	}
	if metrics == nil {
		metrics = port.NopMetrics{}
	}

	return &Service{
		cfg:        cfg,
		metric:     metric,
		metricName: cfg.Metric,
		store:      store,
		log:        log,
		metrics:    metrics,
		now:        time.Now,
		newID:      func() string { return uuid.New().String() },
	}, nil
}

// Plan runs the engine on ds and stores the report. ds is consumed: its
// warehouses and order lines reflect the run afterwards.
//
// Parameters:
//   - ctx: request context
//   - ds: the dataset to plan
//   - policyName: selection policy; empty uses the configured default
//
// Returns:
//   - *dto.PlanReport: the stored report; unfulfillable lines are listed, not errors
//   - error: unknown policy, invalid dataset, a ledger failure or a store failure
func (s *Service) Plan(ctx context.Context, ds *entity.Dataset, policyName string) (*dto.PlanReport, error) {
	planID := s.newID()
	ctx = logger.WithPlanID(ctx, planID)
	log := s.log.WithContext(ctx)

	result, ops, err := s.run(ctx, ds, policyName, log)
	if err != nil {
		return nil, err
	}

	report := buildReport(planID, s.metricName, s.now().UTC(), result, ops.Shipments())

	if s.store != nil {
		if err := s.store.Save(ctx, report); err != nil {
			return nil, fmt.Errorf("plan %s: save report: %w", planID, err)
		}
	}

	s.metrics.Counter("plans_total", 1, map[string]string{"policy": result.Policy})
	log.Info("Plan created",
		"policy", report.Policy,
		"total_cost", report.Summary.TotalCost,
		"unfulfilled", len(report.Unfulfilled),
	)

	return report, nil
}

// PlanFrom loads a fresh dataset from repo and plans it.
func (s *Service) PlanFrom(ctx context.Context, repo repository.DatasetRepository, policyName string) (*dto.PlanReport, error) {
	ds, err := repo.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load dataset: %w", err)
	}
	return s.Plan(ctx, ds, policyName)
}

// Get returns a stored report.
func (s *Service) Get(ctx context.Context, planID string) (*dto.PlanReport, error) {
	if s.store == nil {
		return nil, ErrNoPlanStore
	}
	return s.store.Get(ctx, planID)
}

// Compare runs every registered policy on its own copy of ds and returns the
// summaries in PolicyNames order. ds itself is left untouched.
func (s *Service) Compare(ctx context.Context, ds *entity.Dataset) ([]dto.PolicyComparison, error) {
	if ds == nil {
		return nil, fulfillment.ErrNilDataset
	}

	log := s.log.WithContext(ctx)
	out := make([]dto.PolicyComparison, 0, len(fulfillment.PolicyNames()))
	for _, name := range fulfillment.PolicyNames() {
		result, _, err := s.run(ctx, ds.Clone(), name, log)
		if err != nil {
			return nil, fmt.Errorf("compare %s: %w", name, err)
		}
		out = append(out, dto.PolicyComparison{
			Policy:  result.Policy,
			Summary: summarize(result.Snapshot),
		})
	}
	return out, nil
}

func (s *Service) run(
	ctx context.Context,
	ds *entity.Dataset,
	policyName string,
	log port.Logger,
) (*assignment.Result, *fulfillment.Operations, error) {
	if policyName == "" {
		policyName = s.cfg.Policy
	}
	policy, err := fulfillment.ParsePolicy(policyName)
	if err != nil {
		return nil, nil, err
	}

	ops, err := fulfillment.NewOperations(ds, s.cfg.Factors, s.metric)
	if err != nil {
		return nil, nil, err
	}

	engine := assignment.NewEngine(ops, policy, assignment.Config{
		Workers: s.cfg.Workers,
		Logger:  log,
		Metrics: s.metrics,
	})
	result, err := engine.Run(ctx)
	if err != nil {
		return nil, nil, err
	}
	return result, ops, nil
}

func buildReport(
	planID, metric string,
	createdAt time.Time,
	result *assignment.Result,
	shipments []fulfillment.Shipment,
) *dto.PlanReport {
	report := &dto.PlanReport{
		PlanID:      planID,
		Policy:      result.Policy,
		Metric:      metric,
		CreatedAt:   createdAt,
		DurationMs:  result.Duration.Milliseconds(),
		Summary:     summarize(result.Snapshot),
		Shipments:   make([]dto.ShipmentResponse, 0, len(shipments)),
		Unfulfilled: make([]dto.UnfulfilledLineDTO, 0, len(result.Unfulfillable)),
	}

	for _, sh := range shipments {
		report.Shipments = append(report.Shipments, dto.ShipmentResponse{
			WarehouseID:  sh.WarehouseID,
			CustomerID:   sh.CustomerID,
			Distance:     round(sh.Distance, 4),
			Size:         sh.Size,
			Cost:         round(sh.Cost, 2),
			OrderLineIDs: sh.OrderLineIDs,
		})
	}
	for _, u := range result.Unfulfillable {
		report.Unfulfilled = append(report.Unfulfilled, dto.UnfulfilledLineDTO{
			OrderLineID: u.OrderLineID,
			CustomerID:  u.CustomerID,
			ProductID:   u.ProductID,
			Quantity:    u.Quantity,
		})
	}

	return report
}

func summarize(snap fulfillment.InfoSnapshot) dto.PlanSummary {
	return dto.PlanSummary{
		FulfilledOrderLineCount:  snap.FulfilledOrderLineCount,
		UnfinishedOrderLineCount: snap.UnfinishedOrderLineCount,
		ShipmentCount:            snap.ShipmentCount,
		ShipmentsCost:            round(snap.ShipmentsCost, 2),
		UnfinishedOrderLinesCost: round(snap.UnfinishedOrderLinesCost, 2),
		TotalCost:                round(snap.TotalCost, 2),
	}
}

// round rounds half away from zero in decimal, not binary, arithmetic.
// NaN and infinities are returned unchanged.
func round(v float64, places int32) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return v
	}
	return decimal.NewFromFloat(v).Round(places).InexactFloat64()
}
