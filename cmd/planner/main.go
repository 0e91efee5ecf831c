// Package main is the batch planner: it loads one dataset, assigns every
// order line and prints the final statistics.
//
// Usage:
//
//	go run ./cmd/planner --dataset testdata/dataset.yaml
//	go run ./cmd/planner --postgres --policy consolidating --json
//	go run ./cmd/planner --dataset testdata/dataset.json --compare
//
// Settings not given as flags come from the FUL_* environment, config.yaml
// or the defaults, as for the API.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	flag "github.com/spf13/pflag"

	"github.com/hapkiduki/fulfillment-go/internal/application/dto"
	"github.com/hapkiduki/fulfillment-go/internal/application/planning"
	"github.com/hapkiduki/fulfillment-go/internal/domain/repository"
	"github.com/hapkiduki/fulfillment-go/internal/infrastructure/config"
	"github.com/hapkiduki/fulfillment-go/internal/infrastructure/logging"
	"github.com/hapkiduki/fulfillment-go/internal/infrastructure/persistance/file"
	"github.com/hapkiduki/fulfillment-go/internal/infrastructure/persistance/postgres"
	"github.com/hapkiduki/fulfillment-go/pkg/logger"
)

type options struct {
	configFile  string
	datasetPath string
	usePostgres bool
	policy      string
	compare     bool
	asJSON      bool
}

func main() {
	_ = godotenv.Load()

	var opts options
	flag.StringVarP(&opts.configFile, "config", "c", "", "config file (default: search config.yaml)")
	flag.StringVarP(&opts.datasetPath, "dataset", "d", "", "dataset file (.yaml, .yml or .json); overrides dataset.path")
	flag.BoolVar(&opts.usePostgres, "postgres", false, "load the dataset from postgres.dsn instead of a file")
	flag.StringVarP(&opts.policy, "policy", "p", "", "selection policy (nearest, consolidating); overrides engine.policy")
	flag.BoolVar(&opts.compare, "compare", false, "run every policy and print their totals")
	flag.BoolVar(&opts.asJSON, "json", false, "print the report as JSON on stdout")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, opts, os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, "planner:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, opts options, stdout io.Writer) error {
	cfg, err := config.Load(opts.configFile)
	if err != nil {
		return err
	}

	log, err := logger.New(logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: os.Stderr,
	})
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	repo, closeRepo, err := datasetSource(ctx, cfg, opts)
	if err != nil {
		return err
	}
	defer closeRepo()

	factors, err := cfg.Cost.Factors()
	if err != nil {
		return err
	}
	policy := cfg.Engine.Policy
	if opts.policy != "" {
		policy = opts.policy
	}
	svc, err := planning.NewService(planning.Config{
		Factors: factors,
		Policy:  policy,
		Metric:  cfg.Engine.Metric,
		Workers: cfg.Engine.Workers,
	}, nil, logging.NewAdapter(log), nil)
	if err != nil {
		return err
	}

	if opts.compare {
		ds, err := repo.Load(ctx)
		if err != nil {
			return fmt.Errorf("load dataset: %w", err)
		}
		results, err := svc.Compare(ctx, ds)
		if err != nil {
			return err
		}
		if opts.asJSON {
			return writeJSON(stdout, results)
		}
		for _, r := range results {
			logSummary(log.With("policy", r.Policy), r.Summary)
		}
		return nil
	}

	report, err := svc.PlanFrom(ctx, repo, "")
	if err != nil {
		return err
	}
	if opts.asJSON {
		return writeJSON(stdout, report)
	}
	logSummary(log.With("policy", report.Policy, "plan_id", report.PlanID), report.Summary)
	for _, u := range report.Unfulfilled {
		log.Warn("Unfulfilled order line", "order_line_id", u.OrderLineID, "product_id", u.ProductID, "quantity", u.Quantity)
	}
	return nil
}

// datasetSource picks Postgres or a file. The returned func releases the source.
func datasetSource(ctx context.Context, cfg *config.Config, opts options) (repository.DatasetRepository, func(), error) {
	if opts.usePostgres {
		if cfg.Postgres.DSN == "" {
			return nil, nil, errors.New("--postgres needs FUL_POSTGRES_DSN or DATABASE_URL")
		}
		connectCtx, cancel := context.WithTimeout(ctx, cfg.Postgres.ConnectTimeout)
		defer cancel()

		pool, err := postgres.Connect(connectCtx, cfg.Postgres.DSN, cfg.Postgres.MaxConns)
		if err != nil {
			return nil, nil, err
		}
		return postgres.NewDatasetRepository(pool), pool.Close, nil
	}

	path := cfg.Dataset.Path
	if opts.datasetPath != "" {
		path = opts.datasetPath
	}
	if path == "" {
		return nil, nil, errors.New("no dataset: pass --dataset, set FUL_DATASET_PATH or use --postgres")
	}
	return file.NewDatasetRepository(path), func() {}, nil
}

// logSummary prints the final statistics of a run.
func logSummary(log *logger.Logger, s dto.PlanSummary) {
	log.Info("Plan statistics",
		"fulfilled_order_lines", s.FulfilledOrderLineCount,
		"unfinished_order_lines", s.UnfinishedOrderLineCount,
		"shipments", s.ShipmentCount,
		"shipments_cost", s.ShipmentsCost,
		"unfinished_order_lines_cost", s.UnfinishedOrderLinesCost,
		"total_cost", s.TotalCost,
	)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
