// Package postgres provides PostgreSQL implementations of repository interfaces.
package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hapkiduki/fulfillment-go/internal/domain/entity"
	"github.com/hapkiduki/fulfillment-go/internal/domain/repository"
)

// Querier is the subset of pgxpool.Pool the repository uses.
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// DatasetRepository loads the dataset tables created by db/migrations.
type DatasetRepository struct {
	db Querier
}

// NewDatasetRepository creates a repository on an open pool or transaction.
func NewDatasetRepository(db Querier) *DatasetRepository {
	return &DatasetRepository{db: db}
}

// Connect opens and pings a pool.
//
// Parameters:
//   - ctx: bounds the initial ping
//   - dsn: connection string
//   - maxConns: pool size (0 keeps the pgx default)
//
// Returns:
//   - *pgxpool.Pool: the connected pool; the caller closes it
//   - error: repository.ErrConnectionFailed wrapping the cause
func Connect(ctx context.Context, dsn string, maxConns int32) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("%w: parse dsn: %w", repository.ErrConnectionFailed, err)
	}
	if maxConns > 0 {
		cfg.MaxConns = maxConns
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", repository.ErrConnectionFailed, err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("%w: ping: %w", repository.ErrConnectionFailed, err)
	}
	return pool, nil
}

const (
	selectProducts   = `SELECT id, name, size FROM products ORDER BY seq`
	selectCustomers  = `SELECT id, name, x, y FROM customers ORDER BY seq`
	selectWarehouses = `SELECT id, name, x, y FROM warehouses ORDER BY seq`
	selectStock      = `SELECT warehouse_id, product_id, quantity FROM warehouse_stock`
	selectOrderLines = `SELECT id, customer_id, product_id, quantity FROM order_lines ORDER BY seq`
)

// Load implements repository.DatasetRepository.
func (r *DatasetRepository) Load(ctx context.Context) (*entity.Dataset, error) {
	records, err := r.LoadRecords(ctx)
	if err != nil {
		return nil, err
	}
	return records.Build()
}

// LoadRecords reads the raw records without building the dataset.
func (r *DatasetRepository) LoadRecords(ctx context.Context) (repository.Records, error) {
	var rec repository.Records
	var err error

	if rec.Products, err = queryAll(ctx, r.db, selectProducts, func(row pgx.CollectableRow) (repository.ProductRecord, error) {
		var p repository.ProductRecord
		err := row.Scan(&p.ID, &p.Name, &p.Size)
		return p, err
	}); err != nil {
		return rec, fmt.Errorf("load products: %w", err)
	}

	if rec.Customers, err = queryAll(ctx, r.db, selectCustomers, func(row pgx.CollectableRow) (repository.CustomerRecord, error) {
		var c repository.CustomerRecord
		err := row.Scan(&c.ID, &c.Name, &c.X, &c.Y)
		return c, err
	}); err != nil {
		return rec, fmt.Errorf("load customers: %w", err)
	}

	if rec.Warehouses, err = queryAll(ctx, r.db, selectWarehouses, func(row pgx.CollectableRow) (repository.WarehouseRecord, error) {
		w := repository.WarehouseRecord{Stock: map[string]int{}}
		err := row.Scan(&w.ID, &w.Name, &w.X, &w.Y)
		return w, err
	}); err != nil {
		return rec, fmt.Errorf("load warehouses: %w", err)
	}

	type stockRow struct {
		warehouseID, productID string
		quantity               int
	}
	stock, err := queryAll(ctx, r.db, selectStock, func(row pgx.CollectableRow) (stockRow, error) {
		var s stockRow
		err := row.Scan(&s.warehouseID, &s.productID, &s.quantity)
		return s, err
	})
	if err != nil {
		return rec, fmt.Errorf("load stock: %w", err)
	}
	index := make(map[string]int, len(rec.Warehouses))
	for i, w := range rec.Warehouses {
		index[w.ID] = i
	}
	for _, s := range stock {
		i, ok := index[s.warehouseID]
		if !ok {
			return rec, fmt.Errorf("%w: stock row for unknown warehouse %q", repository.ErrInvalidInput, s.warehouseID)
		}
		rec.Warehouses[i].Stock[s.productID] = s.quantity
	}

	if rec.OrderLines, err = queryAll(ctx, r.db, selectOrderLines, func(row pgx.CollectableRow) (repository.OrderLineRecord, error) {
		var l repository.OrderLineRecord
		err := row.Scan(&l.ID, &l.CustomerID, &l.ProductID, &l.Quantity)
		return l, err
	}); err != nil {
		return rec, fmt.Errorf("load order lines: %w", err)
	}

	return rec, nil
}

func queryAll[T any](ctx context.Context, db Querier, sql string, scan pgx.RowToFunc[T]) ([]T, error) {
	rows, err := db.Query(ctx, sql)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, scan)
}

var _ repository.DatasetRepository = (*DatasetRepository)(nil)
