//go:build postgres_integration

package postgres

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hapkiduki/fulfillment-go/internal/domain/repository"
)

// Run with: DATABASE_URL=postgres://... go test -tags postgres_integration ./internal/infrastructure/persistance/postgres/
func TestDatasetRepository_Load_Integration(t *testing.T) {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		t.Skip("DATABASE_URL not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := Connect(ctx, dsn, 2)
	require.NoError(t, err)
	defer pool.Close()

	schema, err := os.ReadFile(filepath.Join("..", "..", "..", "..", "db", "migrations", "001_dataset.sql"))
	require.NoError(t, err)

	// Everything runs in a transaction that is rolled back, so the test
	// leaves no rows behind.
	tx, err := pool.Begin(ctx)
	require.NoError(t, err)
	defer func() { _ = tx.Rollback(ctx) }()

	_, err = tx.Exec(ctx, "CREATE SCHEMA fulfillment_it; SET LOCAL search_path TO fulfillment_it")
	require.NoError(t, err)
	_, err = tx.Exec(ctx, string(schema))
	require.NoError(t, err)

	_, err = tx.Exec(ctx, `
		INSERT INTO products (id, name, size) VALUES ('p2', 'Lamp', 2), ('p1', 'Sofa', 8);
		INSERT INTO customers (id, x, y) VALUES ('c1', 4, 0);
		INSERT INTO warehouses (id, x, y) VALUES ('w2', 1, 1), ('w1', 0, 0);
		INSERT INTO warehouse_stock (warehouse_id, product_id, quantity) VALUES ('w1', 'p1', 3), ('w2', 'p2', 0);
		INSERT INTO order_lines (id, customer_id, product_id, quantity) VALUES ('l1', 'c1', 'p1', 2);
	`)
	require.NoError(t, err)

	ds, err := NewDatasetRepository(tx).Load(ctx)
	require.NoError(t, err)

	require.Len(t, ds.Products, 2)
	assert.Equal(t, "p2", ds.Products[0].ID, "rows keep insertion order")
	require.Len(t, ds.Warehouses, 2)
	assert.Equal(t, "w2", ds.Warehouses[0].ID)
	assert.Equal(t, 3, ds.Warehouses[1].Stock("p1"))
	require.Len(t, ds.OrderLines, 1)
	assert.Equal(t, 2, ds.OrderLines[0].Quantity)
}

func TestConnect_BadDSN(t *testing.T) {
	_, err := Connect(context.Background(), "://not-a-dsn", 0)
	assert.ErrorIs(t, err, repository.ErrConnectionFailed)
}
