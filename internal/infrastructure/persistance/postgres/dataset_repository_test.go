package postgres

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
)

type failingQuerier struct {
	err   error
	calls []string
}

func (q *failingQuerier) Query(_ context.Context, sql string, _ ...any) (pgx.Rows, error) {
	q.calls = append(q.calls, sql)
	return nil, q.err
}

func TestDatasetRepository_Load_QueryError(t *testing.T) {
	boom := errors.New("connection reset")
	q := &failingQuerier{err: boom}

	_, err := NewDatasetRepository(q).Load(context.Background())

	assert.ErrorIs(t, err, boom)
	assert.ErrorContains(t, err, "load products")
	assert.Equal(t, []string{selectProducts}, q.calls, "loading stops at the first failing query")
}
