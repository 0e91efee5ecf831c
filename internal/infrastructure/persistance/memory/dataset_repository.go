// Package memory provides in-process implementations of the repository and
// plan store ports, used by tests and by the API when no external store is
// configured.
package memory

import (
	"context"

	"github.com/hapkiduki/fulfillment-go/internal/domain/entity"
	"github.com/hapkiduki/fulfillment-go/internal/domain/repository"
)

// DatasetRepository builds a fresh dataset from fixed records on every Load.
type DatasetRepository struct {
	records repository.Records
}

// NewDatasetRepository creates a repository over records.
func NewDatasetRepository(records repository.Records) *DatasetRepository {
	return &DatasetRepository{records: records}
}

// Load implements repository.DatasetRepository.
func (r *DatasetRepository) Load(ctx context.Context) (*entity.Dataset, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return r.records.Build()
}

var _ repository.DatasetRepository = (*DatasetRepository)(nil)
