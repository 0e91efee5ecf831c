// Package file loads datasets from YAML or JSON documents on disk.
package file

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/hapkiduki/fulfillment-go/internal/domain/entity"
	"github.com/hapkiduki/fulfillment-go/internal/domain/repository"
)

// DatasetRepository reads repository.Records from a file. The format follows
// the extension: .json is JSON, .yaml and .yml are YAML.
type DatasetRepository struct {
	path string
}

// NewDatasetRepository creates a repository for path.
func NewDatasetRepository(path string) *DatasetRepository {
	return &DatasetRepository{path: path}
}

// Load implements repository.DatasetRepository. The file is re-read on
// every call, so each load yields an independent dataset.
func (r *DatasetRepository) Load(ctx context.Context) (*entity.Dataset, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(r.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", repository.ErrDatasetNotFound, r.path)
		}
		return nil, fmt.Errorf("read dataset %s: %w", r.path, err)
	}

	records, err := Decode(data, filepath.Ext(r.path))
	if err != nil {
		return nil, fmt.Errorf("dataset %s: %w", r.path, err)
	}

	return records.Build()
}

// Decode parses a document in the format named by ext.
//
// Parameters:
//   - data: raw document
//   - ext: file extension including the dot (".json", ".yaml", ".yml")
//
// Returns:
//   - repository.Records: decoded records, not yet validated
//   - error: ErrInvalidInput for unknown formats or malformed documents
func Decode(data []byte, ext string) (repository.Records, error) {
	var records repository.Records

	switch strings.ToLower(ext) {
	case ".json":
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&records); err != nil {
			return records, fmt.Errorf("%w: decode json: %w", repository.ErrInvalidInput, err)
		}
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&records); err != nil {
			return records, fmt.Errorf("%w: decode yaml: %w", repository.ErrInvalidInput, err)
		}
	default:
		return records, fmt.Errorf("%w: unsupported dataset format %q", repository.ErrInvalidInput, ext)
	}

	return records, nil
}

var _ repository.DatasetRepository = (*DatasetRepository)(nil)
