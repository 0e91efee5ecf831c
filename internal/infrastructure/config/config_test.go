package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hapkiduki/fulfillment-go/internal/domain/fulfillment"
	"github.com/hapkiduki/fulfillment-go/internal/domain/valueobject"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "fulfillment-go", cfg.App.Name)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 10.0, cfg.Cost.Base)
	assert.Equal(t, 2.0, cfg.Cost.Size)
	assert.Equal(t, 100.0, cfg.Cost.UnfulfilledLine)
	assert.Equal(t, fulfillment.PolicyNearest, cfg.Engine.Policy)
	assert.Equal(t, valueobject.MetricEuclidean, cfg.Engine.Metric)
	assert.Equal(t, 24*time.Hour, cfg.Redis.TTL)
	assert.Empty(t, cfg.Redis.Addr)

	factors, err := cfg.Cost.Factors()
	require.NoError(t, err)
	assert.Equal(t, valueobject.CostFactors{BaseCost: 10, SizeCost: 2, UnfulfilledLineCost: 100}, factors)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("FUL_COST_BASE", "12.5")
	t.Setenv("FUL_ENGINE_POLICY", "consolidating")
	t.Setenv("FUL_ENGINE_WORKERS", "4")
	t.Setenv("FUL_REDIS_TTL", "90m")
	t.Setenv("PORT", "9090")
	t.Setenv("DATABASE_URL", "postgres://localhost/fulfillment")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 12.5, cfg.Cost.Base)
	assert.Equal(t, fulfillment.PolicyConsolidating, cfg.Engine.Policy)
	assert.Equal(t, 4, cfg.Engine.Workers)
	assert.Equal(t, 90*time.Minute, cfg.Redis.TTL)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "postgres://localhost/fulfillment", cfg.Postgres.DSN)
}

func TestLoad_ConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "planner.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
cost:
  base: 5
  size: 1
engine:
  metric: manhattan
dataset:
  path: data/dataset.yaml
`), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 5.0, cfg.Cost.Base)
	assert.Equal(t, 1.0, cfg.Cost.Size)
	assert.Equal(t, 100.0, cfg.Cost.UnfulfilledLine, "unset keys keep defaults")
	assert.Equal(t, valueobject.MetricManhattan, cfg.Engine.Metric)
	assert.Equal(t, "data/dataset.yaml", cfg.Dataset.Path)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"negative cost", map[string]string{"FUL_COST_SIZE": "-1"}},
		{"unknown policy", map[string]string{"FUL_ENGINE_POLICY": "random"}},
		{"unknown metric", map[string]string{"FUL_ENGINE_METRIC": "chebyshev"}},
		{"negative workers", map[string]string{"FUL_ENGINE_WORKERS": "-2"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load("")
			assert.Error(t, err)
		})
	}

	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err, "an explicit config file must exist")
}

func TestGetEnv(t *testing.T) {
	t.Setenv("FUL_TEST_VALUE", "set")
	assert.Equal(t, "set", GetEnv("FUL_TEST_VALUE", "default"))
	assert.Equal(t, "default", GetEnv("FUL_TEST_UNSET_VALUE", "default"))
}
