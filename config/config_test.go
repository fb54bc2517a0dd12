package config

import (
	"os"
	"path/filepath"
	"testing"

	"evault/core"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	var cfg core.Config
	require.NoError(t, Load("", &cfg))

	assert.Equal(t, "UTC", cfg.App.Location)
	assert.Equal(t, "@every 1m", cfg.Worker.AccrualSpec)
	assert.Zero(t, cfg.Oracle.TTLSeconds)
}

func TestLoad(t *testing.T) {
	file := filepath.Join(t.TempDir(), "evault.yaml")
	require.NoError(t, os.WriteFile(file, []byte(`
app:
  location: Asia/Shanghai
oracle:
  end_point: http://localhost:9001
worker:
  accrual_spec: "@every 10s"
`), 0o600))

	var cfg core.Config
	require.NoError(t, Load(file, &cfg))

	assert.Equal(t, "Asia/Shanghai", cfg.App.Location)
	assert.Equal(t, "@every 10s", cfg.Worker.AccrualSpec)
	assert.Equal(t, "http://localhost:9001", cfg.Oracle.EndPoint)
	assert.Equal(t, int64(60), cfg.Oracle.TTLSeconds)
}
