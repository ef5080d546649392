package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigFromFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, configFileName+".yaml"), []byte(`
port: 9000
admin_port: 9001
adapters:
  huaweiads:
    imp_failure_policy: skip_invalid
`), 0644))

	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	defer os.Chdir(wd)

	cfg, err := loadConfig()
	require.NoError(t, err)

	assert.Equal(t, 9000, cfg.Port)
	assert.Equal(t, 9001, cfg.AdminPort)
	assert.Equal(t, "skip_invalid", string(cfg.Adapters["huaweiads"].ImpFailurePolicy))
	assert.Equal(t, "https://acd.op.hicloud.com/ppsadx/getResult", cfg.Adapters["huaweiads"].Endpoint)
}

func TestLoadConfigEnvOverride(t *testing.T) {
	t.Setenv("PBS_PORT", "9100")
	t.Setenv("PBS_ADMIN_PORT", "9101")

	cfg, err := loadConfig()
	require.NoError(t, err)

	assert.Equal(t, 9100, cfg.Port)
	assert.Equal(t, 9101, cfg.AdminPort)
}
