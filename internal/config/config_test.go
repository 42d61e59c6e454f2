package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "frostline.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_DefaultsWithoutFile(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "snowflake", cfg.Platform.Provider)
	assert.Equal(t, "IMAGING_DB", cfg.Workspace.Database)
	assert.Equal(t, "IMAGING_SCHEMA", cfg.Workspace.Schema)
	assert.Equal(t, "GPU_NV_S", cfg.Workspace.ComputePool.InstanceFamily)
	assert.Len(t, cfg.Workspace.Notebooks, 3)
	assert.Len(t, cfg.Artifacts.Files, 3)
	assert.Equal(t, 30*time.Second, cfg.Artifacts.FetchTimeout)
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
platform:
  provider: memory
workspace:
  database: RADIOLOGY_DB
  warehouse:
    name: RADIOLOGY_WH
    size: XSMALL
artifacts:
  fetchTimeout: 5s
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "memory", cfg.Platform.Provider)
	assert.Equal(t, "RADIOLOGY_DB", cfg.Workspace.Database)
	assert.Equal(t, "XSMALL", cfg.Workspace.Warehouse.Size)
	assert.Equal(t, 5*time.Second, cfg.Artifacts.FetchTimeout)

	// Untouched sections keep their defaults.
	assert.Equal(t, "IMAGING_SCHEMA", cfg.Workspace.Schema)
	assert.Equal(t, "IMAGING_ROLE", cfg.Workspace.Role)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv(EnvAccount, "myorg-myaccount")
	t.Setenv(EnvToken, "secret-token")
	t.Setenv(EnvFetchTimeout, "90s")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "myorg-myaccount", cfg.Platform.Account)
	assert.Equal(t, "secret-token", cfg.Platform.Token)
	assert.Equal(t, 90*time.Second, cfg.Artifacts.FetchTimeout)
}

func TestLoad_TokenFromFile(t *testing.T) {
	tokenPath := filepath.Join(t.TempDir(), "token")
	require.NoError(t, os.WriteFile(tokenPath, []byte("file-token\n"), 0o600))
	t.Setenv(EnvTokenFile, tokenPath)
	t.Setenv(EnvToken, "")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "file-token", cfg.Platform.Token)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read config")
}

func TestLoad_MalformedYAML(t *testing.T) {
	path := writeConfig(t, "workspace: [not a mapping")
	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse config")
}

func TestLoad_RejectsMalformedFetchTimeout(t *testing.T) {
	path := writeConfig(t, "artifacts:\n  fetchTimeout: banana\n")
	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "artifacts.fetchTimeout")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:   "default is valid",
			mutate: func(*Config) {},
		},
		{
			name:    "missing provider",
			mutate:  func(c *Config) { c.Platform.Provider = "" },
			wantErr: "platform.provider",
		},
		{
			name:    "missing database",
			mutate:  func(c *Config) { c.Workspace.Database = "" },
			wantErr: "role, database and schema",
		},
		{
			name: "files without baseURL",
			mutate: func(c *Config) {
				c.Artifacts.BaseURL = ""
			},
			wantErr: "artifacts.baseURL",
		},
		{
			name: "malformed fetch timeout",
			mutate: func(c *Config) {
				c.Artifacts.RawTimeout = "soon"
			},
			wantErr: "artifacts.fetchTimeout",
		},
		{
			name: "notebook without file",
			mutate: func(c *Config) {
				c.Workspace.Notebooks[0].File = ""
			},
			wantErr: "name and a file",
		},
		{
			name: "duplicate notebook",
			mutate: func(c *Config) {
				c.Workspace.Notebooks[1].Name = c.Workspace.Notebooks[0].Name
			},
			wantErr: "declared twice",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
