package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoundTrip(t *testing.T) {
	cfg := Default("acme", "Acme Trading")
	cfg.Fiscal.YearStart = "04-01"
	cfg.Reporting.IncludeDrafts = true
	cfg.Reporting.TemplatesDir = "templates"
	cfg.Store = StoreConfig{Type: StorePostgres, DSNEnv: "ACME_DSN"}

	path := filepath.Join(t.TempDir(), FileName)
	err := Save(path, cfg)
	require.NoError(t, err)

	got, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, cfg.Book, got.Book)
	assert.Equal(t, "04-01", got.Fiscal.YearStart)
	assert.True(t, got.Reporting.IncludeDrafts)
	assert.Equal(t, "templates", got.Reporting.TemplatesDir)
	assert.Equal(t, cfg.Reporting.CashCodes, got.Reporting.CashCodes)
	assert.Equal(t, StorePostgres, got.Store.Type)
	assert.Equal(t, "ACME_DSN", got.Store.DSNEnv)
}

func TestDefaults(t *testing.T) {
	cfg := Default("acme", "Acme Trading")

	assert.Equal(t, "acme", cfg.Book.ID)
	assert.Equal(t, "Acme Trading", cfg.Book.Name)
	assert.Equal(t, "01-01", cfg.Fiscal.YearStart)
	assert.Equal(t, "4103", cfg.Reporting.ProfitAccount)
	assert.Equal(t, []string{"1001", "1002", "1012"}, cfg.Reporting.CashCodes)
	assert.Equal(t, 1, cfg.Reporting.LedgerLevel)
	assert.False(t, cfg.Reporting.IncludeDrafts)
	assert.Equal(t, StoreFile, cfg.Store.Type)
	assert.Equal(t, "books", cfg.Store.Root)
	assert.Equal(t, "DATABASE_URL", cfg.Store.DSNEnv)
	assert.True(t, cfg.Git.AutoCommit)
	assert.Equal(t, "Statements", cfg.Git.AuthorName)
	assert.NoError(t, cfg.Validate())
}

func TestLoadPartialKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, os.WriteFile(path, []byte("book:\n  id: acme\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "acme", cfg.Book.ID)
	assert.Equal(t, "01-01", cfg.Fiscal.YearStart)
	assert.Equal(t, StoreFile, cfg.Store.Type)
}

func TestLoadNotFound(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nonexistent.yaml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"unknown store", func(c *Config) { c.Store.Type = "s3" }},
		{"file store without root", func(c *Config) { c.Store.Root = "" }},
		{"postgres without dsn env", func(c *Config) { c.Store = StoreConfig{Type: StorePostgres} }},
		{"no profit account", func(c *Config) { c.Reporting.ProfitAccount = "" }},
		{"ledger level zero", func(c *Config) { c.Reporting.LedgerLevel = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default("acme", "")
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestYAMLFormat(t *testing.T) {
	cfg := Default("acme", "Acme Trading")
	path := filepath.Join(t.TempDir(), FileName)
	err := Save(path, cfg)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	contents := string(data)

	assert.Contains(t, contents, "name: Acme Trading")
	assert.Contains(t, contents, "year_start: 01-01")
	assert.Contains(t, contents, "profit_account: \"4103\"")
	assert.Contains(t, contents, "type: file")
	assert.Contains(t, contents, "dsn_env: DATABASE_URL")
	assert.Contains(t, contents, "auto_commit: true")
}
