package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/cleared-dev/statements/internal/accounts"
)

// FileName is the config file at the root of a statements project.
const FileName = "statements.yaml"

// Store kinds.
const (
	StoreFile     = "file"
	StorePostgres = "postgres"
)

// Config represents the top-level statements.yaml configuration.
type Config struct {
	Book      BookConfig      `yaml:"book"`
	Fiscal    FiscalConfig    `yaml:"fiscal"`
	Reporting ReportingConfig `yaml:"reporting"`
	Store     StoreConfig     `yaml:"store"`
	Git       GitConfig       `yaml:"git"`
}

// BookConfig identifies the book reports are generated for.
type BookConfig struct {
	ID   string `yaml:"id"`
	Name string `yaml:"name"`
}

// FiscalConfig defines the fiscal year boundaries.
type FiscalConfig struct {
	YearStart string `yaml:"year_start"` // "MM-DD" format, e.g. "01-01"
}

// ReportingConfig controls how statements are computed.
type ReportingConfig struct {
	IncludeDrafts bool `yaml:"include_drafts"`
	// ProfitAccount is the current-year profit account closing transfers
	// post to.
	ProfitAccount string   `yaml:"profit_account"`
	CashCodes     []string `yaml:"cash_codes"`
	// TemplatesDir holds <kind>.yaml files replacing the built-in templates.
	TemplatesDir    string `yaml:"templates_dir,omitempty"`
	StrictTemplates bool   `yaml:"strict_templates"`
	LedgerLevel     int    `yaml:"ledger_level"`
}

// StoreConfig selects where books are read from.
type StoreConfig struct {
	Type string `yaml:"type"` // "file" or "postgres"
	// Root is the directory holding book directories for the file store.
	Root string `yaml:"root,omitempty"`
	// DSNEnv names the environment variable holding the Postgres DSN.
	DSNEnv string `yaml:"dsn_env,omitempty"`
}

// GitConfig controls git integration. Commits happen only when the project
// root is a git repository.
type GitConfig struct {
	AutoCommit  bool   `yaml:"auto_commit"`
	AuthorName  string `yaml:"author_name"`
	AuthorEmail string `yaml:"author_email"`
}

// Load reads a statements.yaml file from disk.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	cfg := Default("", "")
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Default returns a Config with sensible defaults for a new project.
func Default(bookID, bookName string) *Config {
	return &Config{
		Book: BookConfig{
			ID:   bookID,
			Name: bookName,
		},
		Fiscal: FiscalConfig{
			YearStart: "01-01",
		},
		Reporting: ReportingConfig{
			ProfitAccount: accounts.ProfitAccount,
			CashCodes:     append([]string(nil), accounts.CashAccounts...),
			LedgerLevel:   1,
		},
		Store: StoreConfig{
			Type:   StoreFile,
			Root:   "books",
			DSNEnv: "DATABASE_URL",
		},
		Git: GitConfig{
			AutoCommit:  true,
			AuthorName:  "Statements",
			AuthorEmail: "statements@localhost",
		},
	}
}

// Validate checks field values that cannot be defaulted.
func (c *Config) Validate() error {
	switch c.Store.Type {
	case StoreFile:
		if c.Store.Root == "" {
			return fmt.Errorf("store.root is required for the file store")
		}
	case StorePostgres:
		if c.Store.DSNEnv == "" {
			return fmt.Errorf("store.dsn_env is required for the postgres store")
		}
	default:
		return fmt.Errorf("unknown store type %q", c.Store.Type)
	}
	if c.Reporting.ProfitAccount == "" {
		return fmt.Errorf("reporting.profit_account is required")
	}
	if c.Reporting.LedgerLevel < 1 {
		return fmt.Errorf("reporting.ledger_level must be at least 1")
	}
	return nil
}
