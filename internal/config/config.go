package config

import (
	"fmt"
	"os"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/concilia-dev/concilia/internal/match"
	"github.com/concilia-dev/concilia/internal/statement"
)

// Config represents the top-level concilia.yaml configuration.
type Config struct {
	Business BusinessConfig `yaml:"business"`
	Matching MatchingConfig `yaml:"matching"`
	Columns  ColumnsConfig  `yaml:"columns,omitempty"`
	Git      GitConfig      `yaml:"git"`
}

// BusinessConfig identifies the business entity.
type BusinessConfig struct {
	Name     string `yaml:"name"`
	Currency string `yaml:"currency"`
}

// MatchingConfig holds the reconciliation thresholds, as percentages of the
// receivable amount.
type MatchingConfig struct {
	TolerancePercent float64 `yaml:"tolerance_percent"`
	HighCutoff       float64 `yaml:"high_cutoff"`
	MediumCutoff     float64 `yaml:"medium_cutoff"`
	MaxCandidates    int     `yaml:"max_candidates"`
}

// MatchConfig converts the YAML thresholds into a matcher Config.
func (m MatchingConfig) MatchConfig() match.Config {
	return match.Config{
		TolerancePercent: decimal.NewFromFloat(m.TolerancePercent),
		HighCutoff:       decimal.NewFromFloat(m.HighCutoff),
		MediumCutoff:     decimal.NewFromFloat(m.MediumCutoff),
		MaxCandidates:    m.MaxCandidates,
	}
}

// ColumnsConfig pins CSV statement columns to header names, bypassing
// heuristic detection for banks whose exports defeat it.
type ColumnsConfig struct {
	Date        string `yaml:"date,omitempty"`
	Description string `yaml:"description,omitempty"`
	Amount      string `yaml:"amount,omitempty"`
	Credit      string `yaml:"credit,omitempty"`
	Debit       string `yaml:"debit,omitempty"`
}

// Mapping returns the configured column mapping, or nil when no override
// is set and detection should run.
func (c ColumnsConfig) Mapping() statement.ColumnMapping {
	mapping := make(statement.ColumnMapping)
	set := func(role statement.ColumnRole, name string) {
		if name != "" {
			mapping[role] = name
		}
	}
	set(statement.RoleDate, c.Date)
	set(statement.RoleDescription, c.Description)
	set(statement.RoleAmount, c.Amount)
	set(statement.RoleCredit, c.Credit)
	set(statement.RoleDebit, c.Debit)
	if len(mapping) == 0 {
		return nil
	}
	return mapping
}

// GitConfig controls git integration.
type GitConfig struct {
	AutoCommit  bool   `yaml:"auto_commit"`
	AuthorName  string `yaml:"author_name"`
	AuthorEmail string `yaml:"author_email"`
}

// Load reads a concilia.yaml file from disk.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return &cfg, nil
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
func Default(businessName string) *Config {
	return &Config{
		Business: BusinessConfig{
			Name:     businessName,
			Currency: "BRL",
		},
		Matching: MatchingConfig{
			TolerancePercent: 5.0,
			HighCutoff:       0.01,
			MediumCutoff:     2.0,
			MaxCandidates:    5,
		},
		Git: GitConfig{
			AutoCommit:  true,
			AuthorName:  "Concilia",
			AuthorEmail: "bot@concilia.dev",
		},
	}
}
