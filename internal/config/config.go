// Package config loads bilant.yaml and applies environment overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// FileName is the project configuration file at the project root.
const FileName = "bilant.yaml"

// Environment variables that override bilant.yaml values.
const (
	EnvTemplatePDF = "BILANT_TEMPLATE_PDF"
	EnvDBPath      = "BILANT_DB_PATH"
	EnvOutputDir   = "BILANT_OUTPUT_DIR"
	EnvAutoCommit  = "BILANT_AUTO_COMMIT"
)

// Config represents the top-level bilant.yaml configuration.
type Config struct {
	Company CompanyConfig `yaml:"company"`
	Form    FormConfig    `yaml:"form"`
	Paths   PathsConfig   `yaml:"paths"`
	Git     GitConfig     `yaml:"git"`
}

// CompanyConfig identifies the reporting entity.
type CompanyConfig struct {
	Name       string `yaml:"name"`
	FiscalCode string `yaml:"fiscal_code,omitempty"` // CUI
}

// FormConfig selects the balance sheet form.
type FormConfig struct {
	Type        string `yaml:"type"` // "auto", "F10L" or "F10S"
	TemplatePDF string `yaml:"template_pdf,omitempty"`
}

// PathsConfig holds project-relative locations.
type PathsConfig struct {
	Templates string `yaml:"templates"`
	Output    string `yaml:"output"`
	Database  string `yaml:"database"`
}

// GitConfig controls git integration.
type GitConfig struct {
	AutoCommit  bool   `yaml:"auto_commit"`
	AuthorName  string `yaml:"author_name"`
	AuthorEmail string `yaml:"author_email"`
}

// Load reads a bilant.yaml file from disk.
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

// LoadProject reads <root>/bilant.yaml, loads <root>/.env when present and
// applies environment overrides.
func LoadProject(root string) (*Config, error) {
	cfg, err := Load(filepath.Join(root, FileName))
	if err != nil {
		return nil, err
	}
	envPath := filepath.Join(root, ".env")
	if _, err := os.Stat(envPath); err == nil {
		if err := godotenv.Load(envPath); err != nil {
			return nil, fmt.Errorf("loading .env: %w", err)
		}
	}
	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyEnv overrides fields from BILANT_* environment variables.
func (c *Config) ApplyEnv() error {
	if v := os.Getenv(EnvTemplatePDF); v != "" {
		c.Form.TemplatePDF = v
	}
	if v := os.Getenv(EnvDBPath); v != "" {
		c.Paths.Database = v
	}
	if v := os.Getenv(EnvOutputDir); v != "" {
		c.Paths.Output = v
	}
	if v := os.Getenv(EnvAutoCommit); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", EnvAutoCommit, err)
		}
		c.Git.AutoCommit = b
	}
	return nil
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
func Default(companyName string) *Config {
	return &Config{
		Company: CompanyConfig{
			Name: companyName,
		},
		Form: FormConfig{
			Type: "auto",
		},
		Paths: PathsConfig{
			Templates: "templates",
			Output:    "output",
			Database:  filepath.Join(".bilant", "history.db"),
		},
		Git: GitConfig{
			AutoCommit:  true,
			AuthorName:  "Bilant",
			AuthorEmail: "bilant@localhost",
		},
	}
}

// Resolve returns p joined to root unless it is already absolute.
func Resolve(root, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(root, p)
}
