package config

import (
	"errors"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"antilurk/internal/model"
)

// Config is the application's configuration model. It captures the
// account identity, PDS credentials, budget defaults, and storage
// placement.
type Config struct {
	Account     AccountConfig        `yaml:"account"`
	Credentials CredentialsConfig    `yaml:"credentials"`
	Budget      model.BudgetSettings `yaml:"budget"`
	Storage     StorageConfig        `yaml:"storage"`
	Metrics     MetricsConfig        `yaml:"metrics"`
}

type AccountConfig struct {
	// Handle is the account handle, e.g. "alice.bsky.social".
	Handle string `yaml:"handle"`
	// DID is the repo identity records are written under.
	DID string `yaml:"did"`
}

type CredentialsConfig struct {
	// PDSHost is the personal data server base URL.
	PDSHost string `yaml:"pdsHost"`
	// AccessJWT authorizes repo writes. If empty, read from env
	// ANTILURK_ACCESS_JWT.
	AccessJWT string `yaml:"accessJwt"`
}

type StorageConfig struct {
	DBPath string `yaml:"dbPath"`
}

type MetricsConfig struct {
	// Addr is the metrics listen address, e.g. ":9090". Empty disables the
	// server unless METRICS_ADDR is set.
	Addr string `yaml:"addr"`
}

// Default returns a sensible default configuration.
func Default() Config {
	return Config{
		Account:     AccountConfig{},
		Credentials: CredentialsConfig{PDSHost: "https://bsky.social"},
		Budget:      model.DefaultBudgetSettings(),
		Storage:     StorageConfig{DBPath: "./antilurk.db"},
		Metrics:     MetricsConfig{},
	}
}

// ResolveEnv fills in config fields from environment variables if not set.
func (c *Config) ResolveEnv() {
	if c.Credentials.AccessJWT == "" {
		c.Credentials.AccessJWT = os.Getenv("ANTILURK_ACCESS_JWT")
	}
	if c.Account.DID == "" {
		c.Account.DID = os.Getenv("ANTILURK_DID")
	}
}

// Load reads YAML config from path.
func Load(path string) (Config, error) {
	var cfg Config
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return cfg, err
	}
	cfg.ResolveEnv()
	return cfg, nil
}

// Save writes YAML config to path, creating directories as needed.
func Save(path string, cfg Config) error {
	if path == "" {
		return errors.New("empty path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	b, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0o644)
}
