package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/stub-enhancer/predictor/internal/eval"
	"github.com/stub-enhancer/predictor/internal/gate"
	"github.com/stub-enhancer/predictor/internal/predict"
)

// #region config-types

// Config is the stubenhancer runtime configuration.
type Config struct {
	DBPath          string          `yaml:"db_path"`
	ListenAddr      string          `yaml:"listen_addr"`
	ModelPath       string          `yaml:"model_path"` // artifact file; empty means the store's active model, then the embedded one
	CacheSize       int             `yaml:"cache_size"`
	LogPredictions  bool            `yaml:"log_predictions"`
	ReplayTolerance float64         `yaml:"replay_tolerance"`
	Eval            eval.EvalConfig `yaml:"eval"`
	Gate            gate.GateConfig `yaml:"gate"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		DBPath:          "stubenhancer.db",
		ListenAddr:      "localhost:50061",
		CacheSize:       predict.DefaultCacheSize,
		LogPredictions:  true,
		ReplayTolerance: 1e-6,
		Eval:            eval.DefaultEvalConfig(),
		Gate:            gate.DefaultGateConfig(),
	}
}

// #endregion config-types

// #region load

// Load reads path over the defaults and then applies environment overrides.
// An empty path skips the file; a named file that does not exist is an error.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	if err := applyEnvironment(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects settings no component can run with.
func (c *Config) Validate() error {
	if c.DBPath == "" {
		return fmt.Errorf("config: db_path is empty")
	}
	if c.CacheSize < 0 {
		return fmt.Errorf("config: cache_size %d is negative", c.CacheSize)
	}
	if c.ReplayTolerance < 0 {
		return fmt.Errorf("config: replay_tolerance %v is negative", c.ReplayTolerance)
	}
	return nil
}

func applyEnvironment(cfg *Config) error {
	cfg.DBPath = envOr("STUB_DB", cfg.DBPath)
	cfg.ListenAddr = envOr("STUB_ADDR", cfg.ListenAddr)
	cfg.ModelPath = envOr("STUB_MODEL", cfg.ModelPath)

	if v := os.Getenv("STUB_CACHE_SIZE"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("STUB_CACHE_SIZE: %w", err)
		}
		cfg.CacheSize = n
	}
	if v := os.Getenv("STUB_LOG_PREDICTIONS"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("STUB_LOG_PREDICTIONS: %w", err)
		}
		cfg.LogPredictions = b
	}
	return nil
}

// #endregion load

// #region helpers
func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// #endregion helpers
