package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Environment variables that override values from the config file
const (
	EnvSeed     = "TOURGA_SEED"
	EnvCatalog  = "TOURGA_CATALOG"
	EnvSwapBias = "TOURGA_SWAP_BIAS"
	EnvLogLevel = "TOURGA_LOG_LEVEL"
)

// Config is the root configuration structure
type Config struct {
	Seed    int64         `yaml:"seed"`
	Catalog CatalogConfig `yaml:"catalog"`
	GA      GAConfig      `yaml:"ga"`
	Logging LogConfig     `yaml:"logging"`
}

// CatalogConfig points at the destination catalog
type CatalogConfig struct {
	Path string `yaml:"path"`
}

// GAConfig defines operator parameters
type GAConfig struct {
	// SwapBias is the probability of a swap-neighbours mutation over a
	// relocation. A pointer so that an explicit 0 survives defaulting.
	SwapBias *float64 `yaml:"swap_bias"`
	Steps    int      `yaml:"steps"` // mutations applied by the mutate command
}

// LogConfig defines logging parameters
type LogConfig struct {
	Level    string `yaml:"level"` // debug|info|warn|error
	CSVPath  string `yaml:"csv_path"`
	JSONPath string `yaml:"json_path"`
}

// Default returns a config with every default applied
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

// Load reads a YAML config file and returns a Config.
// Environment overrides are applied after the file, defaults last.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %q: %w", path, err)
	}

	if err := ApplyEnv(cfg); err != nil {
		return nil, err
	}
	applyDefaults(cfg)
	return cfg, cfg.Validate()
}

// ApplyEnv overrides cfg with any TOURGA_* variables that are set
func ApplyEnv(cfg *Config) error {
	if v := os.Getenv(EnvSeed); v != "" {
		seed, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvSeed, err)
		}
		cfg.Seed = seed
	}
	if v := os.Getenv(EnvCatalog); v != "" {
		cfg.Catalog.Path = v
	}
	if v := os.Getenv(EnvSwapBias); v != "" {
		bias, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvSwapBias, err)
		}
		cfg.GA.SwapBias = &bias
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		cfg.Logging.Level = v
	}
	return nil
}

// Validate checks ranges the defaults cannot fix
func (c *Config) Validate() error {
	if b := c.Bias(); b < 0 || b > 1 {
		return fmt.Errorf("ga.swap_bias %v not within [0, 1]", b)
	}
	if c.GA.Steps < 0 {
		return fmt.Errorf("ga.steps %d is negative", c.GA.Steps)
	}
	return nil
}

// Bias returns the configured swap bias
func (c *Config) Bias() float64 {
	if c.GA.SwapBias == nil {
		return defaultSwapBias
	}
	return *c.GA.SwapBias
}

const defaultSwapBias = 0.5

func applyDefaults(cfg *Config) {
	if cfg.Seed == 0 {
		cfg.Seed = 1337
	}
	if cfg.Catalog.Path == "" {
		cfg.Catalog.Path = "configs/destinations.yaml"
	}
	if cfg.GA.SwapBias == nil {
		bias := defaultSwapBias
		cfg.GA.SwapBias = &bias
	}
	if cfg.GA.Steps == 0 {
		cfg.GA.Steps = 10
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.CSVPath == "" {
		cfg.Logging.CSVPath = "runs/routes.csv"
	}
	if cfg.Logging.JSONPath == "" {
		cfg.Logging.JSONPath = "runs/routes.jsonl"
	}
}
