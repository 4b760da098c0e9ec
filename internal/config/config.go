// Package config loads runtime settings from an optional YAML file and the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/idelchi/foldersizes/internal/foldersize"
	"github.com/idelchi/foldersizes/internal/logging"
)

// EnvPath names the environment variable holding the config file path.
const EnvPath = "FOLDERSIZES_CONFIG"

// Config holds all application configuration.
type Config struct {
	Scan    ScanConfig     `yaml:"scan"`
	Logging logging.Config `yaml:"logging"`
}

// ScanConfig holds traversal settings. The folder list itself is built in.
type ScanConfig struct {
	// CPUs overrides the detected number of logical processing units (0 = detect).
	CPUs int `yaml:"cpus"`
	// Walker is the traversal strategy: stack or fast.
	Walker string `yaml:"walker"`
}

// Default returns a Config with sensible defaults.
func Default() *Config {
	return &Config{
		Scan: ScanConfig{
			Walker: string(foldersize.WalkerStack),
		},
		Logging: logging.DefaultConfig(),
	}
}

// Load reads config from a YAML file (if it exists) and overrides it with
// environment variables. Environment variables take precedence.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		if err := cfg.loadFromFile(path); err != nil {
			return nil, fmt.Errorf("loading config file: %w", err)
		}
	}

	if err := cfg.loadFromEnv(); err != nil {
		return nil, fmt.Errorf("loading environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

func (c *Config) loadFromFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}

		return err
	}

	return yaml.Unmarshal(data, c)
}

func (c *Config) loadFromEnv() error {
	if v := os.Getenv("FOLDERSIZES_CPUS"); v != "" {
		cpus, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("FOLDERSIZES_CPUS: %w", err)
		}

		c.Scan.CPUs = cpus
	}
	if v := os.Getenv("FOLDERSIZES_WALKER"); v != "" {
		c.Scan.Walker = v
	}
	if v := os.Getenv("FOLDERSIZES_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv("FOLDERSIZES_LOG_FORMAT"); v != "" {
		c.Logging.Format = v
	}
	if v := os.Getenv("FOLDERSIZES_LOG_FILE"); v != "" {
		c.Logging.FilePath = v
	}

	return nil
}

// Validate checks the configuration and normalizes the walker name.
func (c *Config) Validate() error {
	if c.Scan.CPUs < 0 {
		return fmt.Errorf("invalid cpus: %d", c.Scan.CPUs)
	}

	walker, err := foldersize.ParseWalker(c.Scan.Walker)
	if err != nil {
		return err
	}

	c.Scan.Walker = string(walker)

	if !logging.ValidLevel(c.Logging.Level) {
		return fmt.Errorf("invalid log level %q", c.Logging.Level)
	}
	if !logging.ValidFormat(c.Logging.Format) {
		return fmt.Errorf("invalid log format %q", c.Logging.Format)
	}

	return nil
}
