// Package config handles layered YAML configuration with environment overrides.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// MaxCapacity bounds store.capacity. Lookups are linear scans.
const MaxCapacity = 10000

// Config holds all contactbook configuration.
type Config struct {
	Store   Store   `yaml:"store"`
	Logging Logging `yaml:"logging"`
}

// Store holds contact storage settings.
type Store struct {
	Path     string `yaml:"path"`     // Flat file read at startup and written on exit
	Capacity int    `yaml:"capacity"` // Maximum number of contacts
}

// Logging holds diagnostic logger settings.
type Logging struct {
	Level  string `yaml:"level"`  // "debug" | "info" | "warn" | "error" | "off"
	Output string `yaml:"output"` // "stderr" | "stdout" | file path
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Store: Store{
			Path:     "contacts.txt",
			Capacity: 100,
		},
		Logging: Logging{
			Level:  "error",
			Output: "stderr",
		},
	}
}

// LoadLayered loads config from multiple paths with increasing priority.
// Later paths override earlier ones. Missing files and empty paths are skipped.
func LoadLayered(paths ...string) (*Config, error) {
	cfg := DefaultConfig()

	for _, path := range paths {
		if path == "" {
			continue
		}
		layer, err := loadLayer(path)
		if err != nil {
			return nil, err
		}
		if layer == nil {
			continue
		}
		cfg.merge(layer)
	}

	return &cfg, nil
}

// Validate checks that config values are usable.
func (c *Config) Validate() error {
	if c.Store.Path == "" {
		return errors.New("config: store.path cannot be empty")
	}
	if c.Store.Capacity <= 0 || c.Store.Capacity > MaxCapacity {
		return fmt.Errorf("config: store.capacity must be between 1 and %d, got %d", MaxCapacity, c.Store.Capacity)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error", "off":
		// valid
	default:
		return fmt.Errorf("config: logging.level must be one of debug, info, warn, error, off, got %q", c.Logging.Level)
	}
	if c.Logging.Output == "" {
		return errors.New("config: logging.output cannot be empty")
	}
	return nil
}

// ApplyEnv applies environment variable overrides to the config.
// Supported variables: CONTACTBOOK_FILE, CONTACTBOOK_CAPACITY,
// CONTACTBOOK_LOG_LEVEL, CONTACTBOOK_LOG_OUTPUT.
func (c *Config) ApplyEnv() error {
	if v := os.Getenv("CONTACTBOOK_FILE"); v != "" {
		c.Store.Path = v
	}
	if v := os.Getenv("CONTACTBOOK_CAPACITY"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("config: invalid CONTACTBOOK_CAPACITY %q: %w", v, err)
		}
		c.Store.Capacity = n
	}
	if v := os.Getenv("CONTACTBOOK_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv("CONTACTBOOK_LOG_OUTPUT"); v != "" {
		c.Logging.Output = v
	}
	return nil
}

// rawConfig mirrors Config but uses pointers to distinguish set vs unset fields.
type rawConfig struct {
	Store   *rawStore   `yaml:"store"`
	Logging *rawLogging `yaml:"logging"`
}

type rawStore struct {
	Path     *string `yaml:"path"`
	Capacity *int    `yaml:"capacity"`
}

type rawLogging struct {
	Level  *string `yaml:"level"`
	Output *string `yaml:"output"`
}

// loadLayer reads a single config file into a rawConfig for selective merging.
// Returns nil if the file does not exist. Rejects unknown fields.
func loadLayer(path string) (*rawConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("config: reading %s: %w", path, err)
	}

	if len(data) == 0 {
		return nil, nil
	}

	var raw rawConfig
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&raw); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("config: parsing %s: %w", path, err)
	}

	return &raw, nil
}

// merge applies non-nil fields from a rawConfig layer onto this Config.
func (c *Config) merge(layer *rawConfig) {
	if layer.Store != nil {
		if layer.Store.Path != nil {
			c.Store.Path = *layer.Store.Path
		}
		if layer.Store.Capacity != nil {
			c.Store.Capacity = *layer.Store.Capacity
		}
	}
	if layer.Logging != nil {
		if layer.Logging.Level != nil {
			c.Logging.Level = *layer.Logging.Level
		}
		if layer.Logging.Output != nil {
			c.Logging.Output = *layer.Logging.Output
		}
	}
}
