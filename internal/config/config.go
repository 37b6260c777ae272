// Package config loads the run configuration file and the IBM Quantum
// credentials from the environment.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// DefaultPath is where the CLI looks for the config file unless told
// otherwise.
const DefaultPath = "config/backends.json"

const (
	defaultShots             = 4096
	defaultOptimizationLevel = 1
)

// Config mirrors the config file: which QPUs to prefer, the fallback,
// and the two execution knobs.
type Config struct {
	PreferredQPUs     []string `json:"preferred_qpus"`
	FallbackQPU       string   `json:"fallback_qpu"`
	Shots             int      `json:"shots"`
	OptimizationLevel int      `json:"optimization_level"`
}

// Load reads and validates the config file at path.
func Load(path string) (Config, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return Config{}, fmt.Errorf("config path is required")
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to resolve config path: %w", err)
	}
	data, err := os.ReadFile(absPath)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config file %q: %w", absPath, err)
	}
	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to decode config file %q as JSON: %w", absPath, err)
	}
	return cfg.normalize()
}

// Default returns the configuration used when no config file exists:
// no preferred list and no fallback, so selection picks the least-busy
// operational QPU overall.
func Default() Config {
	return Config{
		Shots:             defaultShots,
		OptimizationLevel: defaultOptimizationLevel,
	}
}

func (c Config) normalize() (Config, error) {
	preferred := make([]string, 0, len(c.PreferredQPUs))
	for _, name := range c.PreferredQPUs {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		preferred = append(preferred, name)
	}
	c.PreferredQPUs = preferred
	c.FallbackQPU = strings.TrimSpace(c.FallbackQPU)

	if c.Shots == 0 {
		c.Shots = defaultShots
	}
	if c.Shots < 0 {
		return Config{}, fmt.Errorf("shots must be positive, got %d", c.Shots)
	}
	if c.OptimizationLevel < 0 || c.OptimizationLevel > 3 {
		return Config{}, fmt.Errorf("optimization_level must be in [0,3], got %d", c.OptimizationLevel)
	}
	if len(c.PreferredQPUs) == 0 && c.FallbackQPU == "" {
		return Config{}, fmt.Errorf("config names no preferred QPUs and no fallback")
	}
	return c, nil
}
