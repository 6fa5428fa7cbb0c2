// Copyright (C) 2025 clout-protocol
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with this program. If not, see <https://www.gnu.org/licenses/>.

// SPDX-License-Identifier: LGPL-3.0-or-later

package config

import (
	"fmt"
	"os"
	"strconv"
	"sync"
	"time"

	"gopkg.in/yaml.v3"
)

// ConfigLoader is a stateful, concurrency-safe holder for a loaded
// Config, for callers (such as a long-running daemon) that load once
// and then read the result from multiple goroutines.
type ConfigLoader struct {
	mu     sync.RWMutex
	config *Config
}

// NewConfigLoader creates an empty ConfigLoader.
func NewConfigLoader() *ConfigLoader {
	return &ConfigLoader{}
}

// Load reads and validates the YAML file at path, applies defaults and
// environment substitution, stores the result, and returns it.
func (l *ConfigLoader) Load(path string) (*Config, error) {
	cfg, err := loadConfigFile(path)
	if err != nil {
		return nil, err
	}
	setDefaults(cfg)
	SubstituteEnvVarsInConfig(cfg)

	if err := l.Validate(cfg); err != nil {
		return nil, err
	}

	l.mu.Lock()
	l.config = cfg
	l.mu.Unlock()
	return cfg, nil
}

// LoadFromEnv builds a Config purely from defaults and CLOUT_*
// environment variables, with no backing file.
func (l *ConfigLoader) LoadFromEnv() (*Config, error) {
	cfg := &Config{}
	setDefaults(cfg)
	applyEnvironmentOverrides(cfg)

	if err := l.Validate(cfg); err != nil {
		return nil, err
	}

	l.mu.Lock()
	l.config = cfg
	l.mu.Unlock()
	return cfg, nil
}

// Validate checks cfg for the minimum fields a node needs to start.
func (l *ConfigLoader) Validate(cfg *Config) error {
	return validate(cfg)
}

// GetConfig returns the most recently loaded Config, or nil if nothing
// has been loaded yet.
func (l *ConfigLoader) GetConfig() *Config {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.config
}

// validate is the shared validation rule set used by both Load and
// ConfigLoader.Validate.
func validate(cfg *Config) error {
	if cfg.Node.KeyPath == "" {
		return fmt.Errorf("node key path is required")
	}
	if cfg.Trust.MaxHops <= 0 {
		return fmt.Errorf("trust max hops must be positive")
	}
	if cfg.Storage.Backend != "memory" && cfg.Storage.Backend != "postgres" {
		return fmt.Errorf("storage backend must be \"memory\" or \"postgres\"")
	}
	if cfg.Storage.Backend == "postgres" && cfg.Storage.Postgres == nil {
		return fmt.Errorf("storage backend postgres requires a postgres configuration block")
	}
	return nil
}

// LoadFromFile reads and parses a YAML configuration file without
// applying defaults, substitution, or validation.
func LoadFromFile(path string) (*Config, error) {
	return loadConfigFile(path)
}

// SaveToFile writes cfg as YAML to path.
func SaveToFile(cfg *Config, path string) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

func getEnvOrDefault(key, def string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	v, ok := os.LookupEnv(key)
	if !ok {
		return def
	}
	return v == "true" || v == "1"
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	v, ok := os.LookupEnv(key)
	if !ok {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return def
	}
	return d
}

func getEnvInt(key string, def int) int {
	v, ok := os.LookupEnv(key)
	if !ok {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}
