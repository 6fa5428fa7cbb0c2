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
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// LoaderOptions controls how Load locates and applies a configuration
// file.
type LoaderOptions struct {
	ConfigDir           string
	Environment         string
	SkipEnvSubstitution bool
	SkipValidation      bool
}

// DefaultLoaderOptions returns the conventional lookup: a "config"
// directory, environment taken from GetEnvironment.
func DefaultLoaderOptions() LoaderOptions {
	return LoaderOptions{
		ConfigDir:   "config",
		Environment: GetEnvironment(),
	}
}

// Load reads a configuration file from opts.ConfigDir, preferring
// "<environment>.yaml", falling back to "default.yaml" then
// "config.yaml", and falling back further still to bare defaults when
// none exist. Environment variable overrides and substitution are
// applied unless skipped, and the result is validated unless skipped.
func Load(opts ...LoaderOptions) (*Config, error) {
	o := DefaultLoaderOptions()
	if len(opts) > 0 {
		o = opts[0]
	}
	if o.Environment == "" {
		o.Environment = GetEnvironment()
	}
	if o.ConfigDir == "" {
		o.ConfigDir = "config"
	}

	cfg, err := loadFirstExisting(o.ConfigDir, o.Environment)
	if err != nil {
		return nil, err
	}

	cfg.Environment = o.Environment
	setDefaults(cfg)

	if !o.SkipEnvSubstitution {
		SubstituteEnvVarsInConfig(cfg)
	}
	applyEnvironmentOverrides(cfg)

	if !o.SkipValidation {
		if err := validate(cfg); err != nil {
			return nil, err
		}
	}

	return cfg, nil
}

// loadFirstExisting tries "<environment>.yaml", then "default.yaml",
// then "config.yaml" under dir, returning an empty Config if none
// exist.
func loadFirstExisting(dir, environment string) (*Config, error) {
	candidates := []string{
		filepath.Join(dir, environment+".yaml"),
		filepath.Join(dir, "default.yaml"),
		filepath.Join(dir, "config.yaml"),
	}
	for _, path := range candidates {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		return loadConfigFile(path)
	}
	return &Config{}, nil
}

// loadConfigFile parses a YAML configuration file.
func loadConfigFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return &cfg, nil
}

// applyEnvironmentOverrides applies CLOUT_* environment variables on top
// of a loaded config, taking precedence over file contents.
func applyEnvironmentOverrides(cfg *Config) {
	cfg.Node.KeyPath = getEnvOrDefault("CLOUT_NODE_KEY_PATH", cfg.Node.KeyPath)
	cfg.Relay.ListenAddr = getEnvOrDefault("CLOUT_RELAY_LISTEN_ADDR", cfg.Relay.ListenAddr)
	cfg.Relay.TorOnly = getEnvBool("CLOUT_RELAY_TOR_ONLY", cfg.Relay.TorOnly)
	cfg.Storage.Backend = getEnvOrDefault("CLOUT_STORAGE_BACKEND", cfg.Storage.Backend)
	cfg.Notary.Endpoint = getEnvOrDefault("CLOUT_NOTARY_ENDPOINT", cfg.Notary.Endpoint)
	cfg.Sybil.Endpoint = getEnvOrDefault("CLOUT_SYBIL_ENDPOINT", cfg.Sybil.Endpoint)
	cfg.Logging.Level = getEnvOrDefault("CLOUT_LOG_LEVEL", cfg.Logging.Level)
	cfg.Logging.Format = getEnvOrDefault("CLOUT_LOG_FORMAT", cfg.Logging.Format)
	cfg.Metrics.Enabled = getEnvBool("CLOUT_METRICS_ENABLED", cfg.Metrics.Enabled)
}

// LoadForEnvironment loads the configuration for a specific named
// environment, skipping neither substitution nor validation.
func LoadForEnvironment(environment string) (*Config, error) {
	return Load(LoaderOptions{ConfigDir: "config", Environment: environment})
}

// MustLoad calls Load and panics on error. Intended for process startup
// paths where a misconfigured node should not proceed at all.
func MustLoad(opts ...LoaderOptions) *Config {
	cfg, err := Load(opts...)
	if err != nil {
		panic(fmt.Sprintf("config: %v", err))
	}
	return cfg
}
