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

// Package config provides configuration management for a node: identity,
// trust defaults, gossip admission thresholds, relay binding, storage
// backend selection, and the notary/sybil ports it depends on.
package config

import "time"

// Config is the root configuration for a node process.
type Config struct {
	Environment string `yaml:"environment"`

	Node      NodeConfig      `yaml:"node"`
	Trust     TrustConfig     `yaml:"trust"`
	Gossip    GossipConfig    `yaml:"gossip"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
	Relay     RelayConfig     `yaml:"relay"`
	Storage   StorageConfig   `yaml:"storage"`
	Notary    NotaryConfig    `yaml:"notary"`
	Sybil     SybilConfig     `yaml:"sybil"`
	Logging   LoggingConfig   `yaml:"logging"`
	Metrics   MetricsConfig   `yaml:"metrics"`
	Health    HealthConfig    `yaml:"health"`
}

// NodeConfig locates and manages the node's own identity keypair.
type NodeConfig struct {
	KeyPath           string `yaml:"key_path"`
	GenerateIfMissing bool   `yaml:"generate_if_missing"`
}

// TrustConfig holds the reputation engine's default admission thresholds
// and per-content-type overrides.
type TrustConfig struct {
	MaxHops       int                          `yaml:"max_hops"`
	MinReputation float64                      `yaml:"min_reputation"`
	HalfLifeDays  float64                      `yaml:"half_life_days"`
	NSFWPolicy    string                       `yaml:"nsfw_policy"`
	ContentTypes  map[string]ContentTypeConfig `yaml:"content_types"`
}

// ContentTypeConfig overrides TrustConfig's defaults for one content type.
type ContentTypeConfig struct {
	MinReputation float64 `yaml:"min_reputation"`
	MaxHops       int     `yaml:"max_hops"`
}

// GossipConfig configures the admission pipeline's replay and signature
// policy.
type GossipConfig struct {
	NonceRetention     time.Duration `yaml:"nonce_retention"`
	NonceSweepInterval time.Duration `yaml:"nonce_sweep_interval"`
	AllowUnsigned      bool          `yaml:"allow_unsigned"`
}

// RateLimitConfig configures the per-peer token bucket in front of the
// gossip admission pipeline.
type RateLimitConfig struct {
	Capacity     int           `yaml:"capacity"`
	RefillPerSec float64       `yaml:"refill_per_sec"`
	IdleTTL      time.Duration `yaml:"idle_ttl"`
}

// RelayConfig configures the mediation server this node binds or connects
// to.
type RelayConfig struct {
	ListenAddr string   `yaml:"listen_addr"`
	TorOnly    bool     `yaml:"tor_only"`
	Peers      []string `yaml:"peers"`
}

// StorageConfig selects the persistence backend and its connection
// parameters.
type StorageConfig struct {
	Backend  string          `yaml:"backend"` // "memory" or "postgres"
	Postgres *PostgresConfig `yaml:"postgres,omitempty"`
}

// PostgresConfig holds connection parameters for the postgres backend.
type PostgresConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Database string `yaml:"database"`
	SSLMode  string `yaml:"ssl_mode"`
}

// NotaryConfig locates the timestamping notary this node attests posts
// and tickets against.
type NotaryConfig struct {
	Endpoint string `yaml:"endpoint"`
}

// SybilConfig locates the sybil-resistance issuer used to mint freebird
// tickets.
type SybilConfig struct {
	Endpoint      string `yaml:"endpoint"`
	PublicKeyPath string `yaml:"public_key_path"`
}

// LoggingConfig configures the structured logger.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Output string `yaml:"output"`
}

// MetricsConfig configures the Prometheus exporter.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Addr    string `yaml:"addr"`
}

// HealthConfig configures the health-check endpoint.
type HealthConfig struct {
	Enabled bool   `yaml:"enabled"`
	Addr    string `yaml:"addr"`
}

// setDefaults fills zero-valued fields with the development defaults.
// Explicit values already present in cfg are left untouched.
func setDefaults(cfg *Config) {
	if cfg.Environment == "" {
		cfg.Environment = "development"
	}
	if cfg.Node.KeyPath == "" {
		cfg.Node.KeyPath = "~/.clout/identity.key"
	}
	if cfg.Trust.MaxHops == 0 {
		cfg.Trust.MaxHops = 3
	}
	if cfg.Trust.MinReputation == 0 {
		cfg.Trust.MinReputation = 0.2
	}
	if cfg.Trust.HalfLifeDays == 0 {
		cfg.Trust.HalfLifeDays = 90
	}
	if cfg.Trust.NSFWPolicy == "" {
		cfg.Trust.NSFWPolicy = "hide"
	}
	if cfg.Gossip.NonceRetention == 0 {
		cfg.Gossip.NonceRetention = 10 * time.Minute
	}
	if cfg.Gossip.NonceSweepInterval == 0 {
		cfg.Gossip.NonceSweepInterval = time.Minute
	}
	if cfg.RateLimit.Capacity == 0 {
		cfg.RateLimit.Capacity = 32
	}
	if cfg.RateLimit.RefillPerSec == 0 {
		cfg.RateLimit.RefillPerSec = 1
	}
	if cfg.RateLimit.IdleTTL == 0 {
		cfg.RateLimit.IdleTTL = 5 * time.Minute
	}
	if cfg.Relay.ListenAddr == "" {
		cfg.Relay.ListenAddr = "127.0.0.1:8765"
	}
	if cfg.Storage.Backend == "" {
		cfg.Storage.Backend = "memory"
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
	}
	if cfg.Logging.Output == "" {
		cfg.Logging.Output = "stdout"
	}
	if cfg.Metrics.Addr == "" {
		cfg.Metrics.Addr = "127.0.0.1:9090"
	}
	if cfg.Health.Addr == "" {
		cfg.Health.Addr = "127.0.0.1:9091"
	}
}
