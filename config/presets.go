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

import "time"

// EnvironmentPresets holds the baseline Config for each named
// environment, as returned by LoadPreset; Load does not apply them to
// file contents or environment overrides. "local" is the loopback, Tor-disabled, in-memory-storage
// preset used for single-node development.
var EnvironmentPresets = map[string]*Config{
	"local": {
		Environment: "local",
		Trust:       TrustConfig{MaxHops: 3, MinReputation: 0, HalfLifeDays: 90, NSFWPolicy: "hide"},
		Gossip:      GossipConfig{NonceRetention: 10 * time.Minute, NonceSweepInterval: time.Minute, AllowUnsigned: true},
		RateLimit:   RateLimitConfig{Capacity: 64, RefillPerSec: 4, IdleTTL: 5 * time.Minute},
		Relay:       RelayConfig{ListenAddr: "127.0.0.1:8765", TorOnly: false},
		Storage:     StorageConfig{Backend: "memory"},
		Logging:     LoggingConfig{Level: "debug", Format: "console", Output: "stdout"},
	},
	"staging": {
		Environment: "staging",
		Trust:       TrustConfig{MaxHops: 3, MinReputation: 0.2, HalfLifeDays: 90, NSFWPolicy: "hide"},
		Gossip:      GossipConfig{NonceRetention: 10 * time.Minute, NonceSweepInterval: time.Minute, AllowUnsigned: false},
		RateLimit:   RateLimitConfig{Capacity: 32, RefillPerSec: 1, IdleTTL: 5 * time.Minute},
		Relay:       RelayConfig{ListenAddr: "0.0.0.0:8765", TorOnly: false},
		Storage:     StorageConfig{Backend: "postgres", Postgres: &PostgresConfig{Host: "localhost", Port: 5432, Database: "clout_staging", SSLMode: "disable"}},
		Logging:     LoggingConfig{Level: "info", Format: "json", Output: "stdout"},
	},
	"production": {
		Environment: "production",
		Trust:       TrustConfig{MaxHops: 2, MinReputation: 0.3, HalfLifeDays: 60, NSFWPolicy: "hide"},
		Gossip:      GossipConfig{NonceRetention: 15 * time.Minute, NonceSweepInterval: time.Minute, AllowUnsigned: false},
		RateLimit:   RateLimitConfig{Capacity: 16, RefillPerSec: 0.5, IdleTTL: 10 * time.Minute},
		Relay:       RelayConfig{ListenAddr: "0.0.0.0:8765", TorOnly: true},
		Storage:     StorageConfig{Backend: "postgres", Postgres: &PostgresConfig{Host: "localhost", Port: 5432, Database: "clout", SSLMode: "require"}},
		Logging:     LoggingConfig{Level: "warn", Format: "json", Output: "stdout"},
	},
}

// LoadPreset returns a copy of the environment preset for name, or the
// "local" preset if name is unrecognized.
func LoadPreset(name string) *Config {
	preset, ok := EnvironmentPresets[name]
	if !ok {
		preset = EnvironmentPresets["local"]
	}
	cfg := *preset
	return &cfg
}
