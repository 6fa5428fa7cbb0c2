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
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSetDefaults(t *testing.T) {
	cfg := &Config{}
	setDefaults(cfg)

	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, "~/.clout/identity.key", cfg.Node.KeyPath)
	assert.Equal(t, 3, cfg.Trust.MaxHops)
	assert.Equal(t, 0.2, cfg.Trust.MinReputation)
	assert.Equal(t, "hide", cfg.Trust.NSFWPolicy)
	assert.Equal(t, 10*time.Minute, cfg.Gossip.NonceRetention)
	assert.Equal(t, 32, cfg.RateLimit.Capacity)
	assert.Equal(t, "127.0.0.1:8765", cfg.Relay.ListenAddr)
	assert.Equal(t, "memory", cfg.Storage.Backend)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestSetDefaultsPreservesExplicitValues(t *testing.T) {
	cfg := &Config{
		Environment: "production",
		Trust:       TrustConfig{MaxHops: 1, MinReputation: 0.9},
	}
	setDefaults(cfg)

	assert.Equal(t, "production", cfg.Environment)
	assert.Equal(t, 1, cfg.Trust.MaxHops)
	assert.Equal(t, 0.9, cfg.Trust.MinReputation)
	// Untouched fields still get defaults.
	assert.Equal(t, "hide", cfg.Trust.NSFWPolicy)
}

func TestContentTypeOverride(t *testing.T) {
	cfg := &Config{
		Trust: TrustConfig{
			MaxHops:       3,
			MinReputation: 0.2,
			ContentTypes: map[string]ContentTypeConfig{
				"nsfw": {MinReputation: 0.7, MaxHops: 1},
			},
		},
	}

	override, ok := cfg.Trust.ContentTypes["nsfw"]
	assert.True(t, ok)
	assert.Equal(t, 0.7, override.MinReputation)
	assert.Equal(t, 1, override.MaxHops)
}
