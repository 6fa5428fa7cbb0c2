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

package gossip

import (
	"sync"
	"time"

	"github.com/clout-protocol/clout/internal/scheduler"
)

// ReplayGuard rejects any (senderPublicKey, nonce) pair seen before its
// expiry. Generalized from a single-party nonce cache to the two-part key
// a gossip envelope carries.
type ReplayGuard struct {
	mu       sync.Mutex
	seen     map[string]int64 // key -> expiry (unix millis)
	sweeper  *scheduler.Sweeper
	retentionMs int64
}

// NewReplayGuard creates a replay guard that sweeps expired entries every
// sweepInterval, retaining each entry until the later of its
// envelope-declared expiry and retention after it was first seen.
func NewReplayGuard(retention, sweepInterval time.Duration) *ReplayGuard {
	g := &ReplayGuard{
		seen:        make(map[string]int64),
		retentionMs: retention.Milliseconds(),
	}
	g.sweeper = scheduler.Every(sweepInterval, g.sweep)
	return g
}

// Seen reports whether (sender, nonce) has already been accepted within
// the retention window, and if not, records it with an expiry of
// max(envelopeExpiresAt, now+retention).
func (g *ReplayGuard) Seen(sender, nonce string, envelopeExpiresAt time.Time) bool {
	key := sender + ":" + nonce
	now := time.Now()
	expiry := now.Add(time.Duration(g.retentionMs) * time.Millisecond).UnixMilli()
	if envExpiry := envelopeExpiresAt.UnixMilli(); envExpiry > expiry {
		expiry = envExpiry
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	if existingExpiry, ok := g.seen[key]; ok && existingExpiry > now.UnixMilli() {
		return true
	}
	g.seen[key] = expiry
	return false
}

// Close stops the background sweep.
func (g *ReplayGuard) Close() {
	g.sweeper.Stop()
}

func (g *ReplayGuard) sweep() {
	now := time.Now().UnixMilli()
	g.mu.Lock()
	defer g.mu.Unlock()
	for key, expiry := range g.seen {
		if expiry <= now {
			delete(g.seen, key)
		}
	}
}
