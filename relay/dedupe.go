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

package relay

import (
	"sync"
	"time"

	"github.com/clout-protocol/clout/internal/scheduler"
)

// forwardDedup drops a repeated forward within its retention window,
// keyed on payload.id rather than a control-header hash.
type forwardDedup struct {
	mu      sync.RWMutex
	ttl     time.Duration
	seen    map[string]time.Time
	sweeper *scheduler.Sweeper
}

func newForwardDedup(ttl, sweepInterval time.Duration) *forwardDedup {
	d := &forwardDedup{
		ttl:  ttl,
		seen: make(map[string]time.Time),
	}
	d.sweeper = scheduler.Every(sweepInterval, d.sweep)
	return d
}

// isDuplicate reports whether id has already been forwarded within the
// retention window, without marking it seen.
func (d *forwardDedup) isDuplicate(id string) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	seenAt, ok := d.seen[id]
	if !ok {
		return false
	}
	return time.Since(seenAt) <= d.ttl
}

// markSeen records id as forwarded now.
func (d *forwardDedup) markSeen(id string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.seen[id] = time.Now()
}

func (d *forwardDedup) sweep() {
	d.mu.Lock()
	defer d.mu.Unlock()
	now := time.Now()
	for id, seenAt := range d.seen {
		if now.Sub(seenAt) > d.ttl {
			delete(d.seen, id)
		}
	}
}

func (d *forwardDedup) close() {
	d.sweeper.Stop()
}
