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
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestForwardDedupDetectsDuplicateWithinWindow(t *testing.T) {
	d := newForwardDedup(time.Minute, time.Hour)
	defer d.close()

	assert.False(t, d.isDuplicate("m1"))
	d.markSeen("m1")
	assert.True(t, d.isDuplicate("m1"))
}

func TestForwardDedupAllowsDistinctIDs(t *testing.T) {
	d := newForwardDedup(time.Minute, time.Hour)
	defer d.close()

	d.markSeen("m1")
	assert.False(t, d.isDuplicate("m2"))
}

func TestForwardDedupExpiresAfterTTL(t *testing.T) {
	d := newForwardDedup(10*time.Millisecond, time.Hour)
	defer d.close()

	d.markSeen("m1")
	assert.True(t, d.isDuplicate("m1"))
	time.Sleep(20 * time.Millisecond)
	assert.False(t, d.isDuplicate("m1"))
}

func TestForwardDedupSweepRemovesStaleEntries(t *testing.T) {
	d := newForwardDedup(10*time.Millisecond, time.Hour)
	defer d.close()

	d.markSeen("m1")
	time.Sleep(20 * time.Millisecond)
	d.sweep()

	d.mu.RLock()
	_, ok := d.seen["m1"]
	d.mu.RUnlock()
	assert.False(t, ok, "sweep must evict expired entries from the map")
}
