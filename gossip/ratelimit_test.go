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
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRateLimiterAllowsUpToCapacityThenDrops(t *testing.T) {
	rl := NewRateLimiter(3, 0.001, time.Minute)
	defer rl.Close()

	for i := 0; i < 3; i++ {
		assert.True(t, rl.Allow("peer-a"))
	}
	assert.False(t, rl.Allow("peer-a"))
	assert.Equal(t, uint64(1), rl.DropCount("peer-a"))
}

func TestRateLimiterTracksPeersIndependently(t *testing.T) {
	rl := NewRateLimiter(1, 0.001, time.Minute)
	defer rl.Close()

	assert.True(t, rl.Allow("peer-a"))
	assert.False(t, rl.Allow("peer-a"))
	assert.True(t, rl.Allow("peer-b"))
}

func TestRateLimiterDefaultsAppliedForUnsetConfig(t *testing.T) {
	rl := NewRateLimiter(0, -1, time.Minute)
	defer rl.Close()

	for i := 0; i < DefaultCapacity; i++ {
		assert.True(t, rl.Allow("peer-a"))
	}
	assert.False(t, rl.Allow("peer-a"))
}

func TestRateLimiterZeroRefillFreezesBucket(t *testing.T) {
	rl := NewRateLimiter(2, 0, time.Minute)
	defer rl.Close()

	assert.True(t, rl.Allow("peer-a"))
	assert.True(t, rl.Allow("peer-a"))
	assert.False(t, rl.Allow("peer-a"))

	// Even after the bucket would ordinarily have refilled, a configured
	// refill rate of 0 must never hand out another token.
	time.Sleep(50 * time.Millisecond)
	assert.False(t, rl.Allow("peer-a"))
}
