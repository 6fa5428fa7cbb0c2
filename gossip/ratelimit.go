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
	"golang.org/x/time/rate"
)

// DefaultCapacity and DefaultRefillRate are the leaky-bucket defaults
// applied per peer: 20-message burst capacity refilling at 10/s.
const (
	DefaultCapacity   = 20
	DefaultRefillRate = 10
)

// bucketEntry pairs a limiter with the last time it was touched, so idle
// peers can be swept out of the map instead of accumulating forever.
type bucketEntry struct {
	limiter    *rate.Limiter
	lastTouch  time.Time
}

// RateLimiter is a per-peer leaky bucket. Peers that exhaust their bucket
// are dropped, not banned outright; the bucket refills on its own clock.
type RateLimiter struct {
	mu       sync.Mutex
	buckets  map[string]*bucketEntry
	capacity int
	refill   rate.Limit
	sweeper  *scheduler.Sweeper
	drops    map[string]uint64
}

// NewRateLimiter creates a rate limiter with the given capacity and
// refill rate (tokens/second), sweeping idle peer buckets every idleTTL.
// A zero refillPerSecond is a valid, distinct configuration meaning "no
// refill": the bucket drains to empty once capacity is exhausted and
// never replenishes on its own. Only a negative refillPerSecond (or a
// non-positive capacity) falls back to the defaults below.
func NewRateLimiter(capacity int, refillPerSecond float64, idleTTL time.Duration) *RateLimiter {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	if refillPerSecond < 0 {
		refillPerSecond = DefaultRefillRate
	}
	rl := &RateLimiter{
		buckets:  make(map[string]*bucketEntry),
		capacity: capacity,
		refill:   rate.Limit(refillPerSecond),
		drops:    make(map[string]uint64),
	}
	rl.sweeper = scheduler.Every(idleTTL, func() { rl.sweepIdle(idleTTL) })
	return rl
}

// Allow reports whether peer may send another message right now,
// consuming one token if so.
func (rl *RateLimiter) Allow(peer string) bool {
	rl.mu.Lock()
	entry, ok := rl.buckets[peer]
	if !ok {
		entry = &bucketEntry{limiter: rate.NewLimiter(rl.refill, rl.capacity)}
		rl.buckets[peer] = entry
	}
	entry.lastTouch = time.Now()
	allowed := entry.limiter.Allow()
	if !allowed {
		rl.drops[peer]++
	}
	rl.mu.Unlock()
	return allowed
}

// DropCount returns how many messages have been dropped for peer.
func (rl *RateLimiter) DropCount(peer string) uint64 {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	return rl.drops[peer]
}

// Close stops the idle-bucket sweep.
func (rl *RateLimiter) Close() {
	rl.sweeper.Stop()
}

func (rl *RateLimiter) sweepIdle(idleTTL time.Duration) {
	cutoff := time.Now().Add(-idleTTL)
	rl.mu.Lock()
	defer rl.mu.Unlock()
	for peer, entry := range rl.buckets {
		if entry.lastTouch.Before(cutoff) {
			delete(rl.buckets, peer)
		}
	}
}
