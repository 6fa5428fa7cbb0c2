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

// Package scheduler provides the single "scan-and-expire" sweep idiom
// used throughout the module: nonce caches, rate-limit buckets, relay
// dedup caches, pending-auth maps, and stale-client tables all sweep
// themselves lazily off one ticker rather than each rolling their own.
package scheduler

import "time"

// Sweeper is a background ticker that calls fn every interval until
// Stop is called. It is the generalized form of the cleanupLoop/gcLoop
// goroutines scattered through the teacher's session and nonce stores.
type Sweeper struct {
	ticker *time.Ticker
	done   chan struct{}
}

// Every starts a sweeper that calls fn on every tick of interval, on its
// own goroutine, until Stop is called.
func Every(interval time.Duration, fn func()) *Sweeper {
	s := &Sweeper{
		ticker: time.NewTicker(interval),
		done:   make(chan struct{}),
	}
	go func() {
		for {
			select {
			case <-s.ticker.C:
				fn()
			case <-s.done:
				return
			}
		}
	}()
	return s
}

// Stop halts the sweeper. Safe to call once; a second call panics, the
// same contract as time.Ticker.Stop combined with channel close.
func (s *Sweeper) Stop() {
	s.ticker.Stop()
	close(s.done)
}
