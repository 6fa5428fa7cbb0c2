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
	"fmt"
	"sync"
	"time"

	"github.com/clout-protocol/clout/clouterr"
)

// PeerOrder tracks the last-processed envelope timestamp per sender, so
// the pipeline can enforce its concurrency contract: messages from one
// peer are admitted in arrival order. Cross-peer order is unspecified,
// so only a single map entry per sender is kept.
type PeerOrder struct {
	mu               sync.Mutex
	lastProcessedMs  map[string]int64
}

// NewPeerOrder creates an empty per-peer ordering tracker.
func NewPeerOrder() *PeerOrder {
	return &PeerOrder{lastProcessedMs: make(map[string]int64)}
}

// Observe records ts for sender and rejects it if it regresses behind the
// last timestamp already processed for that sender.
func (o *PeerOrder) Observe(sender string, ts time.Time) error {
	tsMs := ts.UnixMilli()

	o.mu.Lock()
	defer o.mu.Unlock()

	if last, exists := o.lastProcessedMs[sender]; exists && tsMs < last {
		return clouterr.New(clouterr.Conflict, fmt.Sprintf("out-of-order envelope from %s: %d before %d", sender, tsMs, last))
	}
	o.lastProcessedMs[sender] = tsMs
	return nil
}

// Forget drops the tracked state for sender, e.g. on disconnect.
func (o *PeerOrder) Forget(sender string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	delete(o.lastProcessedMs, sender)
}
