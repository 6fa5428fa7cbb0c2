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
	"context"
	"errors"
	"sync"
	"time"
)

// ErrMediaUnavailable is returned when a media request times out before
// a response correlates with it.
var ErrMediaUnavailable = errors.New("media unavailable: request timed out")

// pendingMediaRequest is a one-shot continuation: a media-response that
// correlates by CID delivers its bytes here exactly once.
type pendingMediaRequest struct {
	result chan []byte
	cancel context.CancelFunc
}

// MediaRequests is the outstanding media-request continuation map: CID
// to a one-shot result channel with an attached timeout.
type MediaRequests struct {
	mu      sync.Mutex
	pending map[string]*pendingMediaRequest
}

// NewMediaRequests creates an empty continuation map.
func NewMediaRequests() *MediaRequests {
	return &MediaRequests{pending: make(map[string]*pendingMediaRequest)}
}

// Await registers a pending request for cid and blocks until a matching
// Resolve call, ctx cancellation, or the default 30s timeout, whichever
// comes first.
func (m *MediaRequests) Await(ctx context.Context, cid string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	entry := &pendingMediaRequest{
		result: make(chan []byte, 1),
		cancel: cancel,
	}

	m.mu.Lock()
	m.pending[cid] = entry
	m.mu.Unlock()

	defer func() {
		m.mu.Lock()
		delete(m.pending, cid)
		m.mu.Unlock()
	}()

	select {
	case data := <-entry.result:
		return data, nil
	case <-ctx.Done():
		return nil, ErrMediaUnavailable
	}
}

// Resolve correlates an inbound media-response with its outstanding
// request by CID, and delivers it to the waiting Await call. A response
// with no matching pending request is dropped.
func (m *MediaRequests) Resolve(cid string, data []byte) bool {
	m.mu.Lock()
	entry, ok := m.pending[cid]
	m.mu.Unlock()
	if !ok {
		return false
	}
	select {
	case entry.result <- data:
		return true
	default:
		return false
	}
}
