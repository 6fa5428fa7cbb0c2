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
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMediaRequestsResolvesAwaitingCaller(t *testing.T) {
	m := NewMediaRequests()

	done := make(chan struct{})
	var data []byte
	var err error
	go func() {
		data, err = m.Await(context.Background(), "cid-1")
		close(done)
	}()

	// Give Await a moment to register before resolving.
	require.Eventually(t, func() bool {
		return m.Resolve("cid-1", []byte("payload"))
	}, time.Second, time.Millisecond)

	<-done
	require.NoError(t, err)
	assert.Equal(t, []byte("payload"), data)
}

func TestMediaRequestsResolveWithNoPendingRequestIsNoop(t *testing.T) {
	m := NewMediaRequests()
	assert.False(t, m.Resolve("unknown-cid", []byte("x")))
}

func TestMediaRequestsAwaitTimesOut(t *testing.T) {
	m := NewMediaRequests()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := m.Await(ctx, "cid-2")
	assert.ErrorIs(t, err, ErrMediaUnavailable)
}
