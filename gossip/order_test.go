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

	"github.com/clout-protocol/clout/clouterr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPeerOrderRejectsOutOfOrderTimestamps(t *testing.T) {
	o := NewPeerOrder()
	base := time.Now()

	require.NoError(t, o.Observe("alice", base))
	require.NoError(t, o.Observe("alice", base.Add(time.Second)))
	err := o.Observe("alice", base)
	assert.True(t, clouterr.Is(err, clouterr.Conflict))
}

func TestPeerOrderTracksPeersIndependently(t *testing.T) {
	o := NewPeerOrder()
	base := time.Now()

	require.NoError(t, o.Observe("alice", base.Add(time.Hour)))
	assert.NoError(t, o.Observe("bob", base))
}

func TestPeerOrderForgetResetsState(t *testing.T) {
	o := NewPeerOrder()
	base := time.Now()

	require.NoError(t, o.Observe("alice", base.Add(time.Hour)))
	o.Forget("alice")
	assert.NoError(t, o.Observe("alice", base))
}
