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

func TestNewSessionStartsPendingAuth(t *testing.T) {
	s := newSession()
	assert.Equal(t, phasePendingAuth, s.currentPhase())
	assert.Empty(t, s.identity())
}

func TestSessionAdvancesThroughPhases(t *testing.T) {
	s := newSession()
	s.beginChallenge("nonce-1")
	assert.False(t, s.challengeExpired())

	s.authenticate("peer-key")
	assert.Equal(t, phaseAuthenticated, s.currentPhase())
	assert.Equal(t, "peer-key", s.identity())

	s.register()
	assert.Equal(t, phaseRegistered, s.currentPhase())
}

func TestSessionChallengeExpiry(t *testing.T) {
	s := newSession()
	s.beginChallenge("nonce-1")
	s.challengeExpiry = time.Now().Add(-time.Second)
	assert.True(t, s.challengeExpired())
}

func TestSessionTouchUpdatesIdleSince(t *testing.T) {
	s := newSession()
	s.lastActivity = time.Now().Add(-time.Hour)
	assert.Greater(t, s.idleSince(), 30*time.Minute)

	s.touch()
	assert.Less(t, s.idleSince(), time.Second)
}

func TestNewChallengeNonceIsUnpredictableAndHexEncoded(t *testing.T) {
	n1, err := newChallengeNonce()
	assert.NoError(t, err)
	n2, err := newChallengeNonce()
	assert.NoError(t, err)

	assert.NotEqual(t, n1, n2)
	assert.Len(t, n1, 32)
}

func TestAuthPayloadConcatenatesNonceAndPublicKey(t *testing.T) {
	assert.Equal(t, []byte("abcdef"), authPayload("abc", "def"))
}
