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
	"encoding/json"
	"testing"
	"time"

	"github.com/clout-protocol/clout/identity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPipeline(t *testing.T, handlers Handlers) *Pipeline {
	t.Helper()
	cfg := DefaultConfig()
	cfg.RateCapacity = 100
	cfg.RateRefillPerSec = 100
	p := New(cfg, handlers)
	t.Cleanup(p.Close)
	return p
}

func TestPipelineAdmitsValidSignedEnvelope(t *testing.T) {
	id, err := identity.New()
	require.NoError(t, err)

	var received json.RawMessage
	p := testPipeline(t, Handlers{
		Post: func(sender string, body json.RawMessage) error {
			received = body
			return nil
		},
	})

	inner := InnerMessage{Type: TypePost, Body: json.RawMessage(`{"content":"hi"}`)}
	msgBytes, err := json.Marshal(inner)
	require.NoError(t, err)

	env := signedEnvelope(t, id, msgBytes, "n1", time.Now().Add(time.Minute))
	require.NoError(t, p.Admit(env))
	assert.JSONEq(t, `{"content":"hi"}`, string(received))
}

func TestPipelineRejectsReplayedNonce(t *testing.T) {
	id, err := identity.New()
	require.NoError(t, err)

	var calls int
	p := testPipeline(t, Handlers{
		Post: func(sender string, body json.RawMessage) error { calls++; return nil },
	})

	inner := InnerMessage{Type: TypePost, Body: json.RawMessage(`{}`)}
	msgBytes, err := json.Marshal(inner)
	require.NoError(t, err)

	env := signedEnvelope(t, id, msgBytes, "dup-nonce", time.Now().Add(time.Minute))
	require.NoError(t, p.Admit(env))
	require.NoError(t, p.Admit(env))
	assert.Equal(t, 1, calls)
}

func TestPipelineRejectsBadSignature(t *testing.T) {
	id, err := identity.New()
	require.NoError(t, err)

	var calls int
	var rejectedReason string
	p := testPipeline(t, Handlers{
		Post: func(sender string, body json.RawMessage) error { calls++; return nil },
	})
	p.OnRejected(func(peer, reason string) { rejectedReason = reason })

	inner := InnerMessage{Type: TypePost, Body: json.RawMessage(`{}`)}
	msgBytes, err := json.Marshal(inner)
	require.NoError(t, err)

	env := signedEnvelope(t, id, msgBytes, "n2", time.Now().Add(time.Minute))
	env.Signature[0] ^= 0xFF

	require.NoError(t, p.Admit(env))
	assert.Equal(t, 0, calls)
	assert.NotEmpty(t, rejectedReason)
}

func TestPipelineRejectsUnsignedWhenPolicyForbidsIt(t *testing.T) {
	cfg := DefaultConfig()
	cfg.AllowUnsigned = false
	p := New(cfg, Handlers{})
	defer p.Close()

	var rejected bool
	p.OnRejected(func(peer, reason string) { rejected = true })

	env := Envelope{
		Message:         json.RawMessage(`{"type":"post","body":{}}`),
		SenderPublicKey: "anon",
		Nonce:           "n3",
		ExpiresAt:       time.Now().Add(time.Minute),
	}
	require.NoError(t, p.Admit(env))
	assert.True(t, rejected)
}

func TestPipelineRejectsExpiredUnsignedEnvelope(t *testing.T) {
	cfg := DefaultConfig()
	cfg.RateCapacity = 100
	cfg.RateRefillPerSec = 100
	p := New(cfg, Handlers{})
	defer p.Close()

	var rejectedReason string
	p.OnRejected(func(peer, reason string) { rejectedReason = reason })

	env := Envelope{
		Message:         json.RawMessage(`{"type":"post","body":{}}`),
		SenderPublicKey: "anon",
		Nonce:           "n-expired",
		ExpiresAt:       time.Now().Add(-time.Minute),
	}
	require.NoError(t, p.Admit(env))
	assert.NotEmpty(t, rejectedReason)
}

func TestPipelineRateLimitsPerPeer(t *testing.T) {
	id, err := identity.New()
	require.NoError(t, err)

	cfg := DefaultConfig()
	cfg.RateCapacity = 1
	cfg.RateRefillPerSec = 0.001
	p := New(cfg, Handlers{Post: func(sender string, body json.RawMessage) error { return nil }})
	defer p.Close()

	var rateLimited bool
	p.OnRateLimited(func(peer string) { rateLimited = true })

	inner := InnerMessage{Type: TypePost, Body: json.RawMessage(`{}`)}
	msgBytes, err := json.Marshal(inner)
	require.NoError(t, err)

	env1 := signedEnvelope(t, id, msgBytes, "r1", time.Now().Add(time.Minute))
	env2 := signedEnvelope(t, id, msgBytes, "r2", time.Now().Add(time.Minute))

	require.NoError(t, p.Admit(env1))
	require.NoError(t, p.Admit(env2))
	assert.True(t, rateLimited)
}
