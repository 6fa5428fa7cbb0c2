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

// Package relay implements the mediation server: a minimal hub that
// authenticates clients by public key, then forwards signaling frames
// between them. It never reads gossip payloads, only the envelope
// needed for routing and deduplication.
package relay

import "encoding/json"

// MessageType tags the seven relay frame shapes.
type MessageType string

const (
	TypeAuthChallenge MessageType = "auth_challenge"
	TypeAuthResponse  MessageType = "auth_response"
	TypeRegister      MessageType = "register"
	TypeSignal        MessageType = "signal"
	TypeForward       MessageType = "forward"
	TypeQueryPeers    MessageType = "query_peers"
	TypeError         MessageType = "error"
)

// Frame is the wire shape of every relay message.
type Frame struct {
	Type    MessageType     `json:"type"`
	From    string          `json:"from,omitempty"`
	To      string          `json:"to,omitempty"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// AuthChallengePayload is sent by the relay immediately after connect.
type AuthChallengePayload struct {
	Nonce     string `json:"nonce"`
	ExpiresAt int64  `json:"expiresAt"`
}

// AuthResponsePayload is the client's reply to a challenge: a signature
// over (nonce || publicKey) under publicKey.
type AuthResponsePayload struct {
	PublicKey string `json:"publicKey"`
	Signature []byte `json:"signature"`
}

// AuthResultPayload is the relay's reply once auth succeeds or fails.
type AuthResultPayload struct {
	Success bool   `json:"success"`
	Reason  string `json:"reason,omitempty"`
}

// RegisterPayload binds a connection to the authenticated public key.
type RegisterPayload struct {
	PublicKey string `json:"publicKey"`
}

// SignalPayload carries an opaque routing payload that must include an
// "id" field for forward deduplication.
type SignalPayload struct {
	ID   string          `json:"id"`
	Body json.RawMessage `json:"body"`
}

// QueryPeersPayload bounds the peer listing returned to the requester.
type QueryPeersPayload struct {
	MaxResults int `json:"maxResults"`
}

// QueryPeersResult lists authenticated peers excluding the requester.
type QueryPeersResult struct {
	Peers []string `json:"peers"`
}

// ErrorPayload reports a protocol-level rejection.
type ErrorPayload struct {
	Reason string `json:"reason"`
}
