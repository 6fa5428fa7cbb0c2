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
	"fmt"
	"time"

	"github.com/clout-protocol/clout/clouterr"
	"github.com/clout-protocol/clout/identity"
)

// Envelope wraps every gossip message. The signature covers the exact
// byte string `{"message":<message>,"nonce":"<nonce>","expiresAt":<ms>}`
// with keys in that fixed order — not Go's map-based JSON marshaling,
// which does not guarantee key order.
type Envelope struct {
	Message         json.RawMessage
	SenderPublicKey string
	Signature       []byte
	Nonce           string
	ExpiresAt       time.Time
}

// canonicalPayload builds the exact signed byte string for an envelope.
func canonicalPayload(message json.RawMessage, nonce string, expiresAtMs int64) []byte {
	return []byte(fmt.Sprintf(`{"message":%s,"nonce":%q,"expiresAt":%d}`, string(message), nonce, expiresAtMs))
}

// CanonicalPayload exposes canonicalPayload for envelope construction by
// senders (see tokenbooth/relay callers that sign outbound envelopes).
func CanonicalPayload(message json.RawMessage, nonce string, expiresAt time.Time) []byte {
	return canonicalPayload(message, nonce, expiresAt.UnixMilli())
}

// CheckFreshness reports whether the envelope has expired as of now,
// independent of signature policy: every envelope, signed or not, must
// satisfy now <= ExpiresAt.
func (e Envelope) CheckFreshness(now time.Time) error {
	if now.After(e.ExpiresAt) {
		return clouterr.New(clouterr.Expired, fmt.Sprintf("envelope expired at %s", e.ExpiresAt))
	}
	return nil
}

// VerifySignature checks the envelope's signature, assuming freshness has
// already been checked by the caller.
func (e Envelope) VerifySignature() error {
	payload := canonicalPayload(e.Message, e.Nonce, e.ExpiresAt.UnixMilli())
	if err := identity.Verify(e.SenderPublicKey, payload, e.Signature); err != nil {
		return clouterr.Wrap(clouterr.Unauthorized, "envelope signature verification failed", err)
	}
	return nil
}

// Verify checks the envelope's freshness and signature. It does not
// check replay — that is ReplayGuard's job, a separate pipeline stage.
func (e Envelope) Verify(now time.Time) error {
	if err := e.CheckFreshness(now); err != nil {
		return err
	}
	return e.VerifySignature()
}
