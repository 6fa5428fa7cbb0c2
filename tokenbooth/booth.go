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

package tokenbooth

import (
	"bytes"
	"context"
	"encoding/gob"
	"encoding/hex"
	"fmt"
	"sync"
	"time"

	"github.com/clout-protocol/clout/clouterr"
	"github.com/clout-protocol/clout/crypto"
	"github.com/clout-protocol/clout/identity"
	"github.com/clout-protocol/clout/internal/metrics"
	"github.com/clout-protocol/clout/ports"
)

const delegationWindow = 7 * 24 * time.Hour

// ReputationGetter resolves a key's current reputation score, injected
// so the booth never imports the reputation package directly (it only
// needs one number, not the whole engine).
type ReputationGetter func(key string) float64

// DelegationPersistCallback is invoked whenever a pending delegation is
// created or removed; a nil delegation means "removed".
type DelegationPersistCallback func(recipient string, d *Delegation)

// Booth mints and verifies tickets. A mutex guards both the in-flight
// minting set and the pending-delegation map, the same
// "currently-in-progress" guard idiom used for daily ephemeral key
// derivation.
type Booth struct {
	mu sync.Mutex

	sybil  ports.SybilIssuer
	notary ports.Notary

	minting            map[string]bool
	pendingDelegations map[string]Delegation
	weeklyUsage        map[string][]time.Time

	reputationOf ReputationGetter
	onDelegation DelegationPersistCallback
}

// New creates a Booth backed by the given sybil issuer and notary ports.
func New(sybil ports.SybilIssuer, notary ports.Notary, reputationOf ReputationGetter, onDelegation DelegationPersistCallback) *Booth {
	return &Booth{
		sybil:              sybil,
		notary:             notary,
		minting:            make(map[string]bool),
		pendingDelegations: make(map[string]Delegation),
		weeklyUsage:        make(map[string][]time.Time),
		reputationOf:       reputationOf,
		onDelegation:       onDelegation,
	}
}

// ticketDuration maps a reputation score to a ticket duration.
func ticketDuration(reputation *float64) (int, time.Duration) {
	if reputation == nil {
		return 24, 24 * time.Hour
	}
	switch {
	case *reputation >= 0.9:
		return 168, 168 * time.Hour
	case *reputation >= 0.7:
		return 72, 72 * time.Hour
	case *reputation >= 0.5:
		return 48, 48 * time.Hour
	default:
		return 24, 24 * time.Hour
	}
}

// MintTicket verifies sybilToken with the external issuer, then mints a
// direct ticket whose duration scales with reputationScore.
func (b *Booth) MintTicket(ctx context.Context, id *identity.Identity, sybilToken []byte, reputationScore *float64) (*Ticket, error) {
	owner := id.PublicKeyHex()

	if !b.beginMinting(owner) {
		return nil, clouterr.New(clouterr.Conflict, fmt.Sprintf("ticket for %s is already being minted", owner))
	}
	defer b.endMinting(owner)

	ok, err := b.sybil.VerifyToken(ctx, sybilToken)
	if err != nil {
		return nil, clouterr.Wrap(clouterr.Unavailable, "sybil token verification unavailable", err)
	}
	if !ok {
		metrics.SybilVerifications.WithLabelValues("invalid").Inc()
		return nil, clouterr.New(clouterr.Unauthorized, "sybil token rejected")
	}
	metrics.SybilVerifications.WithLabelValues("valid").Inc()

	hours, dur := ticketDuration(reputationScore)
	expiry := time.Now().Add(dur).UnixMilli()

	payload := map[string]any{
		"owner":         owner,
		"expiry":        expiry,
		"durationHours": hours,
		"proof":         hex.EncodeToString(sybilToken),
	}
	hash := crypto.CanonicalHash(payload)

	attestation, err := b.notary.Timestamp(ctx, hash)
	if err != nil {
		return nil, clouterr.Wrap(clouterr.Unavailable, "notary unavailable", err)
	}
	attBytes, err := encodeAttestation(attestation)
	if err != nil {
		return nil, err
	}

	metrics.TicketsIssued.WithLabelValues("freebird").Inc()
	return &Ticket{
		Owner:         owner,
		ExpiryMs:      expiry,
		DurationHours: hours,
		Type:          TicketDirect,
		FreebirdProof: sybilToken,
		Attestation:   attBytes,
	}, nil
}

// VerifyTicket returns true iff ticket.Owner == claimedOwner, the ticket
// has not expired, and the notary verifies its attestation.
func (b *Booth) VerifyTicket(ctx context.Context, ticket Ticket, claimedOwner string) bool {
	if ticket.Owner != claimedOwner {
		metrics.TicketsRedeemed.WithLabelValues("invalid").Inc()
		return false
	}
	if time.Now().UnixMilli() > ticket.ExpiryMs {
		metrics.TicketsRedeemed.WithLabelValues("expired").Inc()
		return false
	}
	att, err := decodeAttestation(ticket.Attestation)
	if err != nil {
		metrics.TicketsRedeemed.WithLabelValues("invalid").Inc()
		return false
	}
	ok, err := b.notary.Verify(ctx, att)
	if err != nil || !ok {
		metrics.TicketsRedeemed.WithLabelValues("invalid").Inc()
		return false
	}
	metrics.TicketsRedeemed.WithLabelValues("accepted").Inc()
	return true
}

// weeklyQuota maps a delegator's reputation to their delegation quota
// for the current rolling 7-day window.
func weeklyQuota(reputation float64) int {
	switch {
	case reputation >= 0.9:
		return 10
	case reputation >= 0.7:
		return 5
	default:
		return 0
	}
}

// DelegatePass lets delegator vouch recipient into a ticket. Requires
// delegatorReputation >= 0.7 and remaining weekly quota.
func (b *Booth) DelegatePass(ctx context.Context, delegator *identity.Identity, recipient string, delegatorReputation float64, durationHours int) (*Delegation, error) {
	if delegatorReputation < 0.7 {
		return nil, clouterr.New(clouterr.Unauthorized, fmt.Sprintf("delegator reputation %.2f below floor 0.7", delegatorReputation))
	}
	if durationHours <= 0 {
		durationHours = 24
	}

	delegatorKey := delegator.PublicKeyHex()

	b.mu.Lock()
	quota := weeklyQuota(delegatorReputation)
	used := b.pruneWeeklyUsage(delegatorKey, time.Now())
	if len(used) >= quota {
		b.mu.Unlock()
		return nil, clouterr.New(clouterr.RateLimited, fmt.Sprintf("delegator %s has exhausted their weekly delegation quota", delegatorKey))
	}
	b.mu.Unlock()

	now := time.Now()
	expiry := now.Add(time.Duration(durationHours) * time.Hour).UnixMilli()

	payload := map[string]any{
		"delegator": delegatorKey,
		"recipient": recipient,
		"expiry":    expiry,
		"timestamp": now.UnixMilli(),
	}
	hash := crypto.CanonicalHash(payload)
	sig, err := delegator.Sign(hash[:])
	if err != nil {
		return nil, fmt.Errorf("failed to sign delegation: %w", err)
	}

	attestation, err := b.notary.Timestamp(ctx, hash)
	if err != nil {
		return nil, clouterr.Wrap(clouterr.Unavailable, "notary unavailable", err)
	}
	attBytes, err := encodeAttestation(attestation)
	if err != nil {
		return nil, err
	}

	delegation := Delegation{
		Delegator:     delegatorKey,
		Recipient:     recipient,
		ExpiryMs:      expiry,
		DurationHours: durationHours,
		Signature:     sig,
		Attestation:   attBytes,
	}

	b.mu.Lock()
	b.pendingDelegations[recipient] = delegation
	b.weeklyUsage[delegatorKey] = append(used, now)
	b.mu.Unlock()
	metrics.DelegationsActive.Inc()

	if b.onDelegation != nil {
		b.onDelegation(recipient, &delegation)
	}

	return &delegation, nil
}

// pruneWeeklyUsage drops timestamps outside the rolling 7-day window.
// Caller must hold b.mu.
func (b *Booth) pruneWeeklyUsage(delegator string, now time.Time) []time.Time {
	cutoff := now.Add(-delegationWindow)
	existing := b.weeklyUsage[delegator]
	fresh := existing[:0]
	for _, t := range existing {
		if t.After(cutoff) {
			fresh = append(fresh, t)
		}
	}
	b.weeklyUsage[delegator] = fresh
	return fresh
}

// MintDelegatedTicket consumes the pending delegation for identity's
// public key. On any verification failure the delegation is dropped and
// its removal is signalled via the persist callback.
func (b *Booth) MintDelegatedTicket(ctx context.Context, id *identity.Identity) (*Ticket, error) {
	recipient := id.PublicKeyHex()

	b.mu.Lock()
	delegation, ok := b.pendingDelegations[recipient]
	b.mu.Unlock()
	if !ok {
		return nil, clouterr.New(clouterr.NotFound, fmt.Sprintf("no pending delegation for %s", recipient))
	}

	drop := func(reason error) (*Ticket, error) {
		b.mu.Lock()
		delete(b.pendingDelegations, recipient)
		b.mu.Unlock()
		metrics.DelegationsActive.Dec()
		if b.onDelegation != nil {
			b.onDelegation(recipient, nil)
		}
		return nil, reason
	}

	if time.Now().UnixMilli() > delegation.ExpiryMs {
		return drop(clouterr.New(clouterr.Expired, fmt.Sprintf("delegation for %s has expired", recipient)))
	}

	att, err := decodeAttestation(delegation.Attestation)
	if err != nil {
		return drop(clouterr.Wrap(clouterr.InvalidInput, "malformed delegation attestation", err))
	}
	ok2, err := b.notary.Verify(ctx, att)
	if err != nil || !ok2 {
		return drop(clouterr.New(clouterr.Unauthorized, "delegation attestation failed verification"))
	}

	if b.reputationOf != nil && b.reputationOf(delegation.Delegator) < 0.7 {
		return drop(clouterr.New(clouterr.Unauthorized, fmt.Sprintf("delegator %s no longer meets the reputation floor", delegation.Delegator)))
	}

	b.mu.Lock()
	delete(b.pendingDelegations, recipient)
	b.mu.Unlock()
	metrics.DelegationsActive.Dec()
	if b.onDelegation != nil {
		b.onDelegation(recipient, nil)
	}

	metrics.TicketsIssued.WithLabelValues("delegated").Inc()
	return &Ticket{
		Owner:         recipient,
		ExpiryMs:      delegation.ExpiryMs,
		DurationHours: delegation.DurationHours,
		Type:          TicketDelegated,
		FreebirdProof: delegation.Signature,
		Attestation:   delegation.Attestation,
	}, nil
}

func (b *Booth) beginMinting(owner string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.minting[owner] {
		return false
	}
	b.minting[owner] = true
	return true
}

func (b *Booth) endMinting(owner string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.minting, owner)
}

func encodeAttestation(a ports.Attestation) ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(a); err != nil {
		return nil, fmt.Errorf("failed to encode attestation: %w", err)
	}
	return buf.Bytes(), nil
}

func decodeAttestation(data []byte) (ports.Attestation, error) {
	var a ports.Attestation
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&a); err != nil {
		return ports.Attestation{}, fmt.Errorf("failed to decode attestation: %w", err)
	}
	return a, nil
}
