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

// Package rotation derives daily ephemeral signing keys bound to a master
// identity, instead of rotating (replacing) the stored identity key.
package rotation

import (
	"crypto/ed25519"
	"crypto/sha256"
	"fmt"
	"io"
	"sync"
	"time"

	cloutcrypto "github.com/clout-protocol/clout/crypto"
	"github.com/clout-protocol/clout/crypto/keys"
	"golang.org/x/crypto/hkdf"
)

const dailyEphemeralInfo = "clout-daily-ephemeral-v1"

// keyRotator implements cloutcrypto.KeyRotator. A master identity's daily
// ephemeral key is deterministic: deriving it twice for the same day
// returns the same key pair, so peers don't need to gossip it separately
// from the master-signed proof.
type keyRotator struct {
	mu       sync.Mutex
	history  map[string][]cloutcrypto.RotationEvent
	cache    map[string]cloutcrypto.KeyPair // masterID+day -> ephemeral
	deriving map[string]bool                // in-flight guard per masterID+day
}

// NewKeyRotator creates a new daily-ephemeral key rotator.
func NewKeyRotator() cloutcrypto.KeyRotator {
	return &keyRotator{
		history:  make(map[string][]cloutcrypto.RotationEvent),
		cache:    make(map[string]cloutcrypto.KeyPair),
		deriving: make(map[string]bool),
	}
}

// DeriveDaily returns the ephemeral key pair for the given day and a
// master-signed proof binding the ephemeral public key to master.ID().
func (r *keyRotator) DeriveDaily(master cloutcrypto.KeyPair, day time.Time) (cloutcrypto.KeyPair, []byte, error) {
	if master.Type() != cloutcrypto.KeyTypeEd25519 {
		return nil, nil, cloutcrypto.ErrInvalidKeyType
	}
	dayStr := day.UTC().Format("2006-01-02")
	cacheKey := master.ID() + ":" + dayStr

	r.mu.Lock()
	if r.deriving[cacheKey] {
		r.mu.Unlock()
		return nil, nil, fmt.Errorf("ephemeral key for %s is already being derived", cacheKey)
	}
	if cached, ok := r.cache[cacheKey]; ok {
		r.mu.Unlock()
		proof, err := signEphemeral(master, cached)
		return cached, proof, err
	}
	r.deriving[cacheKey] = true
	r.mu.Unlock()

	defer func() {
		r.mu.Lock()
		delete(r.deriving, cacheKey)
		r.mu.Unlock()
	}()

	ephemeral, err := deriveEphemeralKeyPair(master, dayStr)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to derive ephemeral key: %w", err)
	}

	proof, err := signEphemeral(master, ephemeral)
	if err != nil {
		return nil, nil, err
	}

	r.mu.Lock()
	r.cache[cacheKey] = ephemeral
	r.history[master.ID()] = append(r.history[master.ID()], cloutcrypto.RotationEvent{
		Timestamp:   time.Now(),
		Day:         dayStr,
		EphemeralID: ephemeral.ID(),
	})
	r.mu.Unlock()

	return ephemeral, proof, nil
}

// History returns the derivation history for a master key ID, newest first.
func (r *keyRotator) History(masterID string) []cloutcrypto.RotationEvent {
	r.mu.Lock()
	defer r.mu.Unlock()

	history := r.history[masterID]
	result := make([]cloutcrypto.RotationEvent, len(history))
	for i, event := range history {
		result[len(history)-1-i] = event
	}
	return result
}

// deriveEphemeralKeyPair derives a deterministic Ed25519 seed from
// HKDF(masterPriv, dayStr) so the same master+day always yields the same
// ephemeral identity.
func deriveEphemeralKeyPair(master cloutcrypto.KeyPair, dayStr string) (cloutcrypto.KeyPair, error) {
	priv, ok := master.PrivateKey().(ed25519.PrivateKey)
	if !ok {
		return nil, cloutcrypto.ErrInvalidKeyType
	}

	h := hkdf.New(sha256.New, priv.Seed(), []byte(dayStr), []byte(dailyEphemeralInfo))
	seed := make([]byte, ed25519.SeedSize)
	if _, err := io.ReadFull(h, seed); err != nil {
		return nil, fmt.Errorf("hkdf: %w", err)
	}

	return keys.Ed25519KeyPairFromSeed(seed)
}

// signEphemeral produces the master's signature over the ephemeral public
// key, which peers verify before trusting signals from the ephemeral key.
func signEphemeral(master, ephemeral cloutcrypto.KeyPair) ([]byte, error) {
	ephPub, ok := ephemeral.PublicKey().(ed25519.PublicKey)
	if !ok {
		return nil, cloutcrypto.ErrInvalidKeyType
	}
	return master.Sign(ephPub)
}
