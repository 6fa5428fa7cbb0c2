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

// Package identity wraps the Ed25519 key pair that anchors a CLOUT peer:
// the hex-encoded public key is the peer's address everywhere else in the
// module (trust graph nodes, gossip envelope senders, ticket owners).
package identity

import (
	"crypto/ed25519"
	"encoding/hex"
	"fmt"

	cloutcrypto "github.com/clout-protocol/clout/crypto"
	"github.com/clout-protocol/clout/crypto/keys"
)

// Identity is a single participant's cryptographic identity.
type Identity struct {
	keyPair cloutcrypto.KeyPair
}

// New generates a fresh identity backed by a new Ed25519 key pair.
func New() (*Identity, error) {
	kp, err := keys.GenerateEd25519KeyPair()
	if err != nil {
		return nil, fmt.Errorf("failed to generate identity key pair: %w", err)
	}
	return &Identity{keyPair: kp}, nil
}

// FromSeedHex reconstructs an identity from a hex-encoded 32-byte Ed25519
// seed, the form identities are persisted in configuration or on disk.
func FromSeedHex(seedHex string) (*Identity, error) {
	seed, err := hex.DecodeString(seedHex)
	if err != nil {
		return nil, fmt.Errorf("invalid identity seed: %w", err)
	}
	kp, err := keys.Ed25519KeyPairFromSeed(seed)
	if err != nil {
		return nil, err
	}
	return &Identity{keyPair: kp}, nil
}

// PublicKeyHex returns the hex-encoded Ed25519 public key, the canonical
// peer address used throughout the module.
func (id *Identity) PublicKeyHex() string {
	return hex.EncodeToString(id.keyPair.PublicKey().(ed25519.PublicKey))
}

// PublicKey returns the raw Ed25519 public key.
func (id *Identity) PublicKey() ed25519.PublicKey {
	return id.keyPair.PublicKey().(ed25519.PublicKey)
}

// SeedHex returns the hex-encoded 32-byte seed for persistence. Callers
// must treat the result as secret material.
func (id *Identity) SeedHex() string {
	type seeder interface{ Seed() []byte }
	s, ok := id.keyPair.(seeder)
	if !ok {
		return ""
	}
	return hex.EncodeToString(s.Seed())
}

// Sign signs message with the identity's private key.
func (id *Identity) Sign(message []byte) ([]byte, error) {
	return id.keyPair.Sign(message)
}

// Verify verifies a signature produced by the identity whose hex-encoded
// public key is pubHex.
func Verify(pubHex string, message, signature []byte) error {
	pub, err := hex.DecodeString(pubHex)
	if err != nil {
		return fmt.Errorf("invalid public key: %w", err)
	}
	if len(pub) != ed25519.PublicKeySize {
		return cloutcrypto.ErrInvalidKeyType
	}
	if !ed25519.Verify(ed25519.PublicKey(pub), message, signature) {
		return cloutcrypto.ErrInvalidSignature
	}
	return nil
}

// KeyPair exposes the underlying key pair for subsystems that need the
// full cloutcrypto.KeyPair surface (e.g. daily ephemeral derivation).
func (id *Identity) KeyPair() cloutcrypto.KeyPair {
	return id.keyPair
}
