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

package crypto

import (
	"crypto"
	"errors"
	"time"
)

// KeyType represents the type of cryptographic key.
type KeyType string

const (
	// KeyTypeEd25519 is used for every participant identity.
	KeyTypeEd25519 KeyType = "Ed25519"
	// KeyTypeX25519 is used only for ephemeral ECDH key agreement.
	KeyTypeX25519 KeyType = "X25519"
)

// KeyPair represents a cryptographic key pair.
type KeyPair interface {
	// PublicKey returns the public key
	PublicKey() crypto.PublicKey

	// PrivateKey returns the private key
	PrivateKey() crypto.PrivateKey

	// Type returns the key type
	Type() KeyType

	// Sign signs the given message
	Sign(message []byte) ([]byte, error)

	// Verify verifies the signature
	Verify(message, signature []byte) error

	// ID returns a unique identifier for this key pair
	ID() string
}

// KeyStorage provides secure storage for keys.
type KeyStorage interface {
	// Store stores a key pair with the given ID
	Store(id string, keyPair KeyPair) error

	// Load loads a key pair by ID
	Load(id string) (KeyPair, error)

	// Delete removes a key pair by ID
	Delete(id string) error

	// List returns all stored key IDs
	List() ([]string, error)

	// Exists checks if a key exists
	Exists(id string) bool
}

// RotationEvent records a single daily-ephemeral-key derivation for a
// master identity.
type RotationEvent struct {
	Timestamp   time.Time
	Day         string
	EphemeralID string
}

// KeyRotator derives and tracks daily ephemeral signing keys bound to a
// master identity (see spec.md §4.1).
type KeyRotator interface {
	// DeriveDaily returns the ephemeral key pair for the given day,
	// generating and caching it on first use, plus a master-signed
	// proof binding the ephemeral public key to the master identity.
	DeriveDaily(master KeyPair, day time.Time) (ephemeral KeyPair, proof []byte, err error)

	// History returns the derivation history for a master key ID.
	History(masterID string) []RotationEvent
}

// Common errors
var (
	ErrKeyNotFound        = errors.New("key not found")
	ErrInvalidKeyType     = errors.New("invalid key type")
	ErrKeyExists          = errors.New("key already exists")
	ErrInvalidSignature   = errors.New("invalid signature")
	ErrSignNotSupported   = errors.New("key type does not support signing")
	ErrVerifyNotSupported = errors.New("key type does not support signature verification")
	ErrDecryptionFailed   = errors.New("decryption failed")
)
