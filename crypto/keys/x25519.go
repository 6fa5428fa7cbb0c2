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

package keys

import (
	"crypto"
	"crypto/ecdh"
	"crypto/ed25519"
	"crypto/rand"
	"crypto/sha256"
	"crypto/sha512"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"io"

	"filippo.io/edwards25519"
	cloutcrypto "github.com/clout-protocol/clout/crypto"
	"golang.org/x/crypto/chacha20poly1305"
	"golang.org/x/crypto/hkdf"
)

// X25519KeyPair holds an X25519 private key and its corresponding public
// key, used exclusively for ephemeral ECDH key agreement.
type X25519KeyPair struct {
	privateKey *ecdh.PrivateKey
	publicKey  *ecdh.PublicKey
	id         string
}

// GenerateX25519KeyPair generates a new ephemeral X25519 key pair.
func GenerateX25519KeyPair() (cloutcrypto.KeyPair, error) {
	privateKey, err := ecdh.X25519().GenerateKey(rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("failed to generate ephemeral ECDH key: %w", err)
	}
	publicKey := privateKey.PublicKey()

	hash := sha256.Sum256(publicKey.Bytes())
	id := hex.EncodeToString(hash[:8])

	return &X25519KeyPair{
		privateKey: privateKey,
		publicKey:  publicKey,
		id:         id,
	}, nil
}

// PublicKey returns the public key
func (kp *X25519KeyPair) PublicKey() crypto.PublicKey {
	return kp.publicKey
}

// PublicBytesKey returns the raw public key bytes.
func (kp *X25519KeyPair) PublicBytesKey() []byte {
	return kp.publicKey.Bytes()
}

// PrivateKey returns the private key
func (kp *X25519KeyPair) PrivateKey() crypto.PrivateKey {
	return kp.privateKey
}

// Type returns the key type
func (kp *X25519KeyPair) Type() cloutcrypto.KeyType {
	return cloutcrypto.KeyTypeX25519
}

// ID returns a unique identifier for this key pair
func (kp *X25519KeyPair) ID() string {
	return kp.id
}

// Sign is unsupported: X25519 is a key-agreement curve, not a signing one.
func (kp *X25519KeyPair) Sign(message []byte) ([]byte, error) {
	return nil, cloutcrypto.ErrSignNotSupported
}

// Verify is unsupported: X25519 is a key-agreement curve, not a signing one.
func (kp *X25519KeyPair) Verify(message, signature []byte) error {
	return cloutcrypto.ErrVerifyNotSupported
}

// DeriveSharedSecret computes a 32-byte session key from an X25519 ECDH
// exchange: SHA-256 of the raw ECDH shared secret with peerPubBytes.
func (kp *X25519KeyPair) DeriveSharedSecret(peerPubBytes []byte) ([]byte, error) {
	curve := ecdh.X25519()
	peerPub, err := curve.NewPublicKey(peerPubBytes)
	if err != nil {
		return nil, fmt.Errorf("failed to parse peer public key: %w", err)
	}

	shared, err := kp.privateKey.ECDH(peerPub)
	if err != nil {
		return nil, fmt.Errorf("failed to compute shared secret: %w", err)
	}

	sum := sha256.Sum256(shared)
	return sum[:], nil
}

// trustSignalInfo is the HKDF info string binding the derived AEAD key to
// its purpose, so a shared secret computed for one protocol use can never
// be replayed as a key for another.
const trustSignalInfo = "clout-trust-signal-v1"

// SealTrustSignal encrypts a trust-signal payload from the sender to
// trusteePub (an Ed25519 identity public key), using an ephemeral X25519
// key pair generated for this call. Returns the ephemeral public key, the
// commitment binding the trustee and nonce, the nonce, and the ciphertext.
//
// commitment = SHA-256(hex(trusteePub) || hex(nonce))
func SealTrustSignal(trusteePub ed25519.PublicKey, plaintext []byte) (ephPub, commitment, nonce, ciphertext []byte, err error) {
	ephemeral, err := GenerateX25519KeyPair()
	if err != nil {
		return nil, nil, nil, nil, err
	}
	ephPriv := ephemeral.(*X25519KeyPair)

	trusteeX, err := convertEd25519PubToX25519(trusteePub)
	if err != nil {
		return nil, nil, nil, nil, err
	}

	key, err := trustSignalKey(ephPriv.privateKey, trusteeX)
	if err != nil {
		return nil, nil, nil, nil, err
	}

	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, nil, nil, nil, err
	}
	nonce = make([]byte, aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, nil, nil, nil, err
	}

	commitment = computeCommitment(trusteePub, nonce)
	ciphertext = aead.Seal(nil, nonce, plaintext, commitment)
	return ephPriv.publicKey.Bytes(), commitment, nonce, ciphertext, nil
}

// OpenTrustSignal decrypts a payload sealed with SealTrustSignal. trusteePriv
// is the recipient's Ed25519 private key; ephPub is the sender's ephemeral
// X25519 public key from SealTrustSignal. The commitment is recomputed and
// passed as the AEAD's associated data, so decryption fails unless it
// matches the commitment used at seal time.
func OpenTrustSignal(trusteePriv ed25519.PrivateKey, ephPub, nonce, ciphertext []byte) ([]byte, error) {
	trusteePub := trusteePriv.Public().(ed25519.PublicKey)
	selfX, err := convertEd25519PrivToX25519(trusteePriv)
	if err != nil {
		return nil, err
	}
	selfXPriv, err := ecdh.X25519().NewPrivateKey(selfX)
	if err != nil {
		return nil, err
	}

	ephPubKey, err := ecdh.X25519().NewPublicKey(ephPub)
	if err != nil {
		return nil, fmt.Errorf("invalid ephemeral public key: %w", err)
	}

	key, err := trustSignalKey(selfXPriv, ephPubKey.Bytes())
	if err != nil {
		return nil, err
	}

	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, err
	}

	commitment := computeCommitment(trusteePub, nonce)
	return aead.Open(nil, nonce, ciphertext, commitment)
}

// computeCommitment binds a sealed trust signal to its recipient and nonce
// so the same ciphertext cannot be replayed against a different trustee.
func computeCommitment(trusteePub ed25519.PublicKey, nonce []byte) []byte {
	h := sha256.New()
	h.Write([]byte(hex.EncodeToString(trusteePub)))
	h.Write([]byte(hex.EncodeToString(nonce)))
	return h.Sum(nil)
}

func trustSignalKey(priv *ecdh.PrivateKey, peerPubBytes []byte) ([]byte, error) {
	peerPub, err := ecdh.X25519().NewPublicKey(peerPubBytes)
	if err != nil {
		return nil, fmt.Errorf("failed to parse peer public key: %w", err)
	}
	raw, err := priv.ECDH(peerPub)
	if err != nil {
		return nil, fmt.Errorf("failed to compute shared secret: %w", err)
	}
	if subtle.ConstantTimeCompare(raw, make([]byte, len(raw))) == 1 {
		return nil, fmt.Errorf("x25519: low-order or identity point")
	}

	h := hkdf.New(sha256.New, raw, nil, []byte(trustSignalInfo))
	key := make([]byte, chacha20poly1305.KeySize)
	if _, err := io.ReadFull(h, key); err != nil {
		return nil, fmt.Errorf("hkdf: %w", err)
	}
	return key, nil
}

// convertEd25519PrivToX25519 turns an Ed25519 private key into the X25519 scalar.
func convertEd25519PrivToX25519(privKey ed25519.PrivateKey) ([]byte, error) {
	if l := len(privKey); l != ed25519.PrivateKeySize {
		return nil, fmt.Errorf("bad Ed25519 priv length: %d", l)
	}
	seed := privKey.Seed()
	h := sha512.Sum512(seed)
	h[0] &= 248
	h[31] &= 127
	h[31] |= 64

	var xPriv [32]byte
	copy(xPriv[:], h[:32])
	return xPriv[:], nil
}

// convertEd25519PubToX25519 turns an Ed25519 public key into the X25519 public key.
func convertEd25519PubToX25519(pubKey ed25519.PublicKey) ([]byte, error) {
	if l := len(pubKey); l != ed25519.PublicKeySize {
		return nil, fmt.Errorf("bad Ed25519 pub length: %d", l)
	}
	P, err := new(edwards25519.Point).SetBytes(pubKey)
	if err != nil {
		return nil, fmt.Errorf("invalid Ed25519 pub: %w", err)
	}
	return P.BytesMontgomery(), nil
}
