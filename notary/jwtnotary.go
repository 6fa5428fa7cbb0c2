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

// Package jwtnotary implements the Notary port: each witness signs a JWT
// binding a content hash to a timestamp, and the attestation is the set
// of those JWTs. Quorum verification succeeds if at least one witness's
// signature checks out.
package jwtnotary

import (
	"context"
	"crypto/ed25519"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/clout-protocol/clout/ports"
	"github.com/golang-jwt/jwt/v5"
)

// hashClaims is the JWT claim set a witness signs over.
type hashClaims struct {
	Hash string `json:"hash"`
	jwt.RegisteredClaims
}

// Witness is one notary signer: an identity and a label reported back as
// its witness id.
type Witness struct {
	ID         string
	PrivateKey ed25519.PrivateKey
	PublicKey  ed25519.PublicKey
}

// Notary implements ports.Notary by collecting one signed JWT per
// configured witness.
type Notary struct {
	witnesses []Witness
}

// New creates a notary that timestamps with every witness in witnesses
// and verifies against any one of their public keys.
func New(witnesses []Witness) *Notary {
	return &Notary{witnesses: witnesses}
}

// Timestamp signs hash with every configured witness, returning an
// attestation carrying one JWT per witness.
func (n *Notary) Timestamp(ctx context.Context, hash [32]byte) (ports.Attestation, error) {
	now := time.Now()
	hashHex := hex.EncodeToString(hash[:])

	sigs := make([][]byte, 0, len(n.witnesses))
	ids := make([]string, 0, len(n.witnesses))
	for _, w := range n.witnesses {
		claims := hashClaims{
			Hash: hashHex,
			RegisteredClaims: jwt.RegisteredClaims{
				IssuedAt: jwt.NewNumericDate(now),
				Issuer:   w.ID,
			},
		}
		token := jwt.NewWithClaims(jwt.SigningMethodEdDSA, claims)
		signed, err := token.SignedString(w.PrivateKey)
		if err != nil {
			return ports.Attestation{}, fmt.Errorf("witness %s failed to sign: %w", w.ID, err)
		}
		sigs = append(sigs, []byte(signed))
		ids = append(ids, w.ID)
	}

	return ports.Attestation{
		Hash:        hash,
		TimestampMs: now.UnixMilli(),
		Signatures:  sigs,
		WitnessIDs:  ids,
	}, nil
}

// Verify checks that at least one signature in attestation is a valid
// JWT from a known witness, over the claimed hash.
func (n *Notary) Verify(ctx context.Context, attestation ports.Attestation) (bool, error) {
	hashHex := hex.EncodeToString(attestation.Hash[:])

	for _, sig := range attestation.Signatures {
		for _, w := range n.witnesses {
			claims := &hashClaims{}
			_, err := jwt.ParseWithClaims(string(sig), claims, func(t *jwt.Token) (any, error) {
				return w.PublicKey, nil
			}, jwt.WithValidMethods([]string{jwt.SigningMethodEdDSA.Alg()}))
			if err != nil {
				continue
			}
			if claims.Hash == hashHex {
				return true, nil
			}
		}
	}
	return false, nil
}
