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

// Package sybil implements the SybilIssuer port as a verifier for
// VOPRF-style blinded tokens (RFC 9497 shape, simplified to a single
// non-batched discrete-log-equality proof): a client blinds a
// self-chosen input, the issuer evaluates it against its private scalar
// and returns a DLEQ proof that the evaluation used the advertised
// public key, and anyone — including CLOUT, which never sees the
// unblinded input — can verify that proof without learning which client
// it belongs to.
package sybil

import (
	"context"
	"crypto/sha512"
	"fmt"

	"github.com/cloudflare/circl/group"
	"github.com/clout-protocol/clout/ports"
)

// Token is the wire shape of a blinded token presented for verification:
// the blinded element the client sent, the issuer's evaluated element,
// and the DLEQ proof (challenge, response) binding the evaluation to the
// issuer's public key.
type Token struct {
	Blinded   []byte
	Evaluated []byte
	Challenge []byte
	Response  []byte
}

// Verifier verifies VOPRF tokens against one issuer public key.
type Verifier struct {
	g         group.Group
	publicKey group.Element
}

// NewVerifier creates a Verifier for tokens issued against publicKeyBytes
// (an Ristretto255 group element in the issuer's standard encoding).
func NewVerifier(publicKeyBytes []byte) (*Verifier, error) {
	g := group.Ristretto255
	pk := g.NewElement()
	if err := pk.UnmarshalBinary(publicKeyBytes); err != nil {
		return nil, fmt.Errorf("invalid issuer public key: %w", err)
	}
	return &Verifier{g: g, publicKey: pk}, nil
}

// VerifyToken parses tokenBytes as a Token and checks its DLEQ proof.
func (v *Verifier) VerifyToken(ctx context.Context, tokenBytes []byte) (bool, error) {
	tok, err := decodeToken(tokenBytes)
	if err != nil {
		return false, err
	}
	return v.verify(tok)
}

// VerifyFederatedToken verifies a token imported from another community's
// issuer. The token's proof is checked against this verifier's own issuer
// public key; SourceIssuerID and ExpiresAtMs are not checked.
func (v *Verifier) VerifyFederatedToken(ctx context.Context, token ports.FederatedToken) (bool, error) {
	tok, err := decodeToken(token.Token)
	if err != nil {
		return false, err
	}
	return v.verify(tok)
}

// verify checks c == H(g, pk, blinded, evaluated, s*G - c*pk, s*blinded - c*evaluated),
// the standard DLEQ proof-of-equal-discrete-log construction.
func (v *Verifier) verify(tok Token) (bool, error) {
	g := v.g

	blinded := g.NewElement()
	if err := blinded.UnmarshalBinary(tok.Blinded); err != nil {
		return false, fmt.Errorf("invalid blinded element: %w", err)
	}
	evaluated := g.NewElement()
	if err := evaluated.UnmarshalBinary(tok.Evaluated); err != nil {
		return false, fmt.Errorf("invalid evaluated element: %w", err)
	}
	challenge := g.NewScalar()
	if err := challenge.UnmarshalBinary(tok.Challenge); err != nil {
		return false, fmt.Errorf("invalid challenge: %w", err)
	}
	response := g.NewScalar()
	if err := response.UnmarshalBinary(tok.Response); err != nil {
		return false, fmt.Errorf("invalid response: %w", err)
	}

	generator := g.Generator()

	// s*G - c*pk
	sG := g.NewElement().Mul(generator, response)
	cPK := g.NewElement().Mul(v.publicKey, challenge)
	a1 := g.NewElement().Sub(sG, cPK)

	// s*blinded - c*evaluated
	sBlinded := g.NewElement().Mul(blinded, response)
	cEval := g.NewElement().Mul(evaluated, challenge)
	a2 := g.NewElement().Sub(sBlinded, cEval)

	expected := computeChallenge(g, generator, v.publicKey, blinded, evaluated, a1, a2)
	return expected.IsEqual(challenge), nil
}

func computeChallenge(g group.Group, elements ...group.Element) group.Scalar {
	h := sha512.New()
	for _, e := range elements {
		b, _ := e.MarshalBinary()
		h.Write(b)
	}
	return g.HashToScalar(h.Sum(nil), []byte("clout-sybil-dleq-v1"))
}

func decodeToken(data []byte) (Token, error) {
	// Fixed-width concatenation: blinded(32) || evaluated(32) ||
	// challenge(32) || response(32), matching Ristretto255's 32-byte
	// element and 32-byte scalar encodings.
	const elemLen, scalarLen = 32, 32
	want := 2*elemLen + 2*scalarLen
	if len(data) != want {
		return Token{}, fmt.Errorf("malformed token: want %d bytes, got %d", want, len(data))
	}
	return Token{
		Blinded:   data[0:elemLen],
		Evaluated: data[elemLen : 2*elemLen],
		Challenge: data[2*elemLen : 2*elemLen+scalarLen],
		Response:  data[2*elemLen+scalarLen : 2*elemLen+2*scalarLen],
	}, nil
}
