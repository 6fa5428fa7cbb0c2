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

package identity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewGeneratesVerifiableIdentity(t *testing.T) {
	id, err := New()
	require.NoError(t, err)
	require.NotEmpty(t, id.PublicKeyHex())

	msg := []byte("hello CLOUT")
	sig, err := id.Sign(msg)
	require.NoError(t, err)

	assert.NoError(t, Verify(id.PublicKeyHex(), msg, sig))
}

func TestFromSeedHexRoundTrips(t *testing.T) {
	id, err := New()
	require.NoError(t, err)
	seed := id.SeedHex()
	require.NotEmpty(t, seed)

	restored, err := FromSeedHex(seed)
	require.NoError(t, err)
	assert.Equal(t, id.PublicKeyHex(), restored.PublicKeyHex())

	msg := []byte("round trip")
	sig, err := restored.Sign(msg)
	require.NoError(t, err)
	assert.NoError(t, Verify(id.PublicKeyHex(), msg, sig))
}

func TestFromSeedHexRejectsInvalidHex(t *testing.T) {
	_, err := FromSeedHex("not-hex")
	assert.Error(t, err)
}

func TestVerifyRejectsTamperedMessage(t *testing.T) {
	id, err := New()
	require.NoError(t, err)

	sig, err := id.Sign([]byte("original"))
	require.NoError(t, err)

	assert.Error(t, Verify(id.PublicKeyHex(), []byte("tampered"), sig))
}

func TestVerifyRejectsMalformedPublicKey(t *testing.T) {
	assert.Error(t, Verify("zz", []byte("msg"), []byte("sig")))
	assert.Error(t, Verify("ab", []byte("msg"), []byte("sig")))
}

func TestTwoIdentitiesHaveDistinctKeys(t *testing.T) {
	a, err := New()
	require.NoError(t, err)
	b, err := New()
	require.NoError(t, err)
	assert.NotEqual(t, a.PublicKeyHex(), b.PublicKeyHex())
}
