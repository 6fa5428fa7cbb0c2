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

package clouterr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewTagsKind(t *testing.T) {
	err := New(InvalidInput, "bad signature")
	assert.True(t, Is(err, InvalidInput))
	assert.False(t, Is(err, Unauthorized))
	assert.Equal(t, "bad signature", err.Error())
}

func TestWrapPreservesCauseAndUnwrap(t *testing.T) {
	cause := errors.New("connection refused")
	err := Wrap(Unavailable, "notary unreachable", cause)

	assert.True(t, Is(err, Unavailable))
	assert.Equal(t, "notary unreachable: connection refused", err.Error())
	assert.ErrorIs(t, err, cause)
}

func TestIsDoesNotMatchUnrelatedKind(t *testing.T) {
	err := New(RateLimited, "too many envelopes")
	for _, kind := range []Kind{InvalidInput, Unauthorized, Replay, Expired, Unavailable, Conflict, NotFound, FatalConfig} {
		assert.False(t, Is(err, kind))
	}
	assert.True(t, Is(err, RateLimited))
}

func TestWrapChainUnwrapsToRootCause(t *testing.T) {
	root := errors.New("disk full")
	mid := Wrap(Unavailable, "flush failed", root)
	outer := fmt.Errorf("persist: %w", mid)

	assert.ErrorIs(t, outer, root)
	assert.True(t, Is(outer, Unavailable))
}

func TestAllKindsAreDistinct(t *testing.T) {
	kinds := []Kind{InvalidInput, Unauthorized, Replay, Expired, RateLimited, Unavailable, Conflict, NotFound, FatalConfig}
	for i, a := range kinds {
		for j, b := range kinds {
			if i == j {
				continue
			}
			assert.NotErrorIs(t, error(a), b)
		}
	}
}
