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

package memory

import (
	"context"
	"testing"

	"github.com/clout-protocol/clout/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStorePutGetRoundTrip(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	require.NoError(t, s.Put(ctx, ports.SectionPosts, "p1", []byte("hello")))
	val, ok, err := s.Get(ctx, ports.SectionPosts, "p1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []byte("hello"), val)
}

func TestStoreGetMissingReturnsNotOK(t *testing.T) {
	s := NewStore()
	_, ok, err := s.Get(context.Background(), ports.SectionPosts, "missing")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestStorePutOverwritesExistingValue(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	require.NoError(t, s.Put(ctx, ports.SectionPosts, "p1", []byte("v1")))
	require.NoError(t, s.Put(ctx, ports.SectionPosts, "p1", []byte("v2")))

	val, _, err := s.Get(ctx, ports.SectionPosts, "p1")
	require.NoError(t, err)
	assert.Equal(t, []byte("v2"), val)
}

func TestStoreGetReturnsIndependentCopy(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	require.NoError(t, s.Put(ctx, ports.SectionPosts, "p1", []byte("hello")))

	val, _, _ := s.Get(ctx, ports.SectionPosts, "p1")
	val[0] = 'X'

	again, _, _ := s.Get(ctx, ports.SectionPosts, "p1")
	assert.Equal(t, []byte("hello"), again, "mutating a returned value must not affect the store")
}

func TestStoreDeleteIsIdempotent(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	require.NoError(t, s.Put(ctx, ports.SectionPosts, "p1", []byte("hello")))
	require.NoError(t, s.Delete(ctx, ports.SectionPosts, "p1"))

	_, ok, err := s.Get(ctx, ports.SectionPosts, "p1")
	require.NoError(t, err)
	assert.False(t, ok)

	assert.NoError(t, s.Delete(ctx, ports.SectionPosts, "p1"))
}

func TestStoreListReturnsAllIDsInSection(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	require.NoError(t, s.Put(ctx, ports.SectionPosts, "p1", []byte("a")))
	require.NoError(t, s.Put(ctx, ports.SectionPosts, "p2", []byte("b")))
	require.NoError(t, s.Put(ctx, ports.SectionTickets, "t1", []byte("c")))

	ids, err := s.List(ctx, ports.SectionPosts)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"p1", "p2"}, ids)
}

func TestStoreListOnEmptySectionReturnsNil(t *testing.T) {
	s := NewStore()
	ids, err := s.List(context.Background(), ports.SectionPosts)
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestStorePingAlwaysSucceeds(t *testing.T) {
	s := NewStore()
	assert.NoError(t, s.Ping(context.Background()))
}

func TestStoreClearRemovesEverything(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	require.NoError(t, s.Put(ctx, ports.SectionPosts, "p1", []byte("a")))
	s.Clear()

	ids, err := s.List(ctx, ports.SectionPosts)
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestDumpJSONAndLoadJSONRoundTrip(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	require.NoError(t, s.Put(ctx, ports.SectionPosts, "p1", []byte("hello")))
	require.NoError(t, s.Put(ctx, ports.SectionTrustEdges, "alice:bob", []byte(`{"weight":1}`)))

	raw, err := s.DumpJSON()
	require.NoError(t, err)

	restored := NewStore()
	require.NoError(t, restored.LoadJSON(raw))

	val, ok, err := restored.Get(ctx, ports.SectionPosts, "p1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []byte("hello"), val)

	val, ok, err = restored.Get(ctx, ports.SectionTrustEdges, "alice:bob")
	require.NoError(t, err)
	require.True(t, ok)
	assert.JSONEq(t, `{"weight":1}`, string(val))
}

func TestLoadJSONRejectsMalformedDocument(t *testing.T) {
	s := NewStore()
	assert.Error(t, s.LoadJSON([]byte("not json")))
}

func TestLoadJSONReplacesExistingContents(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	require.NoError(t, s.Put(ctx, ports.SectionPosts, "stale", []byte("x")))

	other := NewStore()
	require.NoError(t, other.Put(ctx, ports.SectionPosts, "fresh", []byte("y")))
	raw, err := other.DumpJSON()
	require.NoError(t, err)

	require.NoError(t, s.LoadJSON(raw))

	_, ok, _ := s.Get(ctx, ports.SectionPosts, "stale")
	assert.False(t, ok)
	_, ok, _ = s.Get(ctx, ports.SectionPosts, "fresh")
	assert.True(t, ok)
}

var _ ports.Persistence = (*Store)(nil)
