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

package blobstore

import (
	"context"
	"testing"

	"github.com/clout-protocol/clout/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCIDIsDeterministicAndContentAddressed(t *testing.T) {
	a := CID([]byte("hello"))
	b := CID([]byte("hello"))
	c := CID([]byte("world"))

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
}

func eachBackend(t *testing.T) map[string]ports.BlobStore {
	t.Helper()
	disk, err := NewDiskStore(t.TempDir())
	require.NoError(t, err)
	return map[string]ports.BlobStore{
		"memory": NewMemoryStore(),
		"disk":   disk,
	}
}

func TestBlobStorePutGetRoundTrip(t *testing.T) {
	for name, store := range eachBackend(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			meta, err := store.Put(ctx, []byte("payload"), "text/plain", "note.txt")
			require.NoError(t, err)
			assert.Equal(t, CID([]byte("payload")), meta.CID)
			assert.Equal(t, int64(len("payload")), meta.Size)

			data, ok, err := store.Get(ctx, meta.CID)
			require.NoError(t, err)
			require.True(t, ok)
			assert.Equal(t, []byte("payload"), data)
		})
	}
}

func TestBlobStoreGetMissingReturnsNotOK(t *testing.T) {
	for name, store := range eachBackend(t) {
		t.Run(name, func(t *testing.T) {
			_, ok, err := store.Get(context.Background(), "does-not-exist")
			require.NoError(t, err)
			assert.False(t, ok)
		})
	}
}

func TestBlobStorePutIsIdempotentForIdenticalContent(t *testing.T) {
	for name, store := range eachBackend(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			first, err := store.Put(ctx, []byte("dup"), "text/plain", "a.txt")
			require.NoError(t, err)
			second, err := store.Put(ctx, []byte("dup"), "text/plain", "b.txt")
			require.NoError(t, err)
			assert.Equal(t, first.CID, second.CID)
			assert.Equal(t, first.StoredAt, second.StoredAt, "re-putting must not refresh metadata")
		})
	}
}

func TestBlobStoreHasAndDelete(t *testing.T) {
	for name, store := range eachBackend(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			meta, err := store.Put(ctx, []byte("to-delete"), "text/plain", "c.txt")
			require.NoError(t, err)

			has, err := store.Has(ctx, meta.CID)
			require.NoError(t, err)
			assert.True(t, has)

			require.NoError(t, store.Delete(ctx, meta.CID))

			has, err = store.Has(ctx, meta.CID)
			require.NoError(t, err)
			assert.False(t, has)

			// Deleting an absent CID again is not an error.
			assert.NoError(t, store.Delete(ctx, meta.CID))
		})
	}
}

func TestBlobStoreListReturnsAllStoredCIDs(t *testing.T) {
	for name, store := range eachBackend(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			m1, err := store.Put(ctx, []byte("one"), "text/plain", "1.txt")
			require.NoError(t, err)
			m2, err := store.Put(ctx, []byte("two"), "text/plain", "2.txt")
			require.NoError(t, err)

			cids, err := store.List(ctx)
			require.NoError(t, err)
			assert.ElementsMatch(t, []string{m1.CID, m2.CID}, cids)
		})
	}
}
