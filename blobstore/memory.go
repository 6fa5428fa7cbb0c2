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

// Package blobstore implements the BlobStore port: media attachments are
// addressed by a base58-encoded hash of their content, so two peers that
// gossip the same attachment always agree on its CID without exchanging
// anything but the hash.
package blobstore

import (
	"context"
	"crypto/sha256"
	"sync"
	"time"

	"github.com/clout-protocol/clout/ports"
	"github.com/mr-tron/base58"
)

type entry struct {
	data []byte
	meta ports.BlobMetadata
}

// MemoryStore implements ports.BlobStore with in-memory storage, keyed by
// CID.
type MemoryStore struct {
	mu    sync.RWMutex
	blobs map[string]entry
}

// NewMemoryStore creates an empty in-memory blob store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{blobs: make(map[string]entry)}
}

// CID derives a blob's content id: base58-encoded SHA-256 of its bytes.
func CID(data []byte) string {
	sum := sha256.Sum256(data)
	return base58.Encode(sum[:])
}

// Put stores data under its content-derived CID. Re-putting identical
// bytes is a no-op that returns the existing metadata.
func (s *MemoryStore) Put(ctx context.Context, data []byte, mime string, filename string) (ports.BlobMetadata, error) {
	cid := CID(data)

	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.blobs[cid]; ok {
		return existing.meta, nil
	}

	stored := make([]byte, len(data))
	copy(stored, data)

	meta := ports.BlobMetadata{
		CID:      cid,
		MIME:     mime,
		Size:     int64(len(data)),
		StoredAt: time.Now().UnixMilli(),
	}
	s.blobs[cid] = entry{data: stored, meta: meta}
	return meta, nil
}

// Get returns the stored bytes for cid, or ok=false if absent.
func (s *MemoryStore) Get(ctx context.Context, cid string) ([]byte, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.blobs[cid]
	if !ok {
		return nil, false, nil
	}
	out := make([]byte, len(e.data))
	copy(out, e.data)
	return out, true, nil
}

// Has reports whether cid is stored, without copying its bytes.
func (s *MemoryStore) Has(ctx context.Context, cid string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.blobs[cid]
	return ok, nil
}

// Delete removes cid. Deleting an absent CID is not an error.
func (s *MemoryStore) Delete(ctx context.Context, cid string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.blobs, cid)
	return nil
}

// List returns every stored CID, in no particular order.
func (s *MemoryStore) List(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	cids := make([]string, 0, len(s.blobs))
	for cid := range s.blobs {
		cids = append(cids, cid)
	}
	return cids, nil
}

var _ ports.BlobStore = (*MemoryStore)(nil)
