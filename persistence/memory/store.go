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

// Package memory implements the Persistence port with an in-memory,
// mutex-guarded map of maps. It is the default backend for a single-node
// deployment and the backend every persistence-dependent test runs
// against.
package memory

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/clout-protocol/clout/ports"
)

// Store implements ports.Persistence with in-memory storage, partitioned
// by section.
type Store struct {
	mu   sync.RWMutex
	data map[ports.Section]map[string][]byte
}

// NewStore creates an empty in-memory store.
func NewStore() *Store {
	return &Store{data: make(map[ports.Section]map[string][]byte)}
}

// Put writes value under (section, id), replacing any existing value.
func (s *Store) Put(ctx context.Context, section ports.Section, id string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	bucket, ok := s.data[section]
	if !ok {
		bucket = make(map[string][]byte)
		s.data[section] = bucket
	}
	stored := make([]byte, len(value))
	copy(stored, value)
	bucket[id] = stored
	return nil
}

// Get returns the value stored at (section, id), or ok=false if absent.
func (s *Store) Get(ctx context.Context, section ports.Section, id string) ([]byte, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	bucket, ok := s.data[section]
	if !ok {
		return nil, false, nil
	}
	value, ok := bucket[id]
	if !ok {
		return nil, false, nil
	}
	out := make([]byte, len(value))
	copy(out, value)
	return out, true, nil
}

// Delete removes (section, id). Deleting an absent key is not an error.
func (s *Store) Delete(ctx context.Context, section ports.Section, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if bucket, ok := s.data[section]; ok {
		delete(bucket, id)
	}
	return nil
}

// List returns every id stored in section, in no particular order.
func (s *Store) List(ctx context.Context, section ports.Section) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	bucket, ok := s.data[section]
	if !ok {
		return nil, nil
	}
	ids := make([]string, 0, len(bucket))
	for id := range bucket {
		ids = append(ids, id)
	}
	return ids, nil
}

// Ping always succeeds for the in-memory backend.
func (s *Store) Ping(ctx context.Context) error {
	return nil
}

// Clear removes all data. Useful for tests.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = make(map[ports.Section]map[string][]byte)
}

// DumpJSON serializes the whole store as the single JSON-shaped document
// the persisted state layout describes: one object keyed by section,
// each holding an id-to-value map with values base64-encoded by the
// standard []byte JSON marshaling. This is what the CLI's import/export
// commands and the on-disk single-node snapshot operate on.
func (s *Store) DumpJSON() ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return json.MarshalIndent(s.data, "", "  ")
}

// LoadJSON replaces the store's contents with a document previously
// produced by DumpJSON.
func (s *Store) LoadJSON(data []byte) error {
	decoded := make(map[ports.Section]map[string][]byte)
	if err := json.Unmarshal(data, &decoded); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = decoded
	return nil
}

var _ ports.Persistence = (*Store)(nil)
