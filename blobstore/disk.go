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
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/clout-protocol/clout/ports"
)

// DiskStore implements ports.BlobStore by writing each blob and its
// metadata sidecar to a directory, named by CID. A mutex serializes
// writes; reads pass straight through to the filesystem.
type DiskStore struct {
	mu  sync.Mutex
	dir string
}

// NewDiskStore creates a DiskStore rooted at dir, creating it if absent.
func NewDiskStore(dir string) (*DiskStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create blob directory: %w", err)
	}
	return &DiskStore{dir: dir}, nil
}

func (s *DiskStore) dataPath(cid string) string {
	return filepath.Join(s.dir, cid+".blob")
}

func (s *DiskStore) metaPath(cid string) string {
	return filepath.Join(s.dir, cid+".meta.json")
}

// Put stores data under its content-derived CID.
func (s *DiskStore) Put(ctx context.Context, data []byte, mime string, filename string) (ports.BlobMetadata, error) {
	cid := CID(data)

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := os.Stat(s.dataPath(cid)); err == nil {
		existing, readErr := s.readMeta(cid)
		if readErr == nil {
			return existing, nil
		}
	}

	if err := os.WriteFile(s.dataPath(cid), data, 0o644); err != nil {
		return ports.BlobMetadata{}, fmt.Errorf("failed to write blob %s: %w", cid, err)
	}

	meta := ports.BlobMetadata{
		CID:      cid,
		MIME:     mime,
		Size:     int64(len(data)),
		StoredAt: time.Now().UnixMilli(),
	}
	metaBytes, err := json.Marshal(meta)
	if err != nil {
		return ports.BlobMetadata{}, fmt.Errorf("failed to encode metadata for %s: %w", cid, err)
	}
	if err := os.WriteFile(s.metaPath(cid), metaBytes, 0o644); err != nil {
		return ports.BlobMetadata{}, fmt.Errorf("failed to write metadata for %s: %w", cid, err)
	}
	return meta, nil
}

func (s *DiskStore) readMeta(cid string) (ports.BlobMetadata, error) {
	raw, err := os.ReadFile(s.metaPath(cid))
	if err != nil {
		return ports.BlobMetadata{}, err
	}
	var meta ports.BlobMetadata
	if err := json.Unmarshal(raw, &meta); err != nil {
		return ports.BlobMetadata{}, err
	}
	return meta, nil
}

// Get returns the stored bytes for cid, or ok=false if absent.
func (s *DiskStore) Get(ctx context.Context, cid string) ([]byte, bool, error) {
	data, err := os.ReadFile(s.dataPath(cid))
	if errors.Is(err, os.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read blob %s: %w", cid, err)
	}
	return data, true, nil
}

// Has reports whether cid is stored.
func (s *DiskStore) Has(ctx context.Context, cid string) (bool, error) {
	_, err := os.Stat(s.dataPath(cid))
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	return err == nil, err
}

// Delete removes cid's data and metadata. Deleting an absent CID is not
// an error.
func (s *DiskStore) Delete(ctx context.Context, cid string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.dataPath(cid)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to delete blob %s: %w", cid, err)
	}
	if err := os.Remove(s.metaPath(cid)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to delete metadata for %s: %w", cid, err)
	}
	return nil
}

// List returns every CID with data stored under the store's directory.
func (s *DiskStore) List(ctx context.Context) ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list blob directory: %w", err)
	}

	var cids []string
	for _, e := range entries {
		name := e.Name()
		const suffix = ".blob"
		if len(name) > len(suffix) && name[len(name)-len(suffix):] == suffix {
			cids = append(cids, name[:len(name)-len(suffix)])
		}
	}
	return cids, nil
}

var _ ports.BlobStore = (*DiskStore)(nil)
