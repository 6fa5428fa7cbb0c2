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

package ports

import "context"

// BlobMetadata describes a stored content-addressed blob.
type BlobMetadata struct {
	CID      string
	MIME     string
	Size     int64
	StoredAt int64
}

// BlobStore is a content-addressed blob store: put returns a CID derived
// from the content hash, and get/has/delete operate on that CID.
type BlobStore interface {
	Put(ctx context.Context, data []byte, mime string, filename string) (BlobMetadata, error)
	Get(ctx context.Context, cid string) ([]byte, bool, error)
	Has(ctx context.Context, cid string) (bool, error)
	Delete(ctx context.Context, cid string) error
	List(ctx context.Context) ([]string, error)
}
