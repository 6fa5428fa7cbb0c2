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

// Package ports declares the external collaborators CLOUT's core depends
// on but does not implement itself: a timestamping witness, a
// sybil-resistant token issuer, durable persistence, content-addressed
// blob storage, and peer transport. Reference implementations live under
// notary/, sybil/, persistence/, blobstore/, and relay/.
package ports

import "context"

// Attestation is an opaque timestamping proof over a content hash.
type Attestation struct {
	Hash        [32]byte
	TimestampMs int64
	Signatures  [][]byte
	WitnessIDs  []string
}

// Notary witnesses content hashes and later verifies those attestations.
// Timestamps it returns in seconds are normalized to milliseconds at the
// boundary: any value above the sentinel threshold is assumed to already
// be milliseconds.
type Notary interface {
	Timestamp(ctx context.Context, hash [32]byte) (Attestation, error)
	Verify(ctx context.Context, attestation Attestation) (bool, error)
}

// NormalizeTimestamp converts a notary-supplied timestamp to
// milliseconds. Values below the sentinel are assumed to be seconds;
// values at or above it are assumed to already be milliseconds.
const secondsMillisSentinel = 10_000_000_000 // 2286-11-20 in seconds

func NormalizeTimestamp(ts int64) int64 {
	if ts < secondsMillisSentinel {
		return ts * 1000
	}
	return ts
}
