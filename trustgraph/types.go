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

// Package trustgraph is the single source of truth for trust-edge
// topology: who trusts whom, by how much, and how many hops away that
// trust reaches.
package trustgraph

// UnknownDistance is the sentinel hop distance for a key with no known
// path from self, or one beyond the walked horizon.
const UnknownDistance = 999

// Signal is a trust edge's weight and lifecycle flags, as held by the
// graph (encryption/identity concerns live one layer up, in state).
type Signal struct {
	Weight    float64
	Revoked   bool
	Timestamp int64 // unix millis
}

// Path is one walk from self to a target key. OldestEdgeMs is the
// timestamp of the least-recently-issued signal along the path, the edge
// temporal decay is evaluated against (a path is only as fresh as its
// oldest link).
type Path struct {
	Hops         int
	Weight       float64
	OldestEdgeMs int64
}

// PersistCallback is invoked whenever a new edge is added, so a caller
// can mirror the adjacency list into durable storage.
type PersistCallback func(truster, trustee string, signal Signal)
