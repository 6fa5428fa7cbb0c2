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

package trustgraph

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHopDistanceSelfAndDirectTrust(t *testing.T) {
	g := New("alice", 3, nil)
	g.UpdateDirectTrust([]string{"bob"})

	assert.Equal(t, 0, g.HopDistance("alice"))
	assert.Equal(t, 1, g.HopDistance("bob"))
	assert.Equal(t, UnknownDistance, g.HopDistance("carol"))
}

func TestAddEdgePropagatesDistanceFromDirectTrust(t *testing.T) {
	g := New("alice", 3, nil)
	g.UpdateDirectTrust([]string{"bob"})
	g.AddEdge("bob", "carol", Signal{Weight: 1.0, Timestamp: 100})

	assert.Equal(t, 2, g.HopDistance("carol"))
	assert.True(t, g.IsWithinHorizon("carol"))
}

func TestAddEdgeDoesNotPropagateBeyondMaxHops(t *testing.T) {
	g := New("alice", 1, nil)
	g.UpdateDirectTrust([]string{"bob"})
	g.AddEdge("bob", "carol", Signal{Weight: 1.0, Timestamp: 100})

	// maxHops=1 means bob (direct trust distance 1) is already at the
	// horizon, so carol should never gain a cached distance.
	assert.Equal(t, UnknownDistance, g.HopDistance("carol"))
	assert.False(t, g.IsWithinHorizon("carol"))
}

func TestRevokedSignalRemovesEdge(t *testing.T) {
	g := New("alice", 3, nil)
	g.AddEdge("alice", "bob", Signal{Weight: 1.0, Timestamp: 100})
	_, ok := g.GetTrustSignal("alice", "bob")
	assert.True(t, ok)

	g.AddEdge("alice", "bob", Signal{Revoked: true, Timestamp: 200})
	_, ok = g.GetTrustSignal("alice", "bob")
	assert.False(t, ok)
}

func TestPropagateDistanceKeepsMinimum(t *testing.T) {
	g := New("alice", 5, nil)
	g.UpdateDirectTrust([]string{"bob", "dave"})
	// Longer path through bob.
	g.AddEdge("bob", "eve", Signal{Weight: 1.0, Timestamp: 100})
	g.AddEdge("eve", "carol", Signal{Weight: 1.0, Timestamp: 100})
	// Shorter path directly from dave.
	g.AddEdge("dave", "carol", Signal{Weight: 1.0, Timestamp: 100})

	assert.Equal(t, 2, g.HopDistance("carol"))
}

func TestFindTrustPathsReturnsSelfPath(t *testing.T) {
	g := New("alice", 3, nil)
	paths := g.FindTrustPaths("alice", 3)
	assert := assert.New(t)
	assert.Len(paths, 1)
	assert.Equal(0, paths[0].Hops)
	assert.Equal(1.0, paths[0].Weight)
}

func TestFindTrustPathsWalksMultipleRoutes(t *testing.T) {
	g := New("alice", 3, nil)
	g.AddEdge("alice", "bob", Signal{Weight: 0.8, Timestamp: 100})
	g.AddEdge("bob", "carol", Signal{Weight: 0.5, Timestamp: 100})
	g.AddEdge("alice", "carol", Signal{Weight: 0.9, Timestamp: 200})

	paths := g.FindTrustPaths("carol", 3)
	assert.Len(t, paths, 2)

	var sawDirect, sawIndirect bool
	for _, p := range paths {
		if p.Hops == 1 {
			sawDirect = true
			assert.InDelta(t, 0.9, p.Weight, 1e-9)
		}
		if p.Hops == 2 {
			sawIndirect = true
			assert.InDelta(t, 0.4, p.Weight, 1e-9)
		}
	}
	assert.True(t, sawDirect)
	assert.True(t, sawIndirect)
}

func TestFindTrustPathsRespectsDepthLimit(t *testing.T) {
	g := New("alice", 5, nil)
	g.AddEdge("alice", "bob", Signal{Weight: 1.0, Timestamp: 100})
	g.AddEdge("bob", "carol", Signal{Weight: 1.0, Timestamp: 100})

	paths := g.FindTrustPaths("carol", 1)
	assert.Empty(t, paths)

	paths = g.FindTrustPaths("carol", 2)
	assert.Len(t, paths, 1)
}

func TestGetNeighborsAndDirectTrust(t *testing.T) {
	g := New("alice", 3, nil)
	g.UpdateDirectTrust([]string{"bob", "carol"})
	g.AddEdge("bob", "dave", Signal{Weight: 1.0, Timestamp: 100})

	direct := g.GetDirectTrust()
	assert.ElementsMatch(t, []string{"bob", "carol"}, direct)

	neighbors := g.GetNeighbors("bob")
	assert.ElementsMatch(t, []string{"dave"}, neighbors)
}

func TestPersistCallbackInvokedOnAddEdge(t *testing.T) {
	var calls []string
	g := New("alice", 3, func(truster, trustee string, signal Signal) {
		calls = append(calls, truster+"->"+trustee)
	})
	g.AddEdge("alice", "bob", Signal{Weight: 1.0, Timestamp: 100})
	assert.Equal(t, []string{"alice->bob"}, calls)

	// Revocations should not invoke the persist callback (they delete,
	// a caller persists deletion separately if it needs to).
	g.AddEdge("alice", "bob", Signal{Revoked: true, Timestamp: 200})
	assert.Equal(t, []string{"alice->bob"}, calls)
}

func TestExportAdjacencyListIsIndependentCopy(t *testing.T) {
	g := New("alice", 3, nil)
	g.AddEdge("alice", "bob", Signal{Weight: 1.0, Timestamp: 100})

	snapshot := g.ExportAdjacencyList()
	snapshot["alice"]["mallory"] = Signal{Weight: 1.0}

	_, ok := g.GetTrustSignal("alice", "mallory")
	assert.False(t, ok, "mutating the exported snapshot must not affect the graph")
}

func TestMaxHopsFloorsAtOne(t *testing.T) {
	g := New("alice", 0, nil)
	assert.Equal(t, 1, g.MaxHops())

	g = New("alice", -5, nil)
	assert.Equal(t, 1, g.MaxHops())
}
