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
	"math"
	"sync"

	"github.com/clout-protocol/clout/internal/metrics"
)

// Graph wraps an adjacency list of trust edges with a mutex, the same
// resolve-and-cache shape an identity registry uses for remote lookups,
// generalized here to a hop-distance cache instead of a DID document
// cache. Resolution is in-process; there is no network round trip.
type Graph struct {
	mu sync.RWMutex

	self string

	// adjacency[truster][trustee] = signal
	adjacency map[string]map[string]Signal

	directTrust map[string]bool
	distance    map[string]int // trustee -> cached hop distance

	maxHops int
	persist PersistCallback
}

// New creates a trust graph rooted at self (the local identity's public
// key hex), with the given maximum walked hop distance.
func New(self string, maxHops int, persist PersistCallback) *Graph {
	if maxHops <= 0 {
		maxHops = 1
	}
	return &Graph{
		self:        self,
		adjacency:   make(map[string]map[string]Signal),
		directTrust: make(map[string]bool),
		distance:    make(map[string]int),
		maxHops:     maxHops,
		persist:     persist,
	}
}

// HopDistance returns 0 for self, 1 for the direct-trust set, the cached
// integer for further-reachable keys, or UnknownDistance otherwise.
func (g *Graph) HopDistance(key string) int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	d := g.hopDistanceLocked(key)
	if _, cached := g.distance[key]; cached || key == g.self || g.directTrust[key] {
		metrics.HopDistanceCacheLookups.WithLabelValues("hit").Inc()
	} else {
		metrics.HopDistanceCacheLookups.WithLabelValues("miss").Inc()
	}
	return d
}

func (g *Graph) hopDistanceLocked(key string) int {
	if key == g.self {
		return 0
	}
	if g.directTrust[key] {
		return 1
	}
	if d, ok := g.distance[key]; ok {
		return d
	}
	return UnknownDistance
}

// IsWithinHorizon reports whether key's hop distance is within maxHops.
func (g *Graph) IsWithinHorizon(key string) bool {
	return g.HopDistance(key) <= g.maxHops
}

// AddEdge incrementally extends the adjacency list. A revoked signal
// drops the edge entirely. New edges propagate cached hop distances
// outward from the truster while distance stays under maxHops.
func (g *Graph) AddEdge(truster, trustee string, signal Signal) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if signal.Revoked {
		if edges, ok := g.adjacency[truster]; ok {
			delete(edges, trustee)
		}
		metrics.TrustEdgesUpdated.WithLabelValues("revoke").Inc()
		return
	}

	edges, ok := g.adjacency[truster]
	if !ok {
		edges = make(map[string]Signal)
		g.adjacency[truster] = edges
	}
	edges[trustee] = signal
	metrics.TrustEdgesUpdated.WithLabelValues("insert").Inc()

	if g.persist != nil {
		g.persist(truster, trustee, signal)
	}

	trusterDist := g.hopDistanceLocked(truster)
	if trusterDist >= g.maxHops {
		return
	}
	g.propagateDistance(trustee, trusterDist+1)
}

// propagateDistance updates trustee's cached distance to min(current, d)
// and recurses over its neighbors while d stays under maxHops. No global
// visited set is used: this is a cache update, not a path enumeration,
// and cycles simply stop making progress once d stops decreasing.
func (g *Graph) propagateDistance(key string, d int) {
	if key == g.self || g.directTrust[key] {
		return
	}
	current, known := g.distance[key]
	if known && current <= d {
		return
	}
	g.distance[key] = d
	if d >= g.maxHops {
		return
	}
	for neighbor := range g.adjacency[key] {
		g.propagateDistance(neighbor, d+1)
	}
}

// UpdateDirectTrust resets the distance-1 set and reseeds the cache,
// then rewalks every known edge from the new direct-trust frontier.
func (g *Graph) UpdateDirectTrust(keys []string) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.directTrust = make(map[string]bool, len(keys))
	g.distance = make(map[string]int)
	for _, k := range keys {
		g.directTrust[k] = true
	}
	for _, k := range keys {
		for neighbor := range g.adjacency[k] {
			g.propagateDistance(neighbor, 2)
		}
	}
}

// FindTrustPaths walks from self out to depthLimit hops and returns every
// (hops, weight) pair reaching target, where weight is the product of
// edge weights along that path. Cycle detection is per-path (a visited
// set local to the current walk), not global, so distinct paths through
// a shared intermediate node are never pruned.
func (g *Graph) FindTrustPaths(target string, depthLimit int) []Path {
	g.mu.RLock()
	defer g.mu.RUnlock()

	if target == g.self {
		return []Path{{Hops: 0, Weight: 1}}
	}

	var paths []Path
	visited := map[string]bool{g.self: true}
	g.walk(g.self, target, 1, depthLimit, 1.0, math.MaxInt64, visited, &paths)
	return paths
}

func (g *Graph) walk(from, target string, hop, depthLimit int, weight float64, oldestEdgeMs int64, visited map[string]bool, out *[]Path) {
	if hop > depthLimit {
		return
	}
	for trustee, signal := range g.adjacency[from] {
		if visited[trustee] {
			continue
		}
		edgeWeight := signal.Weight
		if edgeWeight == 0 {
			edgeWeight = 1.0
		}
		pathWeight := weight * edgeWeight
		oldest := oldestEdgeMs
		if signal.Timestamp < oldest {
			oldest = signal.Timestamp
		}
		if trustee == target {
			*out = append(*out, Path{Hops: hop, Weight: pathWeight, OldestEdgeMs: oldest})
		}
		visited[trustee] = true
		g.walk(trustee, target, hop+1, depthLimit, pathWeight, oldest, visited, out)
		delete(visited, trustee)
	}
}

// GetDirectTrust returns the current direct-trust set.
func (g *Graph) GetDirectTrust() []string {
	g.mu.RLock()
	defer g.mu.RUnlock()
	out := make([]string, 0, len(g.directTrust))
	for k := range g.directTrust {
		out = append(out, k)
	}
	return out
}

// GetNeighbors returns the trustees truster has signaled trust toward.
func (g *Graph) GetNeighbors(truster string) []string {
	g.mu.RLock()
	defer g.mu.RUnlock()
	edges := g.adjacency[truster]
	out := make([]string, 0, len(edges))
	for trustee := range edges {
		out = append(out, trustee)
	}
	return out
}

// GetTrustSignal returns the signal for (truster, trustee), if any.
func (g *Graph) GetTrustSignal(truster, trustee string) (Signal, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	edges, ok := g.adjacency[truster]
	if !ok {
		return Signal{}, false
	}
	signal, ok := edges[trustee]
	return signal, ok
}

// AllTrustSignals describes one adjacency entry for export.
type AllTrustSignals struct {
	Truster string
	Trustee string
	Signal  Signal
}

// GetAllTrustSignals returns every currently-held edge.
func (g *Graph) GetAllTrustSignals() []AllTrustSignals {
	g.mu.RLock()
	defer g.mu.RUnlock()
	var out []AllTrustSignals
	for truster, edges := range g.adjacency {
		for trustee, signal := range edges {
			out = append(out, AllTrustSignals{Truster: truster, Trustee: trustee, Signal: signal})
		}
	}
	return out
}

// ExportAdjacencyList returns a copy of the full adjacency map.
func (g *Graph) ExportAdjacencyList() map[string]map[string]Signal {
	g.mu.RLock()
	defer g.mu.RUnlock()
	out := make(map[string]map[string]Signal, len(g.adjacency))
	for truster, edges := range g.adjacency {
		copied := make(map[string]Signal, len(edges))
		for trustee, signal := range edges {
			copied[trustee] = signal
		}
		out[truster] = copied
	}
	return out
}

// MaxHops returns the configured maximum walked hop distance.
func (g *Graph) MaxHops() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.maxHops
}
