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

package reputation

import (
	"math"
	"time"

	"github.com/clout-protocol/clout/internal/metrics"
	"github.com/clout-protocol/clout/trustgraph"
)

const maxPostAgeMs int64 = 365 * 24 * 3600 * 1000

// baseWeight is indexed by hop count; anything beyond index 3 is zero.
var baseWeight = [...]float64{1.0, 0.9, 0.6, 0.3}

// Attestor verifies an opaque notary attestation bound to content bytes.
// Narrowed from the full notary port to exactly what validatePost needs.
type Attestor interface {
	Verify(attestation []byte, contentHash [32]byte) bool
}

// Engine computes reputation scores from a trust graph and gates post
// admission on them. It never panics or returns a Go error: every
// outcome is expressed in the Decision/Score result values.
type Engine struct {
	graph          *trustgraph.Graph
	notary         Attestor
	defaults       TrustSettings
	contentTypeCfg map[string]TrustSettings
	halfLifeDays   float64
}

// Config configures an Engine.
type Config struct {
	Defaults       TrustSettings
	ContentTypeCfg map[string]TrustSettings
	HalfLifeDays   float64 // temporal decay half-life; 0 disables decay
}

// New creates a reputation engine over graph.
func New(graph *trustgraph.Graph, notary Attestor, cfg Config) *Engine {
	return &Engine{
		graph:          graph,
		notary:         notary,
		defaults:       cfg.Defaults,
		contentTypeCfg: cfg.ContentTypeCfg,
		halfLifeDays:   cfg.HalfLifeDays,
	}
}

// Score computes the reputation score for key as of now.
func (e *Engine) Score(key string) Score {
	return e.scoreAt(key, time.Now())
}

func (e *Engine) scoreAt(key string, now time.Time) Score {
	start := time.Now()
	defer func() {
		metrics.ScoreRecomputations.Inc()
		metrics.ScoreRecomputationDuration.Observe(time.Since(start).Seconds())
	}()

	distance := e.graph.HopDistance(key)
	metrics.HopDistance.Observe(float64(distance))
	maxHops := e.graph.MaxHops()

	if distance == 0 {
		return Score{Distance: 0, Score: 1.0, PathCount: 0, Visible: true}
	}

	paths := e.graph.FindTrustPaths(key, maxHops)
	if len(paths) == 0 {
		return Score{Distance: trustgraph.UnknownDistance, Score: 0, PathCount: 0, Visible: distance <= maxHops}
	}

	best := -1.0
	bestHops := math.MaxInt32
	for _, p := range paths {
		w := e.pathWeight(p, now)
		if w > best || (w == best && p.Hops < bestHops) {
			best = w
			bestHops = p.Hops
		}
	}

	diversity := math.Min(float64(len(paths))*0.05, 0.2)
	score := math.Min(best+diversity, 1.0)

	return Score{
		Distance:  distance,
		Score:     score,
		PathCount: len(paths),
		Visible:   distance <= maxHops,
	}
}

// pathWeight computes base[hops] * edgeWeightProduct * temporalDecay(oldest
// edge). Decay applies once, to the path's oldest edge, not multiplicatively
// per edge: a path is only as fresh as its weakest link.
func (e *Engine) pathWeight(p trustgraph.Path, now time.Time) float64 {
	base := 0.0
	if p.Hops >= 0 && p.Hops < len(baseWeight) {
		base = baseWeight[p.Hops]
	}
	decay := temporalDecay(p.OldestEdgeMs, now.UnixMilli(), e.halfLifeDays)
	return base * p.Weight * decay
}

func temporalDecay(oldestEdgeMs int64, nowMs int64, halfLifeDays float64) float64 {
	if halfLifeDays <= 0 {
		return 1.0
	}
	nowDays := float64(nowMs) / (24 * 3600 * 1000)
	tDays := float64(oldestEdgeMs) / (24 * 3600 * 1000)
	return math.Pow(0.5, (nowDays-tDays)/halfLifeDays)
}

// ValidatePost runs the full admission pipeline for post, given its
// content hash (for attestation verification) and notary attestation
// bytes. It never throws: every rejection is a Decision with Valid=false
// and a Reason.
func (e *Engine) ValidatePost(post Post, contentHash [32]byte, attestation []byte) Decision {
	if e.notary != nil && !e.notary.Verify(attestation, contentHash) {
		metrics.PostsAdmitted.WithLabelValues("invalid_attestation").Inc()
		return Decision{Valid: false, Reason: "invalid notary attestation"}
	}

	age := time.Now().UnixMilli() - post.TimestampMs
	if age > maxPostAgeMs {
		metrics.PostsAdmitted.WithLabelValues("too_old").Inc()
		return Decision{Valid: false, Reason: "post exceeds maximum age"}
	}

	settings := e.defaults
	if override, ok := e.contentTypeCfg[post.ContentType]; ok {
		settings = override
	}

	score := e.Score(post.Author)
	if score.Score < settings.MinReputation {
		metrics.PostsAdmitted.WithLabelValues("below_threshold").Inc()
		return Decision{Valid: false, Reputation: score, Reason: "reputation below minimum"}
	}
	if score.Distance > settings.MaxHops {
		metrics.PostsAdmitted.WithLabelValues("beyond_horizon").Inc()
		return Decision{Valid: false, Reputation: score, Reason: "author beyond trust horizon"}
	}

	metrics.PostsAdmitted.WithLabelValues("admitted").Inc()
	return Decision{Valid: true, Reputation: score}
}
