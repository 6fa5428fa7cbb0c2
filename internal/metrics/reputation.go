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

package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// TrustEdgesUpdated tracks trust-graph edge insertions/updates.
	TrustEdgesUpdated = promauto.With(Registry).NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "reputation",
			Name:      "trust_edges_updated_total",
			Help:      "Total number of trust graph edges inserted or updated",
		},
		[]string{"op"}, // insert, revoke
	)

	// HopDistanceCacheLookups tracks hop-distance cache hit/miss counts.
	HopDistanceCacheLookups = promauto.With(Registry).NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "reputation",
			Name:      "hop_distance_cache_lookups_total",
			Help:      "Total number of hop-distance cache lookups",
		},
		[]string{"result"}, // hit, miss
	)

	// HopDistance tracks the distribution of resolved hop distances.
	HopDistance = promauto.With(Registry).NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "reputation",
			Name:      "hop_distance",
			Help:      "Resolved hop distance between peers",
			Buckets:   prometheus.LinearBuckets(0, 1, 9), // 0..8 hops
		},
	)

	// ScoreRecomputations tracks reputation score recalculation runs.
	ScoreRecomputations = promauto.With(Registry).NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "reputation",
			Name:      "score_recomputations_total",
			Help:      "Total number of reputation score recomputations",
		},
	)

	// ScoreRecomputationDuration tracks reputation recomputation latency.
	ScoreRecomputationDuration = promauto.With(Registry).NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "reputation",
			Name:      "score_recomputation_duration_seconds",
			Help:      "Reputation score recomputation duration in seconds",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 2, 15),
		},
	)

	// PostsAdmitted tracks posts evaluated for the visible feed by
	// admission outcome.
	PostsAdmitted = promauto.With(Registry).NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "reputation",
			Name:      "posts_admitted_total",
			Help:      "Total number of posts evaluated for feed admission",
		},
		[]string{"status"}, // admitted, invalid_attestation, too_old, below_threshold, beyond_horizon
	)
)
