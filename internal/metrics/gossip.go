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
	// EnvelopesReceived tracks gossip envelopes seen by the admission
	// pipeline, before any check runs.
	EnvelopesReceived = promauto.With(Registry).NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "gossip",
			Name:      "envelopes_received_total",
			Help:      "Total number of gossip envelopes received",
		},
		[]string{"kind"}, // post, endorsement, trust_edge, state_update
	)

	// EnvelopesRejected tracks envelopes the admission pipeline dropped,
	// by the reason it dropped them.
	EnvelopesRejected = promauto.With(Registry).NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "gossip",
			Name:      "envelopes_rejected_total",
			Help:      "Total number of gossip envelopes rejected",
		},
		[]string{"reason"}, // bad_signature, replay, rate_limited, horizon, expired
	)

	// ReplayAttacksDetected tracks nonces the replay guard rejected as
	// already-seen.
	ReplayAttacksDetected = promauto.With(Registry).NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "gossip",
			Name:      "replay_rejections_total",
			Help:      "Total number of gossip envelopes rejected as replays",
		},
	)

	// RateLimitDrops tracks envelopes rejected by the per-peer leaky
	// bucket.
	RateLimitDrops = promauto.With(Registry).NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "gossip",
			Name:      "rate_limit_drops_total",
			Help:      "Total number of envelopes dropped by per-peer rate limiting",
		},
		[]string{"peer"},
	)

	// PropagationFanout tracks how many peers each admitted envelope was
	// re-gossiped to.
	PropagationFanout = promauto.With(Registry).NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "gossip",
			Name:      "propagation_fanout",
			Help:      "Number of peers an admitted envelope was forwarded to",
			Buckets:   prometheus.LinearBuckets(0, 2, 10),
		},
	)

	// EnvelopeProcessingDuration tracks admission pipeline latency.
	EnvelopeProcessingDuration = promauto.With(Registry).NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "gossip",
			Name:      "processing_duration_seconds",
			Help:      "Envelope admission processing duration in seconds",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 2, 12), // 0.1ms to 204.8ms
		},
	)

	// EnvelopeSize tracks gossip envelope sizes.
	EnvelopeSize = promauto.With(Registry).NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "gossip",
			Name:      "envelope_size_bytes",
			Help:      "Gossip envelope size in bytes",
			Buckets:   prometheus.ExponentialBuckets(64, 4, 10), // 64B to 16MB
		},
	)
)
