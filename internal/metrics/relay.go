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
	// RelayConnectionsActive tracks currently-connected relay clients.
	RelayConnectionsActive = promauto.With(Registry).NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "relay",
			Name:      "connections_active",
			Help:      "Number of currently active relay connections",
		},
	)

	// RelayAuthOutcomes tracks challenge/response authentication results.
	RelayAuthOutcomes = promauto.With(Registry).NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "relay",
			Name:      "auth_outcomes_total",
			Help:      "Total number of relay authentication attempts by outcome",
		},
		[]string{"outcome"}, // success, bad_signature, expired_challenge
	)

	// RelayFramesForwarded tracks signal/forward frames routed between
	// registered peers.
	RelayFramesForwarded = promauto.With(Registry).NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "relay",
			Name:      "frames_forwarded_total",
			Help:      "Total number of relay frames forwarded between peers",
		},
		[]string{"type"}, // signal, forward
	)

	// RelayDuplicatesDropped tracks forward frames dropped by the dedup
	// window.
	RelayDuplicatesDropped = promauto.With(Registry).NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "relay",
			Name:      "duplicates_dropped_total",
			Help:      "Total number of duplicate forward frames dropped",
		},
	)

	// RelayStaleDisconnects tracks connections closed by the idle sweep.
	RelayStaleDisconnects = promauto.With(Registry).NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "relay",
			Name:      "stale_disconnects_total",
			Help:      "Total number of connections closed for exceeding the idle timeout",
		},
	)
)
