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
	// TicketsIssued tracks access tickets issued by the token booth.
	TicketsIssued = promauto.With(Registry).NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "tokenbooth",
			Name:      "tickets_issued_total",
			Help:      "Total number of access tickets issued",
		},
		[]string{"type"}, // freebird, delegated
	)

	// TicketsRedeemed tracks ticket redemptions by outcome.
	TicketsRedeemed = promauto.With(Registry).NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "tokenbooth",
			Name:      "tickets_redeemed_total",
			Help:      "Total number of ticket redemption attempts",
		},
		[]string{"outcome"}, // accepted, expired, invalid
	)

	// SybilVerifications tracks federated sybil-resistance token
	// verifications by outcome.
	SybilVerifications = promauto.With(Registry).NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "tokenbooth",
			Name:      "sybil_verifications_total",
			Help:      "Total number of sybil-resistance token verifications",
		},
		[]string{"outcome"}, // valid, invalid
	)

	// DelegationsActive tracks the number of currently active delegations.
	DelegationsActive = promauto.With(Registry).NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "tokenbooth",
			Name:      "delegations_active",
			Help:      "Number of currently active ticket delegations",
		},
	)
)
