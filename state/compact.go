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

package state

import "encoding/hex"

// For each logical key, at most one record is retained, chosen by a
// total order per keyed collection: trust signals by (attestation-
// timestamp, signature-hex); reactions by (attestation-timestamp,
// tombstone-priority, signature-hex); retractions by (deletedAt,
// attestation-timestamp, signature-hex).

func trustSignalWins(candidate, existing TrustSignal) bool {
	if candidate.TimestampMs != existing.TimestampMs {
		return candidate.TimestampMs > existing.TimestampMs
	}
	return hex.EncodeToString(candidate.Signature) > hex.EncodeToString(existing.Signature)
}

func reactionWins(candidate, existing Reaction) bool {
	if candidate.TimestampMs != existing.TimestampMs {
		return candidate.TimestampMs > existing.TimestampMs
	}
	// Tombstone priority: removed=true wins a timestamp tie.
	if candidate.Removed != existing.Removed {
		return candidate.Removed
	}
	return hex.EncodeToString(candidate.Signature) > hex.EncodeToString(existing.Signature)
}

func retractionWins(candidate, existing Retraction) bool {
	if candidate.DeletedAtMs != existing.DeletedAtMs {
		return candidate.DeletedAtMs > existing.DeletedAtMs
	}
	if candidate.TimestampMs != existing.TimestampMs {
		return candidate.TimestampMs > existing.TimestampMs
	}
	return hex.EncodeToString(candidate.Signature) > hex.EncodeToString(existing.Signature)
}
