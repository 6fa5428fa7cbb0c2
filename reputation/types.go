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

// Package reputation scores how much a key should be trusted given the
// paths the trust graph can find to it, and gates post admission on
// that score.
package reputation

// Score is the outcome of Engine.Score for a given key.
type Score struct {
	Distance  int
	Score     float64
	PathCount int
	Visible   bool
}

// TrustSettings are the effective admission thresholds for a request,
// either global defaults or a content-type-specific override.
type TrustSettings struct {
	MaxHops       int
	MinReputation float64
}

// Post is the minimal surface the reputation engine needs to validate
// admission: the author, content type and timestamp of a post.
type Post struct {
	Author      string
	ContentType string
	TimestampMs int64
}

// Decision is the structured, never-throwing result of ValidatePost.
type Decision struct {
	Valid      bool
	Reputation Score
	Reason     string
}
