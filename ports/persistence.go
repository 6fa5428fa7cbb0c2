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

package ports

import "context"

// Section names the key-structured document's top-level sections.
type Section string

const (
	SectionPosts         Section = "posts"
	SectionSlides        Section = "slides"
	SectionRetractions   Section = "retractions"
	SectionReactions     Section = "reactions"
	SectionBookmarks     Section = "bookmarks"
	SectionTickets       Section = "tickets"
	SectionTrustEdges    Section = "trust_edges"
	SectionNicknames     Section = "nicknames"
	SectionTags          Section = "tags"
	SectionMutes         Section = "mutes"
	SectionNotifications Section = "notifications"
)

// Persistence is a key-structured document store: every mutation is
// idempotent by id (re-applying the same Put is a no-op change), and
// the port itself must serialize writes against any given (section, id).
type Persistence interface {
	Put(ctx context.Context, section Section, id string, value []byte) error
	Get(ctx context.Context, section Section, id string) ([]byte, bool, error)
	Delete(ctx context.Context, section Section, id string) error
	List(ctx context.Context, section Section) ([]string, error)
	Ping(ctx context.Context) error
}
