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

import (
	"bytes"
	"encoding/gob"
	"fmt"
)

// snapshot is the exported, gob-encodable shape of a Document. The wire
// encoding is this module's own concern — there is no cross-language
// requirement for it, the same reasoning that leads the rest of the
// stack to use a plain internal byte envelope for opaque blobs rather
// than a third-party codec.
type snapshot struct {
	Profile     Profile
	Posts       map[string]Post
	Trust       map[string]TrustSignal
	EncTrust    map[string]EncryptedTrustSignal
	Reactions   map[string]Reaction
	Retractions map[string]Retraction
	LastSyncMs  int64
}

// ExportSync serializes the document for transmission to a peer.
func (d *Document) ExportSync() ([]byte, error) {
	d.mu.RLock()
	s := snapshot{
		Profile:     d.profile,
		Posts:       copyPosts(d.posts),
		Trust:       copyTrust(d.trust),
		EncTrust:    copyEncTrust(d.encTrust),
		Reactions:   copyReactions(d.reactions),
		Retractions: copyRetractions(d.retractions),
		LastSyncMs:  d.lastSyncMs,
	}
	d.mu.RUnlock()

	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(s); err != nil {
		return nil, fmt.Errorf("failed to encode document: %w", err)
	}
	return buf.Bytes(), nil
}

// ImportSync decodes data produced by ExportSync into a standalone
// Document, suitable for passing to Merge.
func ImportSync(data []byte) (*Document, error) {
	var s snapshot
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&s); err != nil {
		return nil, fmt.Errorf("failed to decode document: %w", err)
	}
	d := New(s.Profile.PublicKey)
	d.profile = s.Profile
	if d.profile.TrustSet == nil {
		d.profile.TrustSet = make(map[string]bool)
	}
	d.posts = s.Posts
	d.trust = s.Trust
	d.encTrust = s.EncTrust
	d.reactions = s.Reactions
	d.retractions = s.Retractions
	d.lastSyncMs = s.LastSyncMs
	return d, nil
}

func copyPosts(m map[string]Post) map[string]Post {
	out := make(map[string]Post, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func copyTrust(m map[string]TrustSignal) map[string]TrustSignal {
	out := make(map[string]TrustSignal, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func copyEncTrust(m map[string]EncryptedTrustSignal) map[string]EncryptedTrustSignal {
	out := make(map[string]EncryptedTrustSignal, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func copyReactions(m map[string]Reaction) map[string]Reaction {
	out := make(map[string]Reaction, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func copyRetractions(m map[string]Retraction) map[string]Retraction {
	out := make(map[string]Retraction, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
