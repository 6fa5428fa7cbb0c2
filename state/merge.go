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

// Merge folds remote's records into d. Posts are inserted if absent (not
// overwritten — a post's content is otherwise immutable); trust signals,
// reactions, and retractions are compacted with the total orders in
// compact.go; decay is never lost, even if only one side observed it;
// the profile is merged field-by-field.
//
// Partial post-merge states are never exposed: remote is copied under its
// read lock first, then d's write lock is held for the whole fold into d,
// so readers of d either see the pre-merge or fully-merged document,
// never something in between.
func (d *Document) Merge(remote *Document) {
	remote.mu.RLock()
	remotePosts := make([]Post, 0, len(remote.posts))
	for _, p := range remote.posts {
		remotePosts = append(remotePosts, p)
	}
	remoteTrust := make([]TrustSignal, 0, len(remote.trust))
	for _, s := range remote.trust {
		remoteTrust = append(remoteTrust, s)
	}
	remoteEncTrust := make([]EncryptedTrustSignal, 0, len(remote.encTrust))
	for _, s := range remote.encTrust {
		remoteEncTrust = append(remoteEncTrust, s)
	}
	remoteReactions := make([]Reaction, 0, len(remote.reactions))
	for _, r := range remote.reactions {
		remoteReactions = append(remoteReactions, r)
	}
	remoteRetractions := make([]Retraction, 0, len(remote.retractions))
	for _, r := range remote.retractions {
		remoteRetractions = append(remoteRetractions, r)
	}
	remoteProfile := remote.profile
	remote.mu.RUnlock()

	d.mu.Lock()
	defer d.mu.Unlock()

	// (a) snapshot locally-decayed posts before merging.
	preMergeDecay := make(map[string]int64, len(d.posts))
	for id, p := range d.posts {
		if p.DecayedAtMs != nil {
			preMergeDecay[id] = *p.DecayedAtMs
		}
	}

	// (b) apply the CRDT merge: posts insert-if-absent, keyed collections
	// compact via their total order.
	for _, p := range remotePosts {
		if _, exists := d.posts[p.ID]; !exists {
			d.posts[p.ID] = p
		}
	}
	for _, s := range remoteTrust {
		key := s.Truster + ":" + s.Trustee
		if existing, ok := d.trust[key]; !ok || trustSignalWins(s, existing) {
			d.trust[key] = s
		}
	}
	for _, s := range remoteEncTrust {
		key := s.Truster + ":" + string(s.TrusteeCommitment)
		if existing, ok := d.encTrust[key]; !ok || s.TimestampMs > existing.TimestampMs {
			d.encTrust[key] = s
		}
	}
	for _, r := range remoteReactions {
		if existing, ok := d.reactions[r.Key()]; !ok || reactionWins(r, existing) {
			d.reactions[r.Key()] = r
		}
	}
	for _, r := range remoteRetractions {
		if existing, ok := d.retractions[r.PostID]; !ok || retractionWins(r, existing) {
			d.retractions[r.PostID] = r
		}
	}

	if remoteProfile.DisplayName.TimestampMs > d.profile.DisplayName.TimestampMs {
		d.profile.DisplayName = remoteProfile.DisplayName
	}
	if remoteProfile.Bio.TimestampMs > d.profile.Bio.TimestampMs {
		d.profile.Bio = remoteProfile.Bio
	}
	for k, v := range remoteProfile.TrustSet {
		d.profile.TrustSet[k] = v
	}

	// (c) re-apply decay using the earliest observed decayedAt, from
	// either side, so decay is never lost across a merge.
	for id, localDecayedAt := range preMergeDecay {
		earliest := localDecayedAt
		if p, ok := d.posts[id]; ok && p.DecayedAtMs != nil && *p.DecayedAtMs < earliest {
			earliest = *p.DecayedAtMs
		}
		applyDecayAt(d, id, earliest)
	}
	for _, p := range remotePosts {
		if p.DecayedAtMs == nil {
			continue
		}
		earliest := *p.DecayedAtMs
		if local, ok := preMergeDecay[p.ID]; ok && local < earliest {
			earliest = local
		}
		applyDecayAt(d, p.ID, earliest)
	}
}

// applyDecayAt forces post id's decay fields to reflect decayedAtMs,
// regardless of whether it was already decayed at a later timestamp —
// the earliest observed decay always wins so merges never "undo" decay.
func applyDecayAt(d *Document, id string, decayedAtMs int64) {
	p, ok := d.posts[id]
	if !ok {
		return
	}
	p.Content = nil
	p.Media = nil
	p.DecayedAtMs = &decayedAtMs
	d.posts[id] = p
}
