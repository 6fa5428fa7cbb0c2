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
	"sync"
	"time"
)

// Document is the per-identity replicated state: a mutex-guarded set of
// maps, mutated only through the methods below and read back as deep
// copies so external callers can never mutate internal state directly.
type Document struct {
	mu sync.RWMutex

	profile Profile

	posts       map[string]Post
	trust       map[string]TrustSignal // key: truster:trustee
	encTrust    map[string]EncryptedTrustSignal
	reactions   map[string]Reaction // key: Reaction.Key()
	retractions map[string]Retraction

	lastSyncMs int64
}

// New creates an empty document for the given owning public key.
func New(owner string) *Document {
	return &Document{
		profile: Profile{
			PublicKey: owner,
			TrustSet:  make(map[string]bool),
		},
		posts:       make(map[string]Post),
		trust:       make(map[string]TrustSignal),
		encTrust:    make(map[string]EncryptedTrustSignal),
		reactions:   make(map[string]Reaction),
		retractions: make(map[string]Retraction),
	}
}

// AddPost inserts p if no post with the same id already exists.
func (d *Document) AddPost(p Post) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, exists := d.posts[p.ID]; exists {
		return false
	}
	d.posts[p.ID] = p
	return true
}

// GetPost returns a copy of the post with the given id.
func (d *Document) GetPost(id string) (Post, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	p, ok := d.posts[id]
	return p, ok
}

// AllPosts returns a copy of every post currently held.
func (d *Document) AllPosts() []Post {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make([]Post, 0, len(d.posts))
	for _, p := range d.posts {
		out = append(out, p)
	}
	return out
}

// AddTrustSignal keeps the signal with the larger attestation timestamp
// for (truster, trustee); ties break on signature-hex order.
func (d *Document) AddTrustSignal(s TrustSignal) {
	d.mu.Lock()
	defer d.mu.Unlock()
	key := s.Truster + ":" + s.Trustee
	existing, ok := d.trust[key]
	if !ok || trustSignalWins(s, existing) {
		d.trust[key] = s
	}
}

// AddEncryptedTrustSignal records an encrypted edge, keyed on (truster,
// trusteeCommitment) since the trustee identity is not known to us.
func (d *Document) AddEncryptedTrustSignal(s EncryptedTrustSignal) {
	d.mu.Lock()
	defer d.mu.Unlock()
	key := s.Truster + ":" + string(s.TrusteeCommitment)
	existing, ok := d.encTrust[key]
	if !ok || s.TimestampMs > existing.TimestampMs {
		d.encTrust[key] = s
	}
}

// GetTrustSignal returns the plaintext signal for (truster, trustee).
func (d *Document) GetTrustSignal(truster, trustee string) (TrustSignal, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	s, ok := d.trust[truster+":"+trustee]
	return s, ok
}

// AddReaction applies LWW-by-timestamp with removed=true winning ties,
// then signature-hex as the final tiebreak.
func (d *Document) AddReaction(r Reaction) {
	d.mu.Lock()
	defer d.mu.Unlock()
	key := r.Key()
	existing, ok := d.reactions[key]
	if !ok || reactionWins(r, existing) {
		d.reactions[key] = r
	}
}

// AddRetraction applies LWW by (deletedAt, attestation timestamp), then
// signature-hex.
func (d *Document) AddRetraction(r Retraction) {
	d.mu.Lock()
	defer d.mu.Unlock()
	existing, ok := d.retractions[r.PostID]
	if !ok || retractionWins(r, existing) {
		d.retractions[r.PostID] = r
	}
}

// UpdateProfile merges p field-by-field: each of DisplayName/Bio keeps
// whichever write has the later timestamp, Settings is replaced
// wholesale, and p's TrustSet entries are added to the existing set
// (entries absent from p are kept; the trust graph, not this struct, is
// authoritative for edges).
func (d *Document) UpdateProfile(p Profile) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if p.DisplayName.TimestampMs > d.profile.DisplayName.TimestampMs {
		d.profile.DisplayName = p.DisplayName
	}
	if p.Bio.TimestampMs > d.profile.Bio.TimestampMs {
		d.profile.Bio = p.Bio
	}
	d.profile.Settings = p.Settings
	for k, v := range p.TrustSet {
		d.profile.TrustSet[k] = v
	}
}

// Profile returns a snapshot copy of the profile.
func (d *Document) Profile() Profile {
	d.mu.RLock()
	defer d.mu.RUnlock()
	trustSet := make(map[string]bool, len(d.profile.TrustSet))
	for k, v := range d.profile.TrustSet {
		trustSet[k] = v
	}
	p := d.profile
	p.TrustSet = trustSet
	return p
}

// DecayPost nulls out content and media for postId and sets decayedAt if
// unset. Idempotent: calling it again on an already-decayed post is a
// no-op.
func (d *Document) DecayPost(postID string, nowMs int64) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.decayPostLocked(postID, nowMs)
}

func (d *Document) decayPostLocked(postID string, nowMs int64) {
	p, ok := d.posts[postID]
	if !ok || p.DecayedAtMs != nil {
		return
	}
	p.Content = nil
	p.Media = nil
	ts := nowMs
	p.DecayedAtMs = &ts
	d.posts[postID] = p
}

// ProcessContentDecay scans own posts and decays any undecayed post older
// than the normal or retracted threshold.
func (d *Document) ProcessContentDecay(policy DecayPolicy) {
	d.mu.Lock()
	defer d.mu.Unlock()
	now := time.Now().UnixMilli()
	for id, p := range d.posts {
		if p.DecayedAtMs != nil {
			continue
		}
		threshold := policy.NormalThresholdMs
		if _, retracted := d.retractions[id]; retracted {
			threshold = policy.RetractedThresholdMs
		}
		if threshold > 0 && now-p.TimestampMs > threshold {
			d.decayPostLocked(id, now)
		}
	}
}

// LastSync returns the last-sync timestamp recorded for this document.
func (d *Document) LastSync() int64 {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.lastSyncMs
}

// SetLastSync records the last-sync timestamp.
func (d *Document) SetLastSync(ms int64) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.lastSyncMs = ms
}
