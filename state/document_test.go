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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func textPost(id, author string, ts int64) Post {
	content := "hello"
	return Post{ID: id, Author: author, Content: &content, TimestampMs: ts}
}

func TestAddPostRejectsDuplicateID(t *testing.T) {
	d := New("alice")
	assert.True(t, d.AddPost(textPost("p1", "alice", 100)))
	assert.False(t, d.AddPost(textPost("p1", "alice", 200)))

	p, ok := d.GetPost("p1")
	require.True(t, ok)
	assert.Equal(t, int64(100), p.TimestampMs)
}

func TestAddTrustSignalKeepsLaterTimestamp(t *testing.T) {
	d := New("alice")
	d.AddTrustSignal(TrustSignal{Truster: "alice", Trustee: "bob", Weight: 0.5, TimestampMs: 100})
	d.AddTrustSignal(TrustSignal{Truster: "alice", Trustee: "bob", Weight: 0.9, TimestampMs: 200})

	s, ok := d.GetTrustSignal("alice", "bob")
	require.True(t, ok)
	assert.Equal(t, 0.9, s.Weight)

	// An older write arriving afterward must not regress the signal.
	d.AddTrustSignal(TrustSignal{Truster: "alice", Trustee: "bob", Weight: 0.1, TimestampMs: 50})
	s, ok = d.GetTrustSignal("alice", "bob")
	require.True(t, ok)
	assert.Equal(t, 0.9, s.Weight)
}

func TestAddReactionTombstoneWinsTimestampTie(t *testing.T) {
	d := New("alice")
	d.AddReaction(Reaction{Reactor: "bob", PostID: "p1", Emoji: "+1", TimestampMs: 100, Removed: false, Signature: []byte{0x01}})
	d.AddReaction(Reaction{Reactor: "bob", PostID: "p1", Emoji: "+1", TimestampMs: 100, Removed: true, Signature: []byte{0x00}})

	key := Reaction{Reactor: "bob", PostID: "p1", Emoji: "+1"}.Key()
	assert.Equal(t, "bob:p1:+1", key)
	assert.True(t, d.reactions[key].Removed)
}

func TestUpdateProfileMergesFieldsIndependently(t *testing.T) {
	d := New("alice")
	d.UpdateProfile(Profile{DisplayName: FieldValue{Value: "Alice", TimestampMs: 100}})
	d.UpdateProfile(Profile{Bio: FieldValue{Value: "hi there", TimestampMs: 150}})

	p := d.Profile()
	assert.Equal(t, "Alice", p.DisplayName.Value)
	assert.Equal(t, "hi there", p.Bio.Value)

	// A stale write must not clobber a field written more recently.
	d.UpdateProfile(Profile{DisplayName: FieldValue{Value: "stale", TimestampMs: 50}})
	p = d.Profile()
	assert.Equal(t, "Alice", p.DisplayName.Value)
}

func TestDecayPostIsIdempotentAndNullsContent(t *testing.T) {
	d := New("alice")
	d.AddPost(textPost("p1", "alice", 100))

	d.DecayPost("p1", 500)
	p, _ := d.GetPost("p1")
	require.NotNil(t, p.DecayedAtMs)
	assert.Nil(t, p.Content)
	assert.Equal(t, int64(500), *p.DecayedAtMs)

	// A second decay call must not move the timestamp forward.
	d.DecayPost("p1", 999)
	p, _ = d.GetPost("p1")
	assert.Equal(t, int64(500), *p.DecayedAtMs)
}

func TestProcessContentDecayAppliesThresholds(t *testing.T) {
	d := New("alice")
	old := textPost("old", "alice", 0)
	fresh := textPost("fresh", "alice", 1<<62)
	d.AddPost(old)
	d.AddPost(fresh)

	d.ProcessContentDecay(DecayPolicy{NormalThresholdMs: 1})

	oldPost, _ := d.GetPost("old")
	freshPost, _ := d.GetPost("fresh")
	assert.NotNil(t, oldPost.DecayedAtMs)
	assert.Nil(t, freshPost.DecayedAtMs)
}

func TestMergeInsertsPostsAndKeepsOlderLocalWriteWinsPolicy(t *testing.T) {
	local := New("alice")
	remote := New("bob")

	local.AddPost(textPost("shared", "alice", 100))
	remote.AddPost(textPost("shared", "alice", 999)) // remote's copy must not overwrite local's.
	remote.AddPost(textPost("remote-only", "bob", 100))

	local.Merge(remote)

	p, ok := local.GetPost("shared")
	require.True(t, ok)
	assert.Equal(t, int64(100), p.TimestampMs)

	_, ok = local.GetPost("remote-only")
	assert.True(t, ok)
}

func TestMergeNeverUndoesDecay(t *testing.T) {
	local := New("alice")
	remote := New("bob")

	local.AddPost(textPost("p1", "alice", 0))
	remote.AddPost(textPost("p1", "alice", 0))

	local.DecayPost("p1", 1000)
	remote.DecayPost("p1", 500) // remote observed decay earlier; merge must prefer it.

	local.Merge(remote)

	p, _ := local.GetPost("p1")
	require.NotNil(t, p.DecayedAtMs)
	assert.Equal(t, int64(500), *p.DecayedAtMs)
}

func TestMergeTrustSignalsTakeLatestAcrossReplicas(t *testing.T) {
	local := New("alice")
	remote := New("bob")

	local.AddTrustSignal(TrustSignal{Truster: "alice", Trustee: "carol", Weight: 0.2, TimestampMs: 100})
	remote.AddTrustSignal(TrustSignal{Truster: "alice", Trustee: "carol", Weight: 0.8, TimestampMs: 200})

	local.Merge(remote)

	s, ok := local.GetTrustSignal("alice", "carol")
	require.True(t, ok)
	assert.Equal(t, 0.8, s.Weight)
}

func TestMergeProfileFieldsTakeLatestTimestamp(t *testing.T) {
	local := New("alice")
	remote := New("alice")

	local.UpdateProfile(Profile{DisplayName: FieldValue{Value: "old-name", TimestampMs: 100}})
	remote.UpdateProfile(Profile{DisplayName: FieldValue{Value: "new-name", TimestampMs: 200}})

	local.Merge(remote)

	assert.Equal(t, "new-name", local.Profile().DisplayName.Value)
}

func TestLastSyncRoundTrips(t *testing.T) {
	d := New("alice")
	assert.Equal(t, int64(0), d.LastSync())
	d.SetLastSync(12345)
	assert.Equal(t, int64(12345), d.LastSync())
}

func TestProfileSnapshotIsIndependentCopy(t *testing.T) {
	d := New("alice")
	d.UpdateProfile(Profile{TrustSet: map[string]bool{"bob": true}})

	snapshot := d.Profile()
	snapshot.TrustSet["mallory"] = true

	fresh := d.Profile()
	_, present := fresh.TrustSet["mallory"]
	assert.False(t, present, "mutating a snapshot must not leak back into the document")
}
