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

// Package state holds the mergeable per-identity CRDT document: profile,
// posts, trust signals, reactions, and retractions. Mutations are
// expressed as insert/update operations that converge under merge
// regardless of arrival order.
package state

// MediaDescriptor describes a content-addressed media attachment.
type MediaDescriptor struct {
	CID  string
	MIME string
	Size int64
}

// LinkPreview is optional metadata for a URL referenced by a post.
type LinkPreview struct {
	URL         string
	Title       string
	Description string
}

// Post is an immutable content record, except for monotonic decay
// (content/media nulled, decayedAt set) and supersession via edit.
type Post struct {
	ID              string // content hash of the canonical payload at creation
	Content         *string
	Author          string
	Signature       []byte
	SignatureTimeMs int64
	Attestation     []byte
	ReplyTo         *string
	ContentType     string
	EphemeralPubKey []byte
	EphemeralProof  []byte
	Media           *MediaDescriptor
	LinkPreviewURL  *LinkPreview
	NSFW            bool
	ContentWarning  *string
	Mentions        []string
	EditOf          *string
	DecayedAtMs     *int64
	TimestampMs     int64
}

// TrustSignal is a plaintext trust edge.
type TrustSignal struct {
	Truster     string
	Trustee     string
	Weight      float64
	Revoked     bool
	TimestampMs int64
	Attestation []byte
	Signature   []byte
}

// EncryptedTrustSignal hides the trustee's identity from everyone except
// the trustee, who can decrypt it with their private key.
type EncryptedTrustSignal struct {
	Truster           string
	TrusteeCommitment []byte // SHA-256(hex(trustee) || hex(nonce))
	EphemeralPubKey   []byte
	Nonce             []byte
	Ciphertext        []byte
	Signature         []byte // over (commitment || weight || timestamp)
	Attestation       []byte
	Weight            float64
	Revoked           bool
	Version           int
	TimestampMs       int64
}

// Slide is a private, end-to-end encrypted message between two peers —
// the protocol's direct-message primitive, sealed the same way an
// EncryptedTrustSignal is (ephemeral X25519 over the recipient's
// Ed25519 identity key) so the relay and any gossiping peer see only
// ciphertext.
type Slide struct {
	ID              string
	Sender          string
	RecipientCommitment []byte // SHA-256(hex(recipient) || hex(nonce))
	EphemeralPubKey []byte
	Nonce           []byte
	Ciphertext      []byte
	Signature       []byte
	TimestampMs     int64
}

// Reaction is LWW by (reactor, postId, emoji).
type Reaction struct {
	Reactor     string
	PostID      string
	Emoji       string
	Signature   []byte
	Attestation []byte
	Removed     bool
	TimestampMs int64
}

// Key returns the logical compaction key for this reaction.
func (r Reaction) Key() string {
	return r.Reactor + ":" + r.PostID + ":" + r.Emoji
}

// RetractionReason is why a post was retracted.
type RetractionReason string

const (
	ReasonRetracted RetractionReason = "retracted"
	ReasonEdited    RetractionReason = "edited"
	ReasonMistake   RetractionReason = "mistake"
	ReasonOther     RetractionReason = "other"
)

// Retraction is LWW by postId.
type Retraction struct {
	PostID      string
	Author      string
	Signature   []byte
	Attestation []byte
	DeletedAtMs int64
	Reason      RetractionReason
	TimestampMs int64 // attestation timestamp, for the (deletedAt, attestation) tiebreak
}

// Profile is the mergeable profile document: trust set plus settings.
// Concurrent field writes on different replicas both survive (field-level
// merge), so DisplayName and Bio are independently-timestamped fields.
type Profile struct {
	PublicKey     string
	TrustSet      map[string]bool
	Settings      TrustSettings
	DisplayName   FieldValue
	Bio           FieldValue
}

// FieldValue is one field of a field-level-merged document: the value and
// the timestamp it was last written at, so merge can keep whichever
// replica wrote more recently without discarding the other's other fields.
type FieldValue struct {
	Value       string
	TimestampMs int64
}

// TrustSettings are a profile's own admission policy for posts authored
// by others, as seen through this identity's lens.
type TrustSettings struct {
	MaxHops            int
	MinReputation      float64
	NSFWPolicy         string // "hide", "warn", "show"
	ContentTypeOverride map[string]ContentTypeSettings
	DecayPolicy        DecayPolicy
}

// ContentTypeSettings overrides MaxHops/MinReputation for one content type.
type ContentTypeSettings struct {
	MaxHops       int
	MinReputation float64
}

// DecayPolicy controls processContentDecay's thresholds.
type DecayPolicy struct {
	NormalThresholdMs    int64
	RetractedThresholdMs int64
}
