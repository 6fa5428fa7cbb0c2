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

package gossip

import (
	"encoding/json"
	"fmt"
)

// MessageType is the inner message's dispatch tag.
type MessageType string

const (
	TypePost          MessageType = "post"
	TypeTrust         MessageType = "trust"
	TypeTrustEncrypted MessageType = "trust-encrypted"
	TypeSlide         MessageType = "slide"
	TypeReaction      MessageType = "reaction"
	TypePostDelete    MessageType = "post-delete"
	TypeStateSync     MessageType = "state-sync"
	TypeStateRequest  MessageType = "state-request"
	TypeMediaRequest  MessageType = "media-request"
	TypeMediaResponse MessageType = "media-response"
)

// InnerMessage is the envelope's unwrapped payload.
type InnerMessage struct {
	Type MessageType     `json:"type"`
	Body json.RawMessage `json:"body"`
}

// Handlers holds one callback per dispatch variant. A nil handler causes
// that message type to be silently dropped, consistent with the
// pipeline's "never propagate upward" error policy.
type Handlers struct {
	Post          func(sender string, body json.RawMessage) error
	Trust         func(sender string, body json.RawMessage) error
	TrustEncrypted func(sender string, body json.RawMessage) error
	Slide         func(sender string, body json.RawMessage) error
	Reaction      func(sender string, body json.RawMessage) error
	PostDelete    func(sender string, body json.RawMessage) error
	StateSync     func(sender string, body json.RawMessage) error
	StateRequest  func(sender string, body json.RawMessage) error
	MediaRequest  func(sender string, body json.RawMessage) error
	MediaResponse func(sender string, body json.RawMessage) error
}

// dispatch routes an inner message to its handler, by type tag.
func (h Handlers) dispatch(sender string, msg InnerMessage) error {
	var fn func(string, json.RawMessage) error
	switch msg.Type {
	case TypePost:
		fn = h.Post
	case TypeTrust:
		fn = h.Trust
	case TypeTrustEncrypted:
		fn = h.TrustEncrypted
	case TypeSlide:
		fn = h.Slide
	case TypeReaction:
		fn = h.Reaction
	case TypePostDelete:
		fn = h.PostDelete
	case TypeStateSync:
		fn = h.StateSync
	case TypeStateRequest:
		fn = h.StateRequest
	case TypeMediaRequest:
		fn = h.MediaRequest
	case TypeMediaResponse:
		fn = h.MediaResponse
	default:
		return fmt.Errorf("unknown message type: %s", msg.Type)
	}
	if fn == nil {
		return nil
	}
	return fn(sender, msg.Body)
}
