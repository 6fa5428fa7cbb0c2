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

// PeerChannel is a bidirectional message channel to one connected peer.
type PeerChannel interface {
	Send(data []byte) error
	Close() error
}

// PeerTransportEvents are the callbacks a Transport fires as peers
// connect, send, and disconnect.
type PeerTransportEvents struct {
	OnConnect    func(peerID string, channel PeerChannel)
	OnMessage    func(peerID string, data []byte)
	OnDisconnect func(peerID string)
}

// Transport drives a set of peer connections and dispatches their
// traffic through PeerTransportEvents.
type Transport interface {
	Start(events PeerTransportEvents) error
	Stop() error
}
