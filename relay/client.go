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

package relay

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/clout-protocol/clout/identity"
	"github.com/clout-protocol/clout/ports"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// peerChannel routes Send calls for one remote public key back through
// the shared relay connection.
type peerChannel struct {
	client *Client
	peer   string
}

func (c *peerChannel) Send(data []byte) error {
	return c.client.sendTo(c.peer, data)
}

func (c *peerChannel) Close() error {
	return nil
}

// Client implements ports.Transport over a single outbound connection to
// a relay: it authenticates once with a local identity, registers, then
// multiplexes every other registered peer's traffic over that one
// connection, exposing each as its own PeerChannel.
type Client struct {
	url string
	id  *identity.Identity

	mu       sync.Mutex
	ws       *websocket.Conn
	events   ports.PeerTransportEvents
	channels map[string]*peerChannel

	dialTimeout time.Duration
}

// NewClient creates a relay client for the given identity.
func NewClient(url string, id *identity.Identity) *Client {
	return &Client{
		url:         url,
		id:          id,
		channels:    make(map[string]*peerChannel),
		dialTimeout: 30 * time.Second,
	}
}

// Start dials the relay, performs the challenge/response handshake, and
// begins dispatching inbound frames through events.
func (c *Client) Start(events ports.PeerTransportEvents) error {
	ctx, cancel := context.WithTimeout(context.Background(), c.dialTimeout)
	defer cancel()

	dialer := &websocket.Dialer{HandshakeTimeout: c.dialTimeout}
	ws, _, err := dialer.DialContext(ctx, c.url, nil)
	if err != nil {
		return fmt.Errorf("relay dial failed: %w", err)
	}

	c.mu.Lock()
	c.ws = ws
	c.events = events
	c.mu.Unlock()

	if err := c.authenticate(); err != nil {
		_ = ws.Close()
		return err
	}
	if err := c.register(); err != nil {
		_ = ws.Close()
		return err
	}

	go c.readLoop()
	return nil
}

func (c *Client) authenticate() error {
	var challenge Frame
	if err := c.ws.ReadJSON(&challenge); err != nil {
		return fmt.Errorf("failed to read auth challenge: %w", err)
	}
	if challenge.Type != TypeAuthChallenge {
		return fmt.Errorf("expected auth_challenge, got %s", challenge.Type)
	}
	var challengePayload AuthChallengePayload
	if err := json.Unmarshal(challenge.Payload, &challengePayload); err != nil {
		return fmt.Errorf("malformed auth_challenge payload: %w", err)
	}

	publicKey := c.id.PublicKeyHex()
	sig, err := c.id.Sign(authPayload(challengePayload.Nonce, publicKey))
	if err != nil {
		return fmt.Errorf("failed to sign challenge: %w", err)
	}

	respPayload, _ := json.Marshal(AuthResponsePayload{PublicKey: publicKey, Signature: sig})
	if err := c.ws.WriteJSON(Frame{Type: TypeAuthResponse, Payload: respPayload}); err != nil {
		return fmt.Errorf("failed to send auth_response: %w", err)
	}

	var result Frame
	if err := c.ws.ReadJSON(&result); err != nil {
		return fmt.Errorf("failed to read auth result: %w", err)
	}
	var resultPayload AuthResultPayload
	if err := json.Unmarshal(result.Payload, &resultPayload); err != nil || !resultPayload.Success {
		return fmt.Errorf("relay authentication rejected")
	}
	return nil
}

func (c *Client) register() error {
	payload, _ := json.Marshal(RegisterPayload{PublicKey: c.id.PublicKeyHex()})
	return c.ws.WriteJSON(Frame{Type: TypeRegister, Payload: payload})
}

func (c *Client) readLoop() {
	for {
		c.mu.Lock()
		ws := c.ws
		c.mu.Unlock()
		if ws == nil {
			return
		}

		var frame Frame
		if err := ws.ReadJSON(&frame); err != nil {
			return
		}

		switch frame.Type {
		case TypeSignal, TypeForward:
			c.dispatch(frame)
		case TypeError:
			continue
		}
	}
}

func (c *Client) dispatch(frame Frame) {
	var payload SignalPayload
	if err := json.Unmarshal(frame.Payload, &payload); err != nil {
		return
	}

	c.channelFor(frame.From)

	c.mu.Lock()
	events := c.events
	c.mu.Unlock()
	if events.OnMessage != nil {
		events.OnMessage(frame.From, payload.Body)
	}
}

func (c *Client) channelFor(peer string) *peerChannel {
	c.mu.Lock()
	defer c.mu.Unlock()

	if ch, ok := c.channels[peer]; ok {
		return ch
	}
	ch := &peerChannel{client: c, peer: peer}
	c.channels[peer] = ch
	if c.events.OnConnect != nil {
		c.events.OnConnect(peer, ch)
	}
	return ch
}

// sendTo routes data to peer as a forward frame, tagged with a fresh
// message id for the relay's dedup window.
func (c *Client) sendTo(peer string, data []byte) error {
	payload, err := json.Marshal(SignalPayload{ID: uuid.NewString(), Body: data})
	if err != nil {
		return fmt.Errorf("failed to encode outbound payload: %w", err)
	}

	c.mu.Lock()
	ws := c.ws
	c.mu.Unlock()
	if ws == nil {
		return fmt.Errorf("relay client not connected")
	}

	frame := Frame{Type: TypeForward, From: c.id.PublicKeyHex(), To: peer, Payload: payload}
	if err := ws.SetWriteDeadline(time.Now().Add(10 * time.Second)); err != nil {
		return err
	}
	return ws.WriteJSON(frame)
}

// Stop closes the relay connection.
func (c *Client) Stop() error {
	c.mu.Lock()
	ws := c.ws
	c.ws = nil
	c.mu.Unlock()

	if ws == nil {
		return nil
	}
	_ = ws.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	return ws.Close()
}

var _ ports.Transport = (*Client)(nil)
