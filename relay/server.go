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
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/clout-protocol/clout/clouterr"
	"github.com/clout-protocol/clout/identity"
	"github.com/clout-protocol/clout/internal/metrics"
	"github.com/clout-protocol/clout/internal/scheduler"
	"github.com/gorilla/websocket"
)

const (
	closeAuthFailed       = 4001
	closeChallengeExpired = 4002

	sweepInterval = time.Minute
)

// conn bundles a WebSocket connection with its auth/register session.
type conn struct {
	ws      *websocket.Conn
	session *session
	writeMu sync.Mutex
}

func (c *conn) send(frame Frame) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	if err := c.ws.SetWriteDeadline(time.Now().Add(10 * time.Second)); err != nil {
		return err
	}
	return c.ws.WriteJSON(frame)
}

func (c *conn) closeWithCode(code int, reason string) {
	_ = c.ws.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(code, reason))
	_ = c.ws.Close()
}

// Server is the mediation hub: it authenticates connections by public
// key and forwards signal/forward frames between registered peers. It
// never inspects gossip payload contents beyond the routing fields.
type Server struct {
	mu       sync.RWMutex
	conns    map[*conn]bool
	byPeer   map[string]*conn
	upgrader websocket.Upgrader
	dedup    *forwardDedup
	sweeper  *scheduler.Sweeper

	// TorOnly restricts Handler's listener to loopback binds; set this
	// before calling ListenAndServe, not after.
	TorOnly bool
}

// NewServer creates a relay server with default forward-dedup retention
// (5 minutes) and sweep cadence (1 minute).
func NewServer() *Server {
	s := &Server{
		conns:  make(map[*conn]bool),
		byPeer: make(map[string]*conn),
		upgrader: websocket.Upgrader{
			CheckOrigin:     func(r *http.Request) bool { return true },
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		dedup: newForwardDedup(5*time.Minute, time.Minute),
	}
	s.sweeper = scheduler.Every(sweepInterval, s.sweepStale)
	return s
}

// Close stops background sweeps and closes every tracked connection.
func (s *Server) Close() error {
	s.sweeper.Stop()
	s.dedup.close()

	s.mu.Lock()
	defer s.mu.Unlock()
	for c := range s.conns {
		c.closeWithCode(websocket.CloseNormalClosure, "")
	}
	s.conns = make(map[*conn]bool)
	s.byPeer = make(map[string]*conn)
	return nil
}

// Handler returns an http.Handler that upgrades to WebSocket and runs
// the per-connection auth/register/signal loop.
func (s *Server) Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ws, err := s.upgrader.Upgrade(w, r, nil)
		if err != nil {
			http.Error(w, fmt.Sprintf("websocket upgrade failed: %v", err), http.StatusBadRequest)
			return
		}
		c := &conn{ws: ws, session: newSession()}
		s.addConn(c)
		metrics.RelayConnectionsActive.Inc()
		defer metrics.RelayConnectionsActive.Dec()
		defer s.removeConn(c)
		defer func() { _ = ws.Close() }()

		s.sendChallenge(c)
		s.handleConnection(c)
	})
}

// ListenAndServe binds addr and serves the relay handler directly. When
// TorOnly is set, non-loopback addresses are refused.
func (s *Server) ListenAndServe(addr string) error {
	if s.TorOnly {
		host, _, err := net.SplitHostPort(addr)
		if err != nil {
			return clouterr.Wrap(clouterr.InvalidInput, fmt.Sprintf("invalid bind address %q", addr), err)
		}
		ip := net.ParseIP(host)
		if host != "localhost" && (ip == nil || !ip.IsLoopback()) {
			return clouterr.New(clouterr.FatalConfig, fmt.Sprintf("tor-only mode refuses non-loopback bind %q", addr))
		}
	}
	mux := http.NewServeMux()
	mux.Handle("/relay", s.Handler())
	return http.ListenAndServe(addr, mux)
}

func (s *Server) sendChallenge(c *conn) {
	nonce, err := newChallengeNonce()
	if err != nil {
		c.closeWithCode(websocket.CloseInternalServerErr, "challenge generation failed")
		return
	}
	c.session.beginChallenge(nonce)

	payload, _ := json.Marshal(AuthChallengePayload{
		Nonce:     nonce,
		ExpiresAt: time.Now().Add(challengeTTL).UnixMilli(),
	})
	_ = c.send(Frame{Type: TypeAuthChallenge, Payload: payload})
}

func (s *Server) handleConnection(c *conn) {
	for {
		if err := c.ws.SetReadDeadline(time.Now().Add(staleClientTTL)); err != nil {
			return
		}

		var frame Frame
		if err := c.ws.ReadJSON(&frame); err != nil {
			return
		}
		c.session.touch()

		switch frame.Type {
		case TypeAuthResponse:
			s.handleAuthResponse(c, frame)
		case TypeRegister:
			s.handleRegister(c, frame)
		case TypeSignal, TypeForward:
			s.handleRoute(c, frame)
		case TypeQueryPeers:
			s.handleQueryPeers(c, frame)
		default:
			s.sendError(c, fmt.Sprintf("unexpected message type: %s", frame.Type))
		}
	}
}

func (s *Server) handleAuthResponse(c *conn, frame Frame) {
	if c.session.currentPhase() != phasePendingAuth {
		s.sendError(c, "auth_response only valid before authentication")
		return
	}
	if c.session.challengeExpired() {
		metrics.RelayAuthOutcomes.WithLabelValues("expired_challenge").Inc()
		c.closeWithCode(closeChallengeExpired, "challenge expired")
		return
	}

	var payload AuthResponsePayload
	if err := json.Unmarshal(frame.Payload, &payload); err != nil {
		s.sendError(c, "malformed auth_response payload")
		return
	}

	expected := authPayload(c.session.challengeNonce, payload.PublicKey)
	if err := identity.Verify(payload.PublicKey, expected, payload.Signature); err != nil {
		metrics.RelayAuthOutcomes.WithLabelValues("bad_signature").Inc()
		c.closeWithCode(closeAuthFailed, "signature verification failed")
		return
	}

	c.session.authenticate(payload.PublicKey)
	metrics.RelayAuthOutcomes.WithLabelValues("success").Inc()
	resultPayload, _ := json.Marshal(AuthResultPayload{Success: true})
	_ = c.send(Frame{Type: TypeAuthResponse, Payload: resultPayload})
}

func (s *Server) handleRegister(c *conn, frame Frame) {
	if c.session.currentPhase() == phasePendingAuth {
		s.sendError(c, "register requires authentication")
		return
	}

	var payload RegisterPayload
	if err := json.Unmarshal(frame.Payload, &payload); err != nil {
		s.sendError(c, "malformed register payload")
		return
	}
	if payload.PublicKey != c.session.identity() {
		s.sendError(c, "register public key must match authenticated identity")
		return
	}

	c.session.register()
	s.bindPeer(payload.PublicKey, c)
}

func (s *Server) handleRoute(c *conn, frame Frame) {
	if c.session.currentPhase() != phaseRegistered {
		s.sendError(c, fmt.Sprintf("%s requires registration", frame.Type))
		return
	}
	if frame.From != c.session.identity() {
		s.sendError(c, "sender identity mismatch")
		return
	}

	if frame.Type == TypeForward {
		var payload SignalPayload
		if err := json.Unmarshal(frame.Payload, &payload); err == nil && payload.ID != "" {
			if s.dedup.isDuplicate(payload.ID) {
				metrics.RelayDuplicatesDropped.Inc()
				return
			}
			s.dedup.markSeen(payload.ID)
		}
	}

	s.mu.RLock()
	dest, ok := s.byPeer[frame.To]
	s.mu.RUnlock()
	if !ok {
		s.sendError(c, fmt.Sprintf("peer %s not connected", frame.To))
		return
	}
	metrics.RelayFramesForwarded.WithLabelValues(string(frame.Type)).Inc()
	_ = dest.send(frame)
}

func (s *Server) handleQueryPeers(c *conn, frame Frame) {
	if c.session.currentPhase() != phaseRegistered {
		s.sendError(c, "query_peers requires registration")
		return
	}

	var payload QueryPeersPayload
	_ = json.Unmarshal(frame.Payload, &payload)
	if payload.MaxResults <= 0 {
		payload.MaxResults = 50
	}

	self := c.session.identity()
	s.mu.RLock()
	peers := make([]string, 0, len(s.byPeer))
	for key := range s.byPeer {
		if key == self {
			continue
		}
		peers = append(peers, key)
		if len(peers) >= payload.MaxResults {
			break
		}
	}
	s.mu.RUnlock()

	resultPayload, _ := json.Marshal(QueryPeersResult{Peers: peers})
	_ = c.send(Frame{Type: TypeQueryPeers, Payload: resultPayload})
}

func (s *Server) sendError(c *conn, reason string) {
	payload, _ := json.Marshal(ErrorPayload{Reason: reason})
	_ = c.send(Frame{Type: TypeError, Payload: payload})
}

func (s *Server) addConn(c *conn) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.conns[c] = true
}

func (s *Server) removeConn(c *conn) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.conns, c)
	if key := c.session.identity(); key != "" {
		if s.byPeer[key] == c {
			delete(s.byPeer, key)
		}
	}
}

func (s *Server) bindPeer(publicKey string, c *conn) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.byPeer[publicKey] = c
}

// ConnectionCount returns the number of live connections, authenticated
// or not.
func (s *Server) ConnectionCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.conns)
}

// sweepStale disconnects connections idle past staleClientTTL.
func (s *Server) sweepStale() {
	s.mu.RLock()
	var stale []*conn
	for c := range s.conns {
		if c.session.idleSince() > staleClientTTL {
			stale = append(stale, c)
		}
	}
	s.mu.RUnlock()

	for _, c := range stale {
		metrics.RelayStaleDisconnects.Inc()
		c.closeWithCode(websocket.CloseGoingAway, "idle timeout")
	}
}
