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

// Package gossip is the admission pipeline every inbound SignedEnvelope
// traverses before its inner message reaches semantic handlers: rate
// limit, envelope validity, replay detection, signature policy, then
// dispatch.
package gossip

import (
	"encoding/json"
	"time"

	"github.com/clout-protocol/clout/internal/metrics"
)

// Config configures a Pipeline's thresholds.
type Config struct {
	RateCapacity       int
	RateRefillPerSec   float64
	RateIdleTTL        time.Duration
	NonceRetention     time.Duration
	NonceSweepInterval time.Duration
	AllowUnsigned      bool
}

// DefaultConfig returns the spec's default thresholds.
func DefaultConfig() Config {
	return Config{
		RateCapacity:       DefaultCapacity,
		RateRefillPerSec:   DefaultRefillRate,
		RateIdleTTL:        5 * time.Minute,
		NonceRetention:     10 * time.Minute,
		NonceSweepInterval: time.Minute,
		AllowUnsigned:      true,
	}
}

// Pipeline is the admission pipeline: rate limit, envelope validity,
// replay detection, then semantic dispatch. Every stage is guarded by
// its own lock, so the pipeline is safe to drive from multiple
// goroutines even though the spec models it as single-threaded per
// inbound queue.
type Pipeline struct {
	cfg      Config
	limiter  *RateLimiter
	replay   *ReplayGuard
	order    *PeerOrder
	handlers Handlers

	onRateLimited func(peer string)
	onRejected    func(peer string, reason string)
}

// New creates an admission pipeline.
func New(cfg Config, handlers Handlers) *Pipeline {
	return &Pipeline{
		cfg:      cfg,
		limiter:  NewRateLimiter(cfg.RateCapacity, cfg.RateRefillPerSec, cfg.RateIdleTTL),
		replay:   NewReplayGuard(cfg.NonceRetention, cfg.NonceSweepInterval),
		order:    NewPeerOrder(),
		handlers: handlers,
	}
}

// OnRateLimited registers a callback fired whenever a peer's bucket is
// exhausted, for metrics.
func (p *Pipeline) OnRateLimited(fn func(peer string)) { p.onRateLimited = fn }

// OnRejected registers a callback fired whenever an envelope is dropped
// at the validity, replay, or dispatch stage, for logging.
func (p *Pipeline) OnRejected(fn func(peer, reason string)) { p.onRejected = fn }

// Close stops the pipeline's background sweeps.
func (p *Pipeline) Close() {
	p.limiter.Close()
	p.replay.Close()
}

// Admit runs env through the full pipeline. It never returns an error to
// signal a rejection — rejections are silent or logged via the
// registered callbacks, per the admission pipeline's "never propagate
// upwards" policy. A non-nil error here means a programming-level
// failure (malformed inner message JSON), not an admission decision.
func (p *Pipeline) Admit(env Envelope) error {
	start := time.Now()
	peer := env.SenderPublicKey
	metrics.EnvelopesReceived.WithLabelValues("envelope").Inc()

	if !p.limiter.Allow(peer) {
		metrics.RateLimitDrops.WithLabelValues(peer).Inc()
		if p.onRateLimited != nil {
			p.onRateLimited(peer)
		}
		metrics.EnvelopesRejected.WithLabelValues("rate_limited").Inc()
		return nil
	}

	now := time.Now()
	if err := env.CheckFreshness(now); err != nil {
		p.reject(peer, err.Error(), "expired")
		return nil
	}
	if len(env.Signature) == 0 {
		if !p.cfg.AllowUnsigned {
			p.reject(peer, "unsigned message rejected by policy", "bad_signature")
			return nil
		}
	} else if err := env.VerifySignature(); err != nil {
		p.reject(peer, err.Error(), "bad_signature")
		return nil
	}

	if p.replay.Seen(peer, env.Nonce, env.ExpiresAt) {
		metrics.ReplayAttacksDetected.Inc()
		p.reject(peer, "replayed nonce", "replay")
		return nil
	}

	if err := p.order.Observe(peer, now); err != nil {
		p.reject(peer, err.Error(), "horizon")
		return nil
	}

	var msg InnerMessage
	if err := json.Unmarshal(env.Message, &msg); err != nil {
		return err
	}

	if err := p.handlers.dispatch(peer, msg); err != nil {
		p.reject(peer, err.Error(), "dispatch_failed")
		return nil
	}

	metrics.EnvelopeProcessingDuration.Observe(time.Since(start).Seconds())
	return nil
}

func (p *Pipeline) reject(peer, reason, metricReason string) {
	metrics.EnvelopesRejected.WithLabelValues(metricReason).Inc()
	if p.onRejected != nil {
		p.onRejected(peer, reason)
	}
}
