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

package health

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/clout-protocol/clout/internal/logger"
	"github.com/clout-protocol/clout/internal/metrics"
)

// Server exposes a HealthChecker over HTTP for liveness/readiness
// probes and an in-process metrics snapshot.
type Server struct {
	checker *HealthChecker
	logger  logger.Logger
	port    int
	server  *http.Server
}

// NewServer creates a health check server.
func NewServer(checker *HealthChecker, log logger.Logger, port int) *Server {
	return &Server{checker: checker, logger: log, port: port}
}

// Start binds and serves the health endpoints in the background.
func (s *Server) Start() error {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/health/live", s.handleLiveness)
	mux.HandleFunc("/health/ready", s.handleReadiness)
	mux.HandleFunc("/metrics/snapshot", s.handleMetricsSnapshot)

	s.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", s.port),
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	s.logger.Info("starting health check server")

	go func() {
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.logger.Error("health check server error", logger.Error(err))
		}
	}()

	return nil
}

// Stop gracefully shuts down the health server.
func (s *Server) Stop(ctx context.Context) error {
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	report := s.checker.GetSystemHealth(r.Context())

	switch report.Status {
	case StatusUnhealthy:
		w.WriteHeader(http.StatusServiceUnavailable)
	default:
		w.WriteHeader(http.StatusOK)
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(report)
}

func (s *Server) handleLiveness(w http.ResponseWriter, r *http.Request) {
	response := map[string]interface{}{
		"status":    "alive",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(response)
}

func (s *Server) handleReadiness(w http.ResponseWriter, r *http.Request) {
	status := s.checker.GetOverallStatus(r.Context())
	ready := status == StatusHealthy

	response := map[string]interface{}{
		"ready":     ready,
		"status":    status,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	}
	if !ready {
		w.WriteHeader(http.StatusServiceUnavailable)
	} else {
		w.WriteHeader(http.StatusOK)
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(response)
}

func (s *Server) handleMetricsSnapshot(w http.ResponseWriter, r *http.Request) {
	snapshot := metrics.GetGlobalCollector().GetSnapshot()

	response := map[string]interface{}{
		"timestamp": snapshot.Timestamp.UTC().Format(time.RFC3339),
		"uptime":    snapshot.Uptime.String(),
		"counters": map[string]int64{
			"envelopes_received": snapshot.EnvelopesReceived,
			"envelopes_accepted": snapshot.EnvelopesAccepted,
			"envelopes_rejected": snapshot.EnvelopesRejected,
			"replay_rejections":  snapshot.ReplayRejections,
			"rate_limit_drops":   snapshot.RateLimitDrops,
			"score_recomputes":   snapshot.ScoreRecomputes,
			"hop_cache_hits":     snapshot.HopCacheHits,
			"hop_cache_misses":   snapshot.HopCacheMisses,
			"relay_forwards":     snapshot.RelayForwards,
			"relay_duplicates":   snapshot.RelayDuplicates,
		},
		"timings": map[string]interface{}{
			"avg_admission_time_us":     snapshot.AvgAdmissionTime,
			"avg_recomputation_time_us": snapshot.AvgRecomputationTime,
			"p95_admission_time_us":     snapshot.P95AdmissionTime,
			"p95_recomputation_time_us": snapshot.P95RecomputationTime,
		},
		"rates": map[string]float64{
			"hop_cache_hit_rate": snapshot.GetHopCacheHitRate(),
			"admission_rate":     snapshot.GetAdmissionRate(),
		},
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(response)
}

// StartHealthServer starts a server on port that reports checker's
// results, and returns the server.
func StartHealthServer(port int, checker *HealthChecker) (*Server, error) {
	server := NewServer(checker, logger.NewDefaultLogger(), port)
	if err := server.Start(); err != nil {
		return nil, err
	}
	return server, nil
}
