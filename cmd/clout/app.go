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

// Package main implements the clout CLI: a local client for the
// identity, trust graph, reputation, gossip envelope, and ticket
// machinery in the rest of the module. It reads and writes a single
// JSON-shaped document on disk (the persisted state layout), and does
// not itself speak the gossip or relay wire protocols — those are
// exercised by the library packages it wires together.
package main

import (
	"context"
	"crypto/ed25519"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"

	"github.com/clout-protocol/clout/config"
	"github.com/clout-protocol/clout/identity"
	"github.com/clout-protocol/clout/internal/logger"
	"github.com/clout-protocol/clout/notary"
	"github.com/clout-protocol/clout/persistence/memory"
	"github.com/clout-protocol/clout/ports"
	"github.com/clout-protocol/clout/reputation"
	"github.com/clout-protocol/clout/state"
	"github.com/clout-protocol/clout/tokenbooth"
	"github.com/clout-protocol/clout/trustgraph"
)

// app bundles everything a subcommand needs: the loaded config, local
// identity, the persisted document store, and the in-memory views
// (state.Document, trustgraph.Graph, reputation.Engine) rebuilt from it
// at startup.
type app struct {
	cfg     *config.Config
	id      *identity.Identity
	store   *memory.Store
	doc     *state.Document
	graph   *trustgraph.Graph
	engine  *reputation.Engine
	booth   *tokenbooth.Booth
	notary  ports.Notary
	log     logger.Logger
	dataDir string
}

// statePath is the on-disk snapshot location: a single JSON document
// under the data directory, per the persisted state layout.
func (a *app) statePath() string {
	return filepath.Join(a.dataDir, "state.json")
}

// loadApp loads config, identity, and persisted state, rebuilding the
// trust graph and reputation engine from the stored trust edges and
// posts. It never errors on a missing state file or identity file —
// both are created fresh on first run.
func loadApp(configPath, dataDir string) (*app, error) {
	cfg, err := config.Load(config.LoaderOptions{ConfigDir: filepath.Dir(configPath), Environment: config.GetEnvironment()})
	if err != nil {
		cfg = config.LoadPreset("local")
	}

	if dataDir == "" {
		dataDir = "."
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	id, err := loadOrCreateIdentity(filepath.Join(dataDir, "identity.key"))
	if err != nil {
		return nil, err
	}

	store := memory.NewStore()
	if raw, err := os.ReadFile(filepath.Join(dataDir, "state.json")); err == nil {
		if err := store.LoadJSON(raw); err != nil {
			return nil, fmt.Errorf("failed to parse persisted state: %w", err)
		}
	}

	log := logger.NewDefaultLogger()

	a := &app{
		cfg:     cfg,
		id:      id,
		store:   store,
		log:     log,
		dataDir: dataDir,
	}

	a.doc = state.New(id.PublicKeyHex())
	a.graph = trustgraph.New(id.PublicKeyHex(), cfg.Trust.MaxHops, nil)
	a.notary = localNotary(id)
	a.engine = reputation.New(a.graph, noopAttestor{}, reputation.Config{
		Defaults: reputation.TrustSettings{
			MaxHops:       cfg.Trust.MaxHops,
			MinReputation: cfg.Trust.MinReputation,
		},
		HalfLifeDays: cfg.Trust.HalfLifeDays,
	})
	a.booth = tokenbooth.New(localSybilIssuer{}, a.notary, func(key string) float64 {
		return a.engine.Score(key).Score
	}, func(recipient string, d *tokenbooth.Delegation) {
		// Record-keeping only: a pending delegation lives in the Booth's
		// in-memory map, which does not survive this one-shot process, so
		// redeeming it with `ticket --delegated` must happen in the same
		// invocation as `invite`. Persisting it here at least leaves an
		// auditable trail in the exported state document.
		if d == nil {
			_ = a.store.Delete(context.Background(), ports.Section("delegations"), recipient)
			return
		}
		_ = a.persist(context.Background(), ports.Section("delegations"), recipient, d)
	})

	if err := a.rehydrate(context.Background()); err != nil {
		return nil, err
	}
	return a, nil
}

// rehydrate replays persisted posts and trust edges into the in-memory
// document and trust graph.
func (a *app) rehydrate(ctx context.Context) error {
	ids, err := a.store.List(ctx, ports.SectionPosts)
	if err != nil {
		return err
	}
	for _, id := range ids {
		raw, ok, err := a.store.Get(ctx, ports.SectionPosts, id)
		if err != nil || !ok {
			continue
		}
		var p state.Post
		if err := unmarshalJSON(raw, &p); err == nil {
			a.doc.AddPost(p)
		}
	}

	edgeIDs, err := a.store.List(ctx, ports.SectionTrustEdges)
	if err != nil {
		return err
	}
	for _, id := range edgeIDs {
		raw, ok, err := a.store.Get(ctx, ports.SectionTrustEdges, id)
		if err != nil || !ok {
			continue
		}
		var s state.TrustSignal
		if err := unmarshalJSON(raw, &s); err == nil {
			a.doc.AddTrustSignal(s)
			a.graph.AddEdge(s.Truster, s.Trustee, trustgraph.Signal{
				Weight:    s.Weight,
				Revoked:   s.Revoked,
				Timestamp: s.TimestampMs,
			})
		}
	}
	return nil
}

// persist writes value marshaled as JSON under (section, id) and
// flushes the whole store to disk, so every mutating command leaves the
// on-disk document consistent even though there is no background flush
// loop in a one-shot CLI process.
func (a *app) persist(ctx context.Context, section ports.Section, id string, value interface{}) error {
	raw, err := marshalJSON(value)
	if err != nil {
		return err
	}
	if err := a.store.Put(ctx, section, id, raw); err != nil {
		return err
	}
	return a.flush()
}

func (a *app) flush() error {
	raw, err := a.store.DumpJSON()
	if err != nil {
		return err
	}
	return os.WriteFile(a.statePath(), raw, 0o644)
}

// loadOrCreateIdentity reads a hex-encoded Ed25519 seed from path,
// generating and persisting a fresh one if the file does not exist.
func loadOrCreateIdentity(path string) (*identity.Identity, error) {
	raw, err := os.ReadFile(path)
	if err == nil {
		id, err := identity.FromSeedHex(string(trimNewline(raw)))
		if err != nil {
			return nil, fmt.Errorf("failed to load identity at %s: %w", path, err)
		}
		return id, nil
	}
	if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read identity file: %w", err)
	}

	id, err := identity.New()
	if err != nil {
		return nil, err
	}
	if err := os.WriteFile(path, []byte(id.SeedHex()+"\n"), 0o600); err != nil {
		return nil, fmt.Errorf("failed to persist new identity: %w", err)
	}
	return id, nil
}

func trimNewline(b []byte) []byte {
	for len(b) > 0 && (b[len(b)-1] == '\n' || b[len(b)-1] == '\r') {
		b = b[:len(b)-1]
	}
	return b
}

// localNotary builds a single-witness notary using the local identity's
// own key. A real deployment configures config.Notary with a remote
// witness quorum instead; a lone CLI process is its own witness.
func localNotary(id *identity.Identity) *jwtnotary.Notary {
	priv, _ := id.KeyPair().PrivateKey().(ed25519.PrivateKey)
	return jwtnotary.New([]jwtnotary.Witness{
		{ID: id.PublicKeyHex(), PrivateKey: priv, PublicKey: id.PublicKey()},
	})
}

// noopAttestor accepts every non-empty attestation. The CLI timestamps its own
// posts through the local notary above but does not independently
// re-verify its own output before admitting it into the local feed.
type noopAttestor struct{}

func (noopAttestor) Verify(attestation []byte, contentHash [32]byte) bool { return len(attestation) > 0 }

// localSybilIssuer is a stand-in sybil issuer for single-node local use:
// it accepts any non-empty token as proof of uniqueness. CLOUT never
// issues its own sybil tokens (see ports.SybilIssuer); a deployment that
// needs the real uniqueness guarantee points config.Sybil at an external
// issuer and swaps this out for sybil.Verifier.
type localSybilIssuer struct{}

func (localSybilIssuer) VerifyToken(ctx context.Context, token []byte) (bool, error) {
	return len(token) > 0, nil
}

func (localSybilIssuer) VerifyFederatedToken(ctx context.Context, token ports.FederatedToken) (bool, error) {
	return len(token.Token) > 0, nil
}

// hexEncode is a small convenience used by several commands to print
// byte slices (signatures, attestations) as hex for display.
func hexEncode(b []byte) string { return hex.EncodeToString(b) }
