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

package main

import (
	"context"
	"fmt"
	"time"

	cloutcrypto "github.com/clout-protocol/clout/crypto"
	"github.com/clout-protocol/clout/ports"
	"github.com/clout-protocol/clout/state"
	"github.com/clout-protocol/clout/trustgraph"
	"github.com/spf13/cobra"
)

// newTrustCmd implements the follow/trust subcommand: it issues a signed
// trust edge from the local identity to the given peer.
func newTrustCmd() *cobra.Command {
	var weight float64
	var revoke bool

	cmd := &cobra.Command{
		Use:     "trust <peer-pubkey-hex>",
		Aliases: []string{"follow"},
		Short:   "Record a trust edge from the local identity to a peer",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp(flagConfigPath, flagDataDir)
			if err != nil {
				return err
			}
			trustee := args[0]
			if trustee == a.id.PublicKeyHex() {
				return fmt.Errorf("cannot trust your own identity")
			}

			now := time.Now().UnixMilli()
			signable := map[string]any{
				"truster":     a.id.PublicKeyHex(),
				"trustee":     trustee,
				"weight":      weight,
				"revoked":     revoke,
				"timestampMs": now,
			}
			sig, err := a.id.Sign(cloutcrypto.CanonicalEncode(signable))
			if err != nil {
				return fmt.Errorf("failed to sign trust edge: %w", err)
			}

			s := state.TrustSignal{
				Truster:     a.id.PublicKeyHex(),
				Trustee:     trustee,
				Weight:      weight,
				Revoked:     revoke,
				TimestampMs: now,
				Signature:   sig,
			}
			a.doc.AddTrustSignal(s)
			a.graph.AddEdge(s.Truster, s.Trustee, trustgraph.Signal{
				Weight:    s.Weight,
				Revoked:   s.Revoked,
				Timestamp: s.TimestampMs,
			})

			ctx := context.Background()
			edgeID := s.Truster + ":" + s.Trustee
			if err := a.persist(ctx, ports.SectionTrustEdges, edgeID, s); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "trusted %s at weight %.2f (hop distance now %d)\n",
				trustee, weight, a.graph.HopDistance(trustee))
			return nil
		},
	}

	cmd.Flags().Float64Var(&weight, "weight", 1.0, "trust edge weight, 0.0 to 1.0")
	cmd.Flags().BoolVar(&revoke, "revoke", false, "revoke a previously issued trust edge instead of adding one")
	return cmd
}
