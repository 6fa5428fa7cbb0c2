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
	"encoding/base64"
	"fmt"

	"github.com/clout-protocol/clout/ports"
	"github.com/spf13/cobra"
)

// newTicketCmd mints a posting ticket, either directly (verifying a
// sybil-resistance token) or by redeeming a pending delegation.
func newTicketCmd() *cobra.Command {
	var sybilTokenB64 string
	var delegated bool

	cmd := &cobra.Command{
		Use:   "ticket",
		Short: "Mint a posting ticket",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp(flagConfigPath, flagDataDir)
			if err != nil {
				return err
			}
			ctx := context.Background()

			if delegated {
				t, err := a.booth.MintDelegatedTicket(ctx, a.id)
				if err != nil {
					return err
				}
				if err := a.persist(ctx, ports.SectionTickets, t.Owner, t); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "minted delegated ticket for %s, expires %d\n", t.Owner, t.ExpiryMs)
				return nil
			}

			if sybilTokenB64 == "" {
				return fmt.Errorf("--sybil-token is required unless --delegated is set")
			}
			sybilToken, err := base64.StdEncoding.DecodeString(sybilTokenB64)
			if err != nil {
				return fmt.Errorf("invalid --sybil-token: %w", err)
			}
			score := a.engine.Score(a.id.PublicKeyHex()).Score
			t, err := a.booth.MintTicket(ctx, a.id, sybilToken, &score)
			if err != nil {
				return err
			}
			if err := a.persist(ctx, ports.SectionTickets, t.Owner, t); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "minted ticket for %s, expires %d\n", t.Owner, t.ExpiryMs)
			return nil
		},
	}

	cmd.Flags().StringVar(&sybilTokenB64, "sybil-token", "", "base64-encoded sybil-resistance token")
	cmd.Flags().BoolVar(&delegated, "delegated", false, "mint from a pending delegation instead of a sybil token")
	return cmd
}
