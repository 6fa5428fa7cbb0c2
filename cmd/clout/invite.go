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

	"github.com/spf13/cobra"
)

// newInviteCmd vouches recipient into a ticket without their own
// sybil-token check, spending one unit of the local identity's weekly
// delegation quota.
func newInviteCmd() *cobra.Command {
	var durationHours int

	cmd := &cobra.Command{
		Use:   "invite <recipient-pubkey-hex>",
		Short: "Delegate a posting pass to a peer",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp(flagConfigPath, flagDataDir)
			if err != nil {
				return err
			}
			recipient := args[0]
			reputation := a.engine.Score(a.id.PublicKeyHex()).Score

			d, err := a.booth.DelegatePass(context.Background(), a.id, recipient, reputation, durationHours)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "delegated to %s, expires %d\n", d.Recipient, d.ExpiryMs)
			return nil
		},
	}

	cmd.Flags().IntVar(&durationHours, "duration-hours", 24, "how long the delegated ticket is valid for")
	return cmd
}
