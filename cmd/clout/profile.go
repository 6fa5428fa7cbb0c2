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

	"github.com/clout-protocol/clout/ports"
	"github.com/clout-protocol/clout/state"
	"github.com/spf13/cobra"
)

// newProfileCmd shows the local profile, or updates display name/bio
// when --name/--bio are given.
func newProfileCmd() *cobra.Command {
	var displayName, bio string

	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Show or update the local profile",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp(flagConfigPath, flagDataDir)
			if err != nil {
				return err
			}

			ctx := context.Background()
			raw, ok, err := a.store.Get(ctx, ports.SectionNicknames, a.id.PublicKeyHex())
			if err != nil {
				return err
			}
			profile := a.doc.Profile()
			if ok {
				_ = unmarshalJSON(raw, &profile)
			}

			now := time.Now().UnixMilli()
			changed := false
			if displayName != "" {
				profile.DisplayName = state.FieldValue{Value: displayName, TimestampMs: now}
				changed = true
			}
			if bio != "" {
				profile.Bio = state.FieldValue{Value: bio, TimestampMs: now}
				changed = true
			}

			if changed {
				a.doc.UpdateProfile(profile)
				profile = a.doc.Profile()
				if err := a.persist(ctx, ports.SectionNicknames, a.id.PublicKeyHex(), profile); err != nil {
					return err
				}
			}

			fmt.Fprintf(cmd.OutOrStdout(), "identity: %s\nname: %s\nbio: %s\ntrusted peers: %d\n",
				a.id.PublicKeyHex(), profile.DisplayName.Value, profile.Bio.Value, len(profile.TrustSet))
			return nil
		},
	}

	cmd.Flags().StringVar(&displayName, "name", "", "set the display name")
	cmd.Flags().StringVar(&bio, "bio", "", "set the bio")
	return cmd
}
