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
	"fmt"
	"os"
	"path/filepath"

	"github.com/clout-protocol/clout/identity"
	"github.com/spf13/cobra"
)

// newIdentityCmd prints the local peer's public address, generating a
// fresh identity on first run.
func newIdentityCmd() *cobra.Command {
	var regenerate bool

	cmd := &cobra.Command{
		Use:   "identity",
		Short: "Show (or generate) the local peer identity",
		RunE: func(cmd *cobra.Command, args []string) error {
			keyPath := filepath.Join(flagDataDir, "identity.key")

			if regenerate {
				if err := os.MkdirAll(flagDataDir, 0o755); err != nil {
					return err
				}
				id, err := identity.New()
				if err != nil {
					return err
				}
				if err := os.WriteFile(keyPath, []byte(id.SeedHex()+"\n"), 0o600); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), id.PublicKeyHex())
				return nil
			}

			a, err := loadApp(flagConfigPath, flagDataDir)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), a.id.PublicKeyHex())
			return nil
		},
	}

	cmd.Flags().BoolVar(&regenerate, "new", false, "discard the existing identity and generate a new one")
	return cmd
}
