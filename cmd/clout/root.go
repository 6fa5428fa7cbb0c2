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

	"github.com/clout-protocol/clout/pkg/version"
	"github.com/spf13/cobra"
)

var (
	flagConfigPath string
	flagDataDir    string
)

// newRootCmd builds the clout command tree. Every subcommand loads its
// own app instance lazily (via loadApp in its RunE) rather than sharing
// package-level state, so tests can invoke commands without a shared
// process-wide singleton.
func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "clout",
		Short:         "A local client for the CLOUT reputation protocol",
		Version:       version.Short(),
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	root.PersistentFlags().StringVar(&flagConfigPath, "config", "config/config.yaml", "path to a config file")
	root.PersistentFlags().StringVar(&flagDataDir, "data-dir", defaultDataDir(), "directory holding the local identity key and persisted state")

	root.AddCommand(
		newIdentityCmd(),
		newPostCmd(),
		newReplyCmd(),
		newTrustCmd(),
		newFeedCmd(),
		newThreadCmd(),
		newSlideCmd(),
		newSlidesCmd(),
		newProfileCmd(),
		newInviteCmd(),
		newTicketCmd(),
		newImportCmd(),
		newExportCmd(),
	)
	return root
}

func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".clout"
	}
	return home + "/.clout"
}

// Execute runs the CLI and maps any returned error to exit code 1, per
// the CLI surface's exit-code contract: 0 ok, 1 for either a user error
// or a transient failure, with the message on stderr in both cases.
func Execute() int {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "clout:", err)
		return 1
	}
	return 0
}
