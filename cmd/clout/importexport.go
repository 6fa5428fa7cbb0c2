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
	"os"

	"github.com/clout-protocol/clout/persistence/memory"
	"github.com/clout-protocol/clout/ports"
	"github.com/clout-protocol/clout/state"
	"github.com/clout-protocol/clout/trustgraph"
	"github.com/spf13/cobra"
)

// allSections lists every section the key-structured document defines, so
// import can merge section-by-section without decoding into the concrete
// domain types each section holds.
var allSections = []ports.Section{
	ports.SectionPosts,
	ports.SectionSlides,
	ports.SectionRetractions,
	ports.SectionReactions,
	ports.SectionBookmarks,
	ports.SectionTickets,
	ports.SectionTrustEdges,
	ports.SectionNicknames,
	ports.SectionTags,
	ports.SectionMutes,
	ports.SectionNotifications,
}

// newExportCmd writes the locally persisted state document (the single
// JSON-shaped document keyed by section) to a file, or stdout with "-".
func newExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export <path>",
		Short: "Export the local state document as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp(flagConfigPath, flagDataDir)
			if err != nil {
				return err
			}
			raw, err := a.store.DumpJSON()
			if err != nil {
				return err
			}
			if args[0] == "-" {
				fmt.Fprintln(cmd.OutOrStdout(), string(raw))
				return nil
			}
			return os.WriteFile(args[0], raw, 0o644)
		},
	}
	return cmd
}

// newImportCmd loads a state document previously produced by export. With
// --merge it overlays the imported sections onto the existing store
// (imported values win on a key collision); otherwise it replaces the
// store outright. Either way it re-derives the in-memory document and
// trust graph from the result before exiting.
func newImportCmd() *cobra.Command {
	var merge bool

	cmd := &cobra.Command{
		Use:   "import <path>",
		Short: "Import a state document previously produced by export",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp(flagConfigPath, flagDataDir)
			if err != nil {
				return err
			}

			raw, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("failed to read import file: %w", err)
			}

			ctx := context.Background()

			if !merge {
				a.store.Clear()
				if err := a.store.LoadJSON(raw); err != nil {
					return fmt.Errorf("failed to parse import file: %w", err)
				}
			} else {
				imported := memory.NewStore()
				if err := imported.LoadJSON(raw); err != nil {
					return fmt.Errorf("failed to parse import file: %w", err)
				}
				for _, section := range allSections {
					ids, err := imported.List(ctx, section)
					if err != nil {
						return err
					}
					for _, id := range ids {
						value, ok, err := imported.Get(ctx, section, id)
						if err != nil || !ok {
							continue
						}
						if err := a.store.Put(ctx, section, id, value); err != nil {
							return err
						}
					}
				}
			}

			a.doc = state.New(a.id.PublicKeyHex())
			a.graph = trustgraph.New(a.id.PublicKeyHex(), a.cfg.Trust.MaxHops, nil)
			if err := a.rehydrate(ctx); err != nil {
				return err
			}
			if err := a.flush(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "import complete")
			return nil
		},
	}

	cmd.Flags().BoolVar(&merge, "merge", false, "merge into existing state instead of replacing it")
	return cmd
}
