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
	"sort"

	"github.com/spf13/cobra"
)

// newThreadCmd prints a post and every reply that chains from it,
// breadth-first, oldest first within each level.
func newThreadCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "thread <post-id>",
		Short: "Show a post and its replies",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp(flagConfigPath, flagDataDir)
			if err != nil {
				return err
			}

			root, ok := a.doc.GetPost(args[0])
			if !ok {
				return fmt.Errorf("no such post: %s", args[0])
			}

			rootScore := a.engine.Score(root.Author)
			printPost(cmd, root, rootScore.Score, rootScore.Distance)

			all := a.doc.AllPosts()
			replies := make(map[string][]int)
			for i, p := range all {
				if p.ReplyTo != nil {
					replies[*p.ReplyTo] = append(replies[*p.ReplyTo], i)
				}
			}

			queue := []string{root.ID}
			for len(queue) > 0 {
				id := queue[0]
				queue = queue[1:]

				idxs := replies[id]
				sort.Slice(idxs, func(i, j int) bool { return all[idxs[i]].TimestampMs < all[idxs[j]].TimestampMs })
				for _, idx := range idxs {
					p := all[idx]
					score := a.engine.Score(p.Author)
					if !score.Visible {
						continue
					}
					printPost(cmd, p, score.Score, score.Distance)
					queue = append(queue, p.ID)
				}
			}
			return nil
		},
	}
	return cmd
}
