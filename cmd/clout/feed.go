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

	"github.com/clout-protocol/clout/state"
	"github.com/spf13/cobra"
)

// newFeedCmd lists every top-level (non-reply) post currently held
// locally whose author passes the reputation engine's visibility check,
// newest first.
func newFeedCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "feed",
		Short: "List locally known posts visible through the trust graph",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp(flagConfigPath, flagDataDir)
			if err != nil {
				return err
			}

			posts := a.doc.AllPosts()
			sort.Slice(posts, func(i, j int) bool { return posts[i].TimestampMs > posts[j].TimestampMs })

			for _, p := range posts {
				if p.ReplyTo != nil {
					continue
				}
				score := a.engine.Score(p.Author)
				if !score.Visible {
					continue
				}
				printPost(cmd, p, score.Score, score.Distance)
			}
			return nil
		},
	}
	return cmd
}

func printPost(cmd *cobra.Command, p state.Post, score float64, distance int) {
	content := "[decayed]"
	if p.Content != nil {
		content = *p.Content
	}
	nsfw := ""
	if p.NSFW {
		nsfw = " [nsfw]"
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s  (%s, hop=%d, rep=%.2f)%s\n  %s\n",
		p.ID[:12], p.Author[:12], distance, score, nsfw, content)
}
