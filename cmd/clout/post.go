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
	"encoding/hex"
	"fmt"
	"time"

	cloutcrypto "github.com/clout-protocol/clout/crypto"
	"github.com/clout-protocol/clout/ports"
	"github.com/clout-protocol/clout/reputation"
	"github.com/clout-protocol/clout/state"
	"github.com/spf13/cobra"
)

func newPostCmd() *cobra.Command {
	var contentType string
	var nsfw bool

	cmd := &cobra.Command{
		Use:   "post <text>",
		Short: "Sign and publish a post to the local feed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp(flagConfigPath, flagDataDir)
			if err != nil {
				return err
			}
			p, err := a.createPost(args[0], nil, contentType, nsfw)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), p.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&contentType, "type", "text", "content type used for reputation gating")
	cmd.Flags().BoolVar(&nsfw, "nsfw", false, "mark the post as NSFW")
	return cmd
}

func newReplyCmd() *cobra.Command {
	var contentType string
	var nsfw bool

	cmd := &cobra.Command{
		Use:   "reply <post-id> <text>",
		Short: "Reply to an existing post",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp(flagConfigPath, flagDataDir)
			if err != nil {
				return err
			}
			parent := args[0]
			if _, ok := a.doc.GetPost(parent); !ok {
				return fmt.Errorf("no such post: %s", parent)
			}
			p, err := a.createPost(args[1], &parent, contentType, nsfw)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), p.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&contentType, "type", "text", "content type used for reputation gating")
	cmd.Flags().BoolVar(&nsfw, "nsfw", false, "mark the post as NSFW")
	return cmd
}

// createPost signs content, timestamps it through the local notary, and
// persists it to both the in-memory document and the on-disk store.
func (a *app) createPost(content string, replyTo *string, contentType string, nsfw bool) (state.Post, error) {
	now := time.Now()
	nowMs := now.UnixMilli()

	signable := map[string]any{
		"author":      a.id.PublicKeyHex(),
		"content":     content,
		"contentType": contentType,
		"replyTo":     replyTo,
		"timestampMs": nowMs,
	}
	contentHash := cloutcrypto.CanonicalHash(signable)
	sig, err := a.id.Sign(cloutcrypto.CanonicalEncode(signable))
	if err != nil {
		return state.Post{}, fmt.Errorf("failed to sign post: %w", err)
	}

	ctx := context.Background()
	attestation, err := a.notary.Timestamp(ctx, contentHash)
	if err != nil {
		return state.Post{}, fmt.Errorf("failed to timestamp post: %w", err)
	}
	attBytes, err := marshalJSON(attestation)
	if err != nil {
		return state.Post{}, err
	}

	p := state.Post{
		ID:              hex.EncodeToString(contentHash[:]),
		Content:         &content,
		Author:          a.id.PublicKeyHex(),
		Signature:       sig,
		SignatureTimeMs: nowMs,
		Attestation:     attBytes,
		ReplyTo:         replyTo,
		ContentType:     contentType,
		NSFW:            nsfw,
		TimestampMs:     nowMs,
	}

	decision := a.engine.ValidatePost(reputation.Post{
		Author:      p.Author,
		ContentType: p.ContentType,
		TimestampMs: p.TimestampMs,
	}, contentHash, attBytes)
	if !decision.Valid {
		return state.Post{}, fmt.Errorf("post rejected: %s", decision.Reason)
	}

	if !a.doc.AddPost(p) {
		return state.Post{}, fmt.Errorf("duplicate post id %s", p.ID)
	}

	if err := a.persist(ctx, ports.SectionPosts, p.ID, p); err != nil {
		return state.Post{}, err
	}
	return p, nil
}
