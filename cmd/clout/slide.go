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
	"crypto/ed25519"
	"encoding/hex"
	"fmt"
	"time"

	cloutcrypto "github.com/clout-protocol/clout/crypto"
	"github.com/clout-protocol/clout/crypto/keys"
	"github.com/clout-protocol/clout/ports"
	"github.com/clout-protocol/clout/state"
	"github.com/spf13/cobra"
)

// newSlideCmd seals a private message to a recipient's Ed25519 identity
// key and stores it locally under the slides section, the same way a
// relay-forwarded slide would land in the recipient's inbox.
func newSlideCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "slide <recipient-pubkey-hex> <text>",
		Short: "Send a private end-to-end encrypted message",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp(flagConfigPath, flagDataDir)
			if err != nil {
				return err
			}

			recipientPub, err := hex.DecodeString(args[0])
			if err != nil || len(recipientPub) != ed25519.PublicKeySize {
				return fmt.Errorf("invalid recipient public key: %s", args[0])
			}

			ephPub, commitment, nonce, ciphertext, err := keys.SealTrustSignal(ed25519.PublicKey(recipientPub), []byte(args[1]))
			if err != nil {
				return fmt.Errorf("failed to seal slide: %w", err)
			}

			now := time.Now().UnixMilli()
			sig, err := a.id.Sign(cloutcrypto.CanonicalEncode(map[string]any{
				"commitment":  commitment,
				"ephemeral":   ephPub,
				"nonce":       nonce,
				"ciphertext":  ciphertext,
				"timestampMs": now,
			}))
			if err != nil {
				return fmt.Errorf("failed to sign slide: %w", err)
			}

			id := hex.EncodeToString(cloutcrypto.CanonicalHash(commitment)[:])
			slide := state.Slide{
				ID:                  id,
				Sender:              a.id.PublicKeyHex(),
				RecipientCommitment: commitment,
				EphemeralPubKey:     ephPub,
				Nonce:               nonce,
				Ciphertext:          ciphertext,
				Signature:           sig,
				TimestampMs:         now,
			}

			ctx := context.Background()
			if err := a.persist(ctx, ports.SectionSlides, slide.ID, slide); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), slide.ID)
			return nil
		},
	}
	return cmd
}

// newSlidesCmd lists every locally stored slide this identity can open,
// decrypting each with the local private key.
func newSlidesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "slides",
		Short: "List and decrypt private messages addressed to this identity",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp(flagConfigPath, flagDataDir)
			if err != nil {
				return err
			}

			priv, ok := a.id.KeyPair().PrivateKey().(ed25519.PrivateKey)
			if !ok {
				return fmt.Errorf("local identity has no usable Ed25519 private key")
			}

			ctx := context.Background()
			ids, err := a.store.List(ctx, ports.SectionSlides)
			if err != nil {
				return err
			}
			for _, id := range ids {
				raw, ok, err := a.store.Get(ctx, ports.SectionSlides, id)
				if err != nil || !ok {
					continue
				}
				var slide state.Slide
				if err := unmarshalJSON(raw, &slide); err != nil {
					continue
				}
				plaintext, err := keys.OpenTrustSignal(priv, slide.EphemeralPubKey, slide.Nonce, slide.Ciphertext)
				if err != nil {
					continue // not addressed to us, or sealed with a stale key
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s  from %s\n  %s\n", slide.ID[:12], slide.Sender[:12], string(plaintext))
			}
			return nil
		},
	}
	return cmd
}
