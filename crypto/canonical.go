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

package crypto

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// CanonicalEncode produces a deterministic byte string for v so that
// signatures over structured values are reproducible across peers: map
// keys sorted, byte slices hex-encoded, numbers rendered decimal (floats
// as IEEE-754-shortest round-trippable), and absent/nil fields omitted
// entirely rather than encoded as null.
func CanonicalEncode(v any) []byte {
	var b strings.Builder
	encodeValue(&b, v)
	return []byte(b.String())
}

// CanonicalHash returns the SHA-256-strength hash (via CanonicalEncode) of
// v, suitable as the message signed over an envelope or trust edge.
func CanonicalHash(v any) [32]byte {
	return sha256.Sum256(CanonicalEncode(v))
}

func encodeValue(b *strings.Builder, v any) {
	switch t := v.(type) {
	case nil:
		b.WriteString("null")
	case bool:
		if t {
			b.WriteString("true")
		} else {
			b.WriteString("false")
		}
	case string:
		b.WriteByte('"')
		b.WriteString(t)
		b.WriteByte('"')
	case []byte:
		b.WriteByte('"')
		b.WriteString(hex.EncodeToString(t))
		b.WriteByte('"')
	case int:
		b.WriteString(strconv.Itoa(t))
	case int64:
		b.WriteString(strconv.FormatInt(t, 10))
	case uint64:
		b.WriteString(strconv.FormatUint(t, 10))
	case float64:
		b.WriteString(strconv.FormatFloat(t, 'g', -1, 64))
	case map[string]any:
		encodeMap(b, t)
	case []any:
		b.WriteByte('[')
		for i, item := range t {
			if i > 0 {
				b.WriteByte(',')
			}
			encodeValue(b, item)
		}
		b.WriteByte(']')
	default:
		b.WriteString(fmt.Sprintf("%v", t))
	}
}

func encodeMap(b *strings.Builder, m map[string]any) {
	keys := make([]string, 0, len(m))
	for k, v := range m {
		if v == nil {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	b.WriteByte('{')
	for i, k := range keys {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteByte('"')
		b.WriteString(k)
		b.WriteByte('"')
		b.WriteByte(':')
		encodeValue(b, m[k])
	}
	b.WriteByte('}')
}
