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

package ports

import "context"

// FederatedToken is a sybil-resistance token imported from another
// community, carrying its source issuer and expiry.
type FederatedToken struct {
	SourceIssuerID string
	Token          []byte
	ExpiresAtMs    int64
}

// SybilIssuer verifies opaque blinded sybil-resistance tokens. CLOUT
// never issues tokens itself (blinding happens client-side); it only
// verifies what the issuer hands back.
type SybilIssuer interface {
	VerifyToken(ctx context.Context, token []byte) (bool, error)
	VerifyFederatedToken(ctx context.Context, token FederatedToken) (bool, error)
}
