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

// Tests here exercise only what does not require a live PostgreSQL
// instance; end-to-end coverage of Put/Get/List against a real database
// belongs in an integration suite gated behind a DSN environment
// variable, not this unit package.
package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewStoreFailsFastOnUnreachableHost(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	_, err := NewStore(ctx, &Config{
		Host:     "127.0.0.1",
		Port:     1, // nothing listens here
		User:     "clout",
		Password: "clout",
		Database: "clout",
		SSLMode:  "disable",
	})
	assert.Error(t, err)
}
