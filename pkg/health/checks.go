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

package health

import (
	"context"
	"fmt"
)

// NotaryHealthCheck wraps a ping function against the notary port. A nil
// ping reports the notary as unconfigured rather than panicking.
func NotaryHealthCheck(ping func(ctx context.Context) error) CheckFunc {
	return func(ctx context.Context) error {
		if ping == nil {
			return fmt.Errorf("notary not configured")
		}
		return ping(ctx)
	}
}

// SybilHealthCheck wraps a ping function against the sybil issuer port.
func SybilHealthCheck(ping func(ctx context.Context) error) CheckFunc {
	return func(ctx context.Context) error {
		if ping == nil {
			return fmt.Errorf("sybil issuer not configured")
		}
		return ping(ctx)
	}
}

// StorageHealthCheck wraps a ping function against the persistence
// backend (e.g. a postgres connection pool's Ping).
func StorageHealthCheck(ping func(ctx context.Context) error) CheckFunc {
	return func(ctx context.Context) error {
		if ping == nil {
			return fmt.Errorf("storage backend not configured")
		}
		return ping(ctx)
	}
}

// RelayHealthCheck reports unhealthy when connectionCount returns a
// negative value, the sentinel a relay client uses to mean "never
// connected".
func RelayHealthCheck(connectionCount func() int) CheckFunc {
	return func(ctx context.Context) error {
		if connectionCount == nil {
			return fmt.Errorf("relay not configured")
		}
		if connectionCount() < 0 {
			return fmt.Errorf("relay connection not established")
		}
		return nil
	}
}

// ServiceHealthCheck probes an arbitrary HTTP-reachable dependency by
// URL, for endpoints with no dedicated constructor above.
func ServiceHealthCheck(url string, probe func(ctx context.Context, url string) error) CheckFunc {
	return func(ctx context.Context) error {
		if probe == nil {
			return fmt.Errorf("service probe not configured")
		}
		return probe(ctx, url)
	}
}

// SystemResourceHealthCheck reports unhealthy when local memory or disk
// pressure crosses CheckSystem's unhealthy thresholds.
func SystemResourceHealthCheck() CheckFunc {
	return func(ctx context.Context) error {
		sys := CheckSystem()
		if sys.Status == StatusUnhealthy {
			if sys.Error != "" {
				return fmt.Errorf("system resources unhealthy: %s", sys.Error)
			}
			return fmt.Errorf("system resources unhealthy: memory %.1f%%, disk %.1f%%", sys.MemoryPercent, sys.DiskPercent)
		}
		return nil
	}
}
