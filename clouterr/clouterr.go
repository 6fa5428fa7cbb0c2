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

// Package clouterr defines the error-kind taxonomy every subsystem
// reports through: a fixed set of sentinel kinds, each satisfying
// errors.Is, wrapping an underlying cause the way the rest of the
// module wraps lower errors with fmt.Errorf("...: %w", err).
package clouterr

import (
	"errors"
	"fmt"
)

// Kind is one of the module's fixed error categories. Kind values are
// sentinels: callers compare with errors.Is, never by inspecting a
// concrete type.
type Kind error

var (
	InvalidInput = Kind(errors.New("invalid input"))
	Unauthorized = Kind(errors.New("unauthorized"))
	Replay       = Kind(errors.New("replay"))
	Expired      = Kind(errors.New("expired"))
	RateLimited  = Kind(errors.New("rate limited"))
	Unavailable  = Kind(errors.New("unavailable"))
	Conflict     = Kind(errors.New("conflict"))
	NotFound     = Kind(errors.New("not found"))
	FatalConfig  = Kind(errors.New("fatal configuration error"))
)

// clError pairs a Kind with a message and an optional wrapped cause, so
// errors.Is(err, clouterr.Unauthorized) works while the original cause
// still prints and unwraps.
type clError struct {
	kind  Kind
	msg   string
	cause error
}

func (e *clError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.msg, e.cause)
	}
	return e.msg
}

func (e *clError) Unwrap() error {
	return e.cause
}

func (e *clError) Is(target error) bool {
	return target == e.kind
}

// New constructs a Kind-tagged error with no wrapped cause.
func New(kind Kind, msg string) error {
	return &clError{kind: kind, msg: msg}
}

// Wrap constructs a Kind-tagged error wrapping cause.
func Wrap(kind Kind, msg string, cause error) error {
	return &clError{kind: kind, msg: msg, cause: cause}
}

// Is reports whether err (or anything it wraps) is tagged with kind.
func Is(err error, kind Kind) bool {
	return errors.Is(err, kind)
}
