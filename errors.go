// -*- Mode: Go; indent-tabs-mode: t -*-

/*
 * Copyright (C) 2024 Canonical Ltd
 *
 * This program is free software: you can redistribute it and/or modify
 * it under the terms of the GNU General Public License version 3 as
 * published by the Free Software Foundation.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU General Public License
 * along with this program.  If not, see <http://www.gnu.org/licenses/>.
 *
 */

package crossystem

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned from GetString when the requested property
	// is unknown or its value cannot be determined on this platform.
	ErrNotFound = errors.New("property not found")

	// ErrReadOnlyProperty is returned from any attempt to set a property.
	// Properties that can be written are handled independently of the
	// platform.
	ErrReadOnlyProperty = errors.New("property is read-only")

	// ErrInvalidSharedData is returned from ReadSharedData if the shared
	// data published by the firmware is truncated or has the wrong magic.
	ErrInvalidSharedData = errors.New("invalid verified boot shared data")
)

// PropertyError is returned from GetString when a property is unknown or
// its value cannot be obtained. It matches ErrNotFound with errors.Is.
type PropertyError struct {
	Name string
	err  error
}

func (e *PropertyError) Error() string {
	if e.err == nil {
		return fmt.Sprintf("unknown property %s", e.Name)
	}
	return fmt.Sprintf("cannot obtain property %s: %v", e.Name, e.err)
}

func (e *PropertyError) Unwrap() error {
	return e.err
}

func (e *PropertyError) Is(target error) bool {
	return target == ErrNotFound
}
