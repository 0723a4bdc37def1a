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
	"io"

	"github.com/snapcore/crossystem/internal/fdt"
)

func MockStderr(w io.Writer) (restore func()) {
	orig := stderr
	stderr = w
	return func() {
		stderr = orig
	}
}

func MockFdtLoadBlobStore(fn func(path, mountPoint, nodePath string) (*fdt.Store, error)) (restore func()) {
	orig := fdtLoadBlobStore
	fdtLoadBlobStore = fn
	return func() {
		fdtLoadBlobStore = orig
	}
}
