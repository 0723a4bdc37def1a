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

package gpio

import "io"

func MockSysfsWriteAttribute(fn func(string, string) error) (restore func()) {
	orig := sysfsWriteAttribute
	sysfsWriteAttribute = fn
	return func() {
		sysfsWriteAttribute = orig
	}
}

func MockSysfsReadInt(fn func(string) int) (restore func()) {
	orig := sysfsReadInt
	sysfsReadInt = fn
	return func() {
		sysfsReadInt = orig
	}
}

func MockStderr(w io.Writer) (restore func()) {
	orig := stderr
	stderr = w
	return func() {
		stderr = orig
	}
}
