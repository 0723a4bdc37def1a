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

package nvstorage

import "os"

type Device = device

func MockOpenDevice(fn func(string, int) (Device, error)) (restore func()) {
	orig := openDevice
	openDevice = fn
	return func() {
		openDevice = orig
	}
}

func MockUnixIoctlSetInt(fn func(int, uint, int) error) (restore func()) {
	orig := unixIoctlSetInt
	unixIoctlSetInt = fn
	return func() {
		unixIoctlSetInt = orig
	}
}

func MockIsBlockDevice(fn func(os.FileMode) bool) (restore func()) {
	orig := isBlockDevice
	isBlockDevice = fn
	return func() {
		isBlockDevice = orig
	}
}
