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

package fdt

import (
	"io"
	"os"

	"github.com/u-root/u-root/pkg/dt"
)

func MockOsOpen(fn func(string) (*os.File, error)) (restore func()) {
	orig := osOpen
	osOpen = fn
	return func() {
		osOpen = orig
	}
}

func MockDtReadFDT(fn func(io.ReadSeeker) (*dt.FDT, error)) (restore func()) {
	orig := dtReadFDT
	dtReadFDT = fn
	return func() {
		dtReadFDT = orig
	}
}

func MockMaxPropertySize(n int64) (restore func()) {
	orig := MaxPropertySize
	MaxPropertySize = n
	return func() {
		MaxPropertySize = orig
	}
}
