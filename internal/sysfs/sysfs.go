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

// Package sysfs contains helpers for single value attribute files, such as
// those found in sysfs.
package sysfs

import (
	"os"
	"strconv"
	"strings"
)

// maxAttributeSize is the most that will be read from an attribute that is
// expected to contain a single integer.
const maxAttributeSize = 64

var osOpenFile = os.OpenFile

// ReadInt reads the integer value from the attribute file at the specified
// path. The value may be decimal, or hexadecimal or octal with the usual
// prefixes, and may be surrounded by whitespace.
//
// This returns -1 if the file cannot be read or does not contain an integer.
// Note that this means an attribute that genuinely contains -1 cannot be
// distinguished from one that is missing.
func ReadInt(path string) int {
	f, err := osOpenFile(path, os.O_RDONLY, 0)
	if err != nil {
		return -1
	}
	defer f.Close()

	buf := make([]byte, maxAttributeSize)
	n, err := f.Read(buf)
	if n == 0 && err != nil {
		return -1
	}

	v, err := strconv.ParseInt(strings.TrimSpace(string(buf[:n])), 0, 32)
	if err != nil {
		return -1
	}
	return int(v)
}

// WriteAttribute writes the supplied value to the existing attribute file at
// the specified path. The file is never created. Only a failure to open the
// attribute is returned - the kernel reports the outcome of a write through
// the state of other attributes, which the caller is expected to check.
func WriteAttribute(path, value string) error {
	f, err := osOpenFile(path, os.O_WRONLY|os.O_TRUNC, 0)
	if err != nil {
		return err
	}
	defer f.Close()

	f.WriteString(value)
	return nil
}
