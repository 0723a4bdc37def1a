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

package platform

import "bytes"

// CompatibleStrings iterates over the entries of a device tree string list,
// such as the compatible property. The zero value is an empty list.
//
// An unterminated final entry extends to the end of the data.
type CompatibleStrings struct {
	data   []byte
	offset int
	value  string
}

// NewCompatibleStrings returns an iterator for the supplied string list.
// The data must not be modified whilst the iterator is in use.
func NewCompatibleStrings(data []byte) *CompatibleStrings {
	return &CompatibleStrings{data: data}
}

// Next advances to the next entry, returning false once the offset reaches
// the end of the data.
func (s *CompatibleStrings) Next() bool {
	if s.offset >= len(s.data) {
		s.value = ""
		return false
	}

	rest := s.data[s.offset:]
	n := bytes.IndexByte(rest, 0)
	if n < 0 {
		n = len(rest)
	}
	s.value = string(rest[:n])
	s.offset += n + 1
	return true
}

// Value returns the current entry.
func (s *CompatibleStrings) Value() string {
	return s.value
}

// Reset rewinds the iterator to the first entry.
func (s *CompatibleStrings) Reset() {
	s.offset = 0
	s.value = ""
}

// All returns every entry.
func (s *CompatibleStrings) All() (out []string) {
	s.Reset()
	for s.Next() {
		out = append(out, s.Value())
	}
	s.Reset()
	return out
}
