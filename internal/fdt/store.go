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

// Package fdt provides point lookups of properties published by the boot
// firmware in the device tree.
package fdt

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"golang.org/x/xerrors"
)

// MaxPropertySize is the size of the largest record that will be buffered
// by ReadBlob.
var MaxPropertySize int64 = 1 << 20

var (
	// ErrNotFound is returned when a property record does not exist or
	// cannot be opened.
	ErrNotFound = errors.New("property not found")

	// ErrOutOfMemory is returned when a buffer for a property record cannot
	// be allocated.
	ErrOutOfMemory = errors.New("cannot allocate buffer for property")
)

// PropertyNotFoundError is returned from any Store method that opens a
// record that cannot be opened. It matches ErrNotFound with errors.Is.
type PropertyNotFoundError struct {
	Name string
	err  error
}

func (e *PropertyNotFoundError) Error() string {
	if e.err == nil {
		return fmt.Sprintf("property %s not found", e.Name)
	}
	return fmt.Sprintf("property %s not found: %v", e.Name, e.err)
}

func (e *PropertyNotFoundError) Unwrap() error {
	return e.err
}

func (e *PropertyNotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// backend provides access to the raw records of a property tree. Names
// starting with "/" are absolute, and all other names are relative to the
// firmware node.
type backend interface {
	open(name string) (r io.ReadCloser, size int64, err error)
	exists(name string) bool
}

// Store provides read-only access to the properties in a device tree.
type Store struct {
	backend backend
}

func (s *Store) open(name string) (io.ReadCloser, int64, error) {
	r, size, err := s.backend.open(name)
	if err != nil {
		return nil, 0, &PropertyNotFoundError{Name: name, err: err}
	}
	return r, size, nil
}

// ReadInt reads the big-endian 32-bit integer property with the specified
// name. If the record is shorter than 4 bytes, the missing low-order bytes
// are zero.
func (s *Store) ReadInt(name string) (uint32, error) {
	r, _, err := s.open(name)
	if err != nil {
		return 0, err
	}
	defer r.Close()

	var buf [4]byte
	switch _, err := io.ReadFull(r, buf[:]); {
	case err == io.EOF || err == io.ErrUnexpectedEOF:
	case err != nil:
		return 0, xerrors.Errorf("cannot read property %s: %w", name, err)
	}
	return binary.BigEndian.Uint32(buf[:]), nil
}

// ReadBool returns whether the property with the specified name exists. A
// missing property is false rather than an error.
func (s *Store) ReadBool(name string) bool {
	return s.backend.exists(name)
}

// ReadBlob returns the entire contents of the property with the specified
// name. An empty property returns an empty slice. The returned slice is owned
// by the caller.
func (s *Store) ReadBlob(name string) ([]byte, error) {
	r, size, err := s.open(name)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	if size < 0 || size > MaxPropertySize {
		return nil, xerrors.Errorf("cannot read property %s with size %d: %w", name, size, ErrOutOfMemory)
	}

	data := make([]byte, size)
	if _, err := io.ReadFull(r, data); err != nil {
		return nil, xerrors.Errorf("cannot read property %s: %w", name, err)
	}
	return data, nil
}

// ReadString returns the property with the specified name as a string,
// up to the first NUL byte.
func (s *Store) ReadString(name string) (string, error) {
	data, err := s.ReadBlob(name)
	if err != nil {
		return "", err
	}
	return cString(data), nil
}

func cString(data []byte) string {
	for i, b := range data {
		if b == 0 {
			return string(data[:i])
		}
	}
	return string(data)
}
