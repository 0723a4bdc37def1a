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

// Package nvstorage reads and writes the verified boot NV context, which
// lives in part of a sector on the boot device.
package nvstorage

import (
	"fmt"
	"io"
	"os"

	"golang.org/x/xerrors"
)

// DeviceLocator finds the boot device. It is consulted on every access.
type DeviceLocator interface {
	FindBootDevicePath() (string, error)
}

// Accessor provides access to a NV context of a fixed size. It keeps no
// state between calls - the geometry and boot device are looked up and the
// device is opened and closed again on every call.
type Accessor struct {
	props   IntReader
	locator DeviceLocator
	size    int
}

// NewAccessor returns a new Accessor for a NV context of the specified size.
func NewAccessor(props IntReader, locator DeviceLocator, size int) *Accessor {
	return &Accessor{
		props:   props,
		locator: locator,
		size:    size,
	}
}

// locate returns the geometry and boot device path. No device I/O happens
// here.
func (a *Accessor) locate(bufSize int) (*Geometry, string, error) {
	if bufSize != a.size {
		return nil, "", fmt.Errorf("invalid NV context buffer size %d, expected %d", bufSize, a.size)
	}

	g, err := ReadGeometry(a.props)
	if err != nil {
		return nil, "", err
	}
	if err := g.Check(a.size); err != nil {
		return nil, "", err
	}

	path, err := a.locator.FindBootDevicePath()
	if err != nil {
		return nil, "", xerrors.Errorf("cannot find boot device: %w", err)
	}
	return g, path, nil
}

// readSector reads the entire sector that contains the NV context. A short
// read is an error.
func readSector(r io.ReadSeeker, g *Geometry) ([]byte, error) {
	if _, err := r.Seek(g.sectorOffset(), io.SeekStart); err != nil {
		return nil, err
	}

	sector := make([]byte, SectorSize)
	if _, err := io.ReadFull(r, sector); err != nil {
		return nil, err
	}
	return sector, nil
}

// Read reads the NV context from the boot device into the supplied buffer,
// which must be the size of the NV context. The buffer is not modified if
// this fails.
func (a *Accessor) Read(buf []byte) error {
	g, path, err := a.locate(len(buf))
	if err != nil {
		return err
	}

	dev, err := openDevice(path, os.O_RDONLY)
	if err != nil {
		return xerrors.Errorf("cannot open boot device: %w", err)
	}
	defer dev.Close()

	sector, err := readSector(dev, g)
	if err != nil {
		return xerrors.Errorf("cannot read NV context from %s: %w", path, err)
	}

	copy(buf, sector[g.Offset:g.Offset+g.Size])
	return nil
}

// Write writes the supplied NV context to the boot device. The rest of the
// sector is preserved by reading it first, and nothing is written if that
// fails. Once written, the device is flushed.
//
// A failed write is not retried.
func (a *Accessor) Write(buf []byte) (err error) {
	g, path, err := a.locate(len(buf))
	if err != nil {
		return err
	}

	dev, err := openDevice(path, os.O_RDWR)
	if err != nil {
		return xerrors.Errorf("cannot open boot device: %w", err)
	}
	defer func() {
		if closeErr := dev.Close(); closeErr != nil && err == nil {
			err = xerrors.Errorf("cannot close boot device: %w", closeErr)
		}
	}()

	sector, err := readSector(dev, g)
	if err != nil {
		return xerrors.Errorf("cannot read existing sector from %s: %w", path, err)
	}

	copy(sector[g.Offset:g.Offset+g.Size], buf)

	if _, err := dev.Seek(g.sectorOffset(), io.SeekStart); err != nil {
		return xerrors.Errorf("cannot write NV context to %s: %w", path, err)
	}
	switch n, err := dev.Write(sector); {
	case err != nil:
		return xerrors.Errorf("cannot write NV context to %s: %w", path, err)
	case n != len(sector):
		return xerrors.Errorf("cannot write NV context to %s: %w", path, io.ErrShortWrite)
	}

	if err := dev.Flush(); err != nil {
		return xerrors.Errorf("cannot flush NV context to %s: %w", path, err)
	}
	return nil
}
