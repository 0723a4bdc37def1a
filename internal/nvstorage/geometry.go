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

import (
	"errors"
	"fmt"

	"golang.org/x/xerrors"
)

// SectorSize is the size of the unit in which the boot device is read and
// written.
const SectorSize = 512

// The properties that describe where the NV context lives on the boot
// device.
const (
	LBAProperty    = "nonvolatile-context-lba"
	OffsetProperty = "nonvolatile-context-offset"
	SizeProperty   = "nonvolatile-context-size"
)

// ErrInvalidGeometry is matched by any error that indicates that the NV
// context location published by the firmware is inconsistent.
var ErrInvalidGeometry = errors.New("invalid NV context geometry")

// GeometryError is returned when the NV context geometry is inconsistent
// with the expected NV context size or the sector size.
type GeometryError struct {
	Geometry Geometry
	msg      string
}

func (e *GeometryError) Error() string {
	return fmt.Sprintf("%v: %s", ErrInvalidGeometry, e.msg)
}

func (e *GeometryError) Is(target error) bool {
	return target == ErrInvalidGeometry
}

// IntReader provides integer properties.
type IntReader interface {
	ReadInt(name string) (uint32, error)
}

// Geometry describes the location of the NV context on the boot device.
type Geometry struct {
	LBA    uint32 // the sector containing the NV context
	Offset uint32 // the byte offset of the NV context within the sector
	Size   uint32 // the size of the NV context in bytes
}

// ReadGeometry reads the NV context geometry from the firmware properties.
func ReadGeometry(props IntReader) (*Geometry, error) {
	var g Geometry
	for _, p := range []struct {
		name string
		dest *uint32
	}{
		{LBAProperty, &g.LBA},
		{OffsetProperty, &g.Offset},
		{SizeProperty, &g.Size},
	} {
		v, err := props.ReadInt(p.name)
		if err != nil {
			return nil, xerrors.Errorf("cannot read NV context geometry: %w", err)
		}
		*p.dest = v
	}
	return &g, nil
}

// Check returns an error if the geometry doesn't describe a region of the
// expected size that lies entirely within a single sector.
func (g *Geometry) Check(expectedSize int) error {
	if uint64(g.Size) != uint64(expectedSize) {
		return &GeometryError{Geometry: *g, msg: fmt.Sprintf("size is %d bytes, expected %d", g.Size, expectedSize)}
	}
	if uint64(g.Offset)+uint64(g.Size) > SectorSize {
		return &GeometryError{Geometry: *g, msg: fmt.Sprintf("%d bytes at offset %d do not fit in a %d byte sector", g.Size, g.Offset, SectorSize)}
	}
	return nil
}

func (g *Geometry) sectorOffset() int64 {
	return int64(g.LBA) * SectorSize
}
