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
	"encoding/binary"
	"fmt"

	"golang.org/x/xerrors"
)

const (
	sharedDataProperty = "vboot-shared-data"

	// SharedDataMagic is the magic value at the start of the shared data
	// ("VSDB" when read as a little-endian integer).
	SharedDataMagic uint32 = 0x44425356

	sharedDataHeaderSize = 12
)

// SharedData is the verified boot shared data, which the firmware uses to
// describe how the system was booted.
type SharedData struct {
	Magic         uint32
	StructVersion uint32
	StructSize    uint32

	// Raw is the complete shared data, including the header.
	Raw []byte
}

// ReadSharedData reads the verified boot shared data published by the
// firmware and checks its magic.
func (p *Platform) ReadSharedData() (*SharedData, error) {
	data, err := p.props.ReadBlob(sharedDataProperty)
	if err != nil {
		return nil, xerrors.Errorf("cannot read shared data: %w", err)
	}
	if len(data) < sharedDataHeaderSize {
		return nil, fmt.Errorf("%w: truncated header (%d bytes)", ErrInvalidSharedData, len(data))
	}

	sd := &SharedData{
		Magic:         binary.LittleEndian.Uint32(data[0:]),
		StructVersion: binary.LittleEndian.Uint32(data[4:]),
		StructSize:    binary.LittleEndian.Uint32(data[8:]),
		Raw:           data,
	}
	if sd.Magic != SharedDataMagic {
		fmt.Fprintf(stderr, "crossystem.Platform.ReadSharedData: invalid magic (%x != %x)\n", sd.Magic, SharedDataMagic)
		return nil, fmt.Errorf("%w: invalid magic %#x", ErrInvalidSharedData, sd.Magic)
	}
	return sd, nil
}

// ReadSharedData reads the verified boot shared data of the running system.
func ReadSharedData() (*SharedData, error) {
	p, err := defaultPlatform()
	if err != nil {
		return nil, err
	}
	return p.ReadSharedData()
}
