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
	"encoding/hex"
)

// NVContextSize is the size of the verified boot NV context.
const NVContextSize = 16

// NVContext is the verified boot non-volatile context, which the firmware
// uses to pass persistent flags between boots.
type NVContext struct {
	Raw [NVContextSize]byte
}

func (c *NVContext) String() string {
	return hex.EncodeToString(c.Raw[:])
}

// ReadNVContext reads the NV context from the boot device. The context is
// not modified if this fails.
func (p *Platform) ReadNVContext(ctx *NVContext) error {
	return p.nvctx.Read(ctx.Raw[:])
}

// WriteNVContext writes the NV context to the boot device. The rest of the
// sector that contains it is preserved.
func (p *Platform) WriteNVContext(ctx *NVContext) error {
	return p.nvctx.Write(ctx.Raw[:])
}

// ReadNVContext reads the NV context from the boot device of the running
// system.
func ReadNVContext(ctx *NVContext) error {
	p, err := defaultPlatform()
	if err != nil {
		return err
	}
	return p.ReadNVContext(ctx)
}

// WriteNVContext writes the NV context to the boot device of the running
// system.
func WriteNVContext(ctx *NVContext) error {
	p, err := defaultPlatform()
	if err != nil {
		return err
	}
	return p.WriteNVContext(ctx)
}
