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

package paths

import "path/filepath"

var (
	// DeviceTreeRoot is where the kernel exposes the device tree as a
	// read-only pseudo-filesystem.
	DeviceTreeRoot = "/proc/device-tree"

	// FirmwareNodeDir is the device tree node containing the properties
	// published by the boot firmware.
	FirmwareNodeDir = filepath.Join(DeviceTreeRoot, "firmware/chromeos")

	// CompatiblePath is the root node compatible record.
	CompatiblePath = filepath.Join(DeviceTreeRoot, "compatible")

	// FlattenedDeviceTreePath is the raw flattened device tree blob that the
	// kernel was booted with.
	FlattenedDeviceTreePath = "/sys/firmware/fdt"

	SysfsDir    = "/sys"
	SysBlockDir = filepath.Join(SysfsDir, "block")
	GPIODir     = filepath.Join(SysfsDir, "class/gpio")

	DevDir = "/dev"
)
