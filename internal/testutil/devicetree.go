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

package testutil

import (
	"encoding/binary"
	"os"
	"path/filepath"
	"strings"

	. "gopkg.in/check.v1"
)

// BE32 encodes the supplied values as consecutive big-endian 32-bit cells,
// which is how integers are stored in the device tree.
func BE32(vals ...uint32) []byte {
	out := make([]byte, 4*len(vals))
	for i, v := range vals {
		binary.BigEndian.PutUint32(out[4*i:], v)
	}
	return out
}

// MultiString encodes the supplied strings as a device tree string list,
// with each string NUL terminated.
func MultiString(strs ...string) []byte {
	return []byte(strings.Join(strs, "\x00") + "\x00")
}

// DeviceTree is a fake device tree exposed as a filesystem in the same way
// as /proc/device-tree.
type DeviceTree struct {
	Root string
}

// NewDeviceTree creates an empty device tree with a firmware node in a
// temporary directory.
func NewDeviceTree(c *C) *DeviceTree {
	t := &DeviceTree{Root: c.MkDir()}
	c.Assert(os.MkdirAll(t.FirmwareDir(), 0755), IsNil)
	return t
}

// FirmwareDir is the node containing the firmware published properties.
func (t *DeviceTree) FirmwareDir() string {
	return filepath.Join(t.Root, "firmware/chromeos")
}

// CompatiblePath is the path of the root node compatible property.
func (t *DeviceTree) CompatiblePath() string {
	return filepath.Join(t.Root, "compatible")
}

// SetProperty creates a property in the firmware node.
func (t *DeviceTree) SetProperty(c *C, name string, value []byte) {
	path := filepath.Join(t.FirmwareDir(), name)
	c.Assert(os.MkdirAll(filepath.Dir(path), 0755), IsNil)
	c.Assert(os.WriteFile(path, value, 0644), IsNil)
}

// SetInt creates a 32-bit integer property in the firmware node.
func (t *DeviceTree) SetInt(c *C, name string, value uint32) {
	t.SetProperty(c, name, BE32(value))
}

// SetString creates a NUL terminated string property in the firmware node.
func (t *DeviceTree) SetString(c *C, name, value string) {
	t.SetProperty(c, name, []byte(value+"\x00"))
}

// SetFlag creates an empty property in the firmware node, which is how
// boolean properties are represented.
func (t *DeviceTree) SetFlag(c *C, name string) {
	t.SetProperty(c, name, nil)
}

// SetGPIODescriptor creates a GPIO descriptor property in the firmware node.
func (t *DeviceTree) SetGPIODescriptor(c *C, name string, phandle, gpio, polarity uint32) {
	t.SetProperty(c, name, BE32(phandle, gpio, polarity))
}

// SetNVContextGeometry creates the properties describing the location of
// the NV context on the boot device.
func (t *DeviceTree) SetNVContextGeometry(c *C, lba, offset, size uint32) {
	t.SetInt(c, "nonvolatile-context-lba", lba)
	t.SetInt(c, "nonvolatile-context-offset", offset)
	t.SetInt(c, "nonvolatile-context-size", size)
}

// SetCompatible creates the root node compatible property.
func (t *DeviceTree) SetCompatible(c *C, compatible ...string) {
	c.Assert(os.WriteFile(t.CompatiblePath(), MultiString(compatible...), 0644), IsNil)
}
