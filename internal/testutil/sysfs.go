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
	"fmt"
	"os"
	"path/filepath"

	. "gopkg.in/check.v1"
)

// Sysfs is a fake sysfs tree containing the block device and GPIO
// attributes used during boot.
type Sysfs struct {
	Root string
}

func NewSysfs(c *C) *Sysfs {
	s := &Sysfs{Root: c.MkDir()}
	c.Assert(os.MkdirAll(s.BlockDir(), 0755), IsNil)
	c.Assert(os.MkdirAll(s.GPIODir(), 0755), IsNil)
	return s
}

func (s *Sysfs) BlockDir() string {
	return filepath.Join(s.Root, "block")
}

func (s *Sysfs) GPIODir() string {
	return filepath.Join(s.Root, "class/gpio")
}

func (s *Sysfs) writeAttr(c *C, path, value string) {
	c.Assert(os.MkdirAll(filepath.Dir(path), 0755), IsNil)
	c.Assert(os.WriteFile(path, []byte(value), 0644), IsNil)
}

// AddMMCBlockDevices creates a mmcblk device for each of the supplied
// removable attribute values, starting with mmcblk0.
func (s *Sysfs) AddMMCBlockDevices(c *C, removable ...int) {
	for i, r := range removable {
		s.writeAttr(c, filepath.Join(s.BlockDir(), fmt.Sprintf("mmcblk%d", i), "removable"), fmt.Sprintf("%d\n", r))
	}
}

// SetGPIOValue creates or updates the value attribute of an exported GPIO.
func (s *Sysfs) SetGPIOValue(c *C, gpio uint32, value int) {
	s.writeAttr(c, s.GPIOValuePath(gpio), fmt.Sprintf("%d\n", value))
}

func (s *Sysfs) GPIOValuePath(gpio uint32) string {
	return filepath.Join(s.GPIODir(), fmt.Sprintf("gpio%d", gpio), "value")
}

// AddGPIOExport creates the GPIO export control attribute.
func (s *Sysfs) AddGPIOExport(c *C) {
	s.writeAttr(c, s.GPIOExportPath(), "")
}

func (s *Sysfs) GPIOExportPath() string {
	return filepath.Join(s.GPIODir(), "export")
}
