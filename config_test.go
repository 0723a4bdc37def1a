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

package crossystem_test

import (
	"strings"

	. "gopkg.in/check.v1"
	"gopkg.in/yaml.v2"

	. "github.com/snapcore/crossystem"
	"github.com/snapcore/crossystem/internal/paths"
)

type configSuite struct{}

var _ = Suite(&configSuite{})

func (s *configSuite) TestDefaultConfig(c *C) {
	config := DefaultConfig()
	c.Check(config, DeepEquals, Config{
		DeviceTreeRoot:  paths.DeviceTreeRoot,
		FirmwareNodeDir: paths.FirmwareNodeDir,
		CompatiblePath:  paths.CompatiblePath,
		SysBlockDir:     paths.SysBlockDir,
		GPIODir:         paths.GPIODir,
		DevDir:          paths.DevDir,
		BootDevices:     BootDevices{0, 1, 2, 3, 4, 5, 6, 7, 8},
	})
}

func (s *configSuite) TestReadConfigEmpty(c *C) {
	config, err := ReadConfig(strings.NewReader(""))
	c.Check(err, IsNil)
	c.Check(config, DeepEquals, DefaultConfig())
}

func (s *configSuite) TestReadConfig(c *C) {
	config, err := ReadConfig(strings.NewReader(`
device-tree-root: /tmp/dt
flattened-device-tree: /tmp/fdt.dtb
dev-dir: /tmp/dev
boot-devices: 0-2,5
`))
	c.Assert(err, IsNil)
	c.Check(config, DeepEquals, Config{
		DeviceTreeRoot:      "/tmp/dt",
		FirmwareNodeDir:     "/tmp/dt/firmware/chromeos",
		CompatiblePath:      "/tmp/dt/compatible",
		FlattenedDeviceTree: "/tmp/fdt.dtb",
		SysBlockDir:         paths.SysBlockDir,
		GPIODir:             paths.GPIODir,
		DevDir:              "/tmp/dev",
		BootDevices:         BootDevices{0, 1, 2, 5},
	})
}

func (s *configSuite) TestReadConfigExplicitFirmwareNode(c *C) {
	config, err := ReadConfig(strings.NewReader(`
device-tree-root: /tmp/dt
firmware-node-dir: /tmp/dt/firmware/vboot
`))
	c.Assert(err, IsNil)
	c.Check(config.FirmwareNodeDir, Equals, "/tmp/dt/firmware/vboot")
	c.Check(config.CompatiblePath, Equals, "/tmp/dt/compatible")
}

func (s *configSuite) TestReadConfigUnknownField(c *C) {
	_, err := ReadConfig(strings.NewReader("foo: bar\n"))
	c.Check(err, ErrorMatches, `(?s)cannot decode configuration: .*field foo not found.*`)
}

func (s *configSuite) TestReadConfigInvalidBootDevices(c *C) {
	_, err := ReadConfig(strings.NewReader("boot-devices: foo\n"))
	c.Check(err, ErrorMatches, `(?s)cannot decode configuration: .*cannot parse boot device range "foo".*`)
}

func (s *configSuite) TestMarshalConfig(c *C) {
	data, err := yaml.Marshal(Config{
		DeviceTreeRoot: "/proc/device-tree",
		BootDevices:    BootDevices{0, 1, 2},
	})
	c.Check(err, IsNil)
	c.Check(string(data), Equals, "device-tree-root: /proc/device-tree\nboot-devices: 0,1,2\n")
}

func (s *configSuite) TestParseBootDevices(c *C) {
	d, err := ParseBootDevices("0,2-4")
	c.Check(err, IsNil)
	c.Check(d, DeepEquals, BootDevices{0, 2, 3, 4})
	c.Check(d.String(), Equals, "0,2,3,4")
}

func (s *configSuite) TestBootDevicesUnmarshalFlagAppends(c *C) {
	var d BootDevices
	c.Check(d.UnmarshalFlag("0-1"), IsNil)
	c.Check(d.UnmarshalFlag("4"), IsNil)
	c.Check(d, DeepEquals, BootDevices{0, 1, 4})

	c.Check(d.UnmarshalFlag("x"), ErrorMatches, `cannot parse boot device range "x": .*`)
}
