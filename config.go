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
	"io"
	"io/ioutil"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/bsiegert/ranges"
	"golang.org/x/xerrors"
	"gopkg.in/yaml.v2"

	"github.com/snapcore/crossystem/internal/bootdev"
	"github.com/snapcore/crossystem/internal/paths"
)

const (
	firmwareNodeName = "firmware/chromeos"
	compatibleName   = "compatible"
)

// BootDevices is a set of MMC block device indices. It is written as a
// range list, eg "0-3,5".
type BootDevices []int

// ParseBootDevices parses a range list of MMC block device indices.
func ParseBootDevices(s string) (BootDevices, error) {
	i, err := ranges.Parse(s)
	if err != nil {
		return nil, xerrors.Errorf("cannot parse boot device range %q: %w", s, err)
	}
	return BootDevices(i), nil
}

func (d BootDevices) String() string {
	var s []string
	for _, i := range d {
		s = append(s, strconv.Itoa(i))
	}
	return strings.Join(s, ",")
}

// MarshalFlag implements flags.Marshaler.
func (d BootDevices) MarshalFlag() (string, error) {
	return d.String(), nil
}

// UnmarshalFlag implements flags.Unmarshaler.
func (d *BootDevices) UnmarshalFlag(value string) error {
	i, err := ParseBootDevices(value)
	if err != nil {
		return err
	}
	*d = append(*d, i...)
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (d BootDevices) MarshalYAML() (interface{}, error) {
	return d.String(), nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *BootDevices) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	i, err := ParseBootDevices(s)
	if err != nil {
		return err
	}
	*d = i
	return nil
}

// Config describes where the platform properties, switches and boot
// device are found.
type Config struct {
	// DeviceTreeRoot is where the device tree is exposed, normally
	// /proc/device-tree. When FlattenedDeviceTree is set, this is the
	// path that absolute property names are rooted at.
	DeviceTreeRoot string `yaml:"device-tree-root,omitempty"`

	// FirmwareNodeDir is the node that contains the properties published
	// by the boot firmware. It must be inside DeviceTreeRoot.
	FirmwareNodeDir string `yaml:"firmware-node-dir,omitempty"`

	// CompatiblePath is the root node compatible record.
	CompatiblePath string `yaml:"compatible-path,omitempty"`

	// FlattenedDeviceTree is an optional path to a flattened device tree
	// blob. If set, properties are read from the blob rather than from
	// DeviceTreeRoot.
	FlattenedDeviceTree string `yaml:"flattened-device-tree,omitempty"`

	SysBlockDir string `yaml:"sys-block-dir,omitempty"`
	GPIODir     string `yaml:"gpio-dir,omitempty"`
	DevDir      string `yaml:"dev-dir,omitempty"`

	// BootDevices are the MMC block device indices that are checked when
	// locating the boot device. If empty, mmcblk0 to mmcblk8 are checked.
	BootDevices BootDevices `yaml:"boot-devices,omitempty"`
}

// DefaultConfig returns the configuration for the running system.
func DefaultConfig() Config {
	return Config{
		DeviceTreeRoot:  paths.DeviceTreeRoot,
		FirmwareNodeDir: paths.FirmwareNodeDir,
		CompatiblePath:  paths.CompatiblePath,
		SysBlockDir:     paths.SysBlockDir,
		GPIODir:         paths.GPIODir,
		DevDir:          paths.DevDir,
		BootDevices:     bootdev.DefaultCandidates(),
	}
}

// fillDefaults sets any unset field to its default. The firmware node and
// compatible record follow DeviceTreeRoot if that was changed.
func (c *Config) fillDefaults() {
	def := DefaultConfig()
	if c.DeviceTreeRoot == "" {
		c.DeviceTreeRoot = def.DeviceTreeRoot
	} else {
		def.FirmwareNodeDir = filepath.Join(c.DeviceTreeRoot, firmwareNodeName)
		def.CompatiblePath = filepath.Join(c.DeviceTreeRoot, compatibleName)
	}
	if c.FirmwareNodeDir == "" {
		c.FirmwareNodeDir = def.FirmwareNodeDir
	}
	if c.CompatiblePath == "" {
		c.CompatiblePath = def.CompatiblePath
	}
	if c.SysBlockDir == "" {
		c.SysBlockDir = def.SysBlockDir
	}
	if c.GPIODir == "" {
		c.GPIODir = def.GPIODir
	}
	if c.DevDir == "" {
		c.DevDir = def.DevDir
	}
	if len(c.BootDevices) == 0 {
		c.BootDevices = def.BootDevices
	}
}

// ReadConfig decodes a YAML configuration from the supplied reader. Fields
// that are omitted take their default values.
func ReadConfig(r io.Reader) (Config, error) {
	data, err := ioutil.ReadAll(r)
	if err != nil {
		return Config{}, xerrors.Errorf("cannot read configuration: %w", err)
	}

	var config Config
	if err := yaml.UnmarshalStrict(data, &config); err != nil {
		return Config{}, xerrors.Errorf("cannot decode configuration: %w", err)
	}
	config.fillDefaults()
	return config, nil
}

// firmwareNodePath returns the path of the firmware node relative to the
// device tree root.
func (c *Config) firmwareNodePath() (string, error) {
	rel, err := filepath.Rel(c.DeviceTreeRoot, c.FirmwareNodeDir)
	if err != nil {
		return "", err
	}
	if rel == ".." || strings.HasPrefix(rel, "../") {
		return "", xerrors.Errorf("firmware node %s is not inside %s", c.FirmwareNodeDir, c.DeviceTreeRoot)
	}
	return rel, nil
}
