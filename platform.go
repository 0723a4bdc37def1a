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

// Package crossystem provides the ARM specific part of the system property
// interface used by verified boot tools. It reads the properties published
// by the boot firmware in the device tree, the state of the boot mode
// switches and the NV context stored on the boot device.
package crossystem

import (
	"io"
	"os"

	"golang.org/x/xerrors"

	"github.com/snapcore/crossystem/internal/bootdev"
	"github.com/snapcore/crossystem/internal/fdt"
	"github.com/snapcore/crossystem/internal/gpio"
	"github.com/snapcore/crossystem/internal/nvstorage"
)

var (
	fdtLoadBlobStore = fdt.LoadBlobStore

	stderr io.Writer = os.Stderr
)

// propertyStore provides the properties published by the boot firmware.
type propertyStore interface {
	ReadInt(name string) (uint32, error)
	ReadBool(name string) bool
	ReadBlob(name string) ([]byte, error)
	ReadString(name string) (string, error)
}

// Platform provides access to the properties of an ARM platform. Nothing is
// cached - every property is read from the device tree, sysfs or the boot
// device when it is requested.
type Platform struct {
	config Config

	props    propertyStore
	switches *gpio.Resolver
	locator  *bootdev.Locator
	nvctx    *nvstorage.Accessor
}

// NewPlatform returns a new Platform for the supplied configuration. Unset
// fields in the configuration take their default values. If the
// configuration specifies a flattened device tree blob, it is decoded here.
func NewPlatform(config Config) (*Platform, error) {
	config.fillDefaults()

	var props propertyStore
	if config.FlattenedDeviceTree != "" {
		node, err := config.firmwareNodePath()
		if err != nil {
			return nil, xerrors.Errorf("invalid configuration: %w", err)
		}
		store, err := fdtLoadBlobStore(config.FlattenedDeviceTree, config.DeviceTreeRoot, node)
		if err != nil {
			return nil, xerrors.Errorf("cannot load device tree: %w", err)
		}
		props = store
	} else {
		props = fdt.NewDirStore(config.FirmwareNodeDir)
	}

	locator := &bootdev.Locator{
		SysBlockDir: config.SysBlockDir,
		DevDir:      config.DevDir,
		Candidates:  config.BootDevices,
	}

	return &Platform{
		config:   config,
		props:    props,
		switches: gpio.NewResolver(props, config.GPIODir),
		locator:  locator,
		nvctx:    nvstorage.NewAccessor(props, locator, NVContextSize),
	}, nil
}

// Config returns the configuration for this platform, with defaults filled
// in.
func (p *Platform) Config() Config {
	return p.config
}

// FindBootDevice returns the path of the boot device.
func (p *Platform) FindBootDevice() (string, error) {
	return p.locator.FindBootDevicePath()
}

func defaultPlatform() (*Platform, error) {
	return NewPlatform(DefaultConfig())
}
