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
	"errors"
	"fmt"
	"strings"

	"golang.org/x/xerrors"

	"github.com/snapcore/crossystem/internal/gpio"
	"github.com/snapcore/crossystem/internal/platform"
)

const archName = "arm"

var (
	errNoPlatformFamily = errors.New("cannot determine platform family")
)

// intKind describes how an integer property is obtained.
type intKind int

const (
	intValue   intKind = iota // a 32-bit integer property
	bootSwitch                // a switch latched by the firmware
	liveSwitch                // a switch read from its GPIO
	constZero                 // always 0
)

var intProperties = []struct {
	name string
	kind intKind
	prop string
}{
	{"fmap_base", intValue, "fmap-offset"},
	{"devsw_boot", bootSwitch, "boot-developer-switch"},
	{"recoverysw_boot", bootSwitch, "boot-recovery-switch"},
	{"wpsw_boot", bootSwitch, "boot-write-protect-switch"},
	{"devsw_cur", liveSwitch, "developer-switch"},
	{"recoverysw_cur", liveSwitch, "recovery-switch"},
	{"wpsw_cur", liveSwitch, "write-protect-switch"},
	{"recoverysw_ec_boot", constZero, ""},
}

// stringProperties maps names to the firmware string property they are read
// from. An empty property is computed instead.
var stringProperties = []struct {
	name string
	prop string
}{
	{"arch", ""},
	{"ro_fwid", "readonly-firmware-version"},
	{"hwid", "hardware-id"},
	{"fwid", "firmware-version"},
	{"mainfw_type", "firmware-type"},
	{"ecfw_act", "active-ec-firmware"},
	{"ddr_type", "ddr-type"},
	{"platform_family", ""},
}

// IntProperties returns the names of the integer properties that are
// provided on ARM platforms.
func IntProperties() (names []string) {
	for _, p := range intProperties {
		names = append(names, p.name)
	}
	return names
}

// StringProperties returns the names of the string properties that are
// provided on ARM platforms.
func StringProperties() (names []string) {
	for _, p := range stringProperties {
		names = append(names, p.name)
	}
	return names
}

// GetInt returns the value of the named integer property. Names are case
// insensitive. This returns -1 if the property is unknown or cannot be read.
//
// The current switch states (devsw_cur, recoverysw_cur and wpsw_cur) are 0
// or 1 normally. They are 2 if the GPIO descriptor for the switch is
// missing or invalid, and -1 or -2 if the GPIO value is unavailable even
// after exporting it.
func (p *Platform) GetInt(name string) int {
	for _, prop := range intProperties {
		if !strings.EqualFold(name, prop.name) {
			continue
		}

		switch prop.kind {
		case intValue:
			v, err := p.props.ReadInt(prop.prop)
			if err != nil {
				fmt.Fprintf(stderr, "crossystem.Platform.GetInt: cannot obtain %s: %v\n", prop.name, err)
				return -1
			}
			return int(int32(v))
		case bootSwitch:
			return p.switches.BootSwitch(prop.prop)
		case liveSwitch:
			v, err := p.switches.LiveSwitch(prop.prop)
			var de *gpio.DescriptorError
			switch {
			case xerrors.As(err, &de):
				fmt.Fprintf(stderr, "crossystem.Platform.GetInt: cannot obtain %s: %v\n", prop.name, err)
				return 2
			case err != nil:
				fmt.Fprintf(stderr, "crossystem.Platform.GetInt: cannot obtain %s: %v\n", prop.name, err)
				return -1
			}
			return v
		default:
			return 0
		}
	}
	return -1
}

// GetString returns the value of the named string property. Names are case
// insensitive. An error that matches ErrNotFound is returned if the property
// is unknown or its value cannot be obtained.
func (p *Platform) GetString(name string) (string, error) {
	for _, prop := range stringProperties {
		if !strings.EqualFold(name, prop.name) {
			continue
		}

		switch {
		case prop.prop != "":
			str, err := p.props.ReadString(prop.prop)
			if err != nil {
				return "", &PropertyError{Name: prop.name, err: err}
			}
			return str, nil
		case prop.name == "arch":
			return archName, nil
		default:
			family, ok := platform.Family(p.props, p.config.CompatiblePath)
			if !ok {
				return "", &PropertyError{Name: prop.name, err: errNoPlatformFamily}
			}
			return family, nil
		}
	}
	return "", &PropertyError{Name: name}
}

// SetInt always fails with ErrReadOnlyProperty. Writable properties are
// handled independently of the platform.
func (p *Platform) SetInt(name string, value int) error {
	return xerrors.Errorf("cannot set %s: %w", name, ErrReadOnlyProperty)
}

// SetString always fails with ErrReadOnlyProperty.
func (p *Platform) SetString(name, value string) error {
	return xerrors.Errorf("cannot set %s: %w", name, ErrReadOnlyProperty)
}

// GetInt returns the value of the named integer property of the running
// system. See Platform.GetInt.
func GetInt(name string) int {
	p, err := defaultPlatform()
	if err != nil {
		fmt.Fprintf(stderr, "crossystem.GetInt: %v\n", err)
		return -1
	}
	return p.GetInt(name)
}

// GetString returns the value of the named string property of the running
// system. See Platform.GetString.
func GetString(name string) (string, error) {
	p, err := defaultPlatform()
	if err != nil {
		return "", err
	}
	return p.GetString(name)
}

// SetInt always fails with ErrReadOnlyProperty.
func SetInt(name string, value int) error {
	return xerrors.Errorf("cannot set %s: %w", name, ErrReadOnlyProperty)
}

// SetString always fails with ErrReadOnlyProperty.
func SetString(name, value string) error {
	return xerrors.Errorf("cannot set %s: %w", name, ErrReadOnlyProperty)
}
