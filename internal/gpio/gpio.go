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

// Package gpio resolves the state of the physical boot mode switches.
package gpio

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"golang.org/x/xerrors"

	"github.com/snapcore/crossystem/internal/sysfs"
)

// descriptorSize is the size of a GPIO descriptor property, which consists
// of the phandle of the GPIO controller, the GPIO number and the polarity.
const descriptorSize = 12

var (
	sysfsReadInt        = sysfs.ReadInt
	sysfsWriteAttribute = sysfs.WriteAttribute

	stderr io.Writer = os.Stderr
)

// PropertyReader provides the properties that describe the switches.
type PropertyReader interface {
	ReadBool(name string) bool
	ReadBlob(name string) ([]byte, error)
}

// DescriptorError is returned from Resolver.LiveSwitch if the GPIO
// descriptor for a switch cannot be read or has an unexpected size.
type DescriptorError struct {
	Name string
	Size int
	err  error
}

func (e *DescriptorError) Error() string {
	if e.err != nil {
		return fmt.Sprintf("cannot read GPIO descriptor %s: %v", e.Name, e.err)
	}
	return fmt.Sprintf("invalid GPIO descriptor %s: unexpected size %d", e.Name, e.Size)
}

func (e *DescriptorError) Unwrap() error {
	return e.err
}

// Descriptor describes the GPIO line that a switch is connected to.
type Descriptor struct {
	// Phandle is the controller that the GPIO belongs to. Only GPIOs on the
	// SoC controller are supported, so this isn't used.
	Phandle uint32

	GPIO     uint32
	Polarity uint32 // 1 if the line is active high
}

// ReadDescriptor reads the GPIO descriptor property with the specified name.
func ReadDescriptor(props PropertyReader, name string) (*Descriptor, error) {
	data, err := props.ReadBlob(name)
	if err != nil {
		return nil, &DescriptorError{Name: name, err: err}
	}
	if len(data) != descriptorSize {
		return nil, &DescriptorError{Name: name, Size: len(data)}
	}
	return &Descriptor{
		Phandle:  binary.BigEndian.Uint32(data[0:]),
		GPIO:     binary.BigEndian.Uint32(data[4:]),
		Polarity: binary.BigEndian.Uint32(data[8:]),
	}, nil
}

// Resolver reads the state of switches, either as latched by the firmware at
// boot time or as they are now.
type Resolver struct {
	props PropertyReader
	dir   string
}

// NewResolver returns a new Resolver. The dir argument is the sysfs GPIO
// class directory, normally /sys/class/gpio.
func NewResolver(props PropertyReader, dir string) *Resolver {
	return &Resolver{props: props, dir: dir}
}

// BootSwitch returns the state of the switch as it was latched by the
// firmware at boot time, which is 1 if the named property exists and 0 if
// it doesn't.
func (r *Resolver) BootSwitch(name string) int {
	if r.props.ReadBool(name) {
		return 1
	}
	return 0
}

// Level returns the current value of the specified GPIO. If the GPIO can't
// be read, this exports it and tries again once. If it still can't be read,
// -1 is returned without an error. An error is returned if the GPIO can't
// be exported.
func (r *Resolver) Level(gpio uint32) (int, error) {
	valuePath := filepath.Join(r.dir, fmt.Sprintf("gpio%d", gpio), "value")

	value := sysfsReadInt(valuePath)
	if value != -1 {
		return value, nil
	}

	if err := sysfsWriteAttribute(filepath.Join(r.dir, "export"), strconv.FormatUint(uint64(gpio), 10)); err != nil {
		return -1, xerrors.Errorf("cannot export GPIO %d: %w", gpio, err)
	}

	value = sysfsReadInt(valuePath)
	if value == -1 {
		fmt.Fprintf(stderr, "gpio.Resolver.Level: GPIO %d is not readable after exporting it\n", gpio)
	}
	return value, nil
}

// LiveSwitch returns the current state of the switch described by the
// named GPIO descriptor property. The result is computed as
// level ^ polarity ^ 1, so if the GPIO level is unavailable (-1), the
// result will be -1 or -2 depending on the polarity.
func (r *Resolver) LiveSwitch(name string) (int, error) {
	desc, err := ReadDescriptor(r.props, name)
	if err != nil {
		return 0, err
	}

	level, err := r.Level(desc.GPIO)
	if err != nil {
		return 0, xerrors.Errorf("cannot read switch %s: %w", name, err)
	}
	return level ^ int(desc.Polarity) ^ 1, nil
}
