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

// Package bootdev locates the block device that the system booted from.
package bootdev

import (
	"errors"
	"fmt"
	"path/filepath"
	"sort"

	"github.com/snapcore/crossystem/internal/sysfs"
)

// DefaultMaxDevices is the number of MMC block devices that are checked
// when no candidates are specified.
const DefaultMaxDevices = 9

// ErrNoBootDevice indicates that none of the candidate MMC block devices is
// non-removable.
var ErrNoBootDevice = errors.New("no non-removable MMC block device found")

var sysfsReadInt = sysfs.ReadInt

// DefaultCandidates returns the default MMC block device indices to check.
func DefaultCandidates() []int {
	out := make([]int, DefaultMaxDevices)
	for i := range out {
		out[i] = i
	}
	return out
}

// Locator finds the boot device, which is the first non-removable MMC
// block device (normally the eMMC).
type Locator struct {
	SysBlockDir string // normally /sys/block
	DevDir      string // normally /dev

	// Candidates are the mmcblk indices to check. They are always checked
	// in ascending order, regardless of the order here. If empty,
	// DefaultCandidates is used.
	Candidates []int
}

func (l *Locator) candidates() []int {
	if len(l.Candidates) == 0 {
		return DefaultCandidates()
	}

	out := make([]int, 0, len(l.Candidates))
	seen := make(map[int]bool)
	for _, i := range l.Candidates {
		if i < 0 || seen[i] {
			continue
		}
		seen[i] = true
		out = append(out, i)
	}
	sort.Ints(out)
	return out
}

func deviceName(index int) string {
	return fmt.Sprintf("mmcblk%d", index)
}

// FindBootDevice returns the index of the first candidate MMC block device
// with a removable attribute that is exactly 0. Devices are not cached -
// every call checks sysfs again.
func (l *Locator) FindBootDevice() (int, error) {
	for _, i := range l.candidates() {
		if sysfsReadInt(filepath.Join(l.SysBlockDir, deviceName(i), "removable")) == 0 {
			return i, nil
		}
	}
	return -1, ErrNoBootDevice
}

// DevicePath returns the path of the device node for the MMC block device
// with the specified index.
func (l *Locator) DevicePath(index int) string {
	return filepath.Join(l.DevDir, deviceName(index))
}

// FindBootDevicePath is like FindBootDevice, but returns the path of the
// device node.
func (l *Locator) FindBootDevicePath() (string, error) {
	index, err := l.FindBootDevice()
	if err != nil {
		return "", err
	}
	return l.DevicePath(index), nil
}
