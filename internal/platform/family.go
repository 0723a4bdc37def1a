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

// Package platform identifies the platform family from the device tree.
package platform

// family maps the most specific compatible string of a SoC to the name of
// its platform family.
type family struct {
	compatible string
	name       string
}

// families is ordered - the first entry that matches wins.
var families = []family{
	{"nvidia,tegra250", "Tegra2"},
	{"nvidia,tegra20", "Tegra2"},
	{"ti,omap4", "OMAP4"},
	{"ti,omap3", "OMAP3"},
	{"samsung,exynos4210", "EXYNOS4"},
	{"samsung,exynos5250", "EXYNOS5"},
}

func lookupFamily(compatible string) (string, bool) {
	for _, f := range families {
		if f.compatible == compatible {
			return f.name, true
		}
	}
	return "", false
}

// Classify returns the platform family for the supplied compatible record,
// which is a list of NUL terminated strings with the most specific entry
// first. The family is chosen by the first entry in the record that is
// known, regardless of whether any later entries are also known.
//
// The last byte of the record is always treated as a terminator, even if it
// isn't one. This returns false if no entry is known.
func Classify(compatible []byte) (family string, ok bool) {
	if len(compatible) == 0 {
		return "", false
	}

	data := make([]byte, len(compatible))
	copy(data, compatible)
	data[len(data)-1] = 0

	it := NewCompatibleStrings(data)
	for it.Next() {
		if family, ok := lookupFamily(it.Value()); ok {
			return family, true
		}
	}
	return "", false
}

// BlobReader reads an entire property record.
type BlobReader interface {
	ReadBlob(name string) ([]byte, error)
}

// Family reads the compatible record at the specified path and returns the
// platform family. A record that cannot be read is treated the same as an
// unknown platform.
func Family(props BlobReader, compatiblePath string) (family string, ok bool) {
	compatible, err := props.ReadBlob(compatiblePath)
	if err != nil {
		return "", false
	}
	return Classify(compatible)
}
