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

package fdt

import (
	"io"
	"os"
	"path/filepath"

	"github.com/snapcore/snapd/osutil"
)

var (
	osOpen           = os.Open
	osutilFileExists = osutil.FileExists
)

// dirBackend is a property tree exposed as a filesystem, where each node is
// a directory and each property is a file.
type dirBackend struct {
	nodeDir string
}

func (b *dirBackend) path(name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(b.nodeDir, name)
}

func (b *dirBackend) open(name string) (io.ReadCloser, int64, error) {
	f, err := osOpen(b.path(name))
	if err != nil {
		return nil, 0, err
	}

	fi, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, 0, err
	}
	return f, fi.Size(), nil
}

func (b *dirBackend) exists(name string) bool {
	return osutilFileExists(b.path(name))
}

// NewDirStore returns a Store for a device tree exposed as a filesystem,
// such as /proc/device-tree. Relative property names are resolved against
// the supplied node directory, and absolute names are opened as is.
func NewDirStore(nodeDir string) *Store {
	return &Store{backend: &dirBackend{nodeDir: nodeDir}}
}
