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

package nvstorage

import (
	"io"
	"os"

	"golang.org/x/sys/unix"
)

// device is an open boot device.
type device interface {
	io.ReadWriteSeeker
	io.Closer

	// Flush makes sure that anything written has reached the device,
	// and drops the block layer buffer cache for it if it is a block
	// device.
	Flush() error
}

var (
	unixFdatasync   = unix.Fdatasync
	unixIoctlSetInt = unix.IoctlSetInt

	isBlockDevice = func(mode os.FileMode) bool {
		return mode&os.ModeDevice != 0 && mode&os.ModeCharDevice == 0
	}
)

type fileDevice struct {
	*os.File
	block bool
}

func (d *fileDevice) Flush() error {
	fd := int(d.Fd())
	if err := unixFdatasync(fd); err != nil {
		return &os.PathError{Op: "fdatasync", Path: d.Name(), Err: err}
	}
	if !d.block {
		return nil
	}
	if err := unixIoctlSetInt(fd, unix.BLKFLSBUF, 0); err != nil {
		return &os.PathError{Op: "ioctl BLKFLSBUF", Path: d.Name(), Err: err}
	}
	return nil
}

var openDevice = func(path string, flag int) (device, error) {
	f, err := os.OpenFile(path, flag, 0)
	if err != nil {
		return nil, err
	}
	fi, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}
	return &fileDevice{File: f, block: isBlockDevice(fi.Mode())}, nil
}
