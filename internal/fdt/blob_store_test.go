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

package fdt_test

import (
	"errors"
	"io"
	"os"
	"path/filepath"

	"github.com/u-root/u-root/pkg/dt"
	. "gopkg.in/check.v1"

	. "github.com/snapcore/crossystem/internal/fdt"
	"github.com/snapcore/crossystem/internal/testutil"
	snapd_testutil "github.com/snapcore/snapd/testutil"
)

type blobStoreSuite struct {
	snapd_testutil.BaseTest

	fdt   *dt.FDT
	store *Store
}

func (s *blobStoreSuite) SetUpTest(c *C) {
	s.BaseTest.SetUpTest(c)

	s.fdt = &dt.FDT{
		RootNode: &dt.Node{
			Properties: []dt.Property{
				{Name: "compatible", Value: testutil.MultiString("google,snow", "samsung,exynos5250")},
			},
			Children: []*dt.Node{
				{
					Name: "firmware",
					Children: []*dt.Node{
						{
							Name: "chromeos",
							Properties: []dt.Property{
								{Name: "hardware-id", Value: []byte("SNOW TEST 1234\x00")},
								{Name: "nonvolatile-context-lba", Value: testutil.BE32(0)},
								{Name: "nonvolatile-context-offset", Value: testutil.BE32(0x1f0)},
								{Name: "boot-developer-switch"},
								{Name: "developer-switch", Value: testutil.BE32(0x1, 0x38, 0x0)},
							},
							Children: []*dt.Node{
								{Name: "subnode", Properties: []dt.Property{{Name: "value", Value: testutil.BE32(7)}}},
							},
						},
					},
				},
			},
		},
	}
	s.store = NewBlobStore(s.fdt, "/proc/device-tree", "firmware/chromeos")
}

var _ = Suite(&blobStoreSuite{})

func (s *blobStoreSuite) TestReadInt(c *C) {
	v, err := s.store.ReadInt("nonvolatile-context-offset")
	c.Check(err, IsNil)
	c.Check(v, Equals, uint32(0x1f0))
}

func (s *blobStoreSuite) TestReadIntNotFound(c *C) {
	_, err := s.store.ReadInt("nonvolatile-context-size")
	c.Check(err, ErrorMatches, `property nonvolatile-context-size not found: file does not exist`)
	c.Check(err, testutil.ErrorIs, ErrNotFound)
}

func (s *blobStoreSuite) TestReadBool(c *C) {
	c.Check(s.store.ReadBool("boot-developer-switch"), Equals, true)
	c.Check(s.store.ReadBool("boot-recovery-switch"), Equals, false)
	c.Check(s.store.ReadBool("subnode"), Equals, true)
}

func (s *blobStoreSuite) TestReadBlobEmpty(c *C) {
	data, err := s.store.ReadBlob("boot-developer-switch")
	c.Check(err, IsNil)
	c.Check(data, HasLen, 0)
}

func (s *blobStoreSuite) TestReadBlobIsCopy(c *C) {
	data, err := s.store.ReadBlob("developer-switch")
	c.Assert(err, IsNil)
	data[0] = 0xff

	data, err = s.store.ReadBlob("developer-switch")
	c.Check(err, IsNil)
	c.Check(data, DeepEquals, testutil.BE32(0x1, 0x38, 0x0))
}

func (s *blobStoreSuite) TestReadString(c *C) {
	str, err := s.store.ReadString("hardware-id")
	c.Check(err, IsNil)
	c.Check(str, Equals, "SNOW TEST 1234")
}

func (s *blobStoreSuite) TestReadNested(c *C) {
	v, err := s.store.ReadInt("subnode/value")
	c.Check(err, IsNil)
	c.Check(v, Equals, uint32(7))
}

func (s *blobStoreSuite) TestReadAbsolute(c *C) {
	data, err := s.store.ReadBlob("/proc/device-tree/compatible")
	c.Check(err, IsNil)
	c.Check(data, DeepEquals, testutil.MultiString("google,snow", "samsung,exynos5250"))

	str, err := s.store.ReadString("/proc/device-tree/firmware/chromeos/hardware-id")
	c.Check(err, IsNil)
	c.Check(str, Equals, "SNOW TEST 1234")
}

func (s *blobStoreSuite) TestReadAbsoluteOutsideMountPoint(c *C) {
	_, err := s.store.ReadBlob("/sys/firmware/compatible")
	c.Check(err, testutil.ErrorIs, ErrNotFound)
	c.Check(s.store.ReadBool("/proc/compatible"), Equals, false)
}

func (s *blobStoreSuite) TestReadNodeIsNotAProperty(c *C) {
	_, err := s.store.ReadBlob("subnode")
	c.Check(err, testutil.ErrorIs, ErrNotFound)
}

func (s *blobStoreSuite) TestLoadBlobStore(c *C) {
	path := filepath.Join(c.MkDir(), "fdt")
	c.Assert(os.WriteFile(path, []byte("blob"), 0644), IsNil)

	restore := MockDtReadFDT(func(r io.ReadSeeker) (*dt.FDT, error) {
		data, err := io.ReadAll(r)
		c.Check(err, IsNil)
		c.Check(data, DeepEquals, []byte("blob"))
		return s.fdt, nil
	})
	s.AddCleanup(restore)

	store, err := LoadBlobStore(path, "/proc/device-tree", "firmware/chromeos")
	c.Assert(err, IsNil)

	str, err := store.ReadString("hardware-id")
	c.Check(err, IsNil)
	c.Check(str, Equals, "SNOW TEST 1234")
}

func (s *blobStoreSuite) TestLoadBlobStoreDecodeError(c *C) {
	path := filepath.Join(c.MkDir(), "fdt")
	c.Assert(os.WriteFile(path, []byte("blob"), 0644), IsNil)

	restore := MockDtReadFDT(func(io.ReadSeeker) (*dt.FDT, error) {
		return nil, errors.New("invalid magic")
	})
	s.AddCleanup(restore)

	_, err := LoadBlobStore(path, "/proc/device-tree", "firmware/chromeos")
	c.Check(err, ErrorMatches, `cannot decode flattened device tree .*/fdt: invalid magic`)
}

func (s *blobStoreSuite) TestLoadBlobStoreMissing(c *C) {
	_, err := LoadBlobStore(filepath.Join(c.MkDir(), "fdt"), "/proc/device-tree", "firmware/chromeos")
	c.Check(err, testutil.ErrorIs, os.ErrNotExist)
}
