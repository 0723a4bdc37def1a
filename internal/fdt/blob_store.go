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
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/u-root/u-root/pkg/dt"
	"golang.org/x/xerrors"
)

var dtReadFDT = dt.ReadFDT

// treeBackend is a property tree decoded from a flattened device tree blob.
type treeBackend struct {
	root       *dt.Node
	mountPoint string   // where absolute names are rooted
	nodePath   []string // the node that relative names are resolved against
}

func splitPath(path string) []string {
	var elems []string
	for _, e := range strings.Split(path, "/") {
		if e == "" || e == "." {
			continue
		}
		elems = append(elems, e)
	}
	return elems
}

func (b *treeBackend) resolve(name string) ([]string, bool) {
	if !filepath.IsAbs(name) {
		return append(append([]string(nil), b.nodePath...), splitPath(name)...), true
	}
	rel, err := filepath.Rel(b.mountPoint, filepath.Clean(name))
	if err != nil || rel == ".." || strings.HasPrefix(rel, "../") {
		return nil, false
	}
	return splitPath(rel), true
}

func childNode(n *dt.Node, name string) *dt.Node {
	for _, child := range n.Children {
		if child.Name == name {
			return child
		}
	}
	return nil
}

// lookup returns the node containing the named entry and the final path
// element.
func (b *treeBackend) lookup(name string) (*dt.Node, string, bool) {
	elems, ok := b.resolve(name)
	if !ok || len(elems) == 0 || b.root == nil {
		return nil, "", false
	}

	node := b.root
	for _, e := range elems[:len(elems)-1] {
		if node = childNode(node, e); node == nil {
			return nil, "", false
		}
	}
	return node, elems[len(elems)-1], true
}

func (b *treeBackend) open(name string) (io.ReadCloser, int64, error) {
	node, prop, ok := b.lookup(name)
	if ok {
		for _, p := range node.Properties {
			if p.Name == prop {
				return io.NopCloser(bytes.NewReader(p.Value)), int64(len(p.Value)), nil
			}
		}
	}
	return nil, 0, os.ErrNotExist
}

func (b *treeBackend) exists(name string) bool {
	node, last, ok := b.lookup(name)
	if !ok {
		return false
	}
	if childNode(node, last) != nil {
		return true
	}
	for _, p := range node.Properties {
		if p.Name == last {
			return true
		}
	}
	return false
}

// NewBlobStore returns a Store for the supplied decoded flattened device
// tree. Absolute property names are expected to be rooted at mountPoint
// (eg, /proc/device-tree), and relative names are resolved against
// nodePath within the tree.
func NewBlobStore(fdt *dt.FDT, mountPoint, nodePath string) *Store {
	return &Store{backend: &treeBackend{
		root:       fdt.RootNode,
		mountPoint: filepath.Clean(mountPoint),
		nodePath:   splitPath(nodePath),
	}}
}

// LoadBlobStore decodes the flattened device tree blob at the specified
// path and returns a Store for it. See NewBlobStore for the meaning of the
// other arguments.
func LoadBlobStore(path, mountPoint, nodePath string) (*Store, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	fdt, err := dtReadFDT(f)
	if err != nil {
		return nil, xerrors.Errorf("cannot decode flattened device tree %s: %w", path, err)
	}
	return NewBlobStore(fdt, mountPoint, nodePath), nil
}
