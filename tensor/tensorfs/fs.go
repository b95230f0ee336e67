// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tensorfs

import (
	"io/fs"
	"reflect"
	"slices"
	"strings"
	"time"
)

// fs.go contains the io/fs FileInfo and DirEntry implementations,
// and the directory listing functions built on them.

// Stat returns a FileInfo describing the node at given path.
// If there is an error, it is of type *PathError.
func (nd *Node) Stat(name string) (fs.FileInfo, error) {
	return nd.NodeAtPath(name)
}

// ReadDir returns the contents of the given directory within this filesystem,
// sorted by name. Use "." (or "") to refer to the current directory.
func (nd *Node) ReadDir(dir string) ([]fs.DirEntry, error) {
	if dir == "" {
		dir = "."
	}
	sd, err := nd.DirAtPath(dir)
	if err != nil {
		return nil, err
	}
	ents := make([]fs.DirEntry, sd.nodes.Len())
	for i, it := range sd.nodes.Values {
		ents[i] = it
	}
	slices.SortFunc(ents, func(a, b fs.DirEntry) int {
		return strings.Compare(a.Name(), b.Name())
	})
	return ents, nil
}

//////// FileInfo interface:

func (nd *Node) Name() string { return nd.name }

// Size returns the size of the tensor values in bytes,
// with strings counted by their length.
func (nd *Node) Size() int64 {
	tsr := nd.Tensor
	if tsr == nil {
		return 0
	}
	n := int64(tsr.Len())
	switch tsr.DataType() {
	case reflect.String:
		sz := int64(0)
		for i := range tsr.Len() {
			sz += int64(len(tsr.String1D(i)))
		}
		return sz
	case reflect.Bool, reflect.Uint8:
		return n
	case reflect.Float32, reflect.Int32:
		return 4 * n
	case reflect.Complex128:
		return 16 * n
	}
	return 8 * n
}

func (nd *Node) IsDir() bool {
	return nd.nodes != nil
}

func (nd *Node) ModTime() time.Time {
	return nd.modTime
}

func (nd *Node) Mode() fs.FileMode {
	if nd.IsDir() {
		return 0755 | fs.ModeDir
	}
	return 0444
}

// Sys returns the Tensor or the directory Nodes.
func (nd *Node) Sys() any {
	if nd.Tensor != nil {
		return nd.Tensor
	}
	return nd.nodes
}

//////// DirEntry interface

func (nd *Node) Type() fs.FileMode {
	return nd.Mode().Type()
}

func (nd *Node) Info() (fs.FileInfo, error) {
	return nd, nil
}
