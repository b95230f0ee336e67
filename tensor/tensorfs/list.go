// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tensorfs

import (
	"fmt"
	"strings"
)

// Listing options for [Node.List].
const (
	Short = false
	Long  = true

	DirOnly   = false
	Recursive = true
)

// String returns the name, data type and shape of a value,
// or the short listing of a directory.
func (nd *Node) String() string {
	if !nd.IsDir() {
		return fmt.Sprintf("%s %s %v", nd.name, nd.Tensor.DataType(), nd.Tensor.Shape().Sizes)
	}
	return nd.List(Short, DirOnly)
}

// List returns a listing of the nodes in the directory. A short
// listing has the names only, on one line, with a / after directories.
// A long listing has one line per node as given by [Node.String],
// preceded by the directory attributes as @key = value lines.
// Subdirectories are indented by a tab.
func (dir *Node) List(long, recursive bool) string {
	var b strings.Builder
	dir.list(&b, long, recursive, 0)
	return b.String()
}

func (dir *Node) list(b *strings.Builder, long, recursive bool, depth int) {
	indent := strings.Repeat("\t", depth)
	if long {
		for _, k := range dir.Attrs.Keys() {
			fmt.Fprintf(b, "%s@%s = %v\n", indent, k, dir.Attrs[k])
		}
	}
	nodes, _ := dir.Nodes()
	for _, it := range nodes {
		switch {
		case !long && it.IsDir():
			b.WriteString(indent + it.name + "/ ")
			if recursive {
				b.WriteString("\n")
				it.list(b, long, recursive, depth+1)
				b.WriteString("\n")
			}
		case !long:
			b.WriteString(indent + it.name + " ")
		case it.IsDir():
			b.WriteString(indent + it.name + "/\n")
			if recursive {
				it.list(b, long, recursive, depth+1)
			}
		default:
			b.WriteString(indent + it.String() + "\n")
		}
	}
}
