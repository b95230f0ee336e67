// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tensorfs

import (
	"time"
)

// CopyFromValue copies value from given source node, cloning it.
func (nd *Node) CopyFromValue(frd *Node) {
	nd.modTime = time.Now()
	nd.Tensor = frd.Tensor.Clone()
}

// Clone returns a copy of this node, recursively cloning directory nodes
// if it is a directory. The clone has no Parent.
func (nd *Node) Clone() *Node {
	if !nd.IsDir() {
		cp, _ := newNode(nil, nd.name)
		if nd.Tensor != nil {
			cp.Tensor = nd.Tensor.Clone()
		}
		cp.Attrs = nd.Attrs.Clone()
		return cp
	}
	cp, _ := NewDir(nd.name)
	cp.Attrs = nd.Attrs.Clone()
	for _, it := range nd.nodes.Values {
		cp.Add(it.Clone())
	}
	return cp
}
