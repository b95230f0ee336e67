// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tensorfs

import (
	"strings"

	"cogentcore.org/stingray/tensor/table"
)

// DirTable returns a [table.Table] with all of the tensor values under
// the given directory, with columns as the Tensor values elements in the directory
// and any subdirectories, using given filter function (nil for all).
// Values in subdirectories are named by their path relative to dir.
// Values with fewer rows than the longest are padded in a copy.
// The directory attributes become the table metadata.
func DirTable(dir *Node, fun func(node *Node) bool) *table.Table {
	nds := dir.NodesFunc(fun)
	rows := 0
	for _, it := range nds {
		if it.Tensor.NumDims() > 0 {
			rows = max(rows, it.Tensor.DimSize(0))
		}
	}
	dt := table.New(dir.name)
	for _, it := range nds {
		tsr := it.Tensor
		if tsr.NumDims() == 0 {
			continue
		}
		if tsr.DimSize(0) != rows {
			tsr = tsr.Clone()
			tsr.SetNumRows(rows)
		}
		nm := it.name
		if it.Parent != dir {
			nm = strings.TrimPrefix(it.Path(), dir.Path()+"/")
		}
		dt.AddColumn(nm, tsr)
	}
	dt.Meta.Copy(dir.Attrs)
	return dt
}

// DirFromTable sets tensor values under given directory node to the
// columns of the given [table.Table], and the directory attributes
// from the table metadata.
func DirFromTable(dir *Node, dt *table.Table) error {
	for i, cl := range dt.Columns.Values {
		if err := dir.SetColumn(dt.ColumnName(i), cl); err != nil {
			return err
		}
	}
	dir.Attrs.Copy(dt.Meta)
	return nil
}
