// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package table

import (
	"fmt"

	"cogentcore.org/stingray/base/keylist"
	"cogentcore.org/stingray/tensor"
)

// Columns is the underlying column list and number of rows for Table.
// Each column is a raw [tensor.Tensor] whose outermost dimension is
// the row, and all columns share the same number of rows.
type Columns struct {
	keylist.List[string, tensor.Tensor]

	// number of rows, which is enforced to be the size of the
	// outermost row dimension of the column tensors.
	Rows int
}

// NewColumns returns a new Columns.
func NewColumns() *Columns {
	return &Columns{}
}

// SetNumRows sets the number of rows in the table, across all columns.
func (cl *Columns) SetNumRows(rows int) *Columns {
	cl.Rows = rows
	for _, tsr := range cl.Values {
		tsr.SetNumRows(rows)
	}
	return cl
}

// checkRows returns an error if the tensor does not have the
// number of rows of the other columns. The first column
// determines the number of rows.
func (cl *Columns) checkRows(name string, tsr tensor.Tensor) error {
	if tsr.NumDims() == 0 {
		return fmt.Errorf("table.Columns: column %q has no dimensions", name)
	}
	rows := tsr.DimSize(0)
	if cl.Len() == 0 {
		cl.Rows = rows
		return nil
	}
	if rows != cl.Rows {
		return fmt.Errorf("table.Columns: column %q has %d rows, but table has %d", name, rows, cl.Rows)
	}
	return nil
}

// AddColumn adds the given tensor as a column,
// returning an error and not adding if the name is not unique,
// or if the number of rows does not match.
func (cl *Columns) AddColumn(name string, tsr tensor.Tensor) error {
	if cl.IndexByKey(name) >= 0 {
		return fmt.Errorf("table.Columns: column named %q already exists", name)
	}
	if err := cl.checkRows(name, tsr); err != nil {
		return err
	}
	return cl.Add(name, tsr)
}

// InsertColumn inserts the given tensor as a column at given index,
// returning an error and not adding if the name is not unique,
// or if the number of rows does not match.
func (cl *Columns) InsertColumn(idx int, name string, tsr tensor.Tensor) error {
	if cl.IndexByKey(name) >= 0 {
		return fmt.Errorf("table.Columns: column named %q already exists", name)
	}
	if err := cl.checkRows(name, tsr); err != nil {
		return err
	}
	return cl.Insert(idx, name, tsr)
}

// Clone returns a complete copy of this set of columns,
// with each column tensor cloned.
func (cl *Columns) Clone() *Columns {
	cp := NewColumns()
	cp.Rows = cl.Rows
	for i, nm := range cl.Keys {
		cp.Add(nm, cl.Values[i].Clone())
	}
	return cp
}
