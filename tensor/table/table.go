// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package table provides a Table of named tensor columns sharing
// a common outermost row dimension, with table-level metadata,
// and codecs for the CSV, ECSV and TOML text formats.
package table

import (
	"fmt"
	"reflect"
	"slices"

	"cogentcore.org/stingray/base/metadata"
	"cogentcore.org/stingray/tensor"
)

// Table is a table of Tensor columns aligned by a common outermost row dimension.
// Use the [Table.Column] (by name) and [Table.ColumnByIndex] methods to obtain
// the column tensors.
type Table struct {
	// Columns has the list of column tensor data for this table.
	Columns *Columns

	// Meta is misc metadata for the table. Use lower-case key names
	// following the struct tag convention:
	//	- name string = name of table
	//	- precision int = n for precision to write out floats in csv.
	// All other keys are the meta attributes of an exported object.
	Meta metadata.Data
}

// New returns a new Table with its own (empty) set of Columns.
// Can pass an optional name which sets metadata.
func New(name ...string) *Table {
	dt := &Table{}
	dt.Columns = NewColumns()
	if len(name) > 0 {
		dt.Meta.Set("name", name[0])
	}
	return dt
}

// NumRows returns the number of rows.
func (dt *Table) NumRows() int { return dt.Columns.Rows }

// Len returns the number of rows, which is zero for a table without columns.
func (dt *Table) Len() int {
	if dt.NumColumns() == 0 {
		return 0
	}
	return dt.Columns.Rows
}

// NumColumns returns the number of columns.
func (dt *Table) NumColumns() int { return dt.Columns.Len() }

// ColumnNames returns the names of the columns, in order.
func (dt *Table) ColumnNames() []string { return slices.Clone(dt.Columns.Keys) }

// Column returns the tensor with given column name.
// Returns nil if not found.
func (dt *Table) Column(name string) tensor.Tensor {
	return dt.Columns.At(name)
}

// ColumnTry is a version of [Table.Column] that also returns an error
// if the column name is not found, for cases when error is needed.
func (dt *Table) ColumnTry(name string) (tensor.Tensor, error) {
	cl := dt.Column(name)
	if cl != nil {
		return cl, nil
	}
	return nil, fmt.Errorf("table.Table: Column named %q not found", name)
}

// ColumnIndex returns the index of the column with given name, -1 if not found.
func (dt *Table) ColumnIndex(name string) int {
	return dt.Columns.IndexByKey(name)
}

// ColumnByIndex returns the tensor at the given column index.
func (dt *Table) ColumnByIndex(idx int) tensor.Tensor {
	return dt.Columns.Values[idx]
}

// ColumnName returns the name of given column
func (dt *Table) ColumnName(i int) string {
	return dt.Columns.Keys[i]
}

// AddColumn adds the given tensor as a column to the table,
// returning an error and not adding if the name is not unique,
// or if its number of rows differs from the other columns.
// The first column added to a table sets its number of rows.
func (dt *Table) AddColumn(name string, tsr tensor.Tensor) error {
	return dt.Columns.AddColumn(name, tsr)
}

// InsertColumn inserts the given tensor as a column to the table at given index,
// returning an error and not adding if the name is not unique,
// or if its number of rows differs from the other columns.
func (dt *Table) InsertColumn(idx int, name string, tsr tensor.Tensor) error {
	return dt.Columns.InsertColumn(idx, name, tsr)
}

// SetColumn sets the column with given name to the given tensor,
// replacing an existing column of that name at the same position,
// or adding it at the end otherwise.
func (dt *Table) SetColumn(name string, tsr tensor.Tensor) error {
	idx := dt.ColumnIndex(name)
	if idx < 0 {
		return dt.AddColumn(name, tsr)
	}
	switch {
	case tsr.NumDims() == 0:
		return fmt.Errorf("table.Table: column %q has no dimensions", name)
	case dt.NumColumns() == 1:
		dt.Columns.Rows = tsr.DimSize(0)
	case tsr.DimSize(0) != dt.Columns.Rows:
		return fmt.Errorf("table.Table: column %q has %d rows, but table has %d", name, tsr.DimSize(0), dt.Columns.Rows)
	}
	dt.Columns.Values[idx] = tsr
	return nil
}

// AddColumn adds a new column to the table, of given type and column name
// (which must be unique). If no cellSizes are specified, it holds scalar values,
// otherwise the cells are n-dimensional tensors of given size.
func AddColumn[T tensor.DataTypes](dt *Table, name string, cellSizes ...int) tensor.Tensor {
	sz := append([]int{dt.Columns.Rows}, cellSizes...)
	tsr := tensor.New[T](sz...)
	dt.AddColumn(name, tsr)
	return tsr
}

// AddColumnOfType adds a new scalar column to the table, of given reflect type,
// column name (which must be unique),
// If no cellSizes are specified, it holds scalar values,
// otherwise the cells are n-dimensional tensors of given size.
// Supported types are those of [tensor.NewOfType].
func (dt *Table) AddColumnOfType(name string, typ reflect.Kind, cellSizes ...int) tensor.Tensor {
	sz := append([]int{dt.Columns.Rows}, cellSizes...)
	tsr := tensor.NewOfType(typ, sz...)
	dt.AddColumn(name, tsr)
	return tsr
}

// AddStringColumn adds a new String column with given name.
// If no cellSizes are specified, it holds scalar values,
// otherwise the cells are n-dimensional tensors of given size.
func (dt *Table) AddStringColumn(name string, cellSizes ...int) *tensor.String {
	return AddColumn[string](dt, name, cellSizes...).(*tensor.String)
}

// AddFloat64Column adds a new float64 column with given name.
// If no cellSizes are specified, it holds scalar values,
// otherwise the cells are n-dimensional tensors of given size.
func (dt *Table) AddFloat64Column(name string, cellSizes ...int) *tensor.Float64 {
	return AddColumn[float64](dt, name, cellSizes...).(*tensor.Float64)
}

// AddIntColumn adds a new int column with given name.
// If no cellSizes are specified, it holds scalar values,
// otherwise the cells are n-dimensional tensors of given size.
func (dt *Table) AddIntColumn(name string, cellSizes ...int) *tensor.Int {
	return AddColumn[int](dt, name, cellSizes...).(*tensor.Int)
}

// AddComplexColumn adds a new complex128 column with given name.
func (dt *Table) AddComplexColumn(name string, cellSizes ...int) *tensor.Complex {
	return AddColumn[complex128](dt, name, cellSizes...).(*tensor.Complex)
}

// DeleteColumnName deletes column of given name.
// returns false if not found.
func (dt *Table) DeleteColumnName(name string) bool {
	return dt.Columns.DeleteByKey(name)
}

// DeleteAll deletes all columns, does full reset.
func (dt *Table) DeleteAll() {
	dt.Columns.Reset()
	dt.Columns.Rows = 0
}

// SetNumRows sets the number of rows in the table, across all columns.
func (dt *Table) SetNumRows(rows int) *Table {
	dt.Columns.SetNumRows(rows)
	return dt
}

// Metadata returns the table-level metadata.
func (dt *Table) Metadata() *metadata.Data { return &dt.Meta }

// Clone returns a complete copy of this table, including cloning
// the underlying Columns tensors.
func (dt *Table) Clone() *Table {
	cp := &Table{}
	cp.Columns = dt.Columns.Clone()
	cp.Meta.Copy(dt.Meta)
	return cp
}
