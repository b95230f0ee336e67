// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package table

import (
	"fmt"
	"io"
	"reflect"

	"cogentcore.org/stingray/tensor"
	"github.com/pelletier/go-toml/v2"
)

// tomlColumn is one column of a TOML table document, with its
// values in flat row-major order.
type tomlColumn struct {
	Name   string `toml:"name"`
	Dtype  string `toml:"dtype"`
	Shape  []int  `toml:"shape"`
	Values any    `toml:"values"`
}

type tomlDoc struct {
	Meta    map[string]any `toml:"meta,omitempty"`
	Columns []tomlColumn   `toml:"columns"`
}

// WriteTOML writes the table as a TOML document with an array of
// column tables and, if meta is true, a meta table.
// Complex columns must be split with [Table.SplitComplex] first.
func (dt *Table) WriteTOML(w io.Writer, meta bool) (err error) {
	doc := tomlDoc{Columns: make([]tomlColumn, dt.NumColumns())}
	for i, tsr := range dt.Columns.Values {
		dtype, err := ecsvDatatype(tsr.DataType())
		if err != nil {
			return fmt.Errorf("table.WriteTOML: column %q: %w", dt.ColumnName(i), err)
		}
		doc.Columns[i] = tomlColumn{Name: dt.ColumnName(i), Dtype: dtype, Shape: tsr.Shape().Sizes, Values: flatValues(tsr)}
	}
	if meta {
		doc.Meta = PlainMeta(dt.Meta)
	}
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("table.WriteTOML: %v", r)
		}
	}()
	if err := toml.NewEncoder(w).Encode(&doc); err != nil {
		return fmt.Errorf("table.WriteTOML: %w", err)
	}
	return nil
}

// flatValues returns the tensor values as a flat slice
// of the closest TOML type.
func flatValues(tsr tensor.Tensor) any {
	n := tsr.Len()
	switch tsr.DataType() {
	case reflect.String:
		vs := make([]string, n)
		for i := range n {
			vs[i] = tsr.String1D(i)
		}
		return vs
	case reflect.Bool:
		vs := make([]bool, n)
		for i := range n {
			vs[i] = tsr.Float1D(i) != 0
		}
		return vs
	case reflect.Int, reflect.Int32, reflect.Uint8:
		vs := make([]int64, n)
		for i := range n {
			vs[i] = int64(tsr.Int1D(i))
		}
		return vs
	}
	vs := make([]float64, n)
	for i := range n {
		vs[i] = tsr.Float1D(i)
	}
	return vs
}

// ReadTOML reads a table from a TOML document written by
// [Table.WriteTOML], replacing any existing columns.
func (dt *Table) ReadTOML(r io.Reader) error {
	var doc tomlDoc
	if err := toml.NewDecoder(r).Decode(&doc); err != nil {
		return fmt.Errorf("table.ReadTOML: %w", err)
	}
	dt.DeleteAll()
	for _, col := range doc.Columns {
		kind, err := ecsvKind(col.Dtype)
		if err != nil {
			return fmt.Errorf("table.ReadTOML: column %q: %w", col.Name, err)
		}
		if len(col.Shape) == 0 {
			return fmt.Errorf("table.ReadTOML: column %q has no shape", col.Name)
		}
		tsr := tensor.NewOfType(kind, col.Shape...)
		vals, _ := col.Values.([]any)
		if len(vals) != tsr.Len() {
			return fmt.Errorf("table.ReadTOML: column %q has %d values for shape %v", col.Name, len(vals), col.Shape)
		}
		for i, v := range vals {
			switch x := v.(type) {
			case float64:
				tsr.SetFloat1D(x, i)
			case int64:
				tsr.SetInt1D(int(x), i)
			case bool:
				b := 0
				if x {
					b = 1
				}
				tsr.SetInt1D(b, i)
			case string:
				tsr.SetString1D(x, i)
			default:
				return fmt.Errorf("table.ReadTOML: column %q: unexpected value %v", col.Name, v)
			}
		}
		if err := dt.AddColumn(col.Name, tsr); err != nil {
			return fmt.Errorf("table.ReadTOML: %w", err)
		}
	}
	for k, v := range doc.Meta {
		dt.Meta.Set(k, RestoreMeta(v))
	}
	return nil
}
