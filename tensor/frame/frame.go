// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package frame provides a dataframe of named columns backed by
// Apache Arrow arrays, with frame level attributes, and reading and
// writing of the Arrow IPC file format.
//
// Columns are converted to and from [tensor.Tensor] values, with the
// outermost tensor dimension as the row dimension. Columns with
// n-dimensional cells are stored as fixed size lists with the cell
// shape recorded in the field metadata, and complex values are stored
// as interleaved float64 pairs.
package frame

import (
	"fmt"
	"io"

	"cogentcore.org/stingray/base/keylist"
	"cogentcore.org/stingray/base/metadata"
	"cogentcore.org/stingray/tensor"
	"cogentcore.org/stingray/tensor/table"
	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/ipc"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"gopkg.in/yaml.v3"
)

type column struct {
	field arrow.Field
	arr   arrow.Array
}

// Frame is a dataframe: an ordered set of named arrow columns
// sharing the same number of rows, with frame level attributes.
// Call [Frame.Release] when done with it to release the arrow memory.
type Frame struct {
	// Attrs are the frame level attributes, stored as the
	// schema metadata in the Arrow IPC format.
	Attrs metadata.Data

	columns keylist.List[string, *column]
	rows    int
	mem     memory.Allocator
}

// New returns a new empty Frame using the given allocator,
// or the default Go allocator if none is given.
func New(mem ...memory.Allocator) *Frame {
	fr := &Frame{mem: memory.NewGoAllocator()}
	if len(mem) == 1 && mem[0] != nil {
		fr.mem = mem[0]
	}
	return fr
}

// Len returns the number of rows, 0 if there are no columns.
func (fr *Frame) Len() int {
	if fr.columns.Len() == 0 {
		return 0
	}
	return fr.rows
}

// NumColumns returns the number of columns.
func (fr *Frame) NumColumns() int { return fr.columns.Len() }

// ColumnNames returns the column names, in order.
func (fr *Frame) ColumnNames() []string {
	return append([]string(nil), fr.columns.Keys...)
}

// Column returns the arrow array of the column with given name, or nil.
// The array is owned by the frame.
func (fr *Frame) Column(name string) arrow.Array {
	cl, ok := fr.columns.AtTry(name)
	if !ok {
		return nil
	}
	return cl.arr
}

// ColumnTry returns the column with given name converted to a new tensor.
func (fr *Frame) ColumnTry(name string) (tensor.Tensor, error) {
	cl, ok := fr.columns.AtTry(name)
	if !ok {
		return nil, fmt.Errorf("frame: column named %q not found", name)
	}
	return fromArrow(cl.field, cl.arr)
}

// SetColumn sets the column of given name to the values of the tensor,
// replacing any existing column of that name in place, and otherwise
// adding it at the end. The tensor row count must match the other columns.
func (fr *Frame) SetColumn(name string, tsr tensor.Tensor) error {
	fld, arr, err := toArrow(fr.mem, name, tsr)
	if err != nil {
		return err
	}
	return fr.setArray(fld, arr)
}

// setArray sets the column for given field to the array,
// taking ownership of it.
func (fr *Frame) setArray(fld arrow.Field, arr arrow.Array) error {
	idx := fr.columns.IndexByKey(fld.Name)
	only := fr.columns.Len() == 0 || (fr.columns.Len() == 1 && idx == 0)
	if !only && arr.Len() != fr.rows {
		arr.Release()
		return fmt.Errorf("frame: column %q has %d rows, not %d", fld.Name, arr.Len(), fr.rows)
	}
	fr.rows = arr.Len()
	if idx >= 0 {
		old := fr.columns.Values[idx]
		old.arr.Release()
		fr.columns.Values[idx] = &column{field: fld, arr: arr}
		return nil
	}
	return fr.columns.Add(fld.Name, &column{field: fld, arr: arr})
}

// DeleteColumn deletes the column of given name, returning false if not found.
func (fr *Frame) DeleteColumn(name string) bool {
	cl, ok := fr.columns.AtTry(name)
	if !ok {
		return false
	}
	cl.arr.Release()
	return fr.columns.DeleteByKey(name)
}

// Metadata returns the frame attributes.
func (fr *Frame) Metadata() *metadata.Data { return &fr.Attrs }

// Schema returns the arrow schema for the frame, including the
// attributes as schema metadata if meta is true.
// Attribute values are encoded as YAML text.
func (fr *Frame) Schema(meta bool) (*arrow.Schema, error) {
	fields := make([]arrow.Field, fr.columns.Len())
	for i, cl := range fr.columns.Values {
		fields[i] = cl.field
	}
	if !meta || len(fr.Attrs) == 0 {
		return arrow.NewSchema(fields, nil), nil
	}
	pm := table.PlainMeta(fr.Attrs)
	keys := fr.Attrs.Keys()
	vals := make([]string, len(keys))
	for i, k := range keys {
		b, err := table.MarshalYAML(pm[k])
		if err != nil {
			return nil, fmt.Errorf("frame: attribute %q: %w", k, err)
		}
		vals[i] = string(b)
	}
	md := arrow.NewMetadata(keys, vals)
	return arrow.NewSchema(fields, &md), nil
}

// Record returns the frame as an arrow Record, which
// must be released by the caller.
func (fr *Frame) Record(meta bool) (arrow.Record, error) {
	sc, err := fr.Schema(meta)
	if err != nil {
		return nil, err
	}
	cols := make([]arrow.Array, fr.columns.Len())
	for i, cl := range fr.columns.Values {
		cols[i] = cl.arr
	}
	return array.NewRecord(sc, cols, int64(fr.Len())), nil
}

// FromRecord returns a new Frame with the columns of the given record,
// which are retained, and the attributes decoded from its schema metadata.
func FromRecord(rec arrow.Record, mem ...memory.Allocator) (*Frame, error) {
	fr := New(mem...)
	sc := rec.Schema()
	for i, fld := range sc.Fields() {
		arr := rec.Column(i)
		arr.Retain()
		if err := fr.setArray(fld, arr); err != nil {
			fr.Release()
			return nil, err
		}
	}
	fr.rows = int(rec.NumRows())
	fr.decodeAttrs(sc.Metadata())
	return fr, nil
}

// decodeAttrs sets the attributes from the given schema metadata.
// Values that are not valid YAML are kept as strings.
func (fr *Frame) decodeAttrs(md arrow.Metadata) {
	keys := md.Keys()
	vals := md.Values()
	for i, k := range keys {
		var v any
		if err := yaml.Unmarshal([]byte(vals[i]), &v); err != nil {
			v = vals[i]
		}
		fr.Attrs.Set(k, table.RestoreMeta(v))
	}
}

// ReadIPC reads a new Frame from the Arrow IPC file format.
// Multiple record batches are concatenated into single columns.
func ReadIPC(r ipc.ReadAtSeeker, mem ...memory.Allocator) (*Frame, error) {
	fr := New(mem...)
	rd, err := ipc.NewFileReader(r, ipc.WithAllocator(fr.mem))
	if err != nil {
		return nil, fmt.Errorf("frame.ReadIPC: %w", err)
	}
	defer rd.Close()
	recs := make([]arrow.Record, 0, rd.NumRecords())
	defer func() {
		for _, rec := range recs {
			rec.Release()
		}
	}()
	for i := range rd.NumRecords() {
		rec, err := rd.RecordAt(i)
		if err != nil {
			return nil, fmt.Errorf("frame.ReadIPC: %w", err)
		}
		recs = append(recs, rec)
	}
	sc := rd.Schema()
	for i, fld := range sc.Fields() {
		var arr arrow.Array
		switch len(recs) {
		case 0:
			arr = array.MakeArrayOfNull(fr.mem, fld.Type, 0)
		case 1:
			arr = recs[0].Column(i)
			arr.Retain()
		default:
			parts := make([]arrow.Array, len(recs))
			for j, rec := range recs {
				parts[j] = rec.Column(i)
			}
			arr, err = array.Concatenate(parts, fr.mem)
			if err != nil {
				fr.Release()
				return nil, fmt.Errorf("frame.ReadIPC: column %q: %w", fld.Name, err)
			}
		}
		if err := fr.setArray(fld, arr); err != nil {
			fr.Release()
			return nil, err
		}
	}
	fr.decodeAttrs(sc.Metadata())
	return fr, nil
}

// WriteIPC writes the frame in the Arrow IPC file format,
// including the attributes if meta is true.
func (fr *Frame) WriteIPC(w io.Writer, meta bool) error {
	rec, err := fr.Record(meta)
	if err != nil {
		return err
	}
	defer rec.Release()
	fw, err := ipc.NewFileWriter(w, ipc.WithSchema(rec.Schema()), ipc.WithAllocator(fr.mem))
	if err != nil {
		return fmt.Errorf("frame.WriteIPC: %w", err)
	}
	if err := fw.Write(rec); err != nil {
		return fmt.Errorf("frame.WriteIPC: %w", err)
	}
	return fw.Close()
}

// FromTable returns a new Frame with the columns and metadata of the table.
func FromTable(dt *table.Table, mem ...memory.Allocator) (*Frame, error) {
	fr := New(mem...)
	for i, cl := range dt.Columns.Values {
		if err := fr.SetColumn(dt.ColumnName(i), cl); err != nil {
			fr.Release()
			return nil, err
		}
	}
	fr.Attrs.Copy(dt.Meta)
	return fr, nil
}

// Table returns a new [table.Table] with the columns converted to
// tensors, and the attributes as the table metadata.
func (fr *Frame) Table() (*table.Table, error) {
	dt := table.New()
	for i, cl := range fr.columns.Values {
		tsr, err := fromArrow(cl.field, cl.arr)
		if err != nil {
			return nil, err
		}
		if err := dt.AddColumn(fr.columns.Keys[i], tsr); err != nil {
			return nil, err
		}
	}
	dt.Meta.Copy(fr.Attrs)
	return dt, nil
}

// Release releases the arrow memory of all columns, and resets the frame.
func (fr *Frame) Release() {
	for _, cl := range fr.columns.Values {
		cl.arr.Release()
	}
	fr.columns.Reset()
	fr.rows = 0
}
