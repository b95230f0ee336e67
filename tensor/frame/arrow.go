// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package frame

import (
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"

	"cogentcore.org/stingray/tensor"
	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
)

// Field metadata keys used to record the tensor layout of a column.
const (
	// ShapeKey holds the cell sizes of an n-dimensional column,
	// as a comma separated list.
	ShapeKey = "stingray.shape"

	// DtypeKey holds the tensor data type name of a column,
	// when it differs from what the arrow type implies.
	DtypeKey = "stingray.dtype"
)

// kindOf returns the tensor kind for the given arrow element type.
func kindOf(dt arrow.DataType) (reflect.Kind, error) {
	switch dt.ID() {
	case arrow.FLOAT64:
		return reflect.Float64, nil
	case arrow.FLOAT32:
		return reflect.Float32, nil
	case arrow.INT64, arrow.UINT64, arrow.INT16, arrow.UINT16, arrow.INT8, arrow.UINT32:
		return reflect.Int, nil
	case arrow.INT32:
		return reflect.Int32, nil
	case arrow.UINT8:
		return reflect.Uint8, nil
	case arrow.BOOL:
		return reflect.Bool, nil
	case arrow.STRING, arrow.LARGE_STRING:
		return reflect.String, nil
	}
	return reflect.Invalid, fmt.Errorf("frame: arrow type %s is not supported", dt)
}

// flatArray builds a flat arrow array holding all of the values of
// the tensor, in row-major order. Complex values are interleaved as
// real, imaginary float64 pairs.
func flatArray(mem memory.Allocator, tsr tensor.Tensor) (arrow.Array, error) {
	n := tsr.Len()
	switch tsr.DataType() {
	case reflect.Float64:
		b := array.NewFloat64Builder(mem)
		defer b.Release()
		b.AppendValues(tsr.(*tensor.Float64).Values, nil)
		return b.NewArray(), nil
	case reflect.Complex128:
		b := array.NewFloat64Builder(mem)
		defer b.Release()
		b.Reserve(2 * n)
		for _, c := range tsr.(*tensor.Complex).Values {
			b.UnsafeAppend(real(c))
			b.UnsafeAppend(imag(c))
		}
		return b.NewArray(), nil
	case reflect.Float32:
		b := array.NewFloat32Builder(mem)
		defer b.Release()
		b.AppendValues(tsr.(*tensor.Float32).Values, nil)
		return b.NewArray(), nil
	case reflect.Int:
		b := array.NewInt64Builder(mem)
		defer b.Release()
		b.Reserve(n)
		for _, v := range tsr.(*tensor.Int).Values {
			b.UnsafeAppend(int64(v))
		}
		return b.NewArray(), nil
	case reflect.Int32:
		b := array.NewInt32Builder(mem)
		defer b.Release()
		b.AppendValues(tsr.(*tensor.Int32).Values, nil)
		return b.NewArray(), nil
	case reflect.Uint8:
		b := array.NewUint8Builder(mem)
		defer b.Release()
		b.AppendValues(tsr.(*tensor.Byte).Values, nil)
		return b.NewArray(), nil
	case reflect.Bool:
		b := array.NewBooleanBuilder(mem)
		defer b.Release()
		b.AppendValues(tsr.(*tensor.Bool).Values, nil)
		return b.NewArray(), nil
	case reflect.String:
		b := array.NewStringBuilder(mem)
		defer b.Release()
		b.AppendValues(tsr.(*tensor.String).Values, nil)
		return b.NewArray(), nil
	}
	return nil, fmt.Errorf("frame: tensor type %v has no arrow representation", tsr.DataType())
}

// toArrow converts the tensor to an arrow array and the field describing it.
// The outermost dimension of the tensor is the row dimension.
// Cells with more than one value become fixed size lists, with the
// cell shape recorded in the field metadata.
func toArrow(mem memory.Allocator, name string, tsr tensor.Tensor) (arrow.Field, arrow.Array, error) {
	if tsr.NumDims() == 0 {
		return arrow.Field{}, nil, fmt.Errorf("frame: column %q has no dimensions", name)
	}
	flat, err := flatArray(mem, tsr)
	if err != nil {
		return arrow.Field{}, nil, err
	}
	rows, cells := tsr.RowCellSize()
	isCplx := tsr.DataType() == reflect.Complex128
	var keys, vals []string
	if isCplx {
		keys = append(keys, DtypeKey)
		vals = append(vals, "complex128")
		cells *= 2
	}
	if tsr.NumDims() > 1 {
		keys = append(keys, ShapeKey)
		vals = append(vals, shapeString(tsr.Shape().CellSizes()))
	}
	fld := arrow.Field{Name: name, Type: flat.DataType(), Nullable: true}
	if len(keys) > 0 {
		fld.Metadata = arrow.NewMetadata(keys, vals)
	}
	if !isCplx && tsr.NumDims() == 1 {
		return fld, flat, nil
	}
	defer flat.Release()
	ltyp := arrow.FixedSizeListOf(int32(cells), flat.DataType())
	data := array.NewData(ltyp, rows, []*memory.Buffer{nil}, []arrow.ArrayData{flat.Data()}, 0, 0)
	defer data.Release()
	fld.Type = ltyp
	return fld, array.NewFixedSizeListData(data), nil
}

// fromArrow converts the arrow array described by the given field
// to a new tensor. Null values become NaN for floating point types
// and zero values otherwise.
func fromArrow(fld arrow.Field, arr arrow.Array) (tensor.Tensor, error) {
	rows := arr.Len()
	values := arr
	offset := 0
	cells := 1
	if lst, ok := arr.(*array.FixedSizeList); ok {
		cells = int(lst.DataType().(*arrow.FixedSizeListType).Len())
		values = lst.ListValues()
		offset = lst.Data().Offset() * cells
	}
	kind, err := kindOf(values.DataType())
	if err != nil {
		return nil, fmt.Errorf("frame: column %q: %w", fld.Name, err)
	}
	if dt, ok := fld.Metadata.GetValue(DtypeKey); ok && dt == "complex128" {
		kind = reflect.Complex128
	}
	sizes := []int{rows}
	if sh, ok := fld.Metadata.GetValue(ShapeKey); ok {
		cs, err := parseShape(sh)
		if err != nil {
			return nil, fmt.Errorf("frame: column %q: %w", fld.Name, err)
		}
		sizes = append(sizes, cs...)
	} else if cells > 1 && kind != reflect.Complex128 {
		sizes = append(sizes, cells)
	}
	tsr := tensor.NewOfType(kind, sizes...)
	n := tsr.Len()
	if kind == reflect.Complex128 {
		if rows > 0 && cells != 2*(n/rows) {
			return nil, fmt.Errorf("frame: column %q: complex cell size %d does not match shape %v", fld.Name, cells, sizes)
		}
		fv, ok := values.(*array.Float64)
		if !ok {
			return nil, fmt.Errorf("frame: column %q: complex values must be float64 pairs", fld.Name)
		}
		ct := tsr.(*tensor.Complex)
		for i := range n {
			j := offset + 2*i
			ct.Values[i] = complex(floatAt(fv, j), floatAt(fv, j+1))
		}
		return ct, nil
	}
	if rows > 0 && n/rows != cells {
		return nil, fmt.Errorf("frame: column %q: cell size %d does not match shape %v", fld.Name, cells, sizes)
	}
	for i := range n {
		j := offset + i
		if values.IsNull(j) {
			if !tsr.IsString() {
				tsr.SetFloat1D(nullFloat(kind), i)
			}
			continue
		}
		switch va := values.(type) {
		case *array.Float64:
			tsr.SetFloat1D(va.Value(j), i)
		case *array.Float32:
			tsr.SetFloat1D(float64(va.Value(j)), i)
		case *array.Int64:
			tsr.SetInt1D(int(va.Value(j)), i)
		case *array.Uint64:
			tsr.SetInt1D(int(va.Value(j)), i)
		case *array.Int32:
			tsr.SetInt1D(int(va.Value(j)), i)
		case *array.Uint32:
			tsr.SetInt1D(int(va.Value(j)), i)
		case *array.Int16:
			tsr.SetInt1D(int(va.Value(j)), i)
		case *array.Uint16:
			tsr.SetInt1D(int(va.Value(j)), i)
		case *array.Int8:
			tsr.SetInt1D(int(va.Value(j)), i)
		case *array.Uint8:
			tsr.SetInt1D(int(va.Value(j)), i)
		case *array.Boolean:
			tsr.(*tensor.Bool).Values[i] = va.Value(j)
		case *array.String:
			tsr.SetString1D(va.Value(j), i)
		case *array.LargeString:
			tsr.SetString1D(va.Value(j), i)
		}
	}
	return tsr, nil
}

func floatAt(fv *array.Float64, i int) float64 {
	if fv.IsNull(i) {
		return math.NaN()
	}
	return fv.Value(i)
}

func nullFloat(kind reflect.Kind) float64 {
	if kind == reflect.Float64 || kind == reflect.Float32 {
		return math.NaN()
	}
	return 0
}

func shapeString(sizes []int) string {
	ss := make([]string, len(sizes))
	for i, s := range sizes {
		ss[i] = strconv.Itoa(s)
	}
	return strings.Join(ss, ",")
}

func parseShape(s string) ([]int, error) {
	if s == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	sizes := make([]int, len(parts))
	for i, p := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return nil, fmt.Errorf("invalid shape %q: %w", s, err)
		}
		sizes[i] = v
	}
	return sizes, nil
}
