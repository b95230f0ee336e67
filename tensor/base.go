// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tensor

import (
	"fmt"
	"reflect"
	"slices"

	"cogentcore.org/stingray/base/metadata"
)

// Base is the base n-dim array implementation shared by all
// the concrete tensor types. All fields are exported so that
// tensors can be encoded with encoding/gob.
type Base[T any] struct {
	// Shp is the shape of the tensor.
	Shp Shape

	// Values is the flat row-major backing storage.
	Values []T

	// Meta is the metadata for this tensor.
	Meta metadata.Data
}

// Shape returns a pointer to the shape that fully parametrizes the tensor shape.
func (tsr *Base[T]) Shape() *Shape { return &tsr.Shp }

// Len returns the number of elements in the tensor (product of shape dimensions).
func (tsr *Base[T]) Len() int { return tsr.Shp.Len() }

// NumDims returns the total number of dimensions.
func (tsr *Base[T]) NumDims() int { return tsr.Shp.NumDims() }

// DimSize returns size of given dimension.
func (tsr *Base[T]) DimSize(dim int) int { return tsr.Shp.DimSize(dim) }

// RowCellSize returns the size of the outer-most Row shape dimension,
// and the size of all the remaining inner dimensions (the "cell" size).
func (tsr *Base[T]) RowCellSize() (rows, cells int) {
	return tsr.Shp.RowCellSize()
}

// DataType returns the type of the data elements in the tensor.
func (tsr *Base[T]) DataType() reflect.Kind {
	var v T
	return reflect.TypeOf(v).Kind()
}

// Metadata returns the metadata for this tensor.
func (tsr *Base[T]) Metadata() *metadata.Data { return &tsr.Meta }

// Value1D returns the value at given 1D index.
func (tsr *Base[T]) Value1D(i int) T { return tsr.Values[i] }

// Set1D sets the value at given 1D index.
func (tsr *Base[T]) Set1D(val T, i int) { tsr.Values[i] = val }

// Value returns the value at given n-dimensional index.
func (tsr *Base[T]) Value(i ...int) T { return tsr.Values[tsr.Shp.Offset(i...)] }

// Set sets the value at given n-dimensional index.
func (tsr *Base[T]) Set(val T, i ...int) { tsr.Values[tsr.Shp.Offset(i...)] = val }

// SetShape sets the shape params, resizing backing storage appropriately.
func (tsr *Base[T]) SetShape(sizes ...int) {
	tsr.Shp.SetShape(sizes...)
	tsr.Values = setLength(tsr.Values, tsr.Len())
}

// SetNumRows sets the number of rows (outer-most dimension),
// retaining existing rows that fit.
func (tsr *Base[T]) SetNumRows(rows int) {
	if tsr.NumDims() == 0 {
		tsr.SetShape(rows)
		return
	}
	_, cells := tsr.Shp.RowCellSize()
	tsr.Shp.Sizes[0] = rows
	tsr.Values = setLength(tsr.Values, rows*cells)
}

func (tsr *Base[T]) cloneBase() Base[T] {
	return Base[T]{Shp: Shape{Sizes: slices.Clone(tsr.Shp.Sizes)}, Values: slices.Clone(tsr.Values), Meta: tsr.Meta.Clone()}
}

// String satisfies the fmt.Stringer interface for string of tensor data.
func (tsr *Base[T]) String() string {
	const maxShow = 16
	str := fmt.Sprintf("%v %v", tsr.DataType(), tsr.Shp.Sizes)
	if len(tsr.Values) > maxShow {
		return str + fmt.Sprintf(" %v ...", tsr.Values[:maxShow])
	}
	return str + fmt.Sprintf(" %v", tsr.Values)
}

// setLength sets the length of a slice, growing or truncating it.
func setLength[E any](s []E, n int) []E {
	if len(s) >= n {
		return s[:n]
	}
	return append(s, make([]E, n-len(s))...)
}
