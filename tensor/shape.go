// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tensor

import (
	"fmt"
	"slices"
)

// Shape manages a tensor's shape information, as the sizes
// of each dimension, in row-major order: the outermost (row)
// dimension is first and the innermost is last.
type Shape struct {
	// Sizes is the size of each dimension.
	Sizes []int
}

// NewShape returns a new shape with given sizes.
func NewShape(sizes ...int) *Shape {
	sh := &Shape{}
	sh.SetShape(sizes...)
	return sh
}

// SetShape sets the shape sizes, copying the given slice.
func (sh *Shape) SetShape(sizes ...int) {
	sh.Sizes = slices.Clone(sizes)
}

// Len returns the total length of elements in the tensor
// (i.e., the product of the shape sizes). A shape with no
// dimensions has zero length.
func (sh *Shape) Len() int {
	if len(sh.Sizes) == 0 {
		return 0
	}
	ln := 1
	for _, v := range sh.Sizes {
		ln *= v
	}
	return ln
}

// NumDims returns the total number of dimensions.
func (sh *Shape) NumDims() int { return len(sh.Sizes) }

// DimSize returns the size of given dimension.
func (sh *Shape) DimSize(i int) int { return sh.Sizes[i] }

// CellSizes returns the sizes of the inner dimensions,
// excluding the outermost row dimension.
func (sh *Shape) CellSizes() []int {
	if len(sh.Sizes) < 2 {
		return nil
	}
	return slices.Clone(sh.Sizes[1:])
}

// RowCellSize returns the size of the outermost Row shape dimension,
// and the size of all the remaining inner dimensions (the "cell" size).
// A 1D shape has a cell size of 1.
func (sh *Shape) RowCellSize() (rows, cells int) {
	if len(sh.Sizes) == 0 {
		return 0, 1
	}
	rows = sh.Sizes[0]
	cells = 1
	for _, v := range sh.Sizes[1:] {
		cells *= v
	}
	return
}

// IsEqual returns true if this shape is the same as the other:
// same number of dimensions and the same sizes in each.
func (sh *Shape) IsEqual(oth *Shape) bool {
	return slices.Equal(sh.Sizes, oth.Sizes)
}

// Offset returns the "flat" 1D array index into an element
// at the given n-dimensional index.
func (sh *Shape) Offset(index ...int) int {
	off := 0
	for i, v := range index {
		off = off*sh.Sizes[i] + v
	}
	return off
}

// Index returns the n-dimensional index from a "flat" 1D array index.
func (sh *Shape) Index(offset int) []int {
	nd := len(sh.Sizes)
	index := make([]int, nd)
	for i := nd - 1; i >= 0; i-- {
		s := sh.Sizes[i]
		if s == 0 {
			return index
		}
		index[i] = offset % s
		offset /= s
	}
	return index
}

// String satisfies the fmt.Stringer interface.
func (sh *Shape) String() string {
	return fmt.Sprint(sh.Sizes)
}
