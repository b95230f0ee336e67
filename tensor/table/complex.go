// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package table

import (
	"reflect"
	"strings"

	"cogentcore.org/stingray/tensor"
)

// Suffixes of the column names holding the two halves
// of a complex column, in formats without complex support.
const (
	RealSuffix = ".real"
	ImagSuffix = ".imag"
)

// SplitComplex replaces every complex-typed column X with two float64
// columns, X.real and X.imag, at the same position.
func (dt *Table) SplitComplex() {
	for i := 0; i < dt.NumColumns(); i++ {
		cl, ok := dt.ColumnByIndex(i).(*tensor.Complex)
		if !ok {
			continue
		}
		nm := dt.ColumnName(i)
		dt.Columns.DeleteByIndex(i, i+1)
		dt.Columns.Insert(i, nm+RealSuffix, cl.Real())
		dt.Columns.Insert(i+1, nm+ImagSuffix, cl.Imag())
		i++
	}
}

// MergeComplex combines columns named X.real and X.imag into one
// complex column X, at the position of the first of the two, with a
// missing half taken as zero. If a column X already exists, it is
// converted to complex and the halves are added to it.
func (dt *Table) MergeComplex() {
	for i := 0; i < dt.NumColumns(); i++ {
		nm := dt.ColumnName(i)
		var base string
		switch {
		case strings.HasSuffix(nm, RealSuffix):
			base = strings.TrimSuffix(nm, RealSuffix)
		case strings.HasSuffix(nm, ImagSuffix):
			base = strings.TrimSuffix(nm, ImagSuffix)
		default:
			continue
		}
		re := dt.Column(base + RealSuffix)
		im := dt.Column(base + ImagSuffix)
		cv := tensor.NewComplexFromParts(re, im)
		if ex := dt.Column(base); ex != nil {
			addComplex(cv, ex)
		}
		dt.DeleteColumnName(base + RealSuffix)
		dt.DeleteColumnName(base + ImagSuffix)
		if idx := dt.ColumnIndex(base); idx >= 0 {
			dt.Columns.Values[idx] = cv
			i = -1
			continue
		}
		dt.Columns.Insert(i, base, cv)
	}
}

// addComplex adds the values of a tensor of any numeric type to cv.
func addComplex(cv *tensor.Complex, tsr tensor.Tensor) {
	if tsr.DataType() == reflect.String {
		return
	}
	n := min(cv.Len(), tsr.Len())
	for i := range n {
		cv.Values[i] += tsr.Complex1D(i)
	}
}
