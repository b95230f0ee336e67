// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tensor

import (
	"math"
	"strconv"
)

// String is a tensor of string values
type String struct {
	Base[string]
}

// NewString returns a new n-dimensional tensor of string values
// with the given sizes per dimension (shape).
func NewString(sizes ...int) *String {
	tsr := &String{}
	tsr.SetShape(sizes...)
	return tsr
}

func (tsr *String) IsString() bool { return true }

func (tsr *String) String1D(i int) string { return tsr.Values[i] }

func (tsr *String) SetString1D(val string, i int) { tsr.Values[i] = val }

func (tsr *String) Float1D(i int) float64 {
	fv, err := strconv.ParseFloat(tsr.Values[i], 64)
	if err != nil {
		return math.NaN()
	}
	return fv
}

func (tsr *String) SetFloat1D(val float64, i int) {
	tsr.Values[i] = strconv.FormatFloat(val, 'g', -1, 64)
}

func (tsr *String) Int1D(i int) int {
	iv, err := strconv.Atoi(tsr.Values[i])
	if err != nil {
		return int(tsr.Float1D(i))
	}
	return iv
}

func (tsr *String) SetInt1D(val int, i int) { tsr.Values[i] = strconv.Itoa(val) }

func (tsr *String) Complex1D(i int) complex128 {
	cv, err := strconv.ParseComplex(tsr.Values[i], 128)
	if err != nil {
		return complex(math.NaN(), 0)
	}
	return cv
}

func (tsr *String) SetComplex1D(val complex128, i int) {
	tsr.Values[i] = strconv.FormatComplex(val, 'g', -1, 128)
}

// Clone clones this tensor, creating a duplicate copy of itself with its
// own separate memory representation of all the values.
func (tsr *String) Clone() Tensor {
	return &String{Base: tsr.cloneBase()}
}
