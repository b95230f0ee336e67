// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tensor

import "strconv"

// Bool is a tensor of bool values, e.g., event flags.
// Numerically, true is 1 and false is 0.
type Bool struct {
	Base[bool]
}

// NewBool returns a new n-dimensional tensor of bool values
// with the given sizes per dimension (shape).
func NewBool(sizes ...int) *Bool {
	tsr := &Bool{}
	tsr.SetShape(sizes...)
	return tsr
}

func (tsr *Bool) IsString() bool { return false }

func (tsr *Bool) Float1D(i int) float64 {
	if tsr.Values[i] {
		return 1
	}
	return 0
}

func (tsr *Bool) SetFloat1D(val float64, i int) { tsr.Values[i] = val != 0 }

func (tsr *Bool) Int1D(i int) int { return int(tsr.Float1D(i)) }

func (tsr *Bool) SetInt1D(val int, i int) { tsr.Values[i] = val != 0 }

func (tsr *Bool) String1D(i int) string { return strconv.FormatBool(tsr.Values[i]) }

func (tsr *Bool) SetString1D(val string, i int) {
	bv, err := strconv.ParseBool(val)
	if err != nil {
		fv, _ := strconv.ParseFloat(val, 64)
		bv = fv != 0
	}
	tsr.Values[i] = bv
}

func (tsr *Bool) Complex1D(i int) complex128 { return complex(tsr.Float1D(i), 0) }

func (tsr *Bool) SetComplex1D(val complex128, i int) { tsr.Values[i] = val != 0 }

// Clone clones this tensor, creating a duplicate copy of itself with its
// own separate memory representation of all the values.
func (tsr *Bool) Clone() Tensor {
	return &Bool{Base: tsr.cloneBase()}
}
