// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tensor

import (
	"math"
	"strconv"
)

// Complex is a tensor of complex128 values, e.g., cross spectra.
// Float accessors operate on the real part.
type Complex struct {
	Base[complex128]
}

// NewComplex returns a new n-dimensional tensor of complex values
// with the given sizes per dimension (shape).
func NewComplex(sizes ...int) *Complex {
	tsr := &Complex{}
	tsr.SetShape(sizes...)
	return tsr
}

// NewComplexFromParts returns a new complex tensor with the shape of
// the given real or imaginary part, combining them as re + im·i.
// Either part may be nil, in which case it is taken to be zero.
func NewComplexFromParts(re, im Tensor) *Complex {
	ref := re
	if ref == nil {
		ref = im
	}
	tsr := NewComplex(ref.Shape().Sizes...)
	for i := range tsr.Values {
		var r, m float64
		if re != nil {
			r = re.Float1D(i)
		}
		if im != nil {
			m = im.Float1D(i)
		}
		tsr.Values[i] = complex(r, m)
	}
	return tsr
}

// Real returns a new [Float64] tensor with the real parts.
func (tsr *Complex) Real() *Float64 {
	out := NewFloat64(tsr.Shp.Sizes...)
	for i, v := range tsr.Values {
		out.Values[i] = real(v)
	}
	return out
}

// Imag returns a new [Float64] tensor with the imaginary parts.
func (tsr *Complex) Imag() *Float64 {
	out := NewFloat64(tsr.Shp.Sizes...)
	for i, v := range tsr.Values {
		out.Values[i] = imag(v)
	}
	return out
}

func (tsr *Complex) IsString() bool { return false }

func (tsr *Complex) Float1D(i int) float64 { return real(tsr.Values[i]) }

func (tsr *Complex) SetFloat1D(val float64, i int) { tsr.Values[i] = complex(val, 0) }

func (tsr *Complex) Int1D(i int) int { return int(real(tsr.Values[i])) }

func (tsr *Complex) SetInt1D(val int, i int) { tsr.Values[i] = complex(float64(val), 0) }

func (tsr *Complex) Complex1D(i int) complex128 { return tsr.Values[i] }

func (tsr *Complex) SetComplex1D(val complex128, i int) { tsr.Values[i] = val }

func (tsr *Complex) String1D(i int) string {
	return strconv.FormatComplex(tsr.Values[i], 'g', -1, 128)
}

func (tsr *Complex) SetString1D(val string, i int) {
	cv, err := strconv.ParseComplex(val, 128)
	if err != nil {
		cv = complex(math.NaN(), 0)
	}
	tsr.Values[i] = cv
}

// Clone clones this tensor, creating a duplicate copy of itself with its
// own separate memory representation of all the values.
func (tsr *Complex) Clone() Tensor {
	return &Complex{Base: tsr.cloneBase()}
}
