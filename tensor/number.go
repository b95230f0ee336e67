// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tensor

import (
	"math"
	"strconv"
)

// Numeric is the set of real number element types for [Number].
type Numeric interface {
	~float32 | ~float64 | ~int | ~int32 | ~uint8
}

// Number is a tensor of real numerical values.
type Number[T Numeric] struct {
	Base[T]
}

// Float64 is an alias for Number[float64].
type Float64 = Number[float64]

// Float32 is an alias for Number[float32].
type Float32 = Number[float32]

// Int is an alias for Number[int].
type Int = Number[int]

// Int32 is an alias for Number[int32].
type Int32 = Number[int32]

// Byte is an alias for Number[byte].
type Byte = Number[byte]

// NewNumber returns a new n-dimensional tensor of numerical values
// with the given sizes per dimension (shape).
func NewNumber[T Numeric](sizes ...int) *Number[T] {
	tsr := &Number[T]{}
	tsr.SetShape(sizes...)
	return tsr
}

// NewFloat64 returns a new [Float64] tensor
// with the given sizes per dimension (shape).
func NewFloat64(sizes ...int) *Float64 { return NewNumber[float64](sizes...) }

// NewFloat32 returns a new [Float32] tensor
// with the given sizes per dimension (shape).
func NewFloat32(sizes ...int) *Float32 { return NewNumber[float32](sizes...) }

// NewInt returns a new [Int] tensor
// with the given sizes per dimension (shape).
func NewInt(sizes ...int) *Int { return NewNumber[int](sizes...) }

// NewInt32 returns a new [Int32] tensor
// with the given sizes per dimension (shape).
func NewInt32(sizes ...int) *Int32 { return NewNumber[int32](sizes...) }

// NewByte returns a new [Byte] tensor
// with the given sizes per dimension (shape).
func NewByte(sizes ...int) *Byte { return NewNumber[byte](sizes...) }

func (tsr *Number[T]) IsString() bool { return false }

func (tsr *Number[T]) Float1D(i int) float64 { return float64(tsr.Values[i]) }

func (tsr *Number[T]) SetFloat1D(val float64, i int) { tsr.Values[i] = T(val) }

func (tsr *Number[T]) Int1D(i int) int { return int(tsr.Values[i]) }

func (tsr *Number[T]) SetInt1D(val int, i int) { tsr.Values[i] = T(val) }

func (tsr *Number[T]) Complex1D(i int) complex128 {
	return complex(float64(tsr.Values[i]), 0)
}

func (tsr *Number[T]) SetComplex1D(val complex128, i int) { tsr.Values[i] = T(real(val)) }

// String1D formats floats with the minimal number of digits
// needed to represent the value exactly.
func (tsr *Number[T]) String1D(i int) string {
	switch v := any(tsr.Values[i]).(type) {
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(v), 'g', -1, 32)
	default:
		return strconv.Itoa(int(tsr.Values[i]))
	}
}

func (tsr *Number[T]) SetString1D(val string, i int) {
	var z T
	switch any(z).(type) {
	case float64, float32:
		fv, err := strconv.ParseFloat(val, 64)
		if err != nil {
			fv = math.NaN()
		}
		tsr.Values[i] = T(fv)
	default:
		iv, err := strconv.ParseInt(val, 10, 64)
		if err != nil {
			fv, _ := strconv.ParseFloat(val, 64)
			iv = int64(fv)
		}
		tsr.Values[i] = T(iv)
	}
}

// Clone clones this tensor, creating a duplicate copy of itself with its
// own separate memory representation of all the values.
func (tsr *Number[T]) Clone() Tensor {
	return &Number[T]{Base: tsr.cloneBase()}
}
