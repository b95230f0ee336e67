// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package tensor provides typed n-dimensional arrays, the common
// data representation for the columns of tables, the variables of
// datasets, and the array attributes of structured objects.
package tensor

import (
	"fmt"
	"reflect"

	"cogentcore.org/stingray/base/metadata"
)

// DataTypes are the tensor data types with specific support.
// Any other Go element type is converted to the closest of these.
type DataTypes interface {
	string | bool | float32 | float64 | int | int32 | byte | complex128
}

// Tensor is the interface for n-dimensional tensors.
// Per C / Go / Python conventions, indexes are Row-Major, ordered from
// outer to inner left-to-right, so the inner-most is right-most.
// It is implemented by the [Number], [String], [Bool] and [Complex] types.
// For float32 and float64 values, NaN indicates missing values.
type Tensor interface {
	fmt.Stringer

	// Shape returns a pointer to the Shape that fully parametrizes
	// the tensor shape.
	Shape() *Shape

	// SetShape sets the sizes parameters of the tensor, and resizes
	// backing storage appropriately, retaining all existing data that fits.
	SetShape(sizes ...int)

	// Len returns the number of elements in the tensor,
	// which is the product of all shape dimensions.
	Len() int

	// NumDims returns the total number of dimensions.
	NumDims() int

	// DimSize returns size of given dimension.
	DimSize(dim int) int

	// RowCellSize returns the size of the outermost Row shape dimension,
	// and the size of all the remaining inner dimensions (the "cell" size).
	RowCellSize() (rows, cells int)

	// SetNumRows sets the number of rows (outermost dimension).
	SetNumRows(rows int)

	// DataType returns the type of the data elements in the tensor.
	DataType() reflect.Kind

	// IsString returns true if the data type is a String; otherwise it is numeric.
	IsString() bool

	// Float1D returns the value of given 1-dimensional index (0-Len()-1) as a float64.
	// Complex values return their real part.
	Float1D(i int) float64

	// SetFloat1D sets the value of given 1-dimensional index (0-Len()-1) as a float64.
	SetFloat1D(val float64, i int)

	// Int1D returns the value of given 1-dimensional index (0-Len()-1) as an int.
	Int1D(i int) int

	// SetInt1D sets the value of given 1-dimensional index (0-Len()-1) as an int.
	SetInt1D(val int, i int)

	// String1D returns the value of given 1-dimensional index (0-Len()-1) as a string.
	String1D(i int) string

	// SetString1D sets the value of given 1-dimensional index (0-Len()-1) as a string,
	// parsing it for numerical types. Unparseable values become NaN or zero.
	SetString1D(val string, i int)

	// Complex1D returns the value of given 1-dimensional index (0-Len()-1)
	// as a complex128. Real types have a zero imaginary part.
	Complex1D(i int) complex128

	// SetComplex1D sets the value of given 1-dimensional index (0-Len()-1)
	// from a complex128. Real types keep only the real part.
	SetComplex1D(val complex128, i int)

	// Clone clones this tensor, creating a duplicate copy of itself with its
	// own separate memory representation of all the values.
	Clone() Tensor

	// Metadata returns the metadata for this tensor.
	Metadata() *metadata.Data
}

// New returns a new n-dimensional tensor of given value type
// with the given sizes per dimension (shape).
func New[T DataTypes](sizes ...int) Tensor {
	var v T
	switch any(v).(type) {
	case string:
		return NewString(sizes...)
	case bool:
		return NewBool(sizes...)
	case complex128:
		return NewComplex(sizes...)
	case float64:
		return NewNumber[float64](sizes...)
	case float32:
		return NewNumber[float32](sizes...)
	case int:
		return NewNumber[int](sizes...)
	case int32:
		return NewNumber[int32](sizes...)
	case byte:
		return NewNumber[byte](sizes...)
	default:
		panic("tensor.New: unexpected error: type not supported")
	}
}

// NewOfType returns a new n-dimensional tensor of given reflect.Kind type
// with the given sizes per dimension (shape).
// Supported types are string, bool, complex128, float32, float64, int,
// int32, and uint8.
func NewOfType(typ reflect.Kind, sizes ...int) Tensor {
	switch typ {
	case reflect.String:
		return NewString(sizes...)
	case reflect.Bool:
		return NewBool(sizes...)
	case reflect.Complex128:
		return NewComplex(sizes...)
	case reflect.Float64:
		return NewNumber[float64](sizes...)
	case reflect.Float32:
		return NewNumber[float32](sizes...)
	case reflect.Int:
		return NewNumber[int](sizes...)
	case reflect.Int32:
		return NewNumber[int32](sizes...)
	case reflect.Uint8:
		return NewNumber[byte](sizes...)
	default:
		panic(fmt.Sprintf("tensor.NewOfType: type not supported: %v", typ))
	}
}

// IsSupportedType returns true if [NewOfType] supports the given kind.
func IsSupportedType(typ reflect.Kind) bool {
	switch typ {
	case reflect.String, reflect.Bool, reflect.Complex128, reflect.Float64,
		reflect.Float32, reflect.Int, reflect.Int32, reflect.Uint8:
		return true
	}
	return false
}

// NewFromValues returns a new tensor using the given values as its
// backing storage (not copied). If no sizes are given, the tensor is 1D
// with the length of the values, otherwise the sizes must multiply to it.
func NewFromValues[T DataTypes](vals []T, sizes ...int) Tensor {
	if len(sizes) == 0 {
		sizes = []int{len(vals)}
	}
	tsr := New[T]()
	tsr.Shape().SetShape(sizes...)
	if tsr.Len() != len(vals) {
		panic(fmt.Sprintf("tensor.NewFromValues: shape %v does not match %d values", sizes, len(vals)))
	}
	switch t := tsr.(type) {
	case *Number[float64]:
		t.Values = any(vals).([]float64)
	case *Number[float32]:
		t.Values = any(vals).([]float32)
	case *Number[int]:
		t.Values = any(vals).([]int)
	case *Number[int32]:
		t.Values = any(vals).([]int32)
	case *Number[byte]:
		t.Values = any(vals).([]byte)
	case *String:
		t.Values = any(vals).([]string)
	case *Bool:
		t.Values = any(vals).([]bool)
	case *Complex:
		t.Values = any(vals).([]complex128)
	}
	return tsr
}

// Equal returns true if the two tensors have the same data type,
// the same shape, and the same values. NaN values compare equal to NaN.
func Equal(a, b Tensor) bool {
	if a.DataType() != b.DataType() || !a.Shape().IsEqual(b.Shape()) {
		return false
	}
	n := a.Len()
	switch {
	case a.IsString():
		for i := range n {
			if a.String1D(i) != b.String1D(i) {
				return false
			}
		}
	default:
		for i := range n {
			ac, bc := a.Complex1D(i), b.Complex1D(i)
			if ac == bc {
				continue
			}
			if !(isNaNComplex(ac) && isNaNComplex(bc)) {
				return false
			}
		}
	}
	return true
}

func isNaNComplex(c complex128) bool {
	return real(c) != real(c) || imag(c) != imag(c)
}
