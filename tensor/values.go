// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tensor

import (
	"fmt"
	"reflect"
	"slices"
	"strconv"
)

var tensorType = reflect.TypeFor[Tensor]()

// IsTensorType returns true if values of the given type are tensors.
func IsTensorType(t reflect.Type) bool {
	return t.Implements(tensorType)
}

// ShapeOf returns the shape of the given Go value, and false if the
// value is not an array: nil values, scalars, strings and maps have no
// shape. Slices and arrays have their length as the first dimension,
// and nested slices or arrays add inner dimensions as long as they are
// rectangular. Tensors return their own shape.
func ShapeOf(v reflect.Value) ([]int, bool) {
	if !v.IsValid() {
		return nil, false
	}
	if IsTensorType(v.Type()) {
		if isNil(v) {
			return nil, false
		}
		return slices.Clone(v.Interface().(Tensor).Shape().Sizes), true
	}
	switch v.Kind() {
	case reflect.Interface, reflect.Pointer:
		if v.IsNil() {
			return nil, false
		}
		return ShapeOf(v.Elem())
	case reflect.Slice:
		if v.IsNil() {
			return nil, false
		}
	case reflect.Array:
	default:
		return nil, false
	}
	n := v.Len()
	shape := []int{n}
	if n == 0 || !nests(v.Type().Elem()) {
		return shape, true
	}
	inner, ok := ShapeOf(v.Index(0))
	if !ok {
		return shape, true
	}
	for i := 1; i < n; i++ {
		si, ok := ShapeOf(v.Index(i))
		if !ok || !slices.Equal(si, inner) {
			return shape, true
		}
	}
	return append(shape, inner...), true
}

// nests returns true if elements of given type can have a shape,
// adding inner dimensions to an enclosing slice.
func nests(t reflect.Type) bool {
	if IsTensorType(t) {
		return false
	}
	switch t.Kind() {
	case reflect.Slice, reflect.Array, reflect.Interface:
		return true
	case reflect.Pointer:
		return nests(t.Elem())
	}
	return false
}

func isNil(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Slice, reflect.Map, reflect.Func, reflect.Chan:
		return v.IsNil()
	}
	return false
}

// deref follows interfaces and non-tensor pointers to the underlying value.
func deref(v reflect.Value) reflect.Value {
	for (v.Kind() == reflect.Interface || v.Kind() == reflect.Pointer) && !v.IsNil() && !IsTensorType(v.Type()) {
		v = v.Elem()
	}
	return v
}

// FromValue returns a new tensor holding a copy of the given Go array
// value, as a plain typed array of the closest supported data type:
// all signed and unsigned integers other than int32 and uint8 become int,
// and complex64 becomes complex128. Slices mixing numeric types
// (as in []any) become float64, or complex128 if any value is complex.
// Tensors are cloned.
func FromValue(v reflect.Value) (Tensor, error) {
	v = deref(v)
	if !v.IsValid() || isNil(v) {
		return nil, fmt.Errorf("tensor.FromValue: nil value is not an array")
	}
	if IsTensorType(v.Type()) {
		return v.Interface().(Tensor).Clone(), nil
	}
	shape, ok := ShapeOf(v)
	if !ok {
		return nil, fmt.Errorf("tensor.FromValue: %s value is not an array", v.Type())
	}
	var leaves []reflect.Value
	collectLeaves(v, len(shape), &leaves)
	kind, err := leafKind(leaves, v.Type())
	if err != nil {
		return nil, err
	}
	tsr := NewOfType(kind, shape...)
	for i, lv := range leaves {
		if err := setFromLeaf(tsr, lv, i); err != nil {
			return nil, err
		}
	}
	return tsr, nil
}

func collectLeaves(v reflect.Value, depth int, leaves *[]reflect.Value) {
	v = deref(v)
	if depth == 0 {
		*leaves = append(*leaves, v)
		return
	}
	for i := range v.Len() {
		collectLeaves(v.Index(i), depth-1, leaves)
	}
}

// kindFor maps a Go element kind to the supported tensor kind.
func kindFor(k reflect.Kind) (reflect.Kind, bool) {
	switch k {
	case reflect.Float64, reflect.Float32, reflect.Int32, reflect.Uint8,
		reflect.Bool, reflect.String, reflect.Complex128:
		return k, true
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int64,
		reflect.Uint, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return reflect.Int, true
	case reflect.Complex64:
		return reflect.Complex128, true
	}
	return reflect.Invalid, false
}

func isRealKind(k reflect.Kind) bool {
	switch k {
	case reflect.Float64, reflect.Float32, reflect.Int, reflect.Int32, reflect.Uint8:
		return true
	}
	return false
}

// leafKind determines the tensor kind for the given leaf values,
// using the static element type when there are no values.
func leafKind(leaves []reflect.Value, typ reflect.Type) (reflect.Kind, error) {
	if len(leaves) == 0 {
		et := typ
		for et.Kind() == reflect.Slice || et.Kind() == reflect.Array || et.Kind() == reflect.Pointer {
			et = et.Elem()
		}
		if et.Kind() == reflect.Interface {
			return reflect.Float64, nil
		}
		if k, ok := kindFor(et.Kind()); ok {
			return k, nil
		}
		return reflect.Invalid, fmt.Errorf("tensor.FromValue: unsupported element type %s", et)
	}
	kind := reflect.Invalid
	for _, lv := range leaves {
		if !lv.IsValid() {
			return reflect.Invalid, fmt.Errorf("tensor.FromValue: nil element in %s", typ)
		}
		k, ok := kindFor(lv.Kind())
		if !ok {
			return reflect.Invalid, fmt.Errorf("tensor.FromValue: unsupported element type %s", lv.Type())
		}
		switch {
		case kind == reflect.Invalid || kind == k:
			kind = k
		case (isRealKind(kind) || kind == reflect.Complex128) && (isRealKind(k) || k == reflect.Complex128):
			if kind == reflect.Complex128 || k == reflect.Complex128 {
				kind = reflect.Complex128
			} else {
				kind = reflect.Float64
			}
		default:
			return reflect.Invalid, fmt.Errorf("tensor.FromValue: mixed element types %v and %v in %s", kind, k, typ)
		}
	}
	return kind, nil
}

func setFromLeaf(tsr Tensor, lv reflect.Value, i int) error {
	switch lv.Kind() {
	case reflect.Float32, reflect.Float64:
		tsr.SetFloat1D(lv.Float(), i)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		tsr.SetInt1D(int(lv.Int()), i)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		tsr.SetInt1D(int(lv.Uint()), i)
	case reflect.Complex64, reflect.Complex128:
		tsr.SetComplex1D(lv.Complex(), i)
	case reflect.Bool:
		b := 0
		if lv.Bool() {
			b = 1
		}
		tsr.SetInt1D(b, i)
	case reflect.String:
		tsr.SetString1D(lv.String(), i)
	default:
		return fmt.Errorf("tensor.FromValue: unsupported element type %s", lv.Type())
	}
	return nil
}

// GoType returns the Go element type for values of given tensor kind.
func GoType(kind reflect.Kind) reflect.Type {
	switch kind {
	case reflect.Float32:
		return reflect.TypeFor[float32]()
	case reflect.Int:
		return reflect.TypeFor[int]()
	case reflect.Int32:
		return reflect.TypeFor[int32]()
	case reflect.Uint8:
		return reflect.TypeFor[uint8]()
	case reflect.Bool:
		return reflect.TypeFor[bool]()
	case reflect.String:
		return reflect.TypeFor[string]()
	case reflect.Complex128:
		return reflect.TypeFor[complex128]()
	}
	return reflect.TypeFor[float64]()
}

// ToValue returns the tensor values as a plain Go value: a slice of the
// tensor element type for 1D tensors, and nested slices for more
// dimensions, e.g., [][]float64 for a 2D [Float64].
func ToValue(tsr Tensor) any {
	if tsr.NumDims() == 0 {
		return nil
	}
	typ := GoType(tsr.DataType())
	for range tsr.NumDims() {
		typ = reflect.SliceOf(typ)
	}
	v := reflect.New(typ).Elem()
	if _, err := fill(v, tsr, tsr.Shape().Sizes, 0); err != nil {
		return nil
	}
	return v.Interface()
}

// AssignTo copies the tensor values into the given settable Go value,
// which can be a slice or array nested as many times as the tensor has
// dimensions, a tensor type (set to a clone), an interface (set to the
// [ToValue] of the tensor), or a pointer to any of these.
// Element values are converted to the destination element type.
func AssignTo(dst reflect.Value, tsr Tensor) error {
	dt := dst.Type()
	switch {
	case dt == tensorType:
		dst.Set(reflect.ValueOf(tsr.Clone()))
		return nil
	case IsTensorType(dt):
		cl := reflect.ValueOf(tsr.Clone())
		if !cl.Type().AssignableTo(dt) {
			return fmt.Errorf("tensor.AssignTo: cannot assign %v tensor to %s", tsr.DataType(), dt)
		}
		dst.Set(cl)
		return nil
	case dt.Kind() == reflect.Interface:
		nv := reflect.ValueOf(ToValue(tsr))
		if !nv.IsValid() || !nv.Type().AssignableTo(dt) {
			return fmt.Errorf("tensor.AssignTo: cannot assign %v tensor to %s", tsr.DataType(), dt)
		}
		dst.Set(nv)
		return nil
	case dt.Kind() == reflect.Pointer:
		nv := reflect.New(dt.Elem())
		if err := AssignTo(nv.Elem(), tsr); err != nil {
			return err
		}
		dst.Set(nv)
		return nil
	}
	depth := 0
	for et := dt; et.Kind() == reflect.Slice || et.Kind() == reflect.Array; et = et.Elem() {
		depth++
	}
	if depth == 0 || depth != tsr.NumDims() {
		return fmt.Errorf("tensor.AssignTo: cannot assign %d-dimensional %v tensor to %s", tsr.NumDims(), tsr.DataType(), dt)
	}
	_, err := fill(dst, tsr, tsr.Shape().Sizes, 0)
	return err
}

// fill recursively fills dst with tensor values starting at flat offset off,
// returning the next offset.
func fill(dst reflect.Value, tsr Tensor, sizes []int, off int) (int, error) {
	n := sizes[0]
	switch dst.Kind() {
	case reflect.Slice:
		dst.Set(reflect.MakeSlice(dst.Type(), n, n))
	case reflect.Array:
		if dst.Len() != n {
			return off, fmt.Errorf("tensor.AssignTo: array length %d does not match dimension size %d", dst.Len(), n)
		}
	}
	var err error
	for i := range n {
		if len(sizes) > 1 {
			off, err = fill(dst.Index(i), tsr, sizes[1:], off)
		} else {
			err = setLeaf(dst.Index(i), tsr, off)
			off++
		}
		if err != nil {
			return off, err
		}
	}
	return off, nil
}

func setLeaf(dst reflect.Value, tsr Tensor, i int) error {
	switch dst.Kind() {
	case reflect.Float32, reflect.Float64:
		dst.SetFloat(tsr.Float1D(i))
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		dst.SetInt(int64(tsr.Int1D(i)))
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		dst.SetUint(uint64(tsr.Int1D(i)))
	case reflect.Complex64, reflect.Complex128:
		dst.SetComplex(tsr.Complex1D(i))
	case reflect.Bool:
		if tsr.IsString() {
			b, err := strconv.ParseBool(tsr.String1D(i))
			if err != nil {
				return fmt.Errorf("tensor.AssignTo: %w", err)
			}
			dst.SetBool(b)
			return nil
		}
		dst.SetBool(tsr.Float1D(i) != 0)
	case reflect.String:
		dst.SetString(tsr.String1D(i))
	case reflect.Interface:
		dst.Set(reflect.ValueOf(leafValue(tsr, i)))
	default:
		return fmt.Errorf("tensor.AssignTo: unsupported element type %s", dst.Type())
	}
	return nil
}

// leafValue returns the value at 1D index as the tensor's Go element type.
func leafValue(tsr Tensor, i int) any {
	switch tsr.DataType() {
	case reflect.Float32:
		return float32(tsr.Float1D(i))
	case reflect.Int:
		return tsr.Int1D(i)
	case reflect.Int32:
		return int32(tsr.Int1D(i))
	case reflect.Uint8:
		return uint8(tsr.Int1D(i))
	case reflect.Bool:
		return tsr.Float1D(i) != 0
	case reflect.String:
		return tsr.String1D(i)
	case reflect.Complex128:
		return tsr.Complex1D(i)
	}
	return tsr.Float1D(i)
}
