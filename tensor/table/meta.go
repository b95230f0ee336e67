// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package table

import (
	"bytes"
	"fmt"
	"reflect"

	"cogentcore.org/stingray/base/metadata"
	"cogentcore.org/stingray/tensor"
	"gopkg.in/yaml.v3"
)

// PlainMeta returns the metadata as a map of plain Go values
// that text encoders can represent: tensor values are converted
// to nested slices with [tensor.ToValue], and complex numbers,
// including those in slices and maps, to {real, imag} maps.
// [RestoreMeta] reverses the complex conversion.
// Returns nil if empty.
func PlainMeta(md metadata.Data) map[string]any {
	if len(md) == 0 {
		return nil
	}
	pm := make(map[string]any, len(md))
	for k, v := range md {
		if tsr, ok := v.(tensor.Tensor); ok {
			v = tensor.ToValue(tsr)
		}
		pm[k] = plainValue(v)
	}
	return pm
}

func plainValue(v any) any {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Complex64, reflect.Complex128:
		c := rv.Complex()
		return map[string]any{"real": real(c), "imag": imag(c)}
	case reflect.Slice, reflect.Array:
		if (rv.Kind() == reflect.Slice && rv.IsNil()) || !mayHoldComplex(rv.Type().Elem()) {
			return v
		}
		vs := make([]any, rv.Len())
		for i := range vs {
			vs[i] = plainValue(rv.Index(i).Interface())
		}
		return vs
	case reflect.Map:
		if rv.IsNil() || rv.Type().Key().Kind() != reflect.String || !mayHoldComplex(rv.Type().Elem()) {
			return v
		}
		m := make(map[string]any, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			m[iter.Key().String()] = plainValue(iter.Value().Interface())
		}
		return m
	}
	return v
}

func mayHoldComplex(typ reflect.Type) bool {
	switch typ.Kind() {
	case reflect.Complex64, reflect.Complex128, reflect.Interface:
		return true
	case reflect.Slice, reflect.Array, reflect.Map:
		return mayHoldComplex(typ.Elem())
	}
	return false
}

// RestoreMeta returns the decoded metadata value with the
// {real, imag} maps written by [PlainMeta] converted back to
// complex128, and slices of them to []complex128 or [][]complex128.
func RestoreMeta(v any) any {
	switch x := v.(type) {
	case map[string]any:
		if c, ok := complexValue(x); ok {
			return c
		}
		for k, e := range x {
			x[k] = RestoreMeta(e)
		}
		return x
	case []any:
		if len(x) == 0 {
			return x
		}
		for i, e := range x {
			x[i] = RestoreMeta(e)
		}
		if cs, ok := sliceOf[complex128](x); ok {
			return cs
		}
		if css, ok := sliceOf[[]complex128](x); ok {
			return css
		}
		return x
	}
	return v
}

// complexValue returns the complex number for a map with only
// numeric real and imag entries.
func complexValue(m map[string]any) (complex128, bool) {
	if len(m) != 2 {
		return 0, false
	}
	re, ok := number(m["real"])
	if !ok {
		return 0, false
	}
	im, ok := number(m["imag"])
	if !ok {
		return 0, false
	}
	return complex(re, im), true
}

func number(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case int:
		return float64(x), true
	case int64:
		return float64(x), true
	case uint64:
		return float64(x), true
	}
	return 0, false
}

func sliceOf[T any](vs []any) ([]T, bool) {
	ts := make([]T, len(vs))
	for i, v := range vs {
		t, ok := v.(T)
		if !ok {
			return nil, false
		}
		ts[i] = t
	}
	return ts, true
}

// MarshalYAML returns the YAML encoding of v with an indent of 2.
// Values that yaml cannot encode return an error.
func MarshalYAML(v any) (b []byte, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("yaml: %v", r)
		}
	}()
	var yb bytes.Buffer
	ye := yaml.NewEncoder(&yb)
	ye.SetIndent(2)
	if err := ye.Encode(v); err != nil {
		return nil, err
	}
	if err := ye.Close(); err != nil {
		return nil, err
	}
	return yb.Bytes(), nil
}
