// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package stingray

import (
	"fmt"
	"log/slog"
	"reflect"
	"slices"

	"cogentcore.org/stingray/base/errors"
	"cogentcore.org/stingray/base/metadata"
	"cogentcore.org/stingray/tensor"
	"github.com/go-viper/mapstructure/v2"
	"github.com/jinzhu/copier"
)

// attr is an attribute value of an object.
type attr struct {
	name  string
	value reflect.Value
	field *Field
}

// attrs returns the attributes of the object: the fields in
// declaration order and then the dynamic attributes in sorted order.
func attrs(obj Object) (*Schema, []attr, error) {
	sc, err := SchemaOf(obj)
	if err != nil {
		return nil, nil, err
	}
	v := reflect.ValueOf(obj).Elem()
	var as []attr
	for _, fld := range sc.Fields {
		fv := v.FieldByIndex(fld.Index)
		if fld.Type.Kind() == reflect.Interface && skipValue(fv) {
			continue
		}
		as = append(as, attr{name: fld.Name, value: fv, field: fld})
	}
	if sc.Extra == nil {
		return sc, as, nil
	}
	ex := v.FieldByIndex(sc.Extra).Interface().(map[string]any)
	for _, k := range metadata.Data(ex).Keys() {
		if sc.byName[k] != nil {
			continue
		}
		ev := reflect.ValueOf(ex[k])
		if skipValue(ev) {
			continue
		}
		as = append(as, attr{name: k, value: ev})
	}
	return sc, as, nil
}

// classify splits the attributes into array and meta attributes.
func classify(sc *Schema, as []attr) (arrays, meta []attr) {
	var mainShape []int
	for _, a := range as {
		if a.name == sc.Main {
			mainShape, _ = tensor.ShapeOf(a.value)
			break
		}
	}
	for _, a := range as {
		if len(mainShape) > 0 && mainShape[0] > 0 && (a.field == nil || a.field.Kind == ArrayLike) {
			if sh, ok := tensor.ShapeOf(a.value); ok && slices.Equal(sh, mainShape) {
				if a.name == sc.Main {
					arrays = slices.Insert(arrays, 0, a)
				} else {
					arrays = append(arrays, a)
				}
				continue
			}
		}
		meta = append(meta, a)
	}
	return
}

func mustClassify(obj Object) (arrays, meta []attr) {
	sc, as, err := attrs(obj)
	errors.Must(err)
	return classify(sc, as)
}

func names(as []attr) []string {
	nms := make([]string, len(as))
	for i, a := range as {
		nms[i] = a.name
	}
	return nms
}

// Validate returns an error if the object type does not have a valid
// schema, including a valid main array attribute.
func Validate(obj Object) error {
	_, err := SchemaOf(obj)
	return err
}

// New returns a new zero value object of type T, or [ErrNoMainAttr]
// if the type does not declare a valid main array attribute.
func New[T any, P interface {
	*T
	Object
}]() (*T, error) {
	obj := P(new(T))
	if err := Validate(obj); err != nil {
		return nil, err
	}
	return (*T)(obj), nil
}

// ArrayAttrs returns the names of the array attributes of the object:
// those whose value has exactly the same shape as the value of the main
// array attribute, which is always the first of them. There are none if
// the main array is nil or empty. It panics if the object type is not
// valid; see [Validate].
func ArrayAttrs(obj Object) []string {
	arrays, _ := mustClassify(obj)
	return names(arrays)
}

// MetaAttrs returns the names of all attributes that are not array
// attributes. It panics if the object type is not valid.
func MetaAttrs(obj Object) []string {
	_, meta := mustClassify(obj)
	return names(meta)
}

// MetaDict returns the values of the meta attributes that are not nil,
// as copies that are independent of the object. It panics if the
// object type is not valid.
func MetaDict(obj Object) metadata.Data {
	_, meta := mustClassify(obj)
	md := metadata.Data{}
	for _, a := range meta {
		if v, ok := copyValue(a.value); ok {
			md[a.name] = v
		}
	}
	return md
}

// copyValue returns a deep copy of the given value, and false if it is nil.
func copyValue(v reflect.Value) (any, bool) {
	for v.Kind() == reflect.Interface {
		if v.IsNil() {
			return nil, false
		}
		v = v.Elem()
	}
	if !v.IsValid() {
		return nil, false
	}
	switch v.Kind() {
	case reflect.Pointer, reflect.Slice, reflect.Map:
		if v.IsNil() {
			return nil, false
		}
	}
	if tsr, ok := v.Interface().(tensor.Tensor); ok {
		return tsr.Clone(), true
	}
	switch v.Kind() {
	case reflect.Pointer:
		cp := reflect.New(v.Type().Elem())
		cp.Elem().Set(v.Elem())
		return cp.Interface(), true
	case reflect.Slice, reflect.Map:
		cp := reflect.New(v.Type())
		if err := copier.CopyWithOption(cp.Interface(), v.Interface(), copier.Option{DeepCopy: true}); err != nil {
			errors.Log(err)
			return v.Interface(), true
		}
		return cp.Elem().Interface(), true
	}
	return v.Interface(), true
}

// Get returns the value of the named attribute, and false if the
// object has no such attribute.
func Get(obj Object, name string) (any, bool) {
	_, as, err := attrs(obj)
	if err != nil {
		return nil, false
	}
	for _, a := range as {
		if a.name == name {
			if !a.value.IsValid() {
				return nil, true
			}
			return a.value.Interface(), true
		}
	}
	return nil, false
}

// Set sets the named attribute to the given value. Tensor values are
// converted to the type of the field; other values are decoded into it
// with weak typing, so that, for example, a []any of numbers can be set
// to a []float64 field. Names that are not fields are set in the
// dynamic attribute map if there is one, and otherwise dropped with a
// warning.
func Set(obj Object, name string, value any) error {
	sc, err := SchemaOf(obj)
	if err != nil {
		return err
	}
	v := reflect.ValueOf(obj).Elem()
	if fld := sc.byName[name]; fld != nil {
		return setField(v.FieldByIndex(fld.Index), name, value)
	}
	if sc.Extra == nil {
		slog.Warn("dropping unknown attribute", "type", sc.Type.String(), "name", name)
		return nil
	}
	ev := v.FieldByIndex(sc.Extra)
	if ev.IsNil() {
		ev.Set(reflect.MakeMap(ev.Type()))
	}
	if tsr, ok := value.(tensor.Tensor); ok {
		value = tensor.ToValue(tsr)
	}
	ev.Interface().(map[string]any)[name] = value
	return nil
}

func setField(fv reflect.Value, name string, value any) error {
	if tsr, ok := value.(tensor.Tensor); ok {
		if err := tensor.AssignTo(fv, tsr); err != nil {
			return fmt.Errorf("stingray: attribute %q: %w", name, err)
		}
		return nil
	}
	if value == nil {
		fv.SetZero()
		return nil
	}
	nv := reflect.New(fv.Type())
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           nv.Interface(),
		WeaklyTypedInput: true,
		TagName:          "stingray",
	})
	if err != nil {
		return err
	}
	if err := dec.Decode(value); err != nil {
		return fmt.Errorf("stingray: attribute %q: %w", name, err)
	}
	fv.Set(nv.Elem())
	return nil
}
