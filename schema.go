// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package stingray

import (
	"fmt"
	"reflect"
	"strings"

	"cogentcore.org/stingray/base/errors"
	"cogentcore.org/stingray/tensor"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/iancoleman/strcase"
)

// FieldKind is the kind of value an attribute field can hold.
type FieldKind int32

const (
	// Scalar fields can only hold meta attributes.
	Scalar FieldKind = iota

	// ArrayLike fields hold slices, arrays, tensors or interface values,
	// which are array attributes when their shape matches the main array.
	ArrayLike
)

func (k FieldKind) String() string {
	if k == ArrayLike {
		return "ArrayLike"
	}
	return "Scalar"
}

// Field describes one attribute field of an [Object] type.
type Field struct {
	// Name is the attribute name.
	Name string

	// GoName is the name of the Go struct field.
	GoName string

	// Index is the index sequence of the field for [reflect.Value.FieldByIndex].
	Index []int

	// Type is the Go type of the field.
	Type reflect.Type

	// Kind is the kind of value the field can hold.
	Kind FieldKind

	depth int
}

// Schema is the attribute schema of an [Object] type, resolved once
// per type from its struct fields and tags.
//
// Attribute names come from the stingray struct tag, or otherwise the
// snake_case field name. A tag of "-" excludes a field, and a
// map[string]any field tagged ",extra" holds dynamic attributes.
// Fields of embedded structs are promoted. Unexported fields, func and
// chan fields, and fields holding nested Objects are not attributes.
type Schema struct {
	// Type is the struct type.
	Type reflect.Type

	// Main is the name of the main array attribute.
	Main string

	// Fields are the attribute fields, in declaration order.
	Fields []*Field

	// Extra is the index of the dynamic attribute map field, or nil.
	Extra []int

	byName map[string]*Field
}

// Field returns the field for the given attribute name, or nil.
func (sc *Schema) Field(name string) *Field {
	return sc.byName[name]
}

// schemas caches the schemas by struct type.
var schemas = errors.Must1(lru.New[reflect.Type, *Schema](256))

var (
	objectType = reflect.TypeFor[Object]()
	extraType  = reflect.TypeFor[map[string]any]()
)

// SchemaOf returns the schema of the type of the given object,
// which must be a non-nil pointer to a struct. It returns an error
// wrapping [ErrNoMainAttr] if the main array attribute is not
// declared or does not name an array-like field.
func SchemaOf(obj Object) (*Schema, error) {
	v := reflect.ValueOf(obj)
	if !v.IsValid() || v.Kind() != reflect.Pointer || v.IsNil() || v.Elem().Kind() != reflect.Struct {
		return nil, fmt.Errorf("stingray: %T is not a non-nil pointer to a struct", obj)
	}
	typ := v.Elem().Type()
	if sc, ok := schemas.Get(typ); ok {
		return sc, nil
	}
	sc := &Schema{Type: typ, Main: obj.MainArrayAttr(), byName: map[string]*Field{}}
	if err := sc.addFields(typ, nil, 0); err != nil {
		return nil, err
	}
	if sc.Main == "" {
		return nil, fmt.Errorf("%w: %s declares an empty main array attribute", ErrNoMainAttr, typ)
	}
	if fld := sc.byName[sc.Main]; fld == nil || fld.Kind != ArrayLike {
		return nil, fmt.Errorf("%w: %s has no array field named %q", ErrNoMainAttr, typ, sc.Main)
	}
	schemas.Add(typ, sc)
	return sc, nil
}

// addFields adds the attribute fields of the given struct type,
// recursing into embedded structs.
func (sc *Schema) addFields(typ reflect.Type, index []int, depth int) error {
	for i := range typ.NumField() {
		sf := typ.Field(i)
		idx := append(append([]int(nil), index...), i)
		tag, hasTag := sf.Tag.Lookup("stingray")
		name, opt, _ := strings.Cut(tag, ",")
		if name == "-" {
			continue
		}
		if sf.Anonymous && sf.Type.Kind() == reflect.Struct && name == "" {
			if err := sc.addFields(sf.Type, idx, depth+1); err != nil {
				return err
			}
			continue
		}
		if !sf.IsExported() {
			continue
		}
		if hasTag && opt == "extra" {
			if sf.Type != extraType {
				return fmt.Errorf("stingray: extra field %s.%s must be a map[string]any", typ, sf.Name)
			}
			if sc.Extra == nil || depth < len(sc.Extra)-1 {
				sc.Extra = idx
			}
			continue
		}
		if isCallable(sf.Type) || isObjectType(sf.Type) {
			continue
		}
		if name == "" {
			name = strcase.ToSnake(sf.Name)
		}
		fld := &Field{Name: name, GoName: sf.Name, Index: idx, Type: sf.Type, Kind: kindOf(sf.Type), depth: depth}
		if ex, ok := sc.byName[name]; ok {
			if ex.depth == depth {
				return fmt.Errorf("stingray: %s has two fields for attribute %q", typ, name)
			}
			if ex.depth < depth {
				continue
			}
			for j, f := range sc.Fields {
				if f == ex {
					sc.Fields[j] = fld
				}
			}
			sc.byName[name] = fld
			continue
		}
		sc.Fields = append(sc.Fields, fld)
		sc.byName[name] = fld
	}
	return nil
}

func isCallable(t reflect.Type) bool {
	return t.Kind() == reflect.Func || t.Kind() == reflect.Chan
}

// isObjectType returns whether values of the given type are
// nested Objects, directly or through a pointer.
func isObjectType(t reflect.Type) bool {
	if t.Kind() == reflect.Interface {
		return t.Implements(objectType)
	}
	return t.Implements(objectType) || (t.Kind() != reflect.Pointer && reflect.PointerTo(t).Implements(objectType))
}

func kindOf(t reflect.Type) FieldKind {
	if tensor.IsTensorType(t) {
		return ArrayLike
	}
	switch t.Kind() {
	case reflect.Slice, reflect.Array, reflect.Interface:
		return ArrayLike
	case reflect.Pointer:
		return kindOf(t.Elem())
	}
	return Scalar
}

// skipValue returns whether a dynamic value is not an attribute:
// a func or chan, or a nested Object.
func skipValue(v reflect.Value) bool {
	for v.Kind() == reflect.Interface && !v.IsNil() {
		v = v.Elem()
	}
	if !v.IsValid() {
		return false
	}
	if isCallable(v.Type()) {
		return true
	}
	_, ok := v.Interface().(Object)
	return ok
}
