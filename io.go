// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package stingray

import (
	"bytes"
	"encoding/gob"
	"fmt"
	"io"
	"log/slog"
	"os"
	"reflect"
	"strings"

	"cogentcore.org/stingray/base/errors"
	"cogentcore.org/stingray/tensor"
	"cogentcore.org/stingray/tensor/table"
	"cogentcore.org/stingray/tensor/tableio"
)

// Option is an option for reading and writing objects.
type Option func(o *options)

type options struct {
	format    string
	legacy    string
	hasLegacy bool
}

// WithFormat sets the file format: "pickle" for the gob encoding of
// the whole object, "ascii" for "ascii.ecsv", or any [tableio] format
// name. The default is to use the file extension.
func WithFormat(format string) Option {
	return func(o *options) { o.format = format }
}

// WithLegacyFormat sets the file format, if [WithFormat] is not given,
// in which case a deprecation warning is logged. It is ignored
// when [WithFormat] is given.
//
// Deprecated: use [WithFormat].
func WithLegacyFormat(format string) Option {
	return func(o *options) {
		o.legacy = format
		o.hasLegacy = true
	}
}

func newOptions(opts []Option) *options {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}
	if o.hasLegacy && o.format == "" {
		slog.Warn("stingray: WithLegacyFormat is deprecated, use WithFormat instead", "format", o.legacy)
		o.format = o.legacy
	}
	if strings.EqualFold(o.format, "ascii") {
		o.format = "ascii.ecsv"
	}
	return o
}

func (o *options) isPickle() bool {
	return strings.EqualFold(o.format, "pickle") || strings.EqualFold(o.format, "gob")
}

// complexParts returns whether complex columns X are stored as
// X.real and X.imag columns: when no format is given, or it is text.
func (o *options) complexParts(name string) bool {
	if o.format == "" {
		return true
	}
	f, err := tableio.Resolve(name, o.format)
	return err != nil || f.Text
}

func init() {
	gob.Register([]any{})
	gob.Register(map[string]any{})
	gob.Register(map[string]float64{})
	gob.Register(map[string]int{})
	gob.Register(map[string]string{})
	gob.Register(map[string][]float64{})
	gob.Register([][]float64{})
	gob.Register([][]int{})
	gob.Register([][]complex128{})
	gob.Register(&tensor.Float64{})
	gob.Register(&tensor.Float32{})
	gob.Register(&tensor.Int{})
	gob.Register(&tensor.Int32{})
	gob.Register(&tensor.Byte{})
	gob.Register(&tensor.Bool{})
	gob.Register(&tensor.String{})
	gob.Register(&tensor.Complex{})
}

// Read reads a new object of type T from the given file. See [Decode].
func Read[T any, P interface {
	*T
	Object
}](filename string, opts ...Option) (*T, error) {
	fp, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer fp.Close()
	return Decode[T, P](fp, filename, opts...)
}

// Decode reads a new object of type T from r, with name used to
// determine the format if none is given. With the "pickle" format the
// object is gob decoded, in which empty slices are decoded as nil, and
// dynamic values must have types registered with gob, as done by
// [Encode] for the types it writes. Otherwise a table is read with
// [tableio.Read], and when no format is given or it is text, columns
// named X.real and X.imag are combined into a complex column X.
// The object is then imported with [FromTable], which can return
// [ErrEmpty] with a zero value object.
func Decode[T any, P interface {
	*T
	Object
}](r io.Reader, name string, opts ...Option) (*T, error) {
	o := newOptions(opts)
	if o.isPickle() {
		obj := new(T)
		if err := Validate(P(obj)); err != nil {
			return nil, err
		}
		if err := gob.NewDecoder(r).Decode(obj); err != nil {
			return nil, err
		}
		return obj, nil
	}
	dt, err := tableio.Read(r, name, o.format)
	if err != nil {
		return nil, err
	}
	if o.complexParts(name) {
		dt.MergeComplex()
	}
	return FromTable[T, P](dt)
}

// Write writes the object to the given file, replacing any existing
// file. See [Encode]. The file is not changed if encoding fails.
func Write(obj Object, filename string, opts ...Option) error {
	o := newOptions(opts)
	if o.isPickle() {
		b, err := encodeGob(obj)
		if err != nil {
			return err
		}
		return os.WriteFile(filename, b, 0666)
	}
	dt, err := o.table(obj, filename)
	if err != nil {
		return err
	}
	wo := tableio.WriteOptions{Overwrite: true, SerializeMeta: true}
	err = tableio.WriteFile(filename, o.format, dt, wo)
	if errors.Is(err, tableio.ErrMetaUnsupported) {
		slog.Debug("writing without metadata", "file", filename, "err", err)
		wo.SerializeMeta = false
		err = tableio.WriteFile(filename, o.format, dt, wo)
	}
	return err
}

// Encode writes the object to w, with name used to determine the
// format if none is given. With the "pickle" format the object is gob
// encoded, after registering the types of its dynamic values with gob.
// Otherwise it is exported with [ToTable], and when no format is given
// or it is text, complex columns X are split into X.real and X.imag
// columns. Binary formats given with [WithFormat] keep native complex
// columns. The table is written with its metadata, or
// without it if the format cannot store metadata.
func Encode(obj Object, w io.Writer, name string, opts ...Option) error {
	o := newOptions(opts)
	if o.isPickle() {
		b, err := encodeGob(obj)
		if err != nil {
			return err
		}
		_, err = w.Write(b)
		return err
	}
	dt, err := o.table(obj, name)
	if err != nil {
		return err
	}
	wo := tableio.WriteOptions{Overwrite: true, SerializeMeta: true}
	err = tableio.Write(w, name, o.format, dt, wo)
	if errors.Is(err, tableio.ErrMetaUnsupported) {
		slog.Debug("writing without metadata", "name", name, "err", err)
		wo.SerializeMeta = false
		err = tableio.Write(w, name, o.format, dt, wo)
	}
	return err
}

func (o *options) table(obj Object, name string) (*table.Table, error) {
	dt, err := ToTable(obj)
	if err != nil {
		return nil, err
	}
	if o.complexParts(name) {
		dt.SplitComplex()
	}
	return dt, nil
}

// encodeGob returns the gob encoding of the object.
func encodeGob(obj Object) (b []byte, err error) {
	if err := Validate(obj); err != nil {
		return nil, err
	}
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("stingray: gob: %v", r)
		}
	}()
	registerDynamic(reflect.ValueOf(obj), 0)
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(obj); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// maxGobDepth limits the nesting walked by registerDynamic.
const maxGobDepth = 32

// registerDynamic registers with gob the concrete types of the
// interface values reachable from v. It panics if gob does.
func registerDynamic(v reflect.Value, depth int) {
	if !v.IsValid() || depth > maxGobDepth {
		return
	}
	switch v.Kind() {
	case reflect.Interface:
		if v.IsNil() {
			return
		}
		gob.Register(v.Elem().Interface())
		registerDynamic(v.Elem(), depth+1)
	case reflect.Pointer:
		if !v.IsNil() {
			registerDynamic(v.Elem(), depth+1)
		}
	case reflect.Struct:
		for i := range v.NumField() {
			if v.Type().Field(i).IsExported() {
				registerDynamic(v.Field(i), depth+1)
			}
		}
	case reflect.Slice, reflect.Array:
		if plainKind(v.Type().Elem().Kind()) {
			return
		}
		for i := range v.Len() {
			registerDynamic(v.Index(i), depth+1)
		}
	case reflect.Map:
		if plainKind(v.Type().Elem().Kind()) {
			return
		}
		iter := v.MapRange()
		for iter.Next() {
			registerDynamic(iter.Value(), depth+1)
		}
	}
}

// plainKind returns whether values of the kind cannot hold
// interface values.
func plainKind(kind reflect.Kind) bool {
	switch kind {
	case reflect.Interface, reflect.Pointer, reflect.Struct, reflect.Slice, reflect.Array, reflect.Map:
		return false
	}
	return true
}
