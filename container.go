// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package stingray

import (
	"fmt"
	"reflect"
	"slices"

	"cogentcore.org/stingray/tensor"
	"cogentcore.org/stingray/tensor/frame"
	"cogentcore.org/stingray/tensor/table"
	"cogentcore.org/stingray/tensor/tensorfs"
	"github.com/adrg/strutil"
	"github.com/adrg/strutil/metrics"
	"github.com/iancoleman/strcase"
)

// Export sets a column of the container for each array attribute of
// the object, with the main array first, and copies the [MetaDict] of
// the object into the container metadata.
func Export(obj Object, c Container) error {
	sc, as, err := attrs(obj)
	if err != nil {
		return err
	}
	arrays, meta := classify(sc, as)
	for _, a := range arrays {
		tsr, err := tensor.FromValue(a.value)
		if err != nil {
			return fmt.Errorf("stingray: array attribute %q: %w", a.name, err)
		}
		if err := c.SetColumn(a.name, tsr); err != nil {
			return err
		}
	}
	md := c.Metadata()
	for _, a := range meta {
		if v, ok := copyValue(a.value); ok {
			md.Set(a.name, v)
		}
	}
	return nil
}

// ToTable returns a new [table.Table] with the array attributes of the
// object as columns and the meta attributes as metadata.
func ToTable(obj Object) (*table.Table, error) {
	dt := table.New()
	if err := Export(obj, dt); err != nil {
		return nil, err
	}
	return dt, nil
}

// ToDataset returns a new [tensorfs.Node] directory, named after the
// object type, with the array attributes of the object as values and
// the meta attributes as directory attributes.
func ToDataset(obj Object) (*tensorfs.Node, error) {
	dir, err := tensorfs.NewDir(strcase.ToSnake(reflect.TypeOf(obj).Elem().Name()))
	if err != nil {
		return nil, err
	}
	if err := Export(obj, dir); err != nil {
		return nil, err
	}
	return dir, nil
}

// ToFrame returns a new [frame.Frame] with the array attributes of the
// object as columns and the meta attributes as frame attributes.
// The frame must be released when no longer needed.
func ToFrame(obj Object) (*frame.Frame, error) {
	fr := frame.New()
	if err := Export(obj, fr); err != nil {
		fr.Release()
		return nil, err
	}
	return fr, nil
}

// Import returns a new object of type T with its attributes set from
// the given container: the main array attribute first, then every other
// column, then every metadata entry in sorted order. If skipColliding
// is true, metadata entries with the name of a column are skipped.
//
// An empty container returns a new zero value object together with
// [ErrEmpty], and a container without a column for the main array
// attribute returns a [*SchemaError]. Column and metadata names that
// are not attributes are handled as described in [Set].
func Import[T any, P interface {
	*T
	Object
}](c Container, skipColliding bool) (*T, error) {
	obj := P(new(T))
	sc, err := SchemaOf(obj)
	if err != nil {
		return nil, err
	}
	if c.Len() == 0 {
		return (*T)(obj), ErrEmpty
	}
	cols := c.ColumnNames()
	if !slices.Contains(cols, sc.Main) {
		return nil, &SchemaError{Type: sc.Type.String(), Main: sc.Main, Columns: cols, Suggestion: suggest(sc.Main, cols)}
	}
	order := append([]string{sc.Main}, slices.DeleteFunc(slices.Clone(cols), func(s string) bool { return s == sc.Main })...)
	for _, nm := range order {
		tsr, err := c.ColumnTry(nm)
		if err != nil {
			return nil, err
		}
		if err := Set(obj, nm, tsr); err != nil {
			return nil, err
		}
	}
	md := *c.Metadata()
	for _, k := range md.Keys() {
		if skipColliding && slices.Contains(cols, k) {
			continue
		}
		if err := Set(obj, k, md[k]); err != nil {
			return nil, err
		}
	}
	return (*T)(obj), nil
}

// suggest returns the column name most similar to name, if any is
// similar enough to be a likely misspelling.
func suggest(name string, cols []string) string {
	best, score := "", 0.5
	for _, c := range cols {
		if s := strutil.Similarity(name, c, metrics.NewLevenshtein()); s >= score {
			best, score = c, s
		}
	}
	return best
}

// FromTable returns a new object of type T from the table.
// Metadata entries are applied after the columns, even those
// with the name of a column. See [Import].
func FromTable[T any, P interface {
	*T
	Object
}](dt *table.Table) (*T, error) {
	return Import[T, P](dt, false)
}

// FromDataset returns a new object of type T from the values and
// attributes of the dataset directory. Attributes with the name of a
// value are skipped. See [Import].
func FromDataset[T any, P interface {
	*T
	Object
}](dir *tensorfs.Node) (*T, error) {
	return Import[T, P](dir, true)
}

// FromFrame returns a new object of type T from the columns and
// attributes of the frame. Attributes with the name of a column
// are skipped. See [Import].
func FromFrame[T any, P interface {
	*T
	Object
}](fr *frame.Frame) (*T, error) {
	return Import[T, P](fr, true)
}
