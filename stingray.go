// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package stingray provides structured objects for astronomical time
// series: Go structs that nominate one attribute as their main array
// (for example the time of each event), with all other attributes
// classified on demand into array attributes, which have the same
// shape as the main array, and meta attributes.
//
// Objects are converted to and from tables ([table.Table]), hierarchical
// datasets ([tensorfs.Node]) and Arrow dataframes ([frame.Frame]), and
// read from and written to files in any of the [tableio] formats, or as
// an opaque gob encoding with the "pickle" format.
package stingray

import (
	"fmt"
	"strings"

	"cogentcore.org/stingray/base/errors"
	"cogentcore.org/stingray/base/metadata"
	"cogentcore.org/stingray/tensor"
)

// Object is a structured object: a pointer to a struct with a main
// array attribute. See [Schema] for how attributes are declared.
type Object interface {
	// MainArrayAttr returns the name of the main array attribute,
	// which defines the shape of the array attributes.
	MainArrayAttr() string
}

// Container is a tabular representation of an object: named columns
// sharing a row dimension, plus a metadata mapping.
// It is implemented by [table.Table], [tensorfs.Node] and [frame.Frame].
type Container interface {
	// Len returns the number of entries; zero for an empty container.
	Len() int

	// ColumnNames returns the column names, in order.
	ColumnNames() []string

	// ColumnTry returns the named column, or an error if there is none.
	ColumnTry(name string) (tensor.Tensor, error)

	// SetColumn sets the named column, adding it if not present.
	SetColumn(name string, tsr tensor.Tensor) error

	// Metadata returns the metadata mapping.
	Metadata() *metadata.Data
}

var (
	// ErrNoMainAttr is returned for an object type that does not
	// declare a valid main array attribute.
	ErrNoMainAttr = errors.New("stingray: invalid main array attribute")

	// ErrEmpty is returned together with a zero value object by the
	// importers when the container has no entries.
	ErrEmpty = errors.New("stingray: empty container")

	// ErrMissingMain is the error wrapped by [SchemaError].
	ErrMissingMain = errors.New("stingray: no column for the main array attribute")
)

// SchemaError is returned when importing from a container that has
// no column for the main array attribute.
type SchemaError struct {
	// Type is the name of the object type.
	Type string

	// Main is the name of the main array attribute.
	Main string

	// Columns are the available column names.
	Columns []string

	// Suggestion is the most similar column name, if any is close.
	Suggestion string
}

func (e *SchemaError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "stingray: %s: no column named %q for the main array attribute in [%s]", e.Type, e.Main, strings.Join(e.Columns, ", "))
	if e.Suggestion != "" {
		fmt.Fprintf(&b, "; did you mean %q?", e.Suggestion)
	}
	return b.String()
}

func (e *SchemaError) Unwrap() error { return ErrMissingMain }
