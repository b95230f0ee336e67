// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package tableio provides a registry of table file formats, with
// lookup by name, alias or file extension and detection of file
// contents, and reading and writing of [table.Table] values in
// those formats.
package tableio

import (
	"bytes"
	"fmt"
	"io"
	"path/filepath"
	"slices"
	"strings"

	"cogentcore.org/stingray/base/errors"
	"cogentcore.org/stingray/tensor/frame"
	"cogentcore.org/stingray/tensor/table"
)

var (
	// ErrUnknownFormat is returned for a format name that is not
	// registered, or a file whose format cannot be determined.
	ErrUnknownFormat = errors.New("tableio: unknown format")

	// ErrMetaUnsupported is returned when writing metadata is requested
	// for a format that cannot represent it.
	ErrMetaUnsupported = errors.New("tableio: format does not support metadata")
)

// Format is a registered table file format.
type Format struct {
	// Name is the canonical name of the format.
	Name string

	// Aliases are other names the format can be looked up by.
	Aliases []string

	// Exts are the file extensions (with the leading dot) that
	// select this format when no format is given.
	Exts []string

	// Text is whether the format is a text format, in which
	// complex columns are stored as real and imaginary parts.
	Text bool

	// Meta is whether the format can store table metadata.
	Meta bool

	// Decode reads a table.
	Decode func(r io.Reader) (*table.Table, error)

	// Encode writes the table, including its metadata if meta is true.
	Encode func(w io.Writer, dt *table.Table, meta bool) error
}

// formats are the registered formats, in registration order.
var formats []*Format

// Register adds the given format to the registry. It panics if the
// name or one of the aliases is already registered.
func Register(f *Format) {
	for _, nm := range append([]string{f.Name}, f.Aliases...) {
		if _, err := Lookup(nm); err == nil {
			panic("tableio: format already registered: " + nm)
		}
	}
	formats = append(formats, f)
}

// Formats returns the names of the registered formats.
func Formats() []string {
	nms := make([]string, len(formats))
	for i, f := range formats {
		nms[i] = f.Name
	}
	return nms
}

// Lookup returns the format with the given name or alias,
// ignoring case.
func Lookup(name string) (*Format, error) {
	for _, f := range formats {
		if strings.EqualFold(f.Name, name) {
			return f, nil
		}
		for _, a := range f.Aliases {
			if strings.EqualFold(a, name) {
				return f, nil
			}
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, name)
}

// ByExt returns the format for the extension of the given filename,
// or nil if none is registered for it.
func ByExt(filename string) *Format {
	ext := strings.ToLower(filepath.Ext(filename))
	if ext == "" {
		return nil
	}
	for _, f := range formats {
		if slices.Contains(f.Exts, ext) {
			return f
		}
	}
	return nil
}

// IsText returns whether the named format is a registered text format.
func IsText(format string) bool {
	f, err := Lookup(format)
	return err == nil && f.Text
}

func init() {
	Register(&Format{
		Name:    "ascii.ecsv",
		Aliases: []string{"ecsv"},
		Exts:    []string{".ecsv"},
		Text:    true,
		Meta:    true,
		Decode: func(r io.Reader) (*table.Table, error) {
			dt := table.New()
			return dt, dt.ReadECSV(r)
		},
		Encode: func(w io.Writer, dt *table.Table, meta bool) error {
			return dt.WriteECSV(w, meta)
		},
	})
	Register(&Format{
		Name:    "ascii.csv",
		Aliases: []string{"csv"},
		Exts:    []string{".csv"},
		Text:    true,
		Decode: func(r io.Reader) (*table.Table, error) {
			dt := table.New()
			return dt, dt.ReadCSV(r, table.Comma)
		},
		Encode: func(w io.Writer, dt *table.Table, meta bool) error {
			return dt.WriteCSV(w, table.Comma, table.Headers)
		},
	})
	Register(&Format{
		Name:    "ascii.tab",
		Aliases: []string{"tsv", "tab"},
		Exts:    []string{".tsv", ".tab"},
		Text:    true,
		Decode: func(r io.Reader) (*table.Table, error) {
			dt := table.New()
			return dt, dt.ReadCSV(r, table.Tab)
		},
		Encode: func(w io.Writer, dt *table.Table, meta bool) error {
			return dt.WriteCSV(w, table.Tab, table.Headers)
		},
	})
	Register(&Format{
		Name: "toml",
		Exts: []string{".toml"},
		Text: true,
		Meta: true,
		Decode: func(r io.Reader) (*table.Table, error) {
			dt := table.New()
			return dt, dt.ReadTOML(r)
		},
		Encode: func(w io.Writer, dt *table.Table, meta bool) error {
			return dt.WriteTOML(w, meta)
		},
	})
	Register(&Format{
		Name:    "arrow",
		Aliases: []string{"feather", "ipc"},
		Exts:    []string{".arrow", ".feather", ".ipc"},
		Meta:    true,
		Decode:  decodeArrow,
		Encode:  encodeArrow,
	})
}

func decodeArrow(r io.Reader) (*table.Table, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	fr, err := frame.ReadIPC(bytes.NewReader(b))
	if err != nil {
		return nil, err
	}
	defer fr.Release()
	return fr.Table()
}

func encodeArrow(w io.Writer, dt *table.Table, meta bool) error {
	fr, err := frame.FromTable(dt)
	if err != nil {
		return err
	}
	defer fr.Release()
	return fr.WriteIPC(w, meta)
}
