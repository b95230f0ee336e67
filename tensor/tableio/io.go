// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tableio

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"os"

	"cogentcore.org/stingray/base/errors"
	"cogentcore.org/stingray/tensor/table"
	"github.com/h2non/filetype"
	"github.com/h2non/filetype/types"
)

// WriteOptions are the options for writing a table.
type WriteOptions struct {
	// Overwrite allows replacing an existing file.
	Overwrite bool

	// SerializeMeta writes the table metadata. Writing fails with
	// [ErrMetaUnsupported] if the format cannot store it.
	SerializeMeta bool
}

// sniffLen is the number of leading bytes used to detect a format.
const sniffLen = 262

var (
	ecsvType  = filetype.NewType("ecsv", "text/x-ecsv")
	arrowType = filetype.NewType("arrow", "application/vnd.apache.arrow.file")
)

func init() {
	filetype.AddMatcher(ecsvType, func(buf []byte) bool {
		return bytes.HasPrefix(buf, []byte("# %ECSV"))
	})
	filetype.AddMatcher(arrowType, func(buf []byte) bool {
		return bytes.HasPrefix(buf, []byte("ARROW1"))
	})
}

// Detect returns the format of the file with the given leading bytes.
func Detect(head []byte) (*Format, error) {
	kind, err := filetype.Match(head)
	if err != nil || kind == types.Unknown {
		return nil, fmt.Errorf("%w: contents not recognized", ErrUnknownFormat)
	}
	switch kind {
	case ecsvType:
		return Lookup("ascii.ecsv")
	case arrowType:
		return Lookup("arrow")
	}
	return nil, fmt.Errorf("%w: %s files are not tables", ErrUnknownFormat, kind.MIME.Value)
}

// Resolve returns the format for the given name, or if format is
// empty, for the extension of the given filename.
func Resolve(filename, format string) (*Format, error) {
	if format != "" {
		return Lookup(format)
	}
	if f := ByExt(filename); f != nil {
		return f, nil
	}
	return nil, fmt.Errorf("%w: no format for %q", ErrUnknownFormat, filename)
}

// Read reads a table from r in the given format. If format is empty,
// it is determined by the extension of name, and then by the contents.
func Read(r io.Reader, name, format string) (*table.Table, error) {
	br := bufio.NewReader(r)
	f, err := Resolve(name, format)
	if err != nil {
		if format != "" {
			return nil, err
		}
		head, _ := br.Peek(sniffLen)
		f, err = Detect(head)
		if err != nil {
			return nil, fmt.Errorf("tableio.Read %q: %w", name, err)
		}
	}
	slog.Debug("reading table", "name", name, "format", f.Name)
	dt, err := f.Decode(br)
	if err != nil {
		return nil, fmt.Errorf("tableio.Read %q: %w", name, err)
	}
	return dt, nil
}

// ReadFile reads a table from the given file. See [Read].
func ReadFile(filename, format string) (*table.Table, error) {
	fp, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer fp.Close()
	return Read(fp, filename, format)
}

// Write writes the table to w in the given format. If format is
// empty, it is determined by the extension of name.
func Write(w io.Writer, name, format string, dt *table.Table, opts WriteOptions) error {
	f, err := Resolve(name, format)
	if err != nil {
		return err
	}
	if opts.SerializeMeta && !f.Meta {
		return fmt.Errorf("%w: %s", ErrMetaUnsupported, f.Name)
	}
	slog.Debug("writing table", "name", name, "format", f.Name, "meta", opts.SerializeMeta)
	bw := bufio.NewWriter(w)
	if err := f.Encode(bw, dt, opts.SerializeMeta); err != nil {
		return fmt.Errorf("tableio.Write %q: %w", name, err)
	}
	return bw.Flush()
}

// WriteFile writes the table to the given file. See [Write].
// Without [WriteOptions.Overwrite], an existing file is an error.
// The table is encoded before the file is created, so an encoding
// error leaves any existing file unchanged.
func WriteFile(filename, format string, dt *table.Table, opts WriteOptions) error {
	var buf bytes.Buffer
	if err := Write(&buf, filename, format, dt, opts); err != nil {
		return err
	}
	flag := os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	if !opts.Overwrite {
		flag |= os.O_EXCL
	}
	fp, err := os.OpenFile(filename, flag, 0666)
	if err != nil {
		return err
	}
	_, err = buf.WriteTo(fp)
	return errors.Join(err, fp.Close())
}
