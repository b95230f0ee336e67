// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"

	"cogentcore.org/stingray/base/errors"
	"cogentcore.org/stingray/storage"
	"cogentcore.org/stingray/tensor/table"
	"cogentcore.org/stingray/tensor/tableio"
	"github.com/spf13/cobra"
)

func (a *app) convertCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "convert SRC DST",
		Short: "Convert a table file to another format",
		Long:  "Convert reads the table in SRC and writes it to DST, with formats given by --from and --to or by the file extensions. SRC and DST may be s3://bucket/key locations.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.convert(cmd.Context(), args[0], args[1])
		},
	}
	cmd.Flags().String("from", "", "input format")
	cmd.Flags().String("to", "", "output format")
	cmd.Flags().Bool("no-overwrite", false, "fail if DST exists")
	return cmd
}

// splitsComplex returns whether complex columns of the named file
// are stored as real and imaginary parts.
func splitsComplex(name, format string) bool {
	f, err := tableio.Resolve(name, format)
	return err != nil || f.Text
}

// readTable reads the table at the given location. X.real and X.imag
// columns are merged unless --from names a binary format.
func (a *app) readTable(ctx context.Context, src string) (*table.Table, error) {
	be, name, err := storage.Resolve(src, a.cfg.S3)
	if err != nil {
		return nil, err
	}
	r, err := be.Open(ctx, name)
	if err != nil {
		return nil, err
	}
	defer r.Close()
	dt, err := tableio.Read(r, name, a.cfg.From)
	if err != nil {
		return nil, err
	}
	if a.cfg.From == "" || splitsComplex(name, a.cfg.From) {
		dt.MergeComplex()
	}
	return dt, nil
}

// writeTable writes the table to the given location, with its
// metadata if the format supports it.
func (a *app) writeTable(ctx context.Context, dt *table.Table, dst string) error {
	be, name, err := storage.Resolve(dst, a.cfg.S3)
	if err != nil {
		return err
	}
	f, err := tableio.Resolve(name, a.cfg.To)
	if err != nil {
		return err
	}
	if a.cfg.NoOverwrite {
		ok, err := be.Exists(ctx, name)
		if err != nil {
			return err
		}
		if ok {
			return fmt.Errorf("%s: %w", dst, fs.ErrExist)
		}
	}
	if f.Text {
		dt.SplitComplex()
	}
	w, err := be.Create(ctx, name)
	if err != nil {
		return err
	}
	wo := tableio.WriteOptions{Overwrite: true, SerializeMeta: true}
	err = tableio.Write(w, name, f.Name, dt, wo)
	if errors.Is(err, tableio.ErrMetaUnsupported) {
		slog.Info("writing without metadata", "file", dst, "format", f.Name)
		wo.SerializeMeta = false
		err = tableio.Write(w, name, f.Name, dt, wo)
	}
	if err != nil {
		return errors.Join(err, w.Abort())
	}
	return w.Close()
}

func (a *app) convert(ctx context.Context, src, dst string) error {
	dt, err := a.readTable(ctx, src)
	if err != nil {
		return err
	}
	if err := a.writeTable(ctx, dt, dst); err != nil {
		return err
	}
	slog.Info("converted", "src", src, "dst", dst, "rows", dt.NumRows())
	return nil
}
