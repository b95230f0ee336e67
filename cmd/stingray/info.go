// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"cogentcore.org/stingray/base/errors"
	"cogentcore.org/stingray/tensor/table"
	"cogentcore.org/stingray/tensor/tensorfs"
	"github.com/spf13/cobra"
)

func (a *app) infoCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "info FILE",
		Short: "Print the columns and metadata keys of a table file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dt, err := a.readTable(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if errors.Log1(cmd.Flags().GetBool("long")) {
				return printDataset(cmd.OutOrStdout(), dt, args[0])
			}
			printInfo(cmd.OutOrStdout(), dt)
			return nil
		},
	}
	cmd.Flags().String("from", "", "input format")
	cmd.Flags().BoolP("long", "l", false, "list the table as a dataset, with metadata values")
	return cmd
}

// printInfo prints the number of rows, the name, data type and
// cell shape of each column, and the metadata keys.
func printInfo(w io.Writer, dt *table.Table) {
	fmt.Fprintf(w, "rows: %d\n", dt.NumRows())
	fmt.Fprintf(w, "columns:\n")
	for i, tsr := range dt.Columns.Values {
		fmt.Fprintf(w, "  %-16s %-10s %v\n", dt.ColumnName(i), tsr.DataType(), tsr.Shape().CellSizes())
	}
	fmt.Fprintf(w, "meta: %s\n", strings.Join(dt.Meta.Keys(), ", "))
}

// printDataset prints the long listing of the table as a dataset
// directory named after the file.
func printDataset(w io.Writer, dt *table.Table, file string) error {
	dir, err := tensorfs.NewDir(strings.TrimSuffix(filepath.Base(file), filepath.Ext(file)))
	if err != nil {
		return err
	}
	if err := tensorfs.DirFromTable(dir, dt); err != nil {
		return err
	}
	fmt.Fprintf(w, "%s/\n%s", dir.Name(), dir.List(tensorfs.Long, tensorfs.Recursive))
	return nil
}
