// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"io/fs"

	"cogentcore.org/stingray/base/errors"
	"cogentcore.org/stingray/base/logx"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// app holds the state shared by the commands.
type app struct {
	cfg *Config
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:               "stingray",
		Short:             "Convert and inspect astronomical time series tables",
		Long:              "Stingray converts table files between the ECSV, CSV, TSV, TOML and Arrow formats, locally or in S3 compatible object storage.",
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
	}
	pf := root.PersistentFlags()
	pf.String("config", "", "config file (default .stingray.toml)")
	pf.BoolP("verbose", "v", false, "show info messages")
	pf.Bool("vv", false, "show debug messages")
	pf.BoolP("quiet", "q", false, "only show errors")

	root.AddCommand(a.convertCmd(), a.infoCmd(), a.watchCmd())
	return root
}

// setup loads the .env file, sets the log level and loads the config.
func (a *app) setup(cmd *cobra.Command, args []string) error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	fl := cmd.Flags()
	vv := errors.Log1(fl.GetBool("vv"))
	v := errors.Log1(fl.GetBool("verbose"))
	q := errors.Log1(fl.GetBool("quiet"))
	logx.UserLevel = logx.LevelFromFlags(vv, v, q)
	logx.SetDefault()

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	a.cfg = cfg
	return nil
}
