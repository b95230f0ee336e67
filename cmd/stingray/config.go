// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"strings"

	"cogentcore.org/stingray/base/errors"
	"cogentcore.org/stingray/storage"
	"github.com/mitchellh/go-homedir"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Config holds the configuration of the stingray command.
// Values are populated from .stingray.toml, STINGRAY_* environment
// variables and command line flags, in increasing order of priority.
type Config struct {
	// From is the format of input files; empty to use the extension.
	From string `mapstructure:"from"`

	// To is the format of output files; empty to use the extension.
	To string `mapstructure:"to"`

	// Out is the output directory of the watch command.
	Out string `mapstructure:"out"`

	// NoOverwrite makes it an error to write to an existing file.
	NoOverwrite bool `mapstructure:"no_overwrite"`

	S3 storage.S3Config `mapstructure:"s3"`
}

// flagKeys maps config keys to the flags that set them.
var flagKeys = map[string]string{
	"from":         "from",
	"to":           "to",
	"out":          "out",
	"no_overwrite": "no-overwrite",
}

func loadConfig(cmd *cobra.Command) (*Config, error) {
	v := viper.New()
	v.SetConfigType("toml")
	file := errors.Log1(cmd.Flags().GetString("config"))
	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName(".stingray")
		v.AddConfigPath(".")
		if home, err := homedir.Dir(); err == nil {
			v.AddConfigPath(home)
		}
	}
	v.SetEnvPrefix("STINGRAY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("from", "")
	v.SetDefault("to", "")
	v.SetDefault("out", "")
	v.SetDefault("no_overwrite", false)
	v.SetDefault("s3.endpoint", "")
	v.SetDefault("s3.region", "us-east-1")
	v.SetDefault("s3.access_key", "")
	v.SetDefault("s3.secret_key", "")
	v.SetDefault("s3.use_ssl", true)

	if err := v.ReadInConfig(); err != nil {
		var nf viper.ConfigFileNotFoundError
		if file != "" || !errors.As(err, &nf) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}
	for key, name := range flagKeys {
		if f := cmd.Flags().Lookup(name); f != nil {
			if err := v.BindPFlag(key, f); err != nil {
				return nil, err
			}
		}
	}
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	return cfg, nil
}
