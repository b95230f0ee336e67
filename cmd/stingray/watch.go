// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"cogentcore.org/stingray/base/errors"
	"cogentcore.org/stingray/tensor/tableio"
	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
)

func (a *app) watchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch DIR",
		Short: "Convert table files in a directory as they are written",
		Long:  "Watch converts every table file that is created or written in DIR to the --to format, in the --out directory or in DIR. It runs until interrupted.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if a.cfg.To == "" {
				return fmt.Errorf("watch: an output format is required (--to)")
			}
			return a.watch(cmd.Context(), args[0])
		},
	}
	cmd.Flags().String("to", "", "output format")
	cmd.Flags().String("out", "", "output directory (default DIR)")
	cmd.Flags().String("from", "", "input format")
	return cmd
}

// debounce is the time that a file must be quiet before it is converted.
const debounce = 100 * time.Millisecond

// watch converts the table files written in dir until ctx is done.
// Files already in the output format and directory are skipped.
func (a *app) watch(ctx context.Context, dir string) error {
	f, err := tableio.Lookup(a.cfg.To)
	if err != nil {
		return err
	}
	out := a.cfg.Out
	if out == "" {
		out = dir
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()
	if err := watcher.Add(dir); err != nil {
		return err
	}
	slog.Info("watching", "dir", dir, "out", out, "format", f.Name)

	pending := make(map[string]time.Time)
	ticker := time.NewTicker(debounce)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			if a.skipWatched(event.Name, out, f) {
				continue
			}
			pending[event.Name] = time.Now()
		case now := <-ticker.C:
			for file, t := range pending {
				if now.Sub(t) < debounce {
					continue
				}
				delete(pending, file)
				errors.Log(a.convert(ctx, file, outputName(file, out, f)))
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			errors.Log(err)
		}
	}
}

// skipWatched returns whether the file is not a table to convert.
func (a *app) skipWatched(file, out string, f *tableio.Format) bool {
	if strings.HasPrefix(filepath.Base(file), ".") {
		return true
	}
	if a.cfg.From == "" && tableio.ByExt(file) == nil {
		return true
	}
	return filepath.Clean(filepath.Dir(file)) == filepath.Clean(out) && tableio.ByExt(file) == f
}

// outputName returns the name of the converted file in dir,
// with the first extension of the format.
func outputName(file, dir string, f *tableio.Format) string {
	base := strings.TrimSuffix(filepath.Base(file), filepath.Ext(file))
	return filepath.Join(dir, base+f.Exts[0])
}
