// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package storage

import (
	"context"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"cogentcore.org/stingray/base/errors"
	"github.com/mitchellh/go-homedir"
)

// Local is a [Backend] for the local filesystem. Names starting
// with ~ are in the home directory, and relative names are relative
// to Root, or the working directory if Root is empty.
type Local struct {
	Root string
}

func (lc *Local) path(name string) (string, error) {
	p, err := homedir.Expand(name)
	if err != nil {
		return "", err
	}
	if lc.Root != "" && !filepath.IsAbs(p) {
		root, err := homedir.Expand(lc.Root)
		if err != nil {
			return "", err
		}
		p = filepath.Join(root, p)
	}
	return p, nil
}

func (lc *Local) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	p, err := lc.path(name)
	if err != nil {
		return nil, err
	}
	fp, err := os.Open(p)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, errors.Join(ErrNotFound, err)
	}
	return fp, err
}

// Create creates any missing parent directories of the named file,
// and writes to a hidden temporary file next to it, which is renamed
// to the name on Close.
func (lc *Local) Create(ctx context.Context, name string) (Writer, error) {
	p, err := lc.path(name)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Dir(p), 0755); err != nil {
		return nil, err
	}
	fp, err := os.CreateTemp(filepath.Dir(p), "."+filepath.Base(p)+".*.tmp")
	if err != nil {
		return nil, err
	}
	return &localWriter{File: fp, path: p}, nil
}

func (lc *Local) Exists(ctx context.Context, name string) (bool, error) {
	p, err := lc.path(name)
	if err != nil {
		return false, err
	}
	_, err = os.Stat(p)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return err == nil, err
}

type localWriter struct {
	*os.File
	path string
	done bool
}

func (w *localWriter) Close() error {
	if w.done {
		return nil
	}
	w.done = true
	if err := w.File.Close(); err != nil {
		os.Remove(w.Name())
		return err
	}
	if err := os.Chmod(w.Name(), 0644); err != nil {
		os.Remove(w.Name())
		return err
	}
	if err := os.Rename(w.Name(), w.path); err != nil {
		os.Remove(w.Name())
		return err
	}
	return nil
}

func (w *localWriter) Abort() error {
	if w.done {
		return nil
	}
	w.done = true
	return errors.Join(w.File.Close(), os.Remove(w.Name()))
}
