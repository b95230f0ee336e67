// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package storage provides byte storage backends for table files:
// the local filesystem and S3 compatible object storage.
package storage

import (
	"context"
	"fmt"
	"io"
	"strings"

	"cogentcore.org/stingray/base/errors"
)

// ErrNotFound is returned when a named file or object does not exist.
var ErrNotFound = errors.New("storage: not found")

// Backend stores named byte streams.
type Backend interface {
	// Open opens the named file for reading.
	Open(ctx context.Context, name string) (io.ReadCloser, error)

	// Create returns a writer for the named file. The contents
	// replace any existing file when Close returns without an error,
	// and are discarded by Abort.
	Create(ctx context.Context, name string) (Writer, error)

	// Exists returns whether the named file exists.
	Exists(ctx context.Context, name string) (bool, error)
}

// Writer is a file being written by [Backend.Create].
type Writer interface {
	io.Writer

	// Close stores the contents written so far.
	Close() error

	// Abort discards the contents, leaving any existing file as it was.
	// Close and Abort do nothing after the first call to either.
	Abort() error
}

// S3Scheme is the URI scheme for object storage locations.
const S3Scheme = "s3://"

// IsS3 returns whether the uri is an s3://bucket/key location.
func IsS3(uri string) bool {
	return strings.HasPrefix(uri, S3Scheme)
}

// Resolve returns the backend for the given uri and the name of the
// file within it. An s3://bucket/key uri uses an [S3] backend for the
// bucket with the given config, and anything else is a local path.
func Resolve(uri string, cfg S3Config) (Backend, string, error) {
	if !IsS3(uri) {
		return &Local{}, uri, nil
	}
	bucket, key, _ := strings.Cut(strings.TrimPrefix(uri, S3Scheme), "/")
	if bucket == "" || key == "" {
		return nil, "", fmt.Errorf("storage: invalid object uri %q: expected s3://bucket/key", uri)
	}
	cfg.Bucket = bucket
	s3, err := NewS3(cfg)
	if err != nil {
		return nil, "", err
	}
	return s3, key, nil
}
