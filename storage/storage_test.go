// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package storage

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocal(t *testing.T) {
	ctx := context.Background()
	lc := &Local{Root: t.TempDir()}
	ok, err := lc.Exists(ctx, "sub/a.ecsv")
	require.NoError(t, err)
	assert.False(t, ok)
	_, err = lc.Open(ctx, "sub/a.ecsv")
	assert.ErrorIs(t, err, ErrNotFound)

	w, err := lc.Create(ctx, "sub/a.ecsv")
	require.NoError(t, err)
	_, err = io.WriteString(w, "hello")
	require.NoError(t, err)
	require.NoError(t, w.Close())

	ok, err = lc.Exists(ctx, filepath.Join(lc.Root, "sub", "a.ecsv"))
	require.NoError(t, err)
	assert.True(t, ok)
	r, err := lc.Open(ctx, "sub/a.ecsv")
	require.NoError(t, err)
	defer r.Close()
	b, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(b))
}

func TestLocalAbort(t *testing.T) {
	ctx := context.Background()
	lc := &Local{Root: t.TempDir()}

	w, err := lc.Create(ctx, "a.ecsv")
	require.NoError(t, err)
	_, err = io.WriteString(w, "partial")
	require.NoError(t, err)
	require.NoError(t, w.Abort())
	assert.NoError(t, w.Close())
	ok, err := lc.Exists(ctx, "a.ecsv")
	require.NoError(t, err)
	assert.False(t, ok)

	w, err = lc.Create(ctx, "a.ecsv")
	require.NoError(t, err)
	io.WriteString(w, "first")
	require.NoError(t, w.Close())
	w, err = lc.Create(ctx, "a.ecsv")
	require.NoError(t, err)
	io.WriteString(w, "second")
	require.NoError(t, w.Abort())

	b, err := os.ReadFile(filepath.Join(lc.Root, "a.ecsv"))
	require.NoError(t, err)
	assert.Equal(t, "first", string(b))
	ents, err := os.ReadDir(lc.Root)
	require.NoError(t, err)
	assert.Len(t, ents, 1)
}

func TestS3Abort(t *testing.T) {
	s3, err := NewS3(S3Config{Endpoint: "127.0.0.1:1", AccessKey: "key", SecretKey: "secret", Bucket: "obs"})
	require.NoError(t, err)
	w, err := s3.Create(context.Background(), "lc.arrow")
	require.NoError(t, err)
	_, err = io.WriteString(w, "partial")
	require.NoError(t, err)
	require.NoError(t, w.Abort())
	// nothing is uploaded, so there is no connection error
	assert.NoError(t, w.Close())
}

func TestResolve(t *testing.T) {
	cfg := S3Config{Endpoint: "localhost:9000", AccessKey: "key", SecretKey: "secret"}

	be, name, err := Resolve("data/lc.ecsv", cfg)
	require.NoError(t, err)
	assert.IsType(t, &Local{}, be)
	assert.Equal(t, "data/lc.ecsv", name)

	be, name, err = Resolve("s3://obs/2026/lc.arrow", cfg)
	require.NoError(t, err)
	require.IsType(t, &S3{}, be)
	assert.Equal(t, "obs", be.(*S3).Bucket())
	assert.Equal(t, "2026/lc.arrow", name)

	tests := []struct {
		uri string
		cfg S3Config
	}{
		{"s3://obs", cfg},
		{"s3:///lc.arrow", cfg},
		{"s3://obs/lc.arrow", S3Config{AccessKey: "key", SecretKey: "secret"}},
		{"s3://obs/lc.arrow", S3Config{Endpoint: "localhost:9000"}},
	}
	for _, tt := range tests {
		_, _, err := Resolve(tt.uri, tt.cfg)
		assert.Error(t, err, tt.uri)
	}
}
