// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"cogentcore.org/stingray/base/errors"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// S3Config configures the connection to S3 compatible object storage.
type S3Config struct {
	Endpoint  string `mapstructure:"endpoint"`
	Region    string `mapstructure:"region"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
	UseSSL    bool   `mapstructure:"use_ssl"`

	// Bucket is set from the uri by [Resolve].
	Bucket string `mapstructure:"-"`
}

// S3 is a [Backend] for one bucket of S3 compatible object storage.
type S3 struct {
	client *minio.Client
	bucket string
}

// NewS3 returns a new [S3] backend. It does not connect to the
// endpoint; errors from the service are returned by the operations.
func NewS3(cfg S3Config) (*S3, error) {
	endpoint := strings.TrimSpace(cfg.Endpoint)
	if endpoint == "" {
		return nil, fmt.Errorf("storage: s3 endpoint is required")
	}
	access := strings.TrimSpace(cfg.AccessKey)
	secret := strings.TrimSpace(cfg.SecretKey)
	if access == "" || secret == "" {
		return nil, fmt.Errorf("storage: s3 access key and secret key are required")
	}
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("storage: s3 bucket is required")
	}
	region := strings.TrimSpace(cfg.Region)
	if region == "" {
		region = "us-east-1"
	}
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(access, secret, ""),
		Secure: cfg.UseSSL,
		Region: region,
	})
	if err != nil {
		return nil, fmt.Errorf("storage: init s3 client: %w", err)
	}
	return &S3{client: client, bucket: cfg.Bucket}, nil
}

// Bucket returns the name of the bucket.
func (s *S3) Bucket() string { return s.bucket }

func notFound(err error) bool {
	code := minio.ToErrorResponse(err).Code
	return code == "NoSuchKey" || code == "NoSuchBucket"
}

func (s *S3) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	obj, err := s.client.GetObject(ctx, s.bucket, name, minio.GetObjectOptions{})
	if err != nil {
		return nil, err
	}
	// GetObject is lazy: stat to report a missing object here.
	if _, err := obj.Stat(); err != nil {
		obj.Close()
		if notFound(err) {
			return nil, errors.Join(ErrNotFound, err)
		}
		return nil, err
	}
	return obj, nil
}

// Create returns a writer that buffers the contents in memory
// and uploads them as one object on Close.
func (s *S3) Create(ctx context.Context, name string) (Writer, error) {
	return &s3Writer{ctx: ctx, s3: s, name: name}, nil
}

func (s *S3) Exists(ctx context.Context, name string) (bool, error) {
	_, err := s.client.StatObject(ctx, s.bucket, name, minio.StatObjectOptions{})
	if err == nil {
		return true, nil
	}
	if notFound(err) {
		return false, nil
	}
	return false, err
}

type s3Writer struct {
	bytes.Buffer
	ctx    context.Context
	s3     *S3
	name   string
	closed bool
}

func (w *s3Writer) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true
	info, err := w.s3.client.PutObject(w.ctx, w.s3.bucket, w.name, bytes.NewReader(w.Bytes()), int64(w.Len()), minio.PutObjectOptions{
		ContentType: "application/octet-stream",
	})
	if err != nil {
		return fmt.Errorf("storage: put s3://%s/%s: %w", w.s3.bucket, w.name, err)
	}
	slog.Debug("uploaded object", "bucket", info.Bucket, "key", info.Key, "size", info.Size)
	return nil
}

func (w *s3Writer) Abort() error {
	w.closed = true
	w.Reset()
	return nil
}
