// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"bytes"
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"testing"
	"time"

	"cogentcore.org/stingray/tensor"
	"cogentcore.org/stingray/tensor/table"
	"cogentcore.org/stingray/tensor/tableio"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testTable(t *testing.T) *table.Table {
	dt := table.New()
	require.NoError(t, dt.AddColumn("time", tensor.NewFromValues([]float64{0.5, 1.5})))
	require.NoError(t, dt.AddColumn("z", tensor.NewFromValues([]complex128{1 + 2i, 3 - 4i})))
	dt.Meta.Set("mjdref", 55197.5)
	return dt
}

// run executes the command with the given arguments and returns its output.
func run(args ...string) (string, error) {
	var out bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestLoadConfig(t *testing.T) {
	file := filepath.Join(t.TempDir(), "stingray.toml")
	require.NoError(t, os.WriteFile(file, []byte("to = \"arrow\"\n\n[s3]\nendpoint = \"minio:9000\"\naccess_key = \"key\"\n"), 0666))
	t.Setenv("STINGRAY_FROM", "ecsv")
	t.Setenv("STINGRAY_S3_SECRET_KEY", "secret")

	tests := []struct {
		args []string
		to   string
	}{
		{[]string{"--config", file}, "arrow"},
		{[]string{"--config", file, "--to", "toml"}, "toml"},
	}
	for _, tt := range tests {
		cmd, _, err := newRootCmd().Find([]string{"convert"})
		require.NoError(t, err)
		require.NoError(t, cmd.ParseFlags(tt.args))
		cfg, err := loadConfig(cmd)
		require.NoError(t, err)
		assert.Equal(t, tt.to, cfg.To)
		assert.Equal(t, "ecsv", cfg.From)
		assert.False(t, cfg.NoOverwrite)
		assert.Equal(t, "minio:9000", cfg.S3.Endpoint)
		assert.Equal(t, "key", cfg.S3.AccessKey)
		assert.Equal(t, "secret", cfg.S3.SecretKey)
		assert.Equal(t, "us-east-1", cfg.S3.Region)
		assert.True(t, cfg.S3.UseSSL)
	}

	cmd, _, err := newRootCmd().Find([]string{"info"})
	require.NoError(t, err)
	require.NoError(t, cmd.ParseFlags([]string{"--config", filepath.Join(t.TempDir(), "missing.toml")}))
	_, err = loadConfig(cmd)
	assert.Error(t, err)
}

func TestConvert(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "lc.arrow")
	ecsv := filepath.Join(dir, "lc.ecsv")
	back := filepath.Join(dir, "back.dat")
	require.NoError(t, tableio.WriteFile(src, "", testTable(t), tableio.WriteOptions{SerializeMeta: true}))

	_, err := run("convert", src, ecsv)
	require.NoError(t, err)
	dt, err := tableio.ReadFile(ecsv, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"time", "z.real", "z.imag"}, dt.ColumnNames())
	assert.Equal(t, 55197.5, dt.Meta["mjdref"])

	_, err = run("convert", "--to", "arrow", ecsv, back)
	require.NoError(t, err)
	dt, err = tableio.ReadFile(back, "arrow")
	require.NoError(t, err)
	assert.Equal(t, []string{"time", "z"}, dt.ColumnNames())
	assert.Equal(t, []complex128{1 + 2i, 3 - 4i}, dt.Column("z").(*tensor.Complex).Values)

	_, err = run("convert", "--no-overwrite", src, ecsv)
	assert.ErrorIs(t, err, fs.ErrExist)

	csv := filepath.Join(dir, "lc.csv")
	_, err = run("convert", src, csv)
	require.NoError(t, err)
	dt, err = tableio.ReadFile(csv, "")
	require.NoError(t, err)
	assert.Equal(t, 2, dt.NumRows())
	assert.Empty(t, dt.Meta)

	_, err = run("convert", src, filepath.Join(dir, "lc.bin"))
	assert.ErrorIs(t, err, tableio.ErrUnknownFormat)
}

func TestInfo(t *testing.T) {
	src := filepath.Join(t.TempDir(), "lc.ecsv")
	require.NoError(t, tableio.WriteFile(src, "", testTable(t), tableio.WriteOptions{SerializeMeta: true}))
	out, err := run("info", src)
	require.NoError(t, err)
	assert.Contains(t, out, "rows: 2")
	assert.Contains(t, out, "time")
	assert.Regexp(t, `z\s+complex128`, out)
	assert.Contains(t, out, "meta: mjdref")

	out, err = run("info", "-l", src)
	require.NoError(t, err)
	assert.Contains(t, out, "lc/\n@mjdref = 55197.5\n")
	assert.Contains(t, out, "z complex128 [2]\n")
}

func TestWatch(t *testing.T) {
	dir := t.TempDir()
	out := t.TempDir()
	tmp := t.TempDir()
	a := &app{cfg: &Config{To: "arrow", Out: out}}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error)
	go func() { done <- a.watch(ctx, dir) }()

	dst := filepath.Join(out, "lc.arrow")
	assert.Eventually(t, func() bool {
		src := filepath.Join(tmp, "lc.ecsv")
		if tableio.WriteFile(src, "", testTable(t), tableio.WriteOptions{Overwrite: true, SerializeMeta: true}) != nil {
			return false
		}
		if os.Rename(src, filepath.Join(dir, "lc.ecsv")) != nil {
			return false
		}
		_, err := os.Stat(dst)
		return err == nil
	}, 10*time.Second, 300*time.Millisecond)
	cancel()
	require.NoError(t, <-done)

	dt, err := tableio.ReadFile(dst, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"time", "z"}, dt.ColumnNames())
	assert.Equal(t, "lc.arrow", filepath.Base(outputName("data/lc.ecsv", out, &tableio.Format{Exts: []string{".arrow"}})))
}
