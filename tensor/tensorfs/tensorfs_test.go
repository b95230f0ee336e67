// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tensorfs

import (
	"io/fs"
	"testing"

	"cogentcore.org/stingray/tensor"
	"cogentcore.org/stingray/tensor/table"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNodes(t *testing.T) {
	dir, err := NewDir("root")
	require.NoError(t, err)
	assert.True(t, dir.IsDir())

	tm := dir.Float64("time", 3)
	tm.Values[1] = 2
	assert.Same(t, tm, dir.Float64("time"))
	dir.Int("pi", 3)
	sub, err := dir.Mkdir("sub")
	require.NoError(t, err)
	sub2, err := dir.Mkdir("sub")
	require.NoError(t, err)
	assert.Same(t, sub, sub2)
	sub.StringValue("label", 2)

	assert.Equal(t, 2, dir.Len())
	assert.Equal(t, []string{"time", "pi"}, dir.ColumnNames())
	assert.Equal(t, "root/sub/label", sub.Node("label").Path())

	nd, err := dir.NodeAtPath("sub/label")
	require.NoError(t, err)
	assert.Equal(t, "label", nd.Name())
	_, err = dir.NodeAtPath("sub/bogus")
	assert.ErrorIs(t, err, fs.ErrNotExist)
	_, err = dir.DirAtPath("time")
	assert.Error(t, err)

	_, err = dir.Mkdir("time")
	assert.Error(t, err)
	_, err = NewForTensor(dir, tensor.NewFloat64(1), "time")
	assert.ErrorIs(t, err, fs.ErrExist)

	assert.Len(t, dir.NodesFunc(nil), 3)
	assert.Len(t, dir.NodesFunc(func(nd *Node) bool { return nd.Tensor.IsString() }), 1)

	ents, err := dir.ReadDir(".")
	require.NoError(t, err)
	require.Len(t, ents, 3)
	assert.Equal(t, "pi", ents[0].Name())
	assert.True(t, ents[1].IsDir())
	fi, err := dir.Stat("time")
	require.NoError(t, err)
	assert.Equal(t, int64(24), fi.Size())

	assert.True(t, dir.Delete("pi"))
	assert.False(t, dir.Delete("pi"))
	assert.Equal(t, []string{"time"}, dir.ColumnNames())
}

func TestContainer(t *testing.T) {
	dir, _ := NewDir("obj")
	require.NoError(t, dir.SetColumn("time", tensor.NewFromValues([]float64{1, 2})))
	require.NoError(t, dir.SetColumn("time", tensor.NewFromValues([]float64{3, 4})))
	tsr, err := dir.ColumnTry("time")
	require.NoError(t, err)
	assert.Equal(t, 3.0, tsr.Float1D(0))
	_, err = dir.ColumnTry("bogus")
	assert.Error(t, err)

	dir.Mkdir("sub")
	assert.Error(t, dir.SetColumn("sub", tensor.NewFloat64(2)))
	_, err = dir.ColumnTry("sub")
	assert.Error(t, err)

	dir.Metadata().Set("mjdref", 55197.0)
	assert.Equal(t, 55197.0, dir.Attrs["mjdref"])
}

func TestClone(t *testing.T) {
	dir, _ := NewDir("root")
	dir.Float64("x", 2)
	sub, _ := dir.Mkdir("sub")
	sub.Int("n", 1)
	dir.Attrs.Set("a", 1)

	cp := dir.Clone()
	cp.Float64("x").Values[0] = 5
	assert.Equal(t, 0.0, dir.Float64("x").Values[0])
	nd, err := cp.NodeAtPath("sub/n")
	require.NoError(t, err)
	assert.Equal(t, "root/sub/n", nd.Path())
	assert.Equal(t, 1, cp.Attrs["a"])

	cl := dir.Node("x")
	cl.CopyFromValue(sub.Node("n"))
	assert.Equal(t, 1, cl.Tensor.Len())
}

func TestDirTable(t *testing.T) {
	dir, _ := NewDir("obj")
	dir.SetColumn("time", tensor.NewFromValues([]float64{0, 1, 2}))
	sub, _ := dir.Mkdir("sub")
	sub.SetColumn("short", tensor.NewFromValues([]int{7}))
	dir.Attrs.Set("dt", 1.0)

	dt := DirTable(dir, nil)
	assert.Equal(t, []string{"time", "sub/short"}, dt.ColumnNames())
	assert.Equal(t, 3, dt.NumRows())
	assert.Equal(t, []int{7, 0, 0}, dt.Column("sub/short").(*tensor.Int).Values)
	assert.Equal(t, 1, sub.Node("short").Tensor.Len())
	assert.Equal(t, 1.0, dt.Meta["dt"])

	rt, _ := NewDir("rt")
	tb := table.New()
	tb.AddColumn("a", tensor.NewFromValues([]float64{1, 2}))
	tb.Meta.Set("k", "v")
	require.NoError(t, DirFromTable(rt, tb))
	assert.Equal(t, []string{"a"}, rt.ColumnNames())
	assert.Equal(t, "v", rt.Attrs["k"])
}

func TestList(t *testing.T) {
	dir, _ := NewDir("root")
	dir.Float64("x", 2)
	sub, _ := dir.Mkdir("sub")
	sub.Int("n", 1)
	dir.Attrs.Set("a", 1)
	assert.Equal(t, "x sub/ ", dir.List(Short, DirOnly))
	assert.Equal(t, "x float64 [2]", dir.Node("x").String())
	long := dir.List(Long, Recursive)
	assert.Contains(t, long, "@a = 1\n")
	assert.Contains(t, long, "x float64 [2]\nsub/\n\tn int [1]\n")
}
