// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package frame

import (
	"bytes"
	"math"
	"testing"

	"cogentcore.org/stingray/tensor"
	"cogentcore.org/stingray/tensor/table"
	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testFrame(t *testing.T, mem memory.Allocator) *Frame {
	fr := New(mem)
	require.NoError(t, fr.SetColumn("time", tensor.NewFromValues([]float64{0, 1, math.NaN()})))
	require.NoError(t, fr.SetColumn("counts", tensor.NewFromValues([]int{3, 4, 5})))
	require.NoError(t, fr.SetColumn("flag", tensor.NewFromValues([]bool{true, false, true})))
	require.NoError(t, fr.SetColumn("label", tensor.NewFromValues([]string{"a", "", "c d"})))
	grid := tensor.NewFloat64(3, 2, 2)
	for i := range grid.Values {
		grid.Values[i] = float64(i) / 4
	}
	require.NoError(t, fr.SetColumn("grid", grid))
	cp := tensor.NewComplex(3)
	cp.Values = []complex128{1 + 2i, -0.1 + 1e-300i, complex(math.Pi, -math.E)}
	require.NoError(t, fr.SetColumn("amp", cp))
	fr.Attrs.Set("mjdref", 55197.00076601852)
	fr.Attrs.Set("instr", "FPMA")
	fr.Attrs.Set("gti", [][]float64{{0, 1.5}, {2, 3}})
	return fr
}

func TestColumns(t *testing.T) {
	mem := memory.NewCheckedAllocator(memory.NewGoAllocator())
	defer mem.AssertSize(t, 0)
	fr := testFrame(t, mem)
	defer fr.Release()

	assert.Equal(t, 3, fr.Len())
	assert.Equal(t, []string{"time", "counts", "flag", "label", "grid", "amp"}, fr.ColumnNames())
	assert.Equal(t, arrow.INT64, fr.Column("counts").DataType().ID())
	assert.Equal(t, arrow.FIXED_SIZE_LIST, fr.Column("grid").DataType().ID())
	assert.Nil(t, fr.Column("bogus"))

	grid, err := fr.ColumnTry("grid")
	require.NoError(t, err)
	assert.Equal(t, []int{3, 2, 2}, grid.Shape().Sizes)
	assert.Equal(t, 0.75, grid.Float1D(3))

	amp, err := fr.ColumnTry("amp")
	require.NoError(t, err)
	assert.Equal(t, complex(math.Pi, -math.E), amp.Complex1D(2))
	assert.Equal(t, []int{3}, amp.Shape().Sizes)

	_, err = fr.ColumnTry("bogus")
	assert.Error(t, err)
	assert.Error(t, fr.SetColumn("short", tensor.NewFromValues([]int{1})))
	assert.Error(t, fr.SetColumn("scalar", tensor.NewFloat64()))

	require.NoError(t, fr.SetColumn("counts", tensor.NewFromValues([]int{7, 8, 9})))
	cn, _ := fr.ColumnTry("counts")
	assert.Equal(t, []int{7, 8, 9}, cn.(*tensor.Int).Values)
	assert.Equal(t, 6, fr.NumColumns())

	assert.True(t, fr.DeleteColumn("counts"))
	assert.False(t, fr.DeleteColumn("counts"))
}

func TestReplaceOnly(t *testing.T) {
	fr := New()
	defer fr.Release()
	require.NoError(t, fr.SetColumn("time", tensor.NewFromValues([]float64{1, 2})))
	require.NoError(t, fr.SetColumn("time", tensor.NewFromValues([]float64{1, 2, 3})))
	assert.Equal(t, 3, fr.Len())
}

func TestIPCRoundTrip(t *testing.T) {
	mem := memory.NewGoAllocator()
	fr := testFrame(t, mem)
	defer fr.Release()

	var b bytes.Buffer
	require.NoError(t, fr.WriteIPC(&b, true))
	assert.Equal(t, "ARROW1", b.String()[:6])

	rd, err := ReadIPC(bytes.NewReader(b.Bytes()), mem)
	require.NoError(t, err)
	defer rd.Release()
	assert.Equal(t, fr.ColumnNames(), rd.ColumnNames())
	assert.Equal(t, 3, rd.Len())
	for _, nm := range fr.ColumnNames() {
		want, err := fr.ColumnTry(nm)
		require.NoError(t, err)
		got, err := rd.ColumnTry(nm)
		require.NoError(t, err)
		assert.True(t, tensor.Equal(want, got), nm)
	}
	assert.Equal(t, "FPMA", rd.Attrs["instr"])
	assert.Equal(t, 55197.00076601852, rd.Attrs["mjdref"])
	assert.Equal(t, []any{[]any{0, 1.5}, []any{2, 3}}, rd.Attrs["gti"])

	b.Reset()
	require.NoError(t, fr.WriteIPC(&b, false))
	nm, err := ReadIPC(bytes.NewReader(b.Bytes()), mem)
	require.NoError(t, err)
	defer nm.Release()
	assert.Empty(t, nm.Attrs)
}

func TestComplexAttrs(t *testing.T) {
	fr := New()
	defer fr.Release()
	require.NoError(t, fr.SetColumn("time", tensor.NewFromValues([]float64{1, 2})))
	fr.Attrs.Set("norm", 1+2i)
	fr.Attrs.Set("cal", []complex128{1i})

	var b bytes.Buffer
	require.NoError(t, fr.WriteIPC(&b, true))
	rd, err := ReadIPC(bytes.NewReader(b.Bytes()))
	require.NoError(t, err)
	defer rd.Release()
	assert.Equal(t, 1+2i, rd.Attrs["norm"])
	assert.Equal(t, []complex128{1i}, rd.Attrs["cal"])

	fr.Attrs.Set("ch", make(chan int))
	_, err = fr.Schema(true)
	assert.Error(t, err)
}

func TestTable(t *testing.T) {
	dt := table.New("obj")
	dt.AddColumn("time", tensor.NewFromValues([]float64{1, 2}))
	dt.AddColumn("name", tensor.NewFromValues([]string{"x", "y"}))
	dt.Meta.Set("dt", 0.5)

	fr, err := FromTable(dt)
	require.NoError(t, err)
	defer fr.Release()
	assert.Equal(t, 0.5, fr.Attrs["dt"])

	rt, err := fr.Table()
	require.NoError(t, err)
	assert.Equal(t, []string{"time", "name"}, rt.ColumnNames())
	assert.Equal(t, []string{"x", "y"}, rt.Column("name").(*tensor.String).Values)
	assert.Equal(t, 0.5, rt.Meta["dt"])
}

func TestShapeString(t *testing.T) {
	assert.Equal(t, "2,3", shapeString([]int{2, 3}))
	sh, err := parseShape("2, 3")
	require.NoError(t, err)
	assert.Equal(t, []int{2, 3}, sh)
	_, err = parseShape("2,x")
	assert.Error(t, err)
}
