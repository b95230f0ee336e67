// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package stingray

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"cogentcore.org/stingray/tensor"
	"cogentcore.org/stingray/tensor/table"
	"cogentcore.org/stingray/tensor/tableio"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type Spectrum struct {
	Z    []complex128
	Freq []float64
}

func (sp *Spectrum) MainArrayAttr() string { return "z" }

func TestComplexECSV(t *testing.T) {
	fn := filepath.Join(t.TempDir(), "power.ecsv")
	sp := &Spectrum{Z: []complex128{1 + 2i, 3 - 4i}, Freq: []float64{0.1, 0.2}}
	require.NoError(t, Write(sp, fn))

	dt, err := tableio.ReadFile(fn, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"z.real", "z.imag", "freq"}, dt.ColumnNames())
	assert.Equal(t, []float64{1, 3}, dt.Column("z.real").(*tensor.Float64).Values)
	assert.Equal(t, []float64{2, -4}, dt.Column("z.imag").(*tensor.Float64).Values)

	rt, err := Read[Spectrum](fn)
	require.NoError(t, err)
	assert.Equal(t, sp, rt)
}

func TestSplitColumnsArrow(t *testing.T) {
	fn := filepath.Join(t.TempDir(), "s.arrow")
	dt := table.New()
	dt.AddColumn("z.real", tensor.NewFromValues([]float64{1, 3}))
	dt.AddColumn("z.imag", tensor.NewFromValues([]float64{2, -4}))
	dt.AddColumn("freq", tensor.NewFromValues([]float64{0.1, 0.2}))
	require.NoError(t, tableio.WriteFile(fn, "", dt, tableio.WriteOptions{Overwrite: true}))

	rt, err := Read[Spectrum](fn)
	require.NoError(t, err)
	assert.Equal(t, []complex128{1 + 2i, 3 - 4i}, rt.Z)
	assert.Equal(t, []float64{0.1, 0.2}, rt.Freq)

	_, err = Read[Spectrum](fn, WithFormat("arrow"))
	var se *SchemaError
	assert.ErrorAs(t, err, &se)

	sp := &Spectrum{Z: []complex128{1 + 2i, 3 - 4i}, Freq: []float64{0.1, 0.2}}
	require.NoError(t, Write(sp, fn))
	dt, err = tableio.ReadFile(fn, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"z.real", "z.imag", "freq"}, dt.ColumnNames())

	require.NoError(t, Write(sp, fn, WithFormat("arrow")))
	dt, err = tableio.ReadFile(fn, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"z", "freq"}, dt.ColumnNames())
	rt, err = Read[Spectrum](fn)
	require.NoError(t, err)
	assert.Equal(t, sp, rt)
}

// Calibrated has complex attributes that are stored as metadata.
type Calibrated struct {
	Time []float64
	Norm complex128
	Cal  []complex128
}

func (cb *Calibrated) MainArrayAttr() string { return "time" }

func TestComplexMeta(t *testing.T) {
	dir := t.TempDir()
	cb := &Calibrated{Time: []float64{1, 2}, Norm: 1 + 2i, Cal: []complex128{1i}}
	assert.Equal(t, []string{"norm", "cal"}, MetaAttrs(cb))
	for _, ext := range []string{".ecsv", ".arrow", ".toml"} {
		fn := filepath.Join(dir, "cal"+ext)
		require.NoError(t, Write(cb, fn), ext)
		rt, err := Read[Calibrated](fn)
		require.NoError(t, err, ext)
		assert.Equal(t, cb, rt, ext)
	}
}

func TestFileRoundTrip(t *testing.T) {
	dir := t.TempDir()
	for _, ext := range []string{".ecsv", ".arrow"} {
		lc := testLightCurve()
		lc.Extra["bkg"] = []float64{1, 2, 3}
		fn := filepath.Join(dir, "lc"+ext)
		require.NoError(t, Write(lc, fn), ext)
		rt, err := Read[LightCurve](fn)
		require.NoError(t, err, ext)
		assert.Equal(t, lc, rt, ext)

		lc.Counts = lc.Counts[:2]
		require.NoError(t, Write(lc, fn), ext)
		rt, err = Read[LightCurve](fn)
		require.NoError(t, err, ext)
		assert.Equal(t, lc.Counts, rt.Counts, ext)
	}
}

func TestCSVWithoutMeta(t *testing.T) {
	fn := filepath.Join(t.TempDir(), "lc.csv")
	lc := testLightCurve()
	require.NoError(t, Write(lc, fn))
	b, err := os.ReadFile(fn)
	require.NoError(t, err)
	assert.NotContains(t, string(b), "mjdref")

	rt, err := Read[LightCurve](fn)
	require.NoError(t, err)
	assert.Equal(t, lc.Time, rt.Time)
	assert.Equal(t, lc.Counts, rt.Counts)
	assert.Equal(t, lc.Amp, rt.Amp)
	assert.Zero(t, rt.Dt)
	assert.Zero(t, rt.MJDRef)
}

func TestPickle(t *testing.T) {
	fn := filepath.Join(t.TempDir(), "lc.p")
	lc := testLightCurve()
	lc.Extra["bkg"] = []float64{1, 2}
	lc.Extra["tags"] = map[string]any{"a": "b"}
	require.NoError(t, Write(lc, fn, WithFormat("pickle")))
	rt, err := Read[LightCurve](fn, WithFormat("pickle"))
	require.NoError(t, err)
	assert.Equal(t, lc, rt)

	_, err = Read[LightCurve](fn)
	assert.Error(t, err)

	lc.Extra["resp"] = map[string]float64{"a": 1}
	require.NoError(t, Write(lc, fn, WithFormat("pickle")))
	rt, err = Read[LightCurve](fn, WithFormat("pickle"))
	require.NoError(t, err)
	assert.Equal(t, map[string]float64{"a": 1}, rt.Extra["resp"])

	before, err := os.ReadFile(fn)
	require.NoError(t, err)
	lc.Extra["ch"] = make(chan int)
	assert.Error(t, Write(lc, fn, WithFormat("pickle")))
	after, err := os.ReadFile(fn)
	require.NoError(t, err)
	assert.Equal(t, before, after)

	_, err = Read[NoMain](fn, WithFormat("pickle"))
	assert.ErrorIs(t, err, ErrNoMainAttr)
}

func TestLegacyFormat(t *testing.T) {
	dir := t.TempDir()
	lc := testLightCurve()
	fa := filepath.Join(dir, "a.dat")
	fb := filepath.Join(dir, "b.dat")

	h := countLogs(t)
	require.NoError(t, Write(lc, fa, WithFormat("ascii.ecsv")))
	assert.Equal(t, 0, h.count(slog.LevelWarn))
	require.NoError(t, Write(lc, fb, WithLegacyFormat("ascii.ecsv")))
	assert.Equal(t, 1, h.count(slog.LevelWarn))

	ba, err := os.ReadFile(fa)
	require.NoError(t, err)
	bb, err := os.ReadFile(fb)
	require.NoError(t, err)
	assert.Equal(t, string(ba), string(bb))

	rt, err := Read[LightCurve](fb, WithFormat("ascii"))
	require.NoError(t, err)
	assert.Equal(t, lc, rt)
	assert.Equal(t, 1, h.count(slog.LevelWarn))

	require.NoError(t, Write(lc, fb, WithFormat("ascii.ecsv"), WithLegacyFormat("csv")))
	assert.Equal(t, 1, h.count(slog.LevelWarn))
	bb, err = os.ReadFile(fb)
	require.NoError(t, err)
	assert.Equal(t, string(ba), string(bb))
}

func TestEncodeDecode(t *testing.T) {
	lc := testLightCurve()
	var buf bytes.Buffer
	require.NoError(t, Encode(lc, &buf, "", WithFormat("ascii")))
	assert.True(t, strings.HasPrefix(buf.String(), "# %ECSV"))
	assert.Contains(t, buf.String(), "amp.real")

	rt, err := Decode[LightCurve](&buf, "")
	require.NoError(t, err)
	assert.Equal(t, lc, rt)

	buf.Reset()
	require.NoError(t, Encode(lc, &buf, "lc.arrow"))
	assert.Contains(t, buf.String(), "amp.real")
	rt, err = Decode[LightCurve](&buf, "")
	require.NoError(t, err)
	assert.Equal(t, lc, rt)

	buf.Reset()
	require.NoError(t, Encode(lc, &buf, "lc.arrow", WithFormat("arrow")))
	assert.NotContains(t, buf.String(), "amp.real")
	rt, err = Decode[LightCurve](&buf, "", WithFormat("arrow"))
	require.NoError(t, err)
	assert.Equal(t, lc, rt)

	buf.Reset()
	require.NoError(t, Encode(lc, &buf, "", WithFormat("gob")))
	rt, err = Decode[LightCurve](&buf, "", WithFormat("pickle"))
	require.NoError(t, err)
	assert.Equal(t, lc, rt)
}
