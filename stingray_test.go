// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package stingray

import (
	"context"
	"log/slog"
	"sync"
	"testing"

	"cogentcore.org/stingray/tensor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Series has the attributes shared by time series objects.
type Series struct {
	Time   []float64 `stingray:"time"`
	Dt     float64
	Gti    [][]float64
	MJDRef float64 `stingray:"mjdref"`
}

type LightCurve struct {
	Series
	Counts    []float64
	CountsErr []float64
	Mask      []bool
	Pi        []int
	Amp       []complex128
	Label     string
	Notes     []string
	Instr     *string
	Header    map[string]any
	Extra     map[string]any `stingray:",extra"`
	Parent    *LightCurve
	Callback  func() float64
	Scratch   []float64 `stingray:"-"`
	private   int
}

func (lc *LightCurve) MainArrayAttr() string { return "time" }

func testLightCurve() *LightCurve {
	instr := "FPMA"
	return &LightCurve{
		Series: Series{
			Time:   []float64{0.5, 1.5, 2.5},
			Dt:     1,
			Gti:    [][]float64{{0, 1.5}, {2, 3}},
			MJDRef: 55197.00076601852,
		},
		Counts:    []float64{10, 12.5, 9},
		CountsErr: []float64{3.1, 3.5, 3},
		Mask:      []bool{true, false, true},
		Pi:        []int{1, 20, 300},
		Amp:       []complex128{1 + 2i, -0.5i, 3},
		Label:     "lc a",
		Notes:     []string{"first", "second"},
		Instr:     &instr,
		Extra:     map[string]any{"backscal": 0.25},
	}
}

// Image has a 2D main array.
type Image struct {
	Frames  [][]float64
	Weights [][]float64
	Row     []float64
	Cube    [][][]float64
	Grid    *tensor.Float64
	Other   any
}

func (im *Image) MainArrayAttr() string { return "frames" }

type NoMain struct {
	X []float64
}

func (nm *NoMain) MainArrayAttr() string { return "" }

type ScalarMain struct {
	Time float64
}

func (sm *ScalarMain) MainArrayAttr() string { return "time" }

// countHandler counts the log records at each level.
type countHandler struct {
	mu     sync.Mutex
	counts map[slog.Level]int
}

func (h *countHandler) Enabled(context.Context, slog.Level) bool { return true }

func (h *countHandler) Handle(_ context.Context, r slog.Record) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.counts[r.Level]++
	return nil
}

func (h *countHandler) WithAttrs([]slog.Attr) slog.Handler { return h }
func (h *countHandler) WithGroup(string) slog.Handler      { return h }

func (h *countHandler) count(level slog.Level) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.counts[level]
}

// countLogs installs a countHandler as the default logger for the test.
func countLogs(t *testing.T) *countHandler {
	h := &countHandler{counts: map[slog.Level]int{}}
	old := slog.Default()
	slog.SetDefault(slog.New(h))
	t.Cleanup(func() { slog.SetDefault(old) })
	return h
}

func TestSchema(t *testing.T) {
	sc, err := SchemaOf(&LightCurve{})
	require.NoError(t, err)
	assert.Equal(t, "time", sc.Main)
	var nms []string
	for _, f := range sc.Fields {
		nms = append(nms, f.Name)
	}
	assert.Equal(t, []string{"time", "dt", "gti", "mjdref", "counts", "counts_err", "mask", "pi", "amp", "label", "notes", "instr", "header"}, nms)
	assert.Equal(t, Scalar, sc.Field("dt").Kind)
	assert.Equal(t, ArrayLike, sc.Field("gti").Kind)
	assert.Equal(t, []int{0, 0}, sc.Field("time").Index)
	assert.Nil(t, sc.Field("scratch"))
	assert.NotNil(t, sc.Extra)

	sc2, err := SchemaOf(&LightCurve{})
	require.NoError(t, err)
	assert.Same(t, sc, sc2)

	lc, err := New[LightCurve]()
	require.NoError(t, err)
	assert.Equal(t, &LightCurve{}, lc)
	_, err = New[NoMain]()
	assert.ErrorIs(t, err, ErrNoMainAttr)
	assert.ErrorIs(t, Validate(&NoMain{}), ErrNoMainAttr)
	assert.ErrorIs(t, Validate(&ScalarMain{}), ErrNoMainAttr)
	assert.Error(t, Validate((*LightCurve)(nil)))
	assert.Panics(t, func() { ArrayAttrs(&NoMain{X: []float64{1}}) })
}

func TestArrayAttrs(t *testing.T) {
	lc := testLightCurve()
	lc.Extra["bkg"] = []float64{1, 2, 3}
	lc.Extra["fn"] = func() {}
	lc.Extra["child"] = &LightCurve{}
	assert.Equal(t, []string{"time", "counts", "counts_err", "mask", "pi", "amp", "bkg"}, ArrayAttrs(lc))
	assert.Equal(t, []string{"dt", "gti", "mjdref", "label", "notes", "instr", "header", "backscal"}, MetaAttrs(lc))

	lc.Counts = lc.Counts[:2]
	assert.NotContains(t, ArrayAttrs(lc), "counts")
	assert.Contains(t, MetaAttrs(lc), "counts")

	lc.Time = nil
	assert.Empty(t, ArrayAttrs(lc))
	assert.Contains(t, MetaAttrs(lc), "time")
	lc.Time = []float64{}
	assert.Empty(t, ArrayAttrs(lc))
}

func TestArrayAttrs2D(t *testing.T) {
	im := &Image{
		Frames:  [][]float64{{1, 2, 3}, {4, 5, 6}},
		Weights: [][]float64{{1, 1, 1}, {0, 0, 0}},
		Row:     []float64{1, 2},
		Cube:    [][][]float64{{{1}, {2}, {3}}, {{4}, {5}, {6}}},
		Grid:    tensor.NewFloat64(2, 3),
		Other:   [][]int{{1, 2, 3}, {4, 5, 6}},
	}
	assert.Equal(t, []string{"frames", "weights", "grid", "other"}, ArrayAttrs(im))
	assert.Equal(t, []string{"row", "cube"}, MetaAttrs(im))

	im.Weights = [][]float64{{1, 1}, {0, 0}, {2, 2}}
	assert.NotContains(t, ArrayAttrs(im), "weights")
	im.Weights = [][]float64{{1, 1, 1}, {0, 0}}
	assert.NotContains(t, ArrayAttrs(im), "weights")
}

func TestMetaDict(t *testing.T) {
	lc := testLightCurve()
	lc.Instr = nil
	lc.Notes = nil
	md := MetaDict(lc)
	assert.NotContains(t, md, "instr")
	assert.NotContains(t, md, "notes")
	assert.NotContains(t, md, "header")
	assert.Contains(t, MetaAttrs(lc), "instr")
	assert.Equal(t, 1.0, md["dt"])
	assert.Equal(t, 0.25, md["backscal"])
	assert.Equal(t, "lc a", md["label"])
	for k, v := range md {
		assert.NotNil(t, v, k)
	}

	lc.Gti[0][1] = 100
	lc.Dt = 2
	assert.Equal(t, [][]float64{{0, 1.5}, {2, 3}}, md["gti"])
	assert.Equal(t, 1.0, md["dt"])
}

func TestGetSet(t *testing.T) {
	lc := testLightCurve()
	v, ok := Get(lc, "counts_err")
	require.True(t, ok)
	assert.Equal(t, []float64{3.1, 3.5, 3}, v)
	_, ok = Get(lc, "private")
	assert.False(t, ok)
	_, ok = Get(lc, "callback")
	assert.False(t, ok)

	require.NoError(t, Set(lc, "gti", []any{[]any{1, 2.5}}))
	assert.Equal(t, [][]float64{{1, 2.5}}, lc.Gti)
	require.NoError(t, Set(lc, "counts", tensor.NewFromValues([]int{1, 2, 3})))
	assert.Equal(t, []float64{1, 2, 3}, lc.Counts)
	require.NoError(t, Set(lc, "instr", "FPMB"))
	assert.Equal(t, "FPMB", *lc.Instr)
	require.NoError(t, Set(lc, "dt", 2))
	assert.Equal(t, 2.0, lc.Dt)
	require.NoError(t, Set(lc, "newattr", tensor.NewFromValues([]float64{1})))
	assert.Equal(t, []float64{1}, lc.Extra["newattr"])
	assert.Error(t, Set(lc, "mask", "maybe"))

	h := countLogs(t)
	im := &Image{}
	require.NoError(t, Set(im, "bogus", 1))
	assert.Equal(t, 1, h.count(slog.LevelWarn))
}

func TestTableRoundTrip(t *testing.T) {
	lc := testLightCurve()
	lc.Header = map[string]any{"obs": "x"}
	lc.Extra["bkg"] = []float64{1, 2, 3}
	dt, err := ToTable(lc)
	require.NoError(t, err)
	assert.Equal(t, []string{"time", "counts", "counts_err", "mask", "pi", "amp", "bkg"}, dt.ColumnNames())
	assert.Equal(t, 3, dt.NumRows())
	assert.NotContains(t, dt.Meta, "time")

	rt, err := FromTable[LightCurve](dt)
	require.NoError(t, err)
	assert.Equal(t, lc, rt)
}

func TestDatasetRoundTrip(t *testing.T) {
	lc := testLightCurve()
	dir, err := ToDataset(lc)
	require.NoError(t, err)
	assert.Equal(t, "light_curve", dir.Name())
	assert.Equal(t, 6, dir.Len())
	dir.Attrs.Set("counts", 5.0)

	rt, err := FromDataset[LightCurve](dir)
	require.NoError(t, err)
	assert.Equal(t, lc, rt)
}

func TestFrameRoundTrip(t *testing.T) {
	lc := testLightCurve()
	fr, err := ToFrame(lc)
	require.NoError(t, err)
	defer fr.Release()
	assert.Equal(t, 3, fr.Len())
	fr.Attrs.Set("counts", 5.0)

	rt, err := FromFrame[LightCurve](fr)
	require.NoError(t, err)
	assert.Equal(t, lc, rt)
}

func TestImportErrors(t *testing.T) {
	lc := testLightCurve()
	dt, err := ToTable(lc)
	require.NoError(t, err)
	dt.Meta.Set("counts", []float64{0, 0, 0})
	rt, err := FromTable[LightCurve](dt)
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 0, 0}, rt.Counts)

	dt.Columns.Keys[0] = "tme"
	dt.Columns.UpdateIndexes()
	_, err = FromTable[LightCurve](dt)
	assert.ErrorIs(t, err, ErrMissingMain)
	var se *SchemaError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, "tme", se.Suggestion)
	assert.Contains(t, se.Error(), `did you mean "tme"?`)

	_, err = FromTable[NoMain](dt)
	assert.ErrorIs(t, err, ErrNoMainAttr)
}

func TestEmpty(t *testing.T) {
	lc := &LightCurve{Series: Series{Dt: 1}}
	dt, err := ToTable(lc)
	require.NoError(t, err)
	assert.Equal(t, 0, dt.Len())
	assert.Equal(t, 1.0, dt.Meta["dt"])

	rt, err := FromTable[LightCurve](dt)
	assert.ErrorIs(t, err, ErrEmpty)
	require.NotNil(t, rt)
	assert.Equal(t, &LightCurve{}, rt)

	dir, err := ToDataset(lc)
	require.NoError(t, err)
	_, err = FromDataset[LightCurve](dir)
	assert.ErrorIs(t, err, ErrEmpty)

	fr, err := ToFrame(lc)
	require.NoError(t, err)
	defer fr.Release()
	_, err = FromFrame[LightCurve](fr)
	assert.ErrorIs(t, err, ErrEmpty)
}

type trackPoint struct{ X, Y float64 }

type Track struct {
	Time   []float64
	Points []trackPoint
}

func (tr *Track) MainArrayAttr() string { return "time" }

func TestExportErrors(t *testing.T) {
	tr := &Track{Time: []float64{1, 2}, Points: []trackPoint{{1, 2}, {3, 4}}}
	assert.Equal(t, []string{"time", "points"}, ArrayAttrs(tr))
	_, err := ToTable(tr)
	assert.Error(t, err)
}
