// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package metadata

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestData(t *testing.T) {
	var md Data
	md.Set("mjdref", 55197.00076601852)
	md.Set("mission", "nustar")

	mjd, err := Get[float64](md, "mjdref")
	assert.NoError(t, err)
	assert.Equal(t, 55197.00076601852, mjd)

	_, err = Get[int](md, "mission")
	assert.Error(t, err)
	_, err = Get[string](md, "instr")
	assert.Error(t, err)

	assert.True(t, md.Has("mission"))
	assert.Equal(t, []string{"mission", "mjdref"}, md.Keys())

	var cp Data
	cp.Copy(md)
	cp.Delete("mission")
	assert.True(t, md.Has("mission"))
	assert.False(t, cp.Has("mission"))

	assert.Nil(t, Data{}.Clone())
	assert.Equal(t, md, md.Clone())
}
