// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package keylist

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestList(t *testing.T) {
	var kl List[string, int]
	kl.Set("time", 0)
	kl.Set("energy", 1)
	assert.NoError(t, kl.Add("pi", 2))
	assert.Error(t, kl.Add("pi", 3))
	assert.Equal(t, 3, kl.Len())
	assert.Equal(t, []string{"time", "energy", "pi"}, kl.Keys)

	kl.Set("energy", 10)
	assert.Equal(t, 10, kl.At("energy"))
	_, ok := kl.AtTry("missing")
	assert.False(t, ok)

	assert.NoError(t, kl.Insert(1, "z.real", 5))
	assert.Equal(t, []string{"time", "z.real", "energy", "pi"}, kl.Keys)
	assert.Equal(t, 2, kl.IndexByKey("energy"))
	assert.Error(t, kl.Insert(9, "late", 0))

	assert.True(t, kl.DeleteByKey("z.real"))
	assert.False(t, kl.DeleteByKey("z.real"))
	assert.Equal(t, 1, kl.IndexByKey("energy"))

	cp := kl.Clone()
	cp.Set("extra", 4)
	assert.Equal(t, 3, kl.Len())
	assert.Equal(t, 4, cp.Len())

	kl.Reset()
	assert.Equal(t, 0, kl.Len())
	assert.Equal(t, -1, kl.IndexByKey("time"))
}
