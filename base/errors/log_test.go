// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package errors

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMust(t *testing.T) {
	assert.NotPanics(t, func() { Must(nil) })
	assert.Panics(t, func() { Must(New("boom")) })
	assert.Equal(t, 3, Must1(strconv.Atoi("3")))
	assert.Panics(t, func() { Must1(strconv.Atoi("x")) })
}

func TestLog(t *testing.T) {
	assert.NoError(t, Log(nil))
	err := New("logged")
	assert.Same(t, err, Log(err))
	assert.Equal(t, 0, Log1(strconv.Atoi("x")))
	assert.Equal(t, 12, Log1(strconv.Atoi("12")))
}

func TestStdlib(t *testing.T) {
	base := New("base")
	joined := Join(base, nil)
	assert.True(t, Is(joined, base))
	var target interface{ Unwrap() []error }
	assert.True(t, As(joined, &target))
	assert.Len(t, target.Unwrap(), 1)
}
