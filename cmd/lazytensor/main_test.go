// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package main

import (
	"testing"

	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestColorProfile(t *testing.T) {
	for name, want := range map[string]termenv.Profile{
		"none": termenv.Ascii,
		"256":  termenv.ANSI256,
		"true": termenv.TrueColor,
	} {
		got, err := colorProfile(name)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := colorProfile("rainbow")
	require.Error(t, err)
}
