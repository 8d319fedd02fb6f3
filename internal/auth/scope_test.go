// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Cryal Contributors

package auth_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cryal/cryal/internal/auth"
)

func TestParseScope(t *testing.T) {
	t.Run("accepts known scopes", func(t *testing.T) {
		scope, err := auth.ParseScope("read_only")
		require.NoError(t, err)
		assert.Equal(t, auth.ScopeReadOnly, scope)

		scope, err = auth.ParseScope("full")
		require.NoError(t, err)
		assert.Equal(t, auth.ScopeFull, scope)
	})

	t.Run("rejects unknown scopes", func(t *testing.T) {
		for _, s := range []string{"", "admin", "READ_ONLY", "write"} {
			_, err := auth.ParseScope(s)
			assert.Error(t, err, "scope %q", s)
		}
	})
}

func TestScope_CanWrite(t *testing.T) {
	t.Run("full scope writes everything", func(t *testing.T) {
		assert.True(t, auth.ScopeFull.CanWrite("rooms"))
		assert.True(t, auth.ScopeFull.CanWrite("waypoints"))
	})

	t.Run("read_only scope writes nothing", func(t *testing.T) {
		assert.False(t, auth.ScopeReadOnly.CanWrite("rooms"))
		assert.False(t, auth.ScopeReadOnly.CanWrite("plans"))
	})

	t.Run("unknown scope denies", func(t *testing.T) {
		assert.False(t, auth.Scope("root").CanWrite("rooms"))
	})
}

func TestScope_CanRead(t *testing.T) {
	assert.True(t, auth.ScopeReadOnly.CanRead("locations"))
	assert.True(t, auth.ScopeFull.CanRead("locations"))
	assert.False(t, auth.Scope("").CanRead("locations"))
}
