package ffi

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadTextAndGetString(t *testing.T) {
	h := New()
	defer Free(h)

	require.Equal(t, StatusOK, LoadText(h, `@a: $s := "hi"`))
	s, status := GetString(h, "a", "s")
	require.Equal(t, StatusOK, status)
	assert.Equal(t, "hi", s)
}

func TestGetOnMissingVariableSetsLastError(t *testing.T) {
	h := New()
	defer Free(h)

	require.Equal(t, StatusOK, LoadText(h, `@a: $s := "hi"`))
	_, status := GetString(h, "a", "missing")
	assert.Equal(t, StatusError, status)
	assert.NotEmpty(t, LastError(h))
}

func TestOperationsOnFreedHandleFail(t *testing.T) {
	h := New()
	Free(h)
	assert.Equal(t, StatusError, LoadText(h, `@a: $s := "hi"`))
}

func TestAddValueStringAndGetInteger(t *testing.T) {
	h := New()
	defer Free(h)

	require.Equal(t, StatusOK, AddValueString(h, "a", "name", "widget"))
	s, status := GetString(h, "a", "name")
	require.Equal(t, StatusOK, status)
	assert.Equal(t, "widget", s)

	require.Equal(t, StatusOK, LoadText(h, `@a: $count := 5`))
	i, status := GetInteger(h, "a", "count")
	require.Equal(t, StatusOK, status)
	assert.Equal(t, int64(5), i)
}
