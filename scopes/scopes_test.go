package scopes

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestValidateIntersectsPreservingOrder(t *testing.T) {
	got, ok := Validate([]string{"c", "a", "b"}, []string{"a", "c"}, false)
	require.True(t, ok)
	require.Equal(t, []string{"c", "a"}, got)
}

func TestValidateEmptyIntersectionIsNil(t *testing.T) {
	got, ok := Validate([]string{"z"}, []string{"a"}, false)
	require.False(t, ok)
	require.Nil(t, got)
}

func TestValidateStrictRejectsPartialMatch(t *testing.T) {
	_, ok := Validate([]string{"a", "z"}, []string{"a"}, true)
	require.False(t, ok)
}

func TestValidateStrictAcceptsFullMatch(t *testing.T) {
	got, ok := Validate([]string{"a", "b"}, []string{"a", "b", "c"}, true)
	require.True(t, ok)
	require.Equal(t, []string{"a", "b"}, got)
}
