package codes

import (
	"crypto/sha256"
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGenerateChallengeMatchesVerifier(t *testing.T) {
	c, err := Generate()
	require.NoError(t, err)
	require.NotEmpty(t, c.State)
	require.NotEmpty(t, c.CodeVerifier)

	sum := sha256.Sum256([]byte(c.CodeVerifier))
	want := base64.RawURLEncoding.EncodeToString(sum[:])
	require.Equal(t, want, c.CodeChallenge)
}

func TestGenerateProducesDistinctStates(t *testing.T) {
	a, err := Generate()
	require.NoError(t, err)
	b, err := Generate()
	require.NoError(t, err)
	require.NotEqual(t, a.State, b.State)
	require.NotEqual(t, a.CodeVerifier, b.CodeVerifier)
}
