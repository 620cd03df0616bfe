package passwordhash

import (
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

var cheapParams = Params{Memory: 8 * 1024, Time: 1, Parallelism: 1, SaltLength: 16, KeyLength: 32}

func TestHashAndVerifyArgon2id(t *testing.T) {
	hashed, err := HashWithParams("Hunter2", cheapParams)
	require.NoError(t, err)
	require.NotEqual(t, "Hunter2", hashed)
	require.True(t, Verify("Hunter2", hashed))
	require.False(t, Verify("wrong", hashed))
}

func TestVerifyLegacyBcrypt(t *testing.T) {
	h, err := bcrypt.GenerateFromPassword([]byte("Hunter2"), bcrypt.MinCost)
	require.NoError(t, err)
	require.True(t, Verify("Hunter2", string(h)))
	require.False(t, Verify("nope", string(h)))
}

func TestVerifyRejectsMalformedHash(t *testing.T) {
	require.False(t, Verify("Hunter2", "not-a-real-hash"))
	require.False(t, Verify("Hunter2", ""))
}

func TestHashDiffersEachCall(t *testing.T) {
	a, err := HashWithParams("same-secret", cheapParams)
	require.NoError(t, err)
	b, err := HashWithParams("same-secret", cheapParams)
	require.NoError(t, err)
	require.NotEqual(t, a, b, "distinct salts should produce distinct hashes")
}
