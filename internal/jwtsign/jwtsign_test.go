package jwtsign

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestSignAndDecodeRoundTrip(t *testing.T) {
	s := New([]byte("test-secret-key-------------"), "https://sso.example.test")

	token, err := s.Sign(Payload{Subject: "client-a", Scope: "api:read"}, Access, "acme", 15*time.Minute)
	require.NoError(t, err)

	claims, err := s.Decode(token)
	require.NoError(t, err)
	require.Equal(t, "client-a", claims.Subject)
	require.Equal(t, Access, claims.TokenType)
	require.Equal(t, "acme", claims.Realm)
	require.Equal(t, "api:read", claims.Scope)
	require.NotEmpty(t, claims.JTI)
	require.LessOrEqual(t, claims.IssuedAt, claims.Expiry)
}

func TestDecodeRejectsWrongKey(t *testing.T) {
	s1 := New([]byte("key-one-----------------------"), "iss")
	s2 := New([]byte("key-two-----------------------"), "iss")

	token, err := s1.Sign(Payload{Subject: "u1"}, Refresh, "acme", time.Hour)
	require.NoError(t, err)

	_, err = s2.Decode(token)
	require.Error(t, err)
}

func TestDecodeRejectsGarbage(t *testing.T) {
	s := New([]byte("key------------------------------"), "iss")
	_, err := s.Decode("not.a.jwt")
	require.Error(t, err)
}
