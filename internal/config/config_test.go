package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadParsesYAML(t *testing.T) {
	c, err := Load([]byte(`
issuer: https://sso.example.com
jwt:
  secretKey: s3cret
redis:
  host: localhost
  port: "6379"
`))
	require.NoError(t, err)
	require.Equal(t, "https://sso.example.com", c.Issuer)
	require.Equal(t, "s3cret", c.JWT.SecretKey)
	require.Equal(t, "localhost", c.Redis.Host)
}

func TestValidateRequiresIssuerSecretAndRedisHost(t *testing.T) {
	err := Config{}.Validate()
	require.Error(t, err)
}

func TestAlgorithmDefaultsToHS256(t *testing.T) {
	require.Equal(t, "HS256", Config{}.Algorithm())
	require.Equal(t, "RS256", Config{JWT: JWT{Algorithm: "RS256"}}.Algorithm())
}

func TestFromEnvOverlaysValues(t *testing.T) {
	os.Setenv("JWT_SECRET_KEY", "from-env")
	defer os.Unsetenv("JWT_SECRET_KEY")

	c := FromEnv(Config{JWT: JWT{SecretKey: "from-yaml"}})
	require.Equal(t, "from-env", c.JWT.SecretKey)
}
