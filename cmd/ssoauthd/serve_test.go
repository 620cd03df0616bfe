package main

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/andr171p/ssoauth/internal/config"
)

func TestBuildCoreWiresInMemoryStoreWhenRedisUnset(t *testing.T) {
	c := config.Config{Issuer: "https://sso.example.com", JWT: config.JWT{SecretKey: "test-secret"}}

	core, sessions, err := buildCore(c)
	require.NoError(t, err)
	require.NotNil(t, core)
	require.NotNil(t, core.Credential)
	require.NotNil(t, core.OAuth)
	require.NotNil(t, core.RealmSwitch)
	require.NotNil(t, sessions)
}

func TestBuildCoreWiresConfiguredProviders(t *testing.T) {
	c := config.Config{
		Issuer: "https://sso.example.com",
		JWT:    config.JWT{SecretKey: "test-secret"},
		OAuth2: config.OAuth2{
			VK:     config.VK{AppID: "1", AppSecret: "s", RedirectURI: "https://sso.example.com/cb"},
			Yandex: config.Yandex{AppID: "2", AppSecret: "s"},
		},
	}

	core, _, err := buildCore(c)
	require.NoError(t, err)
	require.NotNil(t, core.OAuth)
}
