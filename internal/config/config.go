// Package config is the Config format for cmd/ssoauthd, grounded on
// dexidp/dex's cmd/dex Config: a YAML-loaded struct (ghodss/yaml, the
// teacher's own choice) with a Validate method performing the fast,
// CLI-responsive checks dex's Config.Validate does, generalized from
// dex's storage/web/grpc/connector shape to this core's JWT/Redis/
// Postgres/OAuth-provider shape (spec.md §6's environment inputs).
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/ghodss/yaml"
)

// Config is the root configuration for the ssoauthd process.
type Config struct {
	Issuer string `json:"issuer"`
	JWT    JWT    `json:"jwt"`
	Redis  Redis  `json:"redis"`
	Postgres Postgres `json:"postgres"`
	OAuth2 OAuth2 `json:"oauth2"`
	Logger Logger `json:"logger"`
}

// JWT carries JWT_SECRET_KEY / JWT_ALGORITHM (spec.md §6).
type JWT struct {
	SecretKey string `json:"secretKey"`
	Algorithm string `json:"algorithm"`
}

// Redis carries REDIS_HOST / REDIS_PORT / REDIS_USER / REDIS_PASSWORD
// (spec.md §6), backing the session and codes stores.
type Redis struct {
	Host     string `json:"host"`
	Port     string `json:"port"`
	User     string `json:"user"`
	Password string `json:"password"`
	DB       int    `json:"db"`
}

// Postgres carries POSTGRES_* (spec.md §6), the persistence layer for the
// repository contracts an external collaborator implements (spec.md §1).
type Postgres struct {
	Host     string `json:"host"`
	Port     string `json:"port"`
	User     string `json:"user"`
	Password string `json:"password"`
	Database string `json:"database"`
	SSLMode  string `json:"sslMode"`
}

// OAuth2 groups the per-provider registrations spec.md §6 names.
type OAuth2 struct {
	VK     VK     `json:"vk"`
	Yandex Yandex `json:"yandex"`
}

// VK carries VK_APP_ID / VK_APP_SECRET / VK_REDIRECT_URI.
type VK struct {
	AppID       string `json:"appID"`
	AppSecret   string `json:"appSecret"`
	RedirectURI string `json:"redirectURI"`
}

// Yandex carries YANDEX_APP_ID / YANDEX_APP_SECRET.
type Yandex struct {
	AppID     string `json:"appID"`
	AppSecret string `json:"appSecret"`
}

// Logger holds logging configuration (level/format), read the same way
// dex's cmd/dex Logger type is.
type Logger struct {
	Level  string `json:"level"`
	Format string `json:"format"`
}

// Validate performs the fast, CLI-responsive checks dex's Config.Validate
// performs, adapted to this core's required fields.
func (c Config) Validate() error {
	checks := []struct {
		bad    bool
		errMsg string
	}{
		{c.Issuer == "", "no issuer specified in config file"},
		{c.JWT.SecretKey == "", "no jwt.secretKey specified in config file"},
		{c.Redis.Host == "", "no redis.host specified in config file"},
	}

	var checkErrors []string
	for _, check := range checks {
		if check.bad {
			checkErrors = append(checkErrors, check.errMsg)
		}
	}
	if len(checkErrors) != 0 {
		return fmt.Errorf("invalid config:\n\t-\t%s", strings.Join(checkErrors, "\n\t-\t"))
	}
	return nil
}

// Algorithm defaults to HS256 if unset (spec.md §6: "JWT_ALGORITHM
// (default HS256)").
func (c Config) Algorithm() string {
	if c.JWT.Algorithm == "" {
		return "HS256"
	}
	return c.JWT.Algorithm
}

// Load parses YAML config data into a Config, then resolves any "$FOO"
// string value against the process environment (dex's config_env_replacer
// convention), letting secrets like jwt.secretKey live outside the YAML
// file on disk.
func Load(data []byte) (Config, error) {
	var c Config
	if err := yaml.Unmarshal(data, &c); err != nil {
		return Config{}, fmt.Errorf("parse config file: %v", err)
	}
	if err := replaceEnvKeys(&c, os.Getenv); err != nil {
		return Config{}, fmt.Errorf("resolve env references: %v", err)
	}
	return c, nil
}

// FromEnv overlays the environment inputs spec.md §6 names onto c,
// environment values taking precedence over whatever YAML supplied.
func FromEnv(c Config) Config {
	overlay := func(dst *string, key string) {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}

	overlay(&c.Issuer, "ISSUER")
	overlay(&c.JWT.SecretKey, "JWT_SECRET_KEY")
	overlay(&c.JWT.Algorithm, "JWT_ALGORITHM")
	overlay(&c.Redis.Host, "REDIS_HOST")
	overlay(&c.Redis.Port, "REDIS_PORT")
	overlay(&c.Redis.User, "REDIS_USER")
	overlay(&c.Redis.Password, "REDIS_PASSWORD")
	overlay(&c.Postgres.Host, "POSTGRES_HOST")
	overlay(&c.Postgres.Port, "POSTGRES_PORT")
	overlay(&c.Postgres.User, "POSTGRES_USER")
	overlay(&c.Postgres.Password, "POSTGRES_PASSWORD")
	overlay(&c.Postgres.Database, "POSTGRES_DB")
	overlay(&c.OAuth2.VK.AppID, "VK_APP_ID")
	overlay(&c.OAuth2.VK.AppSecret, "VK_APP_SECRET")
	overlay(&c.OAuth2.VK.RedirectURI, "VK_REDIRECT_URI")
	overlay(&c.OAuth2.Yandex.AppID, "YANDEX_APP_ID")
	overlay(&c.OAuth2.Yandex.AppSecret, "YANDEX_APP_SECRET")

	return c
}
