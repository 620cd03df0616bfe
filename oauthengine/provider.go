// Package oauthengine implements the OAuth provider engine (spec.md §4.7):
// per-provider authorization-URL/exchange/userinfo adapters plus the
// composed oauth_register / oauth_authenticate flows. The hardened
// *http.Client construction is grounded on dexidp/dex's
// connector/oauth.newHTTPClient (connection pooling, explicit timeouts);
// the authorization-URL/token-exchange shape for the Yandex adapter reuses
// golang.org/x/oauth2.Config the way that same file builds its
// oauth2.Config for LoginURL/HandleCallback. VK's wire contract is JSON
// rather than form-encoded OAuth2, so its adapter talks to the endpoints
// directly with the same hardened client instead of oauth2.Config.
package oauthengine

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"net"
	"net/http"
	"strings"
	"time"
)

// Identity is what userinfo() returns (spec.md §4.7).
type Identity struct {
	ProviderUserID string
	Email          string
}

// Callback is the inbound authorization-code callback (spec.md §4.7).
type Callback struct {
	State string
	Code  string
}

// Provider is a single identity provider's adapter.
type Provider interface {
	// Name is the registration key matching an IdentityProvider row.
	Name() string
	// AuthorizationURL builds the provider-specific authorization URL
	// carrying the given PKCE state/challenge.
	AuthorizationURL(state, codeChallenge string) string
	// Exchange trades an authorization code (plus PKCE verifier) for an
	// access token.
	Exchange(ctx context.Context, code, codeVerifier, state string) (string, error)
	// UserInfo fetches the provider's userinfo endpoint.
	UserInfo(ctx context.Context, accessToken string) (Identity, error)
}

// lowercase normalizes a provider email before it becomes a User/UserIdentity
// email (spec.md §4.7: "GET the provider's userinfo endpoint, lowercase the
// email").
func lowercase(s string) string { return strings.ToLower(s) }

// newHTTPClient mirrors dex's connector/oauth hardened transport: explicit
// dial/idle timeouts so a slow identity provider cannot pin a goroutine
// indefinitely (spec.md §5: "outbound HTTP fetch to an identity provider
// is a potential suspension point").
func newHTTPClient() (*http.Client, error) {
	pool, err := x509.SystemCertPool()
	if err != nil {
		pool = x509.NewCertPool()
	}
	return &http.Client{
		Timeout: 15 * time.Second,
		Transport: &http.Transport{
			TLSClientConfig: &tls.Config{RootCAs: pool},
			Proxy:           http.ProxyFromEnvironment,
			DialContext: (&net.Dialer{
				Timeout:   10 * time.Second,
				KeepAlive: 30 * time.Second,
			}).DialContext,
			MaxIdleConns:          100,
			IdleConnTimeout:       90 * time.Second,
			TLSHandshakeTimeout:   10 * time.Second,
			ExpectContinueTimeout: 1 * time.Second,
		},
	}, nil
}
