package oauthengine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/andr171p/ssoauth/credential"
	"github.com/andr171p/ssoauth/internal/errs"
	"github.com/andr171p/ssoauth/internal/jwtsign"
	"github.com/andr171p/ssoauth/oauthengine/codes"
	"github.com/andr171p/ssoauth/roles"
	"github.com/andr171p/ssoauth/session"
	"github.com/andr171p/ssoauth/sessionstore/memstore"
	"github.com/andr171p/ssoauth/storage"
	"github.com/andr171p/ssoauth/storage/memory"
	"github.com/andr171p/ssoauth/token"
)

type fakeProvider struct {
	name     string
	identity Identity
}

func (f fakeProvider) Name() string                                      { return f.name }
func (f fakeProvider) AuthorizationURL(state, codeChallenge string) string { return "https://example/authorize?state=" + state }
func (f fakeProvider) Exchange(ctx context.Context, code, verifier, state string) (string, error) {
	return "fake-access-token", nil
}
func (f fakeProvider) UserInfo(ctx context.Context, accessToken string) (Identity, error) {
	return f.identity, nil
}

func newEngine(t *testing.T, provider Provider) (*Engine, *memory.Backend) {
	t.Helper()
	backend := memory.NewBackend()
	backend.IdentityProviders.Put(storage.IdentityProvider{ID: "idp-1", Name: provider.Name(), Enabled: true})

	signer := jwtsign.New([]byte("test-secret"), "https://sso.test")
	sessions := memstore.New[session.Session]("session:")
	tokens := token.New(signer, sessions)
	resolver := roles.New(backend.Users)
	verifier := credential.New(backend.Realms, backend.Clients, backend.Users, sessions, resolver, tokens)

	codesStore := memstore.New[codes.Codes]("codes:")
	return New([]Provider{provider}, backend.IdentityProviders, codesStore, verifier), backend
}

func TestOAuthRegisterCreatesUserAndIssuesPair(t *testing.T) {
	provider := fakeProvider{name: "yandex", identity: Identity{ProviderUserID: "ext-1", Email: "u@x.y"}}
	engine, _ := newEngine(t, provider)

	url, err := engine.GenerateURL(context.Background(), "yandex")
	require.NoError(t, err)
	require.Contains(t, url, "state=")

	state := url[len(url)-36:]
	pair, err := engine.OAuthRegister(context.Background(), "acme", "yandex", Callback{State: state, Code: "abc"})
	require.NoError(t, err)
	require.NotEmpty(t, pair.SessionID)
}

func TestOAuthRegisterRejectsReplayedState(t *testing.T) {
	provider := fakeProvider{name: "yandex", identity: Identity{ProviderUserID: "ext-1", Email: "u@x.y"}}
	engine, _ := newEngine(t, provider)

	url, err := engine.GenerateURL(context.Background(), "yandex")
	require.NoError(t, err)
	state := url[len(url)-36:]

	_, err = engine.OAuthRegister(context.Background(), "acme", "yandex", Callback{State: state, Code: "abc"})
	require.NoError(t, err)

	_, err = engine.OAuthRegister(context.Background(), "acme", "yandex", Callback{State: state, Code: "abc"})
	require.True(t, errs.Is(err, errs.BadRequest))
}

func TestOAuthAuthenticateRequiresExistingLink(t *testing.T) {
	provider := fakeProvider{name: "yandex", identity: Identity{ProviderUserID: "ext-unknown", Email: "u@x.y"}}
	engine, _ := newEngine(t, provider)

	url, err := engine.GenerateURL(context.Background(), "yandex")
	require.NoError(t, err)
	state := url[len(url)-36:]

	_, err = engine.OAuthAuthenticate(context.Background(), "acme", "yandex", Callback{State: state, Code: "abc"})
	require.True(t, errs.Is(err, errs.BadRequest))
}
