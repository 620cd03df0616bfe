package realmswitch

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/andr171p/ssoauth/internal/errs"
	"github.com/andr171p/ssoauth/internal/jwtsign"
	"github.com/andr171p/ssoauth/roles"
	"github.com/andr171p/ssoauth/session"
	"github.com/andr171p/ssoauth/sessionstore/memstore"
	"github.com/andr171p/ssoauth/storage"
	"github.com/andr171p/ssoauth/storage/memory"
	"github.com/andr171p/ssoauth/token"
)

func setup(t *testing.T) (*Service, *memory.Backend, *token.Service, *memstore.Store[session.Session]) {
	t.Helper()
	backend := memory.NewBackend()
	signer := jwtsign.New([]byte("test-secret"), "https://sso.test")
	sessions := memstore.New[session.Session]("session:")
	tokens := token.New(signer, sessions)
	resolver := roles.New(backend.Users)
	return New(backend.Realms, backend.Users, resolver, tokens), backend, tokens, sessions
}

func TestSwitchRejectsSameRealm(t *testing.T) {
	svc, _, _, _ := setup(t)
	_, err := svc.Switch(context.Background(), "acme", "acme", "tok", "sess-1")
	require.True(t, errs.Is(err, errs.BadRequest))
}

func TestSwitchRejectsDisabledTargetRealm(t *testing.T) {
	svc, backend, tokens, sessions := setup(t)
	require.NoError(t, sessions.Add(context.Background(), "sess-1", session.Session{SessionID: "sess-1"}, time.Hour))
	_, err := backend.Users.Create(context.Background(), storage.User{ID: "u1", Status: storage.StatusActive})
	require.NoError(t, err)
	backend.Realms.Put(storage.Realm{ID: "r2", Slug: "other", Enabled: false})

	pair, err := tokens.IssuePair(token.UserPayload{Subject: "u1", Realm: "acme"}, "sess-1")
	require.NoError(t, err)

	_, err = svc.Switch(context.Background(), "acme", "other", pair.Refresh, "sess-1")
	require.True(t, errs.Is(err, errs.PermissionDenied))
}

func TestSwitchReusesSessionAndIssuesForTargetRealm(t *testing.T) {
	svc, backend, tokens, sessions := setup(t)
	require.NoError(t, sessions.Add(context.Background(), "sess-1", session.Session{SessionID: "sess-1"}, time.Hour))
	_, err := backend.Users.Create(context.Background(), storage.User{ID: "u1", Status: storage.StatusActive})
	require.NoError(t, err)
	backend.Realms.Put(storage.Realm{ID: "r2", Slug: "other", Enabled: true})

	pair, err := tokens.IssuePair(token.UserPayload{Subject: "u1", Realm: "acme"}, "sess-1")
	require.NoError(t, err)

	got, err := svc.Switch(context.Background(), "acme", "other", pair.Refresh, "sess-1")
	require.NoError(t, err)
	require.Equal(t, "sess-1", got.SessionID)

	claims, err := tokens.IntrospectUser(context.Background(), got.Access, "other", "sess-1")
	require.NoError(t, err)
	require.True(t, claims.Active)
	require.Equal(t, "other", claims.Realm)
}
