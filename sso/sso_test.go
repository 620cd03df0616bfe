package sso

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/andr171p/ssoauth/credential"
	"github.com/andr171p/ssoauth/internal/errs"
	"github.com/andr171p/ssoauth/internal/jwtsign"
	"github.com/andr171p/ssoauth/internal/passwordhash"
	"github.com/andr171p/ssoauth/realmswitch"
	"github.com/andr171p/ssoauth/roles"
	"github.com/andr171p/ssoauth/session"
	"github.com/andr171p/ssoauth/sessionstore"
	"github.com/andr171p/ssoauth/sessionstore/memstore"
	"github.com/andr171p/ssoauth/storage"
	"github.com/andr171p/ssoauth/storage/memory"
	"github.com/andr171p/ssoauth/token"
)

func newCore(t *testing.T) (*Core, *memory.Backend) {
	t.Helper()
	backend := memory.NewBackend()
	signer := jwtsign.New([]byte("test-secret"), "https://sso.test")
	sessions := memstore.New[session.Session]("session:")
	tokens := token.New(signer, sessions)
	resolver := roles.New(backend.Users)
	verifier := credential.New(backend.Realms, backend.Clients, backend.Users, sessions, resolver, tokens)
	rswitch := realmswitch.New(backend.Realms, backend.Users, resolver, tokens)

	return &Core{
		Credential:  verifier,
		RealmSwitch: rswitch,
		Tokens:      tokens,
		Roles:       resolver,
		Sessions:    sessions,
	}, backend
}

func TestLoginThenRefreshThenLogout(t *testing.T) {
	core, backend := newCore(t)
	hash, err := passwordhash.Hash("p@ss")
	require.NoError(t, err)
	_, err = backend.Users.Create(context.Background(), storage.User{ID: "u1", Email: "u@x.y", PasswordHash: &hash, Status: storage.StatusActive})
	require.NoError(t, err)

	pair, err := core.LoginUser(context.Background(), "acme", "u@x.y", "p@ss")
	require.NoError(t, err)
	require.NotEmpty(t, pair.SessionID)

	refreshed, err := core.Refresh(context.Background(), pair.Refresh, "acme", pair.SessionID)
	require.NoError(t, err)
	require.Equal(t, pair.SessionID, refreshed.SessionID)

	require.NoError(t, core.Logout(context.Background(), pair.SessionID))

	exists, err := core.Sessions.Exists(context.Background(), pair.SessionID)
	require.NoError(t, err)
	require.False(t, exists)

	err = core.Logout(context.Background(), pair.SessionID)
	require.True(t, errs.Is(err, errs.Unauthorized))
}

func TestRefreshRejectsUnknownSession(t *testing.T) {
	core, _ := newCore(t)
	_, err := core.Refresh(context.Background(), "whatever", "acme", "missing-session")
	require.True(t, errs.Is(err, errs.Unauthorized))
}

// ttlRecorder passes every call through to the wrapped store and remembers
// the ttl of the last RefreshTTL call.
type ttlRecorder struct {
	sessionstore.Store[session.Session]
	lastTTL time.Duration
}

func (r *ttlRecorder) RefreshTTL(ctx context.Context, id string, ttl time.Duration) (session.Session, bool, error) {
	r.lastTTL = ttl
	return r.Store.RefreshTTL(ctx, id, ttl)
}

func TestRefreshExtendsTTLNearExpiry(t *testing.T) {
	core, backend := newCore(t)
	recorder := &ttlRecorder{Store: core.Sessions}
	core.Sessions = recorder
	_, err := backend.Users.Create(context.Background(), storage.User{ID: "u1", Status: storage.StatusActive})
	require.NoError(t, err)

	nearExpiry := time.Now().Add(1 * 24 * time.Hour).Unix()
	require.NoError(t, core.Sessions.Add(context.Background(), "sess-1", session.Session{SessionID: "sess-1", ExpiresAt: nearExpiry}, 24*time.Hour))

	pair, err := core.Tokens.IssuePair(token.UserPayload{Subject: "u1", Realm: "acme"}, "sess-1")
	require.NoError(t, err)

	_, err = core.Refresh(context.Background(), pair.Refresh, "acme", "sess-1")
	require.NoError(t, err)

	_, ok, err := core.Sessions.Get(context.Background(), "sess-1")
	require.NoError(t, err)
	require.True(t, ok)
	require.Greater(t, recorder.lastTTL, SessionRefreshIn, "TTL should have been extended")
}
