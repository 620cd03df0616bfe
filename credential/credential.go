// Package credential implements the credential verifier (spec.md §4.5,
// §4.6): authenticate_client, authenticate_user, register_user. It is
// grounded on dexidp/dex's password-connector verification flow
// (connector/local, now folded into this core since local password auth is
// in scope here), generalized to this core's storage.UserRepo/ClientRepo
// and internal/passwordhash.
package credential

import (
	"context"
	"strings"
	"time"

	"github.com/andr171p/ssoauth/internal/errs"
	"github.com/andr171p/ssoauth/internal/ids"
	"github.com/andr171p/ssoauth/internal/passwordhash"
	"github.com/andr171p/ssoauth/roles"
	"github.com/andr171p/ssoauth/scopes"
	"github.com/andr171p/ssoauth/session"
	"github.com/andr171p/ssoauth/sessionstore"
	"github.com/andr171p/ssoauth/storage"
	"github.com/andr171p/ssoauth/token"
)

// SessionTTL is the lifetime a freshly authenticated session is allocated
// (spec.md §4.6: "expires_at = now + 7 days").
const SessionTTL = 7 * 24 * time.Hour

// Verifier composes the repositories, role resolver, token service, and
// session store needed by the credential flows.
type Verifier struct {
	realms   storage.RealmRepo
	clients  storage.ClientRepo
	users    storage.UserRepo
	sessions sessionstore.Store[session.Session]
	roles    *roles.Resolver
	tokens   *token.Service
	now      func() time.Time
}

// New returns a Verifier.
func New(
	realms storage.RealmRepo,
	clients storage.ClientRepo,
	users storage.UserRepo,
	sessions sessionstore.Store[session.Session],
	roleResolver *roles.Resolver,
	tokens *token.Service,
) *Verifier {
	return &Verifier{
		realms: realms, clients: clients, users: users,
		sessions: sessions, roles: roleResolver, tokens: tokens,
		now: time.Now,
	}
}

// AuthenticateClient implements spec.md §4.5.
func (v *Verifier) AuthenticateClient(ctx context.Context, realmSlug string, grantType storage.GrantType, clientID, clientSecret string, scope []string) (token.ClientAccess, error) {
	if grantType != storage.GrantClientCredentials {
		return token.ClientAccess{}, errs.New(errs.UnsupportedGrantType, "unsupported grant type")
	}

	client, err := v.clients.GetByClientID(ctx, realmSlug, clientID)
	if err != nil {
		return token.ClientAccess{}, errs.New(errs.Unauthorized, "Client unauthorized in this realm")
	}
	if !client.Enabled {
		return token.ClientAccess{}, errs.New(errs.NotEnabled, "client is not enabled")
	}
	if !passwordhash.Verify(clientSecret, client.ClientSecretHash) {
		return token.ClientAccess{}, errs.New(errs.InvalidCredentials, "invalid client credentials")
	}

	valid, ok := scopes.Validate(scope, client.Scopes, false)
	if !ok {
		return token.ClientAccess{}, errs.New(errs.PermissionDenied, "no permitted scope")
	}

	return v.tokens.IssueClientAccess(token.ClientPayload{Subject: client.ClientID, Scope: valid, Realm: realmSlug})
}

// AuthenticateUser implements spec.md §4.6.
func (v *Verifier) AuthenticateUser(ctx context.Context, realmSlug, email, password string) (token.Pair, error) {
	user, err := v.users.GetByEmail(ctx, strings.ToLower(email))
	if err != nil || user.PasswordHash == nil {
		return token.Pair{}, errs.New(errs.InvalidCredentials, "Invalid email")
	}
	if user.Status.Blocked() {
		return token.Pair{}, errs.New(errs.NotEnabled, "user is blocked")
	}
	if !passwordhash.Verify(password, *user.PasswordHash) {
		return token.Pair{}, errs.New(errs.InvalidCredentials, "Invalid email")
	}

	return v.issueForUser(ctx, realmSlug, user)
}

// issueForUser resolves roles, allocates a session, and issues a token
// pair for an already-authenticated user (shared by AuthenticateUser and
// the OAuth register/authenticate flows in package oauthengine).
func (v *Verifier) issueForUser(ctx context.Context, realmSlug string, user storage.User) (token.Pair, error) {
	effectiveRoles, err := v.roles.Resolve(ctx, realmSlug, user.ID)
	if err != nil {
		return token.Pair{}, err
	}

	now := v.now()
	sess := session.Session{
		SessionID:    ids.New(),
		UserID:       user.ID,
		ExpiresAt:    now.Add(SessionTTL).Unix(),
		LastActivity: now.Unix(),
		CreatedAt:    now,
	}
	if err := v.sessions.Add(ctx, sess.SessionID, sess, SessionTTL); err != nil {
		return token.Pair{}, err
	}

	payload := token.UserPayload{
		Subject: user.ID,
		Roles:   effectiveRoles,
		Email:   user.Email,
		Status:  string(user.Status),
		Realm:   realmSlug,
	}
	return v.tokens.IssuePair(payload, sess.SessionID)
}

// RegisterUser implements spec.md §4.6's register_user: hash the password
// and persist via the user repository. Duplicate-email races surface as
// storage.ErrAlreadyExists, mapped to errs.AlreadyExists.
func (v *Verifier) RegisterUser(ctx context.Context, u storage.User, password string) (storage.User, error) {
	hashed, err := passwordhash.Hash(password)
	if err != nil {
		return storage.User{}, err
	}
	u.PasswordHash = &hashed
	u.Email = strings.ToLower(u.Email)

	created, err := v.users.Create(ctx, u)
	if err != nil {
		if err == storage.ErrAlreadyExists {
			return storage.User{}, errs.Wrap(errs.AlreadyExists, "user already exists", err)
		}
		return storage.User{}, err
	}
	return created, nil
}

// IssueForUser exposes issueForUser to oauthengine's composed register/
// authenticate flows, which authenticate a user outside of a password
// check and still need role resolution, session allocation, and token
// issuance.
func (v *Verifier) IssueForUser(ctx context.Context, realmSlug string, user storage.User) (token.Pair, error) {
	return v.issueForUser(ctx, realmSlug, user)
}

// Realms exposes the realm repository for callers (e.g. realmswitch) that
// share this Verifier's wiring.
func (v *Verifier) Realms() storage.RealmRepo { return v.realms }

// Users exposes the user repository similarly.
func (v *Verifier) Users() storage.UserRepo { return v.users }
