// Package token implements the token service (spec.md §4.3, §4.4):
// issuance of access/refresh pairs and client access tokens, plus
// introspection with realm binding and session-presence checks. It
// composes internal/jwtsign (the raw sign/decode primitive) with
// sessionstore.Store[session.Session] the way dex's server/oauth2.go
// composes its id-token signer with its session-aware refresh handling,
// generalized here to this core's access/refresh pair and session-backed
// introspection.
package token

import (
	"context"
	"time"

	"github.com/andr171p/ssoauth/internal/errs"
	"github.com/andr171p/ssoauth/internal/jwtsign"
	"github.com/andr171p/ssoauth/roles"
	"github.com/andr171p/ssoauth/session"
	"github.com/andr171p/ssoauth/sessionstore"
	"github.com/andr171p/ssoauth/storage"
)

// Durations fixed by spec.md §4.3.
const (
	AccessTTL       = 15 * time.Minute
	RefreshTTL      = 7 * 24 * time.Hour
	ClientAccessTTL = 30 * time.Minute
)

// ClientPayload is the pre-signing payload for a client token (spec.md
// §4.3: "{iss, sub = client_id, scope = space-join(scopes), realm =
// realm.slug}").
type ClientPayload struct {
	Subject string
	Scope   []string
	Realm   string
}

// UserPayload is the pre-signing payload for a user token.
type UserPayload struct {
	Subject string
	Roles   []storage.Role
	Email   string
	Status  string
	Realm   string
}

// Pair is the access/refresh response of issue_pair (spec.md §4.3).
type Pair struct {
	Access    string
	Refresh   string
	SessionID string
	ExpiresAt int64
}

// ClientAccess is the response of issue_client_access (spec.md §4.3).
type ClientAccess struct {
	Access    string
	ExpiresAt int64
}

// UserClaims is the introspection result for a user token (spec.md §4.4).
type UserClaims struct {
	Active  bool
	Cause   string
	Subject string
	Realm   string
	Roles   []string
	Email   string
	Status  string
	Expiry  int64
}

// ClientClaims is the introspection result for a client token.
type ClientClaims struct {
	Active  bool
	Cause   string
	Subject string
	Realm   string
	Scope   []string
	Expiry  int64
}

// Service is the token service: signs, issues, and introspects tokens,
// consulting the session store for session-bound (user) flows.
type Service struct {
	signer   *jwtsign.Signer
	sessions sessionstore.Store[session.Session]
	now      func() time.Time
}

// New returns a Service.
func New(signer *jwtsign.Signer, sessions sessionstore.Store[session.Session]) *Service {
	return &Service{signer: signer, sessions: sessions, now: time.Now}
}

func spaceJoin(items []string) string {
	out := ""
	for i, s := range items {
		if i > 0 {
			out += " "
		}
		out += s
	}
	return out
}

// IssuePair signs an access/refresh pair bound to sessionID (spec.md §4.3).
func (s *Service) IssuePair(payload UserPayload, sessionID string) (Pair, error) {
	jwtPayload := jwtsign.Payload{
		Subject: payload.Subject,
		Roles:   roles.Join(payload.Roles),
		Email:   payload.Email,
		Status:  payload.Status,
	}

	access, err := s.signer.Sign(jwtPayload, jwtsign.Access, payload.Realm, AccessTTL)
	if err != nil {
		return Pair{}, err
	}
	refresh, err := s.signer.Sign(jwtPayload, jwtsign.Refresh, payload.Realm, RefreshTTL)
	if err != nil {
		return Pair{}, err
	}

	claims, err := s.signer.Decode(access)
	if err != nil {
		return Pair{}, err
	}

	return Pair{Access: access, Refresh: refresh, SessionID: sessionID, ExpiresAt: claims.Expiry}, nil
}

// IssueClientAccess signs a client-only access token (spec.md §4.3).
func (s *Service) IssueClientAccess(payload ClientPayload) (ClientAccess, error) {
	jwtPayload := jwtsign.Payload{Subject: payload.Subject, Scope: spaceJoin(payload.Scope)}

	access, err := s.signer.Sign(jwtPayload, jwtsign.Access, payload.Realm, ClientAccessTTL)
	if err != nil {
		return ClientAccess{}, err
	}
	claims, err := s.signer.Decode(access)
	if err != nil {
		return ClientAccess{}, err
	}
	return ClientAccess{Access: access, ExpiresAt: claims.Expiry}, nil
}

// IntrospectClient validates a client token, without any session check
// (spec.md §4.4 applies to user tokens; client tokens carry no session and
// are validated on realm + expiry alone).
func (s *Service) IntrospectClient(ctx context.Context, tok, realm string) (ClientClaims, error) {
	claims, err := s.signer.Decode(tok)
	if err != nil {
		return ClientClaims{}, errs.Wrap(errs.Unauthorized, "decoding client token", err)
	}
	if claims.Realm != realm {
		return ClientClaims{}, errs.New(errs.Unauthorized, "Invalid token in this realm")
	}
	if claims.Expiry < s.now().Unix() {
		return ClientClaims{Active: false, Cause: "Token expired"}, nil
	}
	return ClientClaims{
		Active:  true,
		Subject: claims.Subject,
		Realm:   claims.Realm,
		Scope:   roles.Split(claims.Scope),
		Expiry:  claims.Expiry,
	}, nil
}

// IntrospectUser implements spec.md §4.4's numbered steps: session
// presence, decode, realm binding, expiry.
func (s *Service) IntrospectUser(ctx context.Context, tok, realm, sessionID string) (UserClaims, error) {
	exists, err := s.sessions.Exists(ctx, sessionID)
	if err != nil {
		return UserClaims{}, err
	}
	if !exists {
		return UserClaims{}, errs.New(errs.Unauthorized, "Session not found")
	}

	claims, err := s.signer.Decode(tok)
	if err != nil {
		return UserClaims{}, errs.Wrap(errs.Unauthorized, "decoding user token", err)
	}
	if claims.Realm != realm {
		return UserClaims{Active: false, Cause: "Invalid token in this realm"}, nil
	}
	if claims.Expiry < s.now().Unix() {
		return UserClaims{Active: false, Cause: "Token expired"}, nil
	}
	return UserClaims{
		Active:  true,
		Subject: claims.Subject,
		Realm:   claims.Realm,
		Roles:   roles.Split(claims.Roles),
		Email:   claims.Email,
		Status:  claims.Status,
		Expiry:  claims.Expiry,
	}, nil
}
