// Package realmswitch implements switch_realm (spec.md §4.12): exchanging
// a refresh token valid in one realm for a new pair in another, reusing
// the caller's existing session rather than minting a new one.
package realmswitch

import (
	"context"

	"github.com/andr171p/ssoauth/internal/errs"
	"github.com/andr171p/ssoauth/roles"
	"github.com/andr171p/ssoauth/storage"
	"github.com/andr171p/ssoauth/token"
)

// Service implements switch_realm.
type Service struct {
	realms storage.RealmRepo
	users  storage.UserRepo
	roles  *roles.Resolver
	tokens *token.Service
}

// New returns a Service.
func New(realms storage.RealmRepo, users storage.UserRepo, roleResolver *roles.Resolver, tokens *token.Service) *Service {
	return &Service{realms: realms, users: users, roles: roleResolver, tokens: tokens}
}

// Switch implements spec.md §4.12's switch_realm.
func (s *Service) Switch(ctx context.Context, currentRealm, targetRealm, refreshToken, sessionID string) (token.Pair, error) {
	if currentRealm == targetRealm {
		return token.Pair{}, errs.New(errs.BadRequest, "current and target realm must differ")
	}

	claims, err := s.tokens.IntrospectUser(ctx, refreshToken, currentRealm, sessionID)
	if err != nil {
		return token.Pair{}, err
	}
	if !claims.Active {
		return token.Pair{}, errs.New(errs.Unauthorized, claims.Cause)
	}

	realm, err := s.realms.GetBySlug(ctx, targetRealm)
	if err != nil || !realm.Enabled {
		return token.Pair{}, errs.New(errs.PermissionDenied, "Realm switching not allowed")
	}

	user, err := s.users.Get(ctx, claims.Subject)
	if err != nil {
		return token.Pair{}, err
	}
	if user.Status.Blocked() {
		return token.Pair{}, errs.New(errs.PermissionDenied, "user is blocked in target realm")
	}

	effectiveRoles, err := s.roles.Resolve(ctx, targetRealm, user.ID)
	if err != nil {
		return token.Pair{}, err
	}

	payload := token.UserPayload{
		Subject: user.ID,
		Roles:   effectiveRoles,
		Email:   user.Email,
		Status:  string(user.Status),
		Realm:   targetRealm,
	}
	return s.tokens.IssuePair(payload, sessionID)
}
