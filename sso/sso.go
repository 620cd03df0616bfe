// Package sso composes the core's components into the entry points named
// by spec.md §2: issue_client_token, login_user, oauth_callback, refresh,
// switch_realm, logout. It holds no business logic of its own beyond what
// §4.10 and §4.11 specify directly (refresh, logout); everything else is
// delegated to credential, oauthengine, realmswitch, and token.
package sso

import (
	"context"
	"time"

	"github.com/andr171p/ssoauth/credential"
	"github.com/andr171p/ssoauth/internal/errs"
	"github.com/andr171p/ssoauth/oauthengine"
	"github.com/andr171p/ssoauth/realmswitch"
	"github.com/andr171p/ssoauth/roles"
	"github.com/andr171p/ssoauth/session"
	"github.com/andr171p/ssoauth/sessionstore"
	"github.com/andr171p/ssoauth/storage"
	"github.com/andr171p/ssoauth/token"
)

// SessionRefreshThreshold and SessionRefreshIn are spec.md §4.10's fixed
// constants governing sliding-window session extension on refresh.
const (
	SessionRefreshThreshold = 5 * 24 * time.Hour
	SessionRefreshIn        = 2 * 24 * time.Hour
)

// Core bundles every component entry point composes.
type Core struct {
	Credential  *credential.Verifier
	OAuth       *oauthengine.Engine
	RealmSwitch *realmswitch.Service
	Tokens      *token.Service
	Roles       *roles.Resolver
	Sessions    sessionstore.Store[session.Session]
}

// IssueClientToken is the issue_client_token entry point (spec.md §2),
// delegating directly to authenticate_client (spec.md §4.5).
func (c *Core) IssueClientToken(ctx context.Context, realmSlug string, grantType storage.GrantType, clientID, clientSecret string, scope []string) (token.ClientAccess, error) {
	return c.Credential.AuthenticateClient(ctx, realmSlug, grantType, clientID, clientSecret, scope)
}

// LoginUser is the login_user entry point, delegating to
// authenticate_user (spec.md §4.6).
func (c *Core) LoginUser(ctx context.Context, realmSlug, email, password string) (token.Pair, error) {
	return c.Credential.AuthenticateUser(ctx, realmSlug, email, password)
}

// OAuthCallback is the oauth_callback(register|authenticate) entry point
// (spec.md §2), dispatching to oauthengine's composed flows.
func (c *Core) OAuthCallback(ctx context.Context, realmSlug, providerName string, callback oauthengine.Callback, register bool) (token.Pair, error) {
	if register {
		return c.OAuth.OAuthRegister(ctx, realmSlug, providerName, callback)
	}
	return c.OAuth.OAuthAuthenticate(ctx, realmSlug, providerName, callback)
}

// Refresh implements spec.md §4.10's refresh flow, including the
// sliding-window session-TTL extension.
func (c *Core) Refresh(ctx context.Context, refreshToken, realmSlug, sessionID string) (token.Pair, error) {
	sess, ok, err := c.Sessions.Get(ctx, sessionID)
	if err != nil {
		return token.Pair{}, err
	}
	if !ok {
		return token.Pair{}, errs.New(errs.Unauthorized, "Session not found or expired")
	}

	claims, err := c.Tokens.IntrospectUser(ctx, refreshToken, realmSlug, sessionID)
	if err != nil {
		return token.Pair{}, err
	}
	if !claims.Active {
		return token.Pair{}, errs.New(errs.Unauthorized, claims.Cause)
	}

	effectiveRoles, err := c.Roles.Resolve(ctx, realmSlug, claims.Subject)
	if err != nil {
		return token.Pair{}, err
	}

	remaining := time.Unix(sess.ExpiresAt, 0).Sub(time.Now())
	if remaining < SessionRefreshThreshold {
		if _, _, err := c.Sessions.RefreshTTL(ctx, sessionID, remaining+SessionRefreshIn); err != nil {
			return token.Pair{}, err
		}
	}

	payload := token.UserPayload{
		Subject: claims.Subject,
		Roles:   effectiveRoles,
		Email:   claims.Email,
		Status:  claims.Status,
		Realm:   realmSlug,
	}
	return c.Tokens.IssuePair(payload, sessionID)
}

// Logout implements spec.md §4.11's logout.
func (c *Core) Logout(ctx context.Context, sessionID string) error {
	deleted, err := c.Sessions.Delete(ctx, sessionID)
	if err != nil {
		return err
	}
	if !deleted {
		return errs.New(errs.Unauthorized, "Session expired, maybe already logout")
	}
	return nil
}

// SwitchRealm is the switch_realm entry point (spec.md §4.12).
func (c *Core) SwitchRealm(ctx context.Context, currentRealm, targetRealm, refreshToken, sessionID string) (token.Pair, error) {
	return c.RealmSwitch.Switch(ctx, currentRealm, targetRealm, refreshToken, sessionID)
}
