package oauthengine

import (
	"context"

	"github.com/andr171p/ssoauth/credential"
	"github.com/andr171p/ssoauth/internal/errs"
	"github.com/andr171p/ssoauth/internal/ids"
	"github.com/andr171p/ssoauth/oauthengine/codes"
	"github.com/andr171p/ssoauth/sessionstore"
	"github.com/andr171p/ssoauth/storage"
	"github.com/andr171p/ssoauth/token"
)

// Engine composes per-provider adapters with the identity-provider
// registry, the codes store, and the credential verifier's user/session
// machinery to implement oauth_register and oauth_authenticate
// (spec.md §4.7).
type Engine struct {
	providers         map[string]Provider
	identityProviders storage.IdentityProviderRepo
	codesStore        sessionstore.Store[codes.Codes]
	verifier          *credential.Verifier
}

// New returns an Engine. providers is indexed by Provider.Name().
func New(providers []Provider, identityProviders storage.IdentityProviderRepo, codesStore sessionstore.Store[codes.Codes], verifier *credential.Verifier) *Engine {
	byName := make(map[string]Provider, len(providers))
	for _, p := range providers {
		byName[p.Name()] = p
	}
	return &Engine{providers: byName, identityProviders: identityProviders, codesStore: codesStore, verifier: verifier}
}

// GenerateURL implements spec.md §4.7's generate_url: mints PKCE codes,
// stores them keyed by state with a ~200s TTL, and returns the
// provider's authorization URL.
func (e *Engine) GenerateURL(ctx context.Context, providerName string) (string, error) {
	provider, ok := e.providers[providerName]
	if !ok {
		return "", errs.New(errs.NotFound, "identity provider not registered")
	}

	c, err := codes.Generate()
	if err != nil {
		return "", err
	}
	if err := e.codesStore.Add(ctx, c.State, c, codes.TTL); err != nil {
		return "", err
	}

	return provider.AuthorizationURL(c.State, c.CodeChallenge), nil
}

// exchange implements spec.md §4.7's exchange(callback): pop the PKCE
// codes by state (single-use; a miss is BadRequest) and trade the code
// for an access token.
func (e *Engine) exchange(ctx context.Context, provider Provider, callback Callback) (string, error) {
	c, ok, err := e.codesStore.Pop(ctx, callback.State)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", errs.New(errs.BadRequest, "PKCE state not found or already used")
	}
	return provider.Exchange(ctx, callback.Code, c.CodeVerifier, callback.State)
}

// OAuthRegister implements spec.md §4.7's oauth_register.
func (e *Engine) OAuthRegister(ctx context.Context, realmSlug, providerName string, callback Callback) (token.Pair, error) {
	provider, ok := e.providers[providerName]
	if !ok {
		return token.Pair{}, errs.New(errs.NotFound, "identity provider not registered")
	}
	idp, err := e.identityProviders.GetByName(ctx, providerName)
	if err != nil {
		return token.Pair{}, errs.Wrap(errs.NotFound, "identity provider not registered", err)
	}

	accessToken, err := e.exchange(ctx, provider, callback)
	if err != nil {
		return token.Pair{}, err
	}
	identity, err := provider.UserInfo(ctx, accessToken)
	if err != nil {
		return token.Pair{}, err
	}

	user := storage.User{ID: ids.New(), Email: identity.Email, Status: storage.StatusActive}
	userIdentity := storage.UserIdentity{
		ID:             ids.New(),
		ProviderID:     idp.ID,
		ProviderUserID: identity.ProviderUserID,
		Email:          identity.Email,
	}

	created, err := e.verifier.Users().CreateWithIdentity(ctx, user, userIdentity)
	if err != nil {
		if err == storage.ErrAlreadyExists {
			return token.Pair{}, errs.Wrap(errs.AlreadyExists, "user already exists", err)
		}
		return token.Pair{}, err
	}

	return e.verifier.IssueForUser(ctx, realmSlug, created)
}

// OAuthAuthenticate implements spec.md §4.7's oauth_authenticate.
func (e *Engine) OAuthAuthenticate(ctx context.Context, realmSlug, providerName string, callback Callback) (token.Pair, error) {
	provider, ok := e.providers[providerName]
	if !ok {
		return token.Pair{}, errs.New(errs.NotFound, "identity provider not registered")
	}

	accessToken, err := e.exchange(ctx, provider, callback)
	if err != nil {
		return token.Pair{}, err
	}
	identity, err := provider.UserInfo(ctx, accessToken)
	if err != nil {
		return token.Pair{}, err
	}

	user, err := e.verifier.Users().GetByProvider(ctx, identity.ProviderUserID)
	if err != nil {
		return token.Pair{}, errs.New(errs.BadRequest, "User not found")
	}

	return e.verifier.IssueForUser(ctx, realmSlug, user)
}
