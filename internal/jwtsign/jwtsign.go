// Package jwtsign implements §4.1's JWT contract: sign(payload, token_type,
// expires_in) -> string, decode(token) -> claims. It is grounded on
// dexidp/dex's own use of gopkg.in/square/go-jose.v2 to sign ID tokens
// (server/oauth2.go's signPayload), generalized from dex's asymmetric
// RS256/ES256 id-token signing to the single static HS256 key spec.md §4.1
// and §6 call for. Audience is intentionally not checked here; realm
// binding is enforced by the token service at introspection time (§4.4).
package jwtsign

import (
	"time"

	jose "gopkg.in/square/go-jose.v2"
	"gopkg.in/square/go-jose.v2/jwt"

	"github.com/andr171p/ssoauth/internal/errs"
	"github.com/andr171p/ssoauth/internal/ids"
)

// TokenType distinguishes access from refresh tokens, carried as the
// "token_type" claim per spec.md §3 and §6.
type TokenType string

const (
	Access  TokenType = "access"
	Refresh TokenType = "refresh"
)

// Claims is the JWT payload shape spec.md §6 names: standard registered
// claims plus the core's own token_type/realm/scope/roles extensions.
// Exactly one of Scope (client tokens) or Roles (user tokens) is set.
type Claims struct {
	Issuer    string    `json:"iss,omitempty"`
	Subject   string    `json:"sub"`
	IssuedAt  int64     `json:"iat"`
	Expiry    int64     `json:"exp"`
	JTI       string    `json:"jti"`
	TokenType TokenType `json:"token_type"`
	Realm     string    `json:"realm"`

	Scope string `json:"scope,omitempty"`
	Roles string `json:"roles,omitempty"`

	Email  string `json:"email,omitempty"`
	Status string `json:"status,omitempty"`
}

// Signer signs and verifies HS256 JWTs with a single static secret loaded
// at startup (spec.md §6 JWT_SECRET_KEY), matching §5's "signing key:
// read-only process-wide state" — the Signer itself holds no mutable
// state and is safe for concurrent use.
type Signer struct {
	key    []byte
	issuer string
	now    func() time.Time
}

// New returns a Signer. issuer is stamped into every token's "iss" claim
// (spec.md §6 "issuer URL").
func New(secret []byte, issuer string) *Signer {
	return &Signer{key: secret, issuer: issuer, now: time.Now}
}

// Payload is the pre-timing-claims input to Sign: a client or user payload
// as built by the token service (spec.md §4.3).
type Payload struct {
	Subject string
	Scope   string
	Roles   string
	Email   string
	Status  string
}

// Sign produces an HS256-signed token, injecting exp/iat/token_type/jti
// exactly as spec.md §4.1 describes.
func (s *Signer) Sign(payload Payload, tokenType TokenType, realm string, expiresIn time.Duration) (string, error) {
	now := s.now()
	claims := Claims{
		Issuer:    s.issuer,
		Subject:   payload.Subject,
		IssuedAt:  now.Unix(),
		Expiry:    now.Add(expiresIn).Unix(),
		JTI:       ids.New(),
		TokenType: tokenType,
		Realm:     realm,
		Scope:     payload.Scope,
		Roles:     payload.Roles,
		Email:     payload.Email,
		Status:    payload.Status,
	}

	signer, err := jose.NewSigner(jose.SigningKey{Algorithm: jose.HS256, Key: s.key}, nil)
	if err != nil {
		return "", errs.Wrap(errs.InvalidToken, "building signer", err)
	}

	raw, err := jwt.Signed(signer).Claims(claims).CompactSerialize()
	if err != nil {
		return "", errs.Wrap(errs.InvalidToken, "signing token", err)
	}
	return raw, nil
}

// Decode verifies the HS256 signature and returns the parsed claims, or
// errs.InvalidToken if the token is structurally invalid or the signature
// does not verify.
func (s *Signer) Decode(token string) (Claims, error) {
	parsed, err := jwt.ParseSigned(token)
	if err != nil {
		return Claims{}, errs.Wrap(errs.InvalidToken, "parsing token", err)
	}

	var claims Claims
	if err := parsed.Claims(s.key, &claims); err != nil {
		return Claims{}, errs.Wrap(errs.InvalidToken, "verifying signature", err)
	}
	return claims, nil
}
