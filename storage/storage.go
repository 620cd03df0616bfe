// Package storage defines the entities and repository contracts the core
// depends on (spec.md §3, §6). Concrete persistence is an external
// collaborator's concern (spec.md §1); this package only names the shapes
// and the interfaces, the way dexidp/dex's storage package separates its
// Storage interface from any particular backend.
package storage

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned by a repository when the requested resource does
// not exist.
var ErrNotFound = errors.New("not found")

// ErrAlreadyExists is returned by a repository create method on a unique
// constraint violation (e.g. duplicate email).
var ErrAlreadyExists = errors.New("already exists")

// ClientType enumerates how a Client authenticates (spec.md §3).
type ClientType string

const (
	ClientPublic       ClientType = "public"
	ClientConfidential ClientType = "confidential"
	ClientService      ClientType = "service-account"
)

// GrantType enumerates the OAuth2 grants a Client is permitted to use.
type GrantType string

const (
	GrantAuthorizationCode GrantType = "authorization_code"
	GrantClientCredentials GrantType = "client_credentials"
	GrantRefreshToken      GrantType = "refresh_token"
)

// UserStatus enumerates a User's lifecycle state (spec.md §3).
type UserStatus string

const (
	StatusRegistered    UserStatus = "registered"
	StatusEmailVerified UserStatus = "email_verified"
	StatusActive        UserStatus = "active"
	StatusInactive      UserStatus = "inactive"
	StatusBanned        UserStatus = "banned"
	StatusDeleted       UserStatus = "deleted"
)

// Blocked reports whether this status blocks all authentications
// (spec.md §3: "status = banned | deleted blocks all authentications").
func (s UserStatus) Blocked() bool {
	return s == StatusBanned || s == StatusDeleted
}

// Role is an RBAC label granted via group membership (spec.md §3).
type Role string

const (
	RoleSuperadmin Role = "superadmin"
	RoleAdmin      Role = "admin"
	RoleUser       Role = "user"
	RoleGuest      Role = "guest"
)

// Realm is a tenant boundary; every Client, User, and Group is scoped to
// exactly one Realm (spec.md §3).
type Realm struct {
	ID          string
	Slug        string
	Name        string
	Description string
	Enabled     bool
	CreatedAt   time.Time
}

// Client is an OAuth2 machine principal (spec.md §3). ClientSecretHash is
// never the plaintext secret.
type Client struct {
	ID               string
	RealmID          string
	ClientID         string
	ClientSecretHash string
	Name             string
	ClientType       ClientType
	GrantTypes       []GrantType
	RedirectURIs     []string
	Scopes           []string
	Enabled          bool
	ExpiresAt        *time.Time
	CreatedAt        time.Time
}

// HasGrant reports whether g is in c.GrantTypes.
func (c Client) HasGrant(g GrantType) bool {
	for _, have := range c.GrantTypes {
		if have == g {
			return true
		}
	}
	return false
}

// User is a human principal (spec.md §3). PasswordHash is nil for users
// created exclusively through an identity provider.
type User struct {
	ID           string
	Email        string
	Username     string
	PasswordHash *string
	Status       UserStatus
	CreatedAt    time.Time
}

// IdentityProvider is a registered external OAuth2/OIDC issuer (spec.md §3).
type IdentityProvider struct {
	ID           string
	Name         string
	Protocol     string // "oauth" | "oidc"
	ClientID     string
	ClientSecret string
	Scopes       []string
	Enabled      bool
}

// UserIdentity links a User to a provider-side subject (spec.md §3).
type UserIdentity struct {
	ID             string
	UserID         string
	ProviderID     string
	ProviderUserID string
	Email          string
}

// Group carries a set of Roles granted to its members, scoped to a realm
// (spec.md §3).
type Group struct {
	ID          string
	RealmID     string
	Name        string
	Description string
	Roles       []Role
}

// RealmRepo is the read contract over Realm the core depends on
// (spec.md §6).
type RealmRepo interface {
	GetBySlug(ctx context.Context, slug string) (Realm, error)
	Get(ctx context.Context, id string) (Realm, error)
}

// ClientRepo is the read contract over Client (spec.md §6).
type ClientRepo interface {
	GetByClientID(ctx context.Context, realmSlug, clientID string) (Client, error)
}

// UserRepo is the read/write contract over User and UserIdentity
// (spec.md §6). CreateWithIdentity performs the user-create plus
// identity-create required by oauth_register (spec.md §4.7) as a single
// logical unit.
type UserRepo interface {
	Create(ctx context.Context, u User) (User, error)
	CreateWithIdentity(ctx context.Context, u User, identity UserIdentity) (User, error)
	Get(ctx context.Context, id string) (User, error)
	GetByEmail(ctx context.Context, email string) (User, error)
	GetByProvider(ctx context.Context, providerUserID string) (User, error)
	GetGroups(ctx context.Context, realmSlug, userID string) ([]Group, error)
}

// IdentityProviderRepo is the read contract over IdentityProvider
// (spec.md §6).
type IdentityProviderRepo interface {
	GetByName(ctx context.Context, name string) (IdentityProvider, error)
}
