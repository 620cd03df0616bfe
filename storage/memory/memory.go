// Package memory provides in-memory implementations of the repository
// contracts in package storage, grounded on dexidp/dex's storage/memory
// package: mutex-guarded maps, each method taking its store's mutex. It exists
// for tests and local/dev wiring; production persistence is an external
// collaborator's concern (spec.md §1).
package memory

import (
	"context"
	"strings"
	"sync"

	"github.com/andr171p/ssoauth/storage"
)

// Backend bundles one in-memory implementation of each repository contract
// the core depends on, sharing nothing but convenient for wiring a single
// dev/test instance; cmd/ssoauthd's buildCore wires one as its repository
// backend.
type Backend struct {
	Realms            *RealmStore
	Clients           *ClientStore
	Users             *UserStore
	IdentityProviders *IdentityProviderStore
}

// NewBackend returns an empty Backend.
func NewBackend() *Backend {
	return &Backend{
		Realms:            NewRealmStore(),
		Clients:           NewClientStore(),
		Users:             NewUserStore(),
		IdentityProviders: NewIdentityProviderStore(),
	}
}

// --- RealmStore ---

type RealmStore struct {
	mu          sync.Mutex
	byID        map[string]storage.Realm
	idBySlug    map[string]string
}

func NewRealmStore() *RealmStore {
	return &RealmStore{byID: make(map[string]storage.Realm), idBySlug: make(map[string]string)}
}

func (s *RealmStore) Put(r storage.Realm) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.byID[r.ID] = r
	s.idBySlug[r.Slug] = r.ID
}

func (s *RealmStore) GetBySlug(ctx context.Context, slug string) (storage.Realm, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id, ok := s.idBySlug[slug]
	if !ok {
		return storage.Realm{}, storage.ErrNotFound
	}
	return s.byID[id], nil
}

func (s *RealmStore) Get(ctx context.Context, id string) (storage.Realm, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.byID[id]
	if !ok {
		return storage.Realm{}, storage.ErrNotFound
	}
	return r, nil
}

var _ storage.RealmRepo = (*RealmStore)(nil)

// --- ClientStore ---

type clientKey struct {
	realmSlug string
	clientID  string
}

type ClientStore struct {
	mu      sync.Mutex
	byKey   map[clientKey]storage.Client
}

func NewClientStore() *ClientStore {
	return &ClientStore{byKey: make(map[clientKey]storage.Client)}
}

func (s *ClientStore) Put(realmSlug string, c storage.Client) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.byKey[clientKey{realmSlug, c.ClientID}] = c
}

func (s *ClientStore) GetByClientID(ctx context.Context, realmSlug, clientID string) (storage.Client, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.byKey[clientKey{realmSlug, clientID}]
	if !ok {
		return storage.Client{}, storage.ErrNotFound
	}
	return c, nil
}

var _ storage.ClientRepo = (*ClientStore)(nil)

// --- UserStore ---

type realmUserKey struct {
	realmSlug string
	userID    string
}

type UserStore struct {
	mu             sync.Mutex
	byID           map[string]storage.User
	idByEmail      map[string]string
	identities     map[string]storage.UserIdentity
	byProviderUser map[string]string
	groups         map[string]storage.Group
	userGroupIDs   map[realmUserKey][]string
}

func NewUserStore() *UserStore {
	return &UserStore{
		byID:           make(map[string]storage.User),
		idByEmail:      make(map[string]string),
		identities:     make(map[string]storage.UserIdentity),
		byProviderUser: make(map[string]string),
		groups:         make(map[string]storage.Group),
		userGroupIDs:   make(map[realmUserKey][]string),
	}
}

// PutGroupMembership assigns group g to userID within realmSlug,
// registering g itself if not already known. Test/seed helper.
func (s *UserStore) PutGroupMembership(realmSlug, userID string, g storage.Group) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.groups[g.ID] = g
	key := realmUserKey{realmSlug, userID}
	for _, id := range s.userGroupIDs[key] {
		if id == g.ID {
			return
		}
	}
	s.userGroupIDs[key] = append(s.userGroupIDs[key], g.ID)
}

func (s *UserStore) Create(ctx context.Context, u storage.User) (storage.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	email := strings.ToLower(u.Email)
	if email != "" {
		if _, ok := s.idByEmail[email]; ok {
			return storage.User{}, storage.ErrAlreadyExists
		}
	}
	u.Email = email
	s.byID[u.ID] = u
	if email != "" {
		s.idByEmail[email] = u.ID
	}
	return u, nil
}

func (s *UserStore) CreateWithIdentity(ctx context.Context, u storage.User, identity storage.UserIdentity) (storage.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byProviderUser[identity.ProviderUserID]; ok {
		return storage.User{}, storage.ErrAlreadyExists
	}
	email := strings.ToLower(u.Email)
	if email != "" {
		if _, ok := s.idByEmail[email]; ok {
			return storage.User{}, storage.ErrAlreadyExists
		}
	}
	u.Email = email
	identity.UserID = u.ID

	s.byID[u.ID] = u
	if email != "" {
		s.idByEmail[email] = u.ID
	}
	s.identities[identity.ID] = identity
	s.byProviderUser[identity.ProviderUserID] = u.ID
	return u, nil
}

func (s *UserStore) Get(ctx context.Context, id string) (storage.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.byID[id]
	if !ok {
		return storage.User{}, storage.ErrNotFound
	}
	return u, nil
}

func (s *UserStore) GetByEmail(ctx context.Context, email string) (storage.User, error) {
	email = strings.ToLower(email)
	s.mu.Lock()
	defer s.mu.Unlock()
	id, ok := s.idByEmail[email]
	if !ok {
		return storage.User{}, storage.ErrNotFound
	}
	return s.byID[id], nil
}

func (s *UserStore) GetByProvider(ctx context.Context, providerUserID string) (storage.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id, ok := s.byProviderUser[providerUserID]
	if !ok {
		return storage.User{}, storage.ErrNotFound
	}
	return s.byID[id], nil
}

func (s *UserStore) GetGroups(ctx context.Context, realmSlug, userID string) ([]storage.Group, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []storage.Group
	for _, id := range s.userGroupIDs[realmUserKey{realmSlug, userID}] {
		out = append(out, s.groups[id])
	}
	return out, nil
}

var _ storage.UserRepo = (*UserStore)(nil)

// --- IdentityProviderStore ---

type IdentityProviderStore struct {
	mu      sync.Mutex
	byName  map[string]storage.IdentityProvider
}

func NewIdentityProviderStore() *IdentityProviderStore {
	return &IdentityProviderStore{byName: make(map[string]storage.IdentityProvider)}
}

func (s *IdentityProviderStore) Put(p storage.IdentityProvider) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.byName[p.Name] = p
}

func (s *IdentityProviderStore) GetByName(ctx context.Context, name string) (storage.IdentityProvider, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.byName[name]
	if !ok {
		return storage.IdentityProvider{}, storage.ErrNotFound
	}
	return p, nil
}

var _ storage.IdentityProviderRepo = (*IdentityProviderStore)(nil)
