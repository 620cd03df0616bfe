package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/andr171p/ssoauth/storage"
)

func TestRealmStoreRoundTrip(t *testing.T) {
	s := NewRealmStore()
	s.Put(storage.Realm{ID: "r1", Slug: "acme", Enabled: true})

	got, err := s.GetBySlug(context.Background(), "acme")
	require.NoError(t, err)
	require.Equal(t, "r1", got.ID)

	_, err = s.GetBySlug(context.Background(), "missing")
	require.ErrorIs(t, err, storage.ErrNotFound)
}

func TestUserStoreDuplicateEmail(t *testing.T) {
	s := NewUserStore()
	_, err := s.Create(context.Background(), storage.User{ID: "u1", Email: "U@X.Y"})
	require.NoError(t, err)

	got, err := s.GetByEmail(context.Background(), "u@x.y")
	require.NoError(t, err)
	require.Equal(t, "u1", got.ID)
	require.Equal(t, "u@x.y", got.Email, "email must be lowercased at storage")

	_, err = s.Create(context.Background(), storage.User{ID: "u2", Email: "u@x.y"})
	require.ErrorIs(t, err, storage.ErrAlreadyExists)
}

func TestUserStoreCreateWithIdentity(t *testing.T) {
	s := NewUserStore()
	u, err := s.CreateWithIdentity(context.Background(),
		storage.User{ID: "u1", Email: "u@x.y", Status: storage.StatusActive},
		storage.UserIdentity{ID: "i1", ProviderID: "yandex", ProviderUserID: "42", Email: "u@x.y"})
	require.NoError(t, err)
	require.Equal(t, "u1", u.ID)

	got, err := s.GetByProvider(context.Background(), "42")
	require.NoError(t, err)
	require.Equal(t, "u1", got.ID)
}

func TestUserStoreGroups(t *testing.T) {
	s := NewUserStore()
	s.PutGroupMembership("acme", "u1", storage.Group{ID: "g1", Roles: []storage.Role{storage.RoleAdmin}})
	s.PutGroupMembership("acme", "u1", storage.Group{ID: "g1", Roles: []storage.Role{storage.RoleAdmin}})

	groups, err := s.GetGroups(context.Background(), "acme", "u1")
	require.NoError(t, err)
	require.Len(t, groups, 1, "re-adding the same group must not duplicate membership")
}

func TestClientStoreGetByClientID(t *testing.T) {
	s := NewClientStore()
	s.Put("acme", storage.Client{ClientID: "svc-a", Enabled: true})

	c, err := s.GetByClientID(context.Background(), "acme", "svc-a")
	require.NoError(t, err)
	require.True(t, c.Enabled)

	_, err = s.GetByClientID(context.Background(), "other", "svc-a")
	require.ErrorIs(t, err, storage.ErrNotFound)
}
