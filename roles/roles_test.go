package roles

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/andr171p/ssoauth/storage"
)

type fakeGroupLister map[string][]storage.Group

func (f fakeGroupLister) GetGroups(ctx context.Context, realmSlug, userID string) ([]storage.Group, error) {
	return f[realmSlug+"/"+userID], nil
}

func TestResolveDefaultsWhenNoGroups(t *testing.T) {
	r := New(fakeGroupLister{})
	got, err := r.Resolve(context.Background(), "acme", "u1")
	require.NoError(t, err)
	require.Equal(t, DefaultRoles, got)
}

func TestResolveUnionsAndDedupesAcrossGroups(t *testing.T) {
	r := New(fakeGroupLister{
		"acme/u1": {
			{ID: "g1", Roles: []storage.Role{storage.RoleAdmin, storage.RoleUser}},
			{ID: "g2", Roles: []storage.Role{storage.RoleUser}},
		},
	})
	got, err := r.Resolve(context.Background(), "acme", "u1")
	require.NoError(t, err)
	require.Equal(t, []storage.Role{storage.RoleAdmin, storage.RoleUser}, got)
}

func TestJoinAndSplitRoundTrip(t *testing.T) {
	joined := Join([]storage.Role{storage.RoleAdmin, storage.RoleUser})
	require.Equal(t, "admin user", joined)
	require.Equal(t, []string{"admin", "user"}, Split(joined))
}

func TestSplitEmpty(t *testing.T) {
	require.Nil(t, Split(""))
}
