// Package roles implements resolve_roles (spec.md §4.9): the effective
// role list for a (realm, user) pair, computed as the deduplicated union
// of the Roles carried by every group the user belongs to in that realm,
// falling back to a default role set when the user belongs to none. It is
// grounded on dexidp/dex's pkg/groups.ApplyRoles, which builds an identity's
// role list the same way — union a set of group-derived roles into a
// unique, sorted slice — generalized here from dex's connector.Identity
// sink to this core's storage.Role/Group types.
package roles

import (
	"context"
	"sort"

	"github.com/andr171p/ssoauth/storage"
)

// DefaultRoles is returned for a user with no group memberships in the
// realm (spec.md §4.9: "If empty -> DEFAULT_ROLES = [user]").
var DefaultRoles = []storage.Role{storage.RoleUser}

// GroupLister is the slice of storage.UserRepo this package depends on.
type GroupLister interface {
	GetGroups(ctx context.Context, realmSlug, userID string) ([]storage.Group, error)
}

// Resolver computes effective roles for a (realm, user) pair.
type Resolver struct {
	groups GroupLister
}

// New returns a Resolver backed by groups.
func New(groups GroupLister) *Resolver {
	return &Resolver{groups: groups}
}

// Resolve returns the deduplicated union of roles across every group
// userID belongs to in realmSlug, or DefaultRoles if the user belongs to
// none.
func (r *Resolver) Resolve(ctx context.Context, realmSlug, userID string) ([]storage.Role, error) {
	groups, err := r.groups.GetGroups(ctx, realmSlug, userID)
	if err != nil {
		return nil, err
	}
	if len(groups) == 0 {
		return DefaultRoles, nil
	}

	unique := make(map[storage.Role]struct{})
	for _, g := range groups {
		for _, role := range g.Roles {
			unique[role] = struct{}{}
		}
	}

	out := make([]storage.Role, 0, len(unique))
	for role := range unique {
		out = append(out, role)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out, nil
}

// Join space-joins roles for the "roles" JWT claim (spec.md §6: "roles
// (space-joined string)").
func Join(roles []storage.Role) string {
	out := ""
	for i, r := range roles {
		if i > 0 {
			out += " "
		}
		out += string(r)
	}
	return out
}

// Split parses the space-joined "roles" claim back into a list (spec.md
// §4.4 step 5: "roles parsed from the space-joined string to a list").
func Split(joined string) []string {
	if joined == "" {
		return nil
	}
	var out []string
	start := 0
	for i := 0; i <= len(joined); i++ {
		if i == len(joined) || joined[i] == ' ' {
			if i > start {
				out = append(out, joined[start:i])
			}
			start = i + 1
		}
	}
	return out
}
