// Package authz decides whether a verified caller may use an admin
// endpoint. Roles are resolved in two tiers: first from the role embedded in
// the caller's token claims, then from the profile store.
//
// The claim tier trusts the token until it expires. A role change is pushed
// into the claim store immediately, but a token minted before the change
// keeps its old role until refresh. Gates built with strict=true skip the
// claim tier and always read the store.
package authz

import (
	"context"

	"github.com/AnshRaj112/reportguard-backend/internal/apperr"
	"github.com/AnshRaj112/reportguard-backend/internal/models"
)

var (
	ErrNoIdentity             = apperr.Unauthorized("Unauthorized")
	ErrProfileNotFound        = apperr.Forbidden("Forbidden: profile not found")
	ErrInsufficientPrivileges = apperr.Forbidden("Forbidden: insufficient privileges")
)

// AdminRoles are the roles accepted by admin endpoints.
var AdminRoles = []models.Role{models.RoleAdmin, models.RoleSuperAdmin}

// Resolver turns claims into an admin profile. ok is false when the
// resolver cannot decide and the next one should be asked.
type Resolver interface {
	Resolve(ctx context.Context, claims *models.Claims) (profile *models.UserProfile, ok bool, err error)
}

// ClaimResolver trusts an admin role already present in the claims.
type ClaimResolver struct{}

func (ClaimResolver) Resolve(_ context.Context, c *models.Claims) (*models.UserProfile, bool, error) {
	if c == nil || !c.Role.IsAdmin() {
		return nil, false, nil
	}
	p := &models.UserProfile{
		UID:    c.UID,
		Email:  c.Email,
		FBName: c.FBName,
		Status: c.Status,
		Role:   c.Role,
	}
	if p.FBName == "" {
		p.FBName = "N/A"
	}
	if p.Status == "" {
		p.Status = models.StatusApproved
	}
	return p, true, nil
}

// ProfileFinder looks a profile up by uid. A missing profile is reported
// with an apperr NotFound error.
type ProfileFinder interface {
	FindByUID(ctx context.Context, uid string) (*models.UserProfile, error)
}

// StoreResolver reads the role from the profile store.
type StoreResolver struct {
	Profiles ProfileFinder
}

func (r StoreResolver) Resolve(ctx context.Context, c *models.Claims) (*models.UserProfile, bool, error) {
	p, err := r.Profiles.FindByUID(ctx, c.UID)
	if err != nil {
		if apperr.IsKind(err, apperr.KindNotFound) {
			return nil, false, ErrProfileNotFound
		}
		return nil, false, apperr.Internal("Failed to load profile", err)
	}
	if !p.Role.IsAdmin() {
		return nil, false, ErrInsufficientPrivileges
	}
	return p, true, nil
}

// Gate runs resolvers in order and checks the resolved role.
type Gate struct {
	resolvers []Resolver
}

// NewGate returns the standard two-tier gate, or a store-only gate when
// strict is set.
func NewGate(profiles ProfileFinder, strict bool) *Gate {
	if strict {
		return NewChain(StoreResolver{Profiles: profiles})
	}
	return NewChain(ClaimResolver{}, StoreResolver{Profiles: profiles})
}

func NewChain(resolvers ...Resolver) *Gate {
	return &Gate{resolvers: resolvers}
}

// Authorize returns the caller's profile if its role is one of roles.
func (g *Gate) Authorize(ctx context.Context, claims *models.Claims, roles ...models.Role) (*models.UserProfile, error) {
	if claims == nil || claims.UID == "" {
		return nil, ErrNoIdentity
	}
	for _, r := range g.resolvers {
		p, ok, err := r.Resolve(ctx, claims)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		if !hasRole(p.Role, roles) {
			return nil, ErrInsufficientPrivileges
		}
		return p, nil
	}
	return nil, ErrInsufficientPrivileges
}

func hasRole(role models.Role, allowed []models.Role) bool {
	for _, a := range allowed {
		if role == a {
			return true
		}
	}
	return false
}
