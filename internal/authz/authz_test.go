package authz

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AnshRaj112/reportguard-backend/internal/apperr"
	"github.com/AnshRaj112/reportguard-backend/internal/models"
)

type profileMap struct {
	profiles map[string]*models.UserProfile
	err      error
	lookups  int
}

func (m *profileMap) FindByUID(_ context.Context, uid string) (*models.UserProfile, error) {
	m.lookups++
	if m.err != nil {
		return nil, m.err
	}
	p, ok := m.profiles[uid]
	if !ok {
		return nil, apperr.NotFound("User not found")
	}
	return p, nil
}

func newProfiles(ps ...*models.UserProfile) *profileMap {
	m := &profileMap{profiles: map[string]*models.UserProfile{}}
	for _, p := range ps {
		m.profiles[p.UID] = p
	}
	return m
}

func TestFastPathSkipsStore(t *testing.T) {
	store := newProfiles()
	gate := NewGate(store, false)

	p, err := gate.Authorize(context.Background(), &models.Claims{UID: "a1", Role: models.RoleAdmin, Email: "a@x.io"}, AdminRoles...)
	require.NoError(t, err)
	assert.Equal(t, 0, store.lookups)
	assert.Equal(t, "a1", p.UID)
	assert.Equal(t, "N/A", p.FBName)
	assert.Equal(t, models.StatusApproved, p.Status)
	assert.Equal(t, models.RoleAdmin, p.Role)
}

func TestSlowPathReadsStore(t *testing.T) {
	store := newProfiles(&models.UserProfile{UID: "s1", Role: models.RoleSuperAdmin, Status: models.StatusApproved})
	gate := NewGate(store, false)

	p, err := gate.Authorize(context.Background(), &models.Claims{UID: "s1"}, models.RoleSuperAdmin)
	require.NoError(t, err)
	assert.Equal(t, 1, store.lookups)
	assert.Equal(t, models.RoleSuperAdmin, p.Role)
}

func TestSlowPathFailures(t *testing.T) {
	store := newProfiles(&models.UserProfile{UID: "u1", Role: models.RoleUser})
	gate := NewGate(store, false)

	_, err := gate.Authorize(context.Background(), &models.Claims{UID: "ghost"}, AdminRoles...)
	assert.ErrorIs(t, err, ErrProfileNotFound)
	assert.Equal(t, 403, apperr.Status(err))

	_, err = gate.Authorize(context.Background(), &models.Claims{UID: "u1"}, AdminRoles...)
	assert.ErrorIs(t, err, ErrInsufficientPrivileges)

	store.err = errors.New("socket closed")
	_, err = gate.Authorize(context.Background(), &models.Claims{UID: "u1"}, AdminRoles...)
	assert.Equal(t, 500, apperr.Status(err))
}

func TestRequiredRoleIsEnforcedOnBothPaths(t *testing.T) {
	store := newProfiles(&models.UserProfile{UID: "a2", Role: models.RoleAdmin})
	gate := NewGate(store, false)

	_, err := gate.Authorize(context.Background(), &models.Claims{UID: "a1", Role: models.RoleAdmin}, models.RoleSuperAdmin)
	assert.ErrorIs(t, err, ErrInsufficientPrivileges)

	_, err = gate.Authorize(context.Background(), &models.Claims{UID: "a2"}, models.RoleSuperAdmin)
	assert.ErrorIs(t, err, ErrInsufficientPrivileges)
}

func TestUserRoleClaimFallsThroughToStore(t *testing.T) {
	store := newProfiles(&models.UserProfile{UID: "p1", Role: models.RoleAdmin})
	gate := NewGate(store, false)

	// claim says user, but the store was promoted since the token was minted
	p, err := gate.Authorize(context.Background(), &models.Claims{UID: "p1", Role: models.RoleUser}, AdminRoles...)
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, p.Role)
}

func TestStrictGateIgnoresClaims(t *testing.T) {
	store := newProfiles(&models.UserProfile{UID: "d1", Role: models.RoleUser})
	gate := NewGate(store, true)

	// demoted in the store, token still carries admin
	_, err := gate.Authorize(context.Background(), &models.Claims{UID: "d1", Role: models.RoleAdmin}, AdminRoles...)
	assert.ErrorIs(t, err, ErrInsufficientPrivileges)
	assert.Equal(t, 1, store.lookups)
}

func TestMissingClaims(t *testing.T) {
	gate := NewGate(newProfiles(), false)
	_, err := gate.Authorize(context.Background(), nil, AdminRoles...)
	assert.ErrorIs(t, err, ErrNoIdentity)
	_, err = gate.Authorize(context.Background(), &models.Claims{}, AdminRoles...)
	assert.ErrorIs(t, err, ErrNoIdentity)
}

func TestEmptyChainDenies(t *testing.T) {
	_, err := NewChain().Authorize(context.Background(), &models.Claims{UID: "x"}, AdminRoles...)
	assert.ErrorIs(t, err, ErrInsufficientPrivileges)
}

func TestContextHelpers(t *testing.T) {
	ctx := context.Background()
	_, ok := ClaimsFromContext(ctx)
	assert.False(t, ok)
	_, ok = ProfileFromContext(ctx)
	assert.False(t, ok)

	ctx = WithClaims(ctx, &models.Claims{UID: "c"})
	ctx = WithProfile(ctx, &models.UserProfile{UID: "c"})
	c, ok := ClaimsFromContext(ctx)
	require.True(t, ok)
	assert.Equal(t, "c", c.UID)
	p, ok := ProfileFromContext(ctx)
	require.True(t, ok)
	assert.Equal(t, "c", p.UID)
}
