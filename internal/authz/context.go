package authz

import (
	"context"

	"github.com/AnshRaj112/reportguard-backend/internal/models"
)

type contextKey string

const (
	claimsContextKey  contextKey = "reportguard.claims"
	profileContextKey contextKey = "reportguard.profile"
)

func WithClaims(ctx context.Context, c *models.Claims) context.Context {
	return context.WithValue(ctx, claimsContextKey, c)
}

func ClaimsFromContext(ctx context.Context) (*models.Claims, bool) {
	c, ok := ctx.Value(claimsContextKey).(*models.Claims)
	return c, ok && c != nil
}

func WithProfile(ctx context.Context, p *models.UserProfile) context.Context {
	return context.WithValue(ctx, profileContextKey, p)
}

// ProfileFromContext returns the profile the gate resolved for this request.
func ProfileFromContext(ctx context.Context) (*models.UserProfile, bool) {
	p, ok := ctx.Value(profileContextKey).(*models.UserProfile)
	return p, ok && p != nil
}
