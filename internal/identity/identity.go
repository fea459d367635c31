// Package identity verifies bearer credentials against the identity
// provider and keeps the provider's custom claims in step with profile
// role and status.
package identity

import (
	"context"
	"errors"
	"strings"

	"github.com/AnshRaj112/reportguard-backend/internal/apperr"
	"github.com/AnshRaj112/reportguard-backend/internal/models"
)

var (
	ErrNoToken      = apperr.Unauthorized("Unauthorized: no token")
	ErrTokenExpired = apperr.Unauthorized("Unauthorized: token expired")
	ErrTokenInvalid = apperr.Unauthorized("Unauthorized: invalid token")
	ErrUnverified   = apperr.Unauthorized("Unauthorized")

	// ErrAccountNotFound is returned by DeleteAccount when the provider has
	// no such account.
	ErrAccountNotFound = errors.New("identity account not found")
)

// Verifier turns an opaque credential into verified claims.
type Verifier interface {
	Verify(ctx context.Context, token string) (*models.Claims, error)
}

// ClaimSyncer pushes profile attributes into the provider's claim store.
type ClaimSyncer interface {
	SetProfileClaims(ctx context.Context, uid string, role models.Role, status models.ProfileStatus) error
}

// AccountDeleter removes provider accounts.
type AccountDeleter interface {
	DeleteAccount(ctx context.Context, uid string) error
}

// Provider is everything the service needs from the identity provider.
type Provider interface {
	Verifier
	ClaimSyncer
	AccountDeleter
}

// BearerToken extracts the token from an "Authorization: Bearer <token>"
// header value.
func BearerToken(header string) (string, error) {
	header = strings.TrimSpace(header)
	if len(header) < len("Bearer ") || !strings.EqualFold(header[:len("Bearer ")], "Bearer ") {
		return "", ErrNoToken
	}
	token := strings.TrimSpace(header[len("Bearer "):])
	if token == "" {
		return "", ErrNoToken
	}
	return token, nil
}

// ClaimsFromMap reads the claim attributes we care about from a raw claim
// set. Unknown or mistyped values are ignored.
func ClaimsFromMap(uid string, raw map[string]interface{}) *models.Claims {
	c := &models.Claims{UID: uid}
	if v, ok := raw["email"].(string); ok {
		c.Email = v
	}
	if v, ok := raw["fbName"].(string); ok {
		c.FBName = v
	} else if v, ok := raw["name"].(string); ok {
		c.FBName = v
	}
	if v, ok := raw["role"].(string); ok && models.Role(v).Valid() {
		c.Role = models.Role(v)
	}
	if v, ok := raw["status"].(string); ok && models.ProfileStatus(v).Valid() {
		c.Status = models.ProfileStatus(v)
	}
	return c
}
