package middleware

import (
	"net/http"

	"github.com/AnshRaj112/reportguard-backend/internal/authz"
	"github.com/AnshRaj112/reportguard-backend/internal/identity"
	"github.com/AnshRaj112/reportguard-backend/internal/models"
	"github.com/AnshRaj112/reportguard-backend/internal/respond"
)

// Auth holds the identity and authorization gates.
type Auth struct {
	verifier identity.Verifier
	gate     *authz.Gate
}

func NewAuth(verifier identity.Verifier, gate *authz.Gate) *Auth {
	return &Auth{verifier: verifier, gate: gate}
}

// VerifyAuthToken verifies the bearer token and attaches its claims. It
// checks no role; handlers behind it enforce their own rules.
func (a *Auth) VerifyAuthToken(next http.Handler) http.Handler {
	return a.verify(next, false)
}

// VerifyAuthTokenOrQuery also accepts the token as ?token=, for websocket
// clients that cannot set headers.
func (a *Auth) VerifyAuthTokenOrQuery(next http.Handler) http.Handler {
	return a.verify(next, true)
}

func (a *Auth) verify(next http.Handler, allowQuery bool) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, err := identity.BearerToken(r.Header.Get("Authorization"))
		if err != nil && allowQuery {
			if q := r.URL.Query().Get("token"); q != "" {
				token, err = q, nil
			}
		}
		if err != nil {
			respond.Error(w, err)
			return
		}

		claims, err := a.verifier.Verify(r.Context(), token)
		if err != nil {
			respond.Error(w, err)
			return
		}
		next.ServeHTTP(w, r.WithContext(authz.WithClaims(r.Context(), claims)))
	})
}

// RequireRoles admits callers whose resolved role is one of roles and
// attaches their profile. It must run after one of the verify middlewares.
func (a *Auth) RequireRoles(roles ...models.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, _ := authz.ClaimsFromContext(r.Context())
			profile, err := a.gate.Authorize(r.Context(), claims, roles...)
			if err != nil {
				respond.Error(w, err)
				return
			}
			next.ServeHTTP(w, r.WithContext(authz.WithProfile(r.Context(), profile)))
		})
	}
}
