// Package rbac gates routes by the role claim of the authenticated user.
package rbac

import (
	"net/http"

	"github.com/shashiranjanraj/unistore/pkg/apperr"
	"github.com/shashiranjanraj/unistore/pkg/auth"
	"github.com/shashiranjanraj/unistore/pkg/response"
)

// RoleResolver returns the current role of a user. The token's role claim
// is used when no resolver is configured.
type RoleResolver interface {
	RoleOf(r *http.Request, userID string) (string, error)
}

// HasRole allows only users holding one of roles. It must run after
// middleware.Auth.
func HasRole(resolver RoleResolver, roles ...string) func(http.Handler) http.Handler {
	allowed := make(map[string]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, ok := auth.FromContext(r.Context())
			if !ok {
				response.Fail(w, r, apperr.Unauthenticated("missing bearer token"))
				return
			}

			role := claims.Role
			if resolver != nil {
				current, err := resolver.RoleOf(r, claims.UserID())
				if err != nil && !apperr.Is(err, apperr.KindNotFound) {
					response.Fail(w, r, err)
					return
				}
				if err == nil {
					role = current
				}
			}

			if !allowed[role] {
				response.Fail(w, r, apperr.Forbidden("you do not have access to this resource"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// Active rejects users whose account the resolver reports as disabled.
// Users the resolver has never seen pass. It must run after middleware.Auth.
func Active(resolver RoleResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, ok := auth.FromContext(r.Context())
			if !ok {
				response.Fail(w, r, apperr.Unauthenticated("missing bearer token"))
				return
			}
			if resolver != nil {
				if _, err := resolver.RoleOf(r, claims.UserID()); err != nil && !apperr.Is(err, apperr.KindNotFound) {
					response.Fail(w, r, err)
					return
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}
