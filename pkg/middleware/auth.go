package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
)

type contextKeyType string

const identityKey contextKeyType = "identity"

// Identity is the authenticated caller extracted by the auth middleware.
// Admin tokens carry no username.
type Identity struct {
	Username string
	IsAdmin  bool
}

// TokenValidator validates a bearer token and returns the caller identity.
// Services inject their own validation logic (JWT, static admin token).
type TokenValidator func(token string) (*Identity, error)

// Auth validates bearer tokens and injects the caller identity into context.
func Auth(validate TokenValidator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				writeJSONError(w, http.StatusUnauthorized, "UNAUTHORIZED", "missing authorization header")
				return
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				writeJSONError(w, http.StatusUnauthorized, "UNAUTHORIZED", "invalid authorization header format")
				return
			}

			identity, err := validate(parts[1])
			if err != nil {
				writeJSONError(w, http.StatusUnauthorized, "UNAUTHORIZED", "invalid or expired token")
				return
			}

			ctx := context.WithValue(r.Context(), identityKey, identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAdmin rejects callers whose identity is not an admin. Mount after
// Auth.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity := IdentityFromContext(r.Context())
		if identity == nil || !identity.IsAdmin {
			writeJSONError(w, http.StatusForbidden, "FORBIDDEN", "insufficient privileges")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireSelfOrAdmin rejects callers who are neither an admin nor the owner
// of the username addressed by the request. The username is extracted by
// the given function, typically a chi URL param lookup.
func RequireSelfOrAdmin(usernameFromRequest func(r *http.Request) string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity := IdentityFromContext(r.Context())
			if identity == nil {
				writeJSONError(w, http.StatusUnauthorized, "UNAUTHORIZED", "authentication required")
				return
			}
			if !identity.IsAdmin && identity.Username != usernameFromRequest(r) {
				writeJSONError(w, http.StatusForbidden, "FORBIDDEN", "insufficient privileges")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// IdentityFromContext extracts the caller identity, or nil when the request
// did not pass through Auth.
func IdentityFromContext(ctx context.Context) *Identity {
	if id, ok := ctx.Value(identityKey).(*Identity); ok {
		return id
	}
	return nil
}

// UsernameFromContext extracts the authenticated username, or "".
func UsernameFromContext(ctx context.Context) string {
	if id := IdentityFromContext(ctx); id != nil {
		return id.Username
	}
	return ""
}

func writeJSONError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]map[string]string{
		"error": {
			"code":    code,
			"message": message,
		},
	})
}
