// Package middleware provides HTTP middleware for authentication, request
// identification, and rate limiting.
package middleware

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"meetreg/internal/domain"
)

// Auth returns middleware that authenticates requests with an HS256 Bearer
// token issued by the auth service. The token's sub claim carries the team id
// and role carries the principal role; on success the principal is stored in
// the request context. Returns 401 on any failure.
func Auth(secret []byte) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			auth := r.Header.Get("Authorization")
			if !strings.HasPrefix(auth, "Bearer ") {
				writeUnauthorized(w, "missing bearer token")
				return
			}

			token, err := jwt.Parse(strings.TrimPrefix(auth, "Bearer "), func(*jwt.Token) (interface{}, error) {
				return secret, nil
			}, jwt.WithValidMethods([]string{"HS256"}))
			if err != nil || !token.Valid {
				writeUnauthorized(w, "invalid or expired token")
				return
			}

			claims, ok := token.Claims.(jwt.MapClaims)
			if !ok {
				writeUnauthorized(w, "invalid token claims")
				return
			}
			p, ok := principalFromClaims(claims)
			if !ok {
				writeUnauthorized(w, "invalid token claims")
				return
			}

			next.ServeHTTP(w, r.WithContext(domain.WithPrincipal(r.Context(), p)))
		})
	}
}

// RequireAdmin rejects non-admin principals with 403. Must run after Auth.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p, ok := domain.PrincipalFromContext(r.Context())
		if !ok || !p.Admin() {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusForbidden)
			_ = json.NewEncoder(w).Encode(map[string]interface{}{
				"code":    http.StatusForbidden,
				"message": "admin role required",
			})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func principalFromClaims(claims jwt.MapClaims) (domain.Principal, bool) {
	sub, ok := claims["sub"].(string)
	if !ok || sub == "" {
		return domain.Principal{}, false
	}
	teamID, err := strconv.ParseInt(sub, 10, 64)
	if err != nil {
		return domain.Principal{}, false
	}
	role, ok := claims["role"].(string)
	if !ok {
		return domain.Principal{}, false
	}
	switch role {
	case domain.RoleTeam, domain.RoleAdmin:
		return domain.Principal{TeamID: teamID, Role: role}, true
	}
	return domain.Principal{}, false
}

func writeUnauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"code":    http.StatusUnauthorized,
		"message": message,
	})
}
