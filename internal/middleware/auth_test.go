package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"meetreg/internal/domain"
)

var testSecret = []byte("test-secret")

func signToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(testSecret)
	require.NoError(t, err)
	return token
}

func principalRecorder() (http.Handler, func() (domain.Principal, bool)) {
	var p domain.Principal
	var found bool
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p, found = domain.PrincipalFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})
	return h, func() (domain.Principal, bool) { return p, found }
}

func TestAuth_ValidToken(t *testing.T) {
	handler, getPrincipal := principalRecorder()
	token := signToken(t, jwt.MapClaims{
		"sub":  "42",
		"role": domain.RoleTeam,
		"exp":  time.Now().Add(time.Hour).Unix(),
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()

	Auth(testSecret)(handler).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	p, found := getPrincipal()
	require.True(t, found)
	assert.Equal(t, int64(42), p.TeamID)
	assert.Equal(t, domain.RoleTeam, p.Role)
	assert.False(t, p.Admin())
}

func TestAuth_AdminToken(t *testing.T) {
	handler, getPrincipal := principalRecorder()
	token := signToken(t, jwt.MapClaims{
		"sub":  "0",
		"role": domain.RoleAdmin,
		"exp":  time.Now().Add(time.Hour).Unix(),
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()

	Auth(testSecret)(handler).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	p, _ := getPrincipal()
	assert.True(t, p.Admin())
	assert.True(t, p.CanAccessTeam(99))
}

func TestAuth_Rejections(t *testing.T) {
	expired := signToken(t, jwt.MapClaims{
		"sub":  "42",
		"role": domain.RoleTeam,
		"exp":  time.Now().Add(-time.Hour).Unix(),
	})
	badRole := signToken(t, jwt.MapClaims{
		"sub":  "42",
		"role": "superuser",
		"exp":  time.Now().Add(time.Hour).Unix(),
	})
	badSub := signToken(t, jwt.MapClaims{
		"sub":  "not-a-number",
		"role": domain.RoleTeam,
		"exp":  time.Now().Add(time.Hour).Unix(),
	})

	tests := []struct {
		name   string
		header string
	}{
		{"no header", ""},
		{"not bearer", "Basic abc"},
		{"garbage token", "Bearer not.a.jwt"},
		{"expired token", "Bearer " + expired},
		{"unknown role", "Bearer " + badRole},
		{"non-numeric sub", "Bearer " + badSub},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rec := httptest.NewRecorder()

			Auth(testSecret)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
				t.Fatal("handler should not be called")
			})).ServeHTTP(rec, req)

			assert.Equal(t, http.StatusUnauthorized, rec.Code)
		})
	}
}

func TestRequireAdmin(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(domain.WithPrincipal(req.Context(), domain.Principal{Role: domain.RoleAdmin}))
	rec := httptest.NewRecorder()
	RequireAdmin(next).ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(domain.WithPrincipal(req.Context(), domain.Principal{TeamID: 1, Role: domain.RoleTeam}))
	rec = httptest.NewRecorder()
	RequireAdmin(next).ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = httptest.NewRecorder()
	RequireAdmin(next).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusForbidden, rec.Code, "no principal at all")
}
