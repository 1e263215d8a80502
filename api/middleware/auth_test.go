package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgauth "github.com/fuelflow/fuelops-backend/pkg/auth"
	"github.com/fuelflow/fuelops-backend/pkg/config"
)

func jwtTestConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:            "test-secret",
		Issuer:            "fuelops-test",
		ExpirationMinutes: 10,
	}
}

func mintToken(t *testing.T, cfg config.JWTConfig, perms []string) string {
	t.Helper()
	signed, err := pkgauth.MintAccessToken(cfg, time.Now(), pkgauth.AccessTokenPayload{
		UserID:      uuid.New(),
		Role:        "ops_manager",
		Permissions: perms,
	})
	require.NoError(t, err)
	return signed
}

func TestAuthSeedsContext(t *testing.T) {
	cfg := jwtTestConfig()
	token := mintToken(t, cfg, []string{pkgauth.PermOrdersRead})

	var gotUserID, gotRole string
	var gotPerms []string
	handler := Auth(cfg, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUserID = UserIDFromContext(r.Context())
		gotRole = RoleFromContext(r.Context())
		gotPerms = PermissionsFromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.NotEmpty(t, gotUserID)
	assert.Equal(t, "ops_manager", gotRole)
	assert.Equal(t, []string{pkgauth.PermOrdersRead}, gotPerms)
}

func TestAuthRejectsMissingAndInvalidTokens(t *testing.T) {
	cfg := jwtTestConfig()
	handler := Auth(cfg, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run")
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequirePermission(t *testing.T) {
	cfg := jwtTestConfig()
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	chain := Auth(cfg, nil)(RequirePermission(pkgauth.PermOrdersWrite, nil)(next))

	readOnly := mintToken(t, cfg, []string{pkgauth.PermOrdersRead})
	req := httptest.NewRequest(http.MethodPost, "/", nil)
	req.Header.Set("Authorization", "Bearer "+readOnly)
	rec := httptest.NewRecorder()
	chain.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	writer := mintToken(t, cfg, []string{pkgauth.PermOrdersRead, pkgauth.PermOrdersWrite})
	req = httptest.NewRequest(http.MethodPost, "/", nil)
	req.Header.Set("Authorization", "Bearer "+writer)
	rec = httptest.NewRecorder()
	chain.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}
