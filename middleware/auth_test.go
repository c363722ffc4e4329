package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/shivanand-vn/SVPharma-sub001/utils"
)

func init() {
	utils.JwtKey = []byte("test-secret")
}

func authedRequest(t *testing.T, email, role string) *http.Request {
	t.Helper()
	token, err := utils.GenerateJWT(email, role)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodGet, "/profile", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	return req
}

func TestAuthMiddlewareMissingHeader(t *testing.T) {
	handler := AuthMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not be reached")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/profile", nil))
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthMiddlewareBadFormat(t *testing.T) {
	handler := AuthMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not be reached")
	}))

	req := httptest.NewRequest(http.MethodGet, "/profile", nil)
	req.Header.Set("Authorization", "Token abc")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthMiddlewareAttachesClaims(t *testing.T) {
	called := false
	handler := AuthMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		claims, ok := ClaimsFromRequest(r)
		require.True(t, ok)
		require.Equal(t, "asha@citypharmacy.in", claims.Email)
		require.Equal(t, "customer", claims.Role)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, authedRequest(t, "asha@citypharmacy.in", "customer"))
	require.True(t, called)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestAdminMiddlewareRejectsCustomer(t *testing.T) {
	handler := AuthMiddleware(AdminMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not be reached")
	})))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, authedRequest(t, "asha@citypharmacy.in", "customer"))
	require.Equal(t, http.StatusForbidden, rec.Code)
}

func TestAdminMiddlewareAllowsAdmin(t *testing.T) {
	called := false
	handler := AuthMiddleware(AdminMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	})))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, authedRequest(t, "ops@svpharma.in", "admin"))
	require.True(t, called)
}
