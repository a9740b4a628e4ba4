package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/lendhub/leaddesk/pkg/auth"
	"github.com/lendhub/leaddesk/pkg/cache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func okHandler(c echo.Context) error {
	return c.String(http.StatusOK, "ok")
}

func serve(t *testing.T, h echo.HandlerFunc, header string) (*httptest.ResponseRecorder, echo.Context) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/leads", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	require.NoError(t, h(c))
	return rec, c
}

func token(t *testing.T, isAdmin bool) string {
	t.Helper()
	tok, err := auth.GenerateJWT("user-1", "staff@example.com", isAdmin, testSecret, 1)
	require.NoError(t, err)
	return tok
}

func TestJWTMiddleware_Errors(t *testing.T) {
	tests := []struct {
		name     string
		header   string
		wantCode string
	}{
		{"missing header", "", "missing_token"},
		{"wrong scheme", "Basic abc", "invalid_token_format"},
		{"no token", "Bearer ", "invalid_token_format"},
		{"garbage token", "Bearer not.a.jwt", "invalid_token"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, _ := serve(t, JWTMiddleware(testSecret)(okHandler), tt.header)
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.wantCode)
		})
	}
}

func TestJWTMiddleware_SetsIdentity(t *testing.T) {
	var got auth.Identity
	var fromCtx auth.Identity
	h := JWTMiddleware(testSecret)(func(c echo.Context) error {
		got, _ = IdentityFrom(c)
		fromCtx, _ = auth.FromContext(c.Request().Context())
		return c.NoContent(http.StatusOK)
	})

	rec, c := serve(t, h, "Bearer "+token(t, true))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "user-1", got.UserID)
	assert.True(t, got.IsAdmin)
	assert.Equal(t, got, fromCtx)
	assert.NotEmpty(t, c.Get(ContextKeyToken))
	assert.IsType(t, time.Time{}, c.Get(ContextKeyTokenExp))
}

func TestJWTMiddleware_RevokedToken(t *testing.T) {
	mr := miniredis.RunT(t)
	client, err := cache.NewClient("redis://" + mr.Addr())
	require.NoError(t, err)
	defer client.Close()

	bl := auth.NewTokenBlacklist(client)
	tok := token(t, true)
	require.NoError(t, bl.Add(t.Context(), tok, time.Hour))

	rec, _ := serve(t, JWTMiddlewareWithBlacklist(testSecret, bl)(okHandler), "Bearer "+tok)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "revoked")
}

func TestRequireAdmin(t *testing.T) {
	chain := JWTMiddleware(testSecret)(RequireAdmin()(okHandler))

	rec, _ := serve(t, chain, "Bearer "+token(t, true))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, _ = serve(t, chain, "Bearer "+token(t, false))
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Body.String(), "access_denied")

	// without the JWT middleware there is no identity at all
	rec, _ = serve(t, RequireAdmin()(okHandler), "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRateLimiter(t *testing.T) {
	rl := NewRateLimiter(1, 2)
	defer rl.Stop()

	e := echo.New()
	e.POST("/apply", okHandler, rl.RateLimitMiddleware())

	send := func(ip string) int {
		req := httptest.NewRequest(http.MethodPost, "/apply", nil)
		req.Header.Set(echo.HeaderXRealIP, ip)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusOK, send("10.0.0.1"))
	assert.Equal(t, http.StatusOK, send("10.0.0.1"))
	assert.Equal(t, http.StatusTooManyRequests, send("10.0.0.1"))

	// other clients have their own bucket
	assert.Equal(t, http.StatusOK, send("10.0.0.2"))
}

func TestCORS(t *testing.T) {
	e := echo.New()
	e.Use(middleware.CORSWithConfig(CORSConfig([]string{"https://dashboard.example.com"})))
	e.GET("/test", okHandler)

	tests := []struct {
		origin  string
		allowed bool
	}{
		{"https://dashboard.example.com", true},
		{"https://evil.example.com", false},
		{"https://dashboard.example.com.evil.com", false},
	}

	for _, tt := range tests {
		t.Run(tt.origin, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/test", nil)
			req.Header.Set("Origin", tt.origin)
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, req)

			if tt.allowed {
				assert.Equal(t, tt.origin, rec.Header().Get("Access-Control-Allow-Origin"))
			} else {
				assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
			}
		})
	}
}

func TestSecurityHeaders(t *testing.T) {
	rec, _ := serve(t, SecurityHeaders(SecurityHeadersConfig{})(okHandler), "")
	assert.Contains(t, rec.Header().Get("Content-Security-Policy"), "default-src 'none'")
	assert.Equal(t, "strict-origin-when-cross-origin", rec.Header().Get("Referrer-Policy"))

	rec, _ = serve(t, SecurityHeaders(SecurityHeadersConfig{ReferrerPolicy: "no-referrer"})(okHandler), "")
	assert.Equal(t, "no-referrer", rec.Header().Get("Referrer-Policy"))
	assert.Contains(t, rec.Header().Get("Permissions-Policy"), "camera=()")
}
