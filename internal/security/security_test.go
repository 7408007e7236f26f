package security

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCSRFTokenRoundTrip(t *testing.T) {
	g := NewCSRFGenerator("secret")

	token, err := g.GenerateToken("access-1")
	require.NoError(t, err)
	assert.True(t, g.ValidateToken("access-1", token))
	assert.False(t, g.ValidateToken("access-2", token))
	assert.False(t, g.ValidateToken("access-1", ""))
	assert.False(t, NewCSRFGenerator("other").ValidateToken("access-1", token))

	_, err = g.GenerateToken("")
	assert.Error(t, err)
}

func TestCSRFTokenFromRequest(t *testing.T) {
	r := httptest.NewRequest(http.MethodPost, "/", nil)
	r.Header.Set(CSRFHeaderName, "from-header")
	assert.Equal(t, "from-header", CSRFTokenFromRequest(r))

	r = httptest.NewRequest(http.MethodPost, "/", strings.NewReader("csrf_token=from-form"))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	assert.Equal(t, "from-form", CSRFTokenFromRequest(r))
}

func TestIsSafeMethod(t *testing.T) {
	assert.True(t, IsSafeMethod(http.MethodGet))
	assert.True(t, IsSafeMethod(http.MethodHead))
	assert.False(t, IsSafeMethod(http.MethodPost))
	assert.False(t, IsSafeMethod(http.MethodDelete))
}

func TestRateLimiterBurstAndRefill(t *testing.T) {
	now := time.Unix(1000, 0)
	rl := NewRateLimiter(1, 2)
	rl.now = func() time.Time { return now }

	assert.True(t, rl.Allow("a"))
	assert.True(t, rl.Allow("a"))
	assert.False(t, rl.Allow("a"), "burst exhausted")
	assert.True(t, rl.Allow("b"), "clients are limited independently")

	now = now.Add(time.Second)
	assert.True(t, rl.Allow("a"), "one token refilled")
	assert.False(t, rl.Allow("a"))
}

func TestRateLimiterCleanup(t *testing.T) {
	now := time.Unix(1000, 0)
	rl := NewRateLimiter(1, 1)
	rl.now = func() time.Time { return now }

	rl.Allow("old")
	now = now.Add(time.Hour)
	rl.Allow("new")

	assert.Equal(t, 1, rl.Cleanup(30*time.Minute))
	assert.Len(t, rl.visitors, 1)
}

func TestGetClientIP(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.RemoteAddr = "10.0.0.1:5555"
	assert.Equal(t, "10.0.0.1", GetClientIP(r))

	r.Header.Set("X-Real-IP", "10.0.0.2")
	assert.Equal(t, "10.0.0.2", GetClientIP(r))

	r.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.3")
	assert.Equal(t, "203.0.113.7", GetClientIP(r))
}

func TestAccessToken(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	token, fromCookie := AccessToken(r)
	assert.Empty(t, token)
	assert.False(t, fromCookie)

	r.AddCookie(&http.Cookie{Name: AccessTokenCookieName, Value: "cookie-token"})
	token, fromCookie = AccessToken(r)
	assert.Equal(t, "cookie-token", token)
	assert.True(t, fromCookie)

	r.Header.Set("Authorization", "bearer header-token")
	token, fromCookie = AccessToken(r)
	assert.Equal(t, "header-token", token)
	assert.False(t, fromCookie)

	r.Header.Set("Authorization", "Basic abc")
	token, fromCookie = AccessToken(r)
	assert.Equal(t, "cookie-token", token)
	assert.True(t, fromCookie)
}

func TestCreateDeleteCookie(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("X-Forwarded-Proto", "https")

	c := CreateDeleteCookie(r, AccessTokenCookieName)
	assert.Equal(t, -1, c.MaxAge)
	assert.True(t, c.Secure)
	assert.NotEmpty(t, NewRequestID())
}
