package handlers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"familyhub/internal/metrics"
	"familyhub/internal/models"
	"familyhub/internal/security"
)

// ContextKey is a custom type for context keys to avoid collisions
type ContextKey string

const (
	UserContextKey        ContextKey = "user"
	AccessTokenContextKey ContextKey = "access_token"
)

// TokenVerifier resolves an access token to the user it was issued to
type TokenVerifier interface {
	VerifyToken(ctx context.Context, token string) (*models.AuthUser, error)
}

// Middleware holds dependencies for middleware functions
type Middleware struct {
	verifier TokenVerifier
	csrf     *security.CSRFGenerator
	limiter  *security.RateLimiter
	loginURL string
}

// NewMiddleware creates a new middleware instance
func NewMiddleware(verifier TokenVerifier, csrf *security.CSRFGenerator, limiter *security.RateLimiter, loginURL string) *Middleware {
	return &Middleware{
		verifier: verifier,
		csrf:     csrf,
		limiter:  limiter,
		loginURL: loginURL,
	}
}

// RequireAuth is middleware that requires a valid access token. Browser
// page loads are redirected to the login URL; API calls get a 401.
func (m *Middleware) RequireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token, fromCookie := security.AccessToken(r)
		if token == "" {
			m.unauthorized(w, r, nil)
			return
		}

		user, err := m.verifier.VerifyToken(r.Context(), token)
		if err != nil {
			if fromCookie {
				http.SetCookie(w, security.CreateDeleteCookie(r, security.AccessTokenCookieName))
			}
			m.unauthorized(w, r, err)
			return
		}

		ctx := context.WithValue(r.Context(), UserContextKey, user)
		ctx = context.WithValue(ctx, AccessTokenContextKey, token)
		r = r.WithContext(ctx)

		// Cookies ride along on cross-site requests; bearer headers do not
		if fromCookie && !security.IsSafeMethod(r.Method) {
			if !m.csrf.ValidateToken(token, security.CSRFTokenFromRequest(r)) {
				respondWithError(w, http.StatusForbidden, ErrInvalidCSRF, "", nil)
				return
			}
		}

		next(w, r)
	}
}

func (m *Middleware) unauthorized(w http.ResponseWriter, r *http.Request, err error) {
	if wantsHTML(r) {
		http.Redirect(w, r, m.loginURL, http.StatusSeeOther)
		return
	}
	respondWithError(w, http.StatusUnauthorized, ErrUnauthorized, "Rejected access token", err)
}

// wantsHTML reports whether the request is a browser page load
func wantsHTML(r *http.Request) bool {
	return r.Method == http.MethodGet && strings.Contains(r.Header.Get("Accept"), "text/html")
}

// RateLimit is middleware that limits requests per client IP
func (m *Middleware) RateLimit(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !m.limiter.Allow(security.GetClientIP(r)) {
			w.Header().Set("Retry-After", "1")
			respondWithError(w, http.StatusTooManyRequests, ErrRateLimited, "", nil)
			return
		}
		next(w, r)
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// Logging middleware logs HTTP requests and records request metrics
func Logging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		done := metrics.TrackInFlight()
		defer done()

		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = security.NewRequestID()
		}
		w.Header().Set("X-Request-ID", requestID)

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		duration := time.Since(start)
		metrics.ObserveRequest(r.Method, r.Pattern, rec.status, duration)
		logrus.WithFields(logrus.Fields{
			"method":     r.Method,
			"path":       r.URL.Path,
			"status":     rec.status,
			"duration":   duration.String(),
			"request_id": requestID,
		}).Info("HTTP request")
	})
}

// GetUserFromContext retrieves the user from the request context
func GetUserFromContext(ctx context.Context) *models.AuthUser {
	user, ok := ctx.Value(UserContextKey).(*models.AuthUser)
	if !ok {
		return nil
	}
	return user
}

func accessTokenFromContext(ctx context.Context) string {
	token, _ := ctx.Value(AccessTokenContextKey).(string)
	return token
}
