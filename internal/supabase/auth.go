package supabase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/golang-jwt/jwt/v5"

	"familyhub/internal/models"
)

// ErrInvalidToken is returned when an access token cannot be verified
var ErrInvalidToken = errors.New("invalid access token")

// AuthClient verifies access tokens issued by Supabase Auth
type AuthClient struct {
	client *Client
}

// VerifyToken resolves an access token to a user. Tokens are checked locally
// with the project JWT secret when one is configured; otherwise, or when the
// local check fails, the Auth API is asked.
func (a *AuthClient) VerifyToken(ctx context.Context, token string) (*models.AuthUser, error) {
	if token == "" {
		return nil, ErrInvalidToken
	}

	if a.client.config.JWTSecret != "" {
		if user, err := a.verifyLocal(token); err == nil {
			return user, nil
		}
	}

	return a.GetUser(ctx, token)
}

func (a *AuthClient) verifyLocal(token string) (*models.AuthUser, error) {
	claims := jwt.MapClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(a.client.config.JWTSecret), nil
	}, jwt.WithExpirationRequired())
	if err != nil {
		return nil, fmt.Errorf("jwt parse: %w", err)
	}
	if !parsed.Valid {
		return nil, ErrInvalidToken
	}

	sub, err := claims.GetSubject()
	if err != nil || sub == "" {
		return nil, ErrInvalidToken
	}

	return &models.AuthUser{
		ID:    sub,
		Email: stringClaim(claims, "email"),
		Role:  stringClaim(claims, "role"),
	}, nil
}

// GetUser asks the Auth API who owns token
func (a *AuthClient) GetUser(ctx context.Context, token string) (*models.AuthUser, error) {
	respBody, statusCode, err := a.client.request(ctx, http.MethodGet, a.client.authURL+"/user", nil, nil, token)
	if err != nil {
		return nil, err
	}
	if statusCode == http.StatusUnauthorized || statusCode == http.StatusForbidden {
		return nil, ErrInvalidToken
	}
	if statusCode >= 400 {
		return nil, parseError(respBody, statusCode)
	}

	var user struct {
		ID    string `json:"id"`
		Email string `json:"email"`
		Role  string `json:"role"`
	}
	if err := json.Unmarshal(respBody, &user); err != nil {
		return nil, fmt.Errorf("unmarshal response: %w", err)
	}
	if user.ID == "" {
		return nil, ErrInvalidToken
	}

	return &models.AuthUser{ID: user.ID, Email: user.Email, Role: user.Role}, nil
}

func stringClaim(claims jwt.MapClaims, key string) string {
	if v, ok := claims[key].(string); ok {
		return v
	}
	return ""
}
