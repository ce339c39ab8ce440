// Package middleware holds the Connect interceptors shared by every service.
package middleware

import (
	"context"
	"errors"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/tripsplit/internal/auth"
)

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

const (
	// UserIDKey is the context key for storing the authenticated owner ID.
	UserIDKey contextKey = "user_id"
	// EmailKey is the context key for storing the authenticated user's email.
	EmailKey contextKey = "email"
)

// DevOwnerHeader carries a raw owner ID when the development fallback is on.
const DevOwnerHeader = "X-Owner-Id"

// GetUserID extracts the owner ID from the context.
// Returns empty string if not found.
func GetUserID(ctx context.Context) string {
	userID, _ := ctx.Value(UserIDKey).(string)
	return userID
}

// GetEmail extracts the user email from the context.
// Returns empty string if not found or when the dev fallback was used.
func GetEmail(ctx context.Context) string {
	email, _ := ctx.Value(EmailKey).(string)
	return email
}

// WithUser returns a context carrying an authenticated identity.
func WithUser(ctx context.Context, userID, email string) context.Context {
	ctx = context.WithValue(ctx, UserIDKey, userID)
	return context.WithValue(ctx, EmailKey, email)
}

// AuthOption configures RequireAuth.
type AuthOption func(*authConfig)

type authConfig struct {
	devFallback bool
	public      map[string]bool
}

// WithDevFallback accepts DevOwnerHeader as the owner identity when no bearer
// token is sent. Never enable it in production.
func WithDevFallback(enabled bool) AuthOption {
	return func(c *authConfig) { c.devFallback = enabled }
}

// WithPublicProcedures lets the named procedures through without credentials.
// A valid token is still attached to the context when one is sent.
func WithPublicProcedures(procedures ...string) AuthOption {
	return func(c *authConfig) {
		if c.public == nil {
			c.public = make(map[string]bool)
		}
		for _, p := range procedures {
			c.public[p] = true
		}
	}
}

// RequireAuth returns an interceptor that validates JWT tokens and requires
// an authenticated owner. An invalid token is rejected even when the dev
// fallback is enabled.
func RequireAuth(jwtManager *auth.JWTManager, opts ...AuthOption) connect.UnaryInterceptorFunc {
	var cfg authConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			token, err := auth.BearerToken(req.Header().Get("Authorization"))
			if cfg.public[req.Spec().Procedure] {
				if err == nil {
					if claims, err := jwtManager.Validate(token); err == nil {
						ctx = WithUser(ctx, claims.UserID(), claims.Email)
					}
				}
				return next(ctx, req)
			}

			switch {
			case err == nil:
				claims, err := jwtManager.Validate(token)
				if err != nil {
					return nil, connect.NewError(connect.CodeUnauthenticated, err)
				}
				return next(WithUser(ctx, claims.UserID(), claims.Email), req)

			case errors.Is(err, auth.ErrMissingToken) && cfg.devFallback:
				if owner := strings.TrimSpace(req.Header().Get(DevOwnerHeader)); owner != "" {
					return next(WithUser(ctx, owner, ""), req)
				}
				return nil, connect.NewError(connect.CodeUnauthenticated, err)

			default:
				return nil, connect.NewError(connect.CodeUnauthenticated, err)
			}
		}
	}
}
