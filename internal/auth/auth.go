package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"slices"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/giannis84/favorites-admin/internal/logging"
)

type contextKey string

const userIDKey contextKey = "userID"

// TokenCookie is the cookie checked when no Authorization header is sent,
// so the admin pages work from a plain browser session.
const TokenCookie = "admin_token"

// RightsClaim lists the administration rights granted by a token.
const RightsClaim = "rights"

// FavoritesManagementRight grants access to the favorites administration.
const FavoritesManagementRight = "FAVORITES_MANAGEMENT"

// AuthConfig selects how tokens are verified.
type AuthConfig struct {
	// Secret enables HS256 verification. It takes precedence over AllowUnsignedTokens.
	Secret string
	// AllowUnsignedTokens accepts alg=none tokens when no secret is set.
	// Intended for local development and tests only.
	AllowUnsignedTokens bool
}

// JWTMiddleware returns HTTP middleware that validates a JWT taken from the
// Authorization header or the admin_token cookie, checks that its rights
// claim holds requiredRight and places the "sub" claim into the request context.
func JWTMiddleware(cfg AuthConfig, requiredRight string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			tokenString, ok := extractToken(r)
			if !ok {
				http.Error(w, "missing or malformed credentials", http.StatusUnauthorized)
				return
			}

			claims, err := parseToken(tokenString, cfg)
			if err != nil {
				logging.Log(ctx).Layer("auth").Err(err).Warn("rejected token")
				http.Error(w, err.Error(), http.StatusUnauthorized)
				return
			}

			sub, err := claims.GetSubject()
			if err != nil || sub == "" {
				http.Error(w, "token missing sub claim", http.StatusUnauthorized)
				return
			}

			if requiredRight != "" && !hasRight(claims, requiredRight) {
				logging.Log(ctx).Layer("auth").User(sub).Str("right", requiredRight).Warn("missing admin right")
				http.Error(w, "insufficient rights", http.StatusForbidden)
				return
			}

			ctx = context.WithValue(ctx, userIDKey, sub)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UserIDFromContext returns the user ID stored by JWTMiddleware.
// Returns an empty string if no user ID is present.
func UserIDFromContext(ctx context.Context) string {
	v, _ := ctx.Value(userIDKey).(string)
	return v
}

// extractToken pulls the token from "Authorization: Bearer <token>",
// falling back to the admin_token cookie when no header is sent.
func extractToken(r *http.Request) (string, bool) {
	auth := r.Header.Get("Authorization")
	if auth == "" {
		cookie, err := r.Cookie(TokenCookie)
		if err != nil || cookie.Value == "" {
			return "", false
		}
		return cookie.Value, true
	}
	parts := strings.SplitN(auth, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	return parts[1], true
}

// parseToken validates the JWT string. With a secret HS256 is required;
// without one, alg=none is accepted only when explicitly allowed.
func parseToken(tokenString string, cfg AuthConfig) (jwt.MapClaims, error) {
	if cfg.Secret == "" {
		if !cfg.AllowUnsignedTokens {
			return nil, errors.New("no jwt secret configured and unsigned tokens are not allowed")
		}
		// Development mode: accept unsigned tokens only.
		token, _, err := jwt.NewParser().ParseUnverified(tokenString, jwt.MapClaims{})
		if err != nil {
			return nil, fmt.Errorf("invalid token: %w", err)
		}
		if token.Method.Alg() != "none" {
			return nil, errors.New("no jwt secret configured; only unsigned tokens (alg=none) are accepted")
		}
		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			return nil, errors.New("invalid token claims")
		}
		// ParseUnverified skips claim validation, so expiry is checked here.
		if err := jwt.NewValidator().Validate(claims); err != nil {
			return nil, fmt.Errorf("invalid token: %w", err)
		}
		return claims, nil
	}

	// Production mode: require HS256.
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (any, error) {
		return []byte(cfg.Secret), nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token claims")
	}
	return claims, nil
}

// hasRight accepts the rights claim as a JSON array or a space separated string.
func hasRight(claims jwt.MapClaims, right string) bool {
	switch v := claims[RightsClaim].(type) {
	case string:
		return slices.Contains(strings.Fields(v), right)
	case []any:
		for _, item := range v {
			if s, ok := item.(string); ok && s == right {
				return true
			}
		}
	}
	return false
}
