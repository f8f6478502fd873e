package middleware

import (
	"context"
	"net/http"

	"github.com/golang-jwt/jwt/v5"

	internal_jwt "github.com/authgate-dev/authgate/internal/jwt"
	"github.com/authgate-dev/authgate/internal/logger"
	"github.com/authgate-dev/authgate/internal/service"
	"github.com/authgate-dev/authgate/internal/utils"
)

const accessTokenCookie = "accessToken"

// Key to store the user claims in the request context
type key int

const userClaimsKey key = 0

// AuthUser is the authenticated identity extracted from token claims.
type AuthUser struct {
	Email       string
	Requires2FA bool
}

// NeedAuth guards a route with cookie-token authentication. Ban status is
// checked before the token is decoded, so a banned token is rejected even
// while its signature and expiry would still pass.
func NeedAuth(jwtService internal_jwt.TokenService, bans service.TokenBanStorage) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			accessCookie, err := r.Cookie(accessTokenCookie)
			if err == http.ErrNoCookie {
				http.Error(w, "Please sign-in", http.StatusUnauthorized)
				return
			} else if err != nil {
				logger.Log.Error("failed to read access cookie", "error", err)
				http.Error(w, "Invalid cookie", http.StatusInternalServerError)
				return
			}

			banned, err := bans.IsBanned(accessCookie.Value)
			if err != nil {
				logger.Log.Error("failed to check token ban status", "error", err)
				http.Error(w, "Unexpected error", http.StatusInternalServerError)
				return
			}
			if banned {
				http.Error(w, "Invalid access token", http.StatusUnauthorized)
				return
			}

			token, err := jwtService.DecodeToken(accessCookie.Value)
			if err != nil {
				utils.WriteErrorAndStatusCode(w, err)
				return
			}

			claims, ok := token.Claims.(jwt.MapClaims)
			if !ok {
				http.Error(w, "Invalid access token", http.StatusUnauthorized)
				return
			}
			email, ok := claims["sub"].(string)
			if !ok {
				http.Error(w, "Invalid access token", http.StatusUnauthorized)
				return
			}
			requires2FA, _ := claims["requires_2fa"].(bool)

			user := &AuthUser{Email: email, Requires2FA: requires2FA}
			ctx := context.WithValue(r.Context(), userClaimsKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetUserFromContext retrieves the authenticated user, or nil when the
// request did not pass NeedAuth.
func GetUserFromContext(r *http.Request) *AuthUser {
	user, ok := r.Context().Value(userClaimsKey).(*AuthUser)
	if !ok {
		return nil
	}
	return user
}
