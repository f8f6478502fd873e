package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/authgate-dev/authgate/internal/domain"
	internal_jwt "github.com/authgate-dev/authgate/internal/jwt"
	"github.com/authgate-dev/authgate/internal/storage/memory"
)

func issueToken(t *testing.T, svc *internal_jwt.Jwt, email string) string {
	t.Helper()
	parsed, err := domain.NewEmail(email)
	require.NoError(t, err)
	token, err := svc.NewToken(domain.Account{Email: parsed, Requires2FA: true})
	require.NoError(t, err)
	return token
}

func TestNeedAuth(t *testing.T) {
	jwtService := internal_jwt.New("secret", time.Hour)
	bans := memory.NewBannedTokenStore()

	var seenUser *AuthUser
	protected := NeedAuth(jwtService, bans)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seenUser = GetUserFromContext(r)
		w.WriteHeader(http.StatusOK)
	}))

	t.Run("no cookie", func(t *testing.T) {
		rr := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)

		protected.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("valid token passes user claims", func(t *testing.T) {
		seenUser = nil
		token := issueToken(t, jwtService, "user@test.com")
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.AddCookie(&http.Cookie{Name: accessTokenCookie, Value: token})
		rr := httptest.NewRecorder()

		protected.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		require.NotNil(t, seenUser)
		assert.Equal(t, "user@test.com", seenUser.Email)
		assert.True(t, seenUser.Requires2FA)
	})

	t.Run("banned token rejected despite valid signature", func(t *testing.T) {
		seenUser = nil
		token := issueToken(t, jwtService, "banned@test.com")
		require.NoError(t, bans.Ban(token))

		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.AddCookie(&http.Cookie{Name: accessTokenCookie, Value: token})
		rr := httptest.NewRecorder()

		protected.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
		assert.Nil(t, seenUser)
	})

	t.Run("garbage token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.AddCookie(&http.Cookie{Name: accessTokenCookie, Value: "garbage"})
		rr := httptest.NewRecorder()

		protected.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("wrong signing key", func(t *testing.T) {
		other := internal_jwt.New("other-secret", time.Hour)
		token := issueToken(t, other, "user@test.com")
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.AddCookie(&http.Cookie{Name: accessTokenCookie, Value: token})
		rr := httptest.NewRecorder()

		protected.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})
}
