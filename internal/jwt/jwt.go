package jwt

import (
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/authgate-dev/authgate/internal/domain"
	internal_errors "github.com/authgate-dev/authgate/internal/errors"
	"github.com/authgate-dev/authgate/internal/logger"
)

// TokenService is the token issuance/verification capability consumed by
// the auth workflow and middleware. The rest of the system treats tokens
// as opaque strings.
type TokenService interface {
	NewToken(account domain.Account) (string, error)
	DecodeToken(jwtStr string) (*jwt.Token, error)
	Validate(jwtStr string) (bool, error)
}

type Jwt struct {
	secretKey string
	ttl       time.Duration
}

func New(secretKey string, ttl time.Duration) *Jwt {
	return &Jwt{secretKey, ttl}
}

// NewToken issues a signed HS256 token for the account. Every token gets
// its own jti so two logins for the same account produce distinct,
// individually bannable tokens.
func (j *Jwt) NewToken(account domain.Account) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":          account.Email.String(),
		"requires_2fa": account.Requires2FA,
		"jti":          uuid.NewString(),
		"iat":          now.Unix(),
		"exp":          now.Add(j.ttl).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(j.secretKey))
	if err != nil {
		logger.Log.Error("failed to sign token", "error", err)
		return "", internal_errors.New("Can't create token", http.StatusInternalServerError)
	}

	return tokenString, nil
}

// DecodeToken parses and verifies jwtStr, returning the parsed token for
// claim extraction. Any failure maps to 401.
func (j *Jwt) DecodeToken(jwtStr string) (*jwt.Token, error) {
	token, err := jwt.Parse(jwtStr, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, internal_errors.New(fmt.Sprintf("Unexpected signing method: %v", token.Header["alg"]), http.StatusUnauthorized)
		}
		return []byte(j.secretKey), nil
	})
	if err != nil {
		return nil, internal_errors.New("Invalid token signature", http.StatusUnauthorized)
	}
	if !token.Valid {
		return nil, internal_errors.New("Invalid access token", http.StatusUnauthorized)
	}
	return token, nil
}

// Validate answers whether jwtStr is structurally and cryptographically
// valid, independent of ban status. A malformed, tampered or expired token
// is a negative answer, not an error; the error arm is reserved for
// infrastructure failures and never fires for the HMAC scheme.
func (j *Jwt) Validate(jwtStr string) (bool, error) {
	if _, err := j.DecodeToken(jwtStr); err != nil {
		return false, nil
	}
	return true, nil
}
