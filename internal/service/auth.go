package service

import (
	"net/http"

	"golang.org/x/crypto/bcrypt"

	"github.com/authgate-dev/authgate/internal/domain"
	internal_errors "github.com/authgate-dev/authgate/internal/errors"
	"github.com/authgate-dev/authgate/internal/logger"
)

type AuthService interface {
	Signup(email, password string, requires2FA bool) error
	Login(email, password string) (string, error)
	Logout(token string) error
	VerifyToken(token string) error
}

// AccountStorage is satisfied by the memory and postgres account stores.
type AccountStorage interface {
	SaveAccount(account domain.Account) error
	Account(email domain.Email) (domain.Account, error)
	ValidateCredentials(email domain.Email, password domain.Password) error
}

// TokenBanStorage is satisfied by the memory, postgres and redis ban stores.
type TokenBanStorage interface {
	Ban(token string) error
	IsBanned(token string) (bool, error)
}

type Jwt interface {
	NewToken(account domain.Account) (string, error)
	Validate(token string) (bool, error)
}

type Auth struct {
	accounts AccountStorage
	bans     TokenBanStorage
	jwt      Jwt
}

func NewAuth(accounts AccountStorage, bans TokenBanStorage, jwt Jwt) *Auth {
	return &Auth{
		accounts: accounts,
		bans:     bans,
		jwt:      jwt,
	}
}

// Signup parses raw credentials and registers a new account. Malformed
// input is rejected before the store is touched.
func (a *Auth) Signup(email, password string, requires2FA bool) error {
	parsedEmail, err := domain.NewEmail(email)
	if err != nil {
		return err
	}
	parsedPassword, err := domain.NewPassword(password)
	if err != nil {
		return err
	}

	passHash, err := bcrypt.GenerateFromPassword([]byte(parsedPassword.Raw()), bcrypt.DefaultCost)
	if err != nil {
		logger.Log.Error("failed to hash password", "error", err)
		return internal_errors.New("Unexpected error", http.StatusInternalServerError)
	}

	account := domain.Account{
		Email:       parsedEmail,
		PassHash:    string(passHash),
		Requires2FA: requires2FA,
	}
	return a.accounts.SaveAccount(account)
}

// Login validates credentials and returns a freshly issued access token.
// An unknown email reports the same "Invalid credentials" as a wrong
// password, to not leak which emails are registered.
func (a *Auth) Login(email, password string) (string, error) {
	parsedEmail, err := domain.NewEmail(email)
	if err != nil {
		return "", err
	}
	parsedPassword, err := domain.NewPassword(password)
	if err != nil {
		return "", err
	}

	if err := a.accounts.ValidateCredentials(parsedEmail, parsedPassword); err != nil {
		if internal_errors.IsNotFound(err) || internal_errors.IsUnauthorized(err) {
			return "", internal_errors.New("Invalid credentials", http.StatusUnauthorized)
		}
		return "", err
	}

	account, err := a.accounts.Account(parsedEmail)
	if err != nil {
		logger.Log.Error("account vanished after credential check", "email", parsedEmail.String(), "error", err)
		return "", internal_errors.New("Unexpected error", http.StatusInternalServerError)
	}

	token, err := a.jwt.NewToken(account)
	if err != nil {
		logger.Log.Error("failed to create access token", "email", parsedEmail.String(), "error", err)
		return "", internal_errors.New("Unexpected error", http.StatusInternalServerError)
	}
	return token, nil
}

// Logout invalidates a previously issued token. Only a verifiable token
// can be banned; verification happens before any store lock is taken.
func (a *Auth) Logout(token string) error {
	if token == "" {
		return internal_errors.New("Missing token", http.StatusBadRequest)
	}

	valid, err := a.jwt.Validate(token)
	if err != nil || !valid {
		return internal_errors.New("Invalid token", http.StatusUnauthorized)
	}

	if err := a.bans.Ban(token); err != nil {
		logger.Log.Error("failed to ban token", "error", err)
		return internal_errors.New("Unexpected error", http.StatusInternalServerError)
	}
	return nil
}

// VerifyToken answers whether a token is still usable. Ban status is
// checked first: a banned token stays rejected even though it would still
// pass signature verification.
func (a *Auth) VerifyToken(token string) error {
	banned, err := a.bans.IsBanned(token)
	if err != nil {
		logger.Log.Error("failed to check token ban status", "error", err)
		return internal_errors.New("Unexpected error", http.StatusInternalServerError)
	}
	if banned {
		return internal_errors.New("Invalid access token", http.StatusUnauthorized)
	}

	valid, err := a.jwt.Validate(token)
	if err != nil || !valid {
		return internal_errors.New("Invalid access token", http.StatusUnauthorized)
	}
	return nil
}
