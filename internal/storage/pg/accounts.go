package pg

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/lib/pq"
	"golang.org/x/crypto/bcrypt"

	"github.com/authgate-dev/authgate/internal/domain"
	internal_errors "github.com/authgate-dev/authgate/internal/errors"
)

const uniqueViolation = "23505"

// SaveAccount inserts a new account. The unique constraint on email is the
// single source of truth for duplicates, so concurrent signups for the same
// email resolve to exactly one winner.
func (s *Storage) SaveAccount(account domain.Account) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	return s.withTx(ctx, func(tx *sql.Tx) error {
		return s.saveAccount(tx, account)
	})
}

// Account is a read-only lookup by email. It uses the main connection pool.
func (s *Storage) Account(email domain.Email) (domain.Account, error) {
	return s.account(s.db, email)
}

// ValidateCredentials checks the supplied password against the stored hash.
func (s *Storage) ValidateCredentials(email domain.Email, password domain.Password) error {
	account, err := s.account(s.db, email)
	if err != nil {
		return err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(account.PassHash), []byte(password.Raw())); err != nil {
		return internal_errors.New("Invalid credentials", http.StatusUnauthorized)
	}
	return nil
}

func (s *Storage) saveAccount(q Querier, account domain.Account) error {
	_, err := q.Exec("INSERT INTO accounts(email, password_hash, requires_2fa) VALUES($1, $2, $3)",
		account.Email.String(), account.PassHash, account.Requires2FA)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && string(pqErr.Code) == uniqueViolation {
			return internal_errors.New("User already exists", http.StatusConflict)
		}
		return fmt.Errorf("failed to insert account: %w", err)
	}
	return nil
}

func (s *Storage) account(q Querier, email domain.Email) (domain.Account, error) {
	var (
		rawEmail    string
		passHash    string
		requires2FA bool
	)
	err := q.QueryRow("SELECT email, password_hash, requires_2fa FROM accounts WHERE email = $1",
		email.String()).Scan(&rawEmail, &passHash, &requires2FA)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Account{}, internal_errors.New("User not found", http.StatusNotFound)
		}
		return domain.Account{}, fmt.Errorf("failed to query account: %w", err)
	}

	parsedEmail, err := domain.NewEmail(rawEmail)
	if err != nil {
		return domain.Account{}, fmt.Errorf("stored email is malformed: %w", err)
	}
	return domain.Account{Email: parsedEmail, PassHash: passHash, Requires2FA: requires2FA}, nil
}
