package memory

import (
	"net/http"
	"sync"

	"github.com/authgate-dev/authgate/internal/domain"
	internal_errors "github.com/authgate-dev/authgate/internal/errors"
	"golang.org/x/crypto/bcrypt"
)

// AccountStore keeps accounts in a process-local map keyed by Email.
// Reads take the shared lock so concurrent logins don't serialize; only
// SaveAccount takes the exclusive lock.
type AccountStore struct {
	mu       sync.RWMutex
	accounts map[domain.Email]domain.Account
}

func NewAccountStore() *AccountStore {
	return &AccountStore{accounts: make(map[domain.Email]domain.Account)}
}

// SaveAccount inserts a new account. Uniqueness is keyed purely on Email.
func (s *AccountStore) SaveAccount(account domain.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.accounts[account.Email]; exists {
		return internal_errors.New("User already exists", http.StatusConflict)
	}
	s.accounts[account.Email] = account
	return nil
}

// Account returns a copy of the stored account.
func (s *AccountStore) Account(email domain.Email) (domain.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	account, exists := s.accounts[email]
	if !exists {
		return domain.Account{}, internal_errors.New("User not found", http.StatusNotFound)
	}
	return account, nil
}

// ValidateCredentials checks the supplied password against the stored hash.
// The bcrypt comparison runs outside the lock; it is the expensive part and
// needs no store access.
func (s *AccountStore) ValidateCredentials(email domain.Email, password domain.Password) error {
	s.mu.RLock()
	account, exists := s.accounts[email]
	s.mu.RUnlock()

	if !exists {
		return internal_errors.New("User not found", http.StatusNotFound)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(account.PassHash), []byte(password.Raw())); err != nil {
		return internal_errors.New("Invalid credentials", http.StatusUnauthorized)
	}
	return nil
}
