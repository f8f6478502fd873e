package memory

import (
	"net/http"
	"sync"

	internal_errors "github.com/authgate-dev/authgate/internal/errors"
)

// BannedTokenStore is a process-local set of invalidated tokens. A token,
// once banned, stays banned for the lifetime of the store; there is no
// un-ban operation.
type BannedTokenStore struct {
	mu     sync.RWMutex
	tokens map[string]struct{}
}

func NewBannedTokenStore() *BannedTokenStore {
	return &BannedTokenStore{tokens: make(map[string]struct{})}
}

// Ban adds token to the set. Banning a token twice is reported, not
// silently ignored.
func (s *BannedTokenStore) Ban(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, banned := s.tokens[token]; banned {
		return internal_errors.New("Token already banned", http.StatusConflict)
	}
	s.tokens[token] = struct{}{}
	return nil
}

// IsBanned reports membership. The error return exists for fallible
// backends; the in-memory set never fails.
func (s *BannedTokenStore) IsBanned(token string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, banned := s.tokens[token]
	return banned, nil
}
