package pg

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/lib/pq"

	internal_errors "github.com/authgate-dev/authgate/internal/errors"
)

// Ban records a token as invalidated. The primary key on token makes a
// repeated ban fail with a conflict, so exactly one concurrent ban wins.
func (s *Storage) Ban(token string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	return s.withTx(ctx, func(tx *sql.Tx) error {
		return s.ban(tx, token)
	})
}

// IsBanned reports whether the token has been invalidated.
func (s *Storage) IsBanned(token string) (bool, error) {
	return s.isBanned(s.db, token)
}

func (s *Storage) ban(q Querier, token string) error {
	_, err := q.Exec("INSERT INTO banned_tokens(token) VALUES($1)", token)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && string(pqErr.Code) == uniqueViolation {
			return internal_errors.New("Token already banned", http.StatusConflict)
		}
		return fmt.Errorf("failed to insert banned token: %w", err)
	}
	return nil
}

func (s *Storage) isBanned(q Querier, token string) (bool, error) {
	var banned bool
	err := q.QueryRow("SELECT EXISTS(SELECT 1 FROM banned_tokens WHERE token = $1)", token).Scan(&banned)
	if err != nil {
		return false, fmt.Errorf("failed to query banned token: %w", err)
	}
	return banned, nil
}
