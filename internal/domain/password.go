package domain

import (
	"net/http"
	"unicode/utf8"

	internal_errors "github.com/authgate-dev/authgate/internal/errors"
)

const minPasswordLength = 8

// Password is a validated raw credential. It exists only between request
// parsing and hashing/comparison; it is never stored or logged.
type Password struct {
	value string
}

func NewPassword(raw string) (Password, error) {
	if utf8.RuneCountInString(raw) < minPasswordLength {
		return Password{}, internal_errors.New("Password must be at least 8 characters long", http.StatusBadRequest)
	}
	return Password{value: raw}, nil
}

// Raw exposes the underlying string for hashing and credential comparison.
func (p Password) Raw() string {
	return p.value
}
