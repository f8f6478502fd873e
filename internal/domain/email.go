package domain

import (
	"net/http"
	"net/mail"
	"strings"

	internal_errors "github.com/authgate-dev/authgate/internal/errors"
)

// Email is a validated, normalized email address. The zero value is not
// valid; the only way to obtain an Email is through NewEmail. Accounts are
// keyed by Email, so equality is structural on the normalized string.
type Email struct {
	value string
}

// NewEmail validates raw and returns the normalized (lowercased) address.
// Surrounding whitespace is rejected rather than trimmed.
func NewEmail(raw string) (Email, error) {
	if strings.TrimSpace(raw) == "" {
		return Email{}, internal_errors.New("Email is empty", http.StatusBadRequest)
	}
	if raw != strings.TrimSpace(raw) || strings.ContainsAny(raw, " \t\r\n") {
		return Email{}, internal_errors.New("Invalid email format", http.StatusBadRequest)
	}
	if _, err := mail.ParseAddress(raw); err != nil {
		return Email{}, internal_errors.New("Invalid email format", http.StatusBadRequest)
	}
	at := strings.LastIndex(raw, "@")
	if at <= 0 || at == len(raw)-1 {
		return Email{}, internal_errors.New("Invalid email format", http.StatusBadRequest)
	}
	domain := raw[at+1:]
	if !strings.Contains(strings.Trim(domain, "."), ".") {
		return Email{}, internal_errors.New("Invalid email format", http.StatusBadRequest)
	}
	return Email{value: strings.ToLower(raw)}, nil
}

func (e Email) String() string {
	return e.value
}
