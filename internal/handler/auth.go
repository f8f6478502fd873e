package handler

import (
	"net/http"

	internal_errors "github.com/authgate-dev/authgate/internal/errors"
)

const AccessTokenCookie = "accessToken"

func missingTokenError() error {
	return internal_errors.New("Missing token", http.StatusBadRequest)
}

type signupRequest struct {
	Email       string `validate:"required" json:"email"`
	Password    string `validate:"required" json:"password"`
	Requires2FA bool   `json:"requires2FA"`
}

type loginRequest struct {
	Email    string `validate:"required" json:"email"`
	Password string `validate:"required" json:"password"`
}

type verifyTokenRequest struct {
	Token string `validate:"required" json:"token"`
}

func (h *Handler) Signup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := loadAndValidateRequestBody(r, &req); err != nil {
		writeErrorAndStatusCode(w, err)
		return
	}

	if err := h.auth.Signup(req.Email, req.Password, req.Requires2FA); err != nil {
		writeErrorAndStatusCode(w, err)
		return
	}

	w.WriteHeader(http.StatusCreated)
	w.Write([]byte("User created successfully!"))
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := loadAndValidateRequestBody(r, &req); err != nil {
		writeErrorAndStatusCode(w, err)
		return
	}

	accessToken, err := h.auth.Login(req.Email, req.Password)
	if err != nil {
		writeErrorAndStatusCode(w, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Path:     "/",
		Name:     AccessTokenCookie,
		Value:    accessToken,
		MaxAge:   int(h.cfg.JwtTTL().Seconds()),
		HttpOnly: true,
		Secure:   h.cfg.Public.SecureCookies,
	})

	w.WriteHeader(http.StatusOK)
	w.Write([]byte("You logged in"))
}

// Logout bans the presented token. The cookie is cleared only after the
// ban took effect, so the client never keeps a still-usable token.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie(AccessTokenCookie)
	if err == http.ErrNoCookie {
		writeErrorAndStatusCode(w, missingTokenError())
		return
	} else if err != nil {
		writeErrorAndStatusCode(w, err)
		return
	}

	if err := h.auth.Logout(cookie.Value); err != nil {
		writeErrorAndStatusCode(w, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Path:     "/",
		Name:     AccessTokenCookie,
		Value:    "",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.cfg.Public.SecureCookies,
	})

	w.WriteHeader(http.StatusOK)
}

func (h *Handler) VerifyToken(w http.ResponseWriter, r *http.Request) {
	var req verifyTokenRequest
	if err := loadAndValidateRequestBody(r, &req); err != nil {
		writeErrorAndStatusCode(w, err)
		return
	}

	if err := h.auth.VerifyToken(req.Token); err != nil {
		writeErrorAndStatusCode(w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
}
