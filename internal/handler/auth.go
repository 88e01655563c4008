package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/pkordes/voya/internal/domain"
	"github.com/pkordes/voya/internal/service"
)

// VerificationRequest is the body of POST /auth/verification.
type VerificationRequest struct {
	Email string `json:"email"`
}

// VerificationResponse confirms that a verification link was sent.
type VerificationResponse struct {
	Email   string `json:"email"`
	Message string `json:"message"`
}

// VerifiedEmail is the body of GET /auth/verify-email/{token}. Token is
// passed back to POST /auth/register to finish sign-up.
type VerifiedEmail struct {
	Email string `json:"email"`
	Token string `json:"token"`
}

// RegisterRequest is the body of POST /auth/register.
type RegisterRequest struct {
	Token           string `json:"token"`
	Username        string `json:"username"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
}

// LoginRequest is the body of POST /auth/login. Identifier is a username
// or an email address.
type LoginRequest struct {
	Identifier string `json:"identifier"`
	Password   string `json:"password"`
}

// Session is the body returned by register and login.
type Session struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	UserID    int64     `json:"user_id"`
	Username  string    `json:"username"`
}

// RequestVerification handles POST /auth/verification.
func (s *Server) RequestVerification(w http.ResponseWriter, r *http.Request) {
	var body VerificationRequest
	if !decodeJSON(w, r, &body) {
		return
	}
	email, err := s.accounts.RequestVerification(r.Context(), body.Email)
	s.opts.Metrics.AuthAttempt("verification", err == nil)
	if err != nil {
		respondErr(w, r, err, "account not found")
		return
	}
	writeJSON(w, http.StatusAccepted, VerificationResponse{
		Email:   email,
		Message: "verification email sent",
	})
}

// VerifyEmail handles GET /auth/verify-email/{token}.
func (s *Server) VerifyEmail(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "token")
	email, err := s.accounts.VerifyEmail(r.Context(), token)
	if err != nil {
		respondErr(w, r, err, "account not found")
		return
	}
	writeJSON(w, http.StatusOK, VerifiedEmail{Email: email, Token: token})
}

// Register handles POST /auth/register, the final sign-up step.
func (s *Server) Register(w http.ResponseWriter, r *http.Request) {
	var body RegisterRequest
	if !decodeJSON(w, r, &body) {
		return
	}
	session, err := s.accounts.CompleteRegistration(r.Context(), service.RegistrationInput{
		Token:           body.Token,
		Username:        body.Username,
		Password:        body.Password,
		ConfirmPassword: body.ConfirmPassword,
	})
	s.opts.Metrics.AuthAttempt("register", err == nil)
	if err != nil {
		respondErr(w, r, err, "account not found")
		return
	}
	s.setSessionCookie(w, session)
	writeJSON(w, http.StatusCreated, sessionToResponse(session))
}

// Login handles POST /auth/login.
func (s *Server) Login(w http.ResponseWriter, r *http.Request) {
	var body LoginRequest
	if !decodeJSON(w, r, &body) {
		return
	}
	session, err := s.accounts.Login(r.Context(), body.Identifier, body.Password)
	s.opts.Metrics.AuthAttempt("login", err == nil)
	if err != nil {
		respondErr(w, r, err, "account not found")
		return
	}
	s.setSessionCookie(w, session)
	writeJSON(w, http.StatusOK, sessionToResponse(session))
}

// Logout handles POST /auth/logout. The session stays revoked until it
// would have expired.
func (s *Server) Logout(w http.ResponseWriter, r *http.Request) {
	if err := s.accounts.Logout(r.Context(), principal(r)); err != nil {
		respondErr(w, r, err, "session not found")
		return
	}
	s.clearSessionCookie(w)
	w.Header().Set("Clear-Site-Data", `"cache", "cookies", "storage"`)
	w.WriteHeader(http.StatusNoContent)
}

func sessionToResponse(s domain.Session) Session {
	return Session{
		Token:     s.Token,
		ExpiresAt: s.ExpiresAt,
		UserID:    s.UserID,
		Username:  s.Username,
	}
}
