package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/pkordes/voya/internal/auth"
	"github.com/pkordes/voya/internal/domain"
	mailer "github.com/pkordes/voya/internal/mail"
	"github.com/pkordes/voya/internal/repo"
)

// SessionIssuer signs and verifies session tokens. Satisfied by *auth.TokenIssuer.
type SessionIssuer interface {
	Issue(userID int64, username string) (domain.Session, error)
	Verify(token string) (domain.Principal, error)
}

// PasswordHasher is satisfied by auth.Hasher.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) bool
}

// RevocationStore remembers logged-out session ids until they expire.
// Satisfied by *redisstore.Revocations.
type RevocationStore interface {
	Revoke(ctx context.Context, id string, until time.Time) error
	IsRevoked(ctx context.Context, id string) (bool, error)
}

// AccountConfig holds the account settings that come from configuration.
type AccountConfig struct {
	// BaseURL prefixes verification links, e.g. "https://voya.example.com".
	BaseURL         string
	VerificationTTL time.Duration
}

// RegistrationInput is the final registration step.
type RegistrationInput struct {
	Token           string
	Username        string
	Password        string
	ConfirmPassword string
}

// AccountService implements the two-step sign-up (email verification, then
// username and password), login, logout and session authentication.
type AccountService struct {
	users   repo.UserRepo
	tokens  SessionIssuer
	hasher  PasswordHasher
	revoked RevocationStore
	mail    mailer.Mailer
	cfg     AccountConfig
	now     func() time.Time
}

func NewAccountService(users repo.UserRepo, tokens SessionIssuer, hasher PasswordHasher,
	revoked RevocationStore, m mailer.Mailer, cfg AccountConfig) *AccountService {
	if cfg.VerificationTTL <= 0 {
		cfg.VerificationTTL = 24 * time.Hour
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	return &AccountService{
		users:   users,
		tokens:  tokens,
		hasher:  hasher,
		revoked: revoked,
		mail:    m,
		cfg:     cfg,
		now:     time.Now,
	}
}

// RequestVerification starts sign-up for email and mails it a verification
// link. It returns the normalised address.
// Returns domain.ErrValidation for a malformed address and domain.ErrConflict
// if the address already belongs to a verified account.
func (s *AccountService) RequestVerification(ctx context.Context, email string) (string, error) {
	email, err := normalizeEmail(email)
	if err != nil {
		return "", fmt.Errorf("service.AccountService.RequestVerification: %w", err)
	}
	now := s.now()

	existing, err := s.users.GetByEmail(ctx, email)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		existing = domain.User{}
	case err != nil:
		return "", fmt.Errorf("service.AccountService.RequestVerification: %w", err)
	case existing.EmailVerified:
		return "", fmt.Errorf("service.AccountService.RequestVerification: %w: email already registered", domain.ErrConflict)
	case existing.TokenExpired(now):
		if err := s.users.Delete(ctx, existing.ID); err != nil {
			return "", fmt.Errorf("service.AccountService.RequestVerification: %w", err)
		}
		existing = domain.User{}
	}

	token := uuid.NewString()
	expiry := now.Add(s.cfg.VerificationTTL)

	if existing.ID != 0 {
		if err := s.mail.SendVerification(ctx, email, s.verificationLink(token)); err != nil {
			return "", fmt.Errorf("service.AccountService.RequestVerification: send: %w", err)
		}
		if err := s.users.SetVerificationToken(ctx, existing.ID, token, expiry); err != nil {
			return "", fmt.Errorf("service.AccountService.RequestVerification: %w", err)
		}
		return email, nil
	}

	pending, err := s.users.CreatePending(ctx, email, token, expiry)
	if err != nil {
		return "", fmt.Errorf("service.AccountService.RequestVerification: %w", err)
	}
	if err := s.mail.SendVerification(ctx, email, s.verificationLink(token)); err != nil {
		if delErr := s.users.Delete(ctx, pending.ID); delErr != nil {
			err = errors.Join(err, delErr)
		}
		return "", fmt.Errorf("service.AccountService.RequestVerification: send: %w", err)
	}
	return email, nil
}

// VerifyEmail marks the address holding token as verified and returns it.
// Unknown and expired tokens are domain.ErrValidation.
func (s *AccountService) VerifyEmail(ctx context.Context, token string) (string, error) {
	user, err := s.pendingByToken(ctx, token)
	if err != nil {
		return "", fmt.Errorf("service.AccountService.VerifyEmail: %w", err)
	}
	if user.TokenExpired(s.now()) {
		return "", fmt.Errorf("service.AccountService.VerifyEmail: %w: invalid or expired verification token", domain.ErrValidation)
	}
	if err := s.users.MarkEmailVerified(ctx, user.ID); err != nil {
		return "", fmt.Errorf("service.AccountService.VerifyEmail: %w", err)
	}
	return user.Email, nil
}

// CompleteRegistration sets the username and password of the account holding
// in.Token and logs it in. An expired token deletes the pending account.
func (s *AccountService) CompleteRegistration(ctx context.Context, in RegistrationInput) (domain.Session, error) {
	if in.Token == "" {
		return domain.Session{}, fmt.Errorf("service.AccountService.CompleteRegistration: %w: missing verification token", domain.ErrValidation)
	}
	user, err := s.pendingByToken(ctx, in.Token)
	if err != nil {
		return domain.Session{}, fmt.Errorf("service.AccountService.CompleteRegistration: %w", err)
	}
	if user.TokenExpired(s.now()) {
		if err := s.users.Delete(ctx, user.ID); err != nil {
			return domain.Session{}, fmt.Errorf("service.AccountService.CompleteRegistration: %w", err)
		}
		return domain.Session{}, fmt.Errorf("service.AccountService.CompleteRegistration: %w: verification token has expired, please register again", domain.ErrValidation)
	}

	username := strings.TrimSpace(in.Username)
	if username == "" || in.Password == "" || in.ConfirmPassword == "" {
		return domain.Session{}, fmt.Errorf("service.AccountService.CompleteRegistration: %w: all fields are required", domain.ErrValidation)
	}
	if in.Password != in.ConfirmPassword {
		return domain.Session{}, fmt.Errorf("service.AccountService.CompleteRegistration: %w: passwords do not match", domain.ErrValidation)
	}
	if err := auth.ValidatePassword(in.Password); err != nil {
		return domain.Session{}, fmt.Errorf("service.AccountService.CompleteRegistration: %w", err)
	}

	taken, err := s.users.UsernameTaken(ctx, username)
	if err != nil {
		return domain.Session{}, fmt.Errorf("service.AccountService.CompleteRegistration: %w", err)
	}
	if taken {
		return domain.Session{}, fmt.Errorf("service.AccountService.CompleteRegistration: %w: username already exists", domain.ErrConflict)
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return domain.Session{}, fmt.Errorf("service.AccountService.CompleteRegistration: %w", err)
	}
	registered, err := s.users.CompleteRegistration(ctx, user.ID, username, hash)
	if err != nil {
		return domain.Session{}, fmt.Errorf("service.AccountService.CompleteRegistration: %w", err)
	}

	session, err := s.tokens.Issue(registered.ID, registered.Username)
	if err != nil {
		return domain.Session{}, fmt.Errorf("service.AccountService.CompleteRegistration: %w", err)
	}
	return session, nil
}

// Login checks credentials; identifier is a username or an email address.
// Every credential failure is domain.ErrUnauthorized.
func (s *AccountService) Login(ctx context.Context, identifier, password string) (domain.Session, error) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" || password == "" {
		return domain.Session{}, fmt.Errorf("service.AccountService.Login: %w: all fields are required", domain.ErrValidation)
	}

	user, err := s.users.GetByIdentifier(ctx, identifier)
	if errors.Is(err, domain.ErrNotFound) {
		return domain.Session{}, fmt.Errorf("service.AccountService.Login: %w: invalid username or password", domain.ErrUnauthorized)
	}
	if err != nil {
		return domain.Session{}, fmt.Errorf("service.AccountService.Login: %w", err)
	}
	if !user.EmailVerified {
		return domain.Session{}, fmt.Errorf("service.AccountService.Login: %w: please verify your email address first", domain.ErrUnauthorized)
	}
	if !user.Registered() || !s.hasher.Compare(user.PasswordHash, password) {
		return domain.Session{}, fmt.Errorf("service.AccountService.Login: %w: invalid username or password", domain.ErrUnauthorized)
	}

	session, err := s.tokens.Issue(user.ID, user.Username)
	if err != nil {
		return domain.Session{}, fmt.Errorf("service.AccountService.Login: %w", err)
	}
	return session, nil
}

// Authenticate resolves a session token to its principal.
// Invalid, expired and revoked tokens are domain.ErrUnauthorized.
func (s *AccountService) Authenticate(ctx context.Context, token string) (domain.Principal, error) {
	p, err := s.tokens.Verify(token)
	if err != nil {
		return domain.Principal{}, fmt.Errorf("service.AccountService.Authenticate: %w", err)
	}
	revoked, err := s.revoked.IsRevoked(ctx, p.TokenID)
	if err != nil {
		return domain.Principal{}, fmt.Errorf("service.AccountService.Authenticate: %w", err)
	}
	if revoked {
		return domain.Principal{}, fmt.Errorf("service.AccountService.Authenticate: %w: session has been logged out", domain.ErrUnauthorized)
	}
	return p, nil
}

// Logout revokes the principal's session until it would have expired.
func (s *AccountService) Logout(ctx context.Context, p domain.Principal) error {
	if err := s.revoked.Revoke(ctx, p.TokenID, p.ExpiresAt); err != nil {
		return fmt.Errorf("service.AccountService.Logout: %w", err)
	}
	return nil
}

// CleanupExpired deletes unverified accounts whose verification token has
// expired and returns how many were removed.
func (s *AccountService) CleanupExpired(ctx context.Context) (int64, error) {
	n, err := s.users.DeleteExpiredUnverified(ctx, s.now())
	if err != nil {
		return 0, fmt.Errorf("service.AccountService.CleanupExpired: %w", err)
	}
	return n, nil
}

func (s *AccountService) pendingByToken(ctx context.Context, token string) (domain.User, error) {
	user, err := s.users.GetByVerificationToken(ctx, token)
	if errors.Is(err, domain.ErrNotFound) {
		return domain.User{}, fmt.Errorf("%w: invalid or expired verification token", domain.ErrValidation)
	}
	return user, err
}

func (s *AccountService) verificationLink(token string) string {
	return s.cfg.BaseURL + "/auth/verify-email/" + token
}

// normalizeEmail accepts a bare address ("name@example.com") and lower-cases
// its domain part.
func normalizeEmail(email string) (string, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return "", fmt.Errorf("%w: email is required", domain.ErrValidation)
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return "", fmt.Errorf("%w: invalid email address", domain.ErrValidation)
	}
	at := strings.LastIndexByte(email, '@')
	local, host := email[:at], strings.ToLower(email[at+1:])
	if !strings.Contains(host, ".") {
		return "", fmt.Errorf("%w: invalid email address", domain.ErrValidation)
	}
	return local + "@" + host, nil
}
