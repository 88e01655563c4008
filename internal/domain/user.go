package domain

import "time"

// User is an account. A user row exists from the moment an email address is
// submitted for verification; Username and PasswordHash are empty until
// registration completes.
type User struct {
	ID                int64
	Username          string
	Email             string
	PasswordHash      string
	EmailVerified     bool
	VerificationToken string
	TokenExpiry       *time.Time
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// Registered reports whether the user finished registration.
func (u User) Registered() bool {
	return u.Username != "" && u.PasswordHash != ""
}

// TokenExpired reports whether the verification token expired before now.
// A missing expiry counts as expired.
func (u User) TokenExpired(now time.Time) bool {
	return u.TokenExpiry == nil || u.TokenExpiry.Before(now)
}

// Session is an issued login session.
type Session struct {
	Token     string
	ExpiresAt time.Time
	UserID    int64
	Username  string
}

// Principal is the authenticated caller of a request.
// TokenID identifies the session so it can be revoked on logout.
type Principal struct {
	UserID    int64
	Username  string
	TokenID   string
	ExpiresAt time.Time
}
