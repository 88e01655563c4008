package repo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/pkordes/voya/internal/domain"
)

// UserRepo defines the persistence operations for user accounts, including
// the pending rows that exist while an email address awaits verification.
type UserRepo interface {
	// CreatePending inserts an unverified user holding only an email address
	// and a verification token. Returns domain.ErrConflict if the email exists.
	CreatePending(ctx context.Context, email, token string, expiry time.Time) (domain.User, error)

	// GetByEmail returns domain.ErrNotFound if no user has that email.
	GetByEmail(ctx context.Context, email string) (domain.User, error)

	// GetByIdentifier looks a user up by username or email.
	GetByIdentifier(ctx context.Context, identifier string) (domain.User, error)

	// GetByVerificationToken returns domain.ErrNotFound for unknown tokens.
	GetByVerificationToken(ctx context.Context, token string) (domain.User, error)

	// UsernameTaken reports whether any user already has username.
	UsernameTaken(ctx context.Context, username string) (bool, error)

	// SetVerificationToken replaces the user's verification token and expiry.
	SetVerificationToken(ctx context.Context, id int64, token string, expiry time.Time) error

	// MarkEmailVerified flags the user's email address as verified.
	MarkEmailVerified(ctx context.Context, id int64) error

	// CompleteRegistration stores username and password hash, marks the email
	// verified and clears the verification token.
	// Returns domain.ErrConflict if the username is taken.
	CompleteRegistration(ctx context.Context, id int64, username, passwordHash string) (domain.User, error)

	// Delete removes a user and everything they own.
	Delete(ctx context.Context, id int64) error

	// DeleteExpiredUnverified removes unverified users whose token expired
	// before now and returns how many were removed.
	DeleteExpiredUnverified(ctx context.Context, now time.Time) (int64, error)
}

type pgUserRepo struct {
	db db
}

// NewUserRepo constructs a UserRepo backed by the provided db connection.
func NewUserRepo(db db) UserRepo {
	return &pgUserRepo{db: db}
}

const userColumns = `id, COALESCE(username, ''), email, password_hash, email_verified,
	COALESCE(verification_token, ''), token_expiry, created_at, updated_at`

// uniqueViolation is the Postgres SQLSTATE for a unique constraint failure.
const uniqueViolation = "23505"

func (r *pgUserRepo) CreatePending(ctx context.Context, email, token string, expiry time.Time) (domain.User, error) {
	const q = `
		INSERT INTO users (email, verification_token, token_expiry)
		VALUES (@email, @token, @expiry)
		RETURNING ` + userColumns

	u, err := scanUser(r.db.QueryRow(ctx, q, pgx.NamedArgs{"email": email, "token": token, "expiry": expiry}))
	if err != nil {
		return domain.User{}, fmt.Errorf("repo.UserRepo.CreatePending: %w", mapUnique(err))
	}
	return u, nil
}

func (r *pgUserRepo) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	const q = `SELECT ` + userColumns + ` FROM users WHERE email = @email`

	u, err := scanUser(r.db.QueryRow(ctx, q, pgx.NamedArgs{"email": email}))
	if err != nil {
		return domain.User{}, fmt.Errorf("repo.UserRepo.GetByEmail: %w", err)
	}
	return u, nil
}

func (r *pgUserRepo) GetByIdentifier(ctx context.Context, identifier string) (domain.User, error) {
	const q = `
		SELECT ` + userColumns + `
		FROM users
		WHERE username = @identifier OR email = @identifier
		ORDER BY id
		LIMIT 1`

	u, err := scanUser(r.db.QueryRow(ctx, q, pgx.NamedArgs{"identifier": identifier}))
	if err != nil {
		return domain.User{}, fmt.Errorf("repo.UserRepo.GetByIdentifier: %w", err)
	}
	return u, nil
}

func (r *pgUserRepo) GetByVerificationToken(ctx context.Context, token string) (domain.User, error) {
	const q = `SELECT ` + userColumns + ` FROM users WHERE verification_token = @token`

	u, err := scanUser(r.db.QueryRow(ctx, q, pgx.NamedArgs{"token": token}))
	if err != nil {
		return domain.User{}, fmt.Errorf("repo.UserRepo.GetByVerificationToken: %w", err)
	}
	return u, nil
}

func (r *pgUserRepo) UsernameTaken(ctx context.Context, username string) (bool, error) {
	const q = `SELECT EXISTS (SELECT 1 FROM users WHERE username = @username)`

	var taken bool
	if err := r.db.QueryRow(ctx, q, pgx.NamedArgs{"username": username}).Scan(&taken); err != nil {
		return false, fmt.Errorf("repo.UserRepo.UsernameTaken: %w", err)
	}
	return taken, nil
}

func (r *pgUserRepo) SetVerificationToken(ctx context.Context, id int64, token string, expiry time.Time) error {
	const q = `
		UPDATE users
		SET verification_token = @token, token_expiry = @expiry, updated_at = now()
		WHERE id = @id`

	if err := r.execOne(ctx, q, pgx.NamedArgs{"id": id, "token": token, "expiry": expiry}); err != nil {
		return fmt.Errorf("repo.UserRepo.SetVerificationToken: %w", err)
	}
	return nil
}

func (r *pgUserRepo) MarkEmailVerified(ctx context.Context, id int64) error {
	const q = `UPDATE users SET email_verified = TRUE, updated_at = now() WHERE id = @id`

	if err := r.execOne(ctx, q, pgx.NamedArgs{"id": id}); err != nil {
		return fmt.Errorf("repo.UserRepo.MarkEmailVerified: %w", err)
	}
	return nil
}

func (r *pgUserRepo) CompleteRegistration(ctx context.Context, id int64, username, passwordHash string) (domain.User, error) {
	const q = `
		UPDATE users
		SET username           = @username,
		    password_hash      = @password_hash,
		    email_verified     = TRUE,
		    verification_token = NULL,
		    token_expiry       = NULL,
		    updated_at         = now()
		WHERE id = @id
		RETURNING ` + userColumns

	args := pgx.NamedArgs{"id": id, "username": username, "password_hash": passwordHash}
	u, err := scanUser(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.User{}, fmt.Errorf("repo.UserRepo.CompleteRegistration: %w", mapUnique(err))
	}
	return u, nil
}

func (r *pgUserRepo) Delete(ctx context.Context, id int64) error {
	if err := r.execOne(ctx, `DELETE FROM users WHERE id = @id`, pgx.NamedArgs{"id": id}); err != nil {
		return fmt.Errorf("repo.UserRepo.Delete: %w", err)
	}
	return nil
}

func (r *pgUserRepo) DeleteExpiredUnverified(ctx context.Context, now time.Time) (int64, error) {
	const q = `
		DELETE FROM users
		WHERE email_verified = FALSE
		  AND (token_expiry IS NULL OR token_expiry < @now)`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"now": now})
	if err != nil {
		return 0, fmt.Errorf("repo.UserRepo.DeleteExpiredUnverified: %w", err)
	}
	return tag.RowsAffected(), nil
}

// execOne runs a statement that must touch exactly one row.
func (r *pgUserRepo) execOne(ctx context.Context, q string, args pgx.NamedArgs) error {
	tag, err := r.db.Exec(ctx, q, args)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func scanUser(s scanner) (domain.User, error) {
	var u domain.User
	err := s.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.EmailVerified,
		&u.VerificationToken, &u.TokenExpiry, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.User{}, domain.ErrNotFound
		}
		return domain.User{}, err
	}
	return u, nil
}

// mapUnique turns a unique-constraint violation into domain.ErrConflict.
func mapUnique(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return fmt.Errorf("%w: %s", domain.ErrConflict, pgErr.ConstraintName)
	}
	return err
}
