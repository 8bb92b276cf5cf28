package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/rekrut-id/apiserver/types"
)

const userTokenIndex = "users_api_token_unique"

const userColumns = `id, name, email, email_verified_at, password, api_token, created_at, updated_at`

// UserRepository handles persistence for users and their bearer tokens.
type UserRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

// GetByEmail matches the email case-insensitively.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (types.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE LOWER(email) = LOWER($1)`
	return r.getOne(ctx, query, email)
}

// GetByToken matches the full token exactly.
func (r *UserRepository) GetByToken(ctx context.Context, token string) (types.User, error) {
	if token == "" {
		return types.User{}, ErrNotFound
	}
	query := `SELECT ` + userColumns + ` FROM users WHERE api_token = $1`
	return r.getOne(ctx, query, token)
}

func (r *UserRepository) Create(ctx context.Context, user types.User) (types.User, error) {
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now

	const query = `
		INSERT INTO users (name, email, password, api_token, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`
	if err := r.db.QueryRowContext(
		ctx,
		query,
		user.Name,
		user.Email,
		user.PasswordHash,
		nullString(user.APIToken),
		user.CreatedAt,
		user.UpdatedAt,
	).Scan(&user.ID); err != nil {
		if constraint, ok := uniqueConstraint(err); ok {
			if constraint == userTokenIndex {
				return types.User{}, ErrTokenConflict
			}
			return types.User{}, ErrConflict
		}
		return types.User{}, fmt.Errorf("insert user: %w", err)
	}
	return user, nil
}

// UpdateToken overwrites the user's token; a nil token ends the session.
func (r *UserRepository) UpdateToken(ctx context.Context, id int, token *string) error {
	const query = `
		UPDATE users
		SET api_token = $1,
			updated_at = $2
		WHERE id = $3`
	result, err := r.db.ExecContext(ctx, query, nullString(token), time.Now(), id)
	if err != nil {
		return fmt.Errorf("update user token: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *UserRepository) getOne(ctx context.Context, query string, arg any) (types.User, error) {
	user, err := scanUser(r.db.QueryRowContext(ctx, query, arg))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.User{}, ErrNotFound
		}
		return types.User{}, fmt.Errorf("select user: %w", err)
	}
	return user, nil
}

func scanUser(row rowScanner) (types.User, error) {
	var (
		user       types.User
		verifiedAt sql.NullTime
		token      sql.NullString
	)
	err := row.Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&verifiedAt,
		&user.PasswordHash,
		&token,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return types.User{}, err
	}
	if verifiedAt.Valid {
		t := verifiedAt.Time
		user.EmailVerifiedAt = &t
	}
	if token.Valid {
		s := token.String
		user.APIToken = &s
	}
	return user, nil
}

func nullString(value *string) sql.NullString {
	if value == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *value, Valid: true}
}
