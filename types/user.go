package types

import "time"

// User represents an account in the system.
// It contains identity, credentials, and audit metadata.
type User struct {
	// ID is the unique identifier of the user.
	ID int `json:"id" db:"id"`

	// Name is the user's display name.
	Name string `json:"name" db:"name"`

	// Email is the user's email address. It is unique regardless of case.
	Email string `json:"email" db:"email"`

	// EmailVerifiedAt is the time the email address was confirmed.
	// It is recorded but never enforced.
	EmailVerifiedAt *time.Time `json:"email_verified_at" db:"email_verified_at"`

	// PasswordHash stores the bcrypt hash of the user's password.
	// This field is never exposed in API responses.
	PasswordHash string `json:"-" db:"password"`

	// APIToken is the single live bearer token of the user, nil when
	// the user has no session. This field is never exposed in API responses.
	APIToken *string `json:"-" db:"api_token"`

	// CreatedAt is the timestamp when the user account was created.
	CreatedAt time.Time `json:"created_at" db:"created_at"`

	// UpdatedAt is the timestamp of the most recent update to the user account.
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// HasSession reports whether the user currently holds a bearer token.
func (u User) HasSession() bool {
	return u.APIToken != nil && *u.APIToken != ""
}
