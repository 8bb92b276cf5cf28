package services

import (
	"errors"
	"regexp"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation"
)

const (
	maxNameLength     = 255
	maxEmailLength    = 255
	minPasswordLength = 8
	// bcrypt ignores everything past 72 bytes.
	maxPasswordBytes = 72
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

var (
	nameRules = []validation.Rule{
		validation.Required.Error("The name field is required."),
		validation.Length(0, maxNameLength).Error("The name field must not be greater than 255 characters."),
	}
	emailRules = []validation.Rule{
		validation.Required.Error("The email field is required."),
		validation.Length(0, maxEmailLength).Error("The email field must not be greater than 255 characters."),
		validation.Match(emailPattern).Error("The email field must be a valid email address."),
	}
	passwordRules = []validation.Rule{
		validation.Required.Error("The password field is required."),
		validation.Length(minPasswordLength, 0).Error("The password field must be at least 8 characters."),
		validation.By(maxBytes(maxPasswordBytes, "The password field must not be greater than 72 bytes.")),
	}
)

// RegisterInput is the registration payload.
type RegisterInput struct {
	Name                 string `json:"name"`
	Email                string `json:"email"`
	Password             string `json:"password"`
	PasswordConfirmation string `json:"password_confirmation"`
}

// Normalize trims surrounding whitespace from name and email.
func (in *RegisterInput) Normalize() {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)
}

func (in RegisterInput) Validate() error {
	password := append(append([]validation.Rule{}, passwordRules...),
		validation.By(equals(in.PasswordConfirmation, "The password field confirmation does not match.")),
	)
	return fromRules(validation.ValidateStruct(&in,
		validation.Field(&in.Name, nameRules...),
		validation.Field(&in.Email, emailRules...),
		validation.Field(&in.Password, password...),
	))
}

// LoginInput is the login payload.
type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (in *LoginInput) Normalize() {
	in.Email = strings.TrimSpace(in.Email)
}

func (in LoginInput) Validate() error {
	return fromRules(validation.ValidateStruct(&in,
		validation.Field(&in.Email,
			validation.Required.Error("The email field is required."),
			validation.Match(emailPattern).Error("The email field must be a valid email address."),
		),
		validation.Field(&in.Password, validation.Required.Error("The password field is required.")),
	))
}

// NewUser is what the credential store needs to create an account.
type NewUser struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	// Token is assigned at creation so a new account starts signed in.
	Token *string `json:"-"`
}

func (in NewUser) Validate() error {
	return fromRules(validation.ValidateStruct(&in,
		validation.Field(&in.Name, nameRules...),
		validation.Field(&in.Email, emailRules...),
		validation.Field(&in.Password, passwordRules...),
	))
}

func equals(expected, message string) validation.RuleFunc {
	return func(value interface{}) error {
		s, _ := value.(string)
		if s != expected {
			return errors.New(message)
		}
		return nil
	}
}

func maxBytes(limit int, message string) validation.RuleFunc {
	return func(value interface{}) error {
		s, _ := value.(string)
		if len(s) > limit {
			return errors.New(message)
		}
		return nil
	}
}
