package services

import (
	"context"
	"errors"

	"github.com/rekrut-id/apiserver/internal/store"
	"github.com/rekrut-id/apiserver/types"
)

const emailTakenMessage = "The email has already been taken."

// UserRepository defines persistence operations for users.
type UserRepository interface {
	GetByEmail(ctx context.Context, email string) (types.User, error)
	GetByToken(ctx context.Context, token string) (types.User, error)
	Create(ctx context.Context, user types.User) (types.User, error)
	UpdateToken(ctx context.Context, id int, token *string) error
}

// UserService is the credential store: user records, password hashes
// and the single live token of each user.
type UserService struct {
	repo   UserRepository
	hasher *PasswordHasher
}

func NewUserService(repo UserRepository, hasher *PasswordHasher) *UserService {
	if hasher == nil {
		hasher = NewPasswordHasher(0)
	}
	return &UserService{repo: repo, hasher: hasher}
}

// Create validates the account, hashes the password and stores the user.
// A taken email is reported as a ValidationError on the email field; a
// taken token comes back as store.ErrTokenConflict.
func (s *UserService) Create(ctx context.Context, in NewUser) (types.User, error) {
	if err := in.Validate(); err != nil {
		return types.User{}, err
	}

	if _, err := s.repo.GetByEmail(ctx, in.Email); err == nil {
		return types.User{}, NewValidationError("email", emailTakenMessage)
	} else if !errors.Is(err, store.ErrNotFound) {
		return types.User{}, err
	}

	hashed, err := s.hasher.Hash(in.Password)
	if err != nil {
		return types.User{}, err
	}

	user, err := s.repo.Create(ctx, types.User{
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: hashed,
		APIToken:     in.Token,
	})
	if err != nil {
		if errors.Is(err, store.ErrConflict) {
			return types.User{}, NewValidationError("email", emailTakenMessage)
		}
		return types.User{}, err
	}
	return user, nil
}

func (s *UserService) GetByEmail(ctx context.Context, email string) (types.User, error) {
	return s.repo.GetByEmail(ctx, email)
}

// FindByToken resolves a bearer token by exact match. Unknown and empty
// tokens return store.ErrNotFound.
func (s *UserService) FindByToken(ctx context.Context, token string) (types.User, error) {
	if token == "" {
		return types.User{}, store.ErrNotFound
	}
	return s.repo.GetByToken(ctx, token)
}

// UpdateToken overwrites the user's token. Passing nil ends the session.
func (s *UserService) UpdateToken(ctx context.Context, id int, token *string) error {
	return s.repo.UpdateToken(ctx, id, token)
}

// CheckPassword reports whether password matches the user's stored hash.
func (s *UserService) CheckPassword(user types.User, password string) bool {
	return s.hasher.Verify(user.PasswordHash, password)
}

// BurnPasswordCheck spends the time of one password check without a user.
func (s *UserService) BurnPasswordCheck(password string) {
	s.hasher.Burn(password)
}
