package services

import (
	"context"
	"errors"
	"strconv"

	"github.com/rekrut-id/apiserver/internal/store"
	"github.com/rekrut-id/apiserver/types"
)

// maxIssueAttempts bounds retries when a fresh token collides with a token
// already on record.
const maxIssueAttempts = 3

// AuthService drives the session state of a user: register and login move
// it to authenticated, logout moves it back to anonymous.
type AuthService struct {
	users  *UserService
	tokens TokenIssuer
	events *Events
}

func NewAuthService(users *UserService, tokens TokenIssuer, events *Events) *AuthService {
	if tokens == nil {
		tokens = NewTokenIssuer()
	}
	return &AuthService{users: users, tokens: tokens, events: events}
}

// Register creates the account and signs it in with a new token.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (types.User, string, error) {
	in.Normalize()
	if err := in.Validate(); err != nil {
		return types.User{}, "", err
	}

	var (
		user  types.User
		token string
		err   error
	)
	for i := 0; i < maxIssueAttempts; i++ {
		token, err = s.tokens.Issue()
		if err != nil {
			return types.User{}, "", err
		}

		user, err = s.users.Create(ctx, NewUser{
			Name:     in.Name,
			Email:    in.Email,
			Password: in.Password,
			Token:    &token,
		})
		if !errors.Is(err, store.ErrTokenConflict) {
			break
		}
	}
	if err != nil {
		return types.User{}, "", err
	}

	s.events.emit(ctx, ChannelUsers, EventUserRegistered, strconv.Itoa(user.ID))
	return user, token, nil
}

// Login checks the credentials and replaces the user's token, which ends
// any session opened before.
func (s *AuthService) Login(ctx context.Context, in LoginInput) (types.User, string, error) {
	in.Normalize()
	if err := in.Validate(); err != nil {
		return types.User{}, "", err
	}

	user, err := s.users.GetByEmail(ctx, in.Email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			s.users.BurnPasswordCheck(in.Password)
			return types.User{}, "", ErrAuthentication
		}
		return types.User{}, "", err
	}

	if !s.users.CheckPassword(user, in.Password) {
		return types.User{}, "", ErrAuthentication
	}

	token, err := s.freshToken(user)
	if err != nil {
		return types.User{}, "", err
	}

	if err := s.users.UpdateToken(ctx, user.ID, &token); err != nil {
		return types.User{}, "", err
	}
	user.APIToken = &token

	s.events.emit(ctx, ChannelUsers, EventUserLoggedIn, strconv.Itoa(user.ID))
	return user, token, nil
}

// Logout clears the token of the authenticated user.
func (s *AuthService) Logout(ctx context.Context, identity Identity) error {
	user, ok := identity.User()
	if !ok {
		return ErrAuthentication
	}

	if err := s.users.UpdateToken(ctx, user.ID, nil); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrAuthentication
		}
		return err
	}

	s.events.emit(ctx, ChannelUsers, EventUserLoggedOut, strconv.Itoa(user.ID))
	return nil
}

// Authenticate resolves a bearer token to an identity. Unknown tokens are
// anonymous, not errors; only store failures are returned.
func (s *AuthService) Authenticate(ctx context.Context, token string) (Identity, error) {
	if token == "" {
		return Anonymous(), nil
	}

	user, err := s.users.FindByToken(ctx, token)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return Anonymous(), nil
		}
		return Anonymous(), err
	}
	return AuthenticatedAs(user), nil
}

func (s *AuthService) freshToken(user types.User) (string, error) {
	var lastErr error
	for i := 0; i < maxIssueAttempts; i++ {
		token, err := s.tokens.Issue()
		if err != nil {
			lastErr = err
			continue
		}
		if user.HasSession() && *user.APIToken == token {
			lastErr = errors.New("issued token repeats the current one")
			continue
		}
		return token, nil
	}
	return "", lastErr
}
