package services_test

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"github.com/rekrut-id/apiserver/internal/services"
	"github.com/rekrut-id/apiserver/internal/services/servicestest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type published struct {
	channel string
	event   services.Event
	attrs   map[string]string
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []published
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, channel string, data []byte, attrs map[string]string) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return "", p.err
	}
	var event services.Event
	if err := json.Unmarshal(data, &event); err != nil {
		return "", err
	}
	p.events = append(p.events, published{channel: channel, event: event, attrs: attrs})
	return "msg", nil
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.event.Type)
	}
	return out
}

type authFixture struct {
	auth      *services.AuthService
	users     *servicestest.Users
	publisher *recordingPublisher
}

func newAuthFixture(t *testing.T) authFixture {
	t.Helper()
	users := servicestest.NewUsers()
	publisher := &recordingPublisher{}
	userService := services.NewUserService(users, services.NewPasswordHasher(bcrypt.MinCost))
	auth := services.NewAuthService(userService, services.NewTokenIssuer(), services.NewEvents(publisher, nil))
	return authFixture{auth: auth, users: users, publisher: publisher}
}

func registerInput(email string) services.RegisterInput {
	return services.RegisterInput{
		Name:                 "Test User",
		Email:                email,
		Password:             "password123",
		PasswordConfirmation: "password123",
	}
}

func validationFields(t *testing.T, err error) map[string][]string {
	t.Helper()
	var verr *services.ValidationError
	require.True(t, errors.As(err, &verr), "expected ValidationError, got %v", err)
	return verr.Fields
}

func TestAuthService_Register(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	user, token, err := f.auth.Register(ctx, registerInput("  test@example.com "))
	require.NoError(t, err)

	assert.NotZero(t, user.ID)
	assert.Equal(t, "test@example.com", user.Email)
	assert.Len(t, token, services.TokenLength)
	assert.NotEqual(t, "password123", user.PasswordHash)

	stored := f.users.Token(user.ID)
	require.NotNil(t, stored)
	assert.Equal(t, token, *stored)

	identity, err := f.auth.Authenticate(ctx, token)
	require.NoError(t, err)
	got, ok := identity.User()
	require.True(t, ok)
	assert.Equal(t, user.ID, got.ID)

	require.Len(t, f.publisher.events, 1)
	assert.Equal(t, services.ChannelUsers, f.publisher.events[0].channel)
	assert.Equal(t, services.EventUserRegistered, f.publisher.events[0].event.Type)
	assert.Equal(t, "application/json", f.publisher.events[0].attrs["content_type"])
}

func TestAuthService_RegisterDuplicateEmail(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	_, _, err := f.auth.Register(ctx, registerInput("test@example.com"))
	require.NoError(t, err)

	_, _, err = f.auth.Register(ctx, registerInput("TEST@example.com"))
	fields := validationFields(t, err)
	assert.Equal(t, []string{"The email has already been taken."}, fields["email"])
}

func TestAuthService_RegisterValidation(t *testing.T) {
	tests := []struct {
		name  string
		in    services.RegisterInput
		field string
	}{
		{
			name:  "missing name",
			in:    services.RegisterInput{Email: "a@b.co", Password: "password123", PasswordConfirmation: "password123"},
			field: "name",
		},
		{
			name:  "malformed email",
			in:    services.RegisterInput{Name: "A", Email: "not-an-email", Password: "password123", PasswordConfirmation: "password123"},
			field: "email",
		},
		{
			name:  "short password",
			in:    services.RegisterInput{Name: "A", Email: "a@b.co", Password: "short", PasswordConfirmation: "short"},
			field: "password",
		},
		{
			name:  "confirmation mismatch",
			in:    services.RegisterInput{Name: "A", Email: "a@b.co", Password: "password123", PasswordConfirmation: "password124"},
			field: "password",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newAuthFixture(t)
			_, _, err := f.auth.Register(context.Background(), tt.in)
			fields := validationFields(t, err)
			assert.Contains(t, fields, tt.field)
			assert.Empty(t, f.publisher.events)
		})
	}
}

func TestAuthService_LoginRotatesToken(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	user, first, err := f.auth.Register(ctx, registerInput("test@example.com"))
	require.NoError(t, err)

	loggedIn, second, err := f.auth.Login(ctx, services.LoginInput{Email: "test@example.com", Password: "password123"})
	require.NoError(t, err)
	assert.Equal(t, user.ID, loggedIn.ID)
	assert.Len(t, second, services.TokenLength)
	assert.NotEqual(t, first, second)

	stale, err := f.auth.Authenticate(ctx, first)
	require.NoError(t, err)
	assert.False(t, stale.IsAuthenticated())

	current, err := f.auth.Authenticate(ctx, second)
	require.NoError(t, err)
	assert.True(t, current.IsAuthenticated())

	assert.Equal(t, []string{services.EventUserRegistered, services.EventUserLoggedIn}, f.publisher.types())
}

func TestAuthService_LoginFailures(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	user, token, err := f.auth.Register(ctx, registerInput("test@example.com"))
	require.NoError(t, err)

	_, _, err = f.auth.Login(ctx, services.LoginInput{Email: "test@example.com", Password: "wrong-password"})
	assert.ErrorIs(t, err, services.ErrAuthentication)

	_, _, err = f.auth.Login(ctx, services.LoginInput{Email: "nobody@example.com", Password: "password123"})
	assert.ErrorIs(t, err, services.ErrAuthentication)

	// A failed login leaves the existing session alone.
	stored := f.users.Token(user.ID)
	require.NotNil(t, stored)
	assert.Equal(t, token, *stored)

	_, _, err = f.auth.Login(ctx, services.LoginInput{Email: "", Password: ""})
	fields := validationFields(t, err)
	assert.Contains(t, fields, "email")
	assert.Contains(t, fields, "password")
}

func TestAuthService_Logout(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	_, token, err := f.auth.Register(ctx, registerInput("test@example.com"))
	require.NoError(t, err)

	identity, err := f.auth.Authenticate(ctx, token)
	require.NoError(t, err)

	require.NoError(t, f.auth.Logout(ctx, identity))
	user, _ := identity.User()
	assert.Nil(t, f.users.Token(user.ID))

	after, err := f.auth.Authenticate(ctx, token)
	require.NoError(t, err)
	assert.False(t, after.IsAuthenticated())

	assert.ErrorIs(t, f.auth.Logout(ctx, services.Anonymous()), services.ErrAuthentication)
}

func TestAuthService_Authenticate(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	identity, err := f.auth.Authenticate(ctx, "")
	require.NoError(t, err)
	assert.False(t, identity.IsAuthenticated())

	identity, err = f.auth.Authenticate(ctx, "unknown-token")
	require.NoError(t, err)
	assert.False(t, identity.IsAuthenticated())

	boom := errors.New("connection refused")
	f.users.Err = boom
	_, err = f.auth.Authenticate(ctx, "some-token")
	assert.ErrorIs(t, err, boom)
}

func TestAuthService_PublisherFailureIsNotFatal(t *testing.T) {
	f := newAuthFixture(t)
	f.publisher.err = errors.New("broker down")

	_, token, err := f.auth.Register(context.Background(), registerInput("test@example.com"))
	require.NoError(t, err)
	assert.NotEmpty(t, token)
}

func TestAuthService_WithoutEvents(t *testing.T) {
	users := servicestest.NewUsers()
	userService := services.NewUserService(users, services.NewPasswordHasher(bcrypt.MinCost))
	auth := services.NewAuthService(userService, nil, nil)

	_, token, err := auth.Register(context.Background(), registerInput("test@example.com"))
	require.NoError(t, err)
	assert.Len(t, token, services.TokenLength)
}

// sequenceIssuer hands out tokens in order.
type sequenceIssuer struct {
	tokens []string
}

func (s *sequenceIssuer) Issue() (string, error) {
	if len(s.tokens) == 0 {
		return "", errors.New("no tokens left")
	}
	token := s.tokens[0]
	s.tokens = s.tokens[1:]
	return token, nil
}

func newSequenceAuth(users *servicestest.Users, tokens ...string) *services.AuthService {
	userService := services.NewUserService(users, services.NewPasswordHasher(bcrypt.MinCost))
	return services.NewAuthService(userService, &sequenceIssuer{tokens: tokens}, nil)
}

func TestAuthService_RegisterRetriesTakenToken(t *testing.T) {
	users := servicestest.NewUsers()
	ctx := context.Background()

	_, _, err := newSequenceAuth(users, "tok-A").Register(ctx, registerInput("first@example.com"))
	require.NoError(t, err)

	user, token, err := newSequenceAuth(users, "tok-A", "tok-B").Register(ctx, registerInput("second@example.com"))
	require.NoError(t, err)
	assert.Equal(t, "tok-B", token)
	assert.Equal(t, "second@example.com", user.Email)

	_, _, err = newSequenceAuth(users, "tok-A", "tok-B", "tok-A").Register(ctx, registerInput("third@example.com"))
	require.Error(t, err)
	var verr *services.ValidationError
	assert.False(t, errors.As(err, &verr), "a taken token must not read as a taken email")
}

func TestAuthService_LoginSkipsCurrentToken(t *testing.T) {
	users := servicestest.NewUsers()
	ctx := context.Background()

	auth := newSequenceAuth(users, "tok-A", "tok-A", "tok-B")
	_, _, err := auth.Register(ctx, registerInput("test@example.com"))
	require.NoError(t, err)

	_, token, err := auth.Login(ctx, services.LoginInput{Email: "test@example.com", Password: "password123"})
	require.NoError(t, err)
	assert.Equal(t, "tok-B", token)

	repeating := newSequenceAuth(users, "tok-B", "tok-B", "tok-B")
	_, _, err = repeating.Login(ctx, services.LoginInput{Email: "test@example.com", Password: "password123"})
	assert.Error(t, err)
}
