package auth

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type fakeUsers struct {
	byName map[string]User
	nextID int64
}

func newFakeUsers() *fakeUsers {
	return &fakeUsers{byName: map[string]User{}, nextID: 1}
}

func (f *fakeUsers) FindByUsername(_ context.Context, username string) (User, error) {
	u, ok := f.byName[username]
	if !ok {
		return User{}, ErrUserNotFound
	}
	return u, nil
}

func (f *fakeUsers) Get(_ context.Context, id int64) (User, error) {
	for _, u := range f.byName {
		if u.ID == id {
			return u, nil
		}
	}
	return User{}, ErrUserNotFound
}

func (f *fakeUsers) List(context.Context) ([]User, error) {
	var list []User
	for _, u := range f.byName {
		list = append(list, u)
	}
	return list, nil
}

func (f *fakeUsers) Create(_ context.Context, u User) (User, error) {
	u.ID = f.nextID
	f.nextID++
	f.byName[u.Username] = u
	return u, nil
}

func (f *fakeUsers) SetActive(_ context.Context, id int64, active bool) error {
	for name, u := range f.byName {
		if u.ID == id {
			u.IsActive = active
			f.byName[name] = u
			return nil
		}
	}
	return ErrUserNotFound
}

type fakeTokens struct {
	issued map[string]Token
}

func newFakeTokens() *fakeTokens {
	return &fakeTokens{issued: map[string]Token{}}
}

func (f *fakeTokens) Issue(_ context.Context, user User) (Token, error) {
	t := Token{Value: "tok-" + user.Username, UserID: user.ID, Username: user.Username, ExpiresAt: time.Now().Add(time.Hour)}
	f.issued[t.Value] = t
	return t, nil
}

func (f *fakeTokens) Resolve(_ context.Context, value string) (Token, error) {
	t, ok := f.issued[value]
	if !ok {
		return Token{}, ErrTokenNotFound
	}
	return t, nil
}

func (f *fakeTokens) Revoke(_ context.Context, value string) error {
	delete(f.issued, value)
	return nil
}

func newService(t *testing.T) (*Service, *fakeUsers, *fakeTokens) {
	t.Helper()
	users := newFakeUsers()
	tokens := newFakeTokens()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewService(logger, users, tokens, nil), users, tokens
}

func seedUser(t *testing.T, users *fakeUsers, username, password string, active bool) {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	_, err = users.Create(context.Background(), User{Username: username, PasswordHash: string(hash), IsActive: active})
	require.NoError(t, err)
}

func TestLoginSuccess(t *testing.T) {
	svc, users, _ := newService(t)
	seedUser(t, users, "clerk", "hunter22", true)

	token, user, err := svc.Login(context.Background(), "clerk", "hunter22")
	require.NoError(t, err)
	require.Equal(t, "clerk", user.Username)
	require.NotEmpty(t, token.Value)
}

func TestLoginWrongPassword(t *testing.T) {
	svc, users, _ := newService(t)
	seedUser(t, users, "clerk", "hunter22", true)

	_, _, err := svc.Login(context.Background(), "clerk", "wrong")
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginUnknownUser(t *testing.T) {
	svc, _, _ := newService(t)
	_, _, err := svc.Login(context.Background(), "ghost", "whatever")
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginInactiveUser(t *testing.T) {
	svc, users, _ := newService(t)
	seedUser(t, users, "clerk", "hunter22", false)

	_, _, err := svc.Login(context.Background(), "clerk", "hunter22")
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLogoutRevokesToken(t *testing.T) {
	svc, users, tokens := newService(t)
	seedUser(t, users, "clerk", "hunter22", true)

	token, _, err := svc.Login(context.Background(), "clerk", "hunter22")
	require.NoError(t, err)

	require.NoError(t, svc.Logout(context.Background(), token.Value))
	_, err = tokens.Resolve(context.Background(), token.Value)
	require.ErrorIs(t, err, ErrTokenNotFound)

	require.ErrorIs(t, svc.Logout(context.Background(), token.Value), ErrTokenNotFound)
}

func TestCreateUserHashesPassword(t *testing.T) {
	svc, users, _ := newService(t)

	created, err := svc.CreateUser(context.Background(), "owner", "Shop Owner", "longenough")
	require.NoError(t, err)
	require.NotEqual(t, "longenough", created.PasswordHash)
	require.NoError(t, bcrypt.CompareHashAndPassword([]byte(created.PasswordHash), []byte("longenough")))
	require.True(t, created.IsActive)

	_, err = svc.CreateUser(context.Background(), "short", "", "tiny")
	require.Error(t, err)
	_, err = svc.CreateUser(context.Background(), "  ", "", "longenough")
	require.Error(t, err)
	_ = users
}
