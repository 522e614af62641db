package auth

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func newTokenStore(t *testing.T) (*TokenStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewTokenStore(client, time.Minute), mr
}

func TestTokenStoreIssueResolve(t *testing.T) {
	store, _ := newTokenStore(t)
	ctx := context.Background()

	token, err := store.Issue(ctx, User{ID: 4, Username: "clerk"})
	require.NoError(t, err)
	require.NotEmpty(t, token.Value)

	resolved, err := store.Resolve(ctx, token.Value)
	require.NoError(t, err)
	require.Equal(t, int64(4), resolved.UserID)
	require.Equal(t, "clerk", resolved.Username)
}

func TestTokenStoreRevoke(t *testing.T) {
	store, _ := newTokenStore(t)
	ctx := context.Background()

	token, err := store.Issue(ctx, User{ID: 1, Username: "clerk"})
	require.NoError(t, err)
	require.NoError(t, store.Revoke(ctx, token.Value))

	_, err = store.Resolve(ctx, token.Value)
	require.ErrorIs(t, err, ErrTokenNotFound)
}

func TestTokenStoreExpiry(t *testing.T) {
	store, mr := newTokenStore(t)
	ctx := context.Background()

	token, err := store.Issue(ctx, User{ID: 1, Username: "clerk"})
	require.NoError(t, err)

	mr.FastForward(2 * time.Minute)
	_, err = store.Resolve(ctx, token.Value)
	require.ErrorIs(t, err, ErrTokenNotFound)
}
