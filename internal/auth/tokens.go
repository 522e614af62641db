package auth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// TokenStore keeps issued bearer tokens in Redis with a sliding expiry.
type TokenStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewTokenStore constructs TokenStore.
func NewTokenStore(client *redis.Client, ttl time.Duration) *TokenStore {
	return &TokenStore{client: client, ttl: ttl}
}

type tokenPayload struct {
	UserID   int64  `json:"user_id"`
	Username string `json:"username"`
}

func tokenKey(value string) string {
	return "lucero:token:" + value
}

// Issue creates a token for the user.
func (s *TokenStore) Issue(ctx context.Context, user User) (Token, error) {
	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		return Token{}, err
	}
	token := Token{
		Value:     base64.RawURLEncoding.EncodeToString(raw),
		UserID:    user.ID,
		Username:  user.Username,
		ExpiresAt: time.Now().Add(s.ttl),
	}
	data, err := json.Marshal(tokenPayload{UserID: user.ID, Username: user.Username})
	if err != nil {
		return Token{}, err
	}
	if err := s.client.Set(ctx, tokenKey(token.Value), data, s.ttl).Err(); err != nil {
		return Token{}, err
	}
	return token, nil
}

// Resolve looks a token up and refreshes its expiry.
func (s *TokenStore) Resolve(ctx context.Context, value string) (Token, error) {
	data, err := s.client.Get(ctx, tokenKey(value)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return Token{}, ErrTokenNotFound
		}
		return Token{}, err
	}
	var payload tokenPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return Token{}, err
	}
	_ = s.client.Expire(ctx, tokenKey(value), s.ttl).Err()
	return Token{
		Value:     value,
		UserID:    payload.UserID,
		Username:  payload.Username,
		ExpiresAt: time.Now().Add(s.ttl),
	}, nil
}

// Revoke deletes a token.
func (s *TokenStore) Revoke(ctx context.Context, value string) error {
	err := s.client.Del(ctx, tokenKey(value)).Err()
	if err != nil && !errors.Is(err, redis.Nil) {
		return err
	}
	return nil
}
