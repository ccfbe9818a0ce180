// Package tokenRepo stores short-lived auth tokens in Redis: refresh tokens
// keyed by user, blacklisted access tokens, and one-shot password-reset
// tokens. Everything expires via TTL so the store never grows unbounded.
package tokenRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

type TokenRepo struct {
	Client *redis.Client
}

func New(client *redis.Client) *TokenRepo {
	return &TokenRepo{Client: client}
}

func refreshKey(userID uint32) string { return fmt.Sprintf("refresh:%d", userID) }
func blacklistKey(token string) string { return fmt.Sprintf("blacklist:%s", token) }
func resetKey(token string) string    { return fmt.Sprintf("reset:%s", token) }

func (r *TokenRepo) SaveRefreshToken(ctx context.Context, userID uint32, token string, ttl time.Duration) error {
	return r.Client.Set(ctx, refreshKey(userID), token, ttl).Err()
}

func (r *TokenRepo) ValidateRefreshToken(ctx context.Context, userID uint32, token string) (bool, error) {
	stored, err := r.Client.Get(ctx, refreshKey(userID)).Result()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return stored == token, nil
}

func (r *TokenRepo) DeleteRefreshToken(ctx context.Context, userID uint32) error {
	return r.Client.Del(ctx, refreshKey(userID)).Err()
}

func (r *TokenRepo) BlacklistAccessToken(ctx context.Context, token string, expiresAt time.Time) error {
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		return nil
	}
	return r.Client.Set(ctx, blacklistKey(token), "1", ttl).Err()
}

func (r *TokenRepo) IsAccessTokenBlacklisted(ctx context.Context, token string) (bool, error) {
	_, err := r.Client.Get(ctx, blacklistKey(token)).Result()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// SaveResetToken maps an opaque reset token to the user's id for ttl.
func (r *TokenRepo) SaveResetToken(ctx context.Context, token string, userID uint32, ttl time.Duration) error {
	return r.Client.Set(ctx, resetKey(token), userID, ttl).Err()
}

// ConsumeResetToken returns the user id for a token and deletes it, so a
// token can be redeemed at most once. ok is false for unknown or expired
// tokens.
func (r *TokenRepo) ConsumeResetToken(ctx context.Context, token string) (uint32, bool, error) {
	userID, err := r.Client.GetDel(ctx, resetKey(token)).Uint64()
	if errors.Is(err, redis.Nil) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return uint32(userID), true, nil
}
