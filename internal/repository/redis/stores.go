package redis

import (
	"context"
	"errors"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

const (
	verificationPrefix = "verify:"
	revocationPrefix   = "revoked:"
)

type VerificationStore struct {
	client *goredis.Client
}

func NewVerificationStore(client *goredis.Client) *VerificationStore {
	return &VerificationStore{client: client}
}

func (s *VerificationStore) Put(ctx context.Context, email, code string, ttl time.Duration) error {
	return s.client.Set(ctx, verificationPrefix+email, code, ttl).Err()
}

func (s *VerificationStore) Get(ctx context.Context, email string) (string, bool, error) {
	value, err := s.client.Get(ctx, verificationPrefix+email).Result()
	if errors.Is(err, goredis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}

func (s *VerificationStore) Delete(ctx context.Context, email string) error {
	return s.client.Del(ctx, verificationPrefix+email).Err()
}

type RevocationStore struct {
	client *goredis.Client
}

func NewRevocationStore(client *goredis.Client) *RevocationStore {
	return &RevocationStore{client: client}
}

func (s *RevocationStore) Revoke(ctx context.Context, tokenID string, ttl time.Duration) error {
	return s.client.Set(ctx, revocationPrefix+tokenID, "1", ttl).Err()
}

func (s *RevocationStore) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	count, err := s.client.Exists(ctx, revocationPrefix+tokenID).Result()
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
