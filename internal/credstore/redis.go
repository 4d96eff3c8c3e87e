package credstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/historisense/portal/internal/domain"
)

const keyPrefix = "credential:"

// RedisStore keeps credentials in Redis so they survive portal restarts.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore builds a store on top of an existing client.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) Save(ctx context.Context, sessionID string, cred domain.Credential, ttl time.Duration) error {
	if sessionID == "" {
		return errors.New("session id cannot be empty")
	}
	if ttl <= 0 {
		return errors.New("credential ttl must be positive")
	}

	data, err := json.Marshal(cred)
	if err != nil {
		return fmt.Errorf("marshal credential: %w", err)
	}
	if err := s.client.Set(ctx, keyPrefix+sessionID, data, ttl).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	return nil
}

func (s *RedisStore) Load(ctx context.Context, sessionID string) (domain.Credential, error) {
	if sessionID == "" {
		return domain.Credential{}, ErrNoCredential
	}

	data, err := s.client.Get(ctx, keyPrefix+sessionID).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return domain.Credential{}, ErrNoCredential
		}
		return domain.Credential{}, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}

	var cred domain.Credential
	if err := json.Unmarshal([]byte(data), &cred); err != nil {
		return domain.Credential{}, fmt.Errorf("unmarshal credential: %w", err)
	}
	if cred.Token == "" {
		// A record without a token is a partial write; treat it as absent.
		return domain.Credential{}, ErrNoCredential
	}
	return cred, nil
}

func (s *RedisStore) Clear(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}
	if err := s.client.Del(ctx, keyPrefix+sessionID).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	return nil
}
