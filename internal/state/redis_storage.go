package state

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

const operatorStateKeyPattern = "operator:state:%d"

// KV is the slice of the Redis client the storage needs. Satisfied by both
// pkg/redis.Client and its Prometheus-instrumented wrapper.
type KV interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// RedisStorage persists conversation state as JSON values in Redis.
type RedisStorage struct {
	kv  KV
	log *slog.Logger
	ttl time.Duration
}

// NewRedisStorage initializes a Redis-backed Storage implementation. States
// expire after ttl of inactivity; every SetState refreshes the expiry.
func NewRedisStorage(kv KV, log *slog.Logger, ttl time.Duration) *RedisStorage {
	if log == nil {
		log = slog.Default()
	}

	return &RedisStorage{
		kv:  kv,
		log: log,
		ttl: ttl,
	}
}

// GetState returns the stored user state or ErrStateNotFound when absent.
func (s *RedisStorage) GetState(ctx context.Context, userID int64) (*UserState, error) {
	key := redisStateKey(userID)

	data, err := s.kv.Get(ctx, key)
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrStateNotFound
		}

		s.log.Error("failed to get state from redis", "user_id", userID, "error", err)
		return nil, err
	}

	var userState UserState
	if err := json.Unmarshal([]byte(data), &userState); err != nil {
		s.log.Error("failed to decode user state", "user_id", userID, "error", err)
		return nil, err
	}

	return &userState, nil
}

// SetState saves the provided user state, refreshing the TTL.
func (s *RedisStorage) SetState(ctx context.Context, userID int64, userState *UserState) error {
	userState.UpdatedAt = time.Now().UTC()

	data, err := json.Marshal(userState)
	if err != nil {
		s.log.Error("failed to encode user state", "user_id", userID, "error", err)
		return err
	}

	if err := s.kv.Set(ctx, redisStateKey(userID), data, s.ttl); err != nil {
		s.log.Error("failed to save state in redis", "user_id", userID, "error", err)
		return err
	}

	return nil
}

// ClearState removes the stored state for the given user.
func (s *RedisStorage) ClearState(ctx context.Context, userID int64) error {
	if err := s.kv.Delete(ctx, redisStateKey(userID)); err != nil {
		s.log.Error("failed to clear user state", "user_id", userID, "error", err)
		return err
	}

	return nil
}

func redisStateKey(userID int64) string {
	return fmt.Sprintf(operatorStateKeyPattern, userID)
}
