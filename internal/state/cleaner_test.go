package state

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type rawKV struct {
	rdb *redis.Client
}

func (k *rawKV) Get(ctx context.Context, key string) (string, error) {
	return k.rdb.Get(ctx, key).Result()
}

func (k *rawKV) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	return k.rdb.Set(ctx, key, value, ttl).Err()
}

func (k *rawKV) Delete(ctx context.Context, key string) error {
	return k.rdb.Del(ctx, key).Err()
}

func seedState(t *testing.T, mr *miniredis.Miniredis, userID int64, updatedAt time.Time) {
	t.Helper()

	data, err := json.Marshal(&UserState{
		UserID:    userID,
		Flow:      FlowCreateOrder,
		UpdatedAt: updatedAt,
	})
	require.NoError(t, err)
	require.NoError(t, mr.Set(fmt.Sprintf(operatorStateKeyPattern, userID), string(data)))
}

func TestCleanerClearsAbandonedConversations(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	storage := NewRedisStorage(&rawKV{rdb: rdb}, log, time.Hour)

	seedState(t, mr, 100, time.Now().UTC().Add(-2*time.Hour))
	seedState(t, mr, 200, time.Now().UTC())

	cleaner := NewCleaner(rdb, storage, log, time.Hour, time.Minute)
	cleaner.cleanup(context.Background())

	_, err := storage.GetState(context.Background(), 100)
	assert.ErrorIs(t, err, ErrStateNotFound)

	fresh, err := storage.GetState(context.Background(), 200)
	require.NoError(t, err)
	assert.Equal(t, FlowCreateOrder, fresh.Flow)
}

func TestCleanerIgnoresUnparsableKeys(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	storage := NewRedisStorage(&rawKV{rdb: rdb}, log, time.Hour)

	require.NoError(t, mr.Set("operator:state:not-a-number", "{}"))
	seedState(t, mr, 300, time.Now().UTC().Add(-2*time.Hour))

	cleaner := NewCleaner(rdb, storage, log, time.Hour, time.Minute)
	cleaner.cleanup(context.Background())

	_, err := storage.GetState(context.Background(), 300)
	assert.ErrorIs(t, err, ErrStateNotFound)
	assert.True(t, mr.Exists("operator:state:not-a-number"))
}

func TestExtractUserID(t *testing.T) {
	id, err := extractUserID("operator:state:42")
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)

	_, err = extractUserID("operator:state:abc")
	assert.Error(t, err)
}
