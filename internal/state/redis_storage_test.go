package state

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	predis "github.com/giftdesk/giftdesk-bot/pkg/redis"
)

func newTestStorage(t *testing.T) (*RedisStorage, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	rdb := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	kv := &predis.Client{Client: rdb}
	return NewRedisStorage(kv, nil, time.Hour), mr
}

func TestRedisStorageRoundTrip(t *testing.T) {
	storage, _ := newTestStorage(t)
	ctx := context.Background()

	giftID := int64(42)
	draft, err := json.Marshal(map[string]any{"gift_name": "Plush Pepe"})
	require.NoError(t, err)

	in := &UserState{
		UserID:         777,
		Flow:           FlowCreateOrder,
		StepIndex:      3,
		Draft:          draft,
		SelectedGiftID: &giftID,
	}
	require.NoError(t, storage.SetState(ctx, 777, in))

	out, err := storage.GetState(ctx, 777)
	require.NoError(t, err)
	assert.Equal(t, FlowCreateOrder, out.Flow)
	assert.Equal(t, 3, out.StepIndex)
	assert.Equal(t, json.RawMessage(draft), out.Draft)
	require.NotNil(t, out.SelectedGiftID)
	assert.Equal(t, giftID, *out.SelectedGiftID)
	assert.False(t, out.UpdatedAt.IsZero())
}

func TestRedisStorageGetStateNotFound(t *testing.T) {
	storage, _ := newTestStorage(t)

	_, err := storage.GetState(context.Background(), 12345)
	assert.ErrorIs(t, err, ErrStateNotFound)
}

func TestRedisStorageClearState(t *testing.T) {
	storage, _ := newTestStorage(t)
	ctx := context.Background()

	require.NoError(t, storage.SetState(ctx, 1, &UserState{UserID: 1, Flow: FlowCreateMonitoring}))
	require.NoError(t, storage.ClearState(ctx, 1))

	_, err := storage.GetState(ctx, 1)
	assert.ErrorIs(t, err, ErrStateNotFound)

	// Clearing an idle user is not an error.
	assert.NoError(t, storage.ClearState(ctx, 1))
}

func TestRedisStorageSetStateRefreshesTTL(t *testing.T) {
	storage, mr := newTestStorage(t)
	ctx := context.Background()

	require.NoError(t, storage.SetState(ctx, 5, &UserState{UserID: 5, Flow: FlowCreateOrder}))

	mr.FastForward(30 * time.Minute)
	require.NoError(t, storage.SetState(ctx, 5, &UserState{UserID: 5, Flow: FlowCreateOrder, StepIndex: 1}))

	mr.FastForward(45 * time.Minute)
	out, err := storage.GetState(ctx, 5)
	require.NoError(t, err)
	assert.Equal(t, 1, out.StepIndex)

	mr.FastForward(time.Hour)
	_, err = storage.GetState(ctx, 5)
	assert.ErrorIs(t, err, ErrStateNotFound)
}

func TestRedisStorageCorruptPayload(t *testing.T) {
	storage, mr := newTestStorage(t)

	require.NoError(t, mr.Set("operator:state:9", "{not json"))

	_, err := storage.GetState(context.Background(), 9)
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrStateNotFound)
}
