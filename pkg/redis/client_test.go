package redis

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMiniRedis(t *testing.T) *miniredis.Miniredis {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Skipf("miniredis unavailable: %v", err)
	}
	t.Cleanup(mr.Close)

	prev := GetClient()
	SetClient(goredis.NewClient(&goredis.Options{Addr: mr.Addr()}))
	t.Cleanup(func() { SetClient(prev) })
	return mr
}

func TestInitInvalidURL(t *testing.T) {
	err := Init("://invalid-url", "")
	assert.Error(t, err)
}

func TestInitWithMiniredis(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Skipf("miniredis unavailable: %v", err)
	}
	defer mr.Close()
	prev := GetClient()
	t.Cleanup(func() { SetClient(prev) })

	require.NoError(t, Init("redis://"+mr.Addr(), "ignored-by-miniredis"))
	assert.NotNil(t, GetClient())
}

func TestInitPingFailure(t *testing.T) {
	orig := pingClient
	t.Cleanup(func() { pingClient = orig })
	pingClient = func(context.Context, *goredis.Client) error { return errors.New("no pong") }

	assert.Error(t, Init("redis://127.0.0.1:6379", ""))
}

func TestOpsWithoutClient(t *testing.T) {
	prev := GetClient()
	SetClient(nil)
	t.Cleanup(func() { SetClient(prev) })
	ctx := context.Background()

	assert.ErrorIs(t, Set(ctx, "k", "v", time.Second), ErrNotInitialized)
	_, err := Get(ctx, "k")
	assert.ErrorIs(t, err, ErrNotInitialized)
	assert.ErrorIs(t, Del(ctx, "k"), ErrNotInitialized)
	_, err = SetNX(ctx, "k", "v", time.Second)
	assert.ErrorIs(t, err, ErrNotInitialized)
	assert.NoError(t, Close())
}

func TestBasicOps(t *testing.T) {
	newMiniRedis(t)
	ctx := context.Background()

	require.NoError(t, Set(ctx, "k", "v", time.Minute))
	v, err := Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "v", v)

	ok, err := SetNX(ctx, "k", "other", time.Minute)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, Del(ctx, "k"))
	_, err = Get(ctx, "k")
	assert.ErrorIs(t, err, goredis.Nil)
}

func TestLock_AcquireAndRelease(t *testing.T) {
	mr := newMiniRedis(t)
	ctx := context.Background()

	lock, ok, err := AcquireLock(ctx, "lock:tx", time.Minute)
	require.NoError(t, err)
	require.True(t, ok)

	_, ok, err = AcquireLock(ctx, "lock:tx", time.Minute)
	require.NoError(t, err)
	assert.False(t, ok, "second holder must be refused")

	require.NoError(t, lock.Release(ctx))
	assert.False(t, mr.Exists("lock:tx"))

	again, ok, err := AcquireLock(ctx, "lock:tx", time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)

	// a stale holder must not delete someone else's lock
	stale := &Lock{key: "lock:tx", token: "stale"}
	require.NoError(t, stale.Release(ctx))
	assert.True(t, mr.Exists("lock:tx"))
	require.NoError(t, again.Release(ctx))

	var nilLock *Lock
	assert.NoError(t, nilLock.Release(ctx))
}
