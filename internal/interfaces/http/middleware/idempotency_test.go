package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	redisv9 "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	redispkg "bpi.backend/pkg/redis"
)

var testUserID = uuid.MustParse("0190f4a4-0000-7000-8000-0000000000aa")

func startMiniRedis(t *testing.T) *miniredis.Miniredis {
	t.Helper()
	srv, err := miniredis.Run()
	if err != nil {
		t.Skipf("skip: miniredis unavailable in this environment: %v", err)
	}
	t.Cleanup(srv.Close)

	prev := redispkg.GetClient()
	cli := redisv9.NewClient(&redisv9.Options{Addr: srv.Addr()})
	redispkg.SetClient(cli)
	t.Cleanup(func() {
		_ = cli.Close()
		redispkg.SetClient(prev)
	})
	return srv
}

func idempotentRouter(handler gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set(UserIDKey, testUserID)
		c.Next()
	})
	r.Use(IdempotencyMiddleware())
	r.POST("/x", handler)
	return r
}

func postWithKey(r http.Handler, key string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/x", nil)
	if key != "" {
		req.Header.Set(IdempotencyHeader, key)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestIdempotencyMiddleware_NoHeaderPassthrough(t *testing.T) {
	calls := 0
	r := idempotentRouter(func(c *gin.Context) {
		calls++
		c.Status(http.StatusNoContent)
	})

	require.Equal(t, http.StatusNoContent, postWithKey(r, "").Code)
	require.Equal(t, http.StatusNoContent, postWithKey(r, "").Code)
	require.Equal(t, 2, calls)
}

func TestIdempotencyMiddleware_RedisErrorPassthrough(t *testing.T) {
	prevGet := redisGet
	redisGet = func(context.Context, string) (string, error) { return "", errors.New("dial tcp: refused") }
	t.Cleanup(func() { redisGet = prevGet })

	r := idempotentRouter(func(c *gin.Context) { c.Status(http.StatusAccepted) })
	require.Equal(t, http.StatusAccepted, postWithKey(r, "idem-key").Code)
}

func TestIdempotencyMiddleware_ProcessingConflict(t *testing.T) {
	srv := startMiniRedis(t)
	require.NoError(t, srv.Set(idempotencyStorageKey(testUserID, "/x", "key-1"), "processing"))

	r := idempotentRouter(func(c *gin.Context) { c.Status(http.StatusCreated) })
	w := postWithKey(r, "key-1")

	require.Equal(t, http.StatusConflict, w.Code)
	require.Contains(t, w.Body.String(), "ERR_IDEMPOTENCY_CONFLICT")
}

func TestIdempotencyMiddleware_StoresAndReplaysSuccess(t *testing.T) {
	srv := startMiniRedis(t)
	calls := 0
	r := idempotentRouter(func(c *gin.Context) {
		calls++
		c.JSON(http.StatusCreated, gin.H{"reference": "BPI-TRF-01"})
	})

	w := postWithKey(r, "key-3")
	require.Equal(t, http.StatusCreated, w.Code)

	w2 := postWithKey(r, "key-3")
	require.Equal(t, http.StatusCreated, w2.Code)
	require.Equal(t, "true", w2.Header().Get("X-Idempotency-Hit"))
	require.JSONEq(t, `{"reference":"BPI-TRF-01"}`, w2.Body.String())
	require.Equal(t, 1, calls)

	ttl := srv.TTL(idempotencyStorageKey(testUserID, "/x", "key-3"))
	require.Equal(t, RetentionDuration, ttl)
}

func TestIdempotencyMiddleware_KeyIsScopedToRoute(t *testing.T) {
	startMiniRedis(t)
	deposits, transfers := 0, 0
	r := idempotentRouter(func(c *gin.Context) {
		deposits++
		c.JSON(http.StatusCreated, gin.H{"reference": "BPI-DEP-01"})
	})
	r.POST("/y", func(c *gin.Context) {
		transfers++
		c.JSON(http.StatusOK, gin.H{"reference": "BPI-TRF-02"})
	})

	w := postWithKey(r, "shared-key")
	require.Equal(t, http.StatusCreated, w.Code)

	req := httptest.NewRequest(http.MethodPost, "/y", nil)
	req.Header.Set(IdempotencyHeader, "shared-key")
	w2 := httptest.NewRecorder()
	r.ServeHTTP(w2, req)

	require.Equal(t, http.StatusOK, w2.Code)
	require.Empty(t, w2.Header().Get("X-Idempotency-Hit"))
	require.JSONEq(t, `{"reference":"BPI-TRF-02"}`, w2.Body.String())
	require.Equal(t, 1, deposits)
	require.Equal(t, 1, transfers)
}

func TestIdempotencyMiddleware_LegacyBodyReplaysAsOK(t *testing.T) {
	srv := startMiniRedis(t)
	require.NoError(t, srv.Set(idempotencyStorageKey(testUserID, "/x", "key-2"), `{"ok":true}`))

	r := idempotentRouter(func(c *gin.Context) { c.Status(http.StatusCreated) })
	w := postWithKey(r, "key-2")

	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "true", w.Header().Get("X-Idempotency-Hit"))
	require.Equal(t, `{"ok":true}`, w.Body.String())
}

func TestIdempotencyMiddleware_DeletesKeyOnFailure(t *testing.T) {
	startMiniRedis(t)
	r := idempotentRouter(func(c *gin.Context) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Insufficient balance"})
	})

	require.Equal(t, http.StatusBadRequest, postWithKey(r, "key-4").Code)

	_, err := redispkg.Get(context.Background(), idempotencyStorageKey(testUserID, "/x", "key-4"))
	require.ErrorIs(t, err, redisv9.Nil)
}

func TestIdempotencyMiddleware_LockExpires(t *testing.T) {
	srv := startMiniRedis(t)
	require.NoError(t, srv.Set(idempotencyStorageKey(testUserID, "/x", "key-5"), "processing"))
	srv.SetTTL(idempotencyStorageKey(testUserID, "/x", "key-5"), LockDuration)
	srv.FastForward(LockDuration + time.Second)

	r := idempotentRouter(func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": true}) })
	require.Equal(t, http.StatusOK, postWithKey(r, "key-5").Code)
}
