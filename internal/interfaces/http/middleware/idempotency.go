package middleware

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"bpi.backend/pkg/logger"
	"bpi.backend/pkg/redis"
)

const (
	IdempotencyHeader = "Idempotency-Key"
	// LockDuration is the time we hold the lock while processing
	LockDuration = 30 * time.Second
	// RetentionDuration is how long we keep the response
	RetentionDuration = 24 * time.Hour

	processingMarker = "processing"
)

var (
	redisGet   = redis.Get
	redisSet   = redis.Set
	redisSetNX = redis.SetNX
	redisDel   = redis.Del
)

type responseWriter struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

func (w responseWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

type storedResponse struct {
	Status int             `json:"status"`
	Body   json.RawMessage `json:"body"`
}

// IdempotencyMiddleware replays the stored response when a mutation is retried with the same key.
// Redis being unavailable disables the replay; the handlers stay safe on their own.
func IdempotencyMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.GetHeader(IdempotencyHeader)
		if key == "" {
			c.Next()
			return
		}

		userID, _ := GetUserID(c)
		route := c.FullPath()
		if route == "" {
			route = c.Request.URL.Path
		}
		storageKey := idempotencyStorageKey(userID, route, key)
		ctx := c.Request.Context()

		val, err := redisGet(ctx, storageKey)
		switch {
		case err == nil:
			if val == processingMarker {
				c.AbortWithStatusJSON(http.StatusConflict, gin.H{
					"error": "Request already in progress",
					"code":  "ERR_IDEMPOTENCY_CONFLICT",
				})
				return
			}
			replay(c, val)
			return
		case !errors.Is(err, goredis.Nil):
			logger.Warn(ctx, "Idempotency store unavailable", zap.String("key", key), zap.Error(err))
			c.Next()
			return
		}

		acquired, err := redisSetNX(ctx, storageKey, processingMarker, LockDuration)
		if err != nil || !acquired {
			c.AbortWithStatusJSON(http.StatusConflict, gin.H{
				"error": "Request already in progress",
				"code":  "ERR_IDEMPOTENCY_CONFLICT",
			})
			return
		}

		w := &responseWriter{body: &bytes.Buffer{}, ResponseWriter: c.Writer}
		c.Writer = w

		c.Next()

		status := c.Writer.Status()
		if status < 200 || status >= 300 {
			// allow a retry after a failure
			_ = redisDel(ctx, storageKey)
			return
		}
		if !json.Valid(w.body.Bytes()) {
			_ = redisDel(ctx, storageKey)
			return
		}
		payload, err := json.Marshal(storedResponse{Status: status, Body: w.body.Bytes()})
		if err != nil {
			_ = redisDel(ctx, storageKey)
			return
		}
		if err := redisSet(ctx, storageKey, string(payload), RetentionDuration); err != nil {
			logger.Warn(ctx, "Failed to store idempotent response", zap.String("key", key), zap.Error(err))
		}
	}
}

// idempotencyStorageKey scopes a client key to its caller and route, so one
// key reused on another endpoint never replays a foreign response.
func idempotencyStorageKey(userID uuid.UUID, route, key string) string {
	return fmt.Sprintf("idempotency:%s:%s:%s", userID, route, key)
}

func replay(c *gin.Context, val string) {
	var stored storedResponse
	if err := json.Unmarshal([]byte(val), &stored); err != nil || stored.Status == 0 {
		stored = storedResponse{Status: http.StatusOK, Body: json.RawMessage(val)}
	}
	c.Header("X-Idempotency-Hit", "true")
	c.Data(stored.Status, "application/json; charset=utf-8", stored.Body)
	c.Abort()
}
