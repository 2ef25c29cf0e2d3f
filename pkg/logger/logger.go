package logger

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	log  *zap.Logger
	once sync.Once
)

type ContextKey string

// RequestIDKey is the context key the request id middleware stores under.
const RequestIDKey ContextKey = "request_id"

// Init initializes the logger
func Init(env string) {
	once.Do(func() {
		config := zap.NewProductionConfig()
		config.EncoderConfig.TimeKey = "timestamp"
		config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

		if env == "development" {
			config = zap.NewDevelopmentConfig()
			config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		}

		var err error
		log, err = config.Build(zap.AddCallerSkip(1))
		if err != nil {
			panic(err)
		}
	})
}

// GetLogger returns the underlying zap logger, or a no-op logger before Init
func GetLogger() *zap.Logger {
	if log == nil {
		return zap.NewNop()
	}
	return log
}

// Replace swaps the global logger and returns a func that restores the previous one
func Replace(l *zap.Logger) func() {
	prev := log
	log = l
	return func() { log = prev }
}

// Sync flushes buffered entries
func Sync() {
	if log != nil {
		_ = log.Sync()
	}
}

// WithContext adds the request id carried by ctx to the logger
func WithContext(ctx context.Context) *zap.Logger {
	base := GetLogger()
	if ctx == nil {
		return base
	}
	if reqID, ok := ctx.Value(RequestIDKey).(string); ok && reqID != "" {
		return base.With(zap.String("request_id", reqID))
	}
	// gin.Context stores values under plain string keys
	if reqID, ok := ctx.Value(string(RequestIDKey)).(string); ok && reqID != "" {
		return base.With(zap.String("request_id", reqID))
	}
	return base
}

// Info logs a message at InfoLevel
func Info(ctx context.Context, msg string, fields ...zap.Field) {
	WithContext(ctx).Info(msg, fields...)
}

// Error logs a message at ErrorLevel
func Error(ctx context.Context, msg string, fields ...zap.Field) {
	WithContext(ctx).Error(msg, fields...)
}

// Debug logs a message at DebugLevel
func Debug(ctx context.Context, msg string, fields ...zap.Field) {
	WithContext(ctx).Debug(msg, fields...)
}

// Warn logs a message at WarnLevel
func Warn(ctx context.Context, msg string, fields ...zap.Field) {
	WithContext(ctx).Warn(msg, fields...)
}

// LogRequest logs one HTTP request. Server errors log at error level and
// client errors at warn.
func LogRequest(ctx context.Context, method, path string, status int, latency time.Duration, clientIP string, extra ...zap.Field) {
	fields := append([]zap.Field{
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", status),
		zap.Duration("latency", latency),
		zap.String("client_ip", clientIP),
	}, extra...)

	l := WithContext(ctx)
	switch {
	case status >= 500:
		l.Error("HTTP Request", fields...)
	case status >= 400:
		l.Warn("HTTP Request", fields...)
	default:
		l.Info("HTTP Request", fields...)
	}
}
