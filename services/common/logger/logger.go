package logger

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	// Log is the global logger instance
	Log *zap.Logger = zap.NewNop()
)

// RequestIDKey is the key used to store the request ID in gin and request contexts
const RequestIDKey = "request_id"

type ctxKey struct{}

// Initialize sets up the logger for the given environment
func Initialize(env string) {
	InitializeWithWriter(env, nil)
}

// InitializeWithWriter sets up the logger and, when extra is non-nil, tees
// JSON-encoded entries into it (the CloudWatch Logs writer).
func InitializeWithWriter(env string, extra io.Writer) {
	l, err := Build(env, extra)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	Log = l
	zap.ReplaceGlobals(l)
}

// Build returns a logger without touching the global.
func Build(env string, extra io.Writer) (*zap.Logger, error) {
	var config zap.Config
	if env == "production" {
		config = zap.NewProductionConfig()
		config.EncoderConfig.TimeKey = "timestamp"
		config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	} else {
		config = zap.NewDevelopmentConfig()
		config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	if extra == nil {
		return config.Build()
	}

	level := zap.NewAtomicLevelAt(config.Level.Level())
	consoleCore := zapcore.NewCore(zapcore.NewConsoleEncoder(config.EncoderConfig), zapcore.AddSync(os.Stdout), level)

	jsonConfig := config.EncoderConfig
	jsonConfig.EncodeLevel = zapcore.LowercaseLevelEncoder
	extraCore := zapcore.NewCore(zapcore.NewJSONEncoder(jsonConfig), zapcore.AddSync(extra), level)

	return zap.New(zapcore.NewTee(consoleCore, extraCore), zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel)), nil
}

// OrNop returns l, or a no-op logger when l is nil.
func OrNop(l *zap.Logger) *zap.Logger {
	if l == nil {
		return zap.NewNop()
	}
	return l
}

// WithRequestID stores the request ID in ctx
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, ctxKey{}, requestID)
}

// RequestID extracts the request ID from a request or gin context
func RequestID(ctx context.Context) string {
	if ginCtx, ok := ctx.(*gin.Context); ok {
		if v := ginCtx.GetString(RequestIDKey); v != "" {
			return v
		}
		if ginCtx.Request == nil {
			return "unknown"
		}
		ctx = ginCtx.Request.Context()
	}
	if v, ok := ctx.Value(ctxKey{}).(string); ok {
		return v
	}
	return "unknown"
}

// For returns l annotated with the request ID carried by ctx
func For(ctx context.Context, l *zap.Logger) *zap.Logger {
	return OrNop(l).With(zap.String(RequestIDKey, RequestID(ctx)))
}

// Error logs an error on the global logger with the request ID of ctx
func Error(ctx context.Context, msg string, err error, fields ...zap.Field) {
	if err != nil {
		fields = append(fields, zap.Error(err))
	}
	For(ctx, Log).Error(msg, fields...)
}

// Info logs on the global logger with the request ID of ctx
func Info(ctx context.Context, msg string, fields ...zap.Field) {
	For(ctx, Log).Info(msg, fields...)
}

// Warn logs on the global logger with the request ID of ctx
func Warn(ctx context.Context, msg string, fields ...zap.Field) {
	For(ctx, Log).Warn(msg, fields...)
}
