package logger_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"conduit/pkg/logger"
)

func TestNewLogger(t *testing.T) {
	levels := []string{"debug", "info", "warn", "warning", "error", "unknown", ""}

	for _, env := range []logger.Environment{logger.Development, logger.Production} {
		for _, level := range levels {
			t.Run(string(env)+"/level="+level, func(t *testing.T) {
				log, err := logger.NewLogger(env, level)
				require.NoError(t, err)
				require.NotNil(t, log)

				assert.NotPanics(t, func() {
					ctx := context.Background()
					log.Debug(ctx, "debug message")
					log.Info(ctx, "info message", zap.String("key", "value"))
					log.Warn(ctx, "warn message")
					log.Error(ctx, "error message")
				})
			})
		}
	}
}

func TestFromContext(t *testing.T) {
	t.Run("logger stored in context is returned", func(t *testing.T) {
		testLogger, err := logger.NewLogger(logger.Development, "debug")
		require.NoError(t, err)

		ctx := logger.NewContext(context.Background(), testLogger)

		got, err := logger.FromContext(ctx)
		require.NoError(t, err)
		assert.Same(t, testLogger, got)
	})

	t.Run("missing logger is an error", func(t *testing.T) {
		got, err := logger.FromContext(context.Background())
		require.ErrorIs(t, err, logger.ErrLoggerNotFound)
		assert.Nil(t, got)
	})

	t.Run("value of another type is ignored", func(t *testing.T) {
		type otherKey struct{}
		ctx := context.WithValue(context.Background(), otherKey{}, "not a logger")

		_, err := logger.FromContext(ctx)
		require.ErrorIs(t, err, logger.ErrLoggerNotFound)
	})
}

func TestLog(t *testing.T) {
	t.Cleanup(func() { logger.SetGlobalLogger(nil) })

	t.Run("fallback logger when nothing configured", func(t *testing.T) {
		logger.SetGlobalLogger(nil)
		assert.NotNil(t, logger.Log(context.Background()))
	})

	t.Run("global logger is kept on repeated init", func(t *testing.T) {
		logger.SetGlobalLogger(nil)

		require.NoError(t, logger.InitGlobalLoggerWithLevel(logger.Production, "info"))
		first := logger.Log(context.Background())

		require.NoError(t, logger.InitGlobalLogger(logger.Development))
		second := logger.Log(context.Background())

		assert.Same(t, first, second)
	})

	t.Run("context logger wins over global", func(t *testing.T) {
		require.NoError(t, logger.InitGlobalLogger(logger.Development))

		ctxLogger, err := logger.NewLogger(logger.Development, "debug")
		require.NoError(t, err)
		ctx := logger.NewContext(context.Background(), ctxLogger)

		assert.Same(t, ctxLogger, logger.Log(ctx))
	})
}

func TestRequestID(t *testing.T) {
	t.Run("explicit id is preserved", func(t *testing.T) {
		ctx := logger.NewRequestIDContext(context.Background(), "req-1")

		id, ok := logger.GetRequestID(ctx)
		require.True(t, ok)
		assert.Equal(t, "req-1", id)
	})

	t.Run("empty id is generated", func(t *testing.T) {
		ctx := logger.NewRequestIDContext(context.Background(), "")

		id, ok := logger.GetRequestID(ctx)
		require.True(t, ok)
		_, err := uuid.Parse(id)
		assert.NoError(t, err)
	})

	t.Run("no id in plain context", func(t *testing.T) {
		_, ok := logger.GetRequestID(context.Background())
		assert.False(t, ok)
	})

	t.Run("WithRequestID returns a derived logger", func(t *testing.T) {
		log, err := logger.NewLogger(logger.Development, "info")
		require.NoError(t, err)

		ctx := logger.NewRequestIDContext(context.Background(), "req-2")
		assert.NotSame(t, log, log.WithRequestID(ctx))
		assert.Same(t, log, log.WithRequestID(context.Background()))
	})
}
