package retry_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"conduit/pkg/retry"
)

var errTemporary = errors.New("temporary failure")

func fastConfig(attempts int) retry.Config {
	return retry.Config{
		MaxAttempts:    attempts,
		InitialBackoff: time.Millisecond,
		MaxBackoff:     2 * time.Millisecond,
		Factor:         2,
	}
}

func TestDo(t *testing.T) {
	ctx := context.Background()

	t.Run("успех с первой попытки", func(t *testing.T) {
		calls := 0
		err := retry.Do(ctx, "test", fastConfig(3), func(context.Context) error {
			calls++
			return nil
		})
		require.NoError(t, err)
		assert.Equal(t, 1, calls)
	})

	t.Run("успех после повторов", func(t *testing.T) {
		calls := 0
		err := retry.Do(ctx, "test", fastConfig(5), func(context.Context) error {
			calls++
			if calls < 3 {
				return errTemporary
			}
			return nil
		})
		require.NoError(t, err)
		assert.Equal(t, 3, calls)
	})

	t.Run("попытки исчерпаны", func(t *testing.T) {
		calls := 0
		err := retry.Do(ctx, "test", fastConfig(3), func(context.Context) error {
			calls++
			return errTemporary
		})
		require.ErrorIs(t, err, errTemporary)
		assert.Equal(t, 3, calls)
	})

	t.Run("ноль попыток означает одну", func(t *testing.T) {
		calls := 0
		err := retry.Do(ctx, "test", fastConfig(0), func(context.Context) error {
			calls++
			return errTemporary
		})
		require.ErrorIs(t, err, errTemporary)
		assert.Equal(t, 1, calls)
	})

	t.Run("неповторяемая ошибка", func(t *testing.T) {
		errFatal := errors.New("fatal")
		cfg := fastConfig(5)
		cfg.ShouldRetry = func(err error) bool { return !errors.Is(err, errFatal) }

		calls := 0
		err := retry.Do(ctx, "test", cfg, func(context.Context) error {
			calls++
			return errFatal
		})
		require.ErrorIs(t, err, errFatal)
		assert.Equal(t, 1, calls)
	})

	t.Run("отмена контекста во время ожидания", func(t *testing.T) {
		cctx, cancel := context.WithCancel(ctx)
		cfg := fastConfig(5)
		cfg.InitialBackoff = time.Hour
		cfg.MaxBackoff = time.Hour

		err := retry.Do(cctx, "test", cfg, func(context.Context) error {
			cancel()
			return errTemporary
		})
		require.ErrorIs(t, err, retry.ErrContextCanceled)
		assert.ErrorIs(t, err, context.Canceled)
	})
}
