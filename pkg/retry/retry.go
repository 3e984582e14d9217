// Package retry повторяет операцию с экспоненциальной задержкой.
package retry

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"conduit/pkg/logger"
)

// Config содержит настройки повторов.
type Config struct {
	// MaxAttempts - число попыток, включая первую. Значения меньше 1 означают одну попытку.
	MaxAttempts int
	// InitialBackoff - задержка перед второй попыткой.
	InitialBackoff time.Duration
	// MaxBackoff ограничивает рост задержки.
	MaxBackoff time.Duration
	// Factor - множитель задержки между попытками.
	Factor float64
	// ShouldRetry решает, стоит ли повторять после ошибки. nil - повторять все,
	// кроме отмены контекста.
	ShouldRetry func(error) bool
}

// DefaultConfig возвращает настройки по умолчанию.
func DefaultConfig() Config {
	return Config{
		MaxAttempts:    3,
		InitialBackoff: 100 * time.Millisecond,
		MaxBackoff:     time.Second,
		Factor:         2.0,
	}
}

// ErrContextCanceled - контекст отменен во время ожидания следующей попытки.
var ErrContextCanceled = errors.New("context was canceled during retry")

const (
	logRetryAttempt     = "retry attempt"
	logRetrySuccess     = "retry succeeded"
	logRetryMaxAttempts = "retry max attempts reached"
)

func retryable(err error) bool {
	return !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded)
}

// Do выполняет op, пока она не завершится успешно, не вернет неповторяемую
// ошибку или не кончатся попытки. Возвращает последнюю ошибку op.
func Do(ctx context.Context, name string, cfg Config, op func(context.Context) error) error {
	log := logger.Log(ctx).With(zap.String("retry", name))

	shouldRetry := cfg.ShouldRetry
	if shouldRetry == nil {
		shouldRetry = retryable
	}
	maxAttempts := max(cfg.MaxAttempts, 1)
	backoff := cfg.InitialBackoff

	for attempt := 1; ; attempt++ {
		err := op(ctx)
		if err == nil {
			if attempt > 1 {
				log.Info(ctx, logRetrySuccess, zap.Int("attempts", attempt))
			}
			return nil
		}
		if !shouldRetry(err) {
			return err
		}
		if attempt >= maxAttempts {
			if maxAttempts > 1 {
				log.Warn(ctx, logRetryMaxAttempts, zap.Int("attempts", attempt), zap.Error(err))
			}
			return err
		}

		log.Info(ctx, logRetryAttempt,
			zap.Int("attempt", attempt),
			zap.Duration("backoff", backoff),
			zap.Error(err))

		timer := time.NewTimer(backoff)
		select {
		case <-timer.C:
		case <-ctx.Done():
			timer.Stop()
			return fmt.Errorf("%w: %w", ErrContextCanceled, ctx.Err())
		}

		if cfg.Factor > 1 {
			backoff = time.Duration(float64(backoff) * cfg.Factor)
		}
		if cfg.MaxBackoff > 0 && backoff > cfg.MaxBackoff {
			backoff = cfg.MaxBackoff
		}
	}
}
