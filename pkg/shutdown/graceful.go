// Package shutdown реализует корректное завершение процесса по SIGINT/SIGTERM.
package shutdown

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"go.uber.org/zap"

	"conduit/pkg/logger"
)

// Hook освобождает один ресурс при завершении.
type Hook func(context.Context) error

const (
	logSignalReceived = "shutdown signal received"
	logContextDone    = "parent context done, shutting down"
	logHookFailed     = "shutdown hook failed"
	logTimeout        = "shutdown timeout exceeded"
)

// Wait блокируется до SIGINT/SIGTERM или отмены ctx, затем параллельно
// выполняет hooks, ограничивая их общим timeout.
func Wait(ctx context.Context, timeout time.Duration, hooks ...Hook) {
	log := logger.Log(ctx)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	select {
	case sig := <-sigCh:
		log.Info(ctx, logSignalReceived, zap.String("signal", sig.String()))
	case <-ctx.Done():
		log.Info(ctx, logContextDone)
	}

	runHooks(context.WithoutCancel(ctx), timeout, hooks)
}

func runHooks(parent context.Context, timeout time.Duration, hooks []Hook) {
	log := logger.Log(parent)

	ctx, cancel := context.WithTimeout(parent, timeout)
	defer cancel()

	var wg sync.WaitGroup
	for _, hook := range hooks {
		wg.Add(1)
		go func(fn Hook) {
			defer wg.Done()
			if err := fn(ctx); err != nil {
				log.Error(ctx, logHookFailed, zap.Error(err))
			}
		}(hook)
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		log.Warn(ctx, logTimeout, zap.Duration("timeout", timeout))
	}
}
