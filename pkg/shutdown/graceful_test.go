package shutdown_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"conduit/pkg/shutdown"
)

func TestWaitExecutesHooksOnContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	var calls atomic.Int32
	hook := func(context.Context) error {
		calls.Add(1)
		return nil
	}
	failing := func(context.Context) error {
		calls.Add(1)
		return errors.New("close failed")
	}

	done := make(chan struct{})
	go func() {
		shutdown.Wait(ctx, time.Second, hook, failing)
		close(done)
	}()

	cancel()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Wait did not return after context cancel")
	}
	assert.EqualValues(t, 2, calls.Load())
}

func TestWaitRespectsTimeout(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	slowHook := func(hookCtx context.Context) error {
		select {
		case <-time.After(2 * time.Second):
			return nil
		case <-hookCtx.Done():
			return hookCtx.Err()
		}
	}

	start := time.Now()
	shutdown.Wait(ctx, 200*time.Millisecond, slowHook)

	assert.Less(t, time.Since(start), time.Second)
}
