package workerpool

import (
	"context"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
)

var quietLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

func TestPoolRunsAllTasks(t *testing.T) {
	p := New(4, 8, quietLogger)
	defer p.Shutdown()

	var done atomic.Int64
	for i := 0; i < 100; i++ {
		assert.True(t, p.Submit(context.Background(), func(ctx context.Context) {
			done.Add(1)
		}))
	}
	p.Wait()
	assert.Equal(t, int64(100), done.Load())
}

func TestPoolRecoversPanic(t *testing.T) {
	p := New(1, 1, quietLogger)

	var done atomic.Bool
	p.Submit(context.Background(), func(ctx context.Context) { panic("boom") })
	p.Submit(context.Background(), func(ctx context.Context) { done.Store(true) })
	p.Shutdown()

	assert.True(t, done.Load())
}

func TestTrySubmitFullQueue(t *testing.T) {
	p := New(1, 0, quietLogger)
	defer p.Shutdown()

	block := make(chan struct{})
	started := make(chan struct{})
	assert.True(t, p.Submit(context.Background(), func(ctx context.Context) {
		close(started)
		<-block
	}))
	<-started

	// 唯一的 worker 忙，且没有队列空间
	assert.False(t, p.TrySubmit(func(ctx context.Context) {}))
	close(block)
}

func TestSubmitCancelled(t *testing.T) {
	p := New(1, 0, quietLogger)
	defer p.Shutdown()

	block := make(chan struct{})
	started := make(chan struct{})
	p.Submit(context.Background(), func(ctx context.Context) {
		close(started)
		<-block
	})
	<-started

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.False(t, p.Submit(ctx, func(ctx context.Context) {}))
	close(block)
}

func TestStopCancelsRunningTasks(t *testing.T) {
	p := New(2, 2, quietLogger)

	started := make(chan struct{})
	var cancelled atomic.Bool
	p.Submit(context.Background(), func(ctx context.Context) {
		close(started)
		<-ctx.Done()
		cancelled.Store(true)
	})
	<-started
	p.Stop()

	assert.True(t, cancelled.Load())
}
