package notify

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestQueueRunsTasks(t *testing.T) {
	q := NewQueue(zap.NewNop().Sugar(), 10)
	var count int32
	for i := 0; i < 5; i++ {
		ok := q.Enqueue("count", func(ctx context.Context) error {
			atomic.AddInt32(&count, 1)
			return nil
		})
		assert.True(t, ok)
	}
	assert.NoError(t, q.Close(context.Background()))
	assert.Equal(t, int32(5), atomic.LoadInt32(&count))
}

func TestQueueFailureDoesNotStopWorker(t *testing.T) {
	q := NewQueue(zap.NewNop().Sugar(), 10)
	var ran int32
	q.Enqueue("fail", func(ctx context.Context) error { return errors.New("smtp down") })
	q.Enqueue("panic", func(ctx context.Context) error { panic("boom") })
	q.Enqueue("ok", func(ctx context.Context) error {
		atomic.StoreInt32(&ran, 1)
		return nil
	})
	assert.NoError(t, q.Close(context.Background()))
	assert.Equal(t, int32(1), atomic.LoadInt32(&ran))
}

func TestQueueDropsWhenFull(t *testing.T) {
	q := NewQueue(zap.NewNop().Sugar(), 1)
	release := make(chan struct{})
	started := make(chan struct{})
	q.Enqueue("block", func(ctx context.Context) error {
		close(started)
		<-release
		return nil
	})
	<-started
	assert.True(t, q.Enqueue("buffered", func(ctx context.Context) error { return nil }))
	assert.False(t, q.Enqueue("dropped", func(ctx context.Context) error { return nil }))
	close(release)
	assert.NoError(t, q.Close(context.Background()))
}

func TestQueueRejectsAfterClose(t *testing.T) {
	q := NewQueue(zap.NewNop().Sugar(), 1)
	assert.NoError(t, q.Close(context.Background()))
	assert.False(t, q.Enqueue("late", func(ctx context.Context) error { return nil }))
	// closing twice is harmless
	assert.NoError(t, q.Close(context.Background()))
}

func TestQueueCloseTimeout(t *testing.T) {
	q := NewQueue(zap.NewNop().Sugar(), 1)
	q.Enqueue("slow", func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	})
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, q.Close(ctx), context.DeadlineExceeded)
}
