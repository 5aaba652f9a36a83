package jobs

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueueProcessesJobs(t *testing.T) {
	var processed int64
	queue := NewQueue("test", func(_ context.Context, _ Job) error {
		atomic.AddInt64(&processed, 1)
		return nil
	}, QueueConfig{Workers: 2})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	queue.Start(ctx)
	defer queue.Stop()

	for i := 0; i < 5; i++ {
		require.NoError(t, queue.Enqueue(Job{ID: "j", Type: "test"}))
	}

	require.Eventually(t, func() bool {
		return atomic.LoadInt64(&processed) == 5
	}, 2*time.Second, 10*time.Millisecond)
}

func TestQueueRetriesFailedJobs(t *testing.T) {
	var attempts int64
	queue := NewQueue("test", func(_ context.Context, _ Job) error {
		if atomic.AddInt64(&attempts, 1) == 1 {
			return errors.New("transient")
		}
		return nil
	}, QueueConfig{Workers: 1, RetryDelay: 10 * time.Millisecond})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	queue.Start(ctx)
	defer queue.Stop()

	require.NoError(t, queue.Enqueue(Job{ID: "j", Type: "test"}))

	require.Eventually(t, func() bool {
		return atomic.LoadInt64(&attempts) >= 2
	}, 2*time.Second, 10*time.Millisecond)
}

func TestQueueRejectsEnqueueBeforeStart(t *testing.T) {
	queue := NewQueue("test", func(_ context.Context, _ Job) error { return nil }, QueueConfig{})
	assert.Error(t, queue.Enqueue(Job{ID: "j"}))
}
