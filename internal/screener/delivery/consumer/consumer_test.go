package consumer

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"golang-garp-screener/internal/screener/config"
	"golang-garp-screener/internal/screener/dto"
	"golang-garp-screener/pkg/logger"

	"github.com/stretchr/testify/assert"
)

type countingQueue struct {
	tasks   atomic.Int32
	retries atomic.Int32
}

func (q *countingQueue) Enqueue(context.Context, dto.EnqueueRunRequest, string) (*dto.EnqueueRunResponse, error) {
	return &dto.EnqueueRunResponse{}, nil
}

func (q *countingQueue) ProcessTask(ctx context.Context) {
	q.tasks.Add(1)
	select {
	case <-ctx.Done():
	case <-time.After(5 * time.Millisecond):
	}
}

func (q *countingQueue) ProcessRetries(context.Context) {
	q.retries.Add(1)
}

func TestRedisConsumer_StartStop(t *testing.T) {
	cfg := &config.Config{Screener: config.Screener{
		RedisStreamRunTimeout:       time.Second,
		RedisStreamRunRetryInterval: 10 * time.Millisecond,
	}}
	queue := &countingQueue{}
	c := NewRedisConsumer(cfg, queue, logger.NewNop())

	c.Start(context.Background())
	assert.Eventually(t, func() bool {
		return queue.tasks.Load() > 1 && queue.retries.Load() > 0
	}, time.Second, 5*time.Millisecond)

	stopped := make(chan struct{})
	go func() {
		c.Stop()
		close(stopped)
	}()
	select {
	case <-stopped:
	case <-time.After(time.Second):
		t.Fatal("consumer did not stop")
	}
}

func TestRedisConsumer_ContextCancel(t *testing.T) {
	cfg := &config.Config{Screener: config.Screener{
		RedisStreamRunTimeout:       time.Second,
		RedisStreamRunRetryInterval: time.Hour,
	}}
	c := NewRedisConsumer(cfg, &countingQueue{}, logger.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	c.Start(ctx)
	cancel()

	done := make(chan struct{})
	go func() {
		c.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("handlers did not exit on cancel")
	}
}
