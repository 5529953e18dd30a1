package consumer

import (
	"context"
	"sync"
	"time"

	"golang-garp-screener/internal/screener/config"
	"golang-garp-screener/internal/screener/service"
	"golang-garp-screener/pkg/common"
	"golang-garp-screener/pkg/logger"
	"golang-garp-screener/pkg/utils"
)

// RedisConsumer runs the stream and retry loops of queued screener runs.
type RedisConsumer struct {
	cfg          *config.Config
	queueService service.RunQueueService
	logger       *logger.Logger
	stopChan     chan struct{}
	wg           sync.WaitGroup
}

// NewRedisConsumer creates a new RedisConsumer.
func NewRedisConsumer(cfg *config.Config, queueService service.RunQueueService, log *logger.Logger) *RedisConsumer {
	return &RedisConsumer{
		cfg:          cfg,
		queueService: queueService,
		logger:       log,
		stopChan:     make(chan struct{}),
	}
}

// Start registers the screener run handlers.
func (c *RedisConsumer) Start(ctx context.Context) {
	c.logger.Info("Redis consumer started")
	c.RegisterStreamHandler(ctx, c.queueService.ProcessTask, common.RedisStreamScreenerRun, c.cfg.Screener.RedisStreamRunTimeout)
	c.RegisterTickerHandler(ctx, c.queueService.ProcessRetries, c.cfg.Screener.RedisStreamRunRetryInterval, c.cfg.Screener.RedisStreamRunTimeout, common.RedisStreamScreenerRun+"-retry")
}

// RegisterStreamHandler calls fn in a loop until ctx is done or Stop is called.
func (c *RedisConsumer) RegisterStreamHandler(ctx context.Context, fn func(ctx context.Context), streamName string, timeout time.Duration) {
	c.logger.Info("Registering stream handler", logger.StringField("stream", streamName))
	c.wg.Add(1)
	utils.GoSafe(c.logger, func() {
		defer c.wg.Done()
		for {
			select {
			case <-ctx.Done():
				c.logger.Info("Stream handler stopping due to context cancellation", logger.StringField("stream", streamName))
				return
			case <-c.stopChan:
				c.logger.Info("Stream handler stopping", logger.StringField("stream", streamName))
				return
			default:
				ctxTimeout, cancel := context.WithTimeout(ctx, timeout)
				fn(ctxTimeout)
				cancel()
			}
		}
	})
}

// RegisterTickerHandler calls fn every interval until ctx is done or Stop is called.
func (c *RedisConsumer) RegisterTickerHandler(ctx context.Context, fn func(ctx context.Context), interval time.Duration, timeout time.Duration, name string) {
	c.logger.Info("Registering ticker handler",
		logger.StringField("name", name),
		logger.DurationField("interval", interval),
		logger.DurationField("timeout", timeout))
	c.wg.Add(1)
	utils.GoSafe(c.logger, func() {
		defer c.wg.Done()
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				ctxTimeout, cancel := context.WithTimeout(ctx, timeout)
				fn(ctxTimeout)
				cancel()
			case <-ctx.Done():
				c.logger.Info("Ticker handler stopping due to context cancellation", logger.StringField("name", name))
				return
			case <-c.stopChan:
				c.logger.Info("Ticker handler stopping", logger.StringField("name", name))
				return
			}
		}
	})
}

// Stop gracefully shuts down the consumer.
func (c *RedisConsumer) Stop() {
	close(c.stopChan)
	c.wg.Wait()
	c.logger.Info("Redis consumer stopped")
}
