package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"golang-garp-screener/internal/screener/config"
	"golang-garp-screener/internal/screener/dto"
	"golang-garp-screener/pkg/common"
	"golang-garp-screener/pkg/logger"
	"golang-garp-screener/pkg/telegram"
	"golang-garp-screener/pkg/utils"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// RunQueueService queues screener runs on a Redis stream and executes them.
type RunQueueService interface {
	Enqueue(ctx context.Context, req dto.EnqueueRunRequest, requestedBy string) (*dto.EnqueueRunResponse, error)
	ProcessTask(ctx context.Context)
	ProcessRetries(ctx context.Context)
}

type runQueueService struct {
	cfg         *config.Config
	log         *logger.Logger
	redisClient *redis.Client
	screener    ScreenerService
	telegramBot telegram.Notifier
}

// NewRunQueueService creates a new RunQueueService. telegramBot may be nil.
func NewRunQueueService(cfg *config.Config, log *logger.Logger,
	redisClient *redis.Client,
	screener ScreenerService,
	telegramBot telegram.Notifier) RunQueueService {
	return &runQueueService{
		cfg:         cfg,
		log:         log,
		redisClient: redisClient,
		screener:    screener,
		telegramBot: telegramBot,
	}
}

// Enqueue publishes a run request on the screener stream.
func (s *runQueueService) Enqueue(ctx context.Context, req dto.EnqueueRunRequest, requestedBy string) (*dto.EnqueueRunResponse, error) {
	if req.Limit < 0 {
		return nil, fmt.Errorf("limit must not be negative, got %d", req.Limit)
	}
	data := dto.StreamDataScreenerRun{
		RequestID:   uuid.NewString(),
		Limit:       req.Limit,
		Symbols:     req.Symbols,
		RequestedBy: requestedBy,
		RequestedAt: utils.TimeNowMarket(),
	}
	payload, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal run request: %w", err)
	}

	messageID, err := s.redisClient.XAdd(ctx, &redis.XAddArgs{
		Stream: common.RedisStreamScreenerRun,
		Values: map[string]interface{}{"payload": string(payload)},
		MaxLen: s.cfg.Redis.StreamMaxLen,
		Approx: true,
	}).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to enqueue screener run: %w", err)
	}

	s.log.InfoContext(ctx, "Screener run enqueued",
		logger.StringField("request_id", data.RequestID),
		logger.StringField("message_id", messageID),
		logger.StringField("requested_by", requestedBy),
	)
	return &dto.EnqueueRunResponse{RequestID: data.RequestID, MessageID: messageID}, nil
}

// ProcessTask reads one queued run and executes it. The message is only
// acknowledged once the run has been persisted.
func (s *runQueueService) ProcessTask(ctx context.Context) {
	streams, err := s.redisClient.XReadGroup(ctx, &redis.XReadGroupArgs{
		Group:    common.RedisStreamGroup,
		Consumer: common.RedisStreamConsumer,
		Streams:  []string{common.RedisStreamScreenerRun, ">"},
		Count:    1,
		Block:    2 * time.Second,
	}).Result()
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) || errors.Is(err, redis.Nil) {
			return
		}
		s.log.Error("Failed to read from stream", logger.ErrorField(err))
		return
	}

	if len(streams) == 0 || len(streams[0].Messages) == 0 {
		return
	}

	message := streams[0].Messages[0]
	streamData, err := decodeRunPayload(message.Values)
	if err != nil {
		s.log.Error("Dropping malformed screener run message", logger.ErrorField(err), logger.StringField("message_id", message.ID))
		if err := s.AckNDel(ctx, common.RedisStreamScreenerRun, message.ID); err != nil {
			s.log.Error("Failed to acknowledge malformed message", logger.ErrorField(err), logger.StringField("message_id", message.ID))
		}
		return
	}

	if err := s.execute(ctx, streamData); err != nil {
		s.log.Error("Failed to execute queued screener run", logger.ErrorField(err), logger.StringField("message_id", message.ID), logger.StringField("request_id", streamData.RequestID))
		return
	}
	if err := s.AckNDel(ctx, common.RedisStreamScreenerRun, message.ID); err != nil {
		s.log.Error("Failed to acknowledge and delete screener run task", logger.ErrorField(err), logger.StringField("message_id", message.ID))
		return
	}
	s.log.Debug("Screener run task processed successfully", logger.StringField("request_id", streamData.RequestID))
}

// AckNDel acknowledges and deletes a stream message.
func (s *runQueueService) AckNDel(ctx context.Context, streamName string, messageID string) error {
	if err := s.redisClient.XAck(ctx, streamName, common.RedisStreamGroup, messageID).Err(); err != nil {
		return fmt.Errorf("failed to acknowledge message %s: %w", messageID, err)
	}
	if err := s.redisClient.XDel(ctx, streamName, messageID).Err(); err != nil {
		return fmt.Errorf("failed to delete message %s: %w", messageID, err)
	}
	return nil
}

// ProcessRetries claims one run left pending longer than the max idle
// duration and executes it again, or drops it with an alert once it has
// exceeded the retry budget.
func (s *runQueueService) ProcessRetries(ctx context.Context) {
	msgs, _, err := s.redisClient.XAutoClaim(ctx, &redis.XAutoClaimArgs{
		Stream:   common.RedisStreamScreenerRun,
		Group:    common.RedisStreamGroup,
		Consumer: common.RedisStreamConsumer + "-retry",
		MinIdle:  s.cfg.Screener.RedisStreamRunMaxIdleDuration,
		Start:    "0",
		Count:    1,
	}).Result()
	if err != nil {
		s.log.Error("Failed to claim screener run task on retry", logger.ErrorField(err))
		return
	}

	if len(msgs) == 0 {
		s.log.Debug("Retry No pending messages found", logger.StringField("stream", common.RedisStreamScreenerRun))
		return
	}

	pendingInfo, err := s.redisClient.XPendingExt(ctx, &redis.XPendingExtArgs{
		Stream: common.RedisStreamScreenerRun,
		Group:  common.RedisStreamGroup,
		Start:  msgs[0].ID,
		End:    msgs[0].ID,
		Count:  1,
	}).Result()
	if err != nil {
		s.log.Error("Failed to get pending info", logger.ErrorField(err))
		return
	}
	if len(pendingInfo) == 0 {
		s.log.Warn("pending msg not found, but exist on xautoclaim",
			logger.StringField("stream", common.RedisStreamScreenerRun),
			logger.StringField("message_id", msgs[0].ID))
		return
	}

	msg := msgs[0]
	streamData, err := decodeRunPayload(msg.Values)
	if err != nil {
		s.log.Error("Dropping malformed screener run message", logger.ErrorField(err), logger.StringField("message_id", msg.ID))
		if err := s.AckNDel(ctx, common.RedisStreamScreenerRun, msg.ID); err != nil {
			s.log.Error("Failed to acknowledge malformed message", logger.ErrorField(err), logger.StringField("message_id", msg.ID))
		}
		return
	}

	if exceedsRetries(pendingInfo[0].RetryCount, s.cfg.Screener.RedisStreamRunMaxRetry) {
		s.log.Error("pending msg retry count exceeded",
			logger.StringField("stream", common.RedisStreamScreenerRun),
			logger.StringField("message_id", msg.ID),
			logger.StringField("request_id", streamData.RequestID),
			logger.IntField("retry_count", int(pendingInfo[0].RetryCount)),
			logger.IntField("max_retry", s.cfg.Screener.RedisStreamRunMaxRetry),
		)
		if s.telegramBot != nil {
			payload, _ := json.Marshal(streamData)
			alert := telegram.FormatErrorAlertMessage(utils.TimeNowMarket(), "Screener run retry exceeded",
				fmt.Sprintf("queued run %s failed %d times", streamData.RequestID, pendingInfo[0].RetryCount), string(payload))
			if err := s.telegramBot.SendMessage(alert); err != nil {
				s.log.Error("Failed to send telegram message retry exceeded", logger.ErrorField(err), logger.StringField("request_id", streamData.RequestID))
			}
		}
		if err := s.AckNDel(ctx, common.RedisStreamScreenerRun, msg.ID); err != nil {
			s.log.Error("Failed to acknowledge and delete screener run task", logger.ErrorField(err), logger.StringField("message_id", msg.ID))
		}
		return
	}

	if err := s.execute(ctx, streamData); err != nil {
		s.log.Error("Failed to execute retried screener run", logger.ErrorField(err), logger.StringField("message_id", msg.ID), logger.StringField("request_id", streamData.RequestID))
		return
	}
	if err := s.AckNDel(ctx, common.RedisStreamScreenerRun, msg.ID); err != nil {
		s.log.Error("Failed to acknowledge and delete screener run task", logger.ErrorField(err), logger.StringField("message_id", msg.ID))
		return
	}
	s.log.Info("Retry screener run task processed successfully", logger.StringField("request_id", streamData.RequestID))
}

func (s *runQueueService) execute(ctx context.Context, data dto.StreamDataScreenerRun) error {
	s.log.Info("Executing queued screener run",
		logger.StringField("request_id", data.RequestID),
		logger.IntField("limit", data.Limit),
		logger.IntField("symbols", len(data.Symbols)),
	)
	run, err := s.screener.Run(ctx, dto.RunOptions{Limit: data.Limit, Symbols: data.Symbols})
	if err != nil {
		return err
	}
	s.log.Info("Queued screener run finished",
		logger.StringField("request_id", data.RequestID),
		logger.StringField("run_id", run.ID),
		logger.IntField("matches", run.TotalMatches),
	)
	return nil
}

func decodeRunPayload(values map[string]interface{}) (dto.StreamDataScreenerRun, error) {
	var data dto.StreamDataScreenerRun
	raw, ok := values["payload"].(string)
	if !ok {
		return data, errors.New("field 'payload' not found or not a string in stream message")
	}
	if err := json.Unmarshal([]byte(raw), &data); err != nil {
		return data, fmt.Errorf("failed to unmarshal run payload: %w", err)
	}
	if data.Limit < 0 {
		return data, fmt.Errorf("invalid limit %d", data.Limit)
	}
	return data, nil
}

func exceedsRetries(retryCount int64, maxRetry int) bool {
	return retryCount >= int64(maxRetry)
}
