package scheduler

import (
	"context"
	"fmt"
	"time"

	"golang-garp-screener/internal/screener/dto"
	"golang-garp-screener/pkg/logger"

	"github.com/robfig/cron/v3"
)

// Enqueuer queues a screener run.
type Enqueuer interface {
	Enqueue(ctx context.Context, req dto.EnqueueRunRequest, requestedBy string) (*dto.EnqueueRunResponse, error)
}

// Scheduler enqueues a full screener run every time its cron expression fires.
type Scheduler struct {
	schedule cron.Schedule
	expr     string
	enqueuer Enqueuer
	logger   *logger.Logger
	now      func() time.Time
}

// New parses expr and creates a Scheduler. Standard five-field expressions
// and descriptors such as "@daily" are accepted.
func New(expr string, enqueuer Enqueuer, log *logger.Logger) (*Scheduler, error) {
	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)
	schedule, err := parser.Parse(expr)
	if err != nil {
		return nil, fmt.Errorf("invalid screener schedule %q: %w", expr, err)
	}
	return &Scheduler{
		schedule: schedule,
		expr:     expr,
		enqueuer: enqueuer,
		logger:   log,
		now:      time.Now,
	}, nil
}

// Next returns the first activation after t.
func (s *Scheduler) Next(t time.Time) time.Time {
	return s.schedule.Next(t)
}

// Start blocks until ctx is done, enqueueing a run at every activation.
func (s *Scheduler) Start(ctx context.Context) {
	s.logger.Info("Screener scheduler started", logger.StringField("schedule", s.expr))
	for {
		next := s.Next(s.now())
		timer := time.NewTimer(time.Until(next))

		select {
		case <-ctx.Done():
			timer.Stop()
			s.logger.Info("Screener scheduler stopping")
			return
		case <-timer.C:
			s.Trigger(ctx)
		}
	}
}

// Trigger enqueues one scheduled run.
func (s *Scheduler) Trigger(ctx context.Context) {
	resp, err := s.enqueuer.Enqueue(ctx, dto.EnqueueRunRequest{}, "scheduler")
	if err != nil {
		s.logger.Error("Failed to enqueue scheduled screener run", logger.ErrorField(err))
		return
	}
	s.logger.Info("Scheduled screener run enqueued",
		logger.StringField("request_id", resp.RequestID),
		logger.StringField("message_id", resp.MessageID),
	)
}
