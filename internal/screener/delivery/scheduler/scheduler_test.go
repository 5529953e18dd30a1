package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"golang-garp-screener/internal/screener/dto"
	"golang-garp-screener/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeEnqueuer struct {
	calls       int
	requestedBy string
	err         error
}

func (f *fakeEnqueuer) Enqueue(_ context.Context, _ dto.EnqueueRunRequest, requestedBy string) (*dto.EnqueueRunResponse, error) {
	f.calls++
	f.requestedBy = requestedBy
	if f.err != nil {
		return nil, f.err
	}
	return &dto.EnqueueRunResponse{RequestID: "r", MessageID: "1-0"}, nil
}

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		expr    string
		from    time.Time
		want    time.Time
		wantErr bool
	}{
		{
			name: "weekday evenings",
			expr: "30 21 * * 1-5",
			from: time.Date(2025, 3, 7, 22, 0, 0, 0, time.UTC),
			want: time.Date(2025, 3, 10, 21, 30, 0, 0, time.UTC),
		},
		{
			name: "descriptor",
			expr: "@daily",
			from: time.Date(2025, 3, 7, 22, 0, 0, 0, time.UTC),
			want: time.Date(2025, 3, 8, 0, 0, 0, 0, time.UTC),
		},
		{name: "seconds field rejected", expr: "0 30 21 * * 1-5", wantErr: true},
		{name: "garbage", expr: "every day", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := New(tt.expr, &fakeEnqueuer{}, logger.NewNop())
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, s.Next(tt.from))
		})
	}
}

func TestScheduler_Trigger(t *testing.T) {
	enq := &fakeEnqueuer{}
	s, err := New("@hourly", enq, logger.NewNop())
	require.NoError(t, err)

	s.Trigger(context.Background())
	assert.Equal(t, 1, enq.calls)
	assert.Equal(t, "scheduler", enq.requestedBy)

	enq.err = errors.New("redis down")
	s.Trigger(context.Background())
	assert.Equal(t, 2, enq.calls)
}

func TestScheduler_StartStopsOnCancel(t *testing.T) {
	s, err := New("@yearly", &fakeEnqueuer{}, logger.NewNop())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		s.Start(ctx)
		close(done)
	}()
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("scheduler did not stop")
	}
}
