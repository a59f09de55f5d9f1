package jobs_test

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"posttracker/internal/core/application/usecases/queries"
	"posttracker/internal/core/domain/model/kernel"
	"posttracker/internal/core/domain/model/post"
	"posttracker/internal/jobs"
	"posttracker/internal/pkg/metrics"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2024, 2, 10, 6, 0, 0, 0, time.UTC)

type MockOverdueHandler struct{ mock.Mock }

func (m *MockOverdueHandler) Handle(
	ctx context.Context,
	query queries.GetOverduePostsQuery,
) ([]queries.GetOverduePostsQueryResponse, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]queries.GetOverduePostsQueryResponse), args.Error(1)
}

func newJob(handler *MockOverdueHandler, schedule string) *jobs.OverduePostsJob {
	return jobs.NewOverduePostsJob(handler, schedule, func() time.Time { return fixedNow }, slog.New(slog.DiscardHandler))
}

func TestOverduePostsJob_Run(t *testing.T) {
	t.Run("should publish the overdue count", func(t *testing.T) {
		handler := new(MockOverdueHandler)
		handler.On("Handle", mock.Anything, mock.MatchedBy(func(q queries.GetOverduePostsQuery) bool {
			return q.Now().Equal(fixedNow)
		})).Return([]queries.GetOverduePostsQueryResponse{
			{ID: 1, TrackingCode: kernel.NewTrackingCode(), Status: post.Created, EstimatedDelivery: fixedNow.Add(-48 * time.Hour)},
			{ID: 2, TrackingCode: kernel.NewTrackingCode(), Status: post.InTransit, EstimatedDelivery: fixedNow.Add(-time.Hour)},
		}, nil)

		count := newJob(handler, "").Run(t.Context())

		assert.Equal(t, 2, count)
		assert.InDelta(t, 2.0, testutil.ToFloat64(metrics.OverduePosts), 1e-9)
		handler.AssertExpectations(t)
	})

	t.Run("should reset the gauge when nothing is overdue", func(t *testing.T) {
		metrics.OverduePosts.Set(5)
		handler := new(MockOverdueHandler)
		handler.On("Handle", mock.Anything, mock.Anything).Return([]queries.GetOverduePostsQueryResponse{}, nil)

		count := newJob(handler, "").Run(t.Context())

		assert.Equal(t, 0, count)
		assert.InDelta(t, 0.0, testutil.ToFloat64(metrics.OverduePosts), 1e-9)
	})

	t.Run("should keep the gauge on failure", func(t *testing.T) {
		metrics.OverduePosts.Set(3)
		handler := new(MockOverdueHandler)
		handler.On("Handle", mock.Anything, mock.Anything).Return(nil, errors.New("db down"))

		count := newJob(handler, "").Run(t.Context())

		assert.Equal(t, -1, count)
		assert.InDelta(t, 3.0, testutil.ToFloat64(metrics.OverduePosts), 1e-9)
	})
}

func TestOverduePostsJob_Start(t *testing.T) {
	t.Run("should reject an invalid schedule", func(t *testing.T) {
		job := newJob(new(MockOverdueHandler), "not a schedule")

		require.Error(t, job.Start())
	})

	t.Run("should run on schedule until stopped", func(t *testing.T) {
		var ran atomic.Bool
		handler := new(MockOverdueHandler)
		handler.On("Handle", mock.Anything, mock.Anything).
			Run(func(mock.Arguments) { ran.Store(true) }).
			Return([]queries.GetOverduePostsQueryResponse{}, nil)
		job := newJob(handler, "* * * * * *")

		require.NoError(t, job.Start())
		assert.Eventually(t, ran.Load, 3*time.Second, 50*time.Millisecond)
		job.Stop()
	})
}

func TestJobManager_StartAllStopAll(t *testing.T) {
	handler := new(MockOverdueHandler)
	handler.On("Handle", mock.Anything, mock.Anything).Return([]queries.GetOverduePostsQueryResponse{}, nil).Maybe()

	manager := jobs.NewJobManager(handler, "", func() time.Time { return fixedNow }, slog.New(slog.DiscardHandler))

	require.NoError(t, manager.StartAll())
	manager.StopAll()
}
