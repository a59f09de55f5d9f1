package commands_test

import (
	"context"
	"testing"
	"time"

	"posttracker/internal/core/application/usecases/commands"
	"posttracker/internal/core/domain/model/kernel"
	"posttracker/internal/core/domain/model/notification"
	"posttracker/internal/core/domain/model/post"
	"posttracker/internal/core/ports"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockPostRepository struct{ mock.Mock }

func (m *MockPostRepository) Add(ctx context.Context, p *post.Post) (*post.Post, error) {
	args := m.Called(ctx, p)
	if v := args.Get(0); v != nil {
		return v.(*post.Post), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockPostRepository) Update(ctx context.Context, p *post.Post) (*post.Post, error) {
	args := m.Called(ctx, p)
	if v := args.Get(0); v != nil {
		return v.(*post.Post), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockPostRepository) Get(ctx context.Context, id int64) (*post.Post, error) {
	args := m.Called(ctx, id)
	if v := args.Get(0); v != nil {
		return v.(*post.Post), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockPostRepository) GetByTrackingCode(ctx context.Context, code kernel.TrackingCode) (*post.Post, error) {
	args := m.Called(ctx, code)
	if v := args.Get(0); v != nil {
		return v.(*post.Post), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockPostRepository) ExistsByTrackingCode(ctx context.Context, code kernel.TrackingCode) (bool, error) {
	args := m.Called(ctx, code)
	return args.Bool(0), args.Error(1)
}

type MockAddressRepository struct{ mock.Mock }

func (m *MockAddressRepository) Add(ctx context.Context, a *post.Address) (*post.Address, error) {
	args := m.Called(ctx, a)
	if v := args.Get(0); v != nil {
		return v.(*post.Address), args.Error(1)
	}
	return nil, args.Error(1)
}

type MockUoW struct{ mock.Mock }

func (m *MockUoW) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) PostRepository() ports.PostRepository {
	args := m.Called()
	return args.Get(0).(ports.PostRepository)
}

func (m *MockUoW) AddressRepository() ports.AddressRepository {
	args := m.Called()
	return args.Get(0).(ports.AddressRepository)
}

type MockUoWFactory struct{ mock.Mock }

func (m *MockUoWFactory) Create() commands.UoW {
	args := m.Called()
	return args.Get(0).(commands.UoW)
}

type MockPostUoWFactory struct{ mock.Mock }

func (m *MockPostUoWFactory) Create() commands.PostUoW {
	args := m.Called()
	return args.Get(0).(commands.PostUoW)
}

type MockResolver struct{ mock.Mock }

func (m *MockResolver) Resolve(ctx context.Context, postalCode string) (ports.ResolvedAddress, error) {
	args := m.Called(ctx, postalCode)
	return args.Get(0).(ports.ResolvedAddress), args.Error(1)
}

type MockPublisher struct{ mock.Mock }

func (m *MockPublisher) Publish(ctx context.Context, routingKey string, event notification.Event) error {
	return m.Called(ctx, routingKey, event).Error(0)
}

type MockNotifier struct{ mock.Mock }

func (m *MockNotifier) AwaitPredecessor(
	ctx context.Context,
	queue string,
	postID int64,
	compose notification.Compose,
) error {
	return m.Called(ctx, queue, postID, compose).Error(0)
}

func (m *MockNotifier) PublishSuccessor(ctx context.Context, routingKey string, event notification.Event) error {
	return m.Called(ctx, routingKey, event).Error(0)
}

type MockCache struct{ mock.Mock }

func (m *MockCache) Get(ctx context.Context, code kernel.TrackingCode) (*post.Post, bool, error) {
	args := m.Called(ctx, code)
	if v := args.Get(0); v != nil {
		return v.(*post.Post), args.Bool(1), args.Error(2)
	}
	return nil, args.Bool(1), args.Error(2)
}

func (m *MockCache) Set(ctx context.Context, p *post.Post) error {
	return m.Called(ctx, p).Error(0)
}

func (m *MockCache) Refresh(ctx context.Context, p *post.Post) (bool, error) {
	args := m.Called(ctx, p)
	return args.Bool(0), args.Error(1)
}

var (
	fixedNow   = time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)
	fixedClock = commands.Clock(func() time.Time { return fixedNow })
)

// restoredPost builds a stored post in the given status with one history
// entry per stage reached.
func restoredPost(t *testing.T, id int64, status post.Status, version int) *post.Post {
	t.Helper()
	created := fixedNow.Add(-72 * time.Hour)
	address, err := post.RestoreAddress(5, "01001000", "SAO PAULO", "SP", "PRACA DA SE", "SE", "100", "")
	require.NoError(t, err)

	s := post.Snapshot{
		ID:                id,
		TrackingCode:      kernel.NewTrackingCode(),
		Email:             "ANA@EXAMPLE.COM",
		Carrier:           "CORREIOS",
		Weight:            6.8,
		Height:            10,
		Width:             5,
		Length:            10,
		Volume:            500,
		Fee:               23.6,
		CreatedAt:         created,
		EstimatedDelivery: created.Add(post.EstimatedDeliveryOffset),
		Status:            status,
		History:           []post.HistoryEntry{{At: created, Status: post.Created}},
		Address:           address,
		Version:           version,
	}
	if status >= post.InTransit {
		at := created.Add(24 * time.Hour)
		s.DispatchedAt = &at
		s.History = append(s.History, post.HistoryEntry{At: at, Status: post.InTransit})
	}
	if status == post.Delivered {
		at := created.Add(48 * time.Hour)
		s.DeliveredAt = &at
		s.History = append(s.History, post.HistoryEntry{At: at, Status: post.Delivered})
	}

	p, err := post.RestorePost(s)
	require.NoError(t, err)
	return p
}
