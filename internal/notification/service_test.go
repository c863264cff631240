package notification

import (
	"context"
	"errors"
	"testing"

	"github.com/kpata360-rgb/workisready-backend1/internal/common"
	"github.com/kpata360-rgb/workisready-backend1/internal/platform/database/dbtest"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// MockNotificationRepository is a mock type for notification.Repository
type MockNotificationRepository struct {
	mock.Mock
}

func (m *MockNotificationRepository) Create(ctx context.Context, notification *Notification) error {
	args := m.Called(ctx, notification)
	return args.Error(0)
}

func (m *MockNotificationRepository) List(ctx context.Context, userID uuid.UUID, q ListQuery) ([]Notification, *common.Pagination, error) {
	args := m.Called(ctx, userID, q)
	items, _ := args.Get(0).([]Notification)
	p, _ := args.Get(1).(*common.Pagination)
	return items, p, args.Error(2)
}

func (m *MockNotificationRepository) CountUnread(ctx context.Context, userID uuid.UUID) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockNotificationRepository) MarkRead(ctx context.Context, id, userID uuid.UUID) error {
	return m.Called(ctx, id, userID).Error(0)
}

func (m *MockNotificationRepository) MarkAllRead(ctx context.Context, userID uuid.UUID) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

func TestNotifySwallowsRepositoryErrors(t *testing.T) {
	repo := new(MockNotificationRepository)
	svc := NewService(repo, zap.NewNop())
	userID := uuid.New()

	repo.On("Create", mock.Anything, mock.MatchedBy(func(n *Notification) bool {
		return n.UserID == userID && n.Type == ProviderApproved
	})).Return(errors.New("db down")).Once()

	assert.NotPanics(t, func() {
		svc.Notify(context.Background(), userID, ProviderApproved, "approved", nil)
	})
	repo.AssertExpectations(t)
}

func TestMarkAllPropagatesErrors(t *testing.T) {
	repo := new(MockNotificationRepository)
	svc := NewService(repo, zap.NewNop())
	userID := uuid.New()

	repo.On("MarkAllRead", mock.Anything, userID).Return(int64(0), errors.New("db down")).Once()
	_, err := svc.MarkAllRead(context.Background(), userID)
	assert.Error(t, err)
}

func TestRepositoryLifecycle(t *testing.T) {
	db := dbtest.Open(t, &Notification{})
	svc := NewService(NewGORMRepository(db), zap.NewNop())
	ctx := context.Background()
	owner, other := uuid.New(), uuid.New()

	svc.Notify(ctx, owner, UpdateRequestApproved, "first", nil)
	svc.Notify(ctx, owner, UpdateRequestRejected, "second", nil)
	svc.Notify(ctx, other, ProviderApproved, "not yours", nil)

	items, p, err := svc.List(ctx, owner, ListQuery{Page: 1, Limit: 10})
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, int64(2), p.TotalItems)

	err = svc.MarkRead(ctx, items[0].ID, other)
	assert.ErrorIs(t, err, common.ErrNotFound)

	require.NoError(t, svc.MarkRead(ctx, items[0].ID, owner))
	unread, _, err := svc.List(ctx, owner, ListQuery{UnreadOnly: true})
	require.NoError(t, err)
	assert.Len(t, unread, 1)
	require.NoError(t, svc.MarkRead(ctx, items[0].ID, owner))

	n, err := svc.UnreadCount(ctx, owner)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	count, err := svc.MarkAllRead(ctx, owner)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestListMasksStorageErrors(t *testing.T) {
	repo := new(MockNotificationRepository)
	svc := NewService(repo, zap.NewNop())
	userID := uuid.New()

	repo.On("List", mock.Anything, userID, ListQuery{}).Return(nil, nil, errors.New("db down")).Once()
	_, _, err := svc.List(context.Background(), userID, ListQuery{})
	assert.ErrorIs(t, err, common.ErrInternalServer)

	repo.On("List", mock.Anything, userID, ListQuery{Page: 2}).Return(nil, common.NewPagination(0, 2, 20), nil).Once()
	items, _, err := svc.List(context.Background(), userID, ListQuery{Page: 2})
	require.NoError(t, err)
	assert.NotNil(t, items)
	repo.AssertExpectations(t)
}
