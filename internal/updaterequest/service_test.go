package updaterequest

import (
	"context"
	"errors"
	"mime/multipart"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/kpata360-rgb/workisready-backend1/internal/common"
	"github.com/kpata360-rgb/workisready-backend1/internal/filestorage"
	"github.com/kpata360-rgb/workisready-backend1/internal/filestorage/fstest"
	"github.com/kpata360-rgb/workisready-backend1/internal/notification"
	"github.com/kpata360-rgb/workisready-backend1/internal/platform/database/dbtest"
	"github.com/kpata360-rgb/workisready-backend1/internal/provider"
	"github.com/kpata360-rgb/workisready-backend1/internal/user"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) Notify(ctx context.Context, userID uuid.UUID, kind notification.NotificationType, message string, relatedID *uuid.UUID) {
	m.Called(ctx, userID, kind, message, relatedID)
}

type fixture struct {
	repo      Repository
	providers provider.Repository
	store     *filestorage.Service
	notifier  *MockNotifier
	svc       *service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := dbtest.Open(t, &user.User{}, &provider.Provider{}, &provider.Category{}, &Request{})
	store, err := filestorage.NewDiskService(t.TempDir(), 0, zap.NewNop())
	require.NoError(t, err)

	f := &fixture{
		repo:      NewGORMRepository(db),
		providers: provider.NewGORMRepository(db),
		store:     store,
		notifier:  new(MockNotifier),
	}
	f.svc = NewService(f.repo, f.providers, store, f.notifier, zap.NewNop()).(*service)
	return f
}

func (f *fixture) seedProvider(t *testing.T) *provider.Provider {
	t.Helper()
	p := sampleProvider()
	p.UserID = uuid.New()
	p.IsApproved = true
	require.NoError(t, f.providers.Create(context.Background(), p))
	return p
}

func (f *fixture) exists(rel string) bool {
	_, err := os.Stat(filepath.Join(f.store.BasePath(), rel))
	return err == nil
}

func pngFiles(t *testing.T, n int) []*multipart.FileHeader {
	t.Helper()
	files := make([]*multipart.FileHeader, 0, n)
	for i := 0; i < n; i++ {
		files = append(files, fstest.FileHeader(t, "sampleWork", "s.png", fstest.PNG(t, 2, 2), "image/png"))
	}
	return files
}

func TestSubmit_Validation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.Submit(ctx, uuid.New(), SubmitRequest{Bio: strPtr("x")}, nil)
	assert.True(t, errors.Is(err, common.ErrNotFound))

	p := f.seedProvider(t)
	_, err = f.svc.Submit(ctx, p.UserID, SubmitRequest{BusinessName: strPtr(p.BusinessName)}, nil)
	apiErr, ok := common.IsAPIError(err)
	require.True(t, ok)
	assert.Equal(t, "No changes detected.", apiErr.Message)

	_, err = f.svc.Submit(ctx, p.UserID, SubmitRequest{Bio: strPtr("New bio")}, nil)
	require.NoError(t, err)

	_, err = f.svc.Submit(ctx, p.UserID, SubmitRequest{Phone: strPtr("0201111111")}, nil)
	assert.True(t, errors.Is(err, common.ErrConflict))
}

func TestApprove_AppliesChangesOnce(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.seedProvider(t)
	adminID := uuid.New()

	r, err := f.svc.Submit(ctx, p.UserID, SubmitRequest{
		Bio:        strPtr("Now with drainage."),
		Categories: []string{"Plumbing", "Drain Unblocking"},
	}, pngFiles(t, 2))
	require.NoError(t, err)
	require.Len(t, r.NewSampleWork, 2)

	// The live profile is untouched until approval.
	live, err := f.providers.FindByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Fast and tidy.", live.Bio)

	f.notifier.On("Notify", ctx, p.UserID, notification.UpdateRequestApproved, mock.Anything, &r.ID).Return().Once()
	approved, err := f.svc.Approve(ctx, r.ID, adminID)
	require.NoError(t, err)
	assert.Equal(t, StatusApproved, approved.Status)
	assert.Equal(t, &adminID, approved.ReviewedBy)

	live, err = f.providers.FindByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Now with drainage.", live.Bio)
	assert.Equal(t, []string{"Plumbing", "Drain Unblocking"}, live.Labels())
	assert.Len(t, live.SampleWork, 2)

	_, err = f.svc.Approve(ctx, r.ID, adminID)
	assert.True(t, errors.Is(err, common.ErrConflict))
	live, err = f.providers.FindByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Len(t, live.SampleWork, 2)

	f.notifier.AssertExpectations(t)
}

func TestApprove_StaleRequestIsConflict(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.seedProvider(t)

	r, err := f.svc.Submit(ctx, p.UserID, SubmitRequest{Bio: strPtr("first")}, nil)
	require.NoError(t, err)

	// Another reviewer rejects between our read and our write.
	stale, err := f.repo.FindByID(ctx, r.ID)
	require.NoError(t, err)
	now := time.Now()
	stale.Status = StatusRejected
	stale.ReviewedAt = &now
	stale.RejectionReason = "no"
	require.NoError(t, f.repo.Reject(ctx, stale))

	again, err := f.repo.FindByID(ctx, r.ID)
	require.NoError(t, err)
	again.Status = StatusApproved
	p.Bio = "first"
	err = f.repo.Approve(ctx, again, p, false)
	assert.True(t, errors.Is(err, common.ErrConflict))

	live, err := f.providers.FindByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Fast and tidy.", live.Bio)
}

func TestApprove_GalleryCapDropsOldest(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.seedProvider(t)
	f.notifier.On("Notify", ctx, p.UserID, notification.UpdateRequestApproved, mock.Anything, mock.Anything).Return()

	first, err := f.svc.Submit(ctx, p.UserID, SubmitRequest{}, pngFiles(t, provider.MaxSampleWork))
	require.NoError(t, err)
	_, err = f.svc.Approve(ctx, first.ID, uuid.New())
	require.NoError(t, err)
	oldest := first.NewSampleWork[0]
	require.True(t, f.exists(oldest))

	second, err := f.svc.Submit(ctx, p.UserID, SubmitRequest{}, pngFiles(t, 1))
	require.NoError(t, err)
	_, err = f.svc.Approve(ctx, second.ID, uuid.New())
	require.NoError(t, err)

	live, err := f.providers.FindByID(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, live.SampleWork, provider.MaxSampleWork)
	assert.Equal(t, second.NewSampleWork[0], live.SampleWork[provider.MaxSampleWork-1].Path)
	assert.NotContains(t, live.SampleWorkPaths(), oldest)
	assert.False(t, f.exists(oldest))
}

func TestReject(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.seedProvider(t)

	r, err := f.svc.Submit(ctx, p.UserID, SubmitRequest{Phone: strPtr("0209999999")}, pngFiles(t, 1))
	require.NoError(t, err)
	upload := r.NewSampleWork[0]
	require.True(t, f.exists(upload))

	_, err = f.svc.Reject(ctx, r.ID, uuid.New(), "  ")
	assert.True(t, errors.Is(err, common.ErrBadRequest))

	f.notifier.On("Notify", ctx, p.UserID, notification.UpdateRequestRejected, "Your profile update request was rejected: Blurry photos", &r.ID).Return().Once()
	rejected, err := f.svc.Reject(ctx, r.ID, uuid.New(), "Blurry photos")
	require.NoError(t, err)
	assert.Equal(t, StatusRejected, rejected.Status)
	assert.Equal(t, "Blurry photos", rejected.RejectionReason)
	assert.False(t, f.exists(upload))

	live, err := f.providers.FindByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "0240000000", live.Phone)

	_, err = f.svc.Approve(ctx, r.ID, uuid.New())
	assert.True(t, errors.Is(err, common.ErrConflict))

	// A rejected request no longer blocks a new one.
	_, err = f.svc.Submit(ctx, p.UserID, SubmitRequest{Phone: strPtr("0209999999")}, nil)
	require.NoError(t, err)
	f.notifier.AssertExpectations(t)
}

func TestAdminList(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.seedProvider(t)
	other := f.seedProvider(t)
	f.notifier.On("Notify", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return()

	r1, err := f.svc.Submit(ctx, p.UserID, SubmitRequest{Bio: strPtr("a")}, nil)
	require.NoError(t, err)
	_, err = f.svc.Approve(ctx, r1.ID, uuid.New())
	require.NoError(t, err)
	_, err = f.svc.Submit(ctx, other.UserID, SubmitRequest{Bio: strPtr("b")}, nil)
	require.NoError(t, err)

	pending, pg, err := f.svc.AdminList(ctx, "", 1, 10)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, other.ID, pending[0].ProviderID)
	assert.Equal(t, int64(1), pg.TotalItems)
	require.NotNil(t, pending[0].Provider)
	resp := ToRequestResponse(&pending[0])
	require.NotNil(t, resp.Current)
	assert.Equal(t, "Fast and tidy.", *resp.Current.Bio)

	all, _, err := f.svc.AdminList(ctx, "all", 1, 10)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	_, _, err = f.svc.AdminList(ctx, "bogus", 1, 10)
	assert.True(t, errors.Is(err, common.ErrBadRequest))

	mine, _, err := f.svc.ListMine(ctx, p.UserID, 1, 10)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, StatusApproved, mine[0].Status)
	assert.Nil(t, ToRequestResponse(&mine[0]).Current)
}
