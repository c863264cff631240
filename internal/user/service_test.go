package user

import (
	"context"
	"errors"
	"testing"

	"github.com/kpata360-rgb/workisready-backend1/internal/common"
	"github.com/kpata360-rgb/workisready-backend1/internal/filestorage"
	"github.com/kpata360-rgb/workisready-backend1/internal/filestorage/fstest"
	"github.com/kpata360-rgb/workisready-backend1/internal/platform/crypto"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// MockUserRepository is a mock implementation of Repository.
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*User), args.Error(1)
}

func (m *MockUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*User), args.Error(1)
}

func (m *MockUserRepository) Update(ctx context.Context, user *User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) List(ctx context.Context, q AdminListQuery) ([]User, int64, error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]User), args.Get(1).(int64), args.Error(2)
}

func newTestService(t *testing.T) (*ServiceImplementation, *MockUserRepository, *filestorage.Service) {
	repo := new(MockUserRepository)
	store, err := filestorage.NewDiskService(t.TempDir(), 0, zap.NewNop())
	require.NoError(t, err)
	return NewService(repo, store, zap.NewNop()), repo, store
}

func TestRegister_Success(t *testing.T) {
	svc, repo, _ := newTestService(t)
	ctx := context.Background()

	repo.On("FindByEmail", ctx, "Yaw@Example.com").Return(nil, common.ErrNotFound)
	repo.On("Create", ctx, mock.MatchedBy(func(u *User) bool {
		return u.Email == "yaw@example.com" && u.Role == common.RoleClient && u.Phone == nil && u.PasswordHash != "password123"
	})).Return(nil)

	u, err := svc.Register(ctx, RegisterRequest{Email: "Yaw@Example.com", Password: "password123", FullName: " Yaw ", Phone: "  "})
	require.NoError(t, err)
	assert.Equal(t, "Yaw", u.FullName)
	assert.True(t, crypto.CheckPasswordHash("password123", u.PasswordHash))
	repo.AssertExpectations(t)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	svc, repo, _ := newTestService(t)
	ctx := context.Background()
	repo.On("FindByEmail", ctx, "a@example.com").Return(&User{}, nil)

	_, err := svc.Register(ctx, RegisterRequest{Email: "a@example.com", Password: "password123", FullName: "A"})
	assert.ErrorIs(t, err, common.ErrConflict)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestAuthenticate(t *testing.T) {
	svc, repo, _ := newTestService(t)
	ctx := context.Background()
	hash, err := crypto.HashPassword("correct-horse")
	require.NoError(t, err)
	stored := &User{BaseModel: common.BaseModel{ID: uuid.New()}, Email: "a@example.com", PasswordHash: hash}

	repo.On("FindByEmail", ctx, "a@example.com").Return(stored, nil)
	repo.On("Update", ctx, stored).Return(nil)
	repo.On("FindByEmail", ctx, "ghost@example.com").Return(nil, common.ErrNotFound)

	u, err := svc.Authenticate(ctx, "a@example.com", "correct-horse")
	require.NoError(t, err)
	assert.NotNil(t, u.LastLoginAt)

	_, err = svc.Authenticate(ctx, "a@example.com", "wrong")
	assert.ErrorIs(t, err, common.ErrUnauthorized)

	_, err = svc.Authenticate(ctx, "ghost@example.com", "whatever")
	assert.ErrorIs(t, err, common.ErrUnauthorized)
}

func TestPromoteToProvider(t *testing.T) {
	svc, repo, _ := newTestService(t)
	ctx := context.Background()

	client := &User{BaseModel: common.BaseModel{ID: uuid.New()}, Role: common.RoleClient}
	admin := &User{BaseModel: common.BaseModel{ID: uuid.New()}, Role: common.RoleAdmin}
	repo.On("FindByID", ctx, client.ID).Return(client, nil)
	repo.On("FindByID", ctx, admin.ID).Return(admin, nil)
	repo.On("Update", ctx, client).Return(nil)

	require.NoError(t, svc.PromoteToProvider(ctx, client.ID))
	assert.Equal(t, common.RoleProvider, client.Role)

	require.NoError(t, svc.PromoteToProvider(ctx, admin.ID))
	assert.Equal(t, common.RoleAdmin, admin.Role)
	repo.AssertNumberOfCalls(t, "Update", 1)
}

func TestUpdateAvatar_ReplacesOldFile(t *testing.T) {
	svc, repo, store := newTestService(t)
	ctx := context.Background()

	oldRel, err := store.Save(fstest.FileHeader(t, "avatar", "old.png", []byte("old"), "image/png"), filestorage.KindUserAvatar)
	require.NoError(t, err)
	u := &User{BaseModel: common.BaseModel{ID: uuid.New()}, ProfilePicture: &oldRel}

	repo.On("FindByID", ctx, u.ID).Return(u, nil)
	repo.On("Update", ctx, u).Return(nil)

	updated, err := svc.UpdateAvatar(ctx, u.ID, fstest.FileHeader(t, "avatar", "new.png", []byte("new"), "image/png"))
	require.NoError(t, err)
	require.NotNil(t, updated.ProfilePicture)
	assert.NotEqual(t, oldRel, *updated.ProfilePicture)
	assert.FileExists(t, store.BasePath()+"/"+*updated.ProfilePicture)
	assert.NoFileExists(t, store.BasePath()+"/"+oldRel)
}

func TestUpdateAvatar_RemovesNewFileWhenSaveFails(t *testing.T) {
	svc, repo, store := newTestService(t)
	ctx := context.Background()
	u := &User{BaseModel: common.BaseModel{ID: uuid.New()}}

	repo.On("FindByID", ctx, u.ID).Return(u, nil)
	repo.On("Update", ctx, u).Return(errors.New("db down"))

	_, err := svc.UpdateAvatar(ctx, u.ID, fstest.FileHeader(t, "avatar", "new.png", []byte("new"), "image/png"))
	require.Error(t, err)
	require.NotNil(t, u.ProfilePicture)
	assert.NoFileExists(t, store.BasePath()+"/"+*u.ProfilePicture)
}

func TestAdminUpdateFlags(t *testing.T) {
	svc, repo, _ := newTestService(t)
	ctx := context.Background()
	u := &User{BaseModel: common.BaseModel{ID: uuid.New()}}
	yes := true

	_, err := svc.AdminUpdateFlags(ctx, u.ID, AdminUpdateFlagsRequest{})
	assert.ErrorIs(t, err, common.ErrBadRequest)

	repo.On("FindByID", ctx, u.ID).Return(u, nil)
	repo.On("Update", ctx, u).Return(nil)
	updated, err := svc.AdminUpdateFlags(ctx, u.ID, AdminUpdateFlagsRequest{IsVerified: &yes})
	require.NoError(t, err)
	assert.True(t, updated.IsVerified)
	assert.False(t, updated.IsApproved)
}
