package user

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"strings"
	"time"

	"github.com/kpata360-rgb/workisready-backend1/internal/common"
	"github.com/kpata360-rgb/workisready-backend1/internal/filestorage"
	"github.com/kpata360-rgb/workisready-backend1/internal/platform/crypto"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Service defines user account operations.
type Service interface {
	Register(ctx context.Context, req RegisterRequest) (*User, error)
	Authenticate(ctx context.Context, email, password string) (*User, error)
	GetUserByID(ctx context.Context, id uuid.UUID) (*User, error)
	UpdateAvatar(ctx context.Context, id uuid.UUID, fileHeader *multipart.FileHeader) (*User, error)
	// PromoteToProvider switches a client account to the provider role.
	// Admins keep their role.
	PromoteToProvider(ctx context.Context, id uuid.UUID) error
	EnsureAdmin(ctx context.Context, email, password, fullName string) (*User, error)
	AdminListUsers(ctx context.Context, q AdminListQuery) ([]User, *common.Pagination, error)
	AdminUpdateFlags(ctx context.Context, id uuid.UUID, req AdminUpdateFlagsRequest) (*User, error)
}

// ServiceImplementation implements Service.
type ServiceImplementation struct {
	repo    Repository
	storage filestorage.Store
	logger  *zap.Logger
}

var _ Service = (*ServiceImplementation)(nil)

// NewService creates a new user service.
func NewService(repo Repository, storage filestorage.Store, logger *zap.Logger) *ServiceImplementation {
	return &ServiceImplementation{
		repo:    repo,
		storage: storage,
		logger:  logger.Named("user"),
	}
}

// Register creates a new user.
func (s *ServiceImplementation) Register(ctx context.Context, req RegisterRequest) (*User, error) {
	_, err := s.repo.FindByEmail(ctx, req.Email)
	if err == nil {
		return nil, common.ErrConflict.WithDetails("User with this email already exists.")
	}
	if !errors.Is(err, common.ErrNotFound) {
		return nil, fmt.Errorf("failed to check existing user by email: %w", err)
	}

	hashedPassword, err := crypto.HashPassword(req.Password)
	if err != nil {
		s.logger.Error("Failed to hash password during registration", zap.Error(err))
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	role := req.Role
	if role == "" {
		role = common.RoleClient
	}

	dbUser := &User{
		Email:        NormalizeEmail(req.Email),
		PasswordHash: hashedPassword,
		FullName:     strings.TrimSpace(req.FullName),
		Phone:        OptionalString(req.Phone),
		WhatsApp:     OptionalString(req.WhatsApp),
		Role:         role,
	}
	if err := s.repo.Create(ctx, dbUser); err != nil {
		s.logger.Error("Failed to create user in repository", zap.Error(err), zap.String("email", dbUser.Email))
		return nil, err
	}

	s.logger.Info("User registered successfully", zap.String("userID", dbUser.ID.String()), zap.String("role", role))
	return dbUser, nil
}

func (s *ServiceImplementation) Authenticate(ctx context.Context, email, password string) (*User, error) {
	dbUser, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			s.logger.Info("User not found during login", zap.String("email", NormalizeEmail(email)))
			return nil, common.ErrUnauthorized.WithDetails("Invalid email or password.")
		}
		s.logger.Error("Error finding user by email during login", zap.Error(err))
		return nil, err
	}

	if !crypto.CheckPasswordHash(password, dbUser.PasswordHash) {
		s.logger.Warn("Invalid password attempt", zap.String("userID", dbUser.ID.String()))
		return nil, common.ErrUnauthorized.WithDetails("Invalid email or password.")
	}

	now := time.Now()
	dbUser.LastLoginAt = &now
	if err := s.repo.Update(ctx, dbUser); err != nil {
		// Not critical for authentication.
		s.logger.Error("Failed to update last login time", zap.Error(err), zap.String("userID", dbUser.ID.String()))
	}
	return dbUser, nil
}

func (s *ServiceImplementation) GetUserByID(ctx context.Context, id uuid.UUID) (*User, error) {
	dbUser, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if !errors.Is(err, common.ErrNotFound) {
			s.logger.Error("Error finding user by ID", zap.Error(err), zap.String("userID", id.String()))
		}
		return nil, err
	}
	return dbUser, nil
}

func (s *ServiceImplementation) UpdateAvatar(ctx context.Context, id uuid.UUID, fileHeader *multipart.FileHeader) (*User, error) {
	if fileHeader == nil {
		return nil, common.ErrBadRequest.WithMessage("An avatar image is required.")
	}
	dbUser, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	rel, err := s.storage.Save(fileHeader, filestorage.KindUserAvatar)
	if err != nil {
		if errors.Is(err, filestorage.ErrUnsupportedFileType) {
			return nil, common.ErrBadRequest.WithDetails(err.Error())
		}
		return nil, fmt.Errorf("save avatar: %w", err)
	}

	var old string
	if dbUser.ProfilePicture != nil {
		old = *dbUser.ProfilePicture
	}
	dbUser.ProfilePicture = &rel
	if err := s.repo.Update(ctx, dbUser); err != nil {
		s.storage.DeleteQuietly(rel)
		return nil, err
	}
	s.storage.DeleteQuietly(old)
	return dbUser, nil
}

func (s *ServiceImplementation) PromoteToProvider(ctx context.Context, id uuid.UUID) error {
	dbUser, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if dbUser.Role != common.RoleClient {
		return nil
	}
	dbUser.Role = common.RoleProvider
	if err := s.repo.Update(ctx, dbUser); err != nil {
		return err
	}
	s.logger.Info("User promoted to provider", zap.String("userID", id.String()))
	return nil
}

func (s *ServiceImplementation) EnsureAdmin(ctx context.Context, email, password, fullName string) (*User, error) {
	existing, err := s.repo.FindByEmail(ctx, email)
	switch {
	case err == nil:
		if existing.Role != common.RoleAdmin {
			existing.Role = common.RoleAdmin
			existing.IsVerified = true
			existing.IsApproved = true
			if err := s.repo.Update(ctx, existing); err != nil {
				return nil, err
			}
		}
		return existing, nil
	case !errors.Is(err, common.ErrNotFound):
		return nil, err
	}

	if len(password) < 8 {
		return nil, common.ErrBadRequest.WithMessage("Admin password must be at least 8 characters.")
	}
	hashedPassword, err := crypto.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	admin := &User{
		Email:        NormalizeEmail(email),
		PasswordHash: hashedPassword,
		FullName:     strings.TrimSpace(fullName),
		Role:         common.RoleAdmin,
		IsVerified:   true,
		IsApproved:   true,
	}
	if err := s.repo.Create(ctx, admin); err != nil {
		return nil, err
	}
	s.logger.Info("Admin account created", zap.String("userID", admin.ID.String()))
	return admin, nil
}

func (s *ServiceImplementation) AdminListUsers(ctx context.Context, q AdminListQuery) ([]User, *common.Pagination, error) {
	q.Page, q.Limit = common.NormalizePage(q.Page, q.Limit)
	users, total, err := s.repo.List(ctx, q)
	if err != nil {
		s.logger.Error("Failed to list users", zap.Error(err))
		return nil, nil, err
	}
	return users, common.NewPagination(total, q.Page, q.Limit), nil
}

func (s *ServiceImplementation) AdminUpdateFlags(ctx context.Context, id uuid.UUID, req AdminUpdateFlagsRequest) (*User, error) {
	if req.IsVerified == nil && req.IsApproved == nil {
		return nil, common.ErrBadRequest.WithMessage("Nothing to update.")
	}
	dbUser, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.IsVerified != nil {
		dbUser.IsVerified = *req.IsVerified
	}
	if req.IsApproved != nil {
		dbUser.IsApproved = *req.IsApproved
	}
	if err := s.repo.Update(ctx, dbUser); err != nil {
		return nil, err
	}
	s.logger.Info("User flags updated", zap.String("userID", id.String()),
		zap.Bool("isVerified", dbUser.IsVerified), zap.Bool("isApproved", dbUser.IsApproved))
	return dbUser, nil
}
