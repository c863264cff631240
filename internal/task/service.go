package task

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"time"

	"github.com/kpata360-rgb/workisready-backend1/internal/aggregate"
	"github.com/kpata360-rgb/workisready-backend1/internal/common"
	"github.com/kpata360-rgb/workisready-backend1/internal/config"
	"github.com/kpata360-rgb/workisready-backend1/internal/filestorage"
	"github.com/kpata360-rgb/workisready-backend1/internal/location"
	"github.com/kpata360-rgb/workisready-backend1/internal/platform/metrics"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Service defines the task operations.
type Service interface {
	CreateTask(ctx context.Context, clientID uuid.UUID, req CreateTaskRequest, images []*multipart.FileHeader) (*Task, error)
	GetTask(ctx context.Context, id uuid.UUID) (*Task, error)
	ListTasks(ctx context.Context, q ListQuery) ([]Task, *common.Pagination, error)
	ListClientTasks(ctx context.Context, clientID uuid.UUID, page, limit int) ([]Task, *common.Pagination, error)
	UpdateStatus(ctx context.Context, id, userID uuid.UUID, status Status) (*Task, error)
	DeleteTask(ctx context.Context, id, userID uuid.UUID, role string) error
	RegionSummary(ctx context.Context, region string) (*RegionSummary, error)
}

type service struct {
	repo      Repository
	storage   filestorage.Store
	sampleCap int
	logger    *zap.Logger
	now       func() time.Time
}

// NewService creates a task service.
func NewService(repo Repository, storage filestorage.Store, cfg *config.Config, logger *zap.Logger) Service {
	return &service{
		repo:      repo,
		storage:   storage,
		sampleCap: cfg.AggregationSampleCap,
		logger:    logger.Named("task"),
		now:       time.Now,
	}
}

func (s *service) CreateTask(ctx context.Context, clientID uuid.UUID, req CreateTaskRequest, images []*multipart.FileHeader) (*Task, error) {
	t, err := req.ToTask()
	if err != nil {
		return nil, err
	}
	if len(images) > MaxImages {
		return nil, common.ErrBadRequest.WithDetails(fmt.Sprintf("A task can have at most %d images.", MaxImages))
	}

	paths, err := s.storage.SaveAll(images, filestorage.KindTaskImage)
	if err != nil {
		if errors.Is(err, filestorage.ErrUnsupportedFileType) {
			return nil, common.ErrBadRequest.WithDetails(err.Error())
		}
		s.logger.Error("Failed to store task images", zap.Error(err), zap.String("clientID", clientID.String()))
		return nil, fmt.Errorf("save task images: %w", err)
	}

	t.ClientID = clientID
	t.Images = paths
	if err := s.repo.Create(ctx, t); err != nil {
		s.storage.DeleteQuietly(paths...)
		s.logger.Error("Failed to create task", zap.Error(err), zap.String("clientID", clientID.String()))
		return nil, err
	}

	metrics.TasksCreated.Inc()
	s.logger.Info("Task created",
		zap.String("taskID", t.ID.String()),
		zap.String("clientID", clientID.String()),
		zap.Int("images", len(paths)),
	)
	return t, nil
}

func (s *service) GetTask(ctx context.Context, id uuid.UUID) (*Task, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *service) ListTasks(ctx context.Context, q ListQuery) ([]Task, *common.Pagination, error) {
	f, err := BuildFilter(q)
	if err != nil {
		return nil, nil, err
	}
	return s.search(ctx, f)
}

func (s *service) ListClientTasks(ctx context.Context, clientID uuid.UUID, page, limit int) ([]Task, *common.Pagination, error) {
	page, limit = common.NormalizePage(page, limit)
	return s.search(ctx, Filter{ClientID: &clientID, Page: page, Limit: limit})
}

func (s *service) search(ctx context.Context, f Filter) ([]Task, *common.Pagination, error) {
	tasks, total, err := s.repo.Search(ctx, f)
	if err != nil {
		s.logger.Error("Task search failed", zap.Error(err))
		return nil, nil, err
	}
	return tasks, common.NewPagination(total, f.Page, f.Limit), nil
}

// UpdateStatus lets the owner close or reopen a task.
func (s *service) UpdateStatus(ctx context.Context, id, userID uuid.UUID, status Status) (*Task, error) {
	if !status.Valid() {
		return nil, common.ErrBadRequest.WithDetails("status must be one of: open, completed.")
	}
	t, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if t.ClientID != userID {
		return nil, common.ErrForbidden.WithDetails("Only the task owner can change its status.")
	}

	var completedAt *time.Time
	if status == StatusCompleted {
		now := s.now()
		completedAt = &now
	}
	if err := s.repo.UpdateStatus(ctx, id, status, completedAt); err != nil {
		return nil, err
	}
	t.Status = status
	t.CompletedAt = completedAt
	s.logger.Info("Task status updated", zap.String("taskID", id.String()), zap.String("status", string(status)))
	return t, nil
}

// DeleteTask removes a task for its owner or an admin. Image files go best-effort.
func (s *service) DeleteTask(ctx context.Context, id, userID uuid.UUID, role string) error {
	t, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if t.ClientID != userID && role != common.RoleAdmin {
		return common.ErrForbidden.WithDetails("Only the task owner or an admin can delete this task.")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.storage.DeleteQuietly(t.Images...)
	s.logger.Info("Task deleted", zap.String("taskID", id.String()), zap.String("by", userID.String()))
	return nil
}

// RegionSummary groups the open tasks of a region by category.
func (s *service) RegionSummary(ctx context.Context, region string) (*RegionSummary, error) {
	key := location.NormalizeRegion(region)
	if key == "" {
		return nil, common.ErrBadRequest.WithDetails("region is required.")
	}
	tasks, err := s.repo.ListOpenInRegion(ctx, key)
	if err != nil {
		s.logger.Error("Failed to load tasks for summary", zap.Error(err), zap.String("region", key))
		return nil, err
	}

	buckets := aggregate.ByCategory(tasks, Task.Labels, s.sampleCap)
	summary := &RegionSummary{Region: region, Total: len(tasks), Categories: make([]CategorySummary, 0, len(buckets))}
	for _, b := range buckets {
		summary.Categories = append(summary.Categories, CategorySummary{
			Category: b.Category,
			Count:    b.Count,
			Samples:  ToTaskResponses(b.Samples),
		})
	}
	return summary, nil
}
