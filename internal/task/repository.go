package task

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/kpata360-rgb/workisready-backend1/internal/common"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

// Repository defines the interface for task data operations.
type Repository interface {
	Create(ctx context.Context, task *Task) error
	FindByID(ctx context.Context, id uuid.UUID) (*Task, error)
	Search(ctx context.Context, f Filter) ([]Task, int64, error)
	// ListOpenInRegion returns every open task of a region, categories loaded.
	ListOpenInRegion(ctx context.Context, regionKey string) ([]Task, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status Status, completedAt *time.Time) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type gormRepository struct {
	db *gorm.DB
}

// NewGORMRepository creates a new GORM task repository.
func NewGORMRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) Create(ctx context.Context, task *Task) error {
	if err := r.db.WithContext(ctx).Create(task).Error; err != nil {
		return fmt.Errorf("failed to create task: %w", err)
	}
	return nil
}

func (r *gormRepository) FindByID(ctx context.Context, id uuid.UUID) (*Task, error) {
	var t Task
	err := r.db.WithContext(ctx).
		Preload("Categories", orderCategories).
		Preload("Client").
		First(&t, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrNotFound.WithDetails("Task not found.")
		}
		return nil, fmt.Errorf("failed to find task %s: %w", id, err)
	}
	return &t, nil
}

// Search runs the page query and the count query concurrently. The two
// are not read in one snapshot, so total may lag the page under writes.
func (r *gormRepository) Search(ctx context.Context, f Filter) ([]Task, int64, error) {
	var (
		tasks []Task
		total int64
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		err := r.db.WithContext(gctx).Model(&Task{}).Scopes(filterScope(f)).Count(&total).Error
		if err != nil {
			return fmt.Errorf("counting tasks failed: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		err := r.db.WithContext(gctx).
			Scopes(filterScope(f)).
			Preload("Categories", orderCategories).
			Preload("Client").
			Order("created_at DESC").
			Limit(f.Limit).
			Offset(common.Offset(f.Page, f.Limit)).
			Find(&tasks).Error
		if err != nil {
			return fmt.Errorf("searching tasks failed: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, 0, err
	}
	return tasks, total, nil
}

func (r *gormRepository) ListOpenInRegion(ctx context.Context, regionKey string) ([]Task, error) {
	var tasks []Task
	err := r.db.WithContext(ctx).
		Scopes(filterScope(Filter{RegionKey: regionKey, Status: StatusOpen})).
		Preload("Categories", orderCategories).
		Order("created_at DESC").
		Find(&tasks).Error
	if err != nil {
		return nil, fmt.Errorf("listing open tasks for region %q failed: %w", regionKey, err)
	}
	return tasks, nil
}

func (r *gormRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status Status, completedAt *time.Time) error {
	result := r.db.WithContext(ctx).Model(&Task{}).Where("id = ?", id).Updates(map[string]interface{}{
		"status":       status,
		"completed_at": completedAt,
	})
	if result.Error != nil {
		return fmt.Errorf("failed to update status of task %s: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return common.ErrNotFound.WithDetails("Task not found.")
	}
	return nil
}

// Delete removes the task and its category rows.
func (r *gormRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("task_id = ?", id).Delete(&Category{}).Error; err != nil {
			return fmt.Errorf("failed to delete categories of task %s: %w", id, err)
		}
		result := tx.Delete(&Task{}, "id = ?", id)
		if result.Error != nil {
			return fmt.Errorf("failed to delete task %s: %w", id, result.Error)
		}
		if result.RowsAffected == 0 {
			return common.ErrNotFound.WithDetails("Task not found.")
		}
		return nil
	})
}

func filterScope(f Filter) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if f.ClientID != nil {
			db = db.Where("client_id = ?", *f.ClientID)
		}
		if f.Status != "" {
			db = db.Where("status = ?", f.Status)
		}
		if f.RegionKey != "" {
			db = db.Where("region_key = ?", f.RegionKey)
		}
		if f.CityKey != "" {
			db = db.Where("city_key = ?", f.CityKey)
		}
		if f.MainCategory != "" {
			db = db.Where("main_category = ?", f.MainCategory)
		}
		if f.CategoryKey != "" {
			db = db.Where("id IN (?)", db.Session(&gorm.Session{NewDB: true}).
				Model(&Category{}).Select("task_id").Where("name_key = ?", f.CategoryKey))
		}
		return db
	}
}

func orderCategories(db *gorm.DB) *gorm.DB {
	return db.Order("id ASC")
}
