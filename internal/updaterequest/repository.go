package updaterequest

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/kpata360-rgb/workisready-backend1/internal/common"
	"github.com/kpata360-rgb/workisready-backend1/internal/provider"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

// ListFilter selects update requests. Empty fields do not constrain.
type ListFilter struct {
	Status     Status
	ProviderID *uuid.UUID
	Page       int
	Limit      int
}

// Repository defines the interface for update request data operations.
type Repository interface {
	Create(ctx context.Context, r *Request) error
	FindByID(ctx context.Context, id uuid.UUID) (*Request, error)
	HasPending(ctx context.Context, providerID uuid.UUID) (bool, error)
	List(ctx context.Context, f ListFilter) ([]Request, int64, error)
	// Approve saves the provider and marks the request approved in one
	// transaction. A request that is no longer pending is a conflict.
	Approve(ctx context.Context, r *Request, p *provider.Provider, replaceCategories bool) error
	Reject(ctx context.Context, r *Request) error
}

type gormRepository struct {
	db *gorm.DB
}

// NewGORMRepository creates a new GORM update request repository.
func NewGORMRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) Create(ctx context.Context, req *Request) error {
	if err := r.db.WithContext(ctx).Omit("Provider").Create(req).Error; err != nil {
		return fmt.Errorf("failed to create update request: %w", err)
	}
	return nil
}

func (r *gormRepository) FindByID(ctx context.Context, id uuid.UUID) (*Request, error) {
	var req Request
	err := r.db.WithContext(ctx).
		Preload("Provider.Categories").
		First(&req, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrNotFound.WithDetails("Update request not found.")
		}
		return nil, fmt.Errorf("failed to find update request %s: %w", id, err)
	}
	return &req, nil
}

func (r *gormRepository) HasPending(ctx context.Context, providerID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&Request{}).
		Where("provider_id = ? AND status = ?", providerID, StatusPending).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check pending update requests: %w", err)
	}
	return count > 0, nil
}

// List returns requests oldest first, so the review queue is worked in order.
func (r *gormRepository) List(ctx context.Context, f ListFilter) ([]Request, int64, error) {
	scope := func(db *gorm.DB) *gorm.DB {
		if f.Status != "" {
			db = db.Where("status = ?", f.Status)
		}
		if f.ProviderID != nil {
			db = db.Where("provider_id = ?", *f.ProviderID)
		}
		return db
	}

	var (
		requests []Request
		total    int64
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := r.db.WithContext(gctx).Model(&Request{}).Scopes(scope).Count(&total).Error; err != nil {
			return fmt.Errorf("counting update requests failed: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		err := r.db.WithContext(gctx).
			Scopes(scope).
			Preload("Provider.Categories").
			Order("created_at ASC").
			Limit(f.Limit).
			Offset(common.Offset(f.Page, f.Limit)).
			Find(&requests).Error
		if err != nil {
			return fmt.Errorf("listing update requests failed: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, 0, err
	}
	return requests, total, nil
}

func (r *gormRepository) Approve(ctx context.Context, req *Request, p *provider.Provider, replaceCategories bool) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := markReviewed(tx, req); err != nil {
			return err
		}
		return provider.SaveProfile(tx, p, replaceCategories)
	})
}

func (r *gormRepository) Reject(ctx context.Context, req *Request) error {
	return markReviewed(r.db.WithContext(ctx), req)
}

// markReviewed moves a pending request to its new status. The status guard
// in the WHERE clause turns a concurrent second review into a conflict.
func markReviewed(db *gorm.DB, req *Request) error {
	result := db.Model(&Request{}).
		Where("id = ? AND status = ?", req.ID, StatusPending).
		Updates(map[string]interface{}{
			"status":           req.Status,
			"reviewed_at":      req.ReviewedAt,
			"reviewed_by":      req.ReviewedBy,
			"rejection_reason": req.RejectionReason,
			"updated_at":       time.Now(),
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update request %s: %w", req.ID, result.Error)
	}
	if result.RowsAffected == 0 {
		return common.ErrConflict.WithDetails("Update request has already been reviewed.")
	}
	return nil
}
