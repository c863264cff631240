package notification

import (
	"context"
	"errors"
	"fmt"

	"github.com/kpata360-rgb/workisready-backend1/internal/common"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

// ListQuery selects a page of one user's notifications.
type ListQuery struct {
	UnreadOnly bool `form:"unread"`
	Page       int  `form:"page"`
	Limit      int  `form:"limit"`
}

type Repository interface {
	Create(ctx context.Context, n *Notification) error
	// List returns the user's notifications, newest first.
	List(ctx context.Context, userID uuid.UUID, q ListQuery) ([]Notification, *common.Pagination, error)
	CountUnread(ctx context.Context, userID uuid.UUID) (int64, error)
	// MarkRead flags one notification as read. It is a no-op when already read
	// and a 404 when the notification belongs to someone else.
	MarkRead(ctx context.Context, id, userID uuid.UUID) error
	MarkAllRead(ctx context.Context, userID uuid.UUID) (int64, error)
}

type gormRepository struct {
	db *gorm.DB
}

func NewGORMRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

func ownedBy(userID uuid.UUID) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB { return db.Where("user_id = ?", userID) }
}

func unread(db *gorm.DB) *gorm.DB { return db.Where("is_read = ?", false) }

func (r *gormRepository) Create(ctx context.Context, n *Notification) error {
	if err := r.db.WithContext(ctx).Create(n).Error; err != nil {
		return fmt.Errorf("insert notification: %w", err)
	}
	return nil
}

func (r *gormRepository) List(ctx context.Context, userID uuid.UUID, q ListQuery) ([]Notification, *common.Pagination, error) {
	page, limit := common.NormalizePage(q.Page, q.Limit)
	scopes := []func(*gorm.DB) *gorm.DB{ownedBy(userID)}
	if q.UnreadOnly {
		scopes = append(scopes, unread)
	}

	var (
		items []Notification
		total int64
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return r.db.WithContext(gctx).Model(&Notification{}).Scopes(scopes...).Count(&total).Error
	})
	g.Go(func() error {
		return r.db.WithContext(gctx).Scopes(scopes...).
			Order("created_at DESC").
			Offset(common.Offset(page, limit)).
			Limit(limit).
			Find(&items).Error
	})
	if err := g.Wait(); err != nil {
		return nil, nil, fmt.Errorf("list notifications for %s: %w", userID, err)
	}
	return items, common.NewPagination(total, page, limit), nil
}

func (r *gormRepository) CountUnread(ctx context.Context, userID uuid.UUID) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&Notification{}).Scopes(ownedBy(userID), unread).Count(&n).Error
	if err != nil {
		return 0, fmt.Errorf("count unread notifications for %s: %w", userID, err)
	}
	return n, nil
}

func (r *gormRepository) MarkRead(ctx context.Context, id, userID uuid.UUID) error {
	res := r.db.WithContext(ctx).Model(&Notification{}).
		Scopes(ownedBy(userID), unread).
		Where("id = ?", id).
		Update("is_read", true)
	if res.Error != nil {
		return fmt.Errorf("mark notification %s read: %w", id, res.Error)
	}
	if res.RowsAffected > 0 {
		return nil
	}

	var existing Notification
	err := r.db.WithContext(ctx).Scopes(ownedBy(userID)).Select("id").First(&existing, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return common.ErrNotFound.WithDetails("Notification not found.")
	}
	return err
}

func (r *gormRepository) MarkAllRead(ctx context.Context, userID uuid.UUID) (int64, error) {
	res := r.db.WithContext(ctx).Model(&Notification{}).
		Scopes(ownedBy(userID), unread).
		Update("is_read", true)
	if res.Error != nil {
		return 0, fmt.Errorf("mark all notifications read for %s: %w", userID, res.Error)
	}
	return res.RowsAffected, nil
}
