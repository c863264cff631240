package featured

import (
	"context"
	"errors"
	"fmt"

	"github.com/kpata360-rgb/workisready-backend1/internal/common"
	"github.com/kpata360-rgb/workisready-backend1/internal/platform/database"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository defines the interface for featured provider data operations.
type Repository interface {
	// List returns entries of approved providers ordered by position.
	List(ctx context.Context) ([]FeaturedProvider, error)
	FindByProviderID(ctx context.Context, providerID uuid.UUID) (*FeaturedProvider, error)
	// Add appends the entry at the next free position.
	Add(ctx context.Context, f *FeaturedProvider) error
	Remove(ctx context.Context, providerID uuid.UUID) error
}

type gormRepository struct {
	db *gorm.DB
}

// NewGORMRepository creates a new GORM featured provider repository.
func NewGORMRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) List(ctx context.Context) ([]FeaturedProvider, error) {
	var entries []FeaturedProvider
	err := r.db.WithContext(ctx).
		Joins("JOIN providers ON providers.id = featured_providers.provider_id AND providers.is_approved = ?", true).
		Preload("Provider.Categories").
		Order("featured_providers.position ASC").
		Find(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list featured providers: %w", err)
	}
	return entries, nil
}

func (r *gormRepository) FindByProviderID(ctx context.Context, providerID uuid.UUID) (*FeaturedProvider, error) {
	var f FeaturedProvider
	err := r.db.WithContext(ctx).First(&f, "provider_id = ?", providerID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrNotFound.WithDetails("Provider is not featured.")
		}
		return nil, fmt.Errorf("failed to find featured provider: %w", err)
	}
	return &f, nil
}

func (r *gormRepository) Add(ctx context.Context, f *FeaturedProvider) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var maxPos int
		if err := tx.Model(&FeaturedProvider{}).Select("COALESCE(MAX(position), 0)").Scan(&maxPos).Error; err != nil {
			return fmt.Errorf("failed to read featured positions: %w", err)
		}
		f.Position = maxPos + 1
		if err := tx.Omit("Provider").Create(f).Error; err != nil {
			if database.IsUniqueViolation(err) {
				return common.ErrConflict.WithDetails("Provider is already featured.")
			}
			return fmt.Errorf("failed to feature provider: %w", err)
		}
		return nil
	})
}

func (r *gormRepository) Remove(ctx context.Context, providerID uuid.UUID) error {
	result := r.db.WithContext(ctx).Where("provider_id = ?", providerID).Delete(&FeaturedProvider{})
	if result.Error != nil {
		return fmt.Errorf("failed to unfeature provider: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return common.ErrNotFound.WithDetails("Provider is not featured.")
	}
	return nil
}
