package provider

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/kpata360-rgb/workisready-backend1/internal/common"
	"github.com/kpata360-rgb/workisready-backend1/internal/platform/database"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrAlreadyReviewed is returned when the author has reviewed the provider before.
var ErrAlreadyReviewed = common.ErrBadRequest.WithMessage("You have already reviewed this provider.")

// Repository defines the interface for provider data operations.
type Repository interface {
	Create(ctx context.Context, p *Provider) error
	FindByID(ctx context.Context, id uuid.UUID) (*Provider, error)
	FindByUserID(ctx context.Context, userID uuid.UUID) (*Provider, error)
	Save(ctx context.Context, p *Provider, replaceCategories bool) error
	Delete(ctx context.Context, id uuid.UUID) error
	Search(ctx context.Context, f Filter) ([]Provider, int64, error)
	// ListApproved returns every approved provider, optionally of one region.
	ListApproved(ctx context.Context, regionKey string) ([]Provider, error)
	ListReviews(ctx context.Context, providerID uuid.UUID) ([]Review, error)
	// AddReview inserts the review and recomputes the provider's rating in one transaction.
	AddReview(ctx context.Context, review *Review) (*Provider, error)
}

type gormRepository struct {
	db *gorm.DB
}

// NewGORMRepository creates a new GORM provider repository.
func NewGORMRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) Create(ctx context.Context, p *Provider) error {
	if err := r.db.WithContext(ctx).Create(p).Error; err != nil {
		if database.IsUniqueViolation(err) {
			return common.ErrConflict.WithDetails("A provider profile already exists for this user.")
		}
		return fmt.Errorf("failed to create provider: %w", err)
	}
	return nil
}

func (r *gormRepository) FindByID(ctx context.Context, id uuid.UUID) (*Provider, error) {
	return r.findOne(ctx, "id = ?", id)
}

func (r *gormRepository) FindByUserID(ctx context.Context, userID uuid.UUID) (*Provider, error) {
	return r.findOne(ctx, "user_id = ?", userID)
}

func (r *gormRepository) findOne(ctx context.Context, query string, arg interface{}) (*Provider, error) {
	var p Provider
	err := r.db.WithContext(ctx).
		Preload("Categories", orderCategories).
		Preload("User").
		Where(query, arg).
		First(&p).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrNotFound.WithDetails("Provider not found.")
		}
		return nil, fmt.Errorf("failed to find provider: %w", err)
	}
	return &p, nil
}

func (r *gormRepository) Save(ctx context.Context, p *Provider, replaceCategories bool) error {
	return SaveProfile(r.db.WithContext(ctx), p, replaceCategories)
}

// SaveProfile writes the provider's own columns with db, which may be a
// transaction. With replaceCategories the category rows are rewritten
// from p.Categories.
func SaveProfile(db *gorm.DB, p *Provider, replaceCategories bool) error {
	p.Location.Normalize()
	if err := db.Omit(clause.Associations).Save(p).Error; err != nil {
		return fmt.Errorf("failed to save provider %s: %w", p.ID, err)
	}
	if !replaceCategories {
		return nil
	}
	if err := db.Where("provider_id = ?", p.ID).Delete(&Category{}).Error; err != nil {
		return fmt.Errorf("failed to clear categories of provider %s: %w", p.ID, err)
	}
	for i := range p.Categories {
		p.Categories[i].ID = 0
		p.Categories[i].ProviderID = p.ID
	}
	if len(p.Categories) == 0 {
		return nil
	}
	if err := db.Create(&p.Categories).Error; err != nil {
		return fmt.Errorf("failed to write categories of provider %s: %w", p.ID, err)
	}
	return nil
}

// Delete removes a provider with its categories and reviews.
func (r *gormRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("provider_id = ?", id).Delete(&Category{}).Error; err != nil {
			return err
		}
		if err := tx.Where("provider_id = ?", id).Delete(&Review{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&Provider{}, "id = ?", id)
		if result.Error != nil {
			return fmt.Errorf("failed to delete provider %s: %w", id, result.Error)
		}
		if result.RowsAffected == 0 {
			return common.ErrNotFound.WithDetails("Provider not found.")
		}
		return nil
	})
}

// Search runs the page and count queries concurrently.
func (r *gormRepository) Search(ctx context.Context, f Filter) ([]Provider, int64, error) {
	var (
		providers []Provider
		total     int64
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := r.db.WithContext(gctx).Model(&Provider{}).Scopes(filterScope(f)).Count(&total).Error; err != nil {
			return fmt.Errorf("counting providers failed: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		err := r.db.WithContext(gctx).
			Scopes(filterScope(f)).
			Preload("Categories", orderCategories).
			Preload("User").
			Order(sortClause(f.Sort)).
			Order("id ASC").
			Limit(f.Limit).
			Offset(common.Offset(f.Page, f.Limit)).
			Find(&providers).Error
		if err != nil {
			return fmt.Errorf("searching providers failed: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, 0, err
	}
	return providers, total, nil
}

func (r *gormRepository) ListApproved(ctx context.Context, regionKey string) ([]Provider, error) {
	var providers []Provider
	err := r.db.WithContext(ctx).
		Scopes(filterScope(Filter{ApprovedOnly: true, RegionKey: regionKey})).
		Preload("Categories", orderCategories).
		Order("created_at ASC").
		Find(&providers).Error
	if err != nil {
		return nil, fmt.Errorf("listing approved providers failed: %w", err)
	}
	return providers, nil
}

func (r *gormRepository) ListReviews(ctx context.Context, providerID uuid.UUID) ([]Review, error) {
	var reviews []Review
	err := r.db.WithContext(ctx).
		Preload("Author").
		Where("provider_id = ?", providerID).
		Order("created_at DESC").
		Find(&reviews).Error
	if err != nil {
		return nil, fmt.Errorf("listing reviews of provider %s failed: %w", providerID, err)
	}
	return reviews, nil
}

func (r *gormRepository) AddReview(ctx context.Context, review *Review) (*Provider, error) {
	var p Provider
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(review).Error; err != nil {
			if database.IsUniqueViolation(err) {
				return ErrAlreadyReviewed
			}
			return fmt.Errorf("failed to create review: %w", err)
		}

		var ratings []int
		if err := tx.Model(&Review{}).Where("provider_id = ?", review.ProviderID).Pluck("rating", &ratings).Error; err != nil {
			return fmt.Errorf("failed to load ratings: %w", err)
		}
		sum := 0
		for _, v := range ratings {
			sum += v
		}
		avg := 0.0
		if len(ratings) > 0 {
			avg = RoundRating(float64(sum) / float64(len(ratings)))
		}

		result := tx.Model(&Provider{}).Where("id = ?", review.ProviderID).Updates(map[string]interface{}{
			"average_rating": avg,
			"review_count":   len(ratings),
		})
		if result.Error != nil {
			return fmt.Errorf("failed to update provider rating: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return common.ErrNotFound.WithDetails("Provider not found.")
		}
		return tx.First(&p, "id = ?", review.ProviderID).Error
	})
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// RoundRating rounds to two decimals.
func RoundRating(v float64) float64 {
	return math.Round(v*100) / 100
}

func filterScope(f Filter) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		switch {
		case f.Approved != nil:
			db = db.Where("is_approved = ?", *f.Approved)
		case f.ApprovedOnly:
			db = db.Where("is_approved = ?", true)
		}
		if f.RegionKey != "" {
			db = db.Where("region_key = ?", f.RegionKey)
		}
		if f.CityKey != "" {
			db = db.Where("city_key = ?", f.CityKey)
		}
		if len(f.AnyCategoryKeys) > 0 {
			db = db.Where("id IN (?)", categorySubquery(db).Where("name_key IN ?", f.AnyCategoryKeys))
		}
		if f.CategoryKey != "" {
			db = db.Where("id IN (?)", categorySubquery(db).Where("name_key = ?", f.CategoryKey))
		}
		return db
	}
}

func categorySubquery(db *gorm.DB) *gorm.DB {
	return db.Session(&gorm.Session{NewDB: true}).Model(&Category{}).Select("provider_id")
}

func sortClause(sort string) string {
	switch sort {
	case SortRating:
		return "average_rating DESC"
	case SortExperience:
		return "experience_years DESC"
	default:
		return "created_at DESC"
	}
}

func orderCategories(db *gorm.DB) *gorm.DB {
	return db.Order("id ASC")
}
