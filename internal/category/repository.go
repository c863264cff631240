package category

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/kpata360-rgb/workisready-backend1/internal/common"

	"github.com/gosimple/slug"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Repository interface {
	FindCategoryBySlug(ctx context.Context, slug string, withSubCategories bool) (*Category, error)
	FindAllCategories(ctx context.Context, withSubCategories bool) ([]Category, error)
	// SeedTaxonomy inserts any taxonomy entries missing from the tables.
	// Existing rows are left untouched. It returns the number of rows created.
	SeedTaxonomy(ctx context.Context, t *Taxonomy) (int, error)
}

type gormRepository struct {
	db *gorm.DB
}

func NewGORMRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

func subCategoriesByName(db *gorm.DB) *gorm.DB {
	return db.Order("sub_categories.name ASC")
}

func (r *gormRepository) FindCategoryBySlug(ctx context.Context, s string, withSubCategories bool) (*Category, error) {
	q := r.db.WithContext(ctx)
	if withSubCategories {
		q = q.Preload("SubCategories", subCategoriesByName)
	}
	var cat Category
	err := q.Where("slug = ?", strings.ToLower(strings.TrimSpace(s))).First(&cat).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return nil, common.ErrNotFound.WithDetails("Category not found.")
	case err != nil:
		return nil, fmt.Errorf("find category %q: %w", s, err)
	}
	return &cat, nil
}

func (r *gormRepository) FindAllCategories(ctx context.Context, withSubCategories bool) ([]Category, error) {
	counts := r.db.Model(&SubCategory{}).
		Select("COUNT(*)").
		Where("sub_categories.category_id = categories.id")

	q := r.db.WithContext(ctx).Model(&Category{}).
		Select("categories.*, (?) AS sub_category_count", counts).
		Order("categories.position ASC").
		Order("categories.name ASC")
	if withSubCategories {
		q = q.Preload("SubCategories", subCategoriesByName)
	}

	var cats []Category
	if err := q.Find(&cats).Error; err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return cats, nil
}

func (r *gormRepository) SeedTaxonomy(ctx context.Context, t *Taxonomy) (int, error) {
	var created int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for pos, mc := range t.Categories() {
			var cat Category
			res := tx.Where("slug = ?", mc.Slug).Limit(1).Find(&cat)
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				cat = Category{Name: mc.Name, Slug: mc.Slug, Position: pos}
				if err := tx.Create(&cat).Error; err != nil {
					return fmt.Errorf("create category %q: %w", mc.Name, err)
				}
				created++
			}

			for _, name := range mc.SubCategories {
				sub := SubCategory{CategoryID: cat.ID, Name: name, Slug: slug.Make(name)}
				res := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&sub)
				if res.Error != nil {
					return fmt.Errorf("create sub-category %q: %w", name, res.Error)
				}
				created += res.RowsAffected
			}
		}
		return nil
	})
	return int(created), err
}
