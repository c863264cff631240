package category

import (
	"time"

	"github.com/kpata360-rgb/workisready-backend1/internal/common"

	"github.com/google/uuid"
)

// Category is a main service category seeded from the taxonomy.
type Category struct {
	common.BaseModel
	Name          string        `gorm:"type:varchar(100);not null;uniqueIndex"`
	Slug          string        `gorm:"type:varchar(100);not null;uniqueIndex"`
	Position      int           `gorm:"not null;default:0"`
	SubCategories []SubCategory `gorm:"foreignKey:CategoryID;constraint:OnDelete:CASCADE"`
	// SubCategoryCount is filled by FindAllCategories and never stored.
	SubCategoryCount int `gorm:"->;-:migration"`
}

func (Category) TableName() string { return "categories" }

// SubCategory is a concrete service label under a Category.
type SubCategory struct {
	common.BaseModel
	CategoryID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_sub_categories_category_slug"`
	Name       string    `gorm:"type:varchar(100);not null"`
	Slug       string    `gorm:"type:varchar(100);not null;uniqueIndex:idx_sub_categories_category_slug"`
}

func (SubCategory) TableName() string { return "sub_categories" }

type CategoryResponse struct {
	ID               uuid.UUID             `json:"id"`
	Name             string                `json:"name"`
	Slug             string                `json:"slug"`
	SubCategoryCount int                   `json:"subCategoryCount"`
	SubCategories    []SubCategoryResponse `json:"subCategories,omitempty"`
	CreatedAt        time.Time             `json:"createdAt"`
}

type SubCategoryResponse struct {
	ID         uuid.UUID `json:"id"`
	Name       string    `json:"name"`
	Slug       string    `json:"slug"`
	CategoryID uuid.UUID `json:"categoryId"`
}

// ToCategoryResponse falls back to the preloaded slice for the count when the
// row was not loaded through FindAllCategories.
func ToCategoryResponse(c *Category) CategoryResponse {
	resp := CategoryResponse{
		ID:               c.ID,
		Name:             c.Name,
		Slug:             c.Slug,
		SubCategoryCount: c.SubCategoryCount,
		CreatedAt:        c.CreatedAt,
	}
	for _, sc := range c.SubCategories {
		resp.SubCategories = append(resp.SubCategories, SubCategoryResponse{
			ID: sc.ID, Name: sc.Name, Slug: sc.Slug, CategoryID: sc.CategoryID,
		})
	}
	if resp.SubCategoryCount == 0 {
		resp.SubCategoryCount = len(c.SubCategories)
	}
	return resp
}
