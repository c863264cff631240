package common

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// BaseModel is embedded by every table with a uuid key. The id is minted in
// BeforeCreate, so no database extension is needed for it.
type BaseModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt time.Time `gorm:"not null" json:"createdAt"`
	UpdatedAt time.Time `gorm:"not null" json:"updatedAt"`
}

func (m *BaseModel) BeforeCreate(*gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

// Pagination describes where a page sits in the full result set.
type Pagination struct {
	TotalItems  int64 `json:"total"`
	TotalPages  int   `json:"totalPages"`
	CurrentPage int   `json:"page"`
	PageSize    int   `json:"limit"`
	HasNext     bool  `json:"hasNext"`
	HasPrev     bool  `json:"hasPrev"`
}

func NewPagination(totalItems int64, page, pageSize int) *Pagination {
	page, pageSize = NormalizePage(page, pageSize)
	pages := int(totalItems / int64(pageSize))
	if totalItems%int64(pageSize) != 0 {
		pages++
	}
	return &Pagination{
		TotalItems:  totalItems,
		TotalPages:  pages,
		CurrentPage: page,
		PageSize:    pageSize,
		HasNext:     page < pages,
		HasPrev:     page > 1,
	}
}
