package featured

import (
	"github.com/kpata360-rgb/workisready-backend1/internal/common"
	"github.com/kpata360-rgb/workisready-backend1/internal/provider"

	"github.com/google/uuid"
)

// FeaturedProvider pins an approved provider to the homepage.
type FeaturedProvider struct {
	common.BaseModel
	ProviderID uuid.UUID          `gorm:"type:uuid;not null;uniqueIndex"`
	Provider   *provider.Provider `gorm:"foreignKey:ProviderID"`
	Position   int                `gorm:"not null;index"`
	FeaturedBy uuid.UUID          `gorm:"type:uuid"`
}

// TableName specifies the table name for the FeaturedProvider model.
func (FeaturedProvider) TableName() string {
	return "featured_providers"
}

// FeaturedResponse is one homepage entry.
type FeaturedResponse struct {
	Position int                       `json:"position"`
	Provider provider.ProviderResponse `json:"provider"`
}

// ToggleResponse reports the state after a toggle.
type ToggleResponse struct {
	ProviderID uuid.UUID `json:"providerId"`
	Featured   bool      `json:"featured"`
	Position   int       `json:"position,omitempty"`
}

// ToFeaturedResponses skips entries whose provider was not loaded.
func ToFeaturedResponses(entries []FeaturedProvider) []FeaturedResponse {
	out := make([]FeaturedResponse, 0, len(entries))
	for i := range entries {
		if entries[i].Provider == nil {
			continue
		}
		out = append(out, FeaturedResponse{
			Position: entries[i].Position,
			Provider: provider.ToProviderResponse(entries[i].Provider),
		})
	}
	return out
}
