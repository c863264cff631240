package provider

import (
	"time"

	"github.com/kpata360-rgb/workisready-backend1/internal/common"
	"github.com/kpata360-rgb/workisready-backend1/internal/filestorage"
	"github.com/kpata360-rgb/workisready-backend1/internal/location"
	"github.com/kpata360-rgb/workisready-backend1/internal/user"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// MaxSampleWork bounds the gallery. Older entries are dropped first.
const MaxSampleWork = 10

// Provider is the service profile of a user. One per user.
type Provider struct {
	common.BaseModel
	UserID          uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex"`
	User            *user.User `gorm:"foreignKey:UserID"`
	BusinessName    string     `gorm:"type:varchar(150);not null"`
	Bio             string     `gorm:"type:text"`
	Phone           string     `gorm:"type:varchar(30)"`
	WhatsApp        string     `gorm:"column:whatsapp;type:varchar(30)"`
	ExperienceYears int        `gorm:"not null;default:0"`
	Categories      []Category `gorm:"foreignKey:ProviderID;constraint:OnDelete:CASCADE"`
	Skills          datatypes.JSONSlice[string]
	Location        location.Location `gorm:"embedded"`
	ProfilePicture  string            `gorm:"type:text"`
	SampleWork      datatypes.JSONSlice[SampleWork]
	IsApproved      bool `gorm:"not null;default:false;index"`
	ApprovedAt      *time.Time
	Reviews         []Review `gorm:"foreignKey:ProviderID;constraint:OnDelete:CASCADE"`
	AverageRating   float64  `gorm:"not null;default:0"`
	ReviewCount     int      `gorm:"not null;default:0"`
}

// TableName specifies the table name for the Provider model.
func (Provider) TableName() string {
	return "providers"
}

// Labels returns the display names of the provider's categories.
func (p Provider) Labels() []string {
	labels := make([]string, 0, len(p.Categories))
	for _, c := range p.Categories {
		labels = append(labels, c.Name)
	}
	return labels
}

// SetCategories replaces the category list, deduplicating case-insensitively.
func (p *Provider) SetCategories(labels []string) {
	p.Categories = make([]Category, 0, len(labels))
	seen := make(map[string]bool, len(labels))
	for _, l := range labels {
		key := location.NormalizeKey(l)
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		p.Categories = append(p.Categories, Category{ProviderID: p.ID, Name: l, NameKey: key})
	}
}

// SampleWorkPaths returns the stored paths of the gallery entries.
func (p Provider) SampleWorkPaths() []string {
	paths := make([]string, 0, len(p.SampleWork))
	for _, s := range p.SampleWork {
		paths = append(paths, s.Path)
	}
	return paths
}

// Category is one entry of a provider's category list.
type Category struct {
	ID         uint      `gorm:"primaryKey"`
	ProviderID uuid.UUID `gorm:"type:uuid;not null;index"`
	Name       string    `gorm:"type:varchar(100);not null"`
	NameKey    string    `gorm:"type:varchar(100);not null;index"`
}

// TableName specifies the table name for the Category model.
func (Category) TableName() string {
	return "provider_categories"
}

// SampleWork is one gallery entry.
type SampleWork struct {
	ID      uuid.UUID `json:"id"`
	Path    string    `json:"path"`
	AddedAt time.Time `json:"addedAt"`
}

// AppendSampleWork adds new gallery entries and truncates to MaxSampleWork,
// oldest first. It returns the kept gallery and the paths that fell off.
func AppendSampleWork(existing []SampleWork, paths []string, now time.Time) ([]SampleWork, []string) {
	gallery := make([]SampleWork, 0, len(existing)+len(paths))
	gallery = append(gallery, existing...)
	for _, p := range paths {
		gallery = append(gallery, SampleWork{ID: uuid.New(), Path: p, AddedAt: now})
	}
	if len(gallery) <= MaxSampleWork {
		return gallery, nil
	}
	cut := len(gallery) - MaxSampleWork
	dropped := make([]string, 0, cut)
	for _, s := range gallery[:cut] {
		dropped = append(dropped, s.Path)
	}
	return gallery[cut:], dropped
}

// Review is a rating left by a user on a provider.
type Review struct {
	common.BaseModel
	ProviderID uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_provider_reviews_provider_author"`
	AuthorID   uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_provider_reviews_provider_author"`
	Author     *user.User `gorm:"foreignKey:AuthorID"`
	Rating     int        `gorm:"not null"`
	Comment    string     `gorm:"type:text"`
}

// TableName specifies the table name for the Review model.
func (Review) TableName() string {
	return "provider_reviews"
}

// --- DTOs ---

// SampleWorkResponse is a gallery entry with its public URL.
type SampleWorkResponse struct {
	ID      uuid.UUID `json:"id"`
	URL     string    `json:"url"`
	AddedAt time.Time `json:"addedAt"`
}

// ProviderResponse is the API representation of a provider.
type ProviderResponse struct {
	ID              uuid.UUID            `json:"id"`
	UserID          uuid.UUID            `json:"userId"`
	Name            string               `json:"name,omitempty"`
	BusinessName    string               `json:"businessName"`
	Bio             string               `json:"bio,omitempty"`
	Phone           string               `json:"phone,omitempty"`
	WhatsApp        string               `json:"whatsapp,omitempty"`
	ExperienceYears int                  `json:"experienceYears"`
	Categories      []string             `json:"categories"`
	Skills          []string             `json:"skills"`
	Location        string               `json:"location,omitempty"`
	City            string               `json:"city,omitempty"`
	Region          string               `json:"region,omitempty"`
	District        string               `json:"district,omitempty"`
	ProfilePicture  string               `json:"profilePicture,omitempty"`
	SampleWork      []SampleWorkResponse `json:"sampleWork"`
	IsApproved      bool                 `json:"isApproved"`
	ApprovedAt      *time.Time           `json:"approvedAt,omitempty"`
	AverageRating   float64              `json:"averageRating"`
	ReviewCount     int                  `json:"reviewCount"`
	CreatedAt       time.Time            `json:"createdAt"`
	UpdatedAt       time.Time            `json:"updatedAt"`
}

// ToProviderResponse converts a Provider model to its DTO.
func ToProviderResponse(p *Provider) ProviderResponse {
	resp := ProviderResponse{
		ID:              p.ID,
		UserID:          p.UserID,
		BusinessName:    p.BusinessName,
		Bio:             p.Bio,
		Phone:           p.Phone,
		WhatsApp:        p.WhatsApp,
		ExperienceYears: p.ExperienceYears,
		Categories:      p.Labels(),
		Skills:          append([]string{}, p.Skills...),
		Location:        p.Location.Address,
		City:            p.Location.City,
		Region:          p.Location.Region,
		District:        p.Location.District,
		ProfilePicture:  filestorage.PublicPath(p.ProfilePicture),
		SampleWork:      make([]SampleWorkResponse, 0, len(p.SampleWork)),
		IsApproved:      p.IsApproved,
		ApprovedAt:      p.ApprovedAt,
		AverageRating:   p.AverageRating,
		ReviewCount:     p.ReviewCount,
		CreatedAt:       p.CreatedAt,
		UpdatedAt:       p.UpdatedAt,
	}
	if p.User != nil {
		resp.Name = p.User.FullName
	}
	for _, s := range p.SampleWork {
		resp.SampleWork = append(resp.SampleWork, SampleWorkResponse{ID: s.ID, URL: filestorage.PublicPath(s.Path), AddedAt: s.AddedAt})
	}
	return resp
}

// ToProviderResponses converts a slice, never returning nil.
func ToProviderResponses(providers []Provider) []ProviderResponse {
	out := make([]ProviderResponse, 0, len(providers))
	for i := range providers {
		out = append(out, ToProviderResponse(&providers[i]))
	}
	return out
}

// ReviewResponse is the API representation of a review.
type ReviewResponse struct {
	ID         uuid.UUID `json:"id"`
	ProviderID uuid.UUID `json:"providerId"`
	AuthorID   uuid.UUID `json:"authorId"`
	AuthorName string    `json:"authorName,omitempty"`
	Rating     int       `json:"rating"`
	Comment    string    `json:"comment,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
}

// ToReviewResponse converts a Review model to its DTO.
func ToReviewResponse(r *Review) ReviewResponse {
	resp := ReviewResponse{
		ID:         r.ID,
		ProviderID: r.ProviderID,
		AuthorID:   r.AuthorID,
		Rating:     r.Rating,
		Comment:    r.Comment,
		CreatedAt:  r.CreatedAt,
	}
	if r.Author != nil {
		resp.AuthorName = r.Author.FullName
	}
	return resp
}

// CategorySummary is one category bucket of a region summary.
type CategorySummary struct {
	Category  string             `json:"category"`
	Count     int                `json:"count"`
	Providers []ProviderResponse `json:"providers"`
}

// RegionSummary groups a region's approved providers by category.
type RegionSummary struct {
	Region     string            `json:"region"`
	Total      int               `json:"total"`
	Categories []CategorySummary `json:"categories"`
}
