package provider

import (
	"strings"

	"github.com/kpata360-rgb/workisready-backend1/internal/location"
)

// RegisterRequest is the multipart body of POST /providers. Categories and
// skills are repeated form keys; files travel as profilePicture and sampleWork.
type RegisterRequest struct {
	BusinessName    string   `form:"businessName" binding:"required,max=150"`
	Bio             string   `form:"bio" binding:"max=5000"`
	Phone           string   `form:"phone" binding:"max=30"`
	WhatsApp        string   `form:"whatsapp" binding:"max=30"`
	ExperienceYears int      `form:"experienceYears" binding:"gte=0,lte=80"`
	Categories      []string `form:"categories" binding:"required,min=1,max=20,dive,required,max=100"`
	Skills          []string `form:"skills" binding:"max=50,dive,max=100"`
	Address         string   `form:"location" binding:"max=255"`
	City            string   `form:"city" binding:"max=100"`
	Region          string   `form:"region" binding:"required,max=100"`
	District        string   `form:"district" binding:"max=100"`
}

// ToProvider builds an unapproved provider from the form.
func (r RegisterRequest) ToProvider() *Provider {
	p := &Provider{
		BusinessName:    strings.TrimSpace(r.BusinessName),
		Bio:             strings.TrimSpace(r.Bio),
		Phone:           strings.TrimSpace(r.Phone),
		WhatsApp:        strings.TrimSpace(r.WhatsApp),
		ExperienceYears: r.ExperienceYears,
		Skills:          CleanList(r.Skills),
		Location: location.Location{
			Address:  r.Address,
			City:     r.City,
			Region:   r.Region,
			District: r.District,
		},
	}
	p.SetCategories(CleanList(r.Categories))
	p.Location.Normalize()
	return p
}

// CleanList trims entries and drops blanks and case-insensitive duplicates.
func CleanList(in []string) []string {
	out := make([]string, 0, len(in))
	seen := make(map[string]bool, len(in))
	for _, v := range in {
		v = strings.TrimSpace(v)
		key := location.NormalizeKey(v)
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, v)
	}
	return out
}

// ListQuery carries the GET /providers query parameters.
type ListQuery struct {
	Region       string `form:"region"`
	Category     string `form:"category"`
	MainCategory string `form:"mainCategory"`
	City         string `form:"city"`
	Page         int    `form:"page"`
	Limit        int    `form:"limit"`
}

// Sort orders for provider listings.
const (
	SortNewest     = "newest"
	SortRating     = "rating"
	SortExperience = "experience"
)

// RegionCategoryQuery carries the GET /providers/region-category parameters.
type RegionCategoryQuery struct {
	Region   string `form:"region"`
	Category string `form:"category" binding:"required"`
	Sort     string `form:"sort" binding:"omitempty,oneof=newest rating experience"`
	Page     int    `form:"page"`
	Limit    int    `form:"limit"`
}

// AdminListQuery filters GET /admin/providers.
type AdminListQuery struct {
	Approved *bool `form:"approved"`
	Page     int   `form:"page"`
	Limit    int   `form:"limit"`
}

// ApprovalRequest is the body of PATCH /admin/providers/:id/approval.
type ApprovalRequest struct {
	Approved *bool `json:"approved" binding:"required"`
}

// ReviewRequest is the body of POST /providers/:id/reviews.
type ReviewRequest struct {
	Rating  int    `json:"rating" binding:"required,gte=1,lte=5"`
	Comment string `json:"comment" binding:"max=2000"`
}

// Filter is a normalized provider query. Empty fields do not constrain.
type Filter struct {
	// ApprovedOnly restricts to approved providers. Approved, when set, overrides it.
	ApprovedOnly bool
	Approved     *bool
	RegionKey    string
	CityKey      string
	// AnyCategoryKeys matches providers with at least one of the keys.
	AnyCategoryKeys []string
	CategoryKey     string
	Sort            string
	Page            int
	Limit           int
}
