package task

import (
	"fmt"
	"strings"
	"time"

	"github.com/kpata360-rgb/workisready-backend1/internal/common"
	"github.com/kpata360-rgb/workisready-backend1/internal/location"

	"github.com/google/uuid"
)

// CreateTaskRequest is the body of POST /tasks. Forms send categories as
// repeated "category" keys and JSON sends them as an array.
type CreateTaskRequest struct {
	Title        string   `form:"title" json:"title" binding:"max=200"`
	Description  string   `form:"description" json:"description" binding:"max=5000"`
	MainCategory string   `form:"mainCategory" json:"mainCategory" binding:"max=100"`
	Categories   []string `form:"category" json:"category"`
	BudgetMin    *float64 `form:"budgetMin" json:"budgetMin" binding:"omitempty,gte=0"`
	BudgetMax    *float64 `form:"budgetMax" json:"budgetMax" binding:"omitempty,gte=0"`
	Location     string   `form:"location" json:"location" binding:"max=255"`
	City         string   `form:"city" json:"city" binding:"max=100"`
	Region       string   `form:"region" json:"region" binding:"max=100"`
	District     string   `form:"district" json:"district" binding:"max=100"`
	DueDate      string   `form:"dueDate" json:"dueDate"`
	Phone        string   `form:"phone" json:"phone" binding:"max=30"`
}

// MissingFields lists the absent required fields in a fixed order.
func (r CreateTaskRequest) MissingFields() []string {
	missing := make([]string, 0)
	if strings.TrimSpace(r.Title) == "" {
		missing = append(missing, "title")
	}
	if len(cleanLabels(r.Categories)) == 0 {
		missing = append(missing, "category")
	}
	if strings.TrimSpace(r.Description) == "" {
		missing = append(missing, "description")
	}
	if strings.TrimSpace(r.Location) == "" {
		missing = append(missing, "location")
	}
	if strings.TrimSpace(r.DueDate) == "" {
		missing = append(missing, "dueDate")
	}
	if strings.TrimSpace(r.Phone) == "" {
		missing = append(missing, "phone")
	}
	return missing
}

// ToTask validates the request and builds the model.
func (r CreateTaskRequest) ToTask() (*Task, error) {
	if missing := r.MissingFields(); len(missing) > 0 {
		return nil, common.NewValidationAPIError(map[string]interface{}{"missingFields": missing}).
			WithMessage("Missing required fields: " + strings.Join(missing, ", "))
	}

	labels := cleanLabels(r.Categories)
	if len(labels) > MaxCategories {
		return nil, common.ErrBadRequest.WithDetails(fmt.Sprintf("A task can have at most %d categories.", MaxCategories))
	}
	if r.BudgetMin != nil && r.BudgetMax != nil && *r.BudgetMin > *r.BudgetMax {
		return nil, common.ErrBadRequest.WithDetails("budgetMin cannot be greater than budgetMax.")
	}
	due, err := ParseDate(r.DueDate)
	if err != nil {
		return nil, common.ErrBadRequest.WithDetails("dueDate must be a date (YYYY-MM-DD) or an RFC 3339 timestamp.")
	}

	mainCategory := strings.TrimSpace(r.MainCategory)
	if mainCategory == "" {
		mainCategory = labels[0]
	}

	t := &Task{
		Title:        strings.TrimSpace(r.Title),
		Description:  strings.TrimSpace(r.Description),
		MainCategory: mainCategory,
		Categories:   newCategories(labels),
		BudgetMin:    r.BudgetMin,
		BudgetMax:    r.BudgetMax,
		Location: location.Location{
			Address:  r.Location,
			City:     r.City,
			Region:   r.Region,
			District: r.District,
		},
		DueDate: due,
		Phone:   strings.TrimSpace(r.Phone),
		Status:  StatusOpen,
	}
	t.Location.Normalize()
	return t, nil
}

// ParseDate accepts a calendar date or an RFC 3339 timestamp.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if d, err := time.Parse("2006-01-02", s); err == nil {
		return d, nil
	}
	return time.Parse(time.RFC3339, s)
}

// cleanLabels trims labels and drops blanks and case-insensitive duplicates.
func cleanLabels(in []string) []string {
	out := make([]string, 0, len(in))
	seen := make(map[string]bool, len(in))
	for _, l := range in {
		l = strings.TrimSpace(l)
		key := location.NormalizeKey(l)
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, l)
	}
	return out
}

// UpdateStatusRequest is the body of PUT /tasks/:id/status.
type UpdateStatusRequest struct {
	Status Status `json:"status" binding:"required,oneof=open completed"`
}

// ListQuery carries the GET /tasks query parameters.
type ListQuery struct {
	Region       string `form:"region"`
	Status       string `form:"status"`
	MainCategory string `form:"mainCategory"`
	Category     string `form:"category"`
	City         string `form:"city"`
	Page         int    `form:"page"`
	Limit        int    `form:"limit"`
}

// Filter is a normalized task query. Empty fields do not constrain.
type Filter struct {
	ClientID     *uuid.UUID
	RegionKey    string
	Status       Status
	MainCategory string
	CategoryKey  string
	CityKey      string
	Page         int
	Limit        int
}

// BuildFilter normalizes a ListQuery. Status defaults to open.
func BuildFilter(q ListQuery) (Filter, error) {
	status := Status(strings.ToLower(strings.TrimSpace(q.Status)))
	if status == "" {
		status = StatusOpen
	}
	if !status.Valid() {
		return Filter{}, common.ErrBadRequest.WithDetails("status must be one of: open, completed.")
	}
	page, limit := common.NormalizePage(q.Page, q.Limit)
	return Filter{
		RegionKey:    location.NormalizeRegion(q.Region),
		Status:       status,
		MainCategory: strings.TrimSpace(q.MainCategory),
		CategoryKey:  location.NormalizeKey(q.Category),
		CityKey:      location.NormalizeKey(q.City),
		Page:         page,
		Limit:        limit,
	}, nil
}
