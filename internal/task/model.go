package task

import (
	"time"

	"github.com/kpata360-rgb/workisready-backend1/internal/common"
	"github.com/kpata360-rgb/workisready-backend1/internal/filestorage"
	"github.com/kpata360-rgb/workisready-backend1/internal/location"
	"github.com/kpata360-rgb/workisready-backend1/internal/user"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Status is the lifecycle state of a task. It can move in both directions.
type Status string

const (
	StatusOpen      Status = "open"
	StatusCompleted Status = "completed"
)

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	return s == StatusOpen || s == StatusCompleted
}

const (
	MaxCategories = 5
	MaxImages     = 5
)

// Task is a job posted by a client.
type Task struct {
	common.BaseModel
	ClientID     uuid.UUID         `gorm:"type:uuid;not null;index"`
	Client       *user.User        `gorm:"foreignKey:ClientID"`
	Title        string            `gorm:"type:varchar(200);not null"`
	Description  string            `gorm:"type:text;not null"`
	MainCategory string            `gorm:"type:varchar(100);not null;index"`
	Categories   []Category        `gorm:"foreignKey:TaskID;constraint:OnDelete:CASCADE"`
	BudgetMin    *float64          `gorm:"type:decimal(12,2)"`
	BudgetMax    *float64          `gorm:"type:decimal(12,2)"`
	Location     location.Location `gorm:"embedded"`
	DueDate      time.Time         `gorm:"not null"`
	Phone        string            `gorm:"type:varchar(30);not null"`
	Images       datatypes.JSONSlice[string]
	Status       Status `gorm:"type:varchar(20);not null;default:'open';index"`
	CompletedAt  *time.Time
}

// TableName specifies the table name for the Task model.
func (Task) TableName() string {
	return "tasks"
}

// Labels returns the display names of the task's categories.
func (t Task) Labels() []string {
	labels := make([]string, 0, len(t.Categories))
	for _, c := range t.Categories {
		labels = append(labels, c.Name)
	}
	return labels
}

// Category is one entry of a task's category list. NameKey is what filters match.
type Category struct {
	ID      uint      `gorm:"primaryKey"`
	TaskID  uuid.UUID `gorm:"type:uuid;not null;index"`
	Name    string    `gorm:"type:varchar(100);not null"`
	NameKey string    `gorm:"type:varchar(100);not null;index"`
}

// TableName specifies the table name for the Category model.
func (Category) TableName() string {
	return "task_categories"
}

func newCategories(labels []string) []Category {
	out := make([]Category, 0, len(labels))
	for _, l := range labels {
		out = append(out, Category{Name: l, NameKey: location.NormalizeKey(l)})
	}
	return out
}

// --- DTOs ---

// ClientSummary is the public view of the task owner.
type ClientSummary struct {
	ID             uuid.UUID `json:"id"`
	FullName       string    `json:"name"`
	ProfilePicture string    `json:"profilePicture,omitempty"`
}

// TaskResponse is the API representation of a task.
type TaskResponse struct {
	ID           uuid.UUID      `json:"id"`
	ClientID     uuid.UUID      `json:"clientId"`
	Client       *ClientSummary `json:"client,omitempty"`
	Title        string         `json:"title"`
	Description  string         `json:"description"`
	MainCategory string         `json:"mainCategory"`
	Categories   []string       `json:"category"`
	BudgetMin    *float64       `json:"budgetMin,omitempty"`
	BudgetMax    *float64       `json:"budgetMax,omitempty"`
	Location     string         `json:"location"`
	City         string         `json:"city,omitempty"`
	Region       string         `json:"region,omitempty"`
	District     string         `json:"district,omitempty"`
	DueDate      time.Time      `json:"dueDate"`
	Phone        string         `json:"phone"`
	Images       []string       `json:"images"`
	Status       Status         `json:"status"`
	CompletedAt  *time.Time     `json:"completedAt,omitempty"`
	CreatedAt    time.Time      `json:"createdAt"`
	UpdatedAt    time.Time      `json:"updatedAt"`
}

// ToTaskResponse converts a Task model to its DTO.
func ToTaskResponse(t *Task) TaskResponse {
	resp := TaskResponse{
		ID:           t.ID,
		ClientID:     t.ClientID,
		Title:        t.Title,
		Description:  t.Description,
		MainCategory: t.MainCategory,
		Categories:   t.Labels(),
		BudgetMin:    t.BudgetMin,
		BudgetMax:    t.BudgetMax,
		Location:     t.Location.Address,
		City:         t.Location.City,
		Region:       t.Location.Region,
		District:     t.Location.District,
		DueDate:      t.DueDate,
		Phone:        t.Phone,
		Images:       filestorage.PublicPaths(t.Images),
		Status:       t.Status,
		CompletedAt:  t.CompletedAt,
		CreatedAt:    t.CreatedAt,
		UpdatedAt:    t.UpdatedAt,
	}
	if t.Client != nil {
		resp.Client = &ClientSummary{ID: t.Client.ID, FullName: t.Client.FullName}
		if t.Client.ProfilePicture != nil {
			resp.Client.ProfilePicture = filestorage.PublicPath(*t.Client.ProfilePicture)
		}
	}
	return resp
}

// ToTaskResponses converts a slice, never returning nil.
func ToTaskResponses(tasks []Task) []TaskResponse {
	out := make([]TaskResponse, 0, len(tasks))
	for i := range tasks {
		out = append(out, ToTaskResponse(&tasks[i]))
	}
	return out
}

// CategorySummary is one category bucket of the open-task summary.
type CategorySummary struct {
	Category string         `json:"category"`
	Count    int            `json:"count"`
	Samples  []TaskResponse `json:"tasks"`
}

// RegionSummary groups a region's open tasks by category.
type RegionSummary struct {
	Region     string            `json:"region"`
	Total      int               `json:"total"`
	Categories []CategorySummary `json:"categories"`
}
