package updaterequest

import (
	"time"

	"github.com/kpata360-rgb/workisready-backend1/internal/common"
	"github.com/kpata360-rgb/workisready-backend1/internal/filestorage"
	"github.com/kpata360-rgb/workisready-backend1/internal/provider"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Status of an update request. approved and rejected are terminal.
type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected:
		return true
	}
	return false
}

// Request is a provider's proposed profile edit awaiting admin review.
type Request struct {
	common.BaseModel
	ProviderID      uuid.UUID          `gorm:"type:uuid;not null;index"`
	Provider        *provider.Provider `gorm:"foreignKey:ProviderID"`
	Changes         datatypes.JSONType[Changes]
	NewSampleWork   datatypes.JSONSlice[string]
	Status          Status `gorm:"type:varchar(20);not null;default:'pending';index"`
	ReviewedAt      *time.Time
	ReviewedBy      *uuid.UUID `gorm:"type:uuid"`
	RejectionReason string     `gorm:"type:text"`
}

// TableName specifies the table name for the Request model.
func (Request) TableName() string {
	return "provider_update_requests"
}

// --- DTOs ---

// RequestResponse is the API representation of an update request. Current
// holds the provider's present values for the fields in Changes.
type RequestResponse struct {
	ID              uuid.UUID  `json:"id"`
	ProviderID      uuid.UUID  `json:"providerId"`
	BusinessName    string     `json:"businessName,omitempty"`
	Changes         Changes    `json:"changes"`
	ChangedFields   []string   `json:"changedFields"`
	Current         *Changes   `json:"current,omitempty"`
	NewSampleWork   []string   `json:"newSampleWork"`
	Status          Status     `json:"status"`
	ReviewedAt      *time.Time `json:"reviewedAt,omitempty"`
	ReviewedBy      *uuid.UUID `json:"reviewedBy,omitempty"`
	RejectionReason string     `json:"rejectionReason,omitempty"`
	CreatedAt       time.Time  `json:"createdAt"`
}

// ToRequestResponse converts a Request model to its DTO.
func ToRequestResponse(r *Request) RequestResponse {
	changes := r.Changes.Data()
	resp := RequestResponse{
		ID:              r.ID,
		ProviderID:      r.ProviderID,
		Changes:         changes,
		ChangedFields:   changes.Fields(),
		NewSampleWork:   filestorage.PublicPaths(r.NewSampleWork),
		Status:          r.Status,
		ReviewedAt:      r.ReviewedAt,
		ReviewedBy:      r.ReviewedBy,
		RejectionReason: r.RejectionReason,
		CreatedAt:       r.CreatedAt,
	}
	if r.Provider != nil {
		resp.BusinessName = r.Provider.BusinessName
		if r.Status == StatusPending {
			current := changes.Current(r.Provider)
			resp.Current = &current
		}
	}
	return resp
}

// ToRequestResponses converts a slice, never returning nil.
func ToRequestResponses(requests []Request) []RequestResponse {
	out := make([]RequestResponse, 0, len(requests))
	for i := range requests {
		out = append(out, ToRequestResponse(&requests[i]))
	}
	return out
}
