package notification

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// NotificationType defines the type of notification.
type NotificationType string

const (
	UpdateRequestApproved NotificationType = "update_request_approved"
	UpdateRequestRejected NotificationType = "update_request_rejected"
	ProviderApproved      NotificationType = "provider_approved"
	ProviderRevoked       NotificationType = "provider_revoked"
)

// Notification is a stored in-app notice, fetched by polling.
type Notification struct {
	ID        uuid.UUID        `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    uuid.UUID        `gorm:"type:uuid;not null;index:idx_notification_user_status" json:"userId"`
	Type      NotificationType `gorm:"type:varchar(100);not null" json:"type"`
	Message   string           `gorm:"type:text;not null" json:"message"`
	RelatedID *uuid.UUID       `gorm:"type:uuid" json:"relatedId,omitempty"`
	IsRead    bool             `gorm:"not null;default:false;index:idx_notification_user_status" json:"isRead"`
	CreatedAt time.Time        `gorm:"not null;index:idx_notification_user_status" json:"createdAt"`
	// Notifications are immutable apart from the read flag, so there is no UpdatedAt.
}

// TableName specifies the table name for GORM.
func (Notification) TableName() string {
	return "notifications"
}

func (n *Notification) BeforeCreate(tx *gorm.DB) error {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	return nil
}
