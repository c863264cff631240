// File: internal/user/model.go
package user

import (
	"strings"
	"time"

	"github.com/kpata360-rgb/workisready-backend1/internal/common"
	"github.com/kpata360-rgb/workisready-backend1/internal/filestorage"

	"github.com/google/uuid"
)

// User represents the user model in the database.
// Phone and WhatsApp are nullable so the unique indexes only bind present values.
type User struct {
	common.BaseModel
	Email          string  `gorm:"type:varchar(255);not null;uniqueIndex"`
	PasswordHash   string  `gorm:"type:varchar(255);not null"`
	FullName       string  `gorm:"type:varchar(150);not null"`
	Phone          *string `gorm:"type:varchar(30);uniqueIndex"`
	WhatsApp       *string `gorm:"column:whatsapp;type:varchar(30);uniqueIndex"`
	Role           string  `gorm:"type:varchar(20);not null;default:'client';index"`
	IsVerified     bool    `gorm:"not null;default:false"`
	IsApproved     bool    `gorm:"not null;default:false"`
	ProfilePicture *string `gorm:"type:text"`
	LastLoginAt    *time.Time
}

// TableName specifies the table name for the User model.
func (User) TableName() string {
	return "users"
}

func (u *User) GetID() uuid.UUID { return u.ID }
func (u *User) GetEmail() string { return u.Email }
func (u *User) GetRole() string  { return u.Role }

// --- DTOs ---

// RegisterRequest is the body of POST /auth/register.
type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email,max=255"`
	Password string `json:"password" binding:"required,min=8,max=72"` // bcrypt max is 72 bytes
	FullName string `json:"name" binding:"required,max=150"`
	Phone    string `json:"phone" binding:"omitempty,max=30"`
	WhatsApp string `json:"whatsapp" binding:"omitempty,max=30"`
	Role     string `json:"role" binding:"omitempty,oneof=client provider"`
}

// AdminListQuery filters GET /admin/users.
type AdminListQuery struct {
	Role       string `form:"role" binding:"omitempty,oneof=client provider admin"`
	IsVerified *bool  `form:"isVerified"`
	IsApproved *bool  `form:"isApproved"`
	Search     string `form:"search" binding:"omitempty,max=100"`
	Page       int    `form:"page"`
	Limit      int    `form:"limit"`
}

// AdminUpdateFlagsRequest is the body of PATCH /admin/users/:id.
type AdminUpdateFlagsRequest struct {
	IsVerified *bool `json:"isVerified"`
	IsApproved *bool `json:"isApproved"`
}

// UserResponse defines the structure for user data sent in API responses.
type UserResponse struct {
	ID             uuid.UUID  `json:"id"`
	Email          string     `json:"email"`
	FullName       string     `json:"name"`
	Phone          *string    `json:"phone,omitempty"`
	WhatsApp       *string    `json:"whatsapp,omitempty"`
	Role           string     `json:"role"`
	IsVerified     bool       `json:"isVerified"`
	IsApproved     bool       `json:"isApproved"`
	ProfilePicture string     `json:"profilePicture,omitempty"`
	CreatedAt      time.Time  `json:"createdAt"`
	LastLoginAt    *time.Time `json:"lastLoginAt,omitempty"`
}

// ToUserResponse converts a User model to a UserResponse DTO.
func ToUserResponse(user *User) UserResponse {
	resp := UserResponse{
		ID:          user.ID,
		Email:       user.Email,
		FullName:    user.FullName,
		Phone:       user.Phone,
		WhatsApp:    user.WhatsApp,
		Role:        user.Role,
		IsVerified:  user.IsVerified,
		IsApproved:  user.IsApproved,
		CreatedAt:   user.CreatedAt,
		LastLoginAt: user.LastLoginAt,
	}
	if user.ProfilePicture != nil {
		resp.ProfilePicture = filestorage.PublicPath(*user.ProfilePicture)
	}
	return resp
}

// NormalizeEmail lowercases and trims an address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// OptionalString maps blank input to nil so nullable unique columns stay NULL.
func OptionalString(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
