package models

import (
	"time"

	"homyhive/internal/core/domain"

	"gorm.io/gorm"
)

// ============================================================
// Identity
// ============================================================

// User status values
const (
	UserStatusActive    = "active"
	UserStatusSuspended = "suspended"
)

// User mirrors an identity-provider principal or a local account
type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	ExternalID   string    `gorm:"uniqueIndex;size:64;not null" json:"externalId"`
	Email        string    `gorm:"uniqueIndex;size:191;not null" json:"email"`
	DisplayName  string    `gorm:"size:100" json:"displayName"`
	Phone        string    `gorm:"size:20;index" json:"phone,omitempty"`
	PasswordHash string    `gorm:"size:255" json:"-"`
	Status       string    `gorm:"size:20;default:'active'" json:"status"`
	IsHost       bool      `gorm:"default:false" json:"isHost"`
	IsAdmin      bool      `gorm:"default:false" json:"isAdmin"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

func (User) TableName() string {
	return "users"
}

// Role derives the request role from the mirrored flags; admin wins over host
func (u *User) Role() domain.Role {
	switch {
	case u.IsAdmin:
		return domain.RoleAdmin
	case u.IsHost:
		return domain.RoleHost
	default:
		return domain.RoleGuest
	}
}

func (u *User) IsActive() bool {
	return u.Status != UserStatusSuspended
}

// AuthContext builds the immutable request identity for this user
func (u *User) AuthContext() domain.AuthContext {
	return domain.AuthContext{
		Principal:   domain.PrincipalID(u.ExternalID),
		Email:       u.Email,
		DisplayName: u.DisplayName,
		Role:        u.Role(),
	}
}

// NewsletterSubscription is a unique newsletter address
type NewsletterSubscription struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Email     string    `gorm:"uniqueIndex;size:191;not null" json:"email"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
}

func (NewsletterSubscription) TableName() string {
	return "newsletter_subscriptions"
}

// AutoMigrate runs auto migration for the primary store
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&User{},
		&HostApplication{},
		&HostApplicationEvent{},
		&Listing{},
		&Booking{},
		&PaymentOrder{},
		&Notification{},
		&NewsletterSubscription{},
	)
}
