// models/user.go
package models

import (
	"time"
)

type User struct {
	ID          uint    `gorm:"primaryKey" json:"id"`
	Username    string  `gorm:"uniqueIndex;not null" json:"username"`
	Email       *string `gorm:"uniqueIndex" json:"email,omitempty"`
	Password    string  `gorm:"not null" json:"-"`
	DisplayName string  `json:"display_name"`
	PhotoURL    string  `json:"photo_url"`
	IsGuest     bool    `gorm:"default:false" json:"is_guest"`

	// Progression
	Level             int `gorm:"default:1" json:"level"`
	XP                int `gorm:"default:0" json:"xp"`
	ProjectsGenerated int `gorm:"default:0" json:"projects_generated"`
	MembersRecruited  int `gorm:"default:0" json:"members_recruited"`

	// Timestamps
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	LastLogin time.Time `json:"last_login"`

	// Relationships
	Badges []UserBadge `gorm:"foreignKey:UserID" json:"badges,omitempty"`
}

// UserBadge records a badge grant. The composite unique index keeps grants
// duplicate-safe: a badge is held once, never revoked.
type UserBadge struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	UserID     uint      `gorm:"not null;uniqueIndex:idx_user_badges_user_badge" json:"user_id"`
	BadgeID    string    `gorm:"not null;size:50;uniqueIndex:idx_user_badges_user_badge" json:"badge_id"`
	UnlockedAt time.Time `json:"unlocked_at"`

	User *User `gorm:"foreignKey:UserID" json:"-"`
}

func (UserBadge) TableName() string {
	return "user_badges"
}
