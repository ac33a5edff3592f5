// models/team_member.go
package models

import "time"

// TeamMember is the membership join row. It is the single source of truth for
// who belongs to a team; user-side lookups go through it rather than a
// denormalized id list, so the two sides can never drift apart.
type TeamMember struct {
	ID       uint      `json:"id" gorm:"primaryKey"`
	TeamID   uint      `json:"team_id" gorm:"not null;uniqueIndex:idx_team_members_team_user"`
	Team     *Team     `json:"team,omitempty" gorm:"foreignKey:TeamID"`
	UserID   uint      `json:"user_id" gorm:"not null;uniqueIndex:idx_team_members_team_user"`
	User     *User     `json:"user,omitempty" gorm:"foreignKey:UserID"`
	JoinedAt time.Time `json:"joined_at" gorm:"not null"`
}

func (TeamMember) TableName() string {
	return "team_members"
}
