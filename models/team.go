// models/team.go
package models

import "time"

type Team struct {
	ID      uint   `json:"id" gorm:"primaryKey"`
	Name    string `json:"name" gorm:"not null;size:100"`
	OwnerID uint   `json:"owner_id" gorm:"not null;index"`
	Owner   *User  `json:"owner,omitempty" gorm:"foreignKey:OwnerID"`

	// Reserved for a future team-chemistry metric; stored but never computed.
	SynergyScore int `json:"synergy_score" gorm:"default:0"`

	Members   []TeamMember `json:"members,omitempty" gorm:"foreignKey:TeamID"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
}

func (Team) TableName() string {
	return "teams"
}
