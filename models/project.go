// models/project.go
package models

import (
	"time"

	"gorm.io/datatypes"
)

type ProjectStatus string

const (
	ProjectStatusGenerating ProjectStatus = "generating"
	ProjectStatusCompleted  ProjectStatus = "completed"
	ProjectStatusError      ProjectStatus = "error"
)

// Project tracks one generation request and its result. Status starts at
// "generating" and transitions at most once, to "completed" or "error";
// Output is non-null exactly when Status is "completed".
type Project struct {
	ID           uint          `json:"id" gorm:"primaryKey"`
	UserID       uint          `json:"user_id" gorm:"not null;index"`
	User         *User         `json:"user,omitempty" gorm:"foreignKey:UserID"`
	TeamID       *uint         `json:"team_id,omitempty" gorm:"index"`
	Team         *Team         `json:"team,omitempty" gorm:"foreignKey:TeamID"`
	InputContext string        `json:"input_context" gorm:"not null;type:text"`
	Status       ProjectStatus `json:"status" gorm:"not null;default:'generating';size:20;index"`

	Output datatypes.JSONMap `json:"output" gorm:"type:jsonb"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Project) TableName() string {
	return "projects"
}

func (p *Project) Terminal() bool {
	return p.Status == ProjectStatusCompleted || p.Status == ProjectStatusError
}
