// models/activity.go
package models

import "time"

type LogType string

const (
	LogTypeJoin   LogType = "join"
	LogTypeLeave  LogType = "leave"
	LogTypeAction LogType = "action"
	LogTypeReward LogType = "reward"
	LogTypeSystem LogType = "system"
)

// ActivityLog is an append-only feed entry scoped to one team. Entries are
// immutable once written; consumers read them ordered by Timestamp descending.
type ActivityLog struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	TeamID    uint      `json:"team_id" gorm:"not null;index"`
	Message   string    `json:"message" gorm:"not null;type:text"`
	Type      LogType   `json:"type" gorm:"not null;size:20"`
	UserID    uint      `json:"user_id"`
	UserName  string    `json:"user_name" gorm:"size:100"`
	Timestamp time.Time `json:"timestamp" gorm:"not null;index"`
}

func (ActivityLog) TableName() string {
	return "activity_logs"
}
