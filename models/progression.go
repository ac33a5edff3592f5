// models/progression.go - static action and badge catalogs
package models

type ActionType string

const (
	ActionLogin           ActionType = "LOGIN"
	ActionGenerateProject ActionType = "GENERATE_PROJECT"
	ActionFixBug          ActionType = "FIX_BUG"
	ActionCompleteQuest   ActionType = "COMPLETE_QUEST"
	ActionRecruitMember   ActionType = "RECRUIT_MEMBER"
)

type Action struct {
	XP      int
	Message string
}

// Actions maps an action type to its XP value and feed message. Loaded once,
// never mutated at runtime.
var Actions = map[ActionType]Action{
	ActionLogin:           {XP: 10, Message: "jacked into the mainframe"},
	ActionGenerateProject: {XP: 50, Message: "deployed a new prototype"},
	ActionFixBug:          {XP: 30, Message: "neutralized a system anomaly"},
	ActionCompleteQuest:   {XP: 100, Message: "fulfilled a mission objective"},
	ActionRecruitMember:   {XP: 200, Message: "expanded the operative network"},
}

type Badge struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Icon        string `json:"icon"`
	Description string `json:"description"`
}

const (
	BadgeNightOwl    = "night_owl"
	BadgeArchitect   = "architect"
	BadgeSquadLeader = "team_player"
)

var Badges = map[string]Badge{
	BadgeNightOwl:    {ID: BadgeNightOwl, Name: "Night Owl", Icon: "Moon", Description: "Active between 2AM and 5AM"},
	BadgeArchitect:   {ID: BadgeArchitect, Name: "The Architect", Icon: "Cpu", Description: "Generated 5+ projects"},
	BadgeSquadLeader: {ID: BadgeSquadLeader, Name: "Squad Leader", Icon: "Users", Description: "Recruited 3 operatives"},
}

// XPForLevel returns the XP threshold that must be reached to leave the given
// level. Level thresholds are linear: level * 1000.
func XPForLevel(level int) int {
	return level * 1000
}
