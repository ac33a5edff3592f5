// services/progression_service.go - XP, levels, and badges
package services

import (
	"errors"
	"fmt"
	"log"
	"time"

	"devstory/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ProgressionService accrues experience, computes levels, and evaluates
// badges. Every operation is best-effort: progression bookkeeping must never
// fail the user action that triggered it, so errors are reported to the
// diagnostic log and swallowed.
type ProgressionService struct {
	db   *gorm.DB
	feed *FeedService
	now  func() time.Time
}

func NewProgressionService(db *gorm.DB, feed *FeedService) *ProgressionService {
	return &ProgressionService{db: db, feed: feed, now: time.Now}
}

// AwardXP applies the action's XP delta to a user, granting at most one level
// per award, evaluating badges, and (when a team scope is present) emitting
// feed entries. Never returns an error to the caller.
func (s *ProgressionService) AwardXP(userID uint, teamID *uint, actionType models.ActionType) {
	if err := s.awardXP(userID, teamID, actionType); err != nil {
		log.Printf("progression: award %s to user %d failed: %v", actionType, userID, err)
	}
}

func (s *ProgressionService) awardXP(userID uint, teamID *uint, actionType models.ActionType) error {
	action, ok := models.Actions[actionType]
	if !ok {
		return fmt.Errorf("unknown action type %q", actionType)
	}

	var user models.User
	if err := s.db.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}

	projectedXP := user.XP + action.XP

	// One level per award, however far the projected XP overshoots the
	// threshold. Deliberately preserved from the original product behavior.
	newLevel := user.Level
	if projectedXP >= models.XPForLevel(user.Level) {
		newLevel++
	}
	leveledUp := newLevel > user.Level

	// XP is an atomic increment so concurrent awards cannot lose updates;
	// level is a plain overwrite of the value computed above.
	updates := map[string]interface{}{
		"xp":    gorm.Expr("xp + ?", action.XP),
		"level": newLevel,
	}

	switch actionType {
	case models.ActionGenerateProject:
		updates["projects_generated"] = gorm.Expr("projects_generated + 1")
	case models.ActionRecruitMember:
		updates["members_recruited"] = gorm.Expr("members_recruited + 1")
	}

	if err := s.db.Model(&models.User{}).Where("id = ?", userID).Updates(updates).Error; err != nil {
		return err
	}

	userName := user.DisplayName
	if userName == "" {
		userName = "Operative"
	}

	s.evaluateBadges(&user, actionType, teamID, userName)

	if teamID != nil {
		message := fmt.Sprintf("%s (+%d XP)", action.Message, action.XP)
		s.appendFeed(*teamID, models.LogTypeAction, userID, userName, message)

		if leveledUp {
			s.appendFeed(*teamID, models.LogTypeReward, userID, userName,
				fmt.Sprintf("promoted to Level %d!", newLevel))
		}
	}

	return nil
}

// evaluateBadges checks badge criteria against the award that just happened
// and grants anything newly earned.
func (s *ProgressionService) evaluateBadges(user *models.User, actionType models.ActionType, teamID *uint, userName string) {
	hour := s.now().Hour()
	if hour >= 2 && hour < 5 {
		s.grantBadge(user.ID, models.BadgeNightOwl, teamID, userName)
	}

	if actionType == models.ActionGenerateProject && user.ProjectsGenerated+1 >= 5 {
		s.grantBadge(user.ID, models.BadgeArchitect, teamID, userName)
	}

	if actionType == models.ActionRecruitMember && user.MembersRecruited+1 >= 3 {
		s.grantBadge(user.ID, models.BadgeSquadLeader, teamID, userName)
	}
}

// grantBadge adds a badge to the user's set. The insert is duplicate-safe
// (set-union semantics); the feed entry is only written on a fresh grant.
func (s *ProgressionService) grantBadge(userID uint, badgeID string, teamID *uint, userName string) {
	badge, ok := models.Badges[badgeID]
	if !ok {
		return
	}

	grant := models.UserBadge{
		UserID:     userID,
		BadgeID:    badgeID,
		UnlockedAt: s.now(),
	}

	res := s.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&grant)
	if res.Error != nil {
		log.Printf("progression: badge %s grant for user %d failed: %v", badgeID, userID, res.Error)
		return
	}
	if res.RowsAffected == 0 {
		// Already held; badges are never granted twice
		return
	}

	if teamID != nil {
		s.appendFeed(*teamID, models.LogTypeReward, userID, userName,
			fmt.Sprintf("unlocked badge: [%s]", badge.Name))
	}
}

// Progression returns a user's current level, XP, and badge set.
func (s *ProgressionService) Progression(userID uint) (*models.User, error) {
	var user models.User
	if err := s.db.Preload("Badges").First(&user, userID).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// appendFeed writes a feed entry, swallowing failures: the XP/level/badge
// mutation already succeeded and logging is non-fatal by contract.
func (s *ProgressionService) appendFeed(teamID uint, logType models.LogType, userID uint, userName, message string) {
	if err := s.feed.Append(teamID, logType, userID, userName, message); err != nil {
		log.Printf("progression: feed append for team %d failed: %v", teamID, err)
	}
}
