// services/team_service.go - Team membership business logic
package services

import (
	"errors"
	"fmt"
	"log"
	"strconv"
	"time"

	"devstory/models"

	"gorm.io/gorm"
)

var ErrTeamNotFound = errors.New("team not found")

// MemberProfile is the display tuple a member id resolves to. Ids with no
// backing user record resolve to the "unknown" placeholder instead of failing
// the batch.
type MemberProfile struct {
	UID         string `json:"uid"`
	DisplayName string `json:"display_name"`
	PhotoURL    string `json:"photo_url"`
	Level       int    `json:"level"`
}

type TeamService struct {
	db   *gorm.DB
	feed *FeedService
}

func NewTeamService(db *gorm.DB, feed *FeedService) *TeamService {
	return &TeamService{db: db, feed: feed}
}

// CreateTeam creates a team with the owner as its first member. Team row and
// owner membership are written in one transaction, so the owner-in-members
// invariant holds from the first observable state.
func (s *TeamService) CreateTeam(name string, ownerID uint) (*models.Team, error) {
	if name == "" {
		return nil, errors.New("team name is required")
	}

	team := &models.Team{
		Name:         name,
		OwnerID:      ownerID,
		SynergyScore: 0,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(team).Error; err != nil {
			return err
		}

		member := &models.TeamMember{
			TeamID:   team.ID,
			UserID:   ownerID,
			JoinedAt: time.Now(),
		}
		return tx.Create(member).Error
	})

	if err != nil {
		return nil, err
	}

	// Feed writes are independent appends; the team exists either way
	ownerName := s.displayName(ownerID)
	if err := s.feed.Append(team.ID, models.LogTypeSystem, ownerID, ownerName, "established the squad"); err != nil {
		log.Printf("team %d: failed to log creation: %v", team.ID, err)
	}

	return team, nil
}

// JoinTeam adds a user to an existing team. Joining a team you already belong
// to is a no-op; joining a team that does not exist fails with
// ErrTeamNotFound before any write.
func (s *TeamService) JoinTeam(teamID, userID uint) error {
	var team models.Team
	if err := s.db.First(&team, teamID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTeamNotFound
		}
		return err
	}

	if s.IsTeamMember(userID, teamID) {
		return nil
	}

	member := &models.TeamMember{
		TeamID:   teamID,
		UserID:   userID,
		JoinedAt: time.Now(),
	}
	return s.db.Create(member).Error
}

// AddMemberToTeam performs the same membership update as JoinTeam on behalf
// of the target user, and logs a join entry attributed to the inviter.
func (s *TeamService) AddMemberToTeam(teamID, targetUserID uint, inviterName string) error {
	if err := s.JoinTeam(teamID, targetUserID); err != nil {
		return err
	}

	targetName := s.displayName(targetUserID)
	message := fmt.Sprintf("recruited %s into the squad", targetName)
	if err := s.feed.Append(teamID, models.LogTypeJoin, targetUserID, inviterName, message); err != nil {
		log.Printf("team %d: failed to log recruitment: %v", teamID, err)
	}

	return nil
}

// GetTeamByID retrieves a team with its membership rows preloaded.
func (s *TeamService) GetTeamByID(teamID uint) (*models.Team, error) {
	var team models.Team
	err := s.db.Preload("Members").First(&team, teamID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTeamNotFound
		}
		return nil, err
	}
	return &team, nil
}

// GetUserTeams returns every team the user belongs to. This is a reverse
// lookup through the membership table, so it is always consistent with the
// source of truth.
func (s *TeamService) GetUserTeams(userID uint) ([]models.Team, error) {
	var teams []models.Team
	err := s.db.Joins("JOIN team_members ON team_members.team_id = teams.id").
		Where("team_members.user_id = ?", userID).
		Preload("Members").
		Find(&teams).Error
	return teams, err
}

// GetTeamMembers resolves a list of user ids to display profiles. The result
// has one entry per input id in input order; ids with no user record map to
// the "unknown" placeholder rather than failing the batch.
func (s *TeamService) GetTeamMembers(memberIDs []uint) []MemberProfile {
	profiles := make([]MemberProfile, 0, len(memberIDs))

	for _, id := range memberIDs {
		var user models.User
		if err := s.db.First(&user, id).Error; err != nil {
			profiles = append(profiles, MemberProfile{
				UID:         "unknown",
				DisplayName: "Unknown Operative",
			})
			continue
		}

		profiles = append(profiles, MemberProfile{
			UID:         strconv.FormatUint(uint64(user.ID), 10),
			DisplayName: user.DisplayName,
			PhotoURL:    user.PhotoURL,
			Level:       user.Level,
		})
	}

	return profiles
}

// IsTeamMember checks if a user belongs to a team
func (s *TeamService) IsTeamMember(userID, teamID uint) bool {
	var count int64
	s.db.Model(&models.TeamMember{}).
		Where("team_id = ? AND user_id = ?", teamID, userID).
		Count(&count)
	return count > 0
}

func (s *TeamService) displayName(userID uint) string {
	var user models.User
	if err := s.db.First(&user, userID).Error; err != nil {
		return "Operative"
	}
	if user.DisplayName != "" {
		return user.DisplayName
	}
	return user.Username
}
