// services/project_service.go - Generation lifecycle state machine
package services

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"devstory/models"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var (
	ErrEmptyContext    = errors.New("input context is required")
	ErrProjectNotFound = errors.New("project not found")
)

// ProjectService owns the per-project generation state machine:
// generating -> completed | generating -> error. Both terminal states are
// final; transitions are enforced with status-guarded updates so a record can
// never leave a terminal state or be completed twice.
type ProjectService struct {
	db  *gorm.DB
	gen Generator
}

func NewProjectService(db *gorm.DB, gen Generator) *ProjectService {
	return &ProjectService{db: db, gen: gen}
}

// Create writes a new project record in the "generating" state and returns
// it. The record is durable and observable before any generation work starts.
func (s *ProjectService) Create(userID uint, teamID *uint, inputContext string) (*models.Project, error) {
	if strings.TrimSpace(inputContext) == "" {
		return nil, ErrEmptyContext
	}

	project := &models.Project{
		UserID:       userID,
		TeamID:       teamID,
		InputContext: inputContext,
		Status:       models.ProjectStatusGenerating,
	}

	if err := s.db.Create(project).Error; err != nil {
		return nil, err
	}

	return project, nil
}

// Generate calls the generative service for a pending project and applies the
// single terminal transition: completed (with the parsed payload, in one
// atomic update) on success, error on any failure. Failures are terminal; the
// project must be resubmitted as a new request.
func (s *ProjectService) Generate(ctx context.Context, project *models.Project) error {
	output, err := s.gen.Generate(ctx, project.InputContext)
	if err != nil {
		if failErr := s.Fail(project.ID); failErr != nil {
			log.Printf("project %d: failed to record error state: %v", project.ID, failErr)
		}
		return err
	}

	return s.Complete(project.ID, output)
}

// Complete transitions a project from generating to completed, writing status
// and output in a single statement so no reader can observe one without the
// other. A project already in a terminal state is left untouched.
func (s *ProjectService) Complete(projectID uint, output map[string]interface{}) error {
	res := s.db.Model(&models.Project{}).
		Where("id = ? AND status = ?", projectID, models.ProjectStatusGenerating).
		Updates(map[string]interface{}{
			"status": models.ProjectStatusCompleted,
			"output": datatypes.JSONMap(output),
		})

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		log.Printf("project %d: completion skipped, record no longer generating", projectID)
	}
	return nil
}

// Fail transitions a project from generating to error, leaving output null.
func (s *ProjectService) Fail(projectID uint) error {
	res := s.db.Model(&models.Project{}).
		Where("id = ? AND status = ?", projectID, models.ProjectStatusGenerating).
		Update("status", models.ProjectStatusError)

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		log.Printf("project %d: error transition skipped, record no longer generating", projectID)
	}
	return nil
}

// GetProject loads a single project record.
func (s *ProjectService) GetProject(projectID uint) (*models.Project, error) {
	var project models.Project
	if err := s.db.First(&project, projectID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, err
	}
	return &project, nil
}

// ListUserProjects returns a user's personal projects, newest first.
func (s *ProjectService) ListUserProjects(userID uint) ([]models.Project, error) {
	var projects []models.Project
	err := s.db.Where("user_id = ? AND team_id IS NULL", userID).
		Order("created_at DESC").
		Find(&projects).Error
	return projects, err
}

// ListTeamProjects returns a team's shared projects, newest first.
func (s *ProjectService) ListTeamProjects(teamID uint) ([]models.Project, error) {
	var projects []models.Project
	err := s.db.Where("team_id = ?", teamID).
		Order("created_at DESC").
		Find(&projects).Error
	return projects, err
}

// FailStale moves projects that have sat in "generating" longer than the
// deadline to "error". Covers crashed processes and generative calls that
// never return; the status guard on Complete/Fail means a late result cannot
// resurrect a swept project.
func (s *ProjectService) FailStale(deadline time.Duration) (int64, error) {
	cutoff := time.Now().Add(-deadline)
	res := s.db.Model(&models.Project{}).
		Where("status = ? AND created_at < ?", models.ProjectStatusGenerating, cutoff).
		Update("status", models.ProjectStatusError)
	return res.RowsAffected, res.Error
}
