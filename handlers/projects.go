// handlers/projects.go - Generation boundary
package handlers

import (
	"errors"
	"log"
	"strconv"
	"strings"

	"devstory/middleware"
	"devstory/models"
	"devstory/services"

	"github.com/gofiber/fiber/v2"
)

type GenerateRequest struct {
	UserContext string `json:"user_context"`
	TeamID      *uint  `json:"team_id,omitempty"`
}

// GenerateProject creates a project record in the generating state, invokes
// the generative service, and records the terminal transition. The record is
// durable and observable as soon as it is created, whatever happens to this
// request afterwards.
// POST /api/projects/generate
func GenerateProject(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": err.Error()})
	}

	var req GenerateRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Missing parameters"})
	}

	if strings.TrimSpace(req.UserContext) == "" {
		return c.Status(400).JSON(fiber.Map{"error": "Missing parameters"})
	}

	project, err := projectService.Create(userID, req.TeamID, req.UserContext)
	if err != nil {
		if errors.Is(err, services.ErrEmptyContext) {
			return c.Status(400).JSON(fiber.Map{"error": "Missing parameters"})
		}
		log.Printf("❌ Failed to create project for user %d: %v", userID, err)
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}

	if err := projectService.Generate(c.UserContext(), project); err != nil {
		log.Printf("❌ AI generation failed for project %d: %v", project.ID, err)
		return c.Status(500).JSON(fiber.Map{"error": "AI Generation Failed"})
	}

	// Progression is the caller's responsibility, not the lifecycle's, and
	// is best-effort by contract
	progressionService.AwardXP(userID, req.TeamID, models.ActionGenerateProject)

	return c.JSON(fiber.Map{
		"success": true,
		"id":      project.ID,
	})
}

// GetProject retrieves a single project
// GET /api/projects/:id
func GetProject(c *fiber.Ctx) error {
	projectID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Invalid project ID"})
	}

	project, err := projectService.GetProject(uint(projectID))
	if err != nil {
		return c.Status(404).JSON(fiber.Map{"success": false, "error": "Project not found"})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"project": project,
	})
}

// ListMyProjects returns the authenticated user's personal projects,
// newest first
// GET /api/projects
func ListMyProjects(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": err.Error()})
	}

	projects, err := projectService.ListUserProjects(userID)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"success": false, "error": "Failed to retrieve projects"})
	}

	return c.JSON(fiber.Map{
		"success":  true,
		"projects": projects,
		"count":    len(projects),
	})
}

// ListTeamProjects returns a team's shared projects, newest first
// GET /api/teams/:id/projects
func ListTeamProjects(c *fiber.Ctx) error {
	teamID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Invalid team ID"})
	}

	projects, err := projectService.ListTeamProjects(uint(teamID))
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"success": false, "error": "Failed to retrieve projects"})
	}

	return c.JSON(fiber.Map{
		"success":  true,
		"projects": projects,
		"count":    len(projects),
	})
}
