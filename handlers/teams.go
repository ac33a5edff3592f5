// handlers/teams.go - Team membership HTTP handlers
package handlers

import (
	"errors"
	"log"
	"strconv"

	"devstory/middleware"
	"devstory/models"
	"devstory/services"

	"github.com/gofiber/fiber/v2"
)

// CreateTeam creates a new team with the caller as owner
// POST /api/teams
func CreateTeam(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"success": false, "error": err.Error()})
	}

	var req struct {
		Name string `json:"name"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Invalid request body"})
	}

	if req.Name == "" {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Team name is required"})
	}

	team, err := teamService.CreateTeam(req.Name, userID)
	if err != nil {
		log.Printf("❌ Team creation failed for user %d: %v", userID, err)
		return c.Status(500).JSON(fiber.Map{"success": false, "error": err.Error()})
	}

	return c.Status(201).JSON(fiber.Map{
		"success": true,
		"team":    team,
	})
}

// JoinTeam adds the caller to an existing team
// POST /api/teams/:id/join
func JoinTeam(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"success": false, "error": err.Error()})
	}

	teamID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Invalid team ID"})
	}

	if err := teamService.JoinTeam(uint(teamID), userID); err != nil {
		if errors.Is(err, services.ErrTeamNotFound) {
			return c.Status(404).JSON(fiber.Map{"success": false, "error": "Team not found"})
		}
		return c.Status(500).JSON(fiber.Map{"success": false, "error": "Failed to join team"})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Joined team successfully",
	})
}

// AddMember adds a target user to a team on their behalf, attributed to the
// inviting caller
// POST /api/teams/:id/members
func AddMember(c *fiber.Ctx) error {
	inviterID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"success": false, "error": err.Error()})
	}

	teamID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Invalid team ID"})
	}

	var req struct {
		UserID uint `json:"user_id"`
	}
	if err := c.BodyParser(&req); err != nil || req.UserID == 0 {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Target user ID is required"})
	}

	inviterName := middleware.GetDisplayName(c)
	if err := teamService.AddMemberToTeam(uint(teamID), req.UserID, inviterName); err != nil {
		if errors.Is(err, services.ErrTeamNotFound) {
			return c.Status(404).JSON(fiber.Map{"success": false, "error": "Team not found"})
		}
		return c.Status(500).JSON(fiber.Map{"success": false, "error": "Failed to add member"})
	}

	// Recruiting earns the inviter XP; best-effort by contract
	tid := uint(teamID)
	progressionService.AwardXP(inviterID, &tid, models.ActionRecruitMember)

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Member added successfully",
	})
}

// GetUserTeams retrieves all teams the caller belongs to
// GET /api/teams
func GetUserTeams(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"success": false, "error": err.Error()})
	}

	teams, err := teamService.GetUserTeams(userID)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"success": false, "error": "Failed to retrieve teams"})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"teams":   teams,
		"count":   len(teams),
	})
}

// GetTeam retrieves a team by ID
// GET /api/teams/:id
func GetTeam(c *fiber.Ctx) error {
	teamID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Invalid team ID"})
	}

	team, err := teamService.GetTeamByID(uint(teamID))
	if err != nil {
		return c.Status(404).JSON(fiber.Map{"success": false, "error": "Team not found"})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"team":    team,
	})
}

// GetTeamMembers resolves a team's member ids to display profiles. Missing
// records resolve to placeholders instead of failing the batch
// GET /api/teams/:id/members
func GetTeamMembers(c *fiber.Ctx) error {
	teamID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Invalid team ID"})
	}

	team, err := teamService.GetTeamByID(uint(teamID))
	if err != nil {
		return c.Status(404).JSON(fiber.Map{"success": false, "error": "Team not found"})
	}

	memberIDs := make([]uint, 0, len(team.Members))
	for _, m := range team.Members {
		memberIDs = append(memberIDs, m.UserID)
	}

	members := teamService.GetTeamMembers(memberIDs)

	return c.JSON(fiber.Map{
		"success": true,
		"members": members,
		"count":   len(members),
	})
}
