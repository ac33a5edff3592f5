// handlers/progression.go
package handlers

import (
	"devstory/middleware"
	"devstory/models"

	"github.com/gofiber/fiber/v2"
)

type AwardXPRequest struct {
	Action string `json:"action"`
	TeamID *uint  `json:"team_id,omitempty"`
}

// AwardXP records a progression action for the caller. The award itself is
// best-effort and never fails the request once the input is valid.
// POST /api/progression/xp
func AwardXP(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": err.Error()})
	}

	var req AwardXPRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request body"})
	}

	actionType := models.ActionType(req.Action)
	action, ok := models.Actions[actionType]
	if !ok {
		return c.Status(400).JSON(fiber.Map{"error": "Unknown action type"})
	}

	progressionService.AwardXP(userID, req.TeamID, actionType)

	return c.JSON(fiber.Map{
		"success": true,
		"action":  req.Action,
		"xp":      action.XP,
	})
}

// GetProgression returns the caller's level, XP, and badges
// GET /api/progression
func GetProgression(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": err.Error()})
	}

	user, err := progressionService.Progression(userID)
	if err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "User not found"})
	}

	badges := make([]fiber.Map, 0, len(user.Badges))
	for _, grant := range user.Badges {
		badge, ok := models.Badges[grant.BadgeID]
		if !ok {
			continue
		}
		badges = append(badges, fiber.Map{
			"id":          badge.ID,
			"name":        badge.Name,
			"icon":        badge.Icon,
			"description": badge.Description,
			"unlocked_at": grant.UnlockedAt,
		})
	}

	return c.JSON(fiber.Map{
		"success":          true,
		"level":            user.Level,
		"xp":               user.XP,
		"xp_to_next_level": models.XPForLevel(user.Level),
		"badges":           badges,
	})
}
