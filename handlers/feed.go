// handlers/feed.go - Activity feed reads and live subscriptions
package handlers

import (
	"log"
	"strconv"

	"devstory/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

// GetTeamFeed returns a team's most recent activity entries, newest first
// GET /api/teams/:id/feed
func GetTeamFeed(c *fiber.Ctx) error {
	teamID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Invalid team ID"})
	}

	entries, err := feedService.Recent(uint(teamID), services.FeedReplayLimit)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"success": false, "error": "Failed to retrieve feed"})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"entries": entries,
		"count":   len(entries),
	})
}

// FeedUpgrade rejects plain HTTP requests on the websocket path
func FeedUpgrade(c *fiber.Ctx) error {
	if websocket.IsWebSocketUpgrade(c) {
		return c.Next()
	}
	return fiber.ErrUpgradeRequired
}

// FeedSocket streams a team's activity feed over a websocket: a replay of
// the most recent entries followed by live updates. Closing the socket
// cancels the subscription; no entry is delivered after that.
// GET /ws/teams/:id/feed
func FeedSocket(conn *websocket.Conn) {
	defer conn.Close()

	teamID, err := strconv.ParseUint(conn.Params("id"), 10, 32)
	if err != nil {
		_ = conn.WriteJSON(fiber.Map{"error": "Invalid team ID"})
		return
	}

	ch, cancel, err := feedService.Subscribe(uint(teamID))
	if err != nil {
		log.Printf("Feed subscription for team %d failed: %v", teamID, err)
		_ = conn.WriteJSON(fiber.Map{"error": "Subscription failed"})
		return
	}
	defer cancel()

	// Reader loop exists only to detect the peer going away
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case entry, ok := <-ch:
			if !ok {
				return
			}
			if err := conn.WriteJSON(entry); err != nil {
				return
			}
		case <-closed:
			return
		}
	}
}
