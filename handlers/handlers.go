// handlers/handlers.go - shared handler wiring
package handlers

import (
	"devstory/services"
)

var (
	projectService     *services.ProjectService
	teamService        *services.TeamService
	progressionService *services.ProgressionService
	feedService        *services.FeedService
)

// Init wires the handler package to its services. Must be called before any
// route is served.
func Init(projects *services.ProjectService, teams *services.TeamService, progression *services.ProgressionService, feed *services.FeedService) {
	projectService = projects
	teamService = teams
	progressionService = progression
	feedService = feed
}
