// database/migrate.go - Database Migration Runner
package database

import (
	"log"

	"devstory/models"

	"gorm.io/gorm"
)

// RunMigrations runs all database migrations
func RunMigrations(db *gorm.DB) {
	log.Println("🔄 Running database migrations...")

	if err := db.AutoMigrate(
		&models.User{},
		&models.UserBadge{},
		&models.Team{},
		&models.TeamMember{},
		&models.Project{},
		&models.ActivityLog{},
	); err != nil {
		log.Fatalf("❌ Failed to run migrations: %v", err)
	}

	createIndexes(db)

	log.Println("✅ All migrations completed successfully")
}

// createIndexes creates indexes not covered by model tags
func createIndexes(db *gorm.DB) {
	log.Println("Creating indexes...")

	// User indexes
	db.Exec("CREATE INDEX IF NOT EXISTS idx_users_level ON users(level DESC)")
	db.Exec("CREATE INDEX IF NOT EXISTS idx_users_guest ON users(is_guest)")

	// Projects are listed newest-first per scope
	db.Exec("CREATE INDEX IF NOT EXISTS idx_projects_user_created ON projects(user_id, created_at DESC)")
	db.Exec("CREATE INDEX IF NOT EXISTS idx_projects_team_created ON projects(team_id, created_at DESC)")
	db.Exec("CREATE INDEX IF NOT EXISTS idx_projects_status ON projects(status)")

	// Activity feed reads are team-scoped, timestamp descending
	db.Exec("CREATE INDEX IF NOT EXISTS idx_activity_logs_team_ts ON activity_logs(team_id, timestamp DESC)")

	log.Println("✅ Indexes created successfully")
}
