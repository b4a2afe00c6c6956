package main

import (
	"log"

	"outreach-crm/internal/config"
	"outreach-crm/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// One-time migration of a local sqlite database into Postgres.
// Reads from DB_PATH and writes to DATABASE_URL.
func main() {
	cfg := config.LoadConfig()
	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL must be set to the destination Postgres database")
	}

	sqliteDB, err := gorm.Open(sqlite.Open(cfg.DBPath), &gorm.Config{})
	if err != nil {
		log.Fatalf("Failed to connect to SQLite: %v", err)
	}
	log.Printf("Connected to SQLite at %s", cfg.DBPath)

	pgDB, err := gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{})
	if err != nil {
		log.Fatalf("Failed to connect to Postgres: %v", err)
	}

	log.Println("Starting data migration...")

	migrateTable := func(tableName string, source interface{}) {
		log.Printf("Migrating table: %s", tableName)

		if err := sqliteDB.Find(source).Error; err != nil {
			log.Printf("Error reading %s from SQLite: %v", tableName, err)
			return
		}

		err := pgDB.Transaction(func(tx *gorm.DB) error {
			return tx.Create(source).Error
		})
		if err != nil {
			log.Printf("Error writing %s to Postgres: %v", tableName, err)
		} else {
			log.Printf("Successfully migrated %s", tableName)
		}
	}

	// Users first: client_profiles and activity_logs reference them.
	var users []models.User
	migrateTable("users", &users)

	var profiles []models.ClientProfile
	migrateTable("client_profiles", &profiles)

	var prospects []models.Prospect
	migrateTable("prospects", &prospects)

	var emailLogs []models.EmailLog
	migrateTable("email_logs", &emailLogs)

	var sentEmails []models.SentEmail
	migrateTable("sent_emails", &sentEmails)

	var activities []models.ActivityLog
	migrateTable("activity_logs", &activities)

	var projects []models.Project
	migrateTable("projects", &projects)

	var remarks []models.Remark
	migrateTable("remarks", &remarks)

	var calls []models.CallLog
	migrateTable("call_logs", &calls)

	var statuses []models.ClientStatus
	migrateTable("client_statuses", &statuses)

	log.Println("Migration completed!")
}
