package database

import (
	"log"

	"outreach-crm/internal/config"
	"outreach-crm/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

// InitDB opens the relational store. Postgres when DATABASE_URL is set,
// embedded sqlite otherwise (local dev and tests).
func InitDB(cfg *config.Config) {
	var err error
	if cfg.DatabaseURL != "" {
		DB, err = gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Warn),
		})
	} else {
		DB, err = gorm.Open(sqlite.Open(cfg.DBPath), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Warn),
		})
	}
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := Migrate(DB); err != nil {
		log.Fatalf("Failed to run auto-migration: %v", err)
	}

	SeedStatuses(DB)

	log.Println("Database initialized successfully")
}

// Migrate creates or updates all tables.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.ClientProfile{},
		&models.Project{},
		&models.Remark{},
		&models.ActivityLog{},
		&models.ClientStatus{},
		&models.CallLog{},
		&models.Prospect{},
		&models.EmailLog{},
		&models.SentEmail{},
	)
}
