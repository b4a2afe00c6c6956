package main

import (
	"log"

	"outreach-crm/internal/config"
	"outreach-crm/internal/database"
)

// Resets Postgres id sequences after a manual data import. Only tables
// with serial ids need this; prospects and email_logs use UUID keys.
func main() {
	cfg := config.LoadConfig()
	database.InitDB(cfg)
	db := database.DB

	tables := []string{
		"users",
		"client_profiles",
		"sent_emails",
		"activity_logs",
		"projects",
		"remarks",
		"call_logs",
		"client_statuses",
	}

	log.Println("Syncing PostgreSQL sequences...")

	for _, table := range tables {
		query := "SELECT setval(pg_get_serial_sequence('" + table + "', 'id'), coalesce(max(id), 0) + 1, false) FROM " + table
		if err := db.Exec(query).Error; err != nil {
			log.Printf("Error syncing sequence for %s: %v", table, err)
		} else {
			log.Printf("Successfully synced sequence for %s", table)
		}
	}

	log.Println("DONE!")
}
