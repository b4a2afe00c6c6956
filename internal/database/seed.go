package database

import (
	"log"

	"outreach-crm/internal/models"

	"gorm.io/gorm"
)

// SeedStatuses inserts the default client status options when none exist.
func SeedStatuses(db *gorm.DB) {
	var count int64
	if err := db.Model(&models.ClientStatus{}).Count(&count).Error; err != nil {
		log.Printf("Status seed note: %v", err)
		return
	}
	if count > 0 {
		return
	}

	log.Println("Seeding default client statuses...")
	defaults := []models.ClientStatus{
		{Name: "Active", Color: "bg-green-500"},
		{Name: "Hold", Color: "bg-orange-500"},
		{Name: "Pending", Color: "bg-blue-500"},
	}
	for _, s := range defaults {
		if err := db.Create(&s).Error; err != nil {
			log.Printf("Error seeding status %s: %v", s.Name, err)
		}
	}
}
