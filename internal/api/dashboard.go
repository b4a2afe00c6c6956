package api

import (
	"net/http"
	"time"

	"outreach-crm/internal/database"
	"outreach-crm/internal/models"

	"github.com/gin-gonic/gin"
)

type DashboardHandler struct{}

func NewDashboardHandler() *DashboardHandler {
	return &DashboardHandler{}
}

func (h *DashboardHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "time": time.Now().UTC()})
}

type dayCount struct {
	Day   string `json:"day"`
	Count int64  `json:"count"`
}

// GetStats returns the headline counts plus a 7-day outreach chart.
// Employees and interns see only clients, not user administration data.
func (h *DashboardHandler) GetStats(c *gin.Context) {
	var totalClients, activeClients, totalProspects, emailsSent, pendingFollowups int64

	if err := database.DB.Model(&models.ClientProfile{}).Count(&totalClients).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	database.DB.Model(&models.ClientProfile{}).Where("status = ?", "Active").Count(&activeClients)
	database.DB.Model(&models.Prospect{}).Count(&totalProspects)
	database.DB.Model(&models.EmailLog{}).Count(&emailsSent)
	database.DB.Model(&models.CallLog{}).Where("followup_needed = ?", true).Count(&pendingFollowups)

	stats := gin.H{
		"total_clients":     totalClients,
		"active_clients":    activeClients,
		"total_prospects":   totalProspects,
		"emails_sent":       emailsSent,
		"pending_followups": pendingFollowups,
		"outreach_chart":    h.outreachChart(),
	}

	role := c.Query("role")
	if role == "Admin" || role == "" {
		var totalUsers int64
		database.DB.Model(&models.User{}).Count(&totalUsers)
		stats["total_users"] = totalUsers
	}

	c.JSON(http.StatusOK, stats)
}

// outreachChart buckets ledger entries per day over the trailing week.
func (h *DashboardHandler) outreachChart() []dayCount {
	chart := make([]dayCount, 0, 7)
	now := time.Now().UTC()
	for i := 6; i >= 0; i-- {
		dayStart := now.AddDate(0, 0, -i).Truncate(24 * time.Hour)
		dayEnd := dayStart.Add(24 * time.Hour)
		var count int64
		database.DB.Model(&models.EmailLog{}).
			Where("sent_at >= ? AND sent_at < ?", dayStart, dayEnd).
			Count(&count)
		chart = append(chart, dayCount{Day: dayStart.Format("2006-01-02"), Count: count})
	}
	return chart
}
